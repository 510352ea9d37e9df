package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

var levelVar = new(slog.LevelVar)

// L is the process-wide logger. Its level follows SetLevel.
var L = New(os.Stdout, levelVar)

// New builds a JSON logger writing to w. Components take a *slog.Logger so
// tests can pass one backed by a buffer.
func New(w io.Writer, level slog.Leveler) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// ParseLevel maps debug, info, warn and error to slog levels. Unknown values
// fall back to info.
func ParseLevel(lvl string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(lvl)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SetLevel configures the global log level (debug, info, warn, error).
func SetLevel(lvl string) {
	levelVar.Set(ParseLevel(lvl))
}

// SetOutput points L at w, keeping the level set by SetLevel. The MCP stdio
// server uses it to move logs off stdout.
func SetOutput(w io.Writer) {
	L = New(w, levelVar)
}
