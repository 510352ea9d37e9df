package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		" error ": slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		require.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}

func TestNew_WritesJSONAboveLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelWarn)

	log.Info("dropped")
	require.Zero(t, buf.Len())

	log.Warn("kept", "id", 7)
	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "kept", line["msg"])
	require.EqualValues(t, 7, line["id"])
}

func TestSetLevel(t *testing.T) {
	t.Cleanup(func() { SetLevel("info") })

	SetLevel("error")
	require.Equal(t, slog.LevelError, levelVar.Level())
	SetLevel("debug")
	require.Equal(t, slog.LevelDebug, levelVar.Level())
}
