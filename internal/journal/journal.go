// Package journal provides a SQLite-based audit trail of relay mutations.
// The database file and table are created on first open. The relay never
// reads its state back from here; the journal only answers "what happened".
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/glebarez/go-sqlite"

	"github.com/comigor/bridge-go/internal/relay"
)

// Entry is one stored journal row.
type Entry struct {
	Seq       int64
	Kind      relay.EventKind
	MessageID int64
	From      string
	To        string
	At        time.Time
}

// Journal appends relay.Events to a SQLite table.
type Journal struct {
	db  *sql.DB
	log *slog.Logger
}

var _ relay.Journal = (*Journal)(nil)

// Open opens (creating if needed) the journal database at path.
func Open(path string, log *slog.Logger) (*Journal, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?_busy_timeout=10000&_fk=1")
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}
	if _, err = db.Exec(`CREATE TABLE IF NOT EXISTS events (
        seq INTEGER PRIMARY KEY AUTOINCREMENT,
        kind TEXT NOT NULL,
        message_id INTEGER NOT NULL,
        sender TEXT,
        recipient TEXT,
        at DATETIME NOT NULL
    );`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create journal table: %w", err)
	}
	log.Info("sqlite journal initialized", "path", path)
	return &Journal{db: db, log: log}, nil
}

// Record persists ev.
func (j *Journal) Record(ctx context.Context, ev relay.Event) error {
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO events (kind, message_id, sender, recipient, at) VALUES (?,?,?,?,?);`,
		string(ev.Kind), ev.MessageID, ev.From, ev.To, ev.At.UTC())
	if err != nil {
		return fmt.Errorf("insert journal event: %w", err)
	}
	j.log.Debug("journal event stored", "kind", ev.Kind, "id", ev.MessageID)
	return nil
}

// Events returns up to limit most recent entries, oldest first. A limit of
// zero or less returns everything.
func (j *Journal) Events(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := j.db.QueryContext(ctx, `SELECT seq, kind, message_id, sender, recipient, at FROM (
        SELECT * FROM events ORDER BY seq DESC LIMIT ?
    ) ORDER BY seq ASC;`, limit)
	if err != nil {
		return nil, fmt.Errorf("query journal: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var kind string
		if err := rows.Scan(&e.Seq, &kind, &e.MessageID, &e.From, &e.To, &e.At); err != nil {
			return nil, fmt.Errorf("scan journal row: %w", err)
		}
		e.Kind = relay.EventKind(kind)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Close releases the database handle.
func (j *Journal) Close() error {
	return j.db.Close()
}
