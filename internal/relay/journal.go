package relay

import (
	"context"
	"time"
)

// EventKind names a store mutation.
type EventKind string

const (
	EventCreated EventKind = "created"
	EventRead    EventKind = "read"
	EventDeleted EventKind = "deleted"
)

// Event is one journaled mutation.
type Event struct {
	Kind      EventKind
	MessageID int64
	From      string
	To        string
	At        time.Time
}

// Journal receives every mutation the store applies. It is an audit trail
// only; the store never reads it back.
type Journal interface {
	Record(ctx context.Context, ev Event) error
}
