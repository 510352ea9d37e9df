// Package relay holds the message records exchanged between two cooperating
// agents and the store that owns them.
//
// A Store keeps one insertion-ordered list per process. Records are created
// unread, may be marked read exactly once, and disappear on delete or when
// the process exits.
package relay

import (
	"strings"
	"time"
)

// Status is the read state of a message.
type Status string

const (
	StatusUnread Status = "unread"
	StatusRead   Status = "read"
)

// DefaultType is used when a message is created without a type.
const DefaultType = "text"

// TimeLayout is the wire format of timestamps: UTC, microseconds, trailing Z.
const TimeLayout = "2006-01-02T15:04:05.000000Z"

// Timestamp marshals as TimeLayout and parses any RFC 3339 value.
type Timestamp time.Time

func (t Timestamp) Time() time.Time { return time.Time(t) }

func (t Timestamp) String() string { return time.Time(t).UTC().Format(TimeLayout) }

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return err
	}
	*t = Timestamp(parsed.UTC())
	return nil
}

// Message is one relayed record.
type Message struct {
	ID        int64      `json:"id"`
	From      string     `json:"from"`
	To        string     `json:"to"`
	Content   string     `json:"content"`
	Type      string     `json:"type"`
	Status    Status     `json:"status"`
	Timestamp Timestamp  `json:"timestamp"`
	ReadAt    *Timestamp `json:"readAt,omitempty"`
}

// IsUnread reports whether m has not been marked read yet.
func (m Message) IsUnread() bool { return m.Status == StatusUnread }

func (m Message) clone() Message {
	if m.ReadAt != nil {
		at := *m.ReadAt
		m.ReadAt = &at
	}
	return m
}

// CreateRequest is the body of a create call. Pointers distinguish an absent
// field from an explicitly empty one; only absence is rejected.
type CreateRequest struct {
	From    *string `json:"from" validate:"required"`
	To      *string `json:"to" validate:"required"`
	Content *string `json:"content" validate:"required"`
	Type    *string `json:"type,omitempty"`
}

// NewCreateRequest builds a request with every required field present.
func NewCreateRequest(from, to, content, typ string) CreateRequest {
	req := CreateRequest{From: &from, To: &to, Content: &content}
	if typ != "" {
		req.Type = &typ
	}
	return req
}

// Filter selects messages by sender and recipient. A nil field matches
// everything; a non-nil field matches exactly, including the empty string.
type Filter struct {
	From *string
	To   *string
}

func (f Filter) match(m *Message) bool {
	if f.From != nil && m.From != *f.From {
		return false
	}
	if f.To != nil && m.To != *f.To {
		return false
	}
	return true
}

// Stats are the counters reported by the health endpoint.
type Stats struct {
	Total  int
	Unread int
}
