package relay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

var validate = validator.New()

// Store owns the ordered message list and the id counter of one relay.
//
// Every method holds the same mutex for its whole duration, so operations
// apply one at a time in arrival order.
type Store struct {
	mu       sync.Mutex
	messages []*Message
	lastID   int64

	now     func() time.Time
	log     *slog.Logger
	journal Journal
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger that receives the per-message creation notice.
func WithLogger(log *slog.Logger) Option {
	return func(s *Store) { s.log = log }
}

// WithJournal attaches an audit trail. A nil journal is ignored.
func WithJournal(j Journal) Option {
	return func(s *Store) { s.journal = j }
}

// NewStore returns an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		messages: make([]*Message, 0),
		now:      time.Now,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates req, appends a new unread message and returns it.
func (s *Store) Create(ctx context.Context, req CreateRequest) (Message, error) {
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := lo.Map(verrs, func(fe validator.FieldError, _ int) string { return fe.Field() })
			return Message{}, fmt.Errorf("%w: %v", ErrMissingField, fields)
		}
		return Message{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastID++
	m := &Message{
		ID:        s.lastID,
		From:      *req.From,
		To:        *req.To,
		Content:   *req.Content,
		Type:      lo.FromPtrOr(req.Type, DefaultType),
		Status:    StatusUnread,
		Timestamp: Timestamp(s.now().UTC()),
	}
	s.messages = append(s.messages, m)

	s.log.Info("new message", "id", m.ID, "from", m.From, "to", m.To)
	s.record(ctx, EventCreated, m)
	return m.clone(), nil
}

// List returns the messages matching f in insertion order.
func (s *Store) List(f Filter) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	return lo.FilterMap(s.messages, func(m *Message, _ int) (Message, bool) {
		return m.clone(), f.match(m)
	})
}

// Unread returns unread messages in insertion order. An empty to matches
// every recipient.
func (s *Store) Unread(to string) []Message {
	f := Filter{}
	if to != "" {
		f.To = &to
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return lo.FilterMap(s.messages, func(m *Message, _ int) (Message, bool) {
		return m.clone(), m.IsUnread() && f.match(m)
	})
}

// Get returns the message with id or ErrNotFound.
func (s *Store) Get(id int64) (Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.find(id)
	if !ok {
		return Message{}, ErrNotFound
	}
	return m.clone(), nil
}

// MarkRead moves the message with id to read and returns it. Marking a read
// message again leaves it, including readAt, untouched.
func (s *Store) MarkRead(ctx context.Context, id int64) (Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.find(id)
	if !ok {
		return Message{}, ErrNotFound
	}
	changed, err := markRead(ctx, m, s.now)
	if err != nil {
		return Message{}, fmt.Errorf("mark message %d read: %w", id, err)
	}
	if changed {
		s.record(ctx, EventRead, m)
	}
	return m.clone(), nil
}

// Delete removes the message with id and reports whether it existed. Ids are
// never handed out again.
func (s *Store) Delete(ctx context.Context, id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.find(id)
	if !ok {
		s.log.Debug("delete of unknown message", "id", id)
		return false
	}
	s.messages = lo.Reject(s.messages, func(other *Message, _ int) bool { return other.ID == id })
	s.record(ctx, EventDeleted, m)
	return true
}

// Stats counts all and unread messages.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Stats{
		Total:  len(s.messages),
		Unread: lo.CountBy(s.messages, func(m *Message) bool { return m.IsUnread() }),
	}
}

func (s *Store) find(id int64) (*Message, bool) {
	return lo.Find(s.messages, func(m *Message) bool { return m.ID == id })
}

func (s *Store) record(ctx context.Context, kind EventKind, m *Message) {
	if s.journal == nil {
		return
	}
	ev := Event{Kind: kind, MessageID: m.ID, From: m.From, To: m.To, At: s.now().UTC()}
	if err := s.journal.Record(ctx, ev); err != nil {
		s.log.Warn("journal write failed", "kind", kind, "id", m.ID, "error", err)
	}
}
