package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeJournal struct {
	events []Event
	err    error
}

func (f *fakeJournal) Record(_ context.Context, ev Event) error {
	f.events = append(f.events, ev)
	return f.err
}

// stepClock returns a clock that advances one second on every call.
func stepClock(start time.Time) func() time.Time {
	cur := start
	return func() time.Time {
		cur = cur.Add(time.Second)
		return cur
	}
}

func ptr(s string) *string { return &s }

func newTestStore(opts ...Option) *Store {
	base := []Option{
		WithClock(stepClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))),
		WithLogger(slog.New(slog.DiscardHandler)),
	}
	return NewStore(append(base, opts...)...)
}

func TestCreate_AssignsSequentialIDs(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	first, err := s.Create(ctx, NewCreateRequest("claude-code", "browser", "hello", ""))
	require.NoError(t, err)
	require.EqualValues(t, 1, first.ID)
	require.Equal(t, StatusUnread, first.Status)
	require.Equal(t, DefaultType, first.Type)
	require.Nil(t, first.ReadAt)

	second, err := s.Create(ctx, NewCreateRequest("browser", "claude-code", "hi", "command"))
	require.NoError(t, err)
	require.EqualValues(t, 2, second.ID)
	require.Equal(t, "command", second.Type)
}

func TestCreate_MissingFieldAppendsNothing(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	cases := []CreateRequest{
		{To: ptr("b"), Content: ptr("c")},
		{From: ptr("a"), Content: ptr("c")},
		{From: ptr("a"), To: ptr("b")},
		{},
	}
	for _, req := range cases {
		_, err := s.Create(ctx, req)
		require.ErrorIs(t, err, ErrMissingField)
	}
	require.Empty(t, s.List(Filter{}))

	m, err := s.Create(ctx, NewCreateRequest("a", "b", "c", ""))
	require.NoError(t, err)
	require.EqualValues(t, 1, m.ID, "rejected creates must not consume ids")
}

func TestCreate_AcceptsExplicitEmptyStrings(t *testing.T) {
	s := newTestStore()
	m, err := s.Create(context.Background(), NewCreateRequest("", "", "", ""))
	require.NoError(t, err)
	require.EqualValues(t, 1, m.ID)
}

func TestCreate_LogsNotice(t *testing.T) {
	var buf bytes.Buffer
	s := newTestStore(WithLogger(slog.New(slog.NewJSONHandler(&buf, nil))))

	_, err := s.Create(context.Background(), NewCreateRequest("claude-code", "browser", "hello", ""))
	require.NoError(t, err)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.EqualValues(t, 1, line["id"])
	require.Equal(t, "claude-code", line["from"])
	require.Equal(t, "browser", line["to"])
}

func TestIDsNeverReused(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	for range 3 {
		_, err := s.Create(ctx, NewCreateRequest("a", "b", "c", ""))
		require.NoError(t, err)
	}
	require.True(t, s.Delete(ctx, 3))

	m, err := s.Create(ctx, NewCreateRequest("a", "b", "c", ""))
	require.NoError(t, err)
	require.EqualValues(t, 4, m.ID)
}

func TestList_FiltersPreserveOrder(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	senders := []string{"A", "B", "A", "C", "A"}
	for i, from := range senders {
		to := "x"
		if i%2 == 1 {
			to = "y"
		}
		_, err := s.Create(ctx, NewCreateRequest(from, to, "c", ""))
		require.NoError(t, err)
	}

	fromA := s.List(Filter{From: ptr("A")})
	require.Len(t, fromA, 3)
	require.Equal(t, []int64{1, 3, 5}, ids(fromA))

	toY := s.List(Filter{To: ptr("y")})
	require.Equal(t, []int64{2, 4}, ids(toY))

	both := s.List(Filter{From: ptr("A"), To: ptr("x")})
	require.Equal(t, []int64{1, 3, 5}, ids(both))

	require.Empty(t, s.List(Filter{From: ptr("")}))
	require.Len(t, s.List(Filter{}), 5)
}

func TestUnread_FiltersByRecipient(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	_, _ = s.Create(ctx, NewCreateRequest("a", "browser", "1", ""))
	_, _ = s.Create(ctx, NewCreateRequest("a", "cli", "2", ""))
	_, _ = s.Create(ctx, NewCreateRequest("a", "browser", "3", ""))
	_, err := s.MarkRead(ctx, 1)
	require.NoError(t, err)

	require.Equal(t, []int64{3}, ids(s.Unread("browser")))
	require.Equal(t, []int64{2, 3}, ids(s.Unread("")))
}

func TestGet_NotFound(t *testing.T) {
	s := newTestStore()
	_, err := s.Get(42)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMarkRead_OnceAndIrreversible(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	_, err := s.Create(ctx, NewCreateRequest("a", "b", "c", ""))
	require.NoError(t, err)

	read, err := s.MarkRead(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, StatusRead, read.Status)
	require.NotNil(t, read.ReadAt)
	firstReadAt := *read.ReadAt

	again, err := s.MarkRead(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, StatusRead, again.Status)
	require.Equal(t, firstReadAt, *again.ReadAt)

	got, err := s.Get(1)
	require.NoError(t, err)
	require.Equal(t, StatusRead, got.Status)

	_, err = s.MarkRead(ctx, 99)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestReturnedRecordsAreCopies(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()
	_, _ = s.Create(ctx, NewCreateRequest("a", "b", "c", ""))

	got, err := s.Get(1)
	require.NoError(t, err)
	got.Status = StatusRead
	got.Content = "changed"

	again, err := s.Get(1)
	require.NoError(t, err)
	require.Equal(t, StatusUnread, again.Status)
	require.Equal(t, "c", again.Content)
}

func TestDelete_Idempotent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()
	_, _ = s.Create(ctx, NewCreateRequest("a", "b", "c", ""))

	require.False(t, s.Delete(ctx, 7))
	require.True(t, s.Delete(ctx, 1))
	require.False(t, s.Delete(ctx, 1))

	_, err := s.Get(1)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()
	require.Equal(t, Stats{}, s.Stats())

	_, _ = s.Create(ctx, NewCreateRequest("a", "b", "1", ""))
	_, _ = s.Create(ctx, NewCreateRequest("a", "b", "2", ""))
	_, _ = s.MarkRead(ctx, 2)
	require.Equal(t, Stats{Total: 2, Unread: 1}, s.Stats())
}

func TestJournal_RecordsMutations(t *testing.T) {
	ctx := context.Background()
	j := &fakeJournal{}
	s := newTestStore(WithJournal(j))

	_, _ = s.Create(ctx, NewCreateRequest("a", "b", "c", ""))
	_, _ = s.MarkRead(ctx, 1)
	_, _ = s.MarkRead(ctx, 1)
	s.Delete(ctx, 1)
	s.Delete(ctx, 1)

	kinds := make([]EventKind, 0, len(j.events))
	for _, ev := range j.events {
		require.EqualValues(t, 1, ev.MessageID)
		require.Equal(t, "a", ev.From)
		require.Equal(t, "b", ev.To)
		kinds = append(kinds, ev.Kind)
	}
	require.Equal(t, []EventKind{EventCreated, EventRead, EventDeleted}, kinds)
}

func TestJournal_FailureDoesNotFailRequest(t *testing.T) {
	j := &fakeJournal{err: errors.New("disk full")}
	s := newTestStore(WithJournal(j))

	m, err := s.Create(context.Background(), NewCreateRequest("a", "b", "c", ""))
	require.NoError(t, err)
	require.EqualValues(t, 1, m.ID)
	require.Len(t, s.List(Filter{}), 1)
}

func TestTimestamp_JSON(t *testing.T) {
	at := Timestamp(time.Date(2025, 3, 1, 12, 30, 5, 123456000, time.UTC))
	b, err := json.Marshal(at)
	require.NoError(t, err)
	require.Equal(t, `"2025-03-01T12:30:05.123456Z"`, string(b))

	var back Timestamp
	require.NoError(t, json.Unmarshal(b, &back))
	require.True(t, at.Time().Equal(back.Time()))
}

func TestMessage_ReadAtOmittedUntilRead(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()
	m, _ := s.Create(ctx, NewCreateRequest("a", "b", "c", ""))

	b, err := json.Marshal(m)
	require.NoError(t, err)
	require.NotContains(t, string(b), "readAt")

	m, _ = s.MarkRead(ctx, m.ID)
	b, err = json.Marshal(m)
	require.NoError(t, err)
	require.Contains(t, string(b), `"readAt":"2025-03-01T12:00:02.000000Z"`)
}

func ids(msgs []Message) []int64 {
	out := make([]int64, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.ID)
	}
	return out
}
