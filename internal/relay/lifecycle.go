package relay

import (
	"context"
	"time"

	"github.com/qmuntal/stateless" // FSM library
)

// Trigger is an event in a message's lifecycle.
type Trigger string

// TriggerMarkRead moves an unread message to read. Read messages ignore it.
const TriggerMarkRead Trigger = "MarkRead"

// lifecycle wires a state machine onto m.Status. The machine owns no state of
// its own; reads and writes go straight to the record.
//
//	unread --MarkRead--> read
//	read   --MarkRead--> (ignored)
func lifecycle(m *Message, now func() time.Time) *stateless.StateMachine {
	fsm := stateless.NewStateMachineWithExternalStorage(
		func(_ context.Context) (stateless.State, error) {
			return m.Status, nil
		},
		func(_ context.Context, state stateless.State) error {
			m.Status = state.(Status)
			return nil
		},
		stateless.FiringImmediate,
	)

	fsm.Configure(StatusUnread).
		Permit(TriggerMarkRead, StatusRead)

	fsm.Configure(StatusRead).
		OnEntryFrom(TriggerMarkRead, func(_ context.Context, _ ...any) error {
			at := Timestamp(now().UTC())
			m.ReadAt = &at
			return nil
		}).
		Ignore(TriggerMarkRead)

	return fsm
}

// markRead fires TriggerMarkRead on m and reports whether the status changed.
func markRead(ctx context.Context, m *Message, now func() time.Time) (bool, error) {
	before := m.Status
	if err := lifecycle(m, now).FireCtx(ctx, TriggerMarkRead); err != nil {
		return false, err
	}
	return before != m.Status, nil
}
