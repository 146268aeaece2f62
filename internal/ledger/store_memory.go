package ledger

import (
	"context"
	"sync"

	id "kioskgate/pkg/domain"
)

// InMemoryLedger collects events in a slice for tests and offline use.
type InMemoryLedger struct {
	mu     sync.Mutex
	events []AttendanceEvent

	// FailNext makes the next Append return the given error, for exercising
	// the coordinator's write-failure path.
	FailNext error
}

func NewInMemoryLedger() *InMemoryLedger {
	return &InMemoryLedger{}
}

func (l *InMemoryLedger) Append(_ context.Context, event AttendanceEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.FailNext != nil {
		err := l.FailNext
		l.FailNext = nil
		return err
	}
	l.events = append(l.events, event)
	return nil
}

// Events returns a snapshot of everything appended so far.
func (l *InMemoryLedger) Events() []AttendanceEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]AttendanceEvent, len(l.events))
	copy(out, l.events)
	return out
}

// EventsForSubject filters the snapshot by subject identity.
func (l *InMemoryLedger) EventsForSubject(subject id.IdentityID) []AttendanceEvent {
	var out []AttendanceEvent
	for _, e := range l.Events() {
		if e.SubjectID == subject {
			out = append(out, e)
		}
	}
	return out
}
