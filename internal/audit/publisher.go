package audit

import (
	"time"

	id "kioskgate/pkg/domain"
)

// Publisher hands audit events to a bounded inbox consumed by the Worker.
// Authentication must never block on audit persistence, so a full inbox
// drops the event rather than stalling the login path.
type Publisher struct {
	inbox chan<- Event
	now   func() time.Time
}

func NewPublisher(inbox chan<- Event) *Publisher {
	return &Publisher{inbox: inbox, now: time.Now}
}

// Emit enqueues the event, stamping the timestamp if unset. Returns false
// when the inbox was full and the event was dropped.
func (p *Publisher) Emit(event Event) bool {
	if event.Timestamp.IsZero() {
		event.Timestamp = p.now().UTC()
	}
	select {
	case p.inbox <- event:
		return true
	default:
		return false
	}
}

// Outcome builds and enqueues an event in one call.
func (p *Publisher) Outcome(deviceID id.DeviceID, identityID id.IdentityID, kind Kind, reason string) {
	p.Emit(Event{
		DeviceID:   deviceID,
		IdentityID: identityID,
		Kind:       kind,
		Reason:     reason,
	})
}
