package ledger

import (
	"time"

	id "kioskgate/pkg/domain"
)

// Action is what an attendance event asserts about the subject.
type Action string

const (
	ActionCheckIn  Action = "check_in"
	ActionCheckOut Action = "check_out"
)

// AttendanceEvent is one immutable ledger entry. This subsystem only ever
// appends; nothing here updates or deletes.
type AttendanceEvent struct {
	ID        id.EventID    `json:"id"`
	DeviceID  id.DeviceID   `json:"device_id"`
	SessionID id.SessionID  `json:"session_id"`
	SubjectID id.IdentityID `json:"subject_id"`
	// OperatorID is the authenticated operator whose session recorded the
	// event, carried for audit.
	OperatorID id.IdentityID `json:"operator_id"`
	Action     Action        `json:"action"`
	OccurredAt time.Time     `json:"occurred_at"`
	// VerifiedByTap is false only for unusual, manually forced entries
	// recorded outside this subsystem; every path here produces true.
	VerifiedByTap bool `json:"verified_by_tap"`
}
