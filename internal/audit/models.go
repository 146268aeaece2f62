package audit

import (
	"context"
	"time"

	id "kioskgate/pkg/domain"
)

// Kind enumerates the authentication outcomes worth an audit line. Scan
// outcomes live in the attendance ledger, not here.
type Kind string

const (
	KindLoginSucceeded  Kind = "login_succeeded"
	KindLoginFailed     Kind = "login_failed"
	KindLogoutSucceeded Kind = "logout_succeeded"
	KindLogoutMismatch  Kind = "logout_mismatch"
	KindSessionResumed  Kind = "session_resumed"
)

// Event is emitted from the authenticator to capture sign-in activity on a
// device. Keep it transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp  time.Time     `json:"timestamp"`
	DeviceID   id.DeviceID   `json:"device_id"`
	IdentityID id.IdentityID `json:"identity_id,omitempty"`
	Kind       Kind          `json:"kind"`
	// Reason carries the failure code for failed outcomes.
	Reason string `json:"reason,omitempty"`
}

// Store persists audit events, append-only.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByDevice(ctx context.Context, deviceID id.DeviceID) ([]Event, error)
}
