package store

import (
	"context"

	"kioskgate/internal/session"
	id "kioskgate/pkg/domain"
	dErrors "kioskgate/pkg/domain-errors"
)

var (
	// ErrDeviceInUse is returned by TryCreateActive when an active session
	// already exists for the device. Creation is compare-and-set against the
	// store, never an overwrite: the device process may have restarted while
	// a session was live elsewhere.
	ErrDeviceInUse = dErrors.New(dErrors.CodeDeviceInUse, "device already has an active session")

	// ErrNoActiveSession is returned by EndActive and GetActive when the
	// device has no active session.
	ErrNoActiveSession = dErrors.New(dErrors.CodeNotFound, "no active session for device")
)

// Store is the durable session record. Implementations must serialize
// per-device creation so the one-active-session-per-device invariant holds
// across processes, not just within one.
type Store interface {
	TryCreateActive(ctx context.Context, deviceID id.DeviceID, identityID id.IdentityID, sessionType id.SessionType) (*session.DeviceSession, error)
	EndActive(ctx context.Context, deviceID id.DeviceID) (*session.DeviceSession, error)
	GetActive(ctx context.Context, deviceID id.DeviceID) (*session.DeviceSession, error)
}
