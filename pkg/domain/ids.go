package domain

import (
	"strings"

	"github.com/google/uuid"

	dErrors "kioskgate/pkg/domain-errors"
)

// IdentityID is the directory's primary key for a person. The hosted backend
// issues opaque strings (not UUIDs) so this stays a typed string.
type IdentityID string

func (id IdentityID) String() string { return string(id) }
func (id IdentityID) IsNil() bool    { return id == "" }

// DeviceID names one physical kiosk (bus unit, gate terminal).
type DeviceID string

func (id DeviceID) String() string { return string(id) }
func (id DeviceID) IsNil() bool    { return id == "" }

// SessionID identifies one operator session on one device.
type SessionID uuid.UUID

func NewSessionID() SessionID { return SessionID(uuid.New()) }

func (id SessionID) String() string { return uuid.UUID(id).String() }
func (id SessionID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

// MarshalText keeps SessionID as its canonical string form in JSON payloads
// (defined types do not inherit uuid.UUID's marshalling).
func (id SessionID) MarshalText() ([]byte, error) {
	return []byte(uuid.UUID(id).String()), nil
}

func (id *SessionID) UnmarshalText(text []byte) error {
	u, err := uuid.ParseBytes(text)
	if err != nil {
		return err
	}
	*id = SessionID(u)
	return nil
}

// ParseSessionID validates a session ID string. IDs must be valid, non-nil
// UUIDs; anything else is rejected at the trust boundary.
func ParseSessionID(s string) (SessionID, error) {
	u, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return SessionID{}, dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid session id")
	}
	if u == uuid.Nil {
		return SessionID{}, dErrors.New(dErrors.CodeInvalidInput, "nil session id")
	}
	return SessionID(u), nil
}

// EventID identifies one attendance event in the ledger.
type EventID uuid.UUID

func NewEventID() EventID { return EventID(uuid.New()) }

func (id EventID) String() string { return uuid.UUID(id).String() }

func (id EventID) MarshalText() ([]byte, error) {
	return []byte(uuid.UUID(id).String()), nil
}

func (id *EventID) UnmarshalText(text []byte) error {
	u, err := uuid.ParseBytes(text)
	if err != nil {
		return err
	}
	*id = EventID(u)
	return nil
}
