package session

import (
	"time"

	id "kioskgate/pkg/domain"
)

type Status string

const (
	StatusActive Status = "active"
	StatusEnded  Status = "ended"
)

// DeviceSession records which physical identity is operating which device.
// The store holds the authoritative copy; in-process copies are caches.
// Exactly one active session may exist per device at any time.
type DeviceSession struct {
	ID          id.SessionID   `json:"id"`
	DeviceID    id.DeviceID    `json:"device_id"`
	IdentityID  id.IdentityID  `json:"identity_id"`
	SessionType id.SessionType `json:"session_type"`
	Status      Status         `json:"status"`
	StartedAt   time.Time      `json:"started_at"`
	EndedAt     time.Time      `json:"ended_at,omitzero"`
}

func (s *DeviceSession) Active() bool { return s != nil && s.Status == StatusActive }
