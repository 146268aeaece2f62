package store

import (
	"context"
	"sync"
	"time"

	"kioskgate/internal/session"
	id "kioskgate/pkg/domain"
)

// InMemoryStore keeps active sessions in a map. Suitable for tests and for a
// single-kiosk deployment that accepts losing the session on restart.
type InMemoryStore struct {
	mu     sync.Mutex
	active map[id.DeviceID]*session.DeviceSession
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{active: make(map[id.DeviceID]*session.DeviceSession)}
}

func (s *InMemoryStore) TryCreateActive(_ context.Context, deviceID id.DeviceID, identityID id.IdentityID, sessionType id.SessionType) (*session.DeviceSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.active[deviceID]; ok && existing.Active() {
		return nil, ErrDeviceInUse
	}
	sess := &session.DeviceSession{
		ID:          id.NewSessionID(),
		DeviceID:    deviceID,
		IdentityID:  identityID,
		SessionType: sessionType,
		Status:      session.StatusActive,
		StartedAt:   time.Now().UTC(),
	}
	s.active[deviceID] = sess
	return cloneSession(sess), nil
}

func (s *InMemoryStore) EndActive(_ context.Context, deviceID id.DeviceID) (*session.DeviceSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.active[deviceID]
	if !ok || !sess.Active() {
		return nil, ErrNoActiveSession
	}
	sess.Status = session.StatusEnded
	sess.EndedAt = time.Now().UTC()
	delete(s.active, deviceID)
	return cloneSession(sess), nil
}

func (s *InMemoryStore) GetActive(_ context.Context, deviceID id.DeviceID) (*session.DeviceSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.active[deviceID]
	if !ok || !sess.Active() {
		return nil, ErrNoActiveSession
	}
	return cloneSession(sess), nil
}

func cloneSession(sess *session.DeviceSession) *session.DeviceSession {
	c := *sess
	return &c
}
