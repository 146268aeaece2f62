package audit

import (
	"context"
	"sync"

	id "kioskgate/pkg/domain"
)

// InMemoryStore keeps audit events per device for tests and single-kiosk use.
type InMemoryStore struct {
	mu     sync.RWMutex
	events map[id.DeviceID][]Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{events: make(map[id.DeviceID][]Event)}
}

func (s *InMemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.DeviceID] = append(s.events[event.DeviceID], event)
	return nil
}

func (s *InMemoryStore) ListByDevice(_ context.Context, deviceID id.DeviceID) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Event, len(s.events[deviceID]))
	copy(out, s.events[deviceID])
	return out, nil
}
