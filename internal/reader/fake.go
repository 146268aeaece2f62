package reader

import (
	"context"
	"sync"

	"kioskgate/internal/scan"
	id "kioskgate/pkg/domain"
	dErrors "kioskgate/pkg/domain-errors"
)

// Fake is a scriptable Reader for tests and bench rigs: Tap delivers a
// reading synchronously to the current subscriber, so a test returns only
// after the reading has been handed to the coordinator.
type Fake struct {
	mu     sync.Mutex
	onRead func(raw string)
	queued []string
}

func NewFake() *Fake {
	return &Fake{}
}

type fakeSubscription struct {
	fake *Fake
}

func (s *fakeSubscription) Unsubscribe() {
	s.fake.mu.Lock()
	s.fake.onRead = nil
	s.fake.mu.Unlock()
}

func (f *Fake) Subscribe(_ id.DeviceID, onRead func(raw string)) (scan.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.onRead != nil {
		return nil, dErrors.New(dErrors.CodeConflict, "reader already subscribed")
	}
	f.onRead = onRead
	return &fakeSubscription{fake: f}, nil
}

func (f *Fake) ReadOnce(_ context.Context, _ id.DeviceID) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.queued) == 0 {
		return "", dErrors.New(dErrors.CodeReaderTimeout, "no queued tap")
	}
	raw := f.queued[0]
	f.queued = f.queued[1:]
	return raw, nil
}

// QueueTap stages a reading for the next ReadOnce call.
func (f *Fake) QueueTap(raw string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queued = append(f.queued, raw)
}

// Tap delivers a reading to the live subscription. Returns false when
// nothing is subscribed.
func (f *Fake) Tap(raw string) bool {
	f.mu.Lock()
	cb := f.onRead
	f.mu.Unlock()
	if cb == nil {
		return false
	}
	cb(raw)
	return true
}

// Subscribed reports whether a subscription is live.
func (f *Fake) Subscribed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.onRead != nil
}
