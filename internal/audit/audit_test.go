package audit

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "kioskgate/pkg/domain"
)

type flakyStore struct {
	*InMemoryStore
	failures int
}

func (s *flakyStore) Append(ctx context.Context, event Event) error {
	if s.failures > 0 {
		s.failures--
		return errors.New("disk full")
	}
	return s.InMemoryStore.Append(ctx, event)
}

func waitForEvents(t *testing.T, store Store, deviceID id.DeviceID, n int) []Event {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		events, err := store.ListByDevice(context.Background(), deviceID)
		require.NoError(t, err)
		if len(events) >= n {
			return events
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("store never reached %d events", n)
	return nil
}

func TestWorkerPersistsEmittedEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	inbox := make(chan Event, 8)
	store := NewInMemoryStore()
	worker := NewWorker(store, inbox, log.New(io.Discard, "", 0))
	go worker.Run(ctx)

	pub := NewPublisher(inbox)
	pub.Outcome("bus-14", "op-1", KindLoginSucceeded, "")
	pub.Outcome("bus-14", "op-1", KindLogoutMismatch, "identity_mismatch")

	events := waitForEvents(t, store, "bus-14", 2)
	assert.Equal(t, KindLoginSucceeded, events[0].Kind)
	assert.Equal(t, KindLogoutMismatch, events[1].Kind)
	assert.Equal(t, "identity_mismatch", events[1].Reason)
	assert.False(t, events[0].Timestamp.IsZero())
}

func TestEmitDropsWhenInboxFull(t *testing.T) {
	inbox := make(chan Event, 1)
	pub := NewPublisher(inbox)

	assert.True(t, pub.Emit(Event{DeviceID: "bus-14", Kind: KindLoginFailed}))
	assert.False(t, pub.Emit(Event{DeviceID: "bus-14", Kind: KindLoginFailed}),
		"a full inbox must drop, not block")
}

func TestWorkerDropsFailedAppends(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	inbox := make(chan Event, 8)
	store := &flakyStore{InMemoryStore: NewInMemoryStore(), failures: 1}
	worker := NewWorker(store, inbox, log.New(io.Discard, "", 0))
	go worker.Run(ctx)

	pub := NewPublisher(inbox)
	pub.Outcome("gate-1", "op-2", KindLoginFailed, "invalid_pin")
	pub.Outcome("gate-1", "op-2", KindLoginSucceeded, "")

	// The first event hit the failing append and was dropped; the worker
	// kept consuming.
	events := waitForEvents(t, store, "gate-1", 1)
	assert.Len(t, events, 1)
	assert.Equal(t, KindLoginSucceeded, events[0].Kind)
}
