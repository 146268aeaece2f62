package audit

import (
	"context"
	"log"
)

// Worker consumes audit events from the inbox and persists them. A failed
// append is logged and the event dropped; audit is best-effort by contract
// and must never wedge the device.
type Worker struct {
	store Store
	inbox <-chan Event
	log   *log.Logger
}

func NewWorker(store Store, inbox <-chan Event, logger *log.Logger) *Worker {
	return &Worker{store: store, inbox: inbox, log: logger}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.store.Append(ctx, event); err != nil {
				w.log.Printf("audit append failed (dropping event %s/%s): %v",
					event.DeviceID, event.Kind, err)
			}
		}
	}
}
