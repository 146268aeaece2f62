package scan

import (
	"context"

	id "kioskgate/pkg/domain"
)

// Subscription is a live feed of tag readings from one physical reader.
// Unsubscribe must stop further callbacks and release the hardware; only one
// logical reader session is assumed per device, so a leaked subscription
// blocks every later operation, not just a resource.
type Subscription interface {
	Unsubscribe()
}

// Reader abstracts the proximity-card hardware. The continuous feed drives
// the scan loop; ReadOnce is the single-shot variant used by login, logout
// and manual confirmation prompts. Hardware timeouts surface as errors with
// code reader_timeout and are never retried internally.
type Reader interface {
	Subscribe(deviceID id.DeviceID, onRead func(raw string)) (Subscription, error)
	ReadOnce(ctx context.Context, deviceID id.DeviceID) (string, error)
}
