package reader

import (
	"bufio"
	"context"
	"io"
	"strings"
	"sync"

	"kioskgate/internal/scan"
	id "kioskgate/pkg/domain"
	dErrors "kioskgate/pkg/domain-errors"
)

// LineReader adapts keyboard-wedge and serial HID proximity readers, which
// present scans as a line of text terminated by a newline. One LineReader
// serves one device; there is a single logical reader session, so a
// subscription and a pending ReadOnce never coexist.
type LineReader struct {
	deviceID id.DeviceID

	mu     sync.Mutex
	onRead func(raw string)
	once   []chan string

	closed chan struct{}
	wg     sync.WaitGroup
}

func NewLineReader(deviceID id.DeviceID, src io.Reader) *LineReader {
	r := &LineReader{
		deviceID: deviceID,
		closed:   make(chan struct{}),
	}
	r.wg.Add(1)
	go r.pump(src)
	return r
}

func (r *LineReader) pump(src io.Reader) {
	defer r.wg.Done()
	scanner := bufio.NewScanner(src)
	for scanner.Scan() {
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}
		r.dispatch(raw)
	}
}

func (r *LineReader) dispatch(raw string) {
	r.mu.Lock()
	cb := r.onRead
	var waiter chan string
	if len(r.once) > 0 {
		waiter = r.once[0]
		r.once = r.once[1:]
	}
	r.mu.Unlock()

	// A single-shot read outranks the continuous feed: login and
	// confirmation prompts grab the next tap.
	if waiter != nil {
		waiter <- raw
		return
	}
	if cb != nil {
		cb(raw)
	}
}

type lineSubscription struct {
	reader *LineReader
}

func (s *lineSubscription) Unsubscribe() {
	s.reader.mu.Lock()
	s.reader.onRead = nil
	s.reader.mu.Unlock()
}

// Subscribe attaches the continuous callback. Only one subscription may be
// live at a time.
func (r *LineReader) Subscribe(deviceID id.DeviceID, onRead func(raw string)) (scan.Subscription, error) {
	if deviceID != r.deviceID {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "reader serves a different device")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.onRead != nil {
		return nil, dErrors.New(dErrors.CodeConflict, "reader already subscribed")
	}
	r.onRead = onRead
	return &lineSubscription{reader: r}, nil
}

// ReadOnce blocks for the next tap. A context deadline surfaces as
// reader_timeout and is not retried internally.
func (r *LineReader) ReadOnce(ctx context.Context, deviceID id.DeviceID) (string, error) {
	if deviceID != r.deviceID {
		return "", dErrors.New(dErrors.CodeInvalidInput, "reader serves a different device")
	}
	waiter := make(chan string, 1)
	r.mu.Lock()
	r.once = append(r.once, waiter)
	r.mu.Unlock()

	select {
	case raw := <-waiter:
		return raw, nil
	case <-ctx.Done():
		r.mu.Lock()
		claimed := true
		for i, w := range r.once {
			if w == waiter {
				r.once = append(r.once[:i], r.once[i+1:]...)
				claimed = false
				break
			}
		}
		r.mu.Unlock()
		if claimed {
			// dispatch popped this waiter just as the deadline fired and
			// its send is in flight. Take the tap and hand it back to the
			// feed so the reading is not lost.
			r.dispatch(<-waiter)
		}
		return "", dErrors.Wrap(ctx.Err(), dErrors.CodeReaderTimeout, "no tap before deadline")
	}
}
