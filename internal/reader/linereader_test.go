package reader

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "kioskgate/pkg/domain"
	dErrors "kioskgate/pkg/domain-errors"
)

const lineDevice = id.DeviceID("gate-1")

func newLineRig(t *testing.T) (*LineReader, *io.PipeWriter) {
	t.Helper()
	pr, pw := io.Pipe()
	r := NewLineReader(lineDevice, pr)
	t.Cleanup(func() { pw.Close() })
	return r, pw
}

func collect(t *testing.T, r *LineReader) (<-chan string, func()) {
	t.Helper()
	got := make(chan string, 16)
	sub, err := r.Subscribe(lineDevice, func(raw string) { got <- raw })
	require.NoError(t, err)
	return got, sub.Unsubscribe
}

func waitLine(t *testing.T, ch <-chan string) string {
	t.Helper()
	select {
	case raw := <-ch:
		return raw
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a reading")
		return ""
	}
}

func TestLineReaderDeliversTrimmedLines(t *testing.T) {
	r, pw := newLineRig(t)
	got, unsub := collect(t, r)
	defer unsub()

	// CRLF endings and blank lines are what keyboard wedges actually emit.
	_, err := pw.Write([]byte("NFC-000012345\r\n\r\n  FC20001  \n"))
	require.NoError(t, err)

	assert.Equal(t, "NFC-000012345", waitLine(t, got))
	assert.Equal(t, "FC20001", waitLine(t, got))
}

func TestLineReaderSingleSubscription(t *testing.T) {
	r, _ := newLineRig(t)
	_, unsub := collect(t, r)

	_, err := r.Subscribe(lineDevice, func(string) {})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))

	unsub()
	_, err = r.Subscribe(lineDevice, func(string) {})
	assert.NoError(t, err)
}

func TestLineReaderRejectsOtherDevices(t *testing.T) {
	r, _ := newLineRig(t)

	_, err := r.Subscribe("bus-9", func(string) {})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))

	_, err = r.ReadOnce(context.Background(), "bus-9")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestReadOnceOutranksSubscription(t *testing.T) {
	r, pw := newLineRig(t)
	got, unsub := collect(t, r)
	defer unsub()

	type result struct {
		raw string
		err error
	}
	res := make(chan result, 1)
	go func() {
		raw, err := r.ReadOnce(context.Background(), lineDevice)
		res <- result{raw, err}
	}()

	time.Sleep(50 * time.Millisecond) // let ReadOnce register its waiter
	_, err := pw.Write([]byte("STF-000000042\n"))
	require.NoError(t, err)

	select {
	case out := <-res:
		require.NoError(t, out.err)
		assert.Equal(t, "STF-000000042", out.raw)
	case <-time.After(2 * time.Second):
		t.Fatal("ReadOnce never returned")
	}

	// The single-shot tap must not leak into the continuous feed.
	pw.Write([]byte("NFC-000012345\n"))
	assert.Equal(t, "NFC-000012345", waitLine(t, got))
}

// Every tap written while ReadOnce deadlines race the feed must surface
// somewhere: either as the ReadOnce result or in the continuous feed. A tap
// claimed by a waiter in the instant its deadline fires must not vanish.
func TestReadOnceDeadlineNeverLosesTaps(t *testing.T) {
	r, pw := newLineRig(t)
	got, unsub := collect(t, r)
	defer unsub()

	const rounds = 50
	for i := 0; i < rounds; i++ {
		tag := fmt.Sprintf("TAG-%03d", i)

		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(i%3)*time.Millisecond)
		res := make(chan string, 1)
		go func() {
			if raw, err := r.ReadOnce(ctx, lineDevice); err == nil {
				res <- raw
			}
			close(res)
		}()

		_, err := pw.Write([]byte(tag + "\n"))
		require.NoError(t, err)

		select {
		case raw, ok := <-res:
			if ok {
				assert.Equal(t, tag, raw)
				cancel()
				continue
			}
			// ReadOnce timed out: the tap must arrive on the feed.
			assert.Equal(t, tag, waitLine(t, got))
		case <-time.After(2 * time.Second):
			t.Fatalf("round %d: ReadOnce never settled", i)
		}
		cancel()
	}
}

func TestReadOnceDeadline(t *testing.T) {
	r, _ := newLineRig(t)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := r.ReadOnce(ctx, lineDevice)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeReaderTimeout))
}
