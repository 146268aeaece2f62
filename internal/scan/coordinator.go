package scan

import (
	"context"
	"log"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"kioskgate/internal/identity"
	"kioskgate/internal/ledger"
	"kioskgate/internal/scan/metrics"
	"kioskgate/internal/session"
	sessionstore "kioskgate/internal/session/store"
	id "kioskgate/pkg/domain"
	dErrors "kioskgate/pkg/domain-errors"
)

// CoordinatorState is Idle or Scanning.
type CoordinatorState string

const (
	StateIdle     CoordinatorState = "idle"
	StateScanning CoordinatorState = "scanning"
)

// OutcomeKind classifies what one tag reading produced.
type OutcomeKind string

const (
	OutcomeRecorded            OutcomeKind = "recorded"
	OutcomeSubjectNotFound     OutcomeKind = "subject_not_found"
	OutcomeDuplicate           OutcomeKind = "duplicate"
	OutcomeLedgerFailed        OutcomeKind = "ledger_failed"
	OutcomeConfirmed           OutcomeKind = "confirmed"
	OutcomeWrongCard           OutcomeKind = "wrong_card"
	OutcomeConfirmationExpired OutcomeKind = "confirmation_expired"
)

// Outcome is what the operator-facing layer sees for each reading. For
// OutcomeLedgerFailed the resolved subject and the fully built event are
// attached so the caller can retry the exact same append.
type Outcome struct {
	Kind    OutcomeKind
	Raw     string
	Subject *identity.Record
	Event   *ledger.AttendanceEvent
	Err     error
}

const (
	readingBuffer = 64
	resultBuffer  = 128

	defaultConfirmTTL = 30 * time.Second
)

type coordMsg struct {
	raw    string
	sel    *identity.Record
	cancel bool
	reply  chan error
}

// Coordinator runs the always-on capture loop for one device. A single
// worker goroutine consumes readings and control messages from one channel,
// which makes the dedup-set and pending-confirmation checks linearizable:
// concurrent readings for the same device cannot race past each other.
// It never mutates the device session.
type Coordinator struct {
	deviceID  id.DeviceID
	action    ledger.Action
	directory identity.Directory
	sessions  sessionstore.Store
	ledger    ledger.Ledger
	reader    Reader

	confirmTTL time.Duration
	metrics    *metrics.Metrics
	tracer     trace.Tracer
	log        *log.Logger
	now        func() time.Time

	mu    sync.Mutex
	state CoordinatorState
	sub   Subscription
	msgs  chan coordMsg
	done  chan struct{}
	wg    sync.WaitGroup

	results chan Outcome
}

// CoordinatorOption configures optional collaborators.
type CoordinatorOption func(*Coordinator)

func WithMetrics(m *metrics.Metrics) CoordinatorOption {
	return func(c *Coordinator) { c.metrics = m }
}

func WithConfirmTTL(ttl time.Duration) CoordinatorOption {
	return func(c *Coordinator) {
		if ttl > 0 {
			c.confirmTTL = ttl
		}
	}
}

func WithLogger(logger *log.Logger) CoordinatorOption {
	return func(c *Coordinator) { c.log = logger }
}

func withClock(now func() time.Time) CoordinatorOption {
	return func(c *Coordinator) { c.now = now }
}

func NewCoordinator(deviceID id.DeviceID, action ledger.Action, directory identity.Directory, sessions sessionstore.Store, lgr ledger.Ledger, reader Reader, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		deviceID:   deviceID,
		action:     action,
		directory:  directory,
		sessions:   sessions,
		ledger:     lgr,
		reader:     reader,
		confirmTTL: defaultConfirmTTL,
		tracer:     otel.Tracer("kioskgate/scan"),
		log:        log.Default(),
		now:        time.Now,
		state:      StateIdle,
		results:    make(chan Outcome, resultBuffer),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current loop state.
func (c *Coordinator) State() CoordinatorState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Results delivers one Outcome per processed reading. The channel is never
// closed; outcomes are dropped (and counted) if the consumer falls behind,
// because the scan loop must not stall on a slow UI.
func (c *Coordinator) Results() <-chan Outcome {
	return c.results
}

// Start subscribes to the reader and launches the worker. The device must
// have an active session: scanning without an authenticated operator is an
// invalid state, and the session context stamps every event.
func (c *Coordinator) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateScanning {
		return dErrors.New(dErrors.CodeInvalidState, "already scanning")
	}

	sess, err := c.sessions.GetActive(ctx, c.deviceID)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return dErrors.New(dErrors.CodeInvalidState, "no active session; log in before scanning")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "load active session")
	}

	msgs := make(chan coordMsg, readingBuffer)
	done := make(chan struct{})

	sub, err := c.reader.Subscribe(c.deviceID, func(raw string) {
		select {
		case msgs <- coordMsg{raw: raw}:
		case <-done:
		}
	})
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "subscribe to reader")
	}

	c.sub = sub
	c.msgs = msgs
	c.done = done
	c.state = StateScanning

	// The worker owns a snapshot of the session for its whole run: a reading
	// still buffered when Stop is called must be stamped with the session it
	// was captured under, never a cleared one.
	c.wg.Add(1)
	go c.run(msgs, done, sess)
	return nil
}

// Stop unsubscribes from the reader and joins the worker. Idempotent from
// Idle; after it returns no further reader callbacks are processed.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	if c.state == StateIdle {
		c.mu.Unlock()
		return
	}
	sub := c.sub
	done := c.done
	c.sub = nil
	c.state = StateIdle
	c.mu.Unlock()

	// Unsubscribe first so the hardware stops calling back, then release
	// the worker.
	sub.Unsubscribe()
	close(done)
	c.wg.Wait()
}

// run is the single worker. All dedup and confirmation state lives here,
// unshared, for the lifetime of one scanning session.
func (c *Coordinator) run(msgs <-chan coordMsg, done <-chan struct{}, sess *session.DeviceSession) {
	defer c.wg.Done()

	seen := make(map[id.IdentityID]struct{})
	var pending *pendingConfirmation

	for {
		select {
		case <-done:
			return
		case msg := <-msgs:
			switch {
			case msg.sel != nil:
				if pending != nil && !c.expired(pending) {
					msg.reply <- dErrors.New(dErrors.CodeConflict, "a confirmation is already pending")
					continue
				}
				pending = &pendingConfirmation{
					expected:   msg.sel,
					candidates: identity.Canonicalize(msg.sel.StoredTag),
					armedAt:    c.now(),
				}
				msg.reply <- nil
			case msg.cancel:
				pending = nil
				msg.reply <- nil
			default:
				pending = c.processReading(sess, msg.raw, seen, pending)
			}
		}
	}
}

// processReading applies the per-reading state transitions and returns the
// surviving pending confirmation. Resolution and write failures are
// reported, never fatal: the loop keeps scanning.
func (c *Coordinator) processReading(sess *session.DeviceSession, raw string, seen map[id.IdentityID]struct{}, pending *pendingConfirmation) *pendingConfirmation {
	ctx, span := c.tracer.Start(context.Background(), "scan.processReading")
	defer span.End()
	start := c.now()
	defer func() {
		c.metrics.ObserveProcess(float64(time.Since(start).Microseconds()) / 1000.0)
	}()

	if pending != nil {
		if c.expired(pending) {
			// A stale expectation must not consume an unrelated tap; expiry
			// behaves like cancel and the reading falls through to normal
			// attendance handling.
			c.emit(Outcome{Kind: OutcomeConfirmationExpired, Raw: raw, Subject: pending.expected})
			pending = nil
		} else {
			return c.processConfirmationTap(ctx, sess, raw, seen, pending)
		}
	}

	candidates := identity.Canonicalize(raw)
	rec, err := c.directory.LookupByTag(ctx, candidates)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			c.emit(Outcome{
				Kind: OutcomeSubjectNotFound,
				Raw:  raw,
				Err:  dErrors.New(dErrors.CodeSubjectNotFound, "tag does not match any subject"),
			})
		} else {
			c.emit(Outcome{
				Kind: OutcomeSubjectNotFound,
				Raw:  raw,
				Err:  dErrors.Wrap(err, dErrors.CodeInternal, "directory lookup"),
			})
		}
		return pending
	}

	c.record(ctx, sess, raw, rec, seen, OutcomeRecorded)
	return pending
}

// record applies dedup and appends the event. Returns true when the reading
// is settled (recorded or duplicate); false only on a ledger write failure,
// in which case the subject is NOT added to the dedup set, so retrying the
// same tap re-attempts the exact same append.
func (c *Coordinator) record(ctx context.Context, sess *session.DeviceSession, raw string, rec *identity.Record, seen map[id.IdentityID]struct{}, kind OutcomeKind) bool {
	if _, dup := seen[rec.ID]; dup {
		c.emit(Outcome{
			Kind:    OutcomeDuplicate,
			Raw:     raw,
			Subject: rec,
			Err:     dErrors.New(dErrors.CodeDuplicateScan, "subject already recorded this session"),
		})
		return true
	}

	event := ledger.AttendanceEvent{
		ID:            id.NewEventID(),
		DeviceID:      c.deviceID,
		SessionID:     sess.ID,
		SubjectID:     rec.ID,
		OperatorID:    sess.IdentityID,
		Action:        c.action,
		OccurredAt:    c.now().UTC(),
		VerifiedByTap: true,
	}
	if err := c.ledger.Append(ctx, event); err != nil {
		c.emit(Outcome{
			Kind:    OutcomeLedgerFailed,
			Raw:     raw,
			Subject: rec,
			Event:   &event,
			Err:     dErrors.Wrap(err, dErrors.CodeLedgerWrite, "append attendance event"),
		})
		return false
	}

	seen[rec.ID] = struct{}{}
	c.emit(Outcome{Kind: kind, Raw: raw, Subject: rec, Event: &event})
	return true
}

func (c *Coordinator) emit(out Outcome) {
	c.metrics.Reading(string(out.Kind))
	select {
	case c.results <- out:
	default:
		c.metrics.DroppedResult()
		c.log.Printf("scan outcome dropped (consumer behind): %s %s", out.Kind, out.Raw)
	}
}
