package scan

import (
	"context"
	"time"

	"kioskgate/internal/identity"
	"kioskgate/internal/session"
	id "kioskgate/pkg/domain"
	dErrors "kioskgate/pkg/domain-errors"
)

// The manual confirmation flow lets an operator attribute an event to a
// directory-searched identity, but only once that identity's physical card
// is tapped. Selection arms an expectation; the tap is the proof of
// possession. This is what stops an operator from fraudulently attributing
// events to absent individuals.

type pendingConfirmation struct {
	expected   *identity.Record
	candidates []string
	armedAt    time.Time
}

// SelectForConfirmation arms a pending confirmation for the given identity:
// the next tap must canonically match that identity's stored tag before an
// event is recorded. Manual selection alone never produces an event.
// Requires Scanning and no live pending confirmation.
func (c *Coordinator) SelectForConfirmation(ctx context.Context, expectedID id.IdentityID) error {
	c.mu.Lock()
	if c.state != StateScanning {
		c.mu.Unlock()
		return dErrors.New(dErrors.CodeInvalidState, "manual confirmation requires scanning")
	}
	msgs, done := c.msgs, c.done
	c.mu.Unlock()

	rec, err := c.directory.LookupByID(ctx, expectedID)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return dErrors.New(dErrors.CodeSubjectNotFound, "selected identity not in directory")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "resolve selected identity")
	}

	reply := make(chan error, 1)
	select {
	case msgs <- coordMsg{sel: rec, reply: reply}:
	case <-done:
		return dErrors.New(dErrors.CodeInvalidState, "scanning stopped")
	}
	select {
	case err := <-reply:
		return err
	case <-done:
		return dErrors.New(dErrors.CodeInvalidState, "scanning stopped")
	}
}

// CancelConfirmation clears any pending confirmation. Always succeeds.
func (c *Coordinator) CancelConfirmation() {
	c.mu.Lock()
	if c.state != StateScanning {
		c.mu.Unlock()
		return
	}
	msgs, done := c.msgs, c.done
	c.mu.Unlock()

	reply := make(chan error, 1)
	select {
	case msgs <- coordMsg{cancel: true, reply: reply}:
	case <-done:
		return
	}
	select {
	case <-reply:
	case <-done:
	}
}

func (c *Coordinator) expired(p *pendingConfirmation) bool {
	return c.now().Sub(p.armedAt) > c.confirmTTL
}

// processConfirmationTap resolves a reading that arrived while a pending
// confirmation was armed. A matching tap records the event (still
// VerifiedByTap=true: a physical tap happened); a mismatch leaves the
// expectation armed for a retry with the correct card.
func (c *Coordinator) processConfirmationTap(ctx context.Context, sess *session.DeviceSession, raw string, seen map[id.IdentityID]struct{}, pending *pendingConfirmation) *pendingConfirmation {
	if !identity.Intersects(identity.Canonicalize(raw), pending.candidates) {
		c.emit(Outcome{
			Kind:    OutcomeWrongCard,
			Raw:     raw,
			Subject: pending.expected,
			Err:     dErrors.New(dErrors.CodeWrongCard, "tap does not match the selected identity"),
		})
		return pending
	}
	if c.record(ctx, sess, raw, pending.expected, seen, OutcomeConfirmed) {
		return nil
	}
	// Ledger write failed: keep the expectation so the confirming tap can
	// simply be repeated.
	return pending
}
