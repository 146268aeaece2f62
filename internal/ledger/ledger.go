package ledger

import "context"

// Ledger is the external attendance ledger, append-only from this
// subsystem's point of view. Append failures are surfaced to the caller
// untouched: the scan coordinator deliberately does not retry, so the
// operator-facing layer keeps control of at-most-once vs. at-least-once.
type Ledger interface {
	Append(ctx context.Context, event AttendanceEvent) error
}
