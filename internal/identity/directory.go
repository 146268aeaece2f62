package identity

import (
	"context"

	id "kioskgate/pkg/domain"
	dErrors "kioskgate/pkg/domain-errors"
)

var (
	// ErrNotFound keeps directory 404s consistent across in-memory and
	// postgres implementations.
	ErrNotFound = dErrors.New(dErrors.CodeNotFound, "identity not found")
)

// Directory is the read-only view of the school's identity directory. The
// hosted backend owns the data; implementations here are access adapters.
type Directory interface {
	// LookupByTag finds the record whose stored tag canonically matches any
	// of the candidate forms. Candidates must come from Canonicalize.
	LookupByTag(ctx context.Context, candidates []string) (*Record, error)
	LookupByID(ctx context.Context, identityID id.IdentityID) (*Record, error)
	LookupByAccount(ctx context.Context, account string) (*Record, error)
	// Search supports the manual-confirmation picker: case-insensitive
	// substring match on display name, bounded result set.
	Search(ctx context.Context, query string, limit int) ([]*Record, error)
}
