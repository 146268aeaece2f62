package identity

import (
	id "kioskgate/pkg/domain"
)

// Kind separates the two subject classes the directory tracks.
type Kind string

const (
	KindStandard Kind = "standard"
	KindStaff    Kind = "staff"
)

// Record is one entry in the external identity directory. The directory owns
// these; this subsystem only reads them.
type Record struct {
	ID          id.IdentityID
	DisplayName string
	Kind        Kind
	// StoredTag is the card value as the directory recorded it, in whatever
	// historical format it happens to use. Match through Canonicalize only.
	StoredTag string
	Account   string
	Role      id.Role
	HasPin    bool
	// PinHash and PasswordHash are bcrypt digests; empty when not provisioned.
	PinHash      string
	PasswordHash string
}
