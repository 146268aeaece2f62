package auth

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"kioskgate/internal/identity"
	id "kioskgate/pkg/domain"
	dErrors "kioskgate/pkg/domain-errors"
)

// CredentialVerifier checks second factors against the external credential
// store. Implementations must not reveal whether a failure was "no such
// credential" or "wrong credential".
type CredentialVerifier interface {
	VerifyPin(ctx context.Context, identityID id.IdentityID, pin string) (bool, error)
	VerifyPassword(ctx context.Context, identityID id.IdentityID, password string) (bool, error)
}

// BcryptVerifier verifies PINs and passwords against the bcrypt digests the
// directory stores.
type BcryptVerifier struct {
	directory identity.Directory
}

func NewBcryptVerifier(directory identity.Directory) *BcryptVerifier {
	return &BcryptVerifier{directory: directory}
}

func (v *BcryptVerifier) VerifyPin(ctx context.Context, identityID id.IdentityID, pin string) (bool, error) {
	rec, err := v.directory.LookupByID(ctx, identityID)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "resolve identity for pin check")
	}
	return compareHash(rec.PinHash, pin)
}

func (v *BcryptVerifier) VerifyPassword(ctx context.Context, identityID id.IdentityID, password string) (bool, error) {
	rec, err := v.directory.LookupByID(ctx, identityID)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "resolve identity for password check")
	}
	return compareHash(rec.PasswordHash, password)
}

func compareHash(hash, plain string) (bool, error) {
	if hash == "" {
		return false, nil
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, dErrors.Wrap(err, dErrors.CodeInternal, "compare credential hash")
}
