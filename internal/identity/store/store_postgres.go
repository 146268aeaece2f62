package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"kioskgate/internal/identity"
	id "kioskgate/pkg/domain"
)

// PostgresDirectory reads the identity directory tables owned by the hosted
// backend. All access is read-only.
type PostgresDirectory struct {
	db *sql.DB
}

func NewPostgresDirectory(db *sql.DB) *PostgresDirectory {
	return &PostgresDirectory{db: db}
}

const identityColumns = `identity_id, display_name, kind, tag_value, account, role, has_pin, pin_hash, password_hash`

// LookupByTag resolves a canonical candidate set to a directory record.
// The fast path matches the stored tag against the candidate forms directly.
// When that misses, stored values in a format the candidates do not cover
// (e.g. a legacy "FC" tag matched by a long-form reading) are found by a
// digit-core prefilter and confirmed with the canonical intersection rule in
// Go, so both directions of the matching rule hold.
func (d *PostgresDirectory) LookupByTag(ctx context.Context, candidates []string) (*identity.Record, error) {
	row := d.db.QueryRowContext(ctx,
		`SELECT `+identityColumns+` FROM identities WHERE tag_value = ANY($1) LIMIT 1`,
		pq.Array(candidates))
	rec, err := scanIdentity(row)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("lookup identity by tag: %w", err)
	}

	core := digitCore(candidates)
	if core == "" {
		return nil, identity.ErrNotFound
	}
	rows, err := d.db.QueryContext(ctx,
		`SELECT `+identityColumns+` FROM identities WHERE tag_value ILIKE '%' || $1 || '%' LIMIT 50`,
		core)
	if err != nil {
		return nil, fmt.Errorf("lookup identity by tag core: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		rec, err := scanIdentity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan identity: %w", err)
		}
		if identity.Intersects(candidates, identity.Canonicalize(rec.StoredTag)) {
			return rec, nil
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate identities: %w", err)
	}
	return nil, identity.ErrNotFound
}

func (d *PostgresDirectory) LookupByID(ctx context.Context, identityID id.IdentityID) (*identity.Record, error) {
	row := d.db.QueryRowContext(ctx,
		`SELECT `+identityColumns+` FROM identities WHERE identity_id = $1`,
		identityID.String())
	rec, err := scanIdentity(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, identity.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup identity by id: %w", err)
	}
	return rec, nil
}

func (d *PostgresDirectory) LookupByAccount(ctx context.Context, account string) (*identity.Record, error) {
	row := d.db.QueryRowContext(ctx,
		`SELECT `+identityColumns+` FROM identities WHERE lower(account) = lower($1)`,
		account)
	rec, err := scanIdentity(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, identity.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup identity by account: %w", err)
	}
	return rec, nil
}

func (d *PostgresDirectory) Search(ctx context.Context, query string, limit int) ([]*identity.Record, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := d.db.QueryContext(ctx,
		`SELECT `+identityColumns+` FROM identities
		 WHERE display_name ILIKE '%' || $1 || '%'
		 ORDER BY display_name LIMIT $2`,
		strings.TrimSpace(query), limit)
	if err != nil {
		return nil, fmt.Errorf("search identities: %w", err)
	}
	defer rows.Close()
	var out []*identity.Record
	for rows.Next() {
		rec, err := scanIdentity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan identity: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate identities: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIdentity(row rowScanner) (*identity.Record, error) {
	var rec identity.Record
	var account, pinHash, passwordHash sql.NullString
	err := row.Scan(&rec.ID, &rec.DisplayName, &rec.Kind, &rec.StoredTag,
		&account, &rec.Role, &rec.HasPin, &pinHash, &passwordHash)
	if err != nil {
		return nil, err
	}
	rec.Account = account.String
	rec.PinHash = pinHash.String
	rec.PasswordHash = passwordHash.String
	return &rec, nil
}

// digitCore extracts the shortest bare-numeric candidate (leading zeros
// trimmed) to prefilter stored tags of any historical format.
func digitCore(candidates []string) string {
	best := ""
	for _, c := range candidates {
		trimmed := strings.TrimLeft(c, "0")
		if trimmed == "" || !allDigits(trimmed) {
			continue
		}
		if best == "" || len(trimmed) < len(best) {
			best = trimmed
		}
	}
	return best
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
