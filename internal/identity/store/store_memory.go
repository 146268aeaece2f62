package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"kioskgate/internal/identity"
	id "kioskgate/pkg/domain"
)

// InMemoryDirectory keeps the directory in a map for unit tests and for
// offline development of a single kiosk. It intentionally favors clarity
// over performance.
type InMemoryDirectory struct {
	mu      sync.RWMutex
	records map[id.IdentityID]*identity.Record
}

func NewInMemoryDirectory(records ...*identity.Record) *InMemoryDirectory {
	d := &InMemoryDirectory{records: make(map[id.IdentityID]*identity.Record)}
	for _, r := range records {
		d.records[r.ID] = r
	}
	return d
}

func (d *InMemoryDirectory) Put(r *identity.Record) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.records[r.ID] = r
}

func (d *InMemoryDirectory) LookupByTag(_ context.Context, candidates []string) (*identity.Record, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, r := range d.records {
		if identity.Intersects(candidates, identity.Canonicalize(r.StoredTag)) {
			return cloned(r), nil
		}
	}
	return nil, identity.ErrNotFound
}

func (d *InMemoryDirectory) LookupByID(_ context.Context, identityID id.IdentityID) (*identity.Record, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if r, ok := d.records[identityID]; ok {
		return cloned(r), nil
	}
	return nil, identity.ErrNotFound
}

func (d *InMemoryDirectory) LookupByAccount(_ context.Context, account string) (*identity.Record, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, r := range d.records {
		if r.Account != "" && strings.EqualFold(r.Account, account) {
			return cloned(r), nil
		}
	}
	return nil, identity.ErrNotFound
}

func (d *InMemoryDirectory) Search(_ context.Context, query string, limit int) ([]*identity.Record, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	q := strings.ToLower(strings.TrimSpace(query))
	var out []*identity.Record
	for _, r := range d.records {
		if q == "" || strings.Contains(strings.ToLower(r.DisplayName), q) {
			out = append(out, cloned(r))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DisplayName < out[j].DisplayName })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func cloned(r *identity.Record) *identity.Record {
	c := *r
	return &c
}
