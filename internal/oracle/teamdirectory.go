package oracle

import (
	"context"
	"sync"
	"time"

	"github.com/northbridge-support/triage/internal/store"
)

// TeamDirectory is a short-TTL read-through cache over
// store.ListActiveMembers, adapted from the donor forge.HTTPClient's
// RWMutex-guarded cache-plus-cacheTime pattern: a burst of Assign calls
// within the same cache window costs one Postgres round-trip, not one
// per call.
type TeamDirectory struct {
	db  store.Store
	ttl time.Duration

	mu        sync.RWMutex
	cached    []store.TeamMember
	cachedAt  time.Time
}

func NewTeamDirectory(db store.Store, ttl time.Duration) *TeamDirectory {
	return &TeamDirectory{db: db, ttl: ttl}
}

func (d *TeamDirectory) List(ctx context.Context) ([]store.TeamMember, error) {
	d.mu.RLock()
	if d.cached != nil && time.Since(d.cachedAt) < d.ttl {
		members := d.cached
		d.mu.RUnlock()
		return members, nil
	}
	d.mu.RUnlock()

	d.mu.Lock()
	defer d.mu.Unlock()
	// Re-check: another goroutine may have refreshed while we waited for
	// the write lock.
	if d.cached != nil && time.Since(d.cachedAt) < d.ttl {
		return d.cached, nil
	}

	members, err := d.db.ListActiveMembers(ctx)
	if err != nil {
		return nil, err
	}
	d.cached = members
	d.cachedAt = time.Now()
	return members, nil
}

// Invalidate drops the cache, forcing the next List call to hit
// Postgres. Used after operations that change team membership.
func (d *TeamDirectory) Invalidate() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cached = nil
}
