package enrichment

import (
	"sync"
	"time"
)

// taxonomyCache owns the process-wide taxonomy payload. It has an explicit
// staleness policy: Fresh returns data within TTL, Stale returns whatever is
// held regardless of age. Callers serve stale data when a refresh fails, so
// the payload is never invalidated on fetch failure. The clock is injectable
// for tests.
type taxonomyCache struct {
	mu        sync.RWMutex
	ttl       time.Duration
	now       func() time.Time
	data      []TaxonomyEntry
	fetchedAt time.Time
}

func newTaxonomyCache(ttl time.Duration, now func() time.Time) *taxonomyCache {
	if now == nil {
		now = time.Now
	}
	return &taxonomyCache{ttl: ttl, now: now}
}

// Fresh returns the cached taxonomy if it is within TTL.
func (c *taxonomyCache) Fresh() ([]TaxonomyEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.data == nil || c.now().Sub(c.fetchedAt) >= c.ttl {
		return nil, false
	}
	return c.data, true
}

// Stale returns the cached taxonomy regardless of age.
func (c *taxonomyCache) Stale() ([]TaxonomyEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.data == nil {
		return nil, false
	}
	return c.data, true
}

// Store replaces the payload and resets its age.
func (c *taxonomyCache) Store(data []TaxonomyEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = data
	c.fetchedAt = c.now()
}

// Age reports how old the payload is. Zero when empty.
func (c *taxonomyCache) Age() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.data == nil {
		return 0
	}
	return c.now().Sub(c.fetchedAt)
}
