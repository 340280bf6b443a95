package store

import (
	"context"
	"sync"
	"time"
)

// MetaCache memoizes metadata lookups against the store with a fixed TTL.
// Entries past their TTL are re-read from the store on next access; a
// zero TTL disables expiry. Negative results are not cached.
type MetaCache struct {
	store *SQLiteStore
	ttl   time.Duration

	mu      sync.RWMutex
	entries map[string]metaEntry
}

type metaEntry struct {
	info     *ScripInfo
	loadedAt time.Time
}

// NewMetaCache creates a metadata cache over a store.
func NewMetaCache(store *SQLiteStore, ttl time.Duration) *MetaCache {
	return &MetaCache{
		store:   store,
		ttl:     ttl,
		entries: make(map[string]metaEntry),
	}
}

// Lookup returns the metadata for a scrip name, from cache when fresh.
func (c *MetaCache) Lookup(ctx context.Context, scrip string) (*ScripInfo, error) {
	c.mu.RLock()
	entry, ok := c.entries[scrip]
	c.mu.RUnlock()
	if ok && (c.ttl <= 0 || time.Since(entry.loadedAt) < c.ttl) {
		return entry.info, nil
	}

	info, err := c.store.GetScripInfo(ctx, scrip)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[scrip] = metaEntry{info: info, loadedAt: time.Now()}
	c.mu.Unlock()
	return info, nil
}

// Invalidate drops one cached entry.
func (c *MetaCache) Invalidate(scrip string) {
	c.mu.Lock()
	delete(c.entries, scrip)
	c.mu.Unlock()
}
