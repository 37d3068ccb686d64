package cache

import (
	"context"
	"delivery-cost-service/internal/domain"
	"sync"
	"time"
)

// DefaultMemoryEntries caps the in-process cache.
const DefaultMemoryEntries = 1024

type memoryEntry struct {
	quote     *domain.Quote
	expiresAt time.Time
}

// MemoryQuoteCache is an in-process quote cache with per-entry expiry and a
// size cap. Stored quotes are shared, not copied; callers must not mutate
// them. Safe for concurrent use.
type MemoryQuoteCache struct {
	mu         sync.Mutex
	entries    map[string]memoryEntry
	maxEntries int
	now        func() time.Time
}

func NewMemoryQuoteCache(maxEntries int) *MemoryQuoteCache {
	if maxEntries <= 0 {
		maxEntries = DefaultMemoryEntries
	}
	return &MemoryQuoteCache{
		entries:    make(map[string]memoryEntry),
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

func (c *MemoryQuoteCache) Get(_ context.Context, key string) (*domain.Quote, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !e.expiresAt.IsZero() && !c.now().Before(e.expiresAt) {
		delete(c.entries, key)
		return nil, false, nil
	}
	return e.quote, true, nil
}

func (c *MemoryQuoteCache) Put(_ context.Context, key string, quote *domain.Quote, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxEntries {
		c.evictLocked()
	}

	var exp time.Time
	if ttl > 0 {
		exp = c.now().Add(ttl)
	}
	c.entries[key] = memoryEntry{quote: quote, expiresAt: exp}
	return nil
}

// size reports the number of stored entries, expired ones included.
func (c *MemoryQuoteCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// evictLocked drops expired entries, or one arbitrary entry if none expired.
func (c *MemoryQuoteCache) evictLocked() {
	now := c.now()
	removed := false
	for k, e := range c.entries {
		if !e.expiresAt.IsZero() && !now.Before(e.expiresAt) {
			delete(c.entries, k)
			removed = true
		}
	}
	if removed {
		return
	}
	for k := range c.entries {
		delete(c.entries, k)
		return
	}
}
