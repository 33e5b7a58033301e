package sheets

import (
	"context"
	"fmt"
	"sync"
	"time"

	"clientportal/ports"

	"golang.org/x/sync/singleflight"
)

// cacheEntry holds one fetched CSV body and its fetch time
type cacheEntry struct {
	text      string
	fetchedAt time.Time
}

// Cache is an explicit TTL cache over a SheetSource, keyed by
// (sheetID, gid). Concurrent misses for the same key are collapsed into a
// single upstream fetch. The clock is injected so tests can expire entries
// without sleeping.
type Cache struct {
	source ports.SheetSource
	clock  ports.Clock
	ttl    time.Duration

	mu      sync.RWMutex
	entries map[string]cacheEntry
	group   singleflight.Group
}

// NewCache wraps source with a TTL cache
func NewCache(source ports.SheetSource, clock ports.Clock, ttl time.Duration) *Cache {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	return &Cache{
		source:  source,
		clock:   clock,
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
	}
}

var _ ports.SheetSource = (*Cache)(nil)

// FetchCSV returns the cached body when fresh, otherwise fetches upstream.
// Errors are never cached.
func (c *Cache) FetchCSV(ctx context.Context, sheetID string, gid int) (string, error) {
	key := fmt.Sprintf("%s#%d", sheetID, gid)

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && c.clock.Now().Sub(entry.fetchedAt) < c.ttl {
		return entry.text, nil
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		// Another waiter may have refreshed the entry already.
		c.mu.RLock()
		entry, ok := c.entries[key]
		c.mu.RUnlock()
		if ok && c.clock.Now().Sub(entry.fetchedAt) < c.ttl {
			return entry.text, nil
		}

		text, err := c.source.FetchCSV(ctx, sheetID, gid)
		if err != nil {
			return "", err
		}

		c.mu.Lock()
		c.entries[key] = cacheEntry{text: text, fetchedAt: c.clock.Now()}
		c.mu.Unlock()
		return text, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Invalidate drops the cached entry for (sheetID, gid)
func (c *Cache) Invalidate(sheetID string, gid int) {
	key := fmt.Sprintf("%s#%d", sheetID, gid)
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}
