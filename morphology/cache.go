package morphology

import "sync"

// tableCache holds pixel tables keyed by their construction parameters,
// with a use count so tables cannot be evicted while a filter runs with them.
// When the cache grows past maxCachedTables, the least recently used unused
// entry is dropped; if everything is in use the cache simply grows.
const maxCachedTables = 30

type cacheEntry struct {
	pt         *pixelTable
	useCount   int
	lastAccess uint64
}

type tableCache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
	access  uint64
}

func newTableCache() *tableCache {
	return &tableCache{entries: make(map[string]*cacheEntry)}
}

// acquire returns the cached table for key, building it on a miss, and pins
// it until release is called with the same key.
func (c *tableCache) acquire(key string, build func() (*pixelTable, error)) (*pixelTable, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.access++
	if e, ok := c.entries[key]; ok {
		e.useCount++
		e.lastAccess = c.access
		return e.pt, nil
	}
	pt, err := build()
	if err != nil {
		return nil, err
	}
	if len(c.entries) >= maxCachedTables {
		evict := ""
		oldest := c.access
		for k, e := range c.entries {
			if e.useCount == 0 && e.lastAccess < oldest {
				oldest = e.lastAccess
				evict = k
			}
		}
		if evict != "" {
			delete(c.entries, evict)
		}
	}
	c.entries[key] = &cacheEntry{pt: pt, useCount: 1, lastAccess: c.access}
	return pt, nil
}

// release unpins one use of the table for key.
func (c *tableCache) release(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok && e.useCount > 0 {
		e.useCount--
	}
}

// size reports the number of cached tables.
func (c *tableCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// contains reports whether key is currently cached.
func (c *tableCache) contains(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}
