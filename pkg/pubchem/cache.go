package pubchem

import (
	"sync"
	"time"
)

type cacheEntry struct {
	fetchedAt time.Time
	response  *Response
}

// responseCache maps a request key to a previously fetched response.
// Staleness is checked lazily on read; nothing evicts entries in the
// background, so the map grows for the lifetime of the process.
type responseCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	now     func() time.Time
}

func newResponseCache() *responseCache {
	return &responseCache{
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// get returns the response stored under key if it is younger than ttl.
func (c *responseCache) get(key string, ttl time.Duration) (*Response, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok || c.now().Sub(entry.fetchedAt) >= ttl {
		return nil, false
	}
	return entry.response, true
}

// put stores resp under key, replacing any stale entry.
func (c *responseCache) put(key string, resp *Response) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{fetchedAt: c.now(), response: resp}
}

func (c *responseCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}
