package news

import (
	"sync"
	"time"
)

type cacheEntry struct {
	items     []NewsItem
	timestamp time.Time
}

type inflightCall struct {
	wg    sync.WaitGroup
	items []NewsItem
	err   error
}

// Cache is the process-wide response cache keyed by source id. Entries
// are replaced wholesale on refresh and never evicted; a stale entry is
// ignored on read but kept around so the rank-diff annotation can
// compare against the previous snapshot. The key space is bounded by
// the fixed set of registered sources.
//
// Do provides per-key single-flight so overlapping cold fetches for the
// same source run the strategy chain once.
type Cache struct {
	mu       sync.Mutex
	entries  map[string]cacheEntry
	inflight map[string]*inflightCall
}

func NewCache() *Cache {
	return &Cache{
		entries:  make(map[string]cacheEntry),
		inflight: make(map[string]*inflightCall),
	}
}

// Get returns the cached items when the entry is younger than ttl.
// A stale entry is treated as absent, not removed.
func (c *Cache) Get(key string, ttl time.Duration) ([]NewsItem, time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, time.Time{}, false
	}
	if time.Since(entry.timestamp) >= ttl {
		return nil, time.Time{}, false
	}
	return entry.items, entry.timestamp, true
}

// Peek returns the current snapshot regardless of age.
func (c *Cache) Peek(key string) ([]NewsItem, time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, time.Time{}, false
	}
	return entry.items, entry.timestamp, true
}

// Set overwrites the entry for key unconditionally.
func (c *Cache) Set(key string, items []NewsItem) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{items: items, timestamp: time.Now()}
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Do runs fn under per-key single-flight. Concurrent callers for the
// same key block until the first caller's fn returns and share its
// result. fn is responsible for writing the cache on success.
func (c *Cache) Do(key string, fn func() ([]NewsItem, error)) ([]NewsItem, error) {
	c.mu.Lock()
	if call, ok := c.inflight[key]; ok {
		c.mu.Unlock()
		call.wg.Wait()
		return call.items, call.err
	}

	call := &inflightCall{}
	call.wg.Add(1)
	c.inflight[key] = call
	c.mu.Unlock()

	call.items, call.err = fn()

	c.mu.Lock()
	delete(c.inflight, key)
	c.mu.Unlock()
	call.wg.Done()

	return call.items, call.err
}
