// Package cache is the in-memory session cache backing stale-while-revalidate
// content loading. Entries never expire outright: past their TTL they are
// reported stale but still returned, so callers can render immediately and
// refresh in the background. Eviction happens only on capacity pressure or an
// explicit flush.
package cache

import (
	"sync"
	"time"
)

// Freshness describes the outcome of a lookup.
type Freshness int

const (
	Miss Freshness = iota
	Fresh
	Stale
)

func (f Freshness) String() string {
	switch f {
	case Fresh:
		return "fresh"
	case Stale:
		return "stale"
	default:
		return "miss"
	}
}

type entry struct {
	value     any
	fetchedAt time.Time
}

// Stats are cumulative lookup counters.
type Stats struct {
	Hits      uint64 `json:"hits"`
	StaleHits uint64 `json:"stale_hits"`
	Misses    uint64 `json:"misses"`
	Evictions uint64 `json:"evictions"`
	Entries   int    `json:"entries"`
}

// Cache is a string-keyed in-memory cache with TTL-based staleness.
// It is safe for concurrent use by multiple goroutines.
type Cache struct {
	mu         sync.RWMutex
	entries    map[string]entry
	ttl        time.Duration
	maxEntries int
	stats      Stats
	now        func() time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock replaces the time source (tests).
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// New creates a cache. ttl <= 0 means entries are always fresh; maxEntries <= 0
// means unbounded.
func New(ttl time.Duration, maxEntries int, opts ...Option) *Cache {
	c := &Cache{
		entries:    make(map[string]entry),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached value and its freshness. Stale values are returned,
// not dropped; staleness only signals that a revalidation is due.
func (c *Cache) Get(key string) (any, Freshness) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		c.stats.Misses++
		return nil, Miss
	}
	if c.ttl > 0 && c.now().Sub(e.fetchedAt) > c.ttl {
		c.stats.StaleHits++
		return e.value, Stale
	}
	c.stats.Hits++
	return e.value, Fresh
}

// Set stores a value, evicting the oldest-fetched entry when at capacity.
func (c *Cache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[key]; !exists && c.maxEntries > 0 && len(c.entries) >= c.maxEntries {
		c.evictOldestLocked()
	}
	c.entries[key] = entry{value: value, fetchedAt: c.now()}
}

func (c *Cache) evictOldestLocked() {
	var oldestKey string
	var oldestAt time.Time
	first := true
	for k, e := range c.entries {
		if first || e.fetchedAt.Before(oldestAt) {
			oldestKey, oldestAt, first = k, e.fetchedAt, false
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
		c.stats.Evictions++
	}
}

// Delete removes a single key.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Flush drops every entry. Lookup counters are preserved.
func (c *Cache) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}

// Len returns the current entry count.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns a snapshot of the counters.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s := c.stats
	s.Entries = len(c.entries)
	return s
}
