// Package cache provides the category-partitioned TTL cache shared by the
// resource handlers.
//
// A Registry owns one TTLCache per category ("rooms", "users", ...). All
// operations go through the registry, which serializes them with a single
// lock. Entries expire lazily on read and may also be removed by Sweep.
//
// Basic usage:
//
//	reg := cache.NewRegistry(nil)
//	reg.Set("rooms", room.ID, room)
//	if v, ok := reg.Get("rooms", room.ID); ok {
//	    // live entry
//	}
package cache

import (
	"time"

	"github.com/benbjohnson/clock"
)

// DefaultTTL is the lifetime of an entry when no TTL is given.
const DefaultTTL = time.Hour

// Entry is a single cached value.
type Entry struct {
	Value     any
	ExpiresAt time.Time
}

// Stats summarizes a single category.
type Stats struct {
	Total   int `json:"total_items"`
	Active  int `json:"active_items"`
	Expired int `json:"expired_items"`
}

// TTLCache maps keys to entries with a per-entry deadline. It is not safe for
// concurrent use on its own; Registry guards it.
type TTLCache struct {
	entries    map[string]Entry
	defaultTTL time.Duration
	clock      clock.Clock
}

// NewTTLCache creates an empty cache. A non-positive ttl selects DefaultTTL and
// a nil clk selects the wall clock.
func NewTTLCache(ttl time.Duration, clk clock.Clock) *TTLCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if clk == nil {
		clk = clock.New()
	}
	return &TTLCache{
		entries:    make(map[string]Entry),
		defaultTTL: ttl,
		clock:      clk,
	}
}

// Get returns the value stored under key. An expired entry is deleted and
// reported as absent.
func (c *TTLCache) Get(key string) (any, bool) {
	item, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !item.ExpiresAt.After(c.clock.Now()) {
		delete(c.entries, key)
		return nil, false
	}
	return item.Value, true
}

// Set stores value under key, replacing any previous entry. A non-positive ttl
// selects the cache default.
func (c *TTLCache) Set(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	c.entries[key] = Entry{
		Value:     value,
		ExpiresAt: c.clock.Now().Add(ttl),
	}
}

// Delete removes key if present.
func (c *TTLCache) Delete(key string) {
	delete(c.entries, key)
}

// Clear removes every entry.
func (c *TTLCache) Clear() {
	c.entries = make(map[string]Entry)
}

// Len returns the number of stored entries, expired or not.
func (c *TTLCache) Len() int {
	return len(c.entries)
}

// Stats counts live and expired entries without removing anything.
func (c *TTLCache) Stats() Stats {
	now := c.clock.Now()
	s := Stats{Total: len(c.entries)}
	for _, item := range c.entries {
		if !item.ExpiresAt.After(now) {
			s.Expired++
		}
	}
	s.Active = s.Total - s.Expired
	return s
}

// Sweep removes every entry whose deadline is at or before now and returns
// how many were removed.
func (c *TTLCache) Sweep() int {
	now := c.clock.Now()
	removed := 0
	for key, item := range c.entries {
		if !item.ExpiresAt.After(now) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}
