package cache

import (
	"context"
	"sort"
	"sync"
	"time"

	"estate/internal/core"
	"estate/internal/metrics"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
)

// Options configures a Registry.
type Options struct {
	// DefaultTTL is applied to every category created by the registry.
	DefaultTTL time.Duration

	// Clock drives expiry. Defaults to the wall clock.
	Clock clock.Clock

	// Metrics receives hit/miss/sweep counts. May be nil.
	Metrics *metrics.Recorder

	Logger *zap.Logger
}

// DefaultOptions returns options with a one hour TTL and the wall clock.
func DefaultOptions() *Options {
	return &Options{
		DefaultTTL: DefaultTTL,
		Clock:      clock.New(),
	}
}

// Registry is the process-wide directory of named TTL caches. A category is
// created on first use and lives as long as the registry. Every operation,
// whatever the category, takes the same lock; the lock is never held across
// I/O.
type Registry struct {
	mu         sync.Mutex
	categories map[string]*TTLCache
	options    *Options
	logger     *zap.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(options *Options) *Registry {
	if options == nil {
		options = DefaultOptions()
	} else {
		copied := *options
		options = &copied
	}
	if options.DefaultTTL <= 0 {
		options.DefaultTTL = DefaultTTL
	}
	if options.Clock == nil {
		options.Clock = clock.New()
	}
	return &Registry{
		categories: make(map[string]*TTLCache),
		options:    options,
		logger:     core.Named(options.Logger, "cache"),
	}
}

// category returns the cache for name, creating it if needed. Callers must
// hold r.mu.
func (r *Registry) category(name string) *TTLCache {
	c, ok := r.categories[name]
	if !ok {
		c = NewTTLCache(r.options.DefaultTTL, r.options.Clock)
		r.categories[name] = c
	}
	return c
}

// Get returns the live value stored under category/key.
func (r *Registry) Get(category, key string) (any, bool) {
	r.mu.Lock()
	v, ok := r.category(category).Get(key)
	r.mu.Unlock()

	if ok {
		r.options.Metrics.CacheHit(category)
	} else {
		r.options.Metrics.CacheMiss(category)
	}
	return v, ok
}

// Set stores value under category/key with the default TTL.
func (r *Registry) Set(category, key string, value any) {
	r.SetWithTTL(category, key, value, 0)
}

// SetWithTTL stores value under category/key. A non-positive ttl selects the
// default.
func (r *Registry) SetWithTTL(category, key string, value any, ttl time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.category(category).Set(key, value, ttl)
}

// Delete removes category/key if present.
func (r *Registry) Delete(category, key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.categories[category]; ok {
		c.Delete(key)
	}
}

// Clear empties a category. The category itself is kept.
func (r *Registry) Clear(category string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.categories[category]; ok {
		c.Clear()
	}
}

// Stats reports the entry counts of a category. ok is false when the
// category has never been used.
func (r *Registry) Stats(category string) (Stats, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.categories[category]
	if !ok {
		return Stats{}, false
	}
	return c.Stats(), true
}

// Categories lists the known category names in sorted order.
func (r *Registry) Categories() []string {
	r.mu.Lock()
	names := make([]string, 0, len(r.categories))
	for name := range r.categories {
		names = append(names, name)
	}
	r.mu.Unlock()

	sort.Strings(names)
	return names
}

// Sweep removes expired entries from every category and returns the number
// removed per category.
func (r *Registry) Sweep() map[string]int {
	r.mu.Lock()
	results := make(map[string]int, len(r.categories))
	for name, c := range r.categories {
		results[name] = c.Sweep()
	}
	r.mu.Unlock()

	for name, n := range results {
		r.options.Metrics.CacheSwept(name, n)
	}
	return results
}

// RunSweeper calls Sweep every interval until ctx is done. A non-positive
// interval returns immediately.
func (r *Registry) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := r.options.Clock.Ticker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed := r.Sweep()
			total := 0
			for _, n := range removed {
				total += n
			}
			if total > 0 {
				r.logger.Debug("Swept expired cache entries",
					zap.Int("removed", total),
					zap.Any("per_category", removed))
			}
		}
	}
}
