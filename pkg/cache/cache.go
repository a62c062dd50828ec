package cache

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// Cache is a bounded keyed result cache with request coalescing: concurrent
// callers asking for the same missing key trigger exactly one compute, and
// all of them receive its result. Eviction is FIFO by insertion order, which
// is enough for the analyze-once access pattern this serves.
type Cache[V any] struct {
	mu       sync.Mutex
	entries  map[string]V
	order    []string
	capacity int
	group    singleflight.Group
}

// New creates a cache holding at most capacity entries. A non-positive
// capacity disables storage; GetOrCompute still coalesces concurrent calls.
func New[V any](capacity int) *Cache[V] {
	return &Cache[V]{
		entries:  make(map[string]V),
		capacity: capacity,
	}
}

// Get returns the cached value for key, if present.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok
}

// GetOrCompute returns the cached value for key or runs compute to produce
// it. A compute error is returned to every coalesced caller and nothing is
// stored, so a later call retries.
func (c *Cache[V]) GetOrCompute(key string, compute func() (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	res, err, _ := c.group.Do(key, func() (interface{}, error) {
		if v, ok := c.Get(key); ok {
			return v, nil
		}
		v, err := compute()
		if err != nil {
			return nil, err
		}
		c.put(key, v)
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return res.(V), nil
}

func (c *Cache[V]) put(key string, v V) {
	if c.capacity <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists {
		for len(c.order) >= c.capacity {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.entries, oldest)
		}
		c.order = append(c.order, key)
	}
	c.entries[key] = v
}

// Len returns the number of stored entries.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Purge drops all stored entries.
func (c *Cache[V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]V)
	c.order = nil
}
