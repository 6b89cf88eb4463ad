package cache

import (
	"context"
	"sync"
	"time"

	"github.com/fareleap/traveldeals/internal/offers"
)

// Store is a time-expiring lookup cache for offer lists. Implementations
// must be safe for concurrent use.
type Store interface {
	Get(ctx context.Context, key string) ([]offers.Offer, bool)
	Put(ctx context.Context, key string, value []offers.Offer, ttl time.Duration)
}

type entry struct {
	value     []offers.Offer
	expiresAt time.Time
}

// TTLCache is an in-process Store with a capacity bound. When full, the
// entry least recently inserted is evicted. Expiry is lazy on read.
type TTLCache struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]entry
	order    []string

	now func() time.Time
}

// NewTTLCache creates a cache holding at most capacity entries.
func NewTTLCache(capacity int) *TTLCache {
	if capacity <= 0 {
		capacity = 1
	}
	return &TTLCache{
		capacity: capacity,
		entries:  make(map[string]entry, capacity),
		now:      time.Now,
	}
}

// Get returns the cached value, or absent for unknown or expired keys.
func (c *TTLCache) Get(_ context.Context, key string) ([]offers.Offer, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !c.now().Before(e.expiresAt) {
		c.remove(key)
		return nil, false
	}
	return e.value, true
}

// Put stores value under key for ttl. Re-inserting a key refreshes its
// position in the eviction order.
func (c *TTLCache) Put(_ context.Context, key string, value []offers.Offer, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; ok {
		c.remove(key)
	}
	for len(c.entries) >= c.capacity && len(c.order) > 0 {
		c.remove(c.order[0])
	}
	c.entries[key] = entry{value: value, expiresAt: c.now().Add(ttl)}
	c.order = append(c.order, key)
}

// Len reports the number of stored entries, expired ones included.
func (c *TTLCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *TTLCache) remove(key string) {
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}
