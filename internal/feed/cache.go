package feed

import (
	"context"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

type Clock interface {
	Now() time.Time
}

type cacheEntry[V any] struct {
	value   V
	expires time.Time
	tags    []string
}

// Cache is a size bounded LRU whose entries expire after a TTL and can be
// dropped by tag. Concurrent misses on the same key each compute the value.
type Cache[V any] struct {
	mu    sync.Mutex
	lru   *lru.Cache[string, cacheEntry[V]]
	byTag map[string]map[string]struct{}
	gen   map[string]uint64
	ttl   time.Duration
	clock Clock
}

// ComputeFunc builds a value. A non-zero expiry shortens the entry's TTL.
type ComputeFunc[V any] func(ctx context.Context) (V, time.Time, error)

func NewCache[V any](size int, ttl time.Duration, clock Clock) (*Cache[V], error) {
	c := &Cache[V]{
		byTag: make(map[string]map[string]struct{}),
		gen:   make(map[string]uint64),
		ttl:   ttl,
		clock: clock,
	}
	l, err := lru.NewWithEvict(size, c.onEvict)
	if err != nil {
		return nil, fmt.Errorf("create lru: %w", err)
	}
	c.lru = l
	return c, nil
}

// onEvict runs with c.mu held by the caller of the lru method.
func (c *Cache[V]) onEvict(key string, e cacheEntry[V]) {
	for _, tag := range e.tags {
		keys := c.byTag[tag]
		delete(keys, key)
		if len(keys) == 0 {
			delete(c.byTag, tag)
		}
	}
}

func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.lru.Get(key)
	if !ok {
		var zero V
		return zero, false
	}
	if !c.clock.Now().Before(e.expires) {
		c.lru.Remove(key)
		var zero V
		return zero, false
	}
	return e.value, true
}

func (c *Cache[V]) Set(key string, value V, expires time.Time, tags []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.set(key, value, expires, tags)
}

// set requires c.mu.
func (c *Cache[V]) set(key string, value V, expires time.Time, tags []string) {
	c.lru.Remove(key)
	c.lru.Add(key, cacheEntry[V]{value: value, expires: expires, tags: tags})
	for _, tag := range tags {
		if c.byTag[tag] == nil {
			c.byTag[tag] = make(map[string]struct{})
		}
		c.byTag[tag][key] = struct{}{}
	}
}

// GetOrCompute returns the cached value for key or computes and stores it.
// Errors are not cached. A value is not stored when one of its tags was
// invalidated while it was being computed.
func (c *Cache[V]) GetOrCompute(ctx context.Context, key string, tags []string, compute ComputeFunc[V]) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	before := c.generations(tags)

	v, hint, err := compute(ctx)
	if err != nil {
		var zero V
		return zero, err
	}

	expires := c.clock.Now().Add(c.ttl)
	if !hint.IsZero() && hint.Before(expires) {
		expires = hint
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for i, tag := range tags {
		if c.gen[tag] != before[i] {
			return v, nil
		}
	}
	c.set(key, v, expires, tags)
	return v, nil
}

func (c *Cache[V]) generations(tags []string) []uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	gens := make([]uint64, len(tags))
	for i, tag := range tags {
		gens[i] = c.gen[tag]
	}
	return gens
}

// Invalidate drops every entry carrying one of tags and returns how many
// entries were removed.
func (c *Cache[V]) Invalidate(tags ...string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for _, tag := range tags {
		c.gen[tag]++
		for key := range c.byTag[tag] {
			if c.lru.Remove(key) {
				removed++
			}
		}
		delete(c.byTag, tag)
	}
	return removed
}

func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}
