package cache

import (
	"context"
	"sync"
	"time"
)

// Memory is a small in-process TTL cache whose Flush method fits a Registry.
//
// The zero value is not usable; use NewMemory.
type Memory[K comparable, V any] struct {
	ttl time.Duration
	now func() time.Time

	mu sync.Mutex
	m  map[K]memoryEntry[V]
}

type memoryEntry[V any] struct {
	v       V
	expires time.Time
}

// NewMemory creates a cache. ttl <= 0 disables expiry.
func NewMemory[K comparable, V any](ttl time.Duration) *Memory[K, V] {
	return &Memory[K, V]{ttl: ttl, now: time.Now, m: make(map[K]memoryEntry[V])}
}

// Get returns the cached value for k.
func (c *Memory[K, V]) Get(k K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.m[k]
	if !ok {
		var zero V
		return zero, false
	}
	if !e.expires.IsZero() && !c.now().Before(e.expires) {
		delete(c.m, k)
		var zero V
		return zero, false
	}
	return e.v, true
}

// Set stores v under k.
func (c *Memory[K, V]) Set(k K, v V) {
	e := memoryEntry[V]{v: v}
	if c.ttl > 0 {
		e.expires = c.now().Add(c.ttl)
	}
	c.mu.Lock()
	c.m[k] = e
	c.mu.Unlock()
}

// Len returns the number of stored entries, including expired ones not yet evicted.
func (c *Memory[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.m)
}

// Flush drops every entry. It matches the Flusher signature.
func (c *Memory[K, V]) Flush(context.Context) error {
	c.mu.Lock()
	c.m = make(map[K]memoryEntry[V])
	c.mu.Unlock()
	return nil
}
