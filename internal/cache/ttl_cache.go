// Package cache provides small in-memory TTL caches for hot read paths.
package cache

import (
	"strings"
	"sync"
	"time"
)

// Cache is a generic string-keyed cache with per-entry expiry.
type Cache[V any] interface {
	Get(key string) (V, bool)
	Set(key string, value V, ttl time.Duration)
	Delete(key string)
	DeletePrefix(prefix string)
}

type ttlEntry[V any] struct {
	value     V
	expiresAt time.Time
}

type ttlCache[V any] struct {
	mu      sync.Mutex
	entries map[string]ttlEntry[V]
}

// NewTTLCache returns an unbounded TTL cache. Expired entries are dropped
// lazily on read, which is enough for the small key spaces it backs.
func NewTTLCache[V any]() Cache[V] {
	return &ttlCache[V]{entries: make(map[string]ttlEntry[V])}
}

func (c *ttlCache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	entry, ok := c.entries[key]
	if !ok {
		return zero, false
	}
	if time.Now().After(entry.expiresAt) {
		delete(c.entries, key)
		return zero, false
	}
	return entry.value, true
}

func (c *ttlCache[V]) Set(key string, value V, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = ttlEntry[V]{value: value, expiresAt: time.Now().Add(ttl)}
}

func (c *ttlCache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// DeletePrefix drops every entry whose key starts with prefix. The key spaces
// here are small, so a full scan is fine.
func (c *ttlCache[V]) DeletePrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
}
