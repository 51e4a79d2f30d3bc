// Package cache is a small TTL cache over patrickmn/go-cache
// a zero or negative TTL yields a disabled cache that never stores
package cache

import (
	"fmt"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cache memoizes computed values for a fixed TTL
type Cache struct {
	c   *gocache.Cache
	ttl time.Duration

	// mu orders Flush against the store step of Do; gen counts flushes
	mu  sync.Mutex
	gen uint64

	// OnLookup is called once per Do with hit=true when served from cache
	OnLookup func(hit bool)
}

// New returns a cache with the given ttl; ttl <= 0 disables caching
func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		return &Cache{}
	}
	return &Cache{c: gocache.New(ttl, 2*ttl), ttl: ttl}
}

// Enabled reports whether values are retained
func (c *Cache) Enabled() bool { return c != nil && c.c != nil }

// TTL returns the configured lifetime
func (c *Cache) TTL() time.Duration {
	if c == nil {
		return 0
	}
	return c.ttl
}

// Get returns the cached value for key
func (c *Cache) Get(key string) (any, bool) {
	if !c.Enabled() {
		return nil, false
	}
	return c.c.Get(key)
}

// Set stores v under key with the default ttl
func (c *Cache) Set(key string, v any) {
	if !c.Enabled() {
		return
	}
	c.c.Set(key, v, gocache.DefaultExpiration)
}

// Flush drops every entry
func (c *Cache) Flush() {
	if !c.Enabled() {
		return
	}
	c.mu.Lock()
	c.gen++
	c.c.Flush()
	c.mu.Unlock()
}

func (c *Cache) generation() uint64 {
	if !c.Enabled() {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// setIfCurrent stores v only when no Flush ran since gen was read
func (c *Cache) setIfCurrent(key string, v any, gen uint64) bool {
	if !c.Enabled() {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return false
	}
	c.c.Set(key, v, gocache.DefaultExpiration)
	return true
}

// Len returns the number of live entries
func (c *Cache) Len() int {
	if !c.Enabled() {
		return 0
	}
	return c.c.ItemCount()
}

// Do returns the cached V for key or computes, stores and returns it
// errors are never cached, and a value computed across a Flush is
// returned to its caller but not stored
func Do[V any](c *Cache, key string, fn func() (V, error)) (V, error) {
	gen := c.generation()
	if v, ok := c.Get(key); ok {
		if tv, ok := v.(V); ok {
			c.lookup(true)
			return tv, nil
		}
	}
	c.lookup(false)

	v, err := fn()
	if err != nil {
		var zero V
		return zero, err
	}
	c.setIfCurrent(key, v, gen)
	return v, nil
}

func (c *Cache) lookup(hit bool) {
	if c != nil && c.OnLookup != nil {
		c.OnLookup(hit)
	}
}

// Key joins parts into a stable cache key
func Key(parts ...any) string {
	ss := make([]string, 0, len(parts))
	for _, p := range parts {
		switch v := p.(type) {
		case time.Time:
			ss = append(ss, v.UTC().Format(time.RFC3339))
		case *time.Time:
			if v == nil {
				ss = append(ss, "-")
			} else {
				ss = append(ss, v.UTC().Format(time.RFC3339))
			}
		default:
			ss = append(ss, fmt.Sprint(v))
		}
	}
	return strings.Join(ss, ":")
}
