package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache keeps recently fetched filings in process memory.
// Values larger than maxItemBytes are not kept.
type MemoryCache struct {
	cache        *gocache.Cache
	maxItemBytes int
}

// NewMemoryCache creates a new memory cache; maxItemBytes <= 0 disables the size check
func NewMemoryCache(defaultTTL, cleanupInterval time.Duration, maxItemBytes int) *MemoryCache {
	return &MemoryCache{
		cache:        gocache.New(defaultTTL, cleanupInterval),
		maxItemBytes: maxItemBytes,
	}
}

// Get retrieves a value from the cache
func (c *MemoryCache) Get(key string) ([]byte, bool) {
	if val, found := c.cache.Get(key); found {
		return val.([]byte), true
	}
	return nil, false
}

// Set stores a value with the given TTL; zero uses the default TTL (gocache.DefaultExpiration)
func (c *MemoryCache) Set(key string, value []byte, ttl time.Duration) error {
	if c.maxItemBytes > 0 && len(value) > c.maxItemBytes {
		return nil
	}
	c.cache.Set(key, value, ttl)
	return nil
}

// Delete removes a value from the cache
func (c *MemoryCache) Delete(key string) error {
	c.cache.Delete(key)
	return nil
}

// Clear removes all values from the cache
func (c *MemoryCache) Clear() error {
	c.cache.Flush()
	return nil
}

// Len returns the number of cached values
func (c *MemoryCache) Len() int {
	return c.cache.ItemCount()
}
