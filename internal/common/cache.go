package common

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// Cache is an expiring in-memory key/value registry. It backs per-client state
// such as rate limiters, never blog or user content.
type Cache struct {
	*cache.Cache
}

func NewCache(expirationTime, cleanupTime time.Duration) *Cache {
	return &Cache{cache.New(expirationTime, cleanupTime)}
}

func (c *Cache) Set(key string, value interface{}, expiration ...time.Duration) {
	if len(expiration) > 0 {
		c.Cache.Set(key, value, expiration[0])
		return
	}
	c.Cache.Set(key, value, cache.DefaultExpiration)
}

func (c *Cache) Get(key string) (interface{}, bool) {
	return c.Cache.Get(key)
}

// GetOrAdd returns the value stored under key, storing newValue() first when the
// key is absent. Concurrent callers for the same key observe a single value.
func (c *Cache) GetOrAdd(key string, newValue func() interface{}) interface{} {
	if v, ok := c.Cache.Get(key); ok {
		return v
	}

	v := newValue()
	if err := c.Cache.Add(key, v, cache.DefaultExpiration); err != nil {
		if existing, ok := c.Cache.Get(key); ok {
			return existing
		}
	}

	return v
}

func (c *Cache) Flush() {
	c.Cache.Flush()
}

func CacheKeyRateLimiter(clientIP string) string {
	return "rate_limiter:" + clientIP
}
