package utils

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CacheItem 包装缓存数据和过期时间
type CacheItem struct {
	Data      any
	ExpiresAt time.Time
}

// TTLCache is a fixed-size LRU whose entries also expire after a TTL.
type TTLCache struct {
	lruCache *lru.Cache[string, CacheItem]
	now      func() time.Time
}

// NewTTLCache creates a cache holding at most size entries.
func NewTTLCache(size int) *TTLCache {
	if size <= 0 {
		size = 128
	}
	l, err := lru.New[string, CacheItem](size)
	if err != nil {
		// only returned for a non-positive size
		panic(err)
	}
	return &TTLCache{lruCache: l, now: time.Now}
}

var (
	sharedCache     *TTLCache
	sharedCacheOnce sync.Once
)

// GetCache returns the process-wide cache instance.
func GetCache() *TTLCache {
	sharedCacheOnce.Do(func() {
		sharedCache = NewTTLCache(500)
	})
	return sharedCache
}

// Set stores data under key for ttl. A non-positive ttl is a no-op.
func (c *TTLCache) Set(key string, data any, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.lruCache.Add(key, CacheItem{
		Data:      data,
		ExpiresAt: c.now().Add(ttl),
	})
}

// Get returns the cached value, or nil when missing or expired.
func (c *TTLCache) Get(key string) any {
	val, ok := c.lruCache.Get(key)
	if !ok {
		return nil
	}
	if c.now().After(val.ExpiresAt) {
		c.lruCache.Remove(key)
		return nil
	}
	return val.Data
}

// Delete 删除指定缓存
func (c *TTLCache) Delete(key string) {
	c.lruCache.Remove(key)
}
