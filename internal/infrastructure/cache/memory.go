package cache

import (
	"context"
	"sync"
	"time"

	"github.com/softwarescout/backend/internal/domain"
)

const defaultSweepInterval = 10 * time.Minute

// cacheItem is one cached value with its expiry
type cacheItem struct {
	value     []byte
	expiresAt time.Time
}

// MemoryCache is a thread-safe in-process cache with TTL support
type MemoryCache struct {
	data  map[string]cacheItem
	mutex sync.RWMutex
	now   func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

// NewMemoryCache creates an in-memory cache and starts its expiry sweep
func NewMemoryCache() *MemoryCache {
	return newMemoryCache(defaultSweepInterval, time.Now)
}

func newMemoryCache(sweep time.Duration, now func() time.Time) *MemoryCache {
	cache := &MemoryCache{
		data: make(map[string]cacheItem),
		now:  now,
		stop: make(chan struct{}),
	}
	go cache.cleanupExpired(sweep)
	return cache
}

// Get returns a copy of the cached bytes or domain.ErrCacheMiss
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	item, exists := c.data[key]
	if !exists || c.now().After(item.expiresAt) {
		return nil, domain.ErrCacheMiss
	}

	out := make([]byte, len(item.value))
	copy(out, item.value)
	return out, nil
}

// Set stores a copy of value for ttl
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data[key] = cacheItem{
		value:     stored,
		expiresAt: c.now().Add(ttl),
	}
	return nil
}

// Delete removes a value from the cache
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.data, key)
	return nil
}

// Exists checks if a key exists in the cache and is not expired
func (c *MemoryCache) Exists(_ context.Context, key string) (bool, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	item, exists := c.data[key]
	if !exists {
		return false, nil
	}
	return !c.now().After(item.expiresAt), nil
}

// Close stops the expiry sweep. It is safe to call more than once.
func (c *MemoryCache) Close() error {
	c.stopOnce.Do(func() { close(c.stop) })
	return nil
}

// cleanupExpired removes expired entries until Close is called
func (c *MemoryCache) cleanupExpired(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.sweep()
		}
	}
}

func (c *MemoryCache) sweep() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := c.now()
	for key, item := range c.data {
		if now.After(item.expiresAt) {
			delete(c.data, key)
		}
	}
}

// Size returns the number of stored entries, expired or not
func (c *MemoryCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}
