// Package cache provides alternative weather cache backends keyed on
// (city, kind), selectable at startup instead of the durable database table.
package cache

import (
	"fmt"
	"sync"
	"time"
)

// Store defines the weather payload cache operations shared by all backends
type Store interface {
	Get(cityID, kind string) ([]byte, bool)
	Put(cityID, kind string, payload []byte, ttl time.Duration)
}

func cacheKey(cityID, kind string) string {
	return fmt.Sprintf("weather:%s:%s", cityID, kind)
}

type memoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

// MemoryCache is an in-process cache with periodic expired-entry cleanup
type MemoryCache struct {
	data   map[string]memoryEntry
	mutex  sync.RWMutex
	ticker *time.Ticker
	stopCh chan struct{}
}

// NewMemoryCache creates an in-memory cache backend
func NewMemoryCache() *MemoryCache {
	cache := &MemoryCache{
		data:   make(map[string]memoryEntry),
		ticker: time.NewTicker(5 * time.Minute),
		stopCh: make(chan struct{}),
	}

	go cache.cleanup()
	return cache
}

// Get returns the payload for (cityID, kind) if present and not expired
func (c *MemoryCache) Get(cityID, kind string) ([]byte, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, exists := c.data[cacheKey(cityID, kind)]
	if !exists {
		return nil, false
	}

	if !entry.expiresAt.After(time.Now()) {
		return nil, false
	}

	return entry.payload, true
}

// Put stores or overwrites the payload for (cityID, kind)
func (c *MemoryCache) Put(cityID, kind string, payload []byte, ttl time.Duration) {
	if payload == nil {
		return
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data[cacheKey(cityID, kind)] = memoryEntry{
		payload:   payload,
		expiresAt: time.Now().Add(ttl),
	}
}

// Stop terminates the background cleanup goroutine
func (c *MemoryCache) Stop() {
	close(c.stopCh)
}

func (c *MemoryCache) cleanup() {
	for {
		select {
		case <-c.ticker.C:
			c.removeExpiredEntries()
		case <-c.stopCh:
			c.ticker.Stop()
			return
		}
	}
}

func (c *MemoryCache) removeExpiredEntries() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := time.Now()
	for key, entry := range c.data {
		if now.After(entry.expiresAt) {
			delete(c.data, key)
		}
	}
}
