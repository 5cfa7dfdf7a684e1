package service

import (
	"sync"
	"time"

	"github.com/golang/groupcache/lru"
)

// ttlCache is a size-bounded LRU whose entries also expire after ttl
type ttlCache struct {
	mu  sync.Mutex
	lru *lru.Cache
	ttl time.Duration
	now func() time.Time
}

type cacheEntry struct {
	value   interface{}
	expires time.Time
}

func newTTLCache(size int, ttl time.Duration) *ttlCache {
	if size <= 0 {
		size = 1
	}
	return &ttlCache{lru: lru.New(size), ttl: ttl, now: time.Now}
}

func (c *ttlCache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.lru.Get(key)
	if !ok {
		return nil, false
	}
	e := v.(cacheEntry)
	if c.ttl > 0 && c.now().After(e.expires) {
		c.lru.Remove(key)
		return nil, false
	}
	return e.value, true
}

func (c *ttlCache) Add(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Add(key, cacheEntry{value: value, expires: c.now().Add(c.ttl)})
}

func (c *ttlCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}
