package store

import (
	"context"
	"sync"
	"time"
)

// Cache is a seam for short lived keyed blobs such as login state and fetched grid pages
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Take(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Close() error
}

type memEntry struct {
	val []byte
	exp time.Time
}

// memoryCache is the in-process Cache used when redis is disabled
// entries live in one process only, so it suits single instance deployments and tests
type memoryCache struct {
	mu  sync.Mutex
	m   map[string]memEntry
	now func() time.Time
}

// NewMemoryCache returns an in-process Cache
func NewMemoryCache() Cache { return newMemoryCache() }

func newMemoryCache() *memoryCache {
	return &memoryCache{m: map[string]memEntry{}, now: time.Now}
}

func (c *memoryCache) live(key string) (memEntry, bool) {
	e, ok := c.m[key]
	if !ok {
		return memEntry{}, false
	}
	if !e.exp.IsZero() && !c.now().Before(e.exp) {
		delete(c.m, key)
		return memEntry{}, false
	}
	return e, true
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.live(key)
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), e.val...), true, nil
}

func (c *memoryCache) Take(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.live(key)
	if !ok {
		return nil, false, nil
	}
	delete(c.m, key)
	return e.val, true, nil
}

func (c *memoryCache) Set(_ context.Context, key string, val []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := memEntry{val: append([]byte(nil), val...)}
	if ttl > 0 {
		e.exp = c.now().Add(ttl)
	}
	c.m[key] = e
	return nil
}

func (c *memoryCache) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.m, k)
	}
	return nil
}

func (c *memoryCache) Close() error { return nil }
