package cache

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"embed-mock/internal/embeddings"
)

// MemoryCache is an in-process TTL cache, for running the mock standalone
// without a Redis dependency.
type MemoryCache struct {
	cache *ttlcache.Cache[string, embeddings.Vector]
}

// NewMemoryCache creates a bounded in-memory vector cache. Entries expire
// after ttl; capacity evicts least-recently-inserted entries.
func NewMemoryCache(maxEntries int, ttl time.Duration) *MemoryCache {
	c := ttlcache.New[string, embeddings.Vector](
		ttlcache.WithTTL[string, embeddings.Vector](ttl),
		ttlcache.WithCapacity[string, embeddings.Vector](uint64(maxEntries)),
	)
	go c.Start()
	return &MemoryCache{cache: c}
}

func (c *MemoryCache) Get(ctx context.Context, key string) (embeddings.Vector, bool, error) {
	item := c.cache.Get(key)
	if item == nil {
		return nil, false, nil
	}
	return item.Value(), true, nil
}

func (c *MemoryCache) Set(ctx context.Context, key string, vec embeddings.Vector) error {
	c.cache.Set(key, vec, ttlcache.DefaultTTL)
	return nil
}

func (c *MemoryCache) Close() error {
	c.cache.Stop()
	return nil
}
