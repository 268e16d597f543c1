package cache

import (
	"context"

	"embed-mock/internal/embeddings"
)

// NoOpCache is the default cache implementation: every lookup misses and
// every store succeeds without effect. Vector generation is cheap enough
// that most deployments never need more.
type NoOpCache struct{}

// NewNoOpCache creates a new no-op cache instance
func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

// Get always returns a miss.
func (c *NoOpCache) Get(ctx context.Context, key string) (embeddings.Vector, bool, error) {
	return nil, false, nil
}

// Set does nothing and always succeeds
func (c *NoOpCache) Set(ctx context.Context, key string, vec embeddings.Vector) error {
	return nil
}

// Close does nothing and always succeeds
func (c *NoOpCache) Close() error {
	return nil
}
