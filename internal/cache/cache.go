// Package cache provides optional memoization of generated vectors. The
// generator is a pure function, so a cached entry is valid forever within
// one dimension; entries still expire so shared Redis instances do not grow
// without bound across long CI runs.
package cache

import (
	"context"
	"fmt"

	"embed-mock/internal/embeddings"
)

// Cache stores generated vectors keyed by input text.
type Cache interface {
	// Get retrieves a cached vector. The second return is false on miss.
	Get(ctx context.Context, key string) (embeddings.Vector, bool, error)

	// Set stores a vector under key.
	Set(ctx context.Context, key string, vec embeddings.Vector) error

	// Close releases any backing connection.
	Close() error
}

// Key builds the cache key for a text at a given dimension. The dimension
// is part of the key so a server restarted with a different EMBEDDING_DIM
// never reads stale-width vectors from a shared backend.
func Key(dim int, text string) string {
	return fmt.Sprintf("%d:%s", dim, text)
}
