package cache

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"

	"embed-mock/internal/embeddings"
)

const keyPrefix = "embed:"

// RedisCache stores vectors in Redis as raw little-endian float64 bits,
// eight bytes per component.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a Redis-backed vector cache and verifies the
// connection before returning.
func NewRedisCache(addr, password string, ttl time.Duration) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return &RedisCache{client: client, ttl: ttl}, nil
}

func (c *RedisCache) Get(ctx context.Context, key string) (embeddings.Vector, bool, error) {
	data, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return decodeVector(data), true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, vec embeddings.Vector) error {
	return c.client.Set(ctx, keyPrefix+key, encodeVector(vec), c.ttl).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func encodeVector(vec embeddings.Vector) []byte {
	data := make([]byte, len(vec)*8)
	for i, f := range vec {
		binary.LittleEndian.PutUint64(data[i*8:], math.Float64bits(f))
	}
	return data
}

func decodeVector(data []byte) embeddings.Vector {
	vec := make(embeddings.Vector, len(data)/8)
	for i := range vec {
		vec[i] = math.Float64frombits(binary.LittleEndian.Uint64(data[i*8:]))
	}
	return vec
}
