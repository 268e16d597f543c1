package app

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"embed-mock/internal/cache"
	"embed-mock/internal/config"
	"embed-mock/internal/embeddings"
	"embed-mock/internal/logger"
)

// Deps bundles the immutable runtime dependencies shared by handlers.
type Deps struct {
	Config     config.Config
	Log        *slog.Logger
	Embedder   embeddings.Embedder
	Cache      cache.Cache
	InstanceID string
}

// Build loads env, config, and shared components. A configuration error
// (bad EMBEDDING_DIM, bad port) aborts here, before any listener starts.
func Build() (Deps, error) {
	// The mock must run configless, so a missing .env is fine.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Deps{}, fmt.Errorf("failed to load .env: %w", err)
	}
	cfg, err := config.Load()
	if err != nil {
		return Deps{}, fmt.Errorf("invalid configuration: %w", err)
	}
	log := logger.New(cfg.LogLevel)

	c, err := buildCache(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize cache: %w", err)
	}

	return Deps{
		Config:     cfg,
		Log:        log,
		Embedder:   embeddings.NewDeterministic(cfg.EmbeddingDim),
		Cache:      c,
		InstanceID: uuid.NewString(),
	}, nil
}

func buildCache(cfg config.Config, log *slog.Logger) (cache.Cache, error) {
	ttl := time.Duration(cfg.CacheTTL) * time.Second
	switch cfg.CacheProvider {
	case "redis":
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("REDIS_ADDR is required when CACHE_PROVIDER=redis")
		}
		c, err := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, ttl)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Redis cache: %w", err)
		}
		log.Info("using Redis vector cache", "addr", cfg.RedisAddr)
		return c, nil
	case "memory":
		log.Info("using in-memory vector cache", "max_entries", cfg.CacheMaxSize)
		return cache.NewMemoryCache(cfg.CacheMaxSize, ttl), nil
	case "noop":
		return cache.NewNoOpCache(), nil
	default:
		return nil, fmt.Errorf("invalid CACHE_PROVIDER: %s (valid options: noop, memory, redis)", cfg.CacheProvider)
	}
}
