package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
	"github.com/go-playground/validator/v10"
)

// Config holds the process-wide runtime configuration. It is read once at
// startup and never mutated afterwards.
type Config struct {
	// Server
	Port     int    `env:"PORT" envDefault:"8091" validate:"min=1,max=65535"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Embedding
	EmbeddingDim int    `env:"EMBEDDING_DIM" envDefault:"1024" validate:"min=0"`
	ModelID      string `env:"MODEL_ID" envDefault:"BAAI/bge-m3" validate:"required"`

	// Vector cache
	CacheProvider string `env:"CACHE_PROVIDER" envDefault:"noop" validate:"oneof=noop memory redis"`
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	CacheTTL      int    `env:"CACHE_TTL_SECONDS" envDefault:"3600" validate:"min=1"`
	CacheMaxSize  int    `env:"CACHE_MAX_ENTRIES" envDefault:"4096" validate:"min=1"`
}

// Load reads configuration from environment variables with defaults.
// Any parse or validation failure is returned so the caller can refuse to
// start; serving with a broken EMBEDDING_DIM would silently corrupt every
// downstream test run.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}
