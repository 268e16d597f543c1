// Command probe checks that a running mock embedding server honors its
// contract: liveness, model identity, and vectors of the configured
// dimension. Intended as a compose health gate or a CI preflight step.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v10"

	"embed-mock/client"
)

type probeConfig struct {
	ServerURL    string `env:"EMBEDDING_SERVER_URL" envDefault:"http://localhost:8091"`
	EmbeddingDim int    `env:"EMBEDDING_DIM" envDefault:"1024"`
	Attempts     int    `env:"PROBE_ATTEMPTS" envDefault:"5"`
}

func main() {
	log := slog.Default()

	var cfg probeConfig
	if err := env.Parse(&cfg); err != nil {
		log.Error("invalid probe configuration", "err", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	c := client.New(cfg.ServerURL, cfg.EmbeddingDim)
	if err := c.WaitReady(ctx, cfg.Attempts, 200*time.Millisecond); err != nil {
		log.Error("server not reachable", "url", cfg.ServerURL, "err", err)
		os.Exit(1)
	}
	if err := c.Validate(ctx); err != nil {
		log.Error("contract check failed", "url", cfg.ServerURL, "err", err)
		os.Exit(1)
	}

	info, err := c.Info(ctx)
	if err != nil {
		log.Error("failed to read model info", "err", err)
		os.Exit(1)
	}
	fmt.Printf("ok: %s serving %s at %d dimensions\n", cfg.ServerURL, info.ModelID, cfg.EmbeddingDim)
}
