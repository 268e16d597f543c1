// Command server runs the deterministic mock embedding server. It mimics a
// BGE-M3 text-embeddings-inference endpoint closely enough for integration
// tests: /health and /info probes, /embed returning seeded pseudo-random
// dense vectors, and /embed_sparse returning a structural stub.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"embed-mock/internal/app"
	"embed-mock/internal/cache"
	"embed-mock/internal/embeddings"
	"embed-mock/internal/httputil"
	"embed-mock/internal/inputs"
)

func main() {
	deps, err := app.Build()
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}
	defer deps.Cache.Close()

	r := httputil.NewRouter(deps.Log, deps.InstanceID)

	r.Get("/health", httputil.HealthHandler(deps.Log))
	r.Get("/info", infoHandler(deps))
	r.Post("/embed", embedHandler(deps))
	r.Post("/embed_sparse", embedSparseHandler(deps))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", deps.Config.Port),
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		deps.Log.Info("mock embedding server listening",
			"addr", srv.Addr,
			"model_id", deps.Config.ModelID,
			"embedding_dim", deps.Config.EmbeddingDim,
			"instance_id", deps.InstanceID,
		)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		deps.Log.Error("server failed", "err", err)
		os.Exit(1)
	}
	deps.Log.Info("server stopped")
}

// infoHandler reports the mocked model's identity.
func infoHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{
			"model_id": deps.Config.ModelID,
		})
	}
}

// embedHandler returns one dense vector per normalized input, in input
// order. Malformed or missing bodies are not errors; they embed to [].
func embedHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		texts := readInputs(deps, r)

		vectors := make([]embeddings.Vector, len(texts))
		for i, text := range texts {
			vectors[i] = embedCached(r.Context(), deps, text)
		}

		httputil.WriteJSON(w, http.StatusOK, vectors)
	}
}

// embedSparseHandler returns the placeholder sparse embedding once per
// normalized input. Content-independent; clients only assert on shape.
func embedSparseHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		texts := readInputs(deps, r)

		sparse := make([][]embeddings.SparseEntry, len(texts))
		for i := range texts {
			sparse[i] = embeddings.SparseStub()
		}

		httputil.WriteJSON(w, http.StatusOK, sparse)
	}
}

// readInputs drains the request body and normalizes it. Read failures
// degrade to an empty input list like any other malformed body.
func readInputs(deps app.Deps, r *http.Request) []string {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		deps.Log.Warn("failed to read request body", "err", err)
		return []string{}
	}
	return inputs.Normalize(raw)
}

// embedCached consults the vector cache before generating. Cache failures
// only cost a recomputation; they never fail the request.
func embedCached(ctx context.Context, deps app.Deps, text string) embeddings.Vector {
	key := cache.Key(deps.Embedder.Dim(), text)

	if vec, found, err := deps.Cache.Get(ctx, key); err != nil {
		deps.Log.Warn("cache read failed", "err", err)
	} else if found {
		return vec
	}

	vec := deps.Embedder.Embed(text)
	if err := deps.Cache.Set(ctx, key, vec); err != nil {
		deps.Log.Warn("cache write failed", "err", err)
	}
	return vec
}
