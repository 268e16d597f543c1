// Package client is a small Go client for the mock embedding server,
// intended for integration-test suites that need to talk to the mock the
// same way production code talks to the real provider.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"embed-mock/internal/retry"
)

// ModelInfo is the /info response.
type ModelInfo struct {
	ModelID string `json:"model_id"`
}

// SparseEntry is a single (index, value) pair of a sparse embedding.
type SparseEntry struct {
	Index int     `json:"index"`
	Value float64 `json:"value"`
}

// Client talks to a running mock embedding server.
type Client struct {
	baseURL    string
	dim        int
	httpClient *http.Client
}

// New creates a client for the server at baseURL. dim is the dimension the
// server is expected to serve; Validate checks it against a probe embed.
func New(baseURL string, dim int) *Client {
	return &Client{
		baseURL: baseURL,
		dim:     dim,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type embedRequest struct {
	Inputs any `json:"inputs"`
}

// Embed returns one dense vector per text, in input order.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	var vectors [][]float64
	if err := c.post(ctx, "/embed", embedRequest{Inputs: texts}, &vectors); err != nil {
		return nil, err
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("expected %d vectors, got %d", len(texts), len(vectors))
	}
	return vectors, nil
}

// EmbedSingle embeds one text.
func (c *Client) EmbedSingle(ctx context.Context, text string) ([]float64, error) {
	vectors, err := c.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedSparse returns one sparse embedding per text, in input order.
func (c *Client) EmbedSparse(ctx context.Context, texts []string) ([][]SparseEntry, error) {
	var sparse [][]SparseEntry
	if err := c.post(ctx, "/embed_sparse", embedRequest{Inputs: texts}, &sparse); err != nil {
		return nil, err
	}
	if len(sparse) != len(texts) {
		return nil, fmt.Errorf("expected %d sparse embeddings, got %d", len(texts), len(sparse))
	}
	return sparse, nil
}

// Info fetches the mocked model's identity.
func (c *Client) Info(ctx context.Context) (ModelInfo, error) {
	var info ModelInfo
	if err := c.get(ctx, "/info", &info); err != nil {
		return ModelInfo{}, err
	}
	return info, nil
}

// Health checks the liveness endpoint.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("embedding server not healthy: status %d", resp.StatusCode)
	}
	return nil
}

// Validate checks the full mock contract: liveness, model identity, and a
// probe embed of the expected dimension.
func (c *Client) Validate(ctx context.Context) error {
	if err := c.Health(ctx); err != nil {
		return err
	}

	info, err := c.Info(ctx)
	if err != nil {
		return fmt.Errorf("get model info: %w", err)
	}
	if info.ModelID == "" {
		return fmt.Errorf("server reported empty model_id")
	}

	vec, err := c.EmbedSingle(ctx, "probe")
	if err != nil {
		return fmt.Errorf("probe embed failed: %w", err)
	}
	if len(vec) != c.dim {
		return fmt.Errorf("expected %d dimensions, got %d", c.dim, len(vec))
	}
	return nil
}

// WaitReady polls Health with exponential backoff until the server answers
// or attempts are exhausted. Useful while a compose stack is coming up.
func (c *Client) WaitReady(ctx context.Context, attempts int, base time.Duration) error {
	if attempts <= 0 {
		attempts = 1
	}
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if lastErr = c.Health(ctx); lastErr == nil {
			return nil
		}
		if attempt == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retry.ExponentialBackoff(attempt, base, 5*time.Second)):
		}
	}
	return fmt.Errorf("server not ready after %d attempts: %w", attempts, lastErr)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("embedding server returned status %d: %s", resp.StatusCode, body)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
