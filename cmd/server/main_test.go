package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"

	"embed-mock/internal/app"
	"embed-mock/internal/cache"
	"embed-mock/internal/config"
	"embed-mock/internal/embeddings"
	"embed-mock/internal/logger"
)

func newTestDeps(dim int) app.Deps {
	return app.Deps{
		Config: config.Config{
			EmbeddingDim: dim,
			ModelID:      "BAAI/bge-m3",
		},
		Log:        logger.Discard(),
		Embedder:   embeddings.NewDeterministic(dim),
		Cache:      cache.NewNoOpCache(),
		InstanceID: "test-instance",
	}
}

func postJSON(handler http.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(http.MethodPost, path, nil)
	} else {
		req = httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func TestEmbedHandler(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantCount int
	}{
		{"single string input", `{"inputs": "hello"}`, 1},
		{"list input", `{"inputs": ["a", "b"]}`, 2},
		{"mixed list coerces non-strings", `{"inputs": ["a", "b", 3]}`, 3},
		{"empty object", `{}`, 0},
		{"missing body", ``, 0},
		{"malformed body", `not json`, 0},
		{"inputs is a number", `{"inputs": 42}`, 0},
		{"inputs is an object", `{"inputs": {"a": 1}}`, 0},
	}

	deps := newTestDeps(4)
	handler := embedHandler(deps)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(handler, "/embed", tt.body)

			if w.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d. Body: %s", w.Code, w.Body.String())
			}

			var vectors [][]float64
			if err := json.Unmarshal(w.Body.Bytes(), &vectors); err != nil {
				t.Fatalf("invalid JSON response: %v", err)
			}
			if len(vectors) != tt.wantCount {
				t.Fatalf("expected %d vectors, got %d", tt.wantCount, len(vectors))
			}
			for i, vec := range vectors {
				if len(vec) != 4 {
					t.Errorf("vector %d: expected 4 dimensions, got %d", i, len(vec))
				}
				for j, v := range vec {
					if v < -1.0 || v > 1.0 {
						t.Errorf("vector %d component %d out of range: %v", i, j, v)
					}
				}
			}
		})
	}
}

func TestEmbedHandlerDeterministicAndOrdered(t *testing.T) {
	deps := newTestDeps(4)
	handler := embedHandler(deps)
	body := `{"inputs": ["x", "y"]}`

	first := postJSON(handler, "/embed", body)
	second := postJSON(handler, "/embed", body)

	var a, b [][]float64
	if err := json.Unmarshal(first.Body.Bytes(), &a); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if err := json.Unmarshal(second.Body.Bytes(), &b); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}

	if len(a) != 2 || len(b) != 2 {
		t.Fatalf("expected 2 vectors per call, got %d and %d", len(a), len(b))
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("identical requests returned different vectors")
	}
	if reflect.DeepEqual(a[0], a[1]) {
		t.Error("distinct inputs returned identical vectors")
	}

	// Order follows the input list: "x" embeds the same alone as in a batch.
	solo := postJSON(handler, "/embed", `{"inputs": "y"}`)
	var c [][]float64
	if err := json.Unmarshal(solo.Body.Bytes(), &c); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if !reflect.DeepEqual(a[1], c[0]) {
		t.Error("vector for \"y\" depends on its position in the batch")
	}
}

func TestEmbedHandlerUsesCache(t *testing.T) {
	mockCache := new(cache.MockCache)
	mockEmbedder := new(embeddings.MockEmbedder)

	cached := embeddings.Vector{0.1, 0.2}
	mockEmbedder.On("Dim").Return(2)
	mockCache.On("Get", mock.Anything, cache.Key(2, "hit")).Return(cached, true, nil).Once()

	deps := newTestDeps(2)
	deps.Cache = mockCache
	deps.Embedder = mockEmbedder

	w := postJSON(embedHandler(deps), "/embed", `{"inputs": "hit"}`)

	var vectors [][]float64
	if err := json.Unmarshal(w.Body.Bytes(), &vectors); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if len(vectors) != 1 || !reflect.DeepEqual(embeddings.Vector(vectors[0]), cached) {
		t.Errorf("expected cached vector %v, got %v", cached, vectors)
	}

	// Embed must not have been called on a cache hit.
	mockEmbedder.AssertNotCalled(t, "Embed", mock.Anything)
	mockCache.AssertExpectations(t)
}

func TestEmbedHandlerSurvivesCacheFailure(t *testing.T) {
	mockCache := new(cache.MockCache)
	mockCache.On("Get", mock.Anything, mock.Anything).Return(nil, false, errors.New("redis down"))
	mockCache.On("Set", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("redis down"))

	deps := newTestDeps(4)
	deps.Cache = mockCache

	w := postJSON(embedHandler(deps), "/embed", `{"inputs": "text"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200 despite cache failure, got %d", w.Code)
	}
	var vectors [][]float64
	if err := json.Unmarshal(w.Body.Bytes(), &vectors); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if len(vectors) != 1 || len(vectors[0]) != 4 {
		t.Errorf("expected one 4-dim vector, got %v", vectors)
	}
}

func TestEmbedSparseHandler(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantCount int
	}{
		{"two inputs", `{"inputs": ["x", "y"]}`, 2},
		{"single string", `{"inputs": "x"}`, 1},
		{"empty object", `{}`, 0},
		{"malformed body", `{{{`, 0},
	}

	deps := newTestDeps(4)
	handler := embedSparseHandler(deps)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(handler, "/embed_sparse", tt.body)

			if w.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d", w.Code)
			}

			var sparse [][]map[string]float64
			if err := json.Unmarshal(w.Body.Bytes(), &sparse); err != nil {
				t.Fatalf("invalid JSON response: %v", err)
			}
			if len(sparse) != tt.wantCount {
				t.Fatalf("expected %d entries, got %d", tt.wantCount, len(sparse))
			}
			for i, entry := range sparse {
				if len(entry) != 1 {
					t.Fatalf("entry %d: expected a single pair, got %d", i, len(entry))
				}
				if entry[0]["index"] != 0 || entry[0]["value"] != 0.0 {
					t.Errorf("entry %d: expected {index:0, value:0}, got %v", i, entry[0])
				}
			}
		})
	}
}

func TestInfoHandler(t *testing.T) {
	deps := newTestDeps(4)
	w := httptest.NewRecorder()
	infoHandler(deps)(w, httptest.NewRequest(http.MethodGet, "/info", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if body["model_id"] != "BAAI/bge-m3" {
		t.Errorf("expected model_id BAAI/bge-m3, got %q", body["model_id"])
	}
}

func TestEmbedHandlerZeroDimension(t *testing.T) {
	deps := newTestDeps(0)
	w := postJSON(embedHandler(deps), "/embed", `{"inputs": ["a"]}`)

	var vectors [][]float64
	if err := json.Unmarshal(w.Body.Bytes(), &vectors); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if len(vectors) != 1 {
		t.Fatalf("expected 1 vector, got %d", len(vectors))
	}
	if len(vectors[0]) != 0 {
		t.Errorf("expected empty vector, got %v", vectors[0])
	}
}
