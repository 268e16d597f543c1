package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"embed-mock/internal/logger"
)

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSON(w, http.StatusOK, map[string]string{"model_id": "test"})

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %s", ct)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if body["model_id"] != "test" {
		t.Errorf("expected model_id=test, got %v", body)
	}
}

func TestHealthHandler(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	HealthHandler(logger.Discard())(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
	if w.Body.String() != "ok" {
		t.Errorf("expected body 'ok', got %q", w.Body.String())
	}
}

func TestInstanceIDHeader(t *testing.T) {
	r := NewRouter(logger.Discard(), "abc-123")
	r.Get("/health", HealthHandler(logger.Discard()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if got := w.Header().Get("X-Instance-Id"); got != "abc-123" {
		t.Errorf("expected X-Instance-Id=abc-123, got %q", got)
	}
}

func TestRecovererTurnsPanicInto500(t *testing.T) {
	r := NewRouter(logger.Discard(), "id")
	r.Get("/boom", func(w http.ResponseWriter, req *http.Request) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", w.Code)
	}
}
