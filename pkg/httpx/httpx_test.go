package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestStatusOf(t *testing.T) {
	base := errors.New("boom")

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"plain", base, http.StatusInternalServerError},
		{"marked", WithStatus(http.StatusNotFound, base), http.StatusNotFound},
		{"wrapped", fmt.Errorf("outer: %w", WithStatus(http.StatusBadRequest, base)), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusOf(tt.err); got != tt.want {
				t.Errorf("StatusOf() = %d, want %d", got, tt.want)
			}
		})
	}

	if WithStatus(http.StatusBadRequest, nil) != nil {
		t.Error("WithStatus(nil) should be nil")
	}
	if !errors.Is(WithStatus(http.StatusBadRequest, base), base) {
		t.Error("WithStatus should keep the wrapped error")
	}
}

func TestWrap(t *testing.T) {
	handler := Wrap(func(w http.ResponseWriter, r *http.Request) error {
		if r.URL.Query().Get("fail") != "" {
			return WithStatus(http.StatusConflict, errors.New("already exists"))
		}
		JSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return nil
	})

	w := httptest.NewRecorder()
	handler(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	w = httptest.NewRecorder()
	handler(w, httptest.NewRequest(http.MethodGet, "/?fail=1", nil))
	if w.Code != http.StatusConflict {
		t.Fatalf("Expected status 409, got %d", w.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body["error"] != "already exists" {
		t.Errorf("error = %q", body["error"])
	}
}
