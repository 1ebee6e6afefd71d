package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	wrapped := RequestIDMiddleware(handler)

	t.Run("generates request ID when not provided", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		w := httptest.NewRecorder()

		wrapped.ServeHTTP(w, req)

		requestID := w.Header().Get(RequestIDHeader)
		if _, err := uuid.Parse(requestID); err != nil {
			t.Errorf("Request ID %q is not a UUID: %v", requestID, err)
		}
		if seen != requestID {
			t.Errorf("context request ID = %q, header = %q", seen, requestID)
		}
	})

	t.Run("uses provided request ID", func(t *testing.T) {
		customID := "custom-request-id-12345"
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set(RequestIDHeader, customID)
		w := httptest.NewRecorder()

		wrapped.ServeHTTP(w, req)

		if got := w.Header().Get(RequestIDHeader); got != customID {
			t.Errorf("Request ID = %v, want %v", got, customID)
		}
		if seen != customID {
			t.Errorf("context request ID = %v, want %v", seen, customID)
		}
	})

	t.Run("replaces oversized request ID", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set(RequestIDHeader, strings.Repeat("x", maxRequestIDLength+1))
		w := httptest.NewRecorder()

		wrapped.ServeHTTP(w, req)

		if _, err := uuid.Parse(w.Header().Get(RequestIDHeader)); err != nil {
			t.Errorf("oversized ID should be replaced with a UUID, got %q", w.Header().Get(RequestIDHeader))
		}
	})

	t.Run("generates unique IDs for different requests", func(t *testing.T) {
		w1 := httptest.NewRecorder()
		wrapped.ServeHTTP(w1, httptest.NewRequest(http.MethodGet, "/health", nil))
		w2 := httptest.NewRecorder()
		wrapped.ServeHTTP(w2, httptest.NewRequest(http.MethodGet, "/health", nil))

		if w1.Header().Get(RequestIDHeader) == w2.Header().Get(RequestIDHeader) {
			t.Error("Request IDs should be unique")
		}
	})
}
