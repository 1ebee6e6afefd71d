package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mercator-hq/solace/pkg/config"
)

func TestCORSMiddleware(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	t.Run("adds CORS headers for allowed origin", func(t *testing.T) {
		cfg := &CORSConfig{
			Enabled:        true,
			AllowedOrigins: []string{"https://example.com"},
			AllowedMethods: []string{"GET", "POST"},
			ExposedHeaders: []string{"X-Request-ID"},
		}

		req := httptest.NewRequest(http.MethodPost, "/chat", nil)
		req.Header.Set("Origin", "https://example.com")
		w := httptest.NewRecorder()

		CORSMiddleware(cfg)(handler).ServeHTTP(w, req)

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://example.com" {
			t.Errorf("Access-Control-Allow-Origin = %q", got)
		}
		if got := w.Header().Get("Access-Control-Expose-Headers"); got != "X-Request-ID" {
			t.Errorf("Access-Control-Expose-Headers = %q", got)
		}
	})

	t.Run("wildcard allows any origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/chat", nil)
		req.Header.Set("Origin", "https://any-origin.com")
		w := httptest.NewRecorder()

		CORSMiddleware(DefaultCORSConfig())(handler).ServeHTTP(w, req)

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
			t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
		}
	})

	t.Run("disallowed origin gets no header", func(t *testing.T) {
		cfg := &CORSConfig{Enabled: true, AllowedOrigins: []string{"https://example.com"}}

		req := httptest.NewRequest(http.MethodPost, "/chat", nil)
		req.Header.Set("Origin", "https://evil.example")
		w := httptest.NewRecorder()

		CORSMiddleware(cfg)(handler).ServeHTTP(w, req)

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Errorf("Access-Control-Allow-Origin = %q, want empty", got)
		}
		if w.Code != http.StatusOK {
			t.Errorf("request should still reach the handler, got %d", w.Code)
		}
	})

	t.Run("credentials echo the origin", func(t *testing.T) {
		cfg := &CORSConfig{Enabled: true, AllowedOrigins: []string{"*"}, AllowCredentials: true}

		req := httptest.NewRequest(http.MethodPost, "/chat", nil)
		req.Header.Set("Origin", "https://app.example")
		w := httptest.NewRecorder()

		CORSMiddleware(cfg)(handler).ServeHTTP(w, req)

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example" {
			t.Errorf("Access-Control-Allow-Origin = %q", got)
		}
		if got := w.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
			t.Errorf("Access-Control-Allow-Credentials = %q", got)
		}
	})

	t.Run("handles preflight request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/chat", nil)
		req.Header.Set("Origin", "https://example.com")
		req.Header.Set("Access-Control-Request-Method", "POST")
		w := httptest.NewRecorder()

		CORSMiddleware(DefaultCORSConfig())(handler).ServeHTTP(w, req)

		if w.Code != http.StatusNoContent {
			t.Errorf("Status code = %v, want %v", w.Code, http.StatusNoContent)
		}
		if !strings.Contains(w.Header().Get("Access-Control-Allow-Headers"), "devkey") {
			t.Errorf("Access-Control-Allow-Headers = %q, want devkey included", w.Header().Get("Access-Control-Allow-Headers"))
		}
		if got := w.Header().Get("Access-Control-Max-Age"); got != "3600" {
			t.Errorf("Access-Control-Max-Age = %q", got)
		}
	})

	t.Run("disabled passes through", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/chat", nil)
		req.Header.Set("Origin", "https://example.com")
		req.Header.Set("Access-Control-Request-Method", "POST")
		w := httptest.NewRecorder()

		CORSMiddleware(&CORSConfig{Enabled: false})(handler).ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Status code = %v, want %v", w.Code, http.StatusOK)
		}
		if w.Header().Get("Access-Control-Allow-Origin") != "" {
			t.Error("no CORS headers expected when disabled")
		}
	})
}

func TestCORSFromConfig(t *testing.T) {
	cfg := config.Default().Server.CORS
	cfg.AllowedHeaders = []string{"Content-Type"}

	got := CORSFromConfig(cfg, "x-secret")
	if len(got.AllowedHeaders) != 2 || got.AllowedHeaders[1] != "x-secret" {
		t.Errorf("AllowedHeaders = %v, want auth header appended", got.AllowedHeaders)
	}
	if len(cfg.AllowedHeaders) != 1 {
		t.Error("CORSFromConfig must not modify the input slice")
	}

	got = CORSFromConfig(cfg, "content-type")
	if len(got.AllowedHeaders) != 1 {
		t.Errorf("AllowedHeaders = %v, header already present", got.AllowedHeaders)
	}
}
