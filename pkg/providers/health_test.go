package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestHealthCheck_UsesHealthPath(t *testing.T) {
	var path, auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		auth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	provider := NewHTTPProvider(ProviderConfig{
		Name:    "test",
		BaseURL: server.URL + "/v1",
		APIKey:  "sk-test",
		Timeout: time.Second,
	})
	defer provider.Close()
	provider.SetHealthPath(server.URL + "/v1/models")

	if err := provider.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck failed: %v", err)
	}
	if path != "/v1/models" {
		t.Errorf("expected /v1/models, got %q", path)
	}
	if auth != "Bearer sk-test" {
		t.Errorf("expected bearer auth, got %q", auth)
	}
}

func TestHealthChecker_PeriodicChecks(t *testing.T) {
	var checks int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&checks, 1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	provider := NewHTTPProvider(ProviderConfig{
		Name:                "test",
		BaseURL:             server.URL,
		Timeout:             time.Second,
		HealthCheckInterval: 20 * time.Millisecond,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	provider.StartHealthChecker(ctx)

	deadline := time.Now().Add(2 * time.Second)
	for atomic.LoadInt32(&checks) < 2 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if atomic.LoadInt32(&checks) < 2 {
		t.Fatalf("expected at least 2 periodic checks, got %d", checks)
	}

	if err := provider.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	after := atomic.LoadInt32(&checks)
	time.Sleep(60 * time.Millisecond)
	if atomic.LoadInt32(&checks) != after {
		t.Error("expected no checks after Close")
	}
}

func TestHealthChecker_DisabledWithoutInterval(t *testing.T) {
	provider := NewHTTPProvider(ProviderConfig{Name: "test", BaseURL: "http://127.0.0.1:1"})
	provider.StartHealthChecker(context.Background())

	start := time.Now()
	if err := provider.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if time.Since(start) > time.Second {
		t.Error("Close should return immediately when no checker is running")
	}

	// A second Close is a no-op
	if err := provider.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
}

func TestCalculateBackoff(t *testing.T) {
	base := 10 * time.Second

	tests := []struct {
		failures int
		want     time.Duration
	}{
		{0, base},
		{1, 20 * time.Second},
		{2, 40 * time.Second},
		{3, 80 * time.Second},
		{4, 100 * time.Second},
		{50, 100 * time.Second},
	}

	for _, tt := range tests {
		if got := calculateBackoff(tt.failures, base); got != tt.want {
			t.Errorf("calculateBackoff(%d) = %v, want %v", tt.failures, got, tt.want)
		}
	}

	if got := calculateBackoff(4, time.Minute); got != 5*time.Minute {
		t.Errorf("expected backoff capped at 5m, got %v", got)
	}
}
