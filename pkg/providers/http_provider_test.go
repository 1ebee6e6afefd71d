package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func testProvider(url string) *HTTPProvider {
	return NewHTTPProvider(ProviderConfig{
		Name:    "test-provider",
		Type:    "openai",
		BaseURL: url,
		Timeout: 5 * time.Second,
	})
}

func TestHTTPProvider_SingleAttemptOn5xx(t *testing.T) {
	var attempts int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": "internal server error"}`))
	}))
	defer server.Close()

	provider := testProvider(server.URL)
	defer provider.Close()

	_, err := provider.DoRequest(context.Background(), "POST", server.URL+"/test", []byte(`{}`), nil)
	if err == nil {
		t.Fatal("expected error")
	}

	var perr *ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ProviderError, got %T", err)
	}
	if perr.StatusCode != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", perr.StatusCode)
	}
	if got := atomic.LoadInt32(&attempts); got != 1 {
		t.Errorf("expected exactly 1 attempt, got %d", got)
	}
}

func TestHTTPProvider_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		headers    map[string]string
		wantType   string
		checkError func(*testing.T, error)
	}{
		{
			name:     "unauthorized",
			status:   http.StatusUnauthorized,
			wantType: ErrorTypeAuth,
		},
		{
			name:     "forbidden",
			status:   http.StatusForbidden,
			wantType: ErrorTypeAuth,
		},
		{
			name:     "rate limited",
			status:   http.StatusTooManyRequests,
			headers:  map[string]string{"Retry-After": "12"},
			wantType: ErrorTypeRateLimit,
			checkError: func(t *testing.T, err error) {
				var rerr *RateLimitError
				if !errors.As(err, &rerr) {
					t.Fatalf("expected RateLimitError, got %T", err)
				}
				if rerr.RetryAfter != 12*time.Second {
					t.Errorf("expected retry after 12s, got %v", rerr.RetryAfter)
				}
			},
		},
		{
			name:     "bad request",
			status:   http.StatusBadRequest,
			wantType: ErrorTypeStatus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				for k, v := range tt.headers {
					w.Header().Set(k, v)
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"error": {"message": "nope"}}`))
			}))
			defer server.Close()

			provider := testProvider(server.URL)
			defer provider.Close()

			_, err := provider.DoRequest(context.Background(), "POST", server.URL, []byte(`{}`), nil)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := ErrorType(err); got != tt.wantType {
				t.Errorf("expected error type %q, got %q (%v)", tt.wantType, got, err)
			}
			if tt.checkError != nil {
				tt.checkError(t, err)
			}
		})
	}
}

func TestHTTPProvider_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	provider := NewHTTPProvider(ProviderConfig{
		Name:    "slow",
		BaseURL: server.URL,
		Timeout: 50 * time.Millisecond,
	})
	defer provider.Close()

	_, err := provider.DoRequest(context.Background(), "GET", server.URL, nil, nil)
	var terr *TimeoutError
	if !errors.As(err, &terr) {
		t.Fatalf("expected TimeoutError, got %T: %v", err, err)
	}
	if terr.Timeout != 50*time.Millisecond {
		t.Errorf("expected configured timeout in error, got %v", terr.Timeout)
	}
}

func TestHTTPProvider_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	provider := testProvider(server.URL)
	defer provider.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := provider.DoRequest(ctx, "GET", server.URL, nil, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected error wrapping context.Canceled, got %v", err)
	}
	if got := ErrorType(err); got != ErrorTypeNetwork {
		t.Errorf("expected network error type, got %q", got)
	}
}

func TestHTTPProvider_DoJSONRequest_ParseError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	provider := testProvider(server.URL)
	defer provider.Close()

	var out map[string]interface{}
	err := provider.DoJSONRequest(context.Background(), "POST", server.URL, map[string]string{"a": "b"}, &out, nil)

	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ParseError, got %T: %v", err, err)
	}
	if perr.RawResponse != "not json" {
		t.Errorf("expected raw response to be kept, got %q", perr.RawResponse)
	}
}

func TestHTTPProvider_DoJSONRequest_EmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	provider := testProvider(server.URL)
	defer provider.Close()

	var out map[string]interface{}
	err := provider.DoJSONRequest(context.Background(), "POST", server.URL, nil, &out, nil)
	if ErrorType(err) != ErrorTypeParse {
		t.Errorf("expected parse error for empty body, got %v", err)
	}
}

func TestHTTPProvider_DefaultContentType(t *testing.T) {
	var contentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	provider := testProvider(server.URL)
	defer provider.Close()

	var out map[string]interface{}
	if err := provider.DoJSONRequest(context.Background(), "POST", server.URL, map[string]int{"n": 1}, &out, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if contentType != "application/json" {
		t.Errorf("expected application/json, got %q", contentType)
	}
}

func TestHTTPProvider_CircuitBreaker(t *testing.T) {
	var fail atomic.Bool
	fail.Store(true)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	provider := testProvider(server.URL)
	defer provider.Close()

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		_, _ = provider.DoRequest(ctx, "GET", server.URL, nil, nil)
	}
	if !provider.IsHealthy() {
		t.Fatal("expected provider to stay healthy after 2 failures")
	}

	_, _ = provider.DoRequest(ctx, "GET", server.URL, nil, nil)
	if provider.IsHealthy() {
		t.Fatal("expected provider unhealthy after 3 consecutive failures")
	}

	health := provider.GetHealth()
	if health.ConsecutiveFailures != 3 || health.FailedRequests != 3 || health.TotalRequests != 3 {
		t.Errorf("unexpected health counters: %+v", health)
	}

	fail.Store(false)
	resp, err := provider.DoRequest(ctx, "GET", server.URL, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()

	if !provider.IsHealthy() {
		t.Error("expected provider healthy after a success")
	}
	if provider.GetHealth().LastError != nil {
		t.Error("expected last error cleared after success")
	}
}

func TestHTTPProvider_ClientErrorsKeepHealth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	provider := testProvider(server.URL)
	defer provider.Close()

	for i := 0; i < 5; i++ {
		_, _ = provider.DoRequest(context.Background(), "POST", server.URL, []byte(`{}`), nil)
	}
	if !provider.IsHealthy() {
		t.Error("400 responses should not mark the provider unhealthy")
	}
}

func TestParseRetryAfter(t *testing.T) {
	if got := parseRetryAfter(""); got != 0 {
		t.Errorf("expected 0 for empty header, got %v", got)
	}
	if got := parseRetryAfter("7"); got != 7*time.Second {
		t.Errorf("expected 7s, got %v", got)
	}
	future := time.Now().Add(time.Minute).UTC().Format(http.TimeFormat)
	if got := parseRetryAfter(future); got <= 0 || got > time.Minute {
		t.Errorf("expected positive duration up to 1m, got %v", got)
	}
	if got := parseRetryAfter("soon"); got != 0 {
		t.Errorf("expected 0 for garbage, got %v", got)
	}
}
