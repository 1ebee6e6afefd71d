package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// maxErrorBody bounds how much of an error response is kept in error values.
const maxErrorBody = 4096

// HTTPProvider is the base implementation for HTTP-based provider adapters.
// It provides connection pooling, timeout handling, error classification
// and health bookkeeping. Each request is attempted exactly once.
//
// Concrete adapters embed this struct and implement SendCompletion.
type HTTPProvider struct {
	config ProviderConfig
	client *http.Client

	health   ProviderHealth
	healthMu sync.RWMutex

	// healthPath is the URL requested by HealthCheck
	healthPath string

	stopOnce           sync.Once
	checkerStarted     bool
	stopHealthCheck    chan struct{}
	healthCheckStopped chan struct{}
}

// NewHTTPProvider creates a new base HTTP provider with connection pooling.
func NewHTTPProvider(config ProviderConfig) *HTTPProvider {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        config.MaxIdleConns,
		MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
		IdleConnTimeout:     config.IdleConnTimeout,
		ForceAttemptHTTP2:   true,
	}

	client := &http.Client{
		Transport: transport,
		Timeout:   config.Timeout,
	}

	now := time.Now()
	return &HTTPProvider{
		config: config,
		client: client,
		health: ProviderHealth{
			IsHealthy:             true, // Start optimistic
			LastCheck:             now,
			LastSuccessfulRequest: now,
		},
		healthPath:         strings.TrimRight(config.BaseURL, "/"),
		stopHealthCheck:    make(chan struct{}),
		healthCheckStopped: make(chan struct{}),
	}
}

// GetName returns the provider's configured name.
func (p *HTTPProvider) GetName() string {
	return p.config.Name
}

// GetType returns the provider's type.
func (p *HTTPProvider) GetType() string {
	return p.config.Type
}

// GetConfig returns the provider's configuration.
func (p *HTTPProvider) GetConfig() ProviderConfig {
	return p.config
}

// SetHealthPath sets the URL requested by HealthCheck.
func (p *HTTPProvider) SetHealthPath(url string) {
	p.healthPath = url
}

// IsHealthy returns the current health status.
func (p *HTTPProvider) IsHealthy() bool {
	p.healthMu.RLock()
	defer p.healthMu.RUnlock()
	return p.health.IsHealthy
}

// GetHealth returns detailed health information.
func (p *HTTPProvider) GetHealth() ProviderHealth {
	p.healthMu.RLock()
	defer p.healthMu.RUnlock()
	return p.health
}

// updateHealth updates the provider's health status.
// This is called after each health check or request.
func (p *HTTPProvider) updateHealth(success bool, err error) {
	p.healthMu.Lock()
	defer p.healthMu.Unlock()

	p.health.LastCheck = time.Now()

	if success {
		p.health.IsHealthy = true
		p.health.ConsecutiveFailures = 0
		p.health.LastError = nil
		p.health.LastSuccessfulRequest = time.Now()
		return
	}

	p.health.ConsecutiveFailures++
	p.health.LastError = err

	if p.health.ConsecutiveFailures >= unhealthyThreshold && p.health.IsHealthy {
		p.health.IsHealthy = false
		slog.Warn("provider marked unhealthy",
			"provider", p.config.Name,
			"consecutive_failures", p.health.ConsecutiveFailures,
			"error", err,
		)
	}
}

// recordRequest records request counters.
func (p *HTTPProvider) recordRequest(success bool) {
	p.healthMu.Lock()
	defer p.healthMu.Unlock()

	p.health.TotalRequests++
	if !success {
		p.health.FailedRequests++
	}
}

// DoRequest performs a single HTTP request and classifies failures into the
// package's typed errors. The caller must close the body of a returned
// response.
func (p *HTTPProvider) DoRequest(ctx context.Context, method, url string, body []byte, headers map[string]string) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, &ProviderError{
			Provider: p.config.Name,
			Message:  "failed to create request",
			Cause:    err,
		}
	}

	for key, value := range headers {
		req.Header.Set(key, value)
	}
	if req.Header.Get("Content-Type") == "" && body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	slog.Debug("sending request to provider",
		"provider", p.config.Name,
		"method", method,
		"url", url,
	)

	resp, err := p.client.Do(req)
	if err != nil {
		p.recordRequest(false)
		perr := p.transportError(ctx, err)
		p.updateHealth(false, perr)
		return nil, perr
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		p.recordRequest(true)
		p.updateHealth(true, nil)
		return resp, nil
	}

	errorBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	resp.Body.Close()
	p.recordRequest(false)

	var perr error
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		perr = &AuthError{
			Provider: p.config.Name,
			Message:  string(errorBody),
		}
	case http.StatusTooManyRequests:
		perr = &RateLimitError{
			Provider:   p.config.Name,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Message:    string(errorBody),
		}
	default:
		perr = &ProviderError{
			Provider:   p.config.Name,
			StatusCode: resp.StatusCode,
			Message:    string(errorBody),
		}
	}

	// Client-side mistakes say nothing about provider availability
	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		p.updateHealth(false, perr)
	}

	return nil, perr
}

// transportError maps a client.Do failure to a typed error.
func (p *HTTPProvider) transportError(ctx context.Context, err error) error {
	var netErr net.Error
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &TimeoutError{
			Provider: p.config.Name,
			Timeout:  p.config.Timeout,
			Cause:    err,
		}
	}
	if errors.Is(ctx.Err(), context.Canceled) {
		return &ProviderError{
			Provider: p.config.Name,
			Message:  "request cancelled",
			Cause:    ctx.Err(),
		}
	}
	return &ProviderError{
		Provider: p.config.Name,
		Message:  "request failed",
		Cause:    err,
	}
}

// DoJSONRequest performs a JSON request and decodes the response.
func (p *HTTPProvider) DoJSONRequest(ctx context.Context, method, url string, reqBody interface{}, respBody interface{}, headers map[string]string) error {
	var bodyBytes []byte
	if reqBody != nil {
		var err error
		bodyBytes, err = json.Marshal(reqBody)
		if err != nil {
			return &ValidationError{
				Field:   "request",
				Message: fmt.Sprintf("failed to marshal request: %v", err),
			}
		}
	}

	resp, err := p.DoRequest(ctx, method, url, bodyBytes, headers)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	responseBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return &ParseError{
			Provider: p.config.Name,
			Cause:    fmt.Errorf("failed to read response: %w", err),
		}
	}

	if respBody == nil {
		return nil
	}
	if len(responseBytes) == 0 {
		return &ParseError{
			Provider: p.config.Name,
			Cause:    errors.New("empty response body"),
		}
	}
	if err := json.Unmarshal(responseBytes, respBody); err != nil {
		raw := string(responseBytes)
		if len(raw) > maxErrorBody {
			raw = raw[:maxErrorBody]
		}
		return &ParseError{
			Provider:    p.config.Name,
			RawResponse: raw,
			Cause:       fmt.Errorf("failed to unmarshal response: %w", err),
		}
	}

	return nil
}

// Close stops the health checker, if running, and closes idle connections.
func (p *HTTPProvider) Close() error {
	p.stopOnce.Do(func() {
		close(p.stopHealthCheck)

		p.healthMu.RLock()
		started := p.checkerStarted
		p.healthMu.RUnlock()

		if started {
			select {
			case <-p.healthCheckStopped:
			case <-time.After(5 * time.Second):
				slog.Warn("health checker did not stop in time", "provider", p.config.Name)
			}
		}

		p.client.CloseIdleConnections()
		slog.Debug("provider closed", "provider", p.config.Name)
	})
	return nil
}

// parseRetryAfter parses the Retry-After header value.
// It supports both delay-seconds and HTTP-date formats.
func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}

	var seconds int
	if _, err := fmt.Sscanf(header, "%d", &seconds); err == nil {
		return time.Duration(seconds) * time.Second
	}

	if t, err := http.ParseTime(header); err == nil {
		return time.Until(t)
	}

	return 0
}
