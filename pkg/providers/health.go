package providers

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// StartHealthChecker starts a background goroutine that periodically checks
// the provider's health. It is a no-op when HealthCheckInterval is zero.
//
// The checker runs until the provider is closed or the context is cancelled.
// While the provider is unhealthy the interval backs off exponentially.
func (p *HTTPProvider) StartHealthChecker(ctx context.Context) {
	if p.config.HealthCheckInterval <= 0 {
		return
	}

	p.healthMu.Lock()
	if p.checkerStarted {
		p.healthMu.Unlock()
		return
	}
	p.checkerStarted = true
	p.healthMu.Unlock()

	go p.runHealthChecker(ctx)
}

// runHealthChecker is the main health checking loop.
func (p *HTTPProvider) runHealthChecker(ctx context.Context) {
	defer close(p.healthCheckStopped)

	interval := p.config.HealthCheckInterval
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("health checker started",
		"provider", p.config.Name,
		"interval", interval,
	)

	for {
		select {
		case <-ctx.Done():
			slog.Debug("health checker stopped (context cancelled)", "provider", p.config.Name)
			return

		case <-p.stopHealthCheck:
			slog.Debug("health checker stopped (provider closed)", "provider", p.config.Name)
			return

		case <-ticker.C:
			p.performHealthCheck(ctx)

			if !p.IsHealthy() {
				health := p.GetHealth()
				ticker.Reset(calculateBackoff(health.ConsecutiveFailures, interval))
			} else {
				ticker.Reset(interval)
			}
		}
	}
}

// performHealthCheck executes a single health check.
func (p *HTTPProvider) performHealthCheck(ctx context.Context) {
	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	start := time.Now()
	err := p.HealthCheck(checkCtx)
	latency := time.Since(start)

	if err != nil {
		slog.Error("health check failed",
			"provider", p.config.Name,
			"error", err,
			"latency", latency,
		)
		return
	}

	slog.Debug("health check passed",
		"provider", p.config.Name,
		"latency", latency,
	)
}

// HealthCheck performs a synchronous GET against the health URL.
// Any 2xx response counts as healthy.
func (p *HTTPProvider) HealthCheck(ctx context.Context) error {
	headers := make(map[string]string)
	if p.config.APIKey != "" {
		headers["Authorization"] = "Bearer " + p.config.APIKey
	}

	resp, err := p.DoRequest(ctx, http.MethodGet, p.healthPath, nil, headers)
	if err != nil {
		return err
	}
	resp.Body.Close()

	return nil
}

// calculateBackoff calculates the backoff interval based on consecutive failures.
// It uses exponential backoff with a maximum interval of 5 minutes.
func calculateBackoff(consecutiveFailures int, baseInterval time.Duration) time.Duration {
	if consecutiveFailures <= 0 {
		return baseInterval
	}

	multiplier := 1 << uint(min(consecutiveFailures, 4))
	if multiplier > 10 {
		multiplier = 10 // Cap at 10x the base interval
	}

	backoff := baseInterval * time.Duration(multiplier)

	maxBackoff := 5 * time.Minute
	if backoff > maxBackoff {
		backoff = maxBackoff
	}

	return backoff
}
