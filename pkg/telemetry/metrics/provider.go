package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"mercator-hq/solace/pkg/config"
)

// ProviderMetrics tracks the completion provider.
//
// Metrics:
//   - solace_provider_health: provider health status (1=healthy, 0=unhealthy)
//   - solace_provider_latency_seconds: provider round-trip latency
//   - solace_provider_errors_total: provider errors by type
//   - solace_tokens_total: tokens reported by the provider, by type
type ProviderMetrics struct {
	health  *prometheus.GaugeVec
	latency *prometheus.HistogramVec
	errors  *prometheus.CounterVec
	tokens  *prometheus.CounterVec
}

// NewProviderMetrics creates and registers provider metrics with the provided registry.
func NewProviderMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *ProviderMetrics {
	pm := &ProviderMetrics{
		health: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Name:      "provider_health",
				Help:      "Provider health status (1=healthy, 0=unhealthy)",
			},
			[]string{"provider"},
		),

		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "provider_latency_seconds",
				Help:      "Provider API call latency in seconds",
				Buckets:   cfg.RequestDurationBuckets,
			},
			[]string{"provider", "model"},
		),

		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "provider_errors_total",
				Help:      "Total number of provider errors by type",
			},
			[]string{"provider", "type"},
		),

		tokens: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "tokens_total",
				Help:      "Total tokens reported by the provider",
			},
			[]string{"type"},
		),
	}

	registry.MustRegister(pm.health, pm.latency, pm.errors, pm.tokens)
	return pm
}

// RecordLatency records a provider round trip. Zero latencies are skipped.
func (pm *ProviderMetrics) RecordLatency(provider, model string, latency time.Duration) {
	if latency <= 0 {
		return
	}
	pm.latency.WithLabelValues(provider, model).Observe(latency.Seconds())
}

// RecordError increments the error counter for errorType.
func (pm *ProviderMetrics) RecordError(provider, errorType string) {
	if errorType == "" {
		errorType = "unknown"
	}
	pm.errors.WithLabelValues(provider, errorType).Inc()
}

// RecordTokens adds prompt and completion token counts.
func (pm *ProviderMetrics) RecordTokens(prompt, completion int) {
	if prompt > 0 {
		pm.tokens.WithLabelValues("prompt").Add(float64(prompt))
	}
	if completion > 0 {
		pm.tokens.WithLabelValues("completion").Add(float64(completion))
	}
}

// UpdateHealth sets the health gauge.
func (pm *ProviderMetrics) UpdateHealth(provider string, healthy bool) {
	value := 0.0
	if healthy {
		value = 1.0
	}
	pm.health.WithLabelValues(provider).Set(value)
}
