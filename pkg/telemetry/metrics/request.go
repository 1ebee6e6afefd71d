package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"mercator-hq/solace/pkg/config"
)

// RequestMetrics tracks conversation operations.
//
// Metrics:
//   - solace_requests_total: operations by operation (send, clear) and status
//   - solace_request_duration_seconds: operation duration including the provider call
type RequestMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewRequestMetrics creates and registers request metrics with the provided registry.
func NewRequestMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *RequestMetrics {
	rm := &RequestMetrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "requests_total",
				Help:      "Total number of conversation operations by outcome",
			},
			[]string{"operation", "status"},
		),

		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "request_duration_seconds",
				Help:      "Duration of conversation operations in seconds",
				Buckets:   cfg.RequestDurationBuckets,
			},
			[]string{"operation"},
		),
	}

	registry.MustRegister(rm.requestsTotal, rm.requestDuration)
	return rm
}

// RecordRequest records one finished operation.
func (rm *RequestMetrics) RecordRequest(operation, status string, duration time.Duration) {
	rm.requestsTotal.WithLabelValues(operation, status).Inc()
	rm.requestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// HTTPMetrics tracks the HTTP layer.
//
// Metrics:
//   - solace_http_requests_total: requests by path, method and status code
//   - solace_http_request_duration_seconds: handler latency by path
//   - solace_http_requests_in_flight: requests currently being served
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inFlight prometheus.Gauge
}

// NewHTTPMetrics creates and registers HTTP metrics with the provided registry.
func NewHTTPMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *HTTPMetrics {
	hm := &HTTPMetrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"path", "method", "code"},
		),

		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request latency in seconds",
				Buckets:   cfg.RequestDurationBuckets,
			},
			[]string{"path"},
		),

		inFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: "http",
				Name:      "requests_in_flight",
				Help:      "Number of HTTP requests currently being served",
			},
		),
	}

	registry.MustRegister(hm.requests, hm.duration, hm.inFlight)
	return hm
}

// RecordRequest records one served HTTP request.
func (hm *HTTPMetrics) RecordRequest(path, method string, status int, duration time.Duration) {
	hm.requests.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
	hm.duration.WithLabelValues(path).Observe(duration.Seconds())
}
