package metrics

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"mercator-hq/solace/pkg/config"
	"mercator-hq/solace/pkg/conversation"
)

// maxRouteCardinality bounds the number of distinct HTTP path labels.
const maxRouteCardinality = 64

// Collector owns the Prometheus registry and every Solace metric.
// It implements conversation.Observer so the conversation service reports
// exchanges to it directly.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	requestMetrics      *RequestMetrics
	providerMetrics     *ProviderMetrics
	conversationMetrics *ConversationMetrics
	httpMetrics         *HTTPMetrics

	routes *CardinalityLimiter
}

// NewCollector creates a collector and registers its metrics with registry.
// A nil registry gets a fresh one.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if len(cfg.RequestDurationBuckets) == 0 {
		cfg.RequestDurationBuckets = prometheus.DefBuckets
	}

	return &Collector{
		config:              cfg,
		registry:            registry,
		requestMetrics:      NewRequestMetrics(cfg, registry),
		providerMetrics:     NewProviderMetrics(cfg, registry),
		conversationMetrics: NewConversationMetrics(cfg, registry),
		httpMetrics:         NewHTTPMetrics(cfg, registry),
		routes:              NewCardinalityLimiter(maxRouteCardinality),
	}
}

// ObserveExchange records one conversation operation.
func (c *Collector) ObserveExchange(_ context.Context, ex *conversation.Exchange) {
	if !c.config.Enabled {
		return
	}

	c.requestMetrics.RecordRequest(ex.Operation, ex.Status, ex.Duration)

	switch ex.Status {
	case conversation.StatusSuccess:
		if ex.Operation == conversation.OperationSend {
			c.providerMetrics.RecordLatency(ex.Provider, ex.Model, ex.ProviderLatency)
			c.providerMetrics.RecordTokens(ex.Usage.PromptTokens, ex.Usage.CompletionTokens)
		}
	case conversation.StatusUpstreamError:
		c.providerMetrics.RecordError(ex.Provider, ex.ErrorType)
	case conversation.StatusCrisis:
		c.conversationMetrics.RecordCrisisReply()
	}

	// Rejected requests never saw the transcript
	if ex.Status != conversation.StatusUnauthorized && ex.Status != conversation.StatusBadRequest {
		c.conversationMetrics.SetTranscriptTurns(ex.TranscriptTurns)
	}
	if ex.Truncated > 0 {
		c.conversationMetrics.RecordTruncation(ex.Truncated)
	}
}

// RecordHTTPRequest records one served HTTP request. Paths beyond the
// cardinality limit are reported as "other".
func (c *Collector) RecordHTTPRequest(path, method string, status int, duration time.Duration) {
	if !c.config.Enabled {
		return
	}
	if !c.routes.Allow(path) {
		path = "other"
	}
	c.httpMetrics.RecordRequest(path, method, status, duration)
}

// HTTPInFlight adjusts the in-flight request gauge by delta.
func (c *Collector) HTTPInFlight(delta float64) {
	if !c.config.Enabled {
		return
	}
	c.httpMetrics.inFlight.Add(delta)
}

// UpdateProviderHealth sets the provider health gauge (1=healthy, 0=unhealthy).
func (c *Collector) UpdateProviderHealth(provider string, healthy bool) {
	if !c.config.Enabled {
		return
	}
	c.providerMetrics.UpdateHealth(provider, healthy)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// CardinalityLimiter caps the number of distinct label values.
type CardinalityLimiter struct {
	maxCardinality int
	current        map[string]struct{}
	mu             sync.RWMutex
}

// NewCardinalityLimiter creates a limiter that admits maxCardinality values.
func NewCardinalityLimiter(maxCardinality int) *CardinalityLimiter {
	return &CardinalityLimiter{
		maxCardinality: maxCardinality,
		current:        make(map[string]struct{}),
	}
}

// Allow reports whether value is already tracked or still fits.
func (cl *CardinalityLimiter) Allow(value string) bool {
	cl.mu.RLock()
	if _, exists := cl.current[value]; exists {
		cl.mu.RUnlock()
		return true
	}
	cl.mu.RUnlock()

	cl.mu.Lock()
	defer cl.mu.Unlock()

	if _, exists := cl.current[value]; exists {
		return true
	}
	if len(cl.current) >= cl.maxCardinality {
		return false
	}

	cl.current[value] = struct{}{}
	return true
}

// Count returns the current cardinality.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}
