package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"mercator-hq/solace/pkg/config"
)

// ConversationMetrics tracks the shared transcript.
//
// Metrics:
//   - solace_transcript_turns: transcript length after the last operation
//   - solace_transcript_truncations_total: turns dropped by the length cap
//   - solace_crisis_replies_total: messages answered with crisis resources
type ConversationMetrics struct {
	turns       prometheus.Gauge
	truncations prometheus.Counter
	crisis      prometheus.Counter
}

// NewConversationMetrics creates and registers transcript metrics.
func NewConversationMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *ConversationMetrics {
	cm := &ConversationMetrics{
		turns: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Name:      "transcript_turns",
			Help:      "Number of turns in the shared transcript",
		}),
		truncations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "transcript_truncations_total",
			Help:      "Total number of turns dropped by the transcript length cap",
		}),
		crisis: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "crisis_replies_total",
			Help:      "Total number of messages answered with crisis resources",
		}),
	}

	registry.MustRegister(cm.turns, cm.truncations, cm.crisis)
	return cm
}

// SetTranscriptTurns sets the transcript length gauge.
func (cm *ConversationMetrics) SetTranscriptTurns(n int) {
	cm.turns.Set(float64(n))
}

// RecordTruncation adds dropped turns.
func (cm *ConversationMetrics) RecordTruncation(dropped int) {
	cm.truncations.Add(float64(dropped))
}

// RecordCrisisReply increments the crisis reply counter.
func (cm *ConversationMetrics) RecordCrisisReply() {
	cm.crisis.Inc()
}
