// Package metrics provides Prometheus metrics for Solace.
//
// A Collector owns a private registry. It is registered as a
// conversation.Observer, so every send and clear updates the request,
// provider and transcript metrics, and the metrics middleware reports the
// HTTP layer through RecordHTTPRequest.
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	mux.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())
//
// # Metrics
//
//   - solace_requests_total{operation,status}
//   - solace_request_duration_seconds{operation}
//   - solace_provider_latency_seconds{provider,model}
//   - solace_provider_errors_total{provider,type}
//   - solace_provider_health{provider}
//   - solace_tokens_total{type}
//   - solace_transcript_turns
//   - solace_transcript_truncations_total
//   - solace_crisis_replies_total
//   - solace_http_requests_total{path,method,code}
//   - solace_http_request_duration_seconds{path}
//   - solace_http_requests_in_flight
//
// Labels never carry message content or credentials.
package metrics
