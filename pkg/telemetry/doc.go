// Package telemetry groups the observability packages of Solace.
//
//   - logging: slog construction with request IDs and secret redaction
//   - metrics: Prometheus collector and /metrics handler
//   - health: liveness and readiness checks behind /health and /ready
package telemetry
