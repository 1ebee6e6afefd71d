// Package providers defines the completion provider abstraction used by the
// conversation service.
//
// # Architecture
//
//  1. Provider interface: the contract every adapter implements
//  2. HTTPProvider: shared HTTP client logic (connection pooling, timeouts,
//     error classification, health bookkeeping)
//  3. Adapters: openai (OpenAI chat completions) and generic
//     (OpenAI-compatible servers such as Ollama, vLLM or LM Studio)
//
// Adapters are built from configuration by the providerfactory package.
//
// # Single Attempt
//
// A completion request is sent exactly once. Failed requests are returned to
// the caller as typed errors and never retried:
//
//   - AuthError: the provider rejected the API key (401, 403)
//   - RateLimitError: the provider throttled the request (429)
//   - TimeoutError: the request exceeded its deadline
//   - ProviderError: any other non-2xx status or a transport failure
//   - ParseError: the body could not be decoded or had no choices
//
// ErrorType maps any of these to a short label for metrics and audit records.
//
// # Health
//
// Every request updates the provider's health. Three consecutive failures
// mark the provider unhealthy; the next success marks it healthy again.
// StartHealthChecker adds periodic background checks when
// ProviderConfig.HealthCheckInterval is set.
package providers
