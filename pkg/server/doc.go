// Package server provides the HTTP front of the Solace chat proxy.
//
// It routes requests to the chat, clear, health, readiness, version and
// metrics handlers and wraps them in the middleware chain. It also owns the
// server lifecycle: listening, readiness and graceful shutdown.
//
// # Routes
//
//	POST /chat     send a message, receive the assistant reply
//	POST /clear    reset the transcript to the system prompt
//	GET  /health   liveness
//	GET  /ready    readiness (provider and audit storage checks)
//	GET  /version  build information
//	GET  /metrics  Prometheus metrics, when enabled
//
// Unknown paths get a JSON 404.
//
// # Middleware
//
// Outermost first: request ID, panic recovery, access logging, CORS, HTTP
// metrics. The request ID is assigned before logging so every access log
// line carries it.
//
// # Basic Usage
//
//	srv, err := server.New(&cfg.Server, server.Options{
//	    Conversation: svc,
//	    Checker:      checker,
//	    Metrics:      collector,
//	    AuthHeader:   cfg.Auth.Header,
//	})
//	if err != nil {
//	    return err
//	}
//	// Start blocks until ctx is cancelled, then shuts down gracefully
//	if err := srv.Start(ctx); err != nil {
//	    return err
//	}
//
// Signal handling is left to the caller; cmd/solace cancels ctx on SIGINT
// or SIGTERM.
package server
