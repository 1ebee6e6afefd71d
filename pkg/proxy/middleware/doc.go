// Package middleware provides HTTP middleware for cross-cutting concerns.
//
// # Middleware Chain
//
// The server applies middleware in this order, outermost first:
//
//	handler = Chain(mux,
//	    RequestIDMiddleware,
//	    RecoveryMiddleware,
//	    LoggingMiddleware(logger),
//	    CORSMiddleware(cors),
//	    MetricsMiddleware(collector),
//	)
//
//  1. RequestID: reuse X-Request-ID or generate a UUID; store it in the context
//  2. Recovery: turn panics into a 500 JSON error
//  3. Logging: one line per request, tagged with the request ID
//  4. CORS: headers and preflight responses
//  5. Metrics: request count, latency and in-flight gauge per route
//
// The request ID is stored with logging.WithRequestID, so every log record
// written with the request context carries it, and the audit recorder reads
// it from there.
package middleware
