// Package proxy implements the HTTP surface of Solace.
//
// The root package holds request parsing, JSON response writers and the
// mapping from conversation errors to HTTP errors:
//
//	ErrUnauthorized        → 401 {"error": "Unauthorized"}
//	ErrBadRequest          → 400 {"error": "Request body must include a 'message' field."}
//	*UpstreamError, other  → 500 {"error": "Something went wrong. Please try again."}
//
// Subpackages:
//   - handlers: /chat, /clear, /health, /ready and /version
//   - middleware: recovery, logging, request ID, CORS and metrics
//   - types: JSON request and response bodies
//
// The server that assembles these lives in pkg/server.
package proxy
