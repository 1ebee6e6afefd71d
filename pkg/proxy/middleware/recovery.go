package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime/debug"

	"mercator-hq/solace/pkg/proxy/types"
)

// RecoveryMiddleware recovers from panics in HTTP handlers and returns
// 500 {"error": "Something went wrong. Please try again."}. The panic and
// stack trace are logged; nothing internal reaches the client.
//
// Example usage:
//
//	handler = RecoveryMiddleware(handler)
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				// Let the server abort the connection as it normally would
				if err == http.ErrAbortHandler {
					panic(err)
				}

				slog.ErrorContext(r.Context(), "panic in handler",
					"error", err,
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)

				apiErr := types.NewServerError()
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(apiErr.StatusCode)
				_ = json.NewEncoder(w).Encode(apiErr.Body)
			}
		}()

		next.ServeHTTP(w, r)
	})
}
