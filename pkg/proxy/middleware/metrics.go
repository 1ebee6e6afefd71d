package middleware

import (
	"net/http"
	"time"
)

// HTTPRecorder receives per-request HTTP measurements.
// *metrics.Collector implements it.
type HTTPRecorder interface {
	RecordHTTPRequest(path, method string, status int, duration time.Duration)
	HTTPInFlight(delta float64)
}

// MetricsMiddleware records request count, latency and in-flight requests.
// It should wrap the ServeMux directly so the matched route pattern is
// available; unmatched requests are recorded as "unmatched".
//
// Example usage:
//
//	handler = MetricsMiddleware(collector)(mux)
func MetricsMiddleware(recorder HTTPRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if recorder == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := newResponseWriter(w)

			recorder.HTTPInFlight(1)
			defer recorder.HTTPInFlight(-1)

			next.ServeHTTP(rw, r)

			recorder.RecordHTTPRequest(routeLabel(r), r.Method, rw.statusCode, time.Since(start))
		})
	}
}

// routeLabel returns the mux pattern path without the method prefix.
// Raw paths are never used as labels.
func routeLabel(r *http.Request) string {
	pattern := r.Pattern
	if pattern == "" {
		return "unmatched"
	}
	// "POST /chat" -> "/chat"
	for i := 0; i < len(pattern); i++ {
		if pattern[i] == '/' {
			return pattern[i:]
		}
	}
	return pattern
}
