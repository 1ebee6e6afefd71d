package middleware

import (
	"net/http"
	"slices"
	"strconv"
	"strings"

	"mercator-hq/solace/pkg/config"
)

// CORSConfig contains configuration for CORS middleware.
type CORSConfig struct {
	// Enabled controls whether CORS is enabled.
	Enabled bool

	// AllowedOrigins is a list of allowed origins for CORS.
	// Use ["*"] to allow all origins.
	AllowedOrigins []string

	// AllowedMethods is a list of allowed HTTP methods.
	AllowedMethods []string

	// AllowedHeaders is a list of allowed HTTP headers.
	AllowedHeaders []string

	// ExposedHeaders is a list of headers exposed to clients.
	ExposedHeaders []string

	// MaxAge is the maximum age (in seconds) for preflight cache.
	MaxAge int

	// AllowCredentials controls whether credentials are allowed.
	AllowCredentials bool
}

// DefaultCORSConfig returns a configuration that allows any origin to call
// the chat API with the shared-secret header.
func DefaultCORSConfig() *CORSConfig {
	return &CORSConfig{
		Enabled:        true,
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID", "devkey"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         3600,
	}
}

// CORSFromConfig converts the server CORS section. authHeader is added to
// the allowed headers when missing so browsers may send the shared secret.
func CORSFromConfig(cfg config.CORSConfig, authHeader string) *CORSConfig {
	allowed := slices.Clone(cfg.AllowedHeaders)
	if authHeader != "" && !slices.ContainsFunc(allowed, func(h string) bool {
		return strings.EqualFold(h, authHeader)
	}) {
		allowed = append(allowed, authHeader)
	}

	return &CORSConfig{
		Enabled:          cfg.Enabled,
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   cfg.AllowedMethods,
		AllowedHeaders:   allowed,
		ExposedHeaders:   cfg.ExposedHeaders,
		MaxAge:           cfg.MaxAge,
		AllowCredentials: cfg.AllowCredentials,
	}
}

// CORSMiddleware adds Cross-Origin Resource Sharing (CORS) headers to
// responses and answers preflight OPTIONS requests with 204.
//
// Example usage:
//
//	handler = CORSMiddleware(DefaultCORSConfig())(handler)
func CORSMiddleware(config *CORSConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !config.Enabled {
				next.ServeHTTP(w, r)
				return
			}

			origin := r.Header.Get("Origin")
			wildcard := slices.Contains(config.AllowedOrigins, "*")

			switch {
			case origin != "" && ((wildcard && config.AllowCredentials) || slices.Contains(config.AllowedOrigins, origin)):
				// Credentials cannot be combined with a literal "*"
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
				if config.AllowCredentials {
					w.Header().Set("Access-Control-Allow-Credentials", "true")
				}
			case wildcard:
				w.Header().Set("Access-Control-Allow-Origin", "*")
			}

			if len(config.ExposedHeaders) > 0 && w.Header().Get("Access-Control-Allow-Origin") != "" {
				w.Header().Set("Access-Control-Expose-Headers", strings.Join(config.ExposedHeaders, ", "))
			}

			// Preflight
			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				if len(config.AllowedMethods) > 0 {
					w.Header().Set("Access-Control-Allow-Methods", strings.Join(config.AllowedMethods, ", "))
				}
				if len(config.AllowedHeaders) > 0 {
					w.Header().Set("Access-Control-Allow-Headers", strings.Join(config.AllowedHeaders, ", "))
				}
				if config.MaxAge > 0 {
					w.Header().Set("Access-Control-Max-Age", strconv.Itoa(config.MaxAge))
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
