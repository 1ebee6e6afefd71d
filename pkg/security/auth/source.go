package auth

import (
	"net/http"
	"strings"
)

// CredentialSource defines where to extract the shared secret from
type CredentialSource struct {
	Type   string // header, query
	Name   string // Header name or query param
	Scheme string // "Bearer", etc. (optional)
}

// DefaultHeader is the request header that carries the shared secret.
const DefaultHeader = "devkey"

// DefaultSources returns the single header source used by the chat API.
func DefaultSources(header string) []CredentialSource {
	if header == "" {
		header = DefaultHeader
	}
	return []CredentialSource{{Type: "header", Name: header}}
}

// ExtractCredential returns the first credential found in the request using
// the given sources, in order. The boolean is false when none is present.
func ExtractCredential(r *http.Request, sources []CredentialSource) (string, bool) {
	for _, source := range sources {
		switch source.Type {
		case "header":
			value := r.Header.Get(source.Name)
			if value == "" {
				continue
			}
			if source.Scheme == "" {
				return value, true
			}
			// Remove scheme prefix if present
			prefix := source.Scheme + " "
			if strings.HasPrefix(value, prefix) {
				return strings.TrimPrefix(value, prefix), true
			}

		case "query":
			if value := r.URL.Query().Get(source.Name); value != "" {
				return value, true
			}
		}
	}

	return "", false
}
