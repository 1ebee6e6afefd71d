package proxy

import (
	"encoding/json"
	"fmt"
	"net/http"

	"mercator-hq/solace/pkg/proxy/types"
)

// WriteJSONResponse writes data as JSON with the given status code.
func WriteJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON response: %w", err)
	}

	return nil
}

// WriteErrorResponse writes an API error as {"error": "..."}.
func WriteErrorResponse(w http.ResponseWriter, apiErr *types.APIError) error {
	return WriteJSONResponse(w, apiErr.StatusCode, apiErr.Body)
}
