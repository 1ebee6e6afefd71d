package handlers

import (
	"net/http"

	"mercator-hq/solace/pkg/proxy"
	"mercator-hq/solace/pkg/proxy/types"
)

// VersionHandler reports build information.
type VersionHandler struct {
	info types.VersionResponse
}

// NewVersionHandler creates a new version handler.
func NewVersionHandler(version, commit, buildDate string) *VersionHandler {
	return &VersionHandler{info: types.VersionResponse{
		Version:   version,
		Commit:    commit,
		BuildDate: buildDate,
	}}
}

// ServeHTTP implements http.Handler.
func (h *VersionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		_ = proxy.WriteErrorResponse(w, types.NewMethodNotAllowedError())
		return
	}
	_ = proxy.WriteJSONResponse(w, http.StatusOK, h.info)
}
