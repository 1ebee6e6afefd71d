package handlers

import (
	"net/http"
	"time"

	"mercator-hq/solace/pkg/proxy"
	"mercator-hq/solace/pkg/proxy/types"
	"mercator-hq/solace/pkg/telemetry/health"
)

// HealthHandler handles health check requests for liveness probes.
type HealthHandler struct {
	checker *health.Checker
}

// NewHealthHandler creates a new health check handler.
func NewHealthHandler(checker *health.Checker) *HealthHandler {
	return &HealthHandler{checker: checker}
}

// ServeHTTP implements http.Handler for liveness checks. It always returns
// 200 while the process is serving.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		_ = proxy.WriteErrorResponse(w, types.NewMethodNotAllowedError())
		return
	}

	status := h.checker.CheckLiveness(r.Context())

	_ = proxy.WriteJSONResponse(w, http.StatusOK, types.HealthResponse{
		Status:    status.Status,
		Timestamp: status.Timestamp.Unix(),
	})
}

// ReadyHandler handles readiness check requests.
type ReadyHandler struct {
	checker *health.Checker
}

// NewReadyHandler creates a new readiness check handler.
func NewReadyHandler(checker *health.Checker) *ReadyHandler {
	return &ReadyHandler{checker: checker}
}

// ServeHTTP implements http.Handler for readiness checks. It returns 200
// when every registered check passes and 503 otherwise.
func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		_ = proxy.WriteErrorResponse(w, types.NewMethodNotAllowedError())
		return
	}

	status := h.checker.CheckReadiness(r.Context())

	resp := types.ReadyResponse{
		Status:    status.Status,
		Checks:    make(map[string]types.CheckDetail, len(status.Checks)),
		Timestamp: status.Timestamp.Unix(),
	}
	for name, result := range status.Checks {
		resp.Checks[name] = types.CheckDetail{
			Status:  result.Status,
			Message: result.Message,
			Latency: result.Duration.Round(time.Microsecond).String(),
		}
	}

	statusCode := http.StatusOK
	if !status.Ready() {
		statusCode = http.StatusServiceUnavailable
	}

	_ = proxy.WriteJSONResponse(w, statusCode, resp)
}
