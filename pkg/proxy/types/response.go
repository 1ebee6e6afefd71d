package types

// ChatResponse is the success body of POST /chat.
type ChatResponse struct {
	Reply string `json:"reply"`

	// Disclaimer is set only when the disclaimer notice is enabled.
	Disclaimer string `json:"disclaimer,omitempty"`
}

// ClearResponse is the success body of POST /clear.
type ClearResponse struct {
	Message string `json:"message"`
}

// MessageCleared is the acknowledgement returned by POST /clear.
const MessageCleared = "Conversation history cleared."

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp int64  `json:"timestamp"`
}

// ReadyResponse is the body of GET /ready.
type ReadyResponse struct {
	Status    string                 `json:"status"`
	Checks    map[string]CheckDetail `json:"checks"`
	Timestamp int64                  `json:"timestamp"`
}

// CheckDetail reports one readiness check.
type CheckDetail struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency"`
}

// VersionResponse is the body of GET /version.
type VersionResponse struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
}
