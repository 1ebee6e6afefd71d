package handlers

import (
	"log/slog"
	"net/http"

	"mercator-hq/solace/pkg/conversation"
	"mercator-hq/solace/pkg/proxy"
	"mercator-hq/solace/pkg/proxy/types"
	"mercator-hq/solace/pkg/security/auth"
)

// Options configures the chat and clear handlers.
type Options struct {
	// AuthHeader is the header carrying the shared secret.
	// Default: "devkey"
	AuthHeader string

	// Disclaimer is added to every successful /chat reply when non-empty.
	Disclaimer string

	// MaxBodyBytes caps the /chat request body.
	// Default: proxy.DefaultMaxBodyBytes
	MaxBodyBytes int64

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// ChatHandler serves POST /chat.
type ChatHandler struct {
	conv       Conversation
	sources    []auth.CredentialSource
	disclaimer string
	maxBody    int64
	logger     *slog.Logger
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(conv Conversation, opts Options) *ChatHandler {
	return &ChatHandler{
		conv:       conv,
		sources:    auth.DefaultSources(opts.AuthHeader),
		disclaimer: opts.Disclaimer,
		maxBody:    opts.MaxBodyBytes,
		logger:     loggerOrDefault(opts.Logger),
	}
}

// ServeHTTP implements http.Handler.
//
// The credential is checked before the body, so a request with a bad
// secret and a bad body gets 401. An unreadable or malformed body is
// handed to the service as an empty message and comes back as 400.
func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		h.writeError(w, r, types.NewMethodNotAllowedError())
		return
	}

	credential, _ := auth.ExtractCredential(r, h.sources)

	message := ""
	chatReq, err := proxy.ParseChatRequest(r, h.maxBody)
	if err != nil {
		h.logger.DebugContext(ctx, "unusable chat request body", "error", err)
	} else {
		message = chatReq.Message
	}

	reply, err := h.conv.SendMessage(ctx, credential, message)
	if err != nil {
		if conversation.IsUpstream(err) {
			h.logger.ErrorContext(ctx, "chat request failed", "error", err)
		}
		h.writeError(w, r, proxy.HandleError(err))
		return
	}

	resp := types.ChatResponse{Reply: reply, Disclaimer: h.disclaimer}
	if err := proxy.WriteJSONResponse(w, http.StatusOK, resp); err != nil {
		h.logger.ErrorContext(ctx, "failed to write response", "error", err)
	}
}

func (h *ChatHandler) writeError(w http.ResponseWriter, r *http.Request, apiErr *types.APIError) {
	if apiErr.StatusCode == http.StatusMethodNotAllowed {
		w.Header().Set("Allow", http.MethodPost)
	}
	if err := proxy.WriteErrorResponse(w, apiErr); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to write error response", "error", err)
	}
}

// ClearHandler serves POST /clear.
type ClearHandler struct {
	conv    Conversation
	sources []auth.CredentialSource
	logger  *slog.Logger
}

// NewClearHandler creates a new clear handler.
func NewClearHandler(conv Conversation, opts Options) *ClearHandler {
	return &ClearHandler{
		conv:    conv,
		sources: auth.DefaultSources(opts.AuthHeader),
		logger:  loggerOrDefault(opts.Logger),
	}
}

// ServeHTTP implements http.Handler.
func (h *ClearHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		if err := proxy.WriteErrorResponse(w, types.NewMethodNotAllowedError()); err != nil {
			h.logger.ErrorContext(ctx, "failed to write error response", "error", err)
		}
		return
	}

	credential, _ := auth.ExtractCredential(r, h.sources)

	if err := h.conv.ClearHistory(ctx, credential); err != nil {
		if err := proxy.WriteErrorResponse(w, proxy.HandleError(err)); err != nil {
			h.logger.ErrorContext(ctx, "failed to write error response", "error", err)
		}
		return
	}

	if err := proxy.WriteJSONResponse(w, http.StatusOK, types.ClearResponse{Message: types.MessageCleared}); err != nil {
		h.logger.ErrorContext(ctx, "failed to write response", "error", err)
	}
}

func loggerOrDefault(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}
