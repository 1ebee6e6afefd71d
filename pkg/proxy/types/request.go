package types

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	// Message is the user's text. A missing or non-string field decodes to
	// an empty message, which the conversation service rejects.
	Message string `json:"message"`
}
