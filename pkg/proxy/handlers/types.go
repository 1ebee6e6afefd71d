package handlers

import "context"

// Conversation is the conversation service as seen by the HTTP handlers.
// *conversation.Service implements it.
type Conversation interface {
	SendMessage(ctx context.Context, credential, message string) (string, error)
	ClearHistory(ctx context.Context, credential string) error
}
