// Package conversation implements the shared-transcript chat service.
//
// A Service owns one Transcript that starts with a single system turn
// carrying the persona instruction. SendMessage appends the user turn, sends
// the whole transcript to the completion provider, appends the reply and
// caps the transcript at MaxTurns by dropping the oldest turns. ClearHistory
// resets it to the system turn.
//
//	svc, err := conversation.NewService(conversation.Options{
//		Provider:     provider,
//		Authorizer:   auth.NewSecretValidator(secret, ""),
//		Model:        "gpt-4o",
//		SystemPrompt: cfg.Conversation.SystemPrompt,
//	})
//	reply, err := svc.SendMessage(ctx, credential, "I feel low today")
//
// # Truncation
//
// By default truncation is blind: once more than MaxTurns turns exist the
// system turn is dropped with the other old turns. Set PreserveSystemTurn to
// keep it and drop the oldest user and assistant turns instead.
//
// # Errors
//
// ErrUnauthorized and ErrBadRequest leave the transcript untouched.
// Provider failures are returned as *UpstreamError and leave the user turn in
// place. Nothing is retried.
//
// # Sharing
//
// All callers share the one transcript. There is no per-user session.
package conversation
