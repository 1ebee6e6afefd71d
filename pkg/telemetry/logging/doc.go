// Package logging builds the process slog.Logger.
//
// New returns a *slog.Logger writing JSON or text. Two handlers sit in front
// of the output handler:
//
//   - a context handler that adds request_id from the record's context
//   - with Redact enabled, a RedactingHandler that masks secrets and PII
//
// # Redaction
//
// Values under keys such as secret, token, api_key, authorization or devkey
// are masked entirely. Other string and error values are scanned for bearer
// tokens, sk- API keys, email addresses, phone numbers and password
// assignments:
//
//	logger.Info("provider call", "api_key", "sk-abc123xyz")  // api_key=sk-a***
//	logger.Error("failed", "error", err)                      // Bearer *** in err text
//
// Message and reply text are never passed to the logger; callers log lengths.
package logging
