package logging

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
)

// Redactor masks secrets and PII in log attribute values.
type Redactor struct {
	patterns []redactPattern
}

// redactPattern contains a compiled regex and replacement string.
type redactPattern struct {
	name        string
	regex       *regexp.Regexp
	replacement string
}

// Common pattern names.
const (
	PatternBearerToken = "bearer_token"
	PatternAPIKey      = "api_key"
	PatternEmail       = "email"
	PatternPhone       = "phone"
	PatternPassword    = "password"
)

// Order matters: bearer tokens are masked before the generic key pattern
// can eat their prefix.
var defaultPatterns = []struct {
	name        string
	regex       string
	replacement string
}{
	{PatternBearerToken, `Bearer\s+[a-zA-Z0-9\-._~+/]+=*`, "Bearer ***"},
	{PatternAPIKey, `(sk-[a-zA-Z0-9_\-]+|api[-_]?key[-_:=]\s*[a-zA-Z0-9]+)`, "sk-***"},
	{PatternEmail, `[a-zA-Z0-9._%+-]+@([a-zA-Z0-9.-]+\.[a-zA-Z]{2,})`, "***@$1"},
	{PatternPhone, `\b(?:\+?1[-.\s]?)?\(?\d{3}\)?[-.\s]\d{3}[-.\s]\d{4}\b`, "***-***-****"},
	{PatternPassword, `(password|passwd|pwd)[:=]\s*[^\s]+`, "$1: ***"},
}

var sensitiveKeys = []string{
	"password", "passwd", "pwd",
	"secret", "token", "api_key", "apikey",
	"authorization", "devkey", "credential",
	"private_key", "privatekey",
}

// NewRedactor creates a Redactor with the built-in patterns.
func NewRedactor() *Redactor {
	r := &Redactor{}
	for _, p := range defaultPatterns {
		r.patterns = append(r.patterns, redactPattern{
			name:        p.name,
			regex:       regexp.MustCompile(p.regex),
			replacement: p.replacement,
		})
	}
	return r
}

// RedactString masks every pattern match in value.
func (r *Redactor) RedactString(value string) string {
	if value == "" {
		return value
	}
	for _, p := range r.patterns {
		value = p.regex.ReplaceAllString(value, p.replacement)
	}
	return value
}

// RedactAttr returns a with sensitive content masked. Values under a
// sensitive key are replaced entirely; other string and error values are
// pattern-matched. Groups are processed recursively.
func (r *Redactor) RedactAttr(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()

	switch {
	case a.Value.Kind() == slog.KindGroup:
		attrs := a.Value.Group()
		redacted := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			redacted[i] = r.RedactAttr(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(redacted...)}

	case isSensitiveKey(a.Key):
		return slog.String(a.Key, maskValue(a.Value))

	case a.Value.Kind() == slog.KindString:
		return slog.String(a.Key, r.RedactString(a.Value.String()))

	case a.Value.Kind() == slog.KindAny:
		if err, ok := a.Value.Any().(error); ok {
			return slog.String(a.Key, r.RedactString(err.Error()))
		}
	}

	return a
}

func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, sensitive := range sensitiveKeys {
		if strings.Contains(lower, sensitive) {
			return true
		}
	}
	return false
}

// maskValue keeps a short prefix of long strings for debugging.
func maskValue(v slog.Value) string {
	if v.Kind() != slog.KindString {
		return "***"
	}
	s := v.String()
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return "***"
	}
	return s[:4] + "***"
}

// RedactAPIKey redacts an API key, keeping only a prefix.
func RedactAPIKey(apiKey string) string {
	if len(apiKey) <= 4 {
		return "***"
	}
	return apiKey[:4] + "***"
}

// RedactingHandler is a slog.Handler that redacts attributes before passing
// records to the wrapped handler.
type RedactingHandler struct {
	next     slog.Handler
	redactor *Redactor
}

// NewRedactingHandler wraps next.
func NewRedactingHandler(next slog.Handler, redactor *Redactor) *RedactingHandler {
	return &RedactingHandler{next: next, redactor: redactor}
}

// Enabled implements slog.Handler.
func (h *RedactingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *RedactingHandler) Handle(ctx context.Context, record slog.Record) error {
	out := slog.NewRecord(record.Time, record.Level, record.Message, record.PC)
	record.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(h.redactor.RedactAttr(a))
		return true
	})
	return h.next.Handle(ctx, out)
}

// WithAttrs implements slog.Handler.
func (h *RedactingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	redacted := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		redacted[i] = h.redactor.RedactAttr(a)
	}
	return &RedactingHandler{next: h.next.WithAttrs(redacted), redactor: h.redactor}
}

// WithGroup implements slog.Handler.
func (h *RedactingHandler) WithGroup(name string) slog.Handler {
	return &RedactingHandler{next: h.next.WithGroup(name), redactor: h.redactor}
}
