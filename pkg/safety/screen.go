package safety

import (
	"strings"
	"sync/atomic"
)

// CrisisReply is returned in place of a model reply when a message matches a
// crisis keyword.
const CrisisReply = "I’m so sorry you’re feeling this way. You’re not alone. If you’re thinking about suicide " +
	"or harming yourself, please consider reaching out immediately. In the US, you can call or text 988 or " +
	"visit 988lifeline.org for immediate support. Internationally, find resources here: " +
	"https://www.iasp.info/resources/Crisis_Centres/. Your life matters."

// Disclaimer is attached to HTTP replies when the disclaimer is enabled.
const Disclaimer = "I am not a licensed professional. If you’re feeling overwhelmed or in crisis, please " +
	"reach out to a mental health professional or call your local emergency number."

// DefaultKeywords are matched when no keyword list is configured.
var DefaultKeywords = []string{"suicide", "kill myself", "end my life", "not worth living", "overdose"}

// Options configures a Screen.
type Options struct {
	CrisisDetection bool
	Keywords        []string
	Disclaimer      bool
}

// Screen checks messages against a keyword list. Matching is a
// case-insensitive substring test. A Screen is safe for concurrent use.
type Screen struct {
	keywords   []string
	detect     bool
	disclaimer bool

	matches atomic.Int64
}

// NewScreen creates a screen. Empty and whitespace-only keywords are dropped.
func NewScreen(opts Options) *Screen {
	keywords := opts.Keywords
	if len(keywords) == 0 {
		keywords = DefaultKeywords
	}

	s := &Screen{
		detect:     opts.CrisisDetection,
		disclaimer: opts.Disclaimer,
	}
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			s.keywords = append(s.keywords, k)
		}
	}
	return s
}

// Check reports whether message contains a crisis keyword. It always
// returns false when crisis detection is disabled. A nil Screen never matches.
func (s *Screen) Check(message string) bool {
	if s == nil || !s.detect {
		return false
	}

	lower := strings.ToLower(message)
	for _, k := range s.keywords {
		if strings.Contains(lower, k) {
			s.matches.Add(1)
			return true
		}
	}
	return false
}

// Disclaimer returns the disclaimer text, or "" when disabled.
func (s *Screen) Disclaimer() string {
	if s == nil || !s.disclaimer {
		return ""
	}
	return Disclaimer
}

// Keywords returns a copy of the active keyword list.
func (s *Screen) Keywords() []string {
	out := make([]string, len(s.keywords))
	copy(out, s.keywords)
	return out
}

// Matches returns how many messages have matched since creation.
func (s *Screen) Matches() int64 {
	return s.matches.Load()
}
