package conversation

import "mercator-hq/solace/pkg/providers"

// Stats summarizes a transcript without exposing its content.
type Stats struct {
	// Turns is the total number of turns
	Turns int `json:"turns"`

	// UserTurns and AssistantTurns count turns by role
	UserTurns      int `json:"user_turns"`
	AssistantTurns int `json:"assistant_turns"`

	// HasSystemTurn reports whether the persona instruction is still present
	HasSystemTurn bool `json:"has_system_turn"`

	// Exchanges counts user/assistant pairs; a trailing unanswered user
	// turn counts as an exchange of its own
	Exchanges int `json:"exchanges"`

	// MaxTurns is the configured cap
	MaxTurns int `json:"max_turns"`
}

// Analyze computes Stats for a list of turns.
func Analyze(turns []Turn) Stats {
	var s Stats
	s.Turns = len(turns)

	for _, turn := range turns {
		switch turn.Role {
		case providers.RoleSystem:
			s.HasSystemTurn = true
		case providers.RoleUser:
			s.UserTurns++
		case providers.RoleAssistant:
			s.AssistantTurns++
		}
	}

	s.Exchanges = s.AssistantTurns
	if s.UserTurns > s.AssistantTurns {
		s.Exchanges = s.UserTurns
	}
	return s
}
