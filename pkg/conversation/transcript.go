package conversation

import "mercator-hq/solace/pkg/providers"

// Turn is one message in the transcript.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Transcript is the ordered list of turns sent to the provider. It is not
// safe for concurrent use; Service serializes access to it.
type Transcript struct {
	turns          []Turn
	systemPrompt   string
	maxTurns       int
	preserveSystem bool
}

func newTranscript(systemPrompt string, maxTurns int, preserveSystem bool) *Transcript {
	t := &Transcript{
		systemPrompt:   systemPrompt,
		maxTurns:       maxTurns,
		preserveSystem: preserveSystem,
	}
	t.Reset()
	return t
}

// Reset replaces the transcript with the single system turn.
func (t *Transcript) Reset() {
	t.turns = []Turn{{Role: providers.RoleSystem, Content: t.systemPrompt}}
}

// Append adds a turn at the end.
func (t *Transcript) Append(turn Turn) {
	t.turns = append(t.turns, turn)
}

// Truncate drops the oldest turns until at most maxTurns remain and returns
// how many were dropped. Without preserveSystem the leading system turn is
// dropped like any other. With it, the first turn is kept when it is a
// system turn and the oldest turns after it are dropped instead.
func (t *Transcript) Truncate() int {
	excess := len(t.turns) - t.maxTurns
	if excess <= 0 {
		return 0
	}

	if t.preserveSystem && t.turns[0].Role == providers.RoleSystem {
		kept := make([]Turn, 0, t.maxTurns)
		kept = append(kept, t.turns[0])
		kept = append(kept, t.turns[1+excess:]...)
		t.turns = kept
		return excess
	}

	t.turns = append([]Turn(nil), t.turns[excess:]...)
	return excess
}

// Len returns the number of turns.
func (t *Transcript) Len() int {
	return len(t.turns)
}

// Turns returns a copy of the turns.
func (t *Transcript) Turns() []Turn {
	out := make([]Turn, len(t.turns))
	copy(out, t.turns)
	return out
}

// Messages converts the transcript to the provider message list, in order.
func (t *Transcript) Messages() []providers.Message {
	msgs := make([]providers.Message, len(t.turns))
	for i, turn := range t.turns {
		msgs[i] = providers.Message{Role: turn.Role, Content: turn.Content}
	}
	return msgs
}
