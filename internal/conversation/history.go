package conversation

// History is an ordered, append-only log of turns. Turns are never mutated,
// removed, or reordered once appended; the sequence is the conversation.
type History struct {
	turns []Turn
}

// NewHistory returns a history seeded with the given turns (may be empty).
func NewHistory(turns ...Turn) *History {
	h := &History{}
	h.turns = append(h.turns, turns...)
	return h
}

// Append adds turns to the end of the log.
func (h *History) Append(turns ...Turn) {
	h.turns = append(h.turns, turns...)
}

// Turns returns a snapshot copy of the log, oldest first.
func (h *History) Turns() []Turn {
	out := make([]Turn, len(h.turns))
	copy(out, h.turns)
	return out
}

// Len returns the number of turns in the log.
func (h *History) Len() int { return len(h.turns) }

// UnresolvedCalls returns the call IDs of assistant tool-call turns that are
// not yet matched by a later tool-result turn, in call order. A resolved
// conversation returns an empty slice.
func UnresolvedCalls(turns []Turn) []string {
	resolved := make(map[string]int)
	var order []string
	for _, t := range turns {
		switch t.Kind {
		case KindAssistantToolCall:
			if _, seen := resolved[t.CallID]; !seen {
				resolved[t.CallID] = 0
				order = append(order, t.CallID)
			}
		case KindUserToolResult:
			if _, seen := resolved[t.CallID]; seen {
				resolved[t.CallID]++
			}
		}
	}
	var open []string
	for _, id := range order {
		if resolved[id] == 0 {
			open = append(open, id)
		}
	}
	return open
}
