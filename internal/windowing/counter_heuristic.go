package windowing

import (
	"unicode/utf8"

	"github.com/opspilot/kubeagent/internal/conversation"
)

// TokenCounter estimates input-token cost for turns or groups.
type TokenCounter interface {
	CountTurn(t conversation.Turn) int
	CountGroup(g Group, all []conversation.Turn) int
}

// HeuristicCounter is the default deterministic estimator: rune count of the
// turn's textual payload plus a small fixed overhead for block framing.
type HeuristicCounter struct{}

// Fixed per-turn overhead for deterministic counts; changing this requires updating the guard test.
const turnOverhead = 4

func (HeuristicCounter) CountTurn(t conversation.Turn) int {
	switch t.Kind {
	case conversation.KindUserText, conversation.KindAssistantText:
		return utf8.RuneCountInString(t.Text) + turnOverhead
	case conversation.KindUserToolResult:
		return utf8.RuneCountInString(t.Content) + turnOverhead
	case conversation.KindAssistantToolCall:
		return utf8.RuneCount(t.Arguments) + utf8.RuneCountInString(t.Tool) + turnOverhead
	}
	return turnOverhead
}

func (h HeuristicCounter) CountGroup(g Group, all []conversation.Turn) int {
	total := 0
	for i := g.Start; i < g.End && i < len(all); i++ {
		total += h.CountTurn(all[i])
	}
	return total
}
