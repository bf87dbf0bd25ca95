// Package windowing prepares a budgeted send window over conversation turns
// without ever splitting a tool call from its result.
package windowing

import (
	"fmt"
	"os"

	"github.com/opspilot/kubeagent/internal/conversation"
)

// GroupKind denotes the atomic unit type when preparing a send window.
type GroupKind int

const (
	GroupSingleton GroupKind = iota
	GroupPair
)

// Group describes a contiguous span of turns [Start, End) in the original slice.
// Kind indicates whether it is a singleton or a validated call/result pair.
type Group struct {
	Kind  GroupKind
	Start int // inclusive index into turns
	End   int // exclusive index into turns
}

// GroupTurns groups turns into atomic units that preserve tool call/result
// pairs. Invariants:
//   - A pair is exactly two adjacent turns: an assistant tool call followed
//     by the tool result carrying the same call ID.
//   - Error results pair the same as successful ones.
//   - Anything else is a singleton.
func GroupTurns(turns []conversation.Turn) []Group {
	groups := make([]Group, 0, len(turns))
	for i := 0; i < len(turns); {
		t := turns[i]
		if t.Kind == conversation.KindAssistantToolCall && i+1 < len(turns) {
			next := turns[i+1]
			if next.Kind == conversation.KindUserToolResult && next.CallID == t.CallID {
				groups = append(groups, Group{Kind: GroupPair, Start: i, End: i + 2})
				i += 2
				continue
			}
			vlogf("exclude pair: reason=result_mismatch idx=%d call_id=%s", i, t.CallID)
		}
		groups = append(groups, Group{Kind: GroupSingleton, Start: i, End: i + 1})
		i++
	}
	return groups
}

// minimal verbose logging when KA_VERBOSE_WINDOW_LOGS=1
var verbose = os.Getenv("KA_VERBOSE_WINDOW_LOGS") == "1"

func vlogf(format string, args ...any) {
	if verbose {
		fmt.Printf("[windowing] "+format+"\n", args...)
	}
}
