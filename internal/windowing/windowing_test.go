package windowing

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/opspilot/kubeagent/internal/conversation"
)

func callTurn(id, args string) conversation.Turn {
	return conversation.NewAssistantToolCall(id, "apply_manifest", json.RawMessage(args))
}

func resultTurn(id, content string) conversation.Turn {
	return conversation.NewUserToolResult(id, content, false)
}

func TestGroupTurns_PairsCallWithResult(t *testing.T) {
	turns := []conversation.Turn{
		conversation.NewUserText("deploy"),
		callTurn("c1", `{}`),
		resultTurn("c1", "applied"),
		conversation.NewAssistantText("Done."),
	}
	groups := GroupTurns(turns)
	if len(groups) != 3 {
		t.Fatalf("want 3 groups, got %d: %+v", len(groups), groups)
	}
	if groups[1].Kind != GroupPair || groups[1].Start != 1 || groups[1].End != 3 {
		t.Fatalf("call/result not paired: %+v", groups[1])
	}
	if groups[0].Kind != GroupSingleton || groups[2].Kind != GroupSingleton {
		t.Fatalf("text turns should be singletons: %+v", groups)
	}
}

func TestGroupTurns_MismatchedCallIDNotPaired(t *testing.T) {
	turns := []conversation.Turn{
		callTurn("c1", `{}`),
		resultTurn("other", "applied"),
	}
	groups := GroupTurns(turns)
	if len(groups) != 2 {
		t.Fatalf("mismatched ids must stay singletons: %+v", groups)
	}
	for _, g := range groups {
		if g.Kind != GroupSingleton {
			t.Fatalf("unexpected pair: %+v", g)
		}
	}
}

func TestGroupTurns_ErrorResultStillPairs(t *testing.T) {
	turns := []conversation.Turn{
		callTurn("c1", `{}`),
		conversation.NewUserToolResult("c1", `{"code":"ERR_KIND_DENIED"}`, true),
	}
	groups := GroupTurns(turns)
	if len(groups) != 1 || groups[0].Kind != GroupPair {
		t.Fatalf("error results pair like successes: %+v", groups)
	}
}

func TestHeuristicCounter_Deterministic(t *testing.T) {
	c := HeuristicCounter{}
	if got := c.CountTurn(conversation.NewUserText("hello")); got != 5+turnOverhead {
		t.Fatalf("user text count: want %d, got %d", 5+turnOverhead, got)
	}
	if got := c.CountTurn(resultTurn("c1", "abcdefgh")); got != 8+turnOverhead {
		t.Fatalf("tool result count: want %d, got %d", 8+turnOverhead, got)
	}
	// Tool calls count arguments plus the tool name.
	call := callTurn("c1", `{"a":1}`)
	want := len(`{"a":1}`) + len("apply_manifest") + turnOverhead
	if got := c.CountTurn(call); got != want {
		t.Fatalf("tool call count: want %d, got %d", want, got)
	}
}

func TestPrepareSendWindow_AllFit(t *testing.T) {
	turns := []conversation.Turn{
		conversation.NewUserText("hi"),
		conversation.NewAssistantText("hello"),
	}
	window, stats := PrepareSendWindow(turns, 1000, HeuristicCounter{})
	if len(window) != 2 {
		t.Fatalf("everything fits, want full window, got %d turns", len(window))
	}
	if stats.IncludedGroups != 2 || stats.SkippedGroups != 0 || stats.OverBudgetNewest {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestPrepareSendWindow_DropsOldestWholeGroups(t *testing.T) {
	old := strings.Repeat("x", 100)
	turns := []conversation.Turn{
		conversation.NewUserText(old), // expensive, oldest
		callTurn("c1", `{}`),
		resultTurn("c1", "ok"),
		conversation.NewAssistantText("Done."),
	}
	c := HeuristicCounter{}
	groups := GroupTurns(turns)
	// Budget covers the newest two groups but not the old text turn.
	budget := c.CountGroup(groups[1], turns) + c.CountGroup(groups[2], turns)

	window, stats := PrepareSendWindow(turns, budget, c)
	if len(window) != 3 {
		t.Fatalf("want the pair plus the final text, got %d turns", len(window))
	}
	if window[0].Kind != conversation.KindAssistantToolCall {
		t.Fatalf("window must start at a group boundary: %+v", window[0])
	}
	if stats.SkippedGroups != 1 || stats.IncludedGroups != 2 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestPrepareSendWindow_NeverSplitsPair(t *testing.T) {
	turns := []conversation.Turn{
		callTurn("c1", strings.Repeat("a", 50)),
		resultTurn("c1", strings.Repeat("b", 50)),
		conversation.NewAssistantText("ok"),
	}
	c := HeuristicCounter{}
	// Enough for the text plus roughly half the pair: the pair must be
	// dropped whole, never truncated.
	budget := c.CountTurn(turns[2]) + c.CountTurn(turns[1])

	window, stats := PrepareSendWindow(turns, budget, c)
	if len(window) != 1 || window[0].Kind != conversation.KindAssistantText {
		t.Fatalf("pair leaked into the window: %+v", window)
	}
	if stats.SkippedGroups != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestPrepareSendWindow_NewestAloneOverBudget(t *testing.T) {
	turns := []conversation.Turn{
		conversation.NewUserText(strings.Repeat("x", 500)),
	}
	window, stats := PrepareSendWindow(turns, 10, HeuristicCounter{})
	if len(window) != 0 {
		t.Fatalf("want empty window, got %d turns", len(window))
	}
	if !stats.OverBudgetNewest {
		t.Fatal("OverBudgetNewest should be set")
	}
}

func TestPrepareSendWindow_ZeroBudget(t *testing.T) {
	turns := []conversation.Turn{conversation.NewUserText("hi")}
	window, stats := PrepareSendWindow(turns, 0, HeuristicCounter{})
	if len(window) != 0 || !stats.OverBudgetNewest {
		t.Fatalf("zero budget with turns present: window=%d stats=%+v", len(window), stats)
	}
}

func TestPrepareSendWindow_EmptyTurns(t *testing.T) {
	window, stats := PrepareSendWindow(nil, 100, HeuristicCounter{})
	if window != nil || stats.OverBudgetNewest {
		t.Fatalf("empty input: window=%v stats=%+v", window, stats)
	}
}
