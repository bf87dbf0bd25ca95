package runner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/opspilot/kubeagent/internal/conversation"
	"github.com/opspilot/kubeagent/internal/telemetry"
	"github.com/opspilot/kubeagent/internal/windowing"
	"github.com/opspilot/kubeagent/tools"
)

// ToolCall is the model requesting a tool invocation. ID is the opaque
// correlation key that must reappear unchanged on the result turn.
type ToolCall struct {
	ID        string
	Name      string
	Arguments json.RawMessage
}

// Segment is one unit of a completion response: free text, or a tool call
// when Call is non-nil.
type Segment struct {
	Text string
	Call *ToolCall
}

// Response is the ordered segment sequence of one completion request.
type Response struct {
	Segments []Segment
}

// CompletionClient produces a model response for the current prompt threaded
// with the conversation so far. Implementations own transport concerns and
// any retry policy; the runner surfaces their errors as fatal.
type CompletionClient interface {
	Complete(ctx context.Context, prompt conversation.Turn, history []conversation.Turn) (Response, error)
}

// Config carries caller-supplied loop limits.
type Config struct {
	// MaxToolRounds caps how many tool-call rounds one Run may dispatch.
	// 0 means unbounded: an endless chain of tool-call responses then runs
	// forever, which is a legitimate state the loop does not bound itself.
	MaxToolRounds int
}

// FinalNoAction is returned when the model replies with zero segments: a
// defined terminal state, not an error.
const FinalNoAction = "no further action taken"

// Runner drives the multi-turn tool-calling loop for one conversation. It
// exclusively owns the history; tools only ever see the arguments routed to
// them.
type Runner struct {
	client     CompletionClient
	dispatcher *tools.Dispatcher
	cfg        Config
	history    *conversation.History
}

// New builds a runner with an empty history.
func New(client CompletionClient, dispatcher *tools.Dispatcher, cfg Config) *Runner {
	return &Runner{client: client, dispatcher: dispatcher, cfg: cfg, history: conversation.NewHistory()}
}

// Seed appends prior turns to the history, for transcripts reloaded from a
// previous session.
func (r *Runner) Seed(turns []conversation.Turn) {
	r.history.Append(turns...)
}

// History returns a snapshot of the conversation so far.
func (r *Runner) History() []conversation.Turn {
	return r.history.Turns()
}

// Run executes the loop until the model settles on a final text answer:
// complete, interpret segments in order, dispatch the first tool call and
// feed its output back as the next prompt, repeat. A text segment is only a
// candidate answer; a tool call later in the same response discards it,
// because the action it announces has not happened yet. Tool failures are
// fed back to the model as result text so it can adapt; only completion
// failures abort the run. Every return path records a dispatched tool's
// result in history, so a conversation at rest never ends on an unresolved
// tool call.
func (r *Runner) Run(ctx context.Context, initialPrompt string) (string, error) {
	runID, ok := telemetry.RunIDFromContext(ctx)
	if !ok {
		runID = fmt.Sprintf("run-%d", time.Now().UnixNano())
		ctx = telemetry.WithRunID(ctx, runID)
	}

	current := conversation.NewUserText(initialPrompt)
	rounds := 0

	for {
		window, err := r.sendWindow(runID)
		if err != nil {
			r.retainResult(current)
			return "", err
		}

		resp, err := r.client.Complete(ctx, current, window)
		if err != nil {
			r.retainResult(current)
			return "", fmt.Errorf("completion: %w", err)
		}

		telemetry.Emit("completion_step", map[string]any{
			"run_id":   runID,
			"round":    rounds,
			"segments": len(resp.Segments),
		})

		r.history.Append(current)

		if len(resp.Segments) == 0 {
			return FinalNoAction, nil
		}

		var finalText string
		var call *ToolCall
		for _, seg := range resp.Segments {
			if seg.Call == nil {
				r.history.Append(conversation.NewAssistantText(seg.Text))
				finalText = seg.Text
				continue
			}
			r.history.Append(conversation.NewAssistantToolCall(seg.Call.ID, seg.Call.Name, seg.Call.Arguments))
			call = seg.Call
			// Only the first tool call per response is actioned; later
			// segments in the same response are ignored.
			break
		}

		if call == nil {
			return finalText, nil
		}

		output, isErr := r.execTool(ctx, runID, call)
		current = conversation.NewUserToolResult(call.ID, output, isErr)

		rounds++
		if r.cfg.MaxToolRounds > 0 && rounds >= r.cfg.MaxToolRounds {
			r.history.Append(current)
			return "", fmt.Errorf("no final answer after %d tool rounds", rounds)
		}
	}
}

// retainResult appends a pending tool-result turn when the loop exits before
// threading it into the next completion. The matching tool call is already in
// history; dropping the result would leave it unresolved in the persisted
// conversation and poison every later request built from it.
func (r *Runner) retainResult(current conversation.Turn) {
	if current.Kind == conversation.KindUserToolResult {
		r.history.Append(current)
	}
}

// sendWindow snapshots the history and, when KA_TOKEN_BUDGET is set, trims
// it to a pair-safe window under the budget. Unset budget sends everything.
func (r *Runner) sendWindow(runID string) ([]conversation.Turn, error) {
	turns := r.history.Turns()

	v := os.Getenv("KA_TOKEN_BUDGET")
	if v == "" {
		return turns, nil
	}
	budget, err := strconv.Atoi(v)
	if err != nil {
		return nil, fmt.Errorf("invalid KA_TOKEN_BUDGET %q: %w", v, err)
	}

	window, stats := windowing.PrepareSendWindow(turns, budget, windowing.HeuristicCounter{})

	telemetry.Emit("window_prepared", map[string]any{
		"run_id":             runID,
		"budget":             stats.Budget,
		"total_estimated":    stats.Total,
		"included_groups":    stats.IncludedGroups,
		"skipped_groups":     stats.SkippedGroups,
		"over_budget_newest": stats.OverBudgetNewest,
	})

	if stats.OverBudgetNewest {
		return nil, fmt.Errorf("windowing: newest group exceeds KA_TOKEN_BUDGET; raise the budget with headroom")
	}
	return window, nil
}

// execTool dispatches one tool call and renders the outcome as tool-result
// content. Unknown tools, invalid arguments, and handler errors all become
// result text for the model, never a fatal error.
func (r *Runner) execTool(ctx context.Context, runID string, call *ToolCall) (output string, isErr bool) {
	start := time.Now()
	out, err := r.dispatcher.Invoke(ctx, call.Name, call.Arguments)

	// Emit sizes and a coarse error class only; raw payloads stay out of
	// telemetry while the detailed message still reaches the model.
	fields := map[string]any{
		"tool_name":   call.Name,
		"duration_ms": time.Since(start).Milliseconds(),
		"input_size":  len(call.Arguments),
		"output_size": len(out),
		"run_id":      runID,
	}
	switch {
	case err == nil:
		fields["error"] = nil
	case errors.Is(err, tools.ErrUnknownTool):
		fields["error"] = "unknown tool"
	default:
		var invalid *tools.InvalidArgumentsError
		if errors.As(err, &invalid) {
			fields["error"] = "invalid arguments"
		} else {
			fields["error"] = "handler error"
		}
	}
	telemetry.Emit("tool_exec", fields)

	if err != nil {
		return err.Error(), true
	}
	return out, false
}
