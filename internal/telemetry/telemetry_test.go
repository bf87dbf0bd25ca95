package telemetry_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/opspilot/kubeagent/internal/telemetry"
)

func readEventLines(t *testing.T) []string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(".agent", "events.jsonl"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		t.Fatalf("read events: %v", err)
	}
	s := strings.TrimSpace(string(b))
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func TestEmit_DisabledByDefault(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("KA_OBSERVE_JSON", "")

	telemetry.Emit("tool_exec", map[string]any{"tool_name": "apply_manifest"})
	if lines := readEventLines(t); lines != nil {
		t.Fatalf("emission should be off without KA_OBSERVE_JSON=1, got %v", lines)
	}
}

func TestEmit_WritesJSONLines(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("KA_OBSERVE_JSON", "1")

	telemetry.Emit("tool_exec", map[string]any{"tool_name": "apply_manifest", "input_size": 42})
	telemetry.Emit("completion_step", map[string]any{"round": 0})

	lines := readEventLines(t)
	if len(lines) != 2 {
		t.Fatalf("want 2 lines, got %d", len(lines))
	}

	var first map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("line 0 is not JSON: %v", err)
	}
	if first["event"] != "tool_exec" || first["tool_name"] != "apply_manifest" {
		t.Fatalf("unexpected event: %v", first)
	}
	if first["input_size"] != float64(42) {
		t.Fatalf("field lost: %v", first)
	}
	if _, ok := first["time"].(string); !ok {
		t.Fatalf("missing time field: %v", first)
	}
}

func TestEmit_DoesNotMutateCallerMap(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("KA_OBSERVE_JSON", "1")

	fields := map[string]any{"tool_name": "echo"}
	telemetry.Emit("tool_exec", fields)
	if len(fields) != 1 {
		t.Fatalf("caller map mutated: %v", fields)
	}
}

func TestRunID_ContextRoundTrip(t *testing.T) {
	ctx := context.Background()
	if _, ok := telemetry.RunIDFromContext(ctx); ok {
		t.Fatal("empty context should carry no run id")
	}
	ctx = telemetry.WithRunID(ctx, "run-42")
	id, ok := telemetry.RunIDFromContext(ctx)
	if !ok || id != "run-42" {
		t.Fatalf("run id lost: %q %v", id, ok)
	}
}
