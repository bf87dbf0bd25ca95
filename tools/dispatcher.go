package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownTool is returned by Invoke when no handler is registered under
// the requested name.
var ErrUnknownTool = errors.New("unknown tool")

// InvalidArgumentsError reports that a tool's raw arguments did not match its
// expected input shape (malformed JSON, missing or wrong-typed fields).
type InvalidArgumentsError struct {
	Tool string
	Err  error
}

func (e *InvalidArgumentsError) Error() string {
	return fmt.Sprintf("invalid arguments for %s: %v", e.Tool, e.Err)
}

func (e *InvalidArgumentsError) Unwrap() error { return e.Err }

// HandlerError wraps a tool handler's own domain failure.
type HandlerError struct {
	Tool string
	Err  error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Tool, e.Err)
}

func (e *HandlerError) Unwrap() error { return e.Err }

// DecodeInput unmarshals raw tool arguments into in, classifying any failure
// as InvalidArgumentsError so the dispatcher and callers can tell argument
// problems from handler failures. Handlers use this for their input decode.
func DecodeInput(tool string, raw json.RawMessage, in any) error {
	if err := json.Unmarshal(raw, in); err != nil {
		return &InvalidArgumentsError{Tool: tool, Err: err}
	}
	return nil
}

// Dispatcher routes tool invocations to registered handlers by name. The
// name-keyed mapping is built once at construction and read-only afterwards.
type Dispatcher struct {
	defs map[string]ToolDefinition
}

// NewDispatcher builds a dispatcher from the given definitions. A duplicated
// name keeps the first registration.
func NewDispatcher(defs []ToolDefinition) *Dispatcher {
	m := make(map[string]ToolDefinition, len(defs))
	for _, d := range defs {
		if _, exists := m[d.Name]; exists {
			continue
		}
		m[d.Name] = d
	}
	return &Dispatcher{defs: m}
}

// Invoke looks up the named handler and executes it exactly once with the raw
// arguments. Failures are classified as ErrUnknownTool, InvalidArgumentsError,
// or HandlerError; no retry or caching happens at this layer, so two Invoke
// calls with identical inputs perform two independent handler executions.
func (d *Dispatcher) Invoke(ctx context.Context, name string, raw json.RawMessage) (string, error) {
	def, ok := d.defs[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTool, name)
	}
	out, err := def.Function(ctx, raw)
	if err != nil {
		var invalid *InvalidArgumentsError
		if errors.As(err, &invalid) {
			return "", err
		}
		return "", &HandlerError{Tool: name, Err: err}
	}
	return out, nil
}
