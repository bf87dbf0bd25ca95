package conversation

import "encoding/json"

// Kind discriminates the closed set of turn variants.
type Kind string

const (
	// KindUserText is a plain user message.
	KindUserText Kind = "user_text"
	// KindUserToolResult carries a tool's output back to the model.
	KindUserToolResult Kind = "user_tool_result"
	// KindAssistantText is a plain assistant message.
	KindAssistantText Kind = "assistant_text"
	// KindAssistantToolCall is the model requesting a tool invocation.
	KindAssistantToolCall Kind = "assistant_tool_call"
)

// Turn is one entry in a conversation. Exactly one variant's fields are
// populated, selected by Kind:
//   - KindUserText, KindAssistantText: Text
//   - KindAssistantToolCall: CallID, Tool, Arguments
//   - KindUserToolResult: CallID, Content, IsError
//
// CallID is the correlation key linking a tool call to its result; it is
// opaque and must be propagated unchanged.
type Turn struct {
	Kind      Kind            `json:"kind"`
	Text      string          `json:"text,omitempty"`
	CallID    string          `json:"call_id,omitempty"`
	Tool      string          `json:"tool,omitempty"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
	Content   string          `json:"content,omitempty"`
	IsError   bool            `json:"is_error,omitempty"`
}

// NewUserText returns a plain user turn.
func NewUserText(text string) Turn {
	return Turn{Kind: KindUserText, Text: text}
}

// NewAssistantText returns a plain assistant turn.
func NewAssistantText(text string) Turn {
	return Turn{Kind: KindAssistantText, Text: text}
}

// NewAssistantToolCall returns an assistant turn requesting a tool invocation.
func NewAssistantToolCall(callID, tool string, arguments json.RawMessage) Turn {
	return Turn{Kind: KindAssistantToolCall, CallID: callID, Tool: tool, Arguments: arguments}
}

// NewUserToolResult returns a user turn carrying a tool's output (or its
// failure text when isError is true) for the call identified by callID.
func NewUserToolResult(callID, content string, isError bool) Turn {
	return Turn{Kind: KindUserToolResult, CallID: callID, Content: content, IsError: isError}
}

// IsToolCall reports whether the turn is an assistant tool-call request.
func (t Turn) IsToolCall() bool { return t.Kind == KindAssistantToolCall }
