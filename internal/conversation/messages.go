package conversation

import (
	"encoding/json"

	"github.com/anthropics/anthropic-sdk-go"
)

// MessageParams converts a turn sequence into Anthropic message params,
// preserving order. Each turn maps to exactly one message:
//   - user text           -> user message with a text block
//   - assistant text      -> assistant message with a text block
//   - assistant tool call -> assistant message with a tool_use block
//   - user tool result    -> user message with a tool_result block
func MessageParams(turns []Turn) []anthropic.MessageParam {
	msgs := make([]anthropic.MessageParam, 0, len(turns))
	for _, t := range turns {
		switch t.Kind {
		case KindUserText:
			msgs = append(msgs, anthropic.NewUserMessage(anthropic.NewTextBlock(t.Text)))
		case KindAssistantText:
			msgs = append(msgs, anthropic.NewAssistantMessage(anthropic.NewTextBlock(t.Text)))
		case KindAssistantToolCall:
			tu := anthropic.ToolUseBlockParam{
				Type:  "tool_use",
				ID:    t.CallID,
				Name:  t.Tool,
				Input: json.RawMessage(t.Arguments),
			}
			msgs = append(msgs, anthropic.NewAssistantMessage(anthropic.ContentBlockParamUnion{OfToolUse: &tu}))
		case KindUserToolResult:
			msgs = append(msgs, anthropic.NewUserMessage(anthropic.NewToolResultBlock(t.CallID, t.Content, t.IsError)))
		}
	}
	return msgs
}
