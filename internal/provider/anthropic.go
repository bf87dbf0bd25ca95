// Package provider backs the runner's CompletionClient with the Anthropic
// Messages API.
package provider

import (
	"context"
	"encoding/json"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/opspilot/kubeagent/internal/conversation"
	"github.com/opspilot/kubeagent/internal/runner"
	"github.com/opspilot/kubeagent/tools"
)

// NewAnthropicClient returns a client using API key from the env.
func NewAnthropicClient() *anthropic.Client {
	c := anthropic.NewClient()
	return &c
}

const DefaultModel = anthropic.ModelClaude3_7SonnetLatest

const defaultMaxTokens = 1024

// Client adapts the Anthropic SDK to runner.CompletionClient. The tool
// catalog and system preamble are fixed at construction and attached to
// every request, out of band from the turn loop.
type Client struct {
	api     *anthropic.Client
	model   anthropic.Model
	system  string
	catalog []anthropic.ToolUnionParam
}

// New builds a completion client for the given model with the system
// preamble and the tool catalog derived from defs.
func New(api *anthropic.Client, model anthropic.Model, system string, defs []tools.ToolDefinition) *Client {
	return &Client{
		api:     api,
		model:   model,
		system:  system,
		catalog: tools.CatalogParams(defs),
	}
}

// Complete sends history plus the current prompt and maps the response
// content blocks to segments in order: text blocks to text segments,
// tool_use blocks to tool-call segments with the raw JSON input passed
// through untouched. Unsupported block types are skipped.
func (c *Client) Complete(ctx context.Context, prompt conversation.Turn, history []conversation.Turn) (runner.Response, error) {
	turns := make([]conversation.Turn, 0, len(history)+1)
	turns = append(turns, history...)
	turns = append(turns, prompt)

	params := anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: int64(defaultMaxTokens),
		Messages:  conversation.MessageParams(turns),
		Tools:     c.catalog,
	}
	if c.system != "" {
		params.System = []anthropic.TextBlockParam{{Text: c.system}}
	}

	msg, err := c.api.Messages.New(ctx, params)
	if err != nil {
		return runner.Response{}, err
	}

	var segments []runner.Segment
	for _, block := range msg.Content {
		switch v := block.AsAny().(type) {
		case anthropic.TextBlock:
			segments = append(segments, runner.Segment{Text: v.Text})
		case anthropic.ToolUseBlock:
			segments = append(segments, runner.Segment{Call: &runner.ToolCall{
				ID:        v.ID,
				Name:      v.Name,
				Arguments: json.RawMessage(v.JSON.Input.Raw()),
			}})
		}
	}
	return runner.Response{Segments: segments}, nil
}
