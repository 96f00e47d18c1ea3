// Package convert exports managed conversations to provider request shapes.
package convert

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/tidwall/pretty"
	"github.com/youssefsiam38/agentctx/types"
)

// ToAnthropic converts messages to Anthropic message parameters.
// System messages are skipped; pass them through SystemPrompt.
func ToAnthropic(messages types.Messages) []anthropic.MessageParam {
	params := make([]anthropic.MessageParam, 0, len(messages))

	for _, msg := range messages {
		if msg.Role == types.RoleSystem {
			continue
		}

		contentBlocks := make([]anthropic.ContentBlockParamUnion, 0, len(msg.Content))
		for _, block := range msg.Content {
			contentBlocks = append(contentBlocks, convertContentBlock(block))
		}

		params = append(params, anthropic.MessageParam{
			Role:    anthropic.MessageParamRole(msg.Role),
			Content: contentBlocks,
		})
	}

	return params
}

// SystemPrompt collects the text of every system message as system prompt blocks.
func SystemPrompt(messages types.Messages) []anthropic.TextBlockParam {
	var blocks []anthropic.TextBlockParam
	for _, msg := range messages {
		if msg.Role != types.RoleSystem {
			continue
		}
		if text := msg.TextContent(); text != "" {
			blocks = append(blocks, anthropic.TextBlockParam{Text: text})
		}
	}
	return blocks
}

// convertContentBlock converts a single content block
func convertContentBlock(block types.ContentBlock) anthropic.ContentBlockParamUnion {
	switch block.Type {
	case types.ContentTypeText:
		return anthropic.NewTextBlock(block.Text)

	case types.ContentTypeToolUse:
		var input any
		if len(block.ToolInput) > 0 {
			_ = json.Unmarshal(block.ToolInput, &input)
		}
		// The API requires a dictionary, not null
		if input == nil {
			input = map[string]any{}
		}
		return anthropic.NewToolUseBlock(block.ToolUseID, input, block.ToolName)

	case types.ContentTypeToolResult:
		return anthropic.NewToolResultBlock(block.ToolResultID, ToolResultText(block.ToolResult), block.IsError)

	case types.ContentTypeReasoning:
		if block.Signature != "" {
			return anthropic.NewThinkingBlock(block.Signature, block.Reasoning)
		}
		return anthropic.NewTextBlock(block.Reasoning)

	case types.ContentTypeThinking:
		return anthropic.NewTextBlock(block.Text)
	}

	return anthropic.NewTextBlock("")
}

// ToolResultText flattens a tool result payload to text. JSON is compacted,
// binary data is described rather than inlined, and multiple parts are
// joined by newlines.
func ToolResultText(content *types.ToolResultContent) string {
	if content == nil {
		return ""
	}
	switch content.Type {
	case types.ToolResultJSON:
		if len(content.JSON) == 0 {
			return "null"
		}
		return string(pretty.Ugly(content.JSON))
	case types.ToolResultBinary:
		return fmt.Sprintf("[binary data: %d bytes, %s]", len(content.Data), content.MimeType)
	case types.ToolResultMultiple:
		parts := make([]string, len(content.Blocks))
		for i := range content.Blocks {
			parts[i] = ToolResultText(&content.Blocks[i])
		}
		return strings.Join(parts, "\n")
	}
	return content.Text
}

// overflowMarkers are fragments of provider messages reporting a request
// larger than the context window.
var overflowMarkers = []string{
	"prompt is too long",
	"context_length",
	"context window",
	"max_tokens",
	"token limit",
}

// IsContextOverflowMessage reports whether a provider error message
// describes a context window overflow.
func IsContextOverflowMessage(msg string) bool {
	msg = strings.ToLower(msg)
	for _, marker := range overflowMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// IsContextOverflowError reports whether err is an Anthropic API error for
// a request that exceeded the context window. Callers pass err.Error() on to
// a manager's ReduceContext.
func IsContextOverflowError(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *anthropic.Error
	if !errors.As(err, &apiErr) {
		return false
	}

	return apiErr.StatusCode == 400 && IsContextOverflowMessage(apiErr.Error())
}

// FromAnthropic converts an Anthropic response into an assistant message
// ready to append to a managed conversation. The model and stop reason are
// kept in the message metadata. Block kinds with no counterpart are skipped.
func FromAnthropic(resp *anthropic.Message) *types.Message {
	msg := types.NewMessage(types.RoleAssistant)
	msg.Metadata["model"] = string(resp.Model)
	if resp.StopReason != "" {
		msg.Metadata["stop_reason"] = string(resp.StopReason)
	}

	for _, block := range resp.Content {
		switch content := block.AsAny().(type) {
		case anthropic.TextBlock:
			msg.Content = append(msg.Content, types.NewTextBlock(content.Text))

		case anthropic.ToolUseBlock:
			var input json.RawMessage
			if len(content.Input) > 0 {
				input = append(json.RawMessage(nil), content.Input...)
			}
			msg.Content = append(msg.Content, types.NewToolUseBlock(content.ID, content.Name, input))

		case anthropic.ThinkingBlock:
			msg.Content = append(msg.Content, types.NewReasoningBlock(content.Thinking, content.Signature))
		}
	}

	return msg
}
