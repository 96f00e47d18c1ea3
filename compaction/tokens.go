package compaction

import (
	"math"

	"github.com/tidwall/pretty"
	"github.com/youssefsiam38/agentctx/types"
)

// ToolUseOverheadChars is added to every tool use for its id, name and framing.
const ToolUseOverheadChars = 100

// ContentBreakdown splits character usage by content type.
type ContentBreakdown struct {
	TextChars        int
	ToolUseChars     int
	ToolResultChars  int
	ThinkingChars    int
	ToolInteractions int
}

// Usage describes how much of the context budget a conversation occupies.
type Usage struct {
	EstimatedTokens  int
	CharacterCount   int
	MessageCount     int
	Breakdown        ContentBreakdown
	UsagePercentage  float64
	ApproachingLimit bool
	ExceedsSafeLimit bool
}

// estimateTokens converts characters to tokens, rounding up.
func estimateTokens(chars int, charsPerToken float64) int {
	if chars <= 0 {
		return 0
	}
	return int(math.Ceil(float64(chars) / charsPerToken))
}

// compactJSONLen returns the length of raw once insignificant whitespace is
// stripped. Absent JSON counts as the literal null.
func compactJSONLen(raw []byte) int {
	if len(raw) == 0 {
		return len("null")
	}
	return len(pretty.Ugly(raw))
}

// toolResultChars measures a tool result payload, descending into nested parts.
func toolResultChars(content *types.ToolResultContent) int {
	if content == nil {
		return 0
	}
	switch content.Type {
	case types.ToolResultText:
		return len(content.Text)
	case types.ToolResultJSON:
		return compactJSONLen(content.JSON)
	case types.ToolResultBinary:
		return len(content.Data)
	case types.ToolResultMultiple:
		total := 0
		for i := range content.Blocks {
			total += toolResultChars(&content.Blocks[i])
		}
		return total
	}
	return len(content.Text)
}

// addBlock accounts a single content block into b.
func (b *ContentBreakdown) addBlock(block *types.ContentBlock) {
	switch block.Type {
	case types.ContentTypeText:
		b.TextChars += len(block.Text)
	case types.ContentTypeToolUse:
		b.ToolUseChars += compactJSONLen(block.ToolInput) + ToolUseOverheadChars
		b.ToolInteractions++
	case types.ContentTypeToolResult:
		b.ToolResultChars += toolResultChars(block.ToolResult)
	case types.ContentTypeThinking:
		b.ThinkingChars += len(block.Text)
	case types.ContentTypeReasoning:
		b.ThinkingChars += len(block.Reasoning)
	}
}

// Total returns the character count across all content types.
func (b ContentBreakdown) Total() int {
	return b.TextChars + b.ToolUseChars + b.ToolResultChars + b.ThinkingChars
}

// MessageChars returns the character count of a single message.
func MessageChars(msg *types.Message) int {
	var b ContentBreakdown
	for i := range msg.Content {
		b.addBlock(&msg.Content[i])
	}
	return b.Total()
}

func breakdownOf(messages types.Messages) ContentBreakdown {
	var b ContentBreakdown
	for _, msg := range messages {
		for i := range msg.Content {
			b.addBlock(&msg.Content[i])
		}
	}
	return b
}
