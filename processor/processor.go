// Package processor implements repair and validation passes over a
// conversation: orphaned tool-use cleanup, blank text handling, tool result
// truncation, structural validation and canonical block ordering.
//
// Every pass works on a caller-owned *types.Messages in place and reports
// what it did through a Result. Passes hold no state between calls.
package processor

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/youssefsiam38/agentctx/logging"
	"github.com/youssefsiam38/agentctx/types"
)

const (
	// BlankTextPlaceholder replaces blank assistant text that has no tool use beside it.
	BlankTextPlaceholder = "[blank text]"

	// TruncatedToolResultNotice replaces the content of truncated tool results.
	TruncatedToolResultNotice = "The tool result was too large and has been truncated to fit the context window."

	// MaxToolNameLength is the longest tool name providers accept.
	MaxToolNameLength = 64
)

var toolNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// Result describes the outcome of a processing pass.
type Result struct {
	ChangesMade    bool
	ItemsProcessed int
	Description    string
}

func noChanges(description string) *Result {
	return &Result{Description: description}
}

// Processor runs message repair passes.
type Processor struct {
	logger logging.Logger
}

// New creates a Processor. A nil logger discards output.
func New(logger logging.Logger) *Processor {
	return &Processor{logger: logging.OrNoop(logger)}
}

type orphanedToolUse struct {
	msgIdx   int
	blockIdx int
	id       string
	name     string
}

// CleanOrphanedEmptyToolUses repairs assistant tool uses that carry no input
// and were never answered by a tool result anywhere in the conversation.
// A tool use that is its message's only block is replaced by a short text
// note; otherwise the block is removed.
func (p *Processor) CleanOrphanedEmptyToolUses(messages *types.Messages) *Result {
	resultIDs := make(map[string]struct{})
	for _, msg := range *messages {
		for _, id := range msg.ToolResultIDs() {
			resultIDs[id] = struct{}{}
		}
	}

	var orphans []orphanedToolUse
	for i, msg := range *messages {
		if msg.Role != types.RoleAssistant {
			continue
		}
		for j, block := range msg.Content {
			if block.Type != types.ContentTypeToolUse || !IsEmptyToolInput(block.ToolInput) {
				continue
			}
			if _, answered := resultIDs[block.ToolUseID]; answered {
				continue
			}
			orphans = append(orphans, orphanedToolUse{msgIdx: i, blockIdx: j, id: block.ToolUseID, name: block.ToolName})
		}
	}

	if len(orphans) == 0 {
		return noChanges("No orphaned tool uses found")
	}

	// Highest (message, block) first keeps the remaining indices valid.
	sort.Slice(orphans, func(a, b int) bool {
		if orphans[a].msgIdx != orphans[b].msgIdx {
			return orphans[a].msgIdx > orphans[b].msgIdx
		}
		return orphans[a].blockIdx > orphans[b].blockIdx
	})

	for _, o := range orphans {
		msg := (*messages)[o.msgIdx]
		if len(msg.Content) == 1 {
			msg.Content[o.blockIdx] = types.NewTextBlock(fmt.Sprintf("[Attempted to use %s, but operation was canceled]", o.name))
			p.logger.Info("replaced orphaned tool use with note", "tool", o.name, "tool_use_id", o.id)
		} else {
			msg.Content = append(msg.Content[:o.blockIdx], msg.Content[o.blockIdx+1:]...)
			p.logger.Info("removed orphaned tool use", "tool", o.name, "tool_use_id", o.id)
		}
	}

	return &Result{
		ChangesMade:    true,
		ItemsProcessed: len(orphans),
		Description:    fmt.Sprintf("Cleaned %d orphaned tool uses", len(orphans)),
	}
}

// IsEmptyToolInput reports whether a tool input is absent, JSON null or an
// empty object.
func IsEmptyToolInput(input []byte) bool {
	res := gjson.ParseBytes(input)
	if !res.Exists() || res.Type == gjson.Null {
		return true
	}
	if res.IsObject() {
		empty := true
		res.ForEach(func(_, _ gjson.Result) bool {
			empty = false
			return false
		})
		return empty
	}
	return false
}

// RemoveBlankContent handles whitespace-only text in assistant messages.
// Beside a tool use the text is dropped; otherwise it becomes a placeholder
// so the message keeps a non-empty text block.
func (p *Processor) RemoveBlankContent(messages *types.Messages) *Result {
	processed := 0

	for _, msg := range *messages {
		if msg.Role != types.RoleAssistant {
			continue
		}

		hasToolUse := msg.HasToolUse()
		kept := msg.Content[:0]
		for _, block := range msg.Content {
			if block.Type != types.ContentTypeText || strings.TrimSpace(block.Text) != "" {
				kept = append(kept, block)
				continue
			}
			processed++
			if hasToolUse {
				continue
			}
			block.Text = BlankTextPlaceholder
			kept = append(kept, block)
		}
		msg.Content = kept
	}

	if processed == 0 {
		return noChanges("No blank content found")
	}

	p.logger.Debug("processed blank content", "items", processed)
	return &Result{
		ChangesMade:    true,
		ItemsProcessed: processed,
		Description:    fmt.Sprintf("Processed %d blank content items", processed),
	}
}

// FindLastMessageWithToolResults returns the index of the most recent message
// holding a tool result.
func FindLastMessageWithToolResults(messages types.Messages) (int, bool) {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].HasToolResult() {
			return i, true
		}
	}
	return -1, false
}

// TruncateToolResults replaces every tool result in the message at index
// with a truncation notice and flags it as an error. Results that already
// hold the notice are skipped.
func (p *Processor) TruncateToolResults(messages *types.Messages, index int) (*Result, error) {
	if index < 0 || index >= len(*messages) {
		return nil, fmt.Errorf("%w: message index %d out of range [0, %d)", ErrInvalidInput, index, len(*messages))
	}

	msg := (*messages)[index]
	truncated := 0
	for i := range msg.Content {
		block := &msg.Content[i]
		if block.Type != types.ContentTypeToolResult || isTruncated(block) {
			continue
		}
		notice := types.TextResult(TruncatedToolResultNotice)
		block.ToolResult = &notice
		block.IsError = true
		truncated++
	}

	if truncated == 0 {
		return noChanges("No tool results to truncate"), nil
	}

	p.logger.Info("truncated tool results", "message_index", index, "count", truncated)
	return &Result{
		ChangesMade:    true,
		ItemsProcessed: truncated,
		Description:    fmt.Sprintf("Truncated %d tool results", truncated),
	}, nil
}

func isTruncated(block *types.ContentBlock) bool {
	return block.IsError && block.ToolResult != nil &&
		block.ToolResult.Type == types.ToolResultText &&
		block.ToolResult.Text == TruncatedToolResultNotice
}

// TruncateLastToolResults truncates the results held by the most recent
// message that has any.
func (p *Processor) TruncateLastToolResults(messages *types.Messages) (*Result, error) {
	idx, ok := FindLastMessageWithToolResults(*messages)
	if !ok {
		return noChanges("No tool results to truncate"), nil
	}
	return p.TruncateToolResults(messages, idx)
}

// ValidateToolName checks a tool name against provider naming rules.
func ValidateToolName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: tool name cannot be empty", ErrInvalidInput)
	case len(name) > MaxToolNameLength:
		return fmt.Errorf("%w: tool name cannot exceed %d characters", ErrInvalidInput, MaxToolNameLength)
	case !toolNamePattern.MatchString(name):
		return fmt.Errorf("%w: tool name must start with a letter and contain only letters, digits and underscores", ErrInvalidInput)
	}
	return nil
}

// ValidateContent checks message structure without modifying anything.
// All violations are reported together in a *ValidationError.
func (p *Processor) ValidateContent(messages types.Messages) (*Result, error) {
	var violations []string

	for i, msg := range messages {
		if !msg.Role.Valid() {
			violations = append(violations, fmt.Sprintf("message %d has invalid role: %q", i, msg.Role))
		}
		if len(msg.Content) == 0 {
			violations = append(violations, fmt.Sprintf("message %d has no content blocks", i))
		}

		for j, block := range msg.Content {
			switch block.Type {
			case types.ContentTypeText:
				if block.Text == "" {
					violations = append(violations, fmt.Sprintf("message %d content %d has empty text", i, j))
				}
			case types.ContentTypeToolUse:
				if block.ToolUseID == "" {
					violations = append(violations, fmt.Sprintf("message %d content %d has empty tool use ID", i, j))
				}
				if err := ValidateToolName(block.ToolName); err != nil {
					violations = append(violations, fmt.Sprintf("message %d content %d has invalid tool name %q: %v", i, j, block.ToolName, err))
				}
			case types.ContentTypeToolResult:
				if block.ToolResultID == "" {
					violations = append(violations, fmt.Sprintf("message %d content %d has empty tool result ID", i, j))
				}
			case types.ContentTypeThinking:
				if block.Text == "" {
					violations = append(violations, fmt.Sprintf("message %d content %d has empty thinking content", i, j))
				}
			case types.ContentTypeReasoning:
				if block.Reasoning == "" {
					violations = append(violations, fmt.Sprintf("message %d content %d has empty reasoning content", i, j))
				}
			default:
				violations = append(violations, fmt.Sprintf("message %d content %d has unknown type %q", i, j, block.Type))
			}
		}
	}

	if len(violations) > 0 {
		p.logger.Debug("content validation failed", "violations", len(violations))
		return nil, &ValidationError{Violations: violations}
	}

	return &Result{
		ItemsProcessed: len(messages),
		Description:    fmt.Sprintf("Validated %d messages successfully", len(messages)),
	}, nil
}

// blockRank orders content types canonically: text, tool uses, tool
// results, then thinking and reasoning.
func blockRank(t types.ContentType) int {
	switch t {
	case types.ContentTypeText:
		return 0
	case types.ContentTypeToolUse:
		return 1
	case types.ContentTypeToolResult:
		return 2
	default:
		return 3
	}
}

// NormalizeMessages regroups each message's blocks into canonical order,
// keeping the relative order within each group.
func (p *Processor) NormalizeMessages(messages *types.Messages) *Result {
	reordered := 0

	for _, msg := range *messages {
		sorted := sort.SliceIsSorted(msg.Content, func(a, b int) bool {
			return blockRank(msg.Content[a].Type) < blockRank(msg.Content[b].Type)
		})
		if sorted {
			continue
		}
		sort.SliceStable(msg.Content, func(a, b int) bool {
			return blockRank(msg.Content[a].Type) < blockRank(msg.Content[b].Type)
		})
		reordered++
	}

	if reordered == 0 {
		r := noChanges("All messages already normalized")
		r.ItemsProcessed = len(*messages)
		return r
	}

	p.logger.Debug("normalized message block order", "messages", reordered)
	return &Result{
		ChangesMade:    true,
		ItemsProcessed: len(*messages),
		Description:    fmt.Sprintf("Normalized %d messages", reordered),
	}
}
