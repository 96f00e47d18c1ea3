package types

import (
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role represents the message role
type Role string

const (
	// RoleUser represents a user message
	RoleUser Role = "user"

	// RoleAssistant represents an assistant message
	RoleAssistant Role = "assistant"

	// RoleSystem represents a system message
	RoleSystem Role = "system"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	}
	return false
}

// ContentType represents the type of content block
type ContentType string

const (
	// ContentTypeText represents text content
	ContentTypeText ContentType = "text"

	// ContentTypeToolUse represents a tool use block
	ContentTypeToolUse ContentType = "tool_use"

	// ContentTypeToolResult represents a tool result block
	ContentTypeToolResult ContentType = "tool_result"

	// ContentTypeThinking represents model thinking narrative
	ContentTypeThinking ContentType = "thinking"

	// ContentTypeReasoning represents provider reasoning content
	ContentTypeReasoning ContentType = "reasoning"
)

// ContentBlock represents a piece of content in a message
type ContentBlock struct {
	Type ContentType `json:"type"`

	// Text content, also the body of thinking blocks
	Text string `json:"text,omitempty"`

	// Tool use content. ToolInput is nil when the model sent no input.
	ToolUseID string          `json:"id,omitempty"`
	ToolName  string          `json:"name,omitempty"`
	ToolInput json.RawMessage `json:"input,omitempty"`

	// Tool result content
	ToolResultID string             `json:"tool_use_id,omitempty"`
	ToolResult   *ToolResultContent `json:"content,omitempty"`
	IsError      bool               `json:"is_error,omitempty"`

	// Reasoning content
	Reasoning string `json:"reasoning,omitempty"`
	Signature string `json:"signature,omitempty"`
}

// NewTextBlock returns a text block.
func NewTextBlock(text string) ContentBlock {
	return ContentBlock{Type: ContentTypeText, Text: text}
}

// NewToolUseBlock returns a tool use block. A nil input is kept as absent.
func NewToolUseBlock(id, name string, input json.RawMessage) ContentBlock {
	return ContentBlock{Type: ContentTypeToolUse, ToolUseID: id, ToolName: name, ToolInput: input}
}

// NewToolResultBlock returns a tool result block answering toolUseID.
func NewToolResultBlock(toolUseID string, content ToolResultContent, isError bool) ContentBlock {
	return ContentBlock{Type: ContentTypeToolResult, ToolResultID: toolUseID, ToolResult: &content, IsError: isError}
}

// NewThinkingBlock returns a thinking block.
func NewThinkingBlock(text string) ContentBlock {
	return ContentBlock{Type: ContentTypeThinking, Text: text}
}

// NewReasoningBlock returns a reasoning block.
func NewReasoningBlock(reasoning, signature string) ContentBlock {
	return ContentBlock{Type: ContentTypeReasoning, Reasoning: reasoning, Signature: signature}
}

// ToolResultType discriminates ToolResultContent
type ToolResultType string

const (
	ToolResultText     ToolResultType = "text"
	ToolResultJSON     ToolResultType = "json"
	ToolResultBinary   ToolResultType = "binary"
	ToolResultMultiple ToolResultType = "multiple"
)

// ToolResultContent is the payload of a tool result. Multiple nests further
// contents, to any depth.
type ToolResultContent struct {
	Type     ToolResultType      `json:"type"`
	Text     string              `json:"text,omitempty"`
	JSON     json.RawMessage     `json:"data,omitempty"`
	Data     []byte              `json:"binary,omitempty"`
	MimeType string              `json:"mime_type,omitempty"`
	Blocks   []ToolResultContent `json:"blocks,omitempty"`
}

// TextResult returns a text tool result payload.
func TextResult(text string) ToolResultContent {
	return ToolResultContent{Type: ToolResultText, Text: text}
}

// JSONResult returns a JSON tool result payload.
func JSONResult(data json.RawMessage) ToolResultContent {
	return ToolResultContent{Type: ToolResultJSON, JSON: data}
}

// BinaryResult returns a binary tool result payload.
func BinaryResult(data []byte, mimeType string) ToolResultContent {
	return ToolResultContent{Type: ToolResultBinary, Data: data, MimeType: mimeType}
}

// MultipleResult returns a tool result payload made of several parts.
func MultipleResult(blocks ...ToolResultContent) ToolResultContent {
	return ToolResultContent{Type: ToolResultMultiple, Blocks: blocks}
}

// Message represents a conversation message with metadata
type Message struct {
	ID        uuid.UUID      `json:"id"`
	Role      Role           `json:"role"`
	Content   []ContentBlock `json:"content"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// NewMessage creates a message with a fresh ID and timestamp.
func NewMessage(role Role, blocks ...ContentBlock) *Message {
	return &Message{
		ID:        uuid.New(),
		Role:      role,
		Content:   blocks,
		Metadata:  map[string]any{},
		CreatedAt: time.Now(),
	}
}

// NewUserMessage creates a user message holding a single text block.
func NewUserMessage(text string) *Message {
	return NewMessage(RoleUser, NewTextBlock(text))
}

// NewAssistantMessage creates an assistant message holding a single text block.
func NewAssistantMessage(text string) *Message {
	return NewMessage(RoleAssistant, NewTextBlock(text))
}

// NewSystemMessage creates a system message holding a single text block.
func NewSystemMessage(text string) *Message {
	return NewMessage(RoleSystem, NewTextBlock(text))
}

// HasToolUse reports whether the message holds at least one tool use block.
func (m *Message) HasToolUse() bool {
	return m.hasType(ContentTypeToolUse)
}

// HasToolResult reports whether the message holds at least one tool result block.
func (m *Message) HasToolResult() bool {
	return m.hasType(ContentTypeToolResult)
}

func (m *Message) hasType(t ContentType) bool {
	for _, block := range m.Content {
		if block.Type == t {
			return true
		}
	}
	return false
}

// ToolUseIDs returns the ids of every tool use in the message, in order.
func (m *Message) ToolUseIDs() []string {
	var ids []string
	for _, block := range m.Content {
		if block.Type == ContentTypeToolUse {
			ids = append(ids, block.ToolUseID)
		}
	}
	return ids
}

// ToolResultIDs returns the tool use ids answered by the message, in order.
func (m *Message) ToolResultIDs() []string {
	var ids []string
	for _, block := range m.Content {
		if block.Type == ContentTypeToolResult {
			ids = append(ids, block.ToolResultID)
		}
	}
	return ids
}

// TextContent joins the message's text blocks with newlines.
func (m *Message) TextContent() string {
	var parts []string
	for _, block := range m.Content {
		if block.Type == ContentTypeText {
			parts = append(parts, block.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// Messages is a conversation, oldest message first. It is owned by the
// caller and mutated in place by the management passes.
type Messages []*Message

// Len returns the number of messages.
func (ms Messages) Len() int {
	return len(ms)
}

// RemoveIndices deletes the messages at the given indices. Indices are
// applied highest first so earlier positions stay valid; duplicates and
// out-of-range values are ignored. It returns the number removed.
func (ms *Messages) RemoveIndices(indices []int) int {
	sorted := make([]int, len(indices))
	copy(sorted, indices)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))

	removed := 0
	last := -1
	s := *ms
	for _, idx := range sorted {
		if idx == last || idx < 0 || idx >= len(s) {
			continue
		}
		last = idx
		copy(s[idx:], s[idx+1:])
		s[len(s)-1] = nil
		s = s[:len(s)-1]
		removed++
	}
	*ms = s
	return removed
}

// DropFront removes the n oldest messages and returns how many were removed.
func (ms *Messages) DropFront(n int) int {
	s := *ms
	if n <= 0 {
		return 0
	}
	if n > len(s) {
		n = len(s)
	}
	kept := make(Messages, len(s)-n)
	copy(kept, s[n:])
	*ms = kept
	return n
}
