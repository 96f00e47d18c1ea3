package agentctx

import (
	"github.com/youssefsiam38/agentctx/types"
)

// Re-export types from types package so callers need a single import
type (
	Role              = types.Role
	Message           = types.Message
	Messages          = types.Messages
	ContentType       = types.ContentType
	ContentBlock      = types.ContentBlock
	ToolResultContent = types.ToolResultContent
	ManagementResult  = types.ManagementResult
)

// Re-export constants
const (
	RoleUser      = types.RoleUser
	RoleAssistant = types.RoleAssistant
	RoleSystem    = types.RoleSystem

	ContentTypeText       = types.ContentTypeText
	ContentTypeToolUse    = types.ContentTypeToolUse
	ContentTypeToolResult = types.ContentTypeToolResult
	ContentTypeThinking   = types.ContentTypeThinking
	ContentTypeReasoning  = types.ContentTypeReasoning
)

// NewMessage creates a message with a fresh ID and timestamp
func NewMessage(role Role, blocks ...ContentBlock) *Message {
	return types.NewMessage(role, blocks...)
}

// NewUserMessage creates a new user message with text content
func NewUserMessage(text string) *Message {
	return types.NewUserMessage(text)
}

// NewAssistantMessage creates a new assistant message with text content
func NewAssistantMessage(text string) *Message {
	return types.NewAssistantMessage(text)
}
