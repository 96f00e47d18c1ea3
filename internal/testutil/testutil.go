// Package testutil provides conversation fixtures for agentctx tests
package testutil

import (
	"encoding/json"
	"strconv"
	"strings"
	"testing"

	"github.com/youssefsiam38/agentctx/types"
)

// User returns a user message holding a single text block.
func User(text string) *types.Message {
	return types.NewUserMessage(text)
}

// Assistant returns an assistant message holding a single text block.
func Assistant(text string) *types.Message {
	return types.NewAssistantMessage(text)
}

// System returns a system message holding a single text block.
func System(text string) *types.Message {
	return types.NewSystemMessage(text)
}

// ToolCall returns an assistant message requesting the tool call id.
func ToolCall(id, name, input string) *types.Message {
	var raw json.RawMessage
	if input != "" {
		raw = json.RawMessage(input)
	}
	return types.NewMessage(types.RoleAssistant, types.NewToolUseBlock(id, name, raw))
}

// ToolReply returns a user message answering the tool call id with text.
func ToolReply(id, text string) *types.Message {
	return types.NewMessage(types.RoleUser, types.NewToolResultBlock(id, types.TextResult(text), false))
}

// Sized returns a user message whose text is n characters long.
func Sized(n int) *types.Message {
	return types.NewUserMessage(strings.Repeat("x", n))
}

// Chat returns n alternating user and assistant text messages, each tagged
// with its position.
func Chat(n int) types.Messages {
	msgs := make(types.Messages, 0, n)
	for i := 0; i < n; i++ {
		text := "message " + strconv.Itoa(i)
		if i%2 == 0 {
			msgs = append(msgs, User(text))
		} else {
			msgs = append(msgs, Assistant(text))
		}
	}
	return msgs
}

// Texts returns the text content of each message, in order.
func Texts(msgs types.Messages) []string {
	out := make([]string, len(msgs))
	for i, msg := range msgs {
		out[i] = msg.TextContent()
	}
	return out
}

// Clone deep-copies a conversation so tests can compare before and after.
func Clone(t *testing.T, msgs types.Messages) types.Messages {
	t.Helper()

	out := make(types.Messages, len(msgs))
	for i, msg := range msgs {
		cp := *msg
		cp.Content = append([]types.ContentBlock(nil), msg.Content...)
		for j := range cp.Content {
			if rc := cp.Content[j].ToolResult; rc != nil {
				r := *rc
				cp.Content[j].ToolResult = &r
			}
		}
		out[i] = &cp
	}
	return out
}

// AssertPaired fails the test if a tool use lacks its result or a tool
// result lacks its use.
func AssertPaired(t *testing.T, msgs types.Messages) {
	t.Helper()

	uses := make(map[string]bool)
	results := make(map[string]bool)
	for _, msg := range msgs {
		for _, id := range msg.ToolUseIDs() {
			uses[id] = true
		}
		for _, id := range msg.ToolResultIDs() {
			results[id] = true
		}
	}
	for id := range uses {
		if !results[id] {
			t.Errorf("tool use %q has no result", id)
		}
	}
	for id := range results {
		if !uses[id] {
			t.Errorf("tool result %q has no use", id)
		}
	}
}
