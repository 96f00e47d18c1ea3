package convert

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/google/go-cmp/cmp"
	"github.com/tidwall/gjson"
	"github.com/youssefsiam38/agentctx/types"
)

func TestToAnthropic(t *testing.T) {
	messages := types.Messages{
		types.NewSystemMessage("You are helpful."),
		types.NewUserMessage("list my tasks"),
		types.NewMessage(types.RoleAssistant,
			types.NewThinkingBlock("the user wants tasks"),
			types.NewToolUseBlock("tool-123", "list_tasks", nil),
		),
		types.NewMessage(types.RoleUser,
			types.NewToolResultBlock("tool-123", types.JSONResult(json.RawMessage(`{ "tasks": [] }`)), false),
		),
	}

	params := ToAnthropic(messages)
	if len(params) != 3 {
		t.Fatalf("len(params) = %d, want 3 (system skipped)", len(params))
	}

	if params[0].Role != anthropic.MessageParamRoleUser {
		t.Errorf("params[0].Role = %s, want user", params[0].Role)
	}
	if text := params[0].Content[0].OfText; text == nil || text.Text != "list my tasks" {
		t.Errorf("params[0] text = %+v, want 'list my tasks'", text)
	}

	if params[1].Role != anthropic.MessageParamRoleAssistant {
		t.Errorf("params[1].Role = %s, want assistant", params[1].Role)
	}
	if text := params[1].Content[0].OfText; text == nil || text.Text != "the user wants tasks" {
		t.Errorf("thinking block = %+v, want rendered as text", text)
	}
	toolUse := params[1].Content[1].OfToolUse
	if toolUse == nil {
		t.Fatal("params[1].Content[1] is not a tool use")
	}
	if toolUse.ID != "tool-123" || toolUse.Name != "list_tasks" {
		t.Errorf("tool use = %s/%s, want tool-123/list_tasks", toolUse.ID, toolUse.Name)
	}
	if diff := cmp.Diff(map[string]any{}, toolUse.Input); diff != "" {
		t.Errorf("empty tool input should become an empty object (-want +got):\n%s", diff)
	}

	toolResult := params[2].Content[0].OfToolResult
	if toolResult == nil {
		t.Fatal("params[2].Content[0] is not a tool result")
	}
	if toolResult.ToolUseID != "tool-123" {
		t.Errorf("ToolUseID = %s, want tool-123", toolResult.ToolUseID)
	}
	if text := toolResult.Content[0].OfText; text == nil || text.Text != `{"tasks":[]}` {
		t.Errorf("tool result text = %+v, want compact JSON", text)
	}

	system := SystemPrompt(messages)
	if len(system) != 1 || system[0].Text != "You are helpful." {
		t.Errorf("SystemPrompt() = %+v", system)
	}
}

func TestToolResultText(t *testing.T) {
	tests := []struct {
		name    string
		content *types.ToolResultContent
		want    string
	}{
		{"nil", nil, ""},
		{"text", &types.ToolResultContent{Type: types.ToolResultText, Text: "ok"}, "ok"},
		{"empty json", &types.ToolResultContent{Type: types.ToolResultJSON}, "null"},
		{"binary", &types.ToolResultContent{Type: types.ToolResultBinary, Data: []byte{1, 2, 3}, MimeType: "image/png"}, "[binary data: 3 bytes, image/png]"},
		{"multiple", func() *types.ToolResultContent {
			c := types.MultipleResult(types.TextResult("a"), types.JSONResult(json.RawMessage(`[1, 2]`)))
			return &c
		}(), "a\n[1,2]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToolResultText(tt.content); got != tt.want {
				t.Errorf("ToolResultText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsContextOverflow(t *testing.T) {
	tests := []struct {
		msg  string
		want bool
	}{
		{"prompt is too long: 210000 tokens > 200000 maximum", true},
		{"Input exceeds the model's CONTEXT WINDOW", true},
		{"rate limited", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsContextOverflowMessage(tt.msg); got != tt.want {
			t.Errorf("IsContextOverflowMessage(%q) = %v, want %v", tt.msg, got, tt.want)
		}
	}

	if IsContextOverflowError(nil) {
		t.Error("IsContextOverflowError(nil) = true, want false")
	}
	if IsContextOverflowError(errors.New("prompt is too long")) {
		t.Error("IsContextOverflowError() = true for a non-API error, want false")
	}
}

func TestFromAnthropic(t *testing.T) {
	body := `{
		"id": "msg_01",
		"type": "message",
		"role": "assistant",
		"model": "claude-sonnet-4-5",
		"content": [
			{"type": "thinking", "thinking": "search first", "signature": "sig"},
			{"type": "text", "text": "Let me look that up."},
			{"type": "tool_use", "id": "toolu_01", "name": "search", "input": {"q": "go"}}
		],
		"stop_reason": "tool_use",
		"usage": {"input_tokens": 10, "output_tokens": 20}
	}`

	var resp anthropic.Message
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}

	msg := FromAnthropic(&resp)

	if msg.Role != types.RoleAssistant {
		t.Errorf("Role = %s, want assistant", msg.Role)
	}
	if got := msg.Metadata["stop_reason"]; got != "tool_use" {
		t.Errorf("stop_reason = %v, want tool_use", got)
	}

	if len(msg.Content) != 3 {
		t.Fatalf("len(Content) = %d, want 3", len(msg.Content))
	}
	want := []types.ContentBlock{
		types.NewReasoningBlock("search first", "sig"),
		types.NewTextBlock("Let me look that up."),
	}
	if diff := cmp.Diff(want, msg.Content[:2]); diff != "" {
		t.Errorf("Content mismatch (-want +got):\n%s", diff)
	}

	toolUse := msg.Content[2]
	if toolUse.Type != types.ContentTypeToolUse || toolUse.ToolUseID != "toolu_01" || toolUse.ToolName != "search" {
		t.Errorf("tool use block = %+v", toolUse)
	}
	if q := gjson.GetBytes(toolUse.ToolInput, "q").String(); q != "go" {
		t.Errorf("tool input q = %q, want go", q)
	}

	// Round trip back to request params keeps the tool id
	params := ToAnthropic(types.Messages{msg})
	if toolUse := params[0].Content[2].OfToolUse; toolUse == nil || toolUse.ID != "toolu_01" {
		t.Errorf("round trip tool use = %+v, want toolu_01", toolUse)
	}
}
