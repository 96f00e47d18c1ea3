package agentctx

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/youssefsiam38/agentctx/internal/testutil"
	"github.com/youssefsiam38/agentctx/types"
)

func TestRemoveDanglingMessages(t *testing.T) {
	messages := types.Messages{
		testutil.ToolReply("orphan_1", "nobody asked"),
		testutil.User("valid"),
		testutil.ToolCall("orphan_2", "search", `{"q":"go"}`),
	}

	if got := RemoveDanglingMessages(&messages); got != 2 {
		t.Fatalf("RemoveDanglingMessages() = %d, want 2", got)
	}
	if diff := cmp.Diff([]string{"valid"}, testutil.Texts(messages)); diff != "" {
		t.Errorf("remaining messages mismatch (-want +got):\n%s", diff)
	}
}

func TestRemoveDanglingMessagesKeepsMixedAndPaired(t *testing.T) {
	messages := types.Messages{
		// Dangling tool use next to text stays.
		types.NewMessage(types.RoleAssistant,
			types.NewTextBlock("let me check"),
			types.NewToolUseBlock("lost", "search", nil)),
		testutil.ToolCall("t1", "calc", `{"x":1}`),
		testutil.ToolReply("t1", "1"),
		// A dangling and a paired block together: not every block dangles.
		types.NewMessage(types.RoleAssistant,
			types.NewToolUseBlock("t2", "calc", nil),
			types.NewToolUseBlock("gone", "calc", nil)),
		testutil.ToolReply("t2", "2"),
		types.NewMessage(types.RoleUser),
	}
	before := testutil.Clone(t, messages)

	if got := RemoveDanglingMessages(&messages); got != 0 {
		t.Errorf("RemoveDanglingMessages() = %d, want 0", got)
	}
	if diff := cmp.Diff(before, messages); diff != "" {
		t.Errorf("messages changed (-want +got):\n%s", diff)
	}
}

// filler returns n user text messages labelled from start.
func filler(start, n int) types.Messages {
	msgs := make(types.Messages, n)
	for i := range msgs {
		msgs[i] = testutil.User("filler " + string(rune('a'+start+i)))
	}
	return msgs
}

func TestFindSafeTrimIndex(t *testing.T) {
	// 0-3 filler, 4 tool use, 5 its result, 6-9 filler.
	flanked := append(append(filler(0, 4),
		testutil.ToolCall("t1", "calc", `{"x":1}`),
		testutil.ToolReply("t1", "1")),
		filler(6, 4)...)

	// 0-1 filler, 2 tool use, 3 filler, 4 its result, 5 filler.
	delayed := types.Messages{
		testutil.User("a"), testutil.User("b"),
		testutil.ToolCall("t1", "calc", `{"x":1}`),
		testutil.Assistant("working"),
		testutil.ToolReply("t1", "1"),
		testutil.User("c"),
	}

	tests := []struct {
		name      string
		messages  types.Messages
		target    int
		toolAware bool
		want      int
	}{
		{"within target", testutil.Chat(3), 5, true, 0},
		{"plain text", testutil.Chat(5), 3, true, 2},
		{"naive cut on result moves back to its use", flanked, 5, true, 4},
		{"naive cut on use with answer next is kept", flanked, 6, true, 4},
		{"cut past pair is untouched", flanked, 3, true, 7},
		{"use without immediate answer retreats to pair start", delayed, 4, true, 2},
		{"tool-unaware cut splits pair", flanked, 5, false, 5},
		{"zero target keeps the last message", testutil.Chat(4), 0, true, 3},
		{"zero target without tool awareness clears all", testutil.Chat(4), 0, false, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FindSafeTrimIndex(tt.messages, tt.target, tt.toolAware); got != tt.want {
				t.Errorf("FindSafeTrimIndex() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTrimMessagesPreservesPairs(t *testing.T) {
	// Pairs at every position relative to the cut.
	for target := 1; target <= 12; target++ {
		var messages types.Messages
		for i := 0; i < 4; i++ {
			id := string(rune('a' + i))
			messages = append(messages,
				testutil.User("ask "+id),
				testutil.ToolCall(id, "calc", `{"n":1}`),
				testutil.ToolReply(id, "ok"),
			)
		}

		TrimMessages(&messages, target, true)
		if len(messages) == 0 {
			t.Fatalf("target %d: trimmed every message", target)
		}
		testutil.AssertPaired(t, messages)
	}
}
