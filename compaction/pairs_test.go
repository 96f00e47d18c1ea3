package compaction

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/youssefsiam38/agentctx/internal/testutil"
	"github.com/youssefsiam38/agentctx/types"
)

func TestPairIndex(t *testing.T) {
	// 0 uses a, 1 answers a and uses b, 2 answers b, 3 is plain text,
	// 4 answers a use that never happened.
	messages := types.Messages{
		testutil.ToolCall("a", "search", `{"q":"go"}`),
		types.NewMessage(types.RoleAssistant,
			types.NewToolResultBlock("a", types.TextResult("found"), false),
			types.NewToolUseBlock("b", "fetch", nil)),
		testutil.ToolReply("b", "page"),
		testutil.User("thanks"),
		testutil.ToolReply("ghost", "late"),
	}
	idx := NewPairIndex(messages)

	if !idx.HasUse("a") || !idx.HasResult("a") {
		t.Error("expected both halves of pair a to be indexed")
	}
	if idx.HasUse("ghost") {
		t.Error("HasUse(ghost) = true, want false")
	}
	if diff := cmp.Diff([]int{1}, idx.ResultIndices("a")); diff != "" {
		t.Errorf("ResultIndices(a) mismatch (-want +got):\n%s", diff)
	}

	tests := []struct {
		index        int
		wantPartners []int
		wantGroup    []int
	}{
		{0, []int{1}, []int{0, 1, 2}},
		{1, []int{0, 2}, []int{0, 1, 2}},
		{2, []int{1}, []int{0, 1, 2}},
		{3, nil, []int{3}},
		{4, nil, []int{4}},
	}

	for _, tt := range tests {
		if diff := cmp.Diff(tt.wantPartners, idx.Partners(tt.index)); diff != "" {
			t.Errorf("Partners(%d) mismatch (-want +got):\n%s", tt.index, diff)
		}
		if diff := cmp.Diff(tt.wantGroup, idx.Group(tt.index)); diff != "" {
			t.Errorf("Group(%d) mismatch (-want +got):\n%s", tt.index, diff)
		}
	}
}
