package metrics

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/youssefsiam38/agentctx/compaction"
	"github.com/youssefsiam38/agentctx/hooks"
	"github.com/youssefsiam38/agentctx/types"
)

func TestCollectorRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector("")

	if err := c.Register(reg); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := c.Register(reg); err == nil {
		t.Error("second Register() should fail with a duplicate registration")
	}
}

func TestCollectorAttach(t *testing.T) {
	c := NewCollector("test")
	r := hooks.NewRegistry()
	c.Attach(r)
	ctx := context.Background()

	_ = r.TriggerAfterManagement(ctx, types.NoChanges(4))
	_ = r.TriggerAfterManagement(ctx, &types.ManagementResult{
		ChangesMade:     true,
		MessagesRemoved: 5,
		DanglingCleaned: 2,
		MessagesBefore:  45,
		MessagesAfter:   40,
	})
	_ = r.TriggerContextManaged(ctx, &compaction.Result{
		ChangesMade:       true,
		Strategy:          compaction.StrategyPriority,
		RemovedByPriority: map[compaction.Priority]int{compaction.PriorityNormal: 3, compaction.PriorityMedium: 1},
		Before:            compaction.Usage{EstimatedTokens: 5000},
		After:             compaction.Usage{EstimatedTokens: 3000},
	})
	_ = r.TriggerContextManaged(ctx, &compaction.Result{})
	_ = r.TriggerContextOverflow(ctx, "prompt is too long", nil)
	_ = r.TriggerAfterContextReduction(ctx, &types.ManagementResult{
		ChangesMade:     true,
		MessagesRemoved: 10,
		MessagesBefore:  40,
		MessagesAfter:   30,
	})

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"unchanged management runs", testutil.ToFloat64(c.runsTotal.WithLabelValues(PassManagement, "false")), 1},
		{"changed management runs", testutil.ToFloat64(c.runsTotal.WithLabelValues(PassManagement, "true")), 1},
		{"changed overflow runs", testutil.ToFloat64(c.runsTotal.WithLabelValues(PassOverflow, "true")), 1},
		{"removed by management", testutil.ToFloat64(c.messagesRemoved.WithLabelValues(PassManagement)), 5},
		{"removed by overflow", testutil.ToFloat64(c.messagesRemoved.WithLabelValues(PassOverflow)), 10},
		{"dangling cleaned", testutil.ToFloat64(c.danglingCleaned), 2},
		{"priority reductions", testutil.ToFloat64(c.contextReductions.WithLabelValues("priority")), 1},
		{"removed normal", testutil.ToFloat64(c.removedByPriority.WithLabelValues("normal")), 3},
		{"removed medium", testutil.ToFloat64(c.removedByPriority.WithLabelValues("medium")), 1},
		{"overflows", testutil.ToFloat64(c.overflowsTotal), 1},
		{"conversation size", testutil.ToFloat64(c.conversationMessages), 30},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}

	if got := testutil.CollectAndCount(c.tokensSaved); got != 1 {
		t.Errorf("tokens saved histogram series = %d, want 1", got)
	}
}

func TestCollectorAttachOnce(t *testing.T) {
	c := NewCollector("test")
	shared := hooks.NewRegistry()
	c.Attach(shared)
	c.Attach(shared)

	other := hooks.NewRegistry()
	c.Attach(other)

	ctx := context.Background()
	_ = shared.TriggerAfterManagement(ctx, types.NoChanges(3))
	_ = shared.TriggerContextOverflow(ctx, "prompt is too long", nil)
	_ = other.TriggerContextOverflow(ctx, "prompt is too long", nil)

	if got := testutil.ToFloat64(c.runsTotal.WithLabelValues(PassManagement, "false")); got != 1 {
		t.Errorf("management runs = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.overflowsTotal); got != 2 {
		t.Errorf("overflows = %v, want 2 (one per registry)", got)
	}
}
