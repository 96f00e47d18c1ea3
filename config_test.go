package agentctx

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/youssefsiam38/agentctx/compaction"
	"github.com/youssefsiam38/agentctx/hooks"
	"github.com/youssefsiam38/agentctx/internal/testutil"
	"github.com/youssefsiam38/agentctx/metrics"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"zero max messages", func(c *Config) { c.MaxMessages = 0 }, true},
		{"negative max messages", func(c *Config) { c.MaxMessages = -3 }, true},
		{"valid context", func(c *Config) { c.Context = compaction.DefaultConfig() }, false},
		{"invalid context", func(c *Config) {
			c.Context = compaction.DefaultConfig()
			c.Context.CharsPerToken = -1
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestParseConfig(t *testing.T) {
	data := []byte(`
max_messages: 12
auto_clean_dangling: false
context:
  max_tokens: 32000
  enable_priority_retention: false
`)

	cfg, err := ParseConfig(data)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}

	if cfg.MaxMessages != 12 {
		t.Errorf("MaxMessages = %d, want 12", cfg.MaxMessages)
	}
	if cfg.AutoCleanDangling {
		t.Error("AutoCleanDangling = true, want false")
	}
	if !cfg.EnableToolAwarePruning || !cfg.EnableContextManagement {
		t.Error("unset flags should keep their defaults")
	}
	if cfg.Context == nil {
		t.Fatal("Context = nil, want parsed context config")
	}
	if cfg.Context.MaxTokens != 32000 {
		t.Errorf("Context.MaxTokens = %d, want 32000", cfg.Context.MaxTokens)
	}
	if cfg.Context.EnablePriorityRetention {
		t.Error("Context.EnablePriorityRetention = true, want false")
	}
	if !cfg.Context.EnableProactivePrevention {
		t.Error("Context.EnableProactivePrevention should keep its default")
	}
	if cfg.Context.BufferPercentage != compaction.DefaultBufferPercentage {
		t.Errorf("Context.BufferPercentage = %f, want default", cfg.Context.BufferPercentage)
	}
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"malformed yaml", "max_messages: [1, 2"},
		{"wrong type", "max_messages: many"},
		{"invalid value", "max_messages: 0"},
		{"invalid context", "context:\n  buffer_percentage: 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.data))
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("ParseConfig() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestNewSlidingWindowManagerErrors(t *testing.T) {
	if _, err := NewSlidingWindowManagerWithSize(0); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("NewSlidingWindowManagerWithSize(0) error = %v, want ErrInvalidConfig", err)
	}

	_, err := NewSlidingWindowManager(DefaultConfig(), WithHooks(nil))
	var merr *Error
	if !errors.As(err, &merr) || merr.Op != "WithHooks" {
		t.Errorf("WithHooks(nil) error = %v, want *Error from WithHooks", err)
	}

	if _, err := NewNullManager(WithMetrics(nil)); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("WithMetrics(nil) error = %v, want ErrInvalidConfig", err)
	}
}

func TestConfigIsCopied(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Context = compaction.DefaultConfig()

	mgr, err := NewSlidingWindowManager(cfg)
	if err != nil {
		t.Fatalf("NewSlidingWindowManager() error = %v", err)
	}

	cfg.Context.MaxTokens = 1
	if got := mgr.Config().Context.MaxTokens; got != compaction.DefaultMaxTokens {
		t.Errorf("Config().Context.MaxTokens = %d, want %d", got, compaction.DefaultMaxTokens)
	}

	got := mgr.Config()
	got.Context.MaxTokens = 2
	if mgr.Config().Context.MaxTokens != compaction.DefaultMaxTokens {
		t.Error("mutating Config() result should not affect the manager")
	}
}

func TestSharedRegistryAndCollectorCountOnce(t *testing.T) {
	registry := hooks.NewRegistry()
	collector := metrics.NewCollector("shared")
	promRegistry := prometheus.NewRegistry()
	if err := collector.Register(promRegistry); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	for i := 0; i < 2; i++ {
		if _, err := NewSlidingWindowManager(DefaultConfig(), WithHooks(registry), WithMetrics(collector)); err != nil {
			t.Fatalf("NewSlidingWindowManager() error = %v", err)
		}
	}

	mgr, err := NewNullManager(WithHooks(registry), WithMetrics(collector))
	if err != nil {
		t.Fatalf("NewNullManager() error = %v", err)
	}
	messages := testutil.Chat(2)
	_, _ = mgr.ReduceContext(context.Background(), &messages, "prompt is too long")

	families, err := promRegistry.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	var overflows float64
	for _, mf := range families {
		if mf.GetName() != "shared_context_overflows_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			overflows += m.GetCounter().GetValue()
		}
	}
	if overflows != 1 {
		t.Errorf("shared_context_overflows_total = %v, want 1", overflows)
	}
}
