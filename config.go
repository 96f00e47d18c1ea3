package agentctx

import (
	"fmt"

	"github.com/youssefsiam38/agentctx/compaction"
	"gopkg.in/yaml.v3"
)

// Default configuration values
const (
	DefaultMaxMessages             = 40
	DefaultEnableToolAwarePruning  = true
	DefaultAutoCleanDangling       = true
	DefaultEnableContextManagement = true
)

// Config holds the conversation management policy.
//
// Example:
//
//	cfg := agentctx.DefaultConfig()
//	cfg.MaxMessages = 60
//	mgr, err := agentctx.NewSlidingWindowManager(cfg)
type Config struct {
	// MaxMessages is the message count ceiling enforced after every cycle.
	// Overflow reduction trims to three quarters of it.
	MaxMessages int `yaml:"max_messages"`

	// EnableToolAwarePruning keeps tool uses and their results on the same
	// side of every trim.
	EnableToolAwarePruning bool `yaml:"enable_tool_aware_pruning"`

	// AutoCleanDangling removes messages made only of unpaired tool blocks
	// before every management pass.
	AutoCleanDangling bool `yaml:"auto_clean_dangling"`

	// EnableContextManagement runs token-budget reduction when the
	// conversation approaches the context window.
	EnableContextManagement bool `yaml:"enable_context_management"`

	// Context configures token-budget reduction. Nil uses compaction defaults.
	Context *compaction.Config `yaml:"context,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxMessages:             DefaultMaxMessages,
		EnableToolAwarePruning:  DefaultEnableToolAwarePruning,
		AutoCleanDangling:       DefaultAutoCleanDangling,
		EnableContextManagement: DefaultEnableContextManagement,
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.MaxMessages <= 0 {
		return fmt.Errorf("%w: max_messages must be positive, got %d", ErrInvalidConfig, c.MaxMessages)
	}

	if c.Context != nil {
		if err := c.Context.Validate(); err != nil {
			return fmt.Errorf("%w: context: %w", ErrInvalidConfig, err)
		}
	}

	return nil
}

// ParseConfig decodes a YAML policy. Keys absent from data keep their
// DefaultConfig and compaction.DefaultConfig values.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	cfg.Context = compaction.DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
