package compaction

import (
	"fmt"
)

// Default configuration values.
const (
	DefaultMaxTokens                 = 200000 // Claude Sonnet context window
	DefaultBufferPercentage          = 0.85   // Stay under 85% of MaxTokens
	DefaultCharsPerToken             = 4.0    // Conservative estimate for English text
	DefaultEnableProactivePrevention = true
	DefaultEnablePriorityRetention   = true
	DefaultMinMessages               = 2 // Always keep at least 2 messages
)

// Config holds context management configuration.
type Config struct {
	// MaxTokens is the estimated token budget of the model's context window.
	// Default: 200000
	MaxTokens int `yaml:"max_tokens"`

	// BufferPercentage is the fraction of MaxTokens considered safe (0.0-1.0].
	// The product of both is the safe limit that reduction aims for.
	// Default: 0.85
	BufferPercentage float64 `yaml:"buffer_percentage"`

	// CharsPerToken is the character-to-token ratio used for estimation.
	// Default: 4.0
	CharsPerToken float64 `yaml:"chars_per_token"`

	// EnableProactivePrevention lets NeedsManagement report true before the
	// provider rejects a request. When false, NeedsManagement is always false.
	// Default: true
	EnableProactivePrevention bool `yaml:"enable_proactive_prevention"`

	// EnablePriorityRetention selects priority-based eviction. When false the
	// oldest messages are dropped first.
	// Default: true
	EnablePriorityRetention bool `yaml:"enable_priority_retention"`

	// MinMessages is the floor no reduction will go below.
	// Default: 2
	MinMessages int `yaml:"min_messages"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		MaxTokens:                 DefaultMaxTokens,
		BufferPercentage:          DefaultBufferPercentage,
		CharsPerToken:             DefaultCharsPerToken,
		EnableProactivePrevention: DefaultEnableProactivePrevention,
		EnablePriorityRetention:   DefaultEnablePriorityRetention,
		MinMessages:               DefaultMinMessages,
	}
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if c.MaxTokens <= 0 {
		return fmt.Errorf("%w: max_tokens must be positive, got %d", ErrInvalidConfig, c.MaxTokens)
	}

	if c.BufferPercentage <= 0 || c.BufferPercentage > 1.0 {
		return fmt.Errorf("%w: buffer_percentage must be between 0 and 1, got %f", ErrInvalidConfig, c.BufferPercentage)
	}

	if c.CharsPerToken <= 0 {
		return fmt.Errorf("%w: chars_per_token must be positive, got %f", ErrInvalidConfig, c.CharsPerToken)
	}

	if c.MinMessages < 0 {
		return fmt.Errorf("%w: min_messages must be non-negative, got %d", ErrInvalidConfig, c.MinMessages)
	}

	return nil
}

// ApplyDefaults fills in zero values with defaults.
func (c *Config) ApplyDefaults() {
	if c.MaxTokens == 0 {
		c.MaxTokens = DefaultMaxTokens
	}
	if c.BufferPercentage == 0 {
		c.BufferPercentage = DefaultBufferPercentage
	}
	if c.CharsPerToken == 0 {
		c.CharsPerToken = DefaultCharsPerToken
	}
	// The booleans and MinMessages are meaningful at their zero values.
}

// SafeLimit returns the estimated token count reduction aims to stay under.
func (c *Config) SafeLimit() int {
	return int(float64(c.MaxTokens) * c.BufferPercentage)
}
