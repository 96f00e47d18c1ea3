package compaction

import (
	"fmt"
	"time"

	"github.com/youssefsiam38/agentctx/logging"
	"github.com/youssefsiam38/agentctx/types"
)

// approachingPercent is the share of the safe limit at which a conversation
// counts as approaching it.
const approachingPercent = 90

// Result reports a context management pass.
type Result struct {
	// Before is the usage measured before reduction.
	Before Usage

	// After is the usage measured after reduction.
	After Usage

	// MessagesRemoved is the number of messages deleted.
	MessagesRemoved int

	// CharactersSaved is Before.CharacterCount minus After.CharacterCount.
	CharactersSaved int

	// ChangesMade reports whether any message was removed.
	ChangesMade bool

	// RemovedByPriority counts removed messages per priority tier.
	RemovedByPriority map[Priority]int

	// Strategy is the strategy that ran. Empty when nothing was needed.
	Strategy Strategy

	// Duration is how long the pass took.
	Duration time.Duration
}

// Manager estimates token usage and reduces conversations that outgrow the
// configured budget. It holds no mutable state and is safe for concurrent use.
type Manager struct {
	config  *Config
	logger  logging.Logger
	factory *StrategyFactory
}

// New creates a Manager. A nil config uses DefaultConfig; otherwise zero
// numeric fields are filled with defaults.
func New(config *Config, logger logging.Logger) *Manager {
	if config == nil {
		config = DefaultConfig()
	} else {
		c := *config
		c.ApplyDefaults()
		config = &c
	}
	logger = logging.OrNoop(logger)

	return &Manager{
		config:  config,
		logger:  logger,
		factory: NewStrategyFactory(config, logger),
	}
}

// Config returns a copy of the manager's configuration.
func (m *Manager) Config() Config {
	return *m.config
}

// MaxSafeTokens returns the token count reduction aims to stay under.
func (m *Manager) MaxSafeTokens() int {
	return m.config.SafeLimit()
}

// EstimateMessageTokens estimates the token cost of a single message.
func (m *Manager) EstimateMessageTokens(msg *types.Message) int {
	return estimateTokens(MessageChars(msg), m.config.CharsPerToken)
}

// AnalyzeUsage measures how much of the budget messages occupy.
func (m *Manager) AnalyzeUsage(messages types.Messages) Usage {
	breakdown := breakdownOf(messages)
	chars := breakdown.Total()
	tokens := estimateTokens(chars, m.config.CharsPerToken)
	safe := m.config.SafeLimit()

	return Usage{
		EstimatedTokens:  tokens,
		CharacterCount:   chars,
		MessageCount:     len(messages),
		Breakdown:        breakdown,
		UsagePercentage:  float64(tokens) / float64(m.config.MaxTokens) * 100,
		ApproachingLimit: tokens*100 > safe*approachingPercent,
		ExceedsSafeLimit: tokens > safe,
	}
}

// NeedsManagement reports whether messages should be reduced before the
// next request.
func (m *Manager) NeedsManagement(messages types.Messages) bool {
	if !m.config.EnableProactivePrevention {
		return false
	}
	usage := m.AnalyzeUsage(messages)
	return usage.ExceedsSafeLimit ||
		(usage.ApproachingLimit && usage.MessageCount > m.config.MinMessages)
}

// ManageContext reduces messages in place when they approach or exceed the
// safe limit. Under the limit it returns a result with ChangesMade false.
func (m *Manager) ManageContext(messages *types.Messages) (*Result, error) {
	if err := m.config.Validate(); err != nil {
		return nil, NewCompactionError("ManageContext", err)
	}

	start := time.Now()
	before := m.AnalyzeUsage(*messages)

	if !before.ApproachingLimit && !before.ExceedsSafeLimit {
		return &Result{
			Before:            before,
			After:             before,
			RemovedByPriority: map[Priority]int{},
			Duration:          time.Since(start),
		}, nil
	}

	executor := m.factory.Create()
	m.logger.Info("reducing context",
		"strategy", string(executor.Name()),
		"estimated_tokens", before.EstimatedTokens,
		"safe_limit", m.config.SafeLimit(),
		"messages", before.MessageCount,
	)

	sr, err := executor.Execute(messages)
	if err != nil {
		return nil, NewCompactionError("Execute", err).
			WithContext("strategy", executor.Name())
	}

	after := m.AnalyzeUsage(*messages)
	result := &Result{
		Before:            before,
		After:             after,
		MessagesRemoved:   sr.MessagesRemoved,
		CharactersSaved:   before.CharacterCount - after.CharacterCount,
		ChangesMade:       sr.MessagesRemoved > 0,
		RemovedByPriority: sr.RemovedByPriority,
		Strategy:          executor.Name(),
		Duration:          time.Since(start),
	}

	if after.ExceedsSafeLimit {
		m.logger.Warn("context still exceeds safe limit after reduction",
			"estimated_tokens", after.EstimatedTokens,
			"safe_limit", m.config.SafeLimit(),
			"messages", after.MessageCount,
		)
	}

	m.logger.Debug("context reduced",
		"removed", result.MessagesRemoved,
		"characters_saved", result.CharactersSaved,
		"tokens_before", before.EstimatedTokens,
		"tokens_after", after.EstimatedTokens,
	)

	return result, nil
}

// String summarizes the result for logs and descriptions.
func (r *Result) String() string {
	return fmt.Sprintf("%d messages removed, %d -> %d estimated tokens",
		r.MessagesRemoved, r.Before.EstimatedTokens, r.After.EstimatedTokens)
}
