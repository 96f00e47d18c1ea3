package agentctx

import (
	"context"
	"fmt"

	"github.com/youssefsiam38/agentctx/compaction"
	"github.com/youssefsiam38/agentctx/hooks"
	"github.com/youssefsiam38/agentctx/logging"
	"github.com/youssefsiam38/agentctx/processor"
	"github.com/youssefsiam38/agentctx/types"
)

// SlidingWindowManager keeps the most recent messages of a conversation.
// It enforces a message ceiling and, when context management is enabled,
// an estimated token budget. Trimming never separates a tool use from its
// result when tool-aware pruning is enabled.
type SlidingWindowManager struct {
	config     Config
	ctxManager *compaction.Manager
	processor  *processor.Processor
	logger     logging.Logger
	hooks      *hooks.Registry
}

// NewSlidingWindowManager creates a SlidingWindowManager.
func NewSlidingWindowManager(cfg Config, opts ...Option) (*SlidingWindowManager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, NewError("NewSlidingWindowManager", err)
	}

	ic, err := newInternalConfig(opts)
	if err != nil {
		return nil, err
	}

	if cfg.Context != nil {
		c := *cfg.Context
		cfg.Context = &c
	}

	m := &SlidingWindowManager{
		config:    cfg,
		processor: processor.New(ic.logger),
		logger:    ic.logger,
		hooks:     ic.hooks,
	}
	if cfg.EnableContextManagement {
		m.ctxManager = compaction.New(cfg.Context, ic.logger)
	}

	return m, nil
}

// NewSlidingWindowManagerWithSize creates a SlidingWindowManager with the
// default configuration and a ceiling of windowSize messages.
func NewSlidingWindowManagerWithSize(windowSize int, opts ...Option) (*SlidingWindowManager, error) {
	cfg := DefaultConfig()
	cfg.MaxMessages = windowSize
	return NewSlidingWindowManager(cfg, opts...)
}

// Config returns the manager's configuration.
func (m *SlidingWindowManager) Config() Config {
	cfg := m.config
	if cfg.Context != nil {
		c := *cfg.Context
		cfg.Context = &c
	}
	return cfg
}

// IsWithinLimits reports whether messages fit the message ceiling.
func (m *SlidingWindowManager) IsWithinLimits(messages types.Messages) bool {
	return len(messages) <= m.config.MaxMessages
}

// ContextManager returns the token-budget manager, or nil when context
// management is disabled.
func (m *SlidingWindowManager) ContextManager() *compaction.Manager {
	return m.ctxManager
}

// ApplyManagement cleans dangling tool messages, reduces the conversation to
// the token budget when it approaches it, and trims the oldest messages down
// to the ceiling. A failing token-budget reduction is logged and left to the
// trim.
func (m *SlidingWindowManager) ApplyManagement(ctx context.Context, messages *types.Messages) (*types.ManagementResult, error) {
	if err := m.hooks.TriggerBeforeManagement(ctx, *messages); err != nil {
		m.logger.Warn("before management hook failed", "error", err)
	}

	result := &types.ManagementResult{MessagesBefore: len(*messages)}

	if m.config.AutoCleanDangling {
		result.DanglingCleaned = RemoveDanglingMessages(messages)
		if result.DanglingCleaned > 0 {
			m.logger.Debug("removed dangling messages", "count", result.DanglingCleaned)
		}
	}

	if m.ctxManager != nil && m.ctxManager.NeedsManagement(*messages) {
		m.logger.Debug("context management needed", "messages", len(*messages))

		cr, err := m.ctxManager.ManageContext(messages)
		if err != nil {
			m.logger.Warn("context management failed, falling back to message limits", "error", err)
		} else if cr.ChangesMade {
			result.MessagesRemoved += cr.MessagesRemoved
			result.ContextManaged = true
			if err := m.hooks.TriggerContextManaged(ctx, cr); err != nil {
				m.logger.Warn("context managed hook failed", "error", err)
			}
		}
	}

	if !m.IsWithinLimits(*messages) {
		removed := TrimMessages(messages, m.config.MaxMessages, m.config.EnableToolAwarePruning)
		if removed > 0 {
			m.logger.Info("trimmed messages", "count", removed, "max_messages", m.config.MaxMessages)
		}
		result.MessagesRemoved += removed
	}

	result.MessagesAfter = len(*messages)
	result.ChangesMade = result.MessagesRemoved > 0 || result.DanglingCleaned > 0
	result.Description = managementDescription(result)

	if err := m.hooks.TriggerAfterManagement(ctx, result); err != nil {
		m.logger.Warn("after management hook failed", "error", err)
	}

	return result, nil
}

func managementDescription(r *types.ManagementResult) string {
	if !r.ChangesMade {
		return "Conversation within limits, no management needed"
	}
	mode := ""
	if r.ContextManaged {
		mode = " (context-aware)"
	}
	return fmt.Sprintf("Applied sliding window management%s: removed %d messages, cleaned %d dangling messages",
		mode, r.MessagesRemoved, r.DanglingCleaned)
}

// ReduceContext shrinks the conversation after a provider overflow: it
// cleans dangling and abandoned empty tool calls, then trims to three
// quarters of the ceiling. When nothing can be trimmed, the most recent tool
// results are truncated instead.
func (m *SlidingWindowManager) ReduceContext(ctx context.Context, messages *types.Messages, providerErr string) (*types.ManagementResult, error) {
	if err := m.hooks.TriggerContextOverflow(ctx, providerErr, *messages); err != nil {
		m.logger.Warn("context overflow hook failed", "error", err)
	}
	m.logger.Warn("reducing context after overflow", "error", providerErr, "messages", len(*messages))

	result := &types.ManagementResult{MessagesBefore: len(*messages)}
	target := m.config.MaxMessages * 3 / 4

	if m.config.AutoCleanDangling {
		result.DanglingCleaned = RemoveDanglingMessages(messages)
	}

	orphans := m.processor.CleanOrphanedEmptyToolUses(messages)
	if orphans.ChangesMade {
		m.logger.Info("cleaned orphaned tool uses during context reduction", "count", orphans.ItemsProcessed)
	}

	result.MessagesRemoved = TrimMessages(messages, target, m.config.EnableToolAwarePruning)

	truncated := false
	if result.MessagesRemoved == 0 && result.DanglingCleaned == 0 {
		tr, err := m.processor.TruncateLastToolResults(messages)
		if err != nil {
			m.logger.Warn("tool result truncation failed", "error", err)
		} else {
			truncated = tr.ChangesMade
		}
	}

	result.MessagesAfter = len(*messages)
	result.ChangesMade = result.MessagesAfter != result.MessagesBefore || orphans.ChangesMade || truncated
	result.Description = fmt.Sprintf("Context reduction: removed %d messages, cleaned %d dangling",
		result.MessagesRemoved, result.DanglingCleaned)
	if truncated {
		result.Description += ", truncated latest tool results"
	}

	if result.ChangesMade {
		m.logger.Info("context reduced",
			"before", result.MessagesBefore,
			"after", result.MessagesAfter,
			"removed", result.MessagesRemoved,
			"dangling", result.DanglingCleaned,
		)
	} else {
		m.logger.Warn("context reduction made no changes, conversation may still be too large")
	}

	if err := m.hooks.TriggerAfterContextReduction(ctx, result); err != nil {
		m.logger.Warn("after context reduction hook failed", "error", err)
	}

	return result, nil
}
