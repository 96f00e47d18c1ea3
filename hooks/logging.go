package hooks

import (
	"context"

	"github.com/youssefsiam38/agentctx/compaction"
	"github.com/youssefsiam38/agentctx/logging"
	"github.com/youssefsiam38/agentctx/types"
)

// LoggingHooks provides built-in logging hooks for observability
type LoggingHooks struct {
	logger logging.Logger
}

// NewLoggingHooks creates logging hooks with the provided logger
func NewLoggingHooks(logger logging.Logger) *LoggingHooks {
	return &LoggingHooks{logger: logging.OrNoop(logger)}
}

// Attach registers every logging hook on r
func (h *LoggingHooks) Attach(r *Registry) {
	r.OnBeforeManagement(h.BeforeManagement)
	r.OnAfterManagement(h.AfterManagement)
	r.OnContextManaged(h.ContextManaged)
	r.OnContextOverflow(h.ContextOverflow)
	r.OnAfterContextReduction(h.AfterContextReduction)
}

// BeforeManagement logs the conversation size before management
func (h *LoggingHooks) BeforeManagement(ctx context.Context, messages types.Messages) error {
	h.logger.Debug("managing conversation", "messages", len(messages))
	return nil
}

// AfterManagement logs the outcome of routine management
func (h *LoggingHooks) AfterManagement(ctx context.Context, result *types.ManagementResult) error {
	if !result.ChangesMade {
		return nil
	}
	h.logger.Info("conversation managed",
		"before", result.MessagesBefore,
		"after", result.MessagesAfter,
		"removed", result.MessagesRemoved,
		"dangling", result.DanglingCleaned,
		"context_managed", result.ContextManaged,
	)
	return nil
}

// ContextManaged logs token-budget reduction
func (h *LoggingHooks) ContextManaged(ctx context.Context, result *compaction.Result) error {
	reduction := float64(0)
	if result.Before.EstimatedTokens > 0 {
		reduction = float64(result.Before.EstimatedTokens-result.After.EstimatedTokens) /
			float64(result.Before.EstimatedTokens) * 100
	}

	h.logger.Info("context reduced",
		"strategy", string(result.Strategy),
		"tokens_before", result.Before.EstimatedTokens,
		"tokens_after", result.After.EstimatedTokens,
		"reduction_pct", reduction,
		"removed", result.MessagesRemoved,
	)
	return nil
}

// ContextOverflow logs a provider overflow report
func (h *LoggingHooks) ContextOverflow(ctx context.Context, providerErr string, messages types.Messages) error {
	h.logger.Warn("context overflow reported", "error", providerErr, "messages", len(messages))
	return nil
}

// AfterContextReduction logs the outcome of an overflow reduction
func (h *LoggingHooks) AfterContextReduction(ctx context.Context, result *types.ManagementResult) error {
	h.logger.Info("context overflow reduced",
		"before", result.MessagesBefore,
		"after", result.MessagesAfter,
		"description", result.Description,
	)
	return nil
}

// VerboseLoggingHooks provides detailed logging for debugging
type VerboseLoggingHooks struct {
	logger logging.Logger
}

// NewVerboseLoggingHooks creates verbose logging hooks
func NewVerboseLoggingHooks(logger logging.Logger) *VerboseLoggingHooks {
	return &VerboseLoggingHooks{logger: logging.OrNoop(logger)}
}

// Attach registers the verbose hooks on r
func (h *VerboseLoggingHooks) Attach(r *Registry) {
	r.OnBeforeManagement(h.BeforeManagement)
	r.OnContextManaged(h.ContextManaged)
}

// BeforeManagement logs every message's role and block types
func (h *VerboseLoggingHooks) BeforeManagement(ctx context.Context, messages types.Messages) error {
	for i, msg := range messages {
		blockTypes := make([]string, len(msg.Content))
		for j, block := range msg.Content {
			blockTypes[j] = string(block.Type)
		}
		h.logger.Debug("message",
			"index", i,
			"role", string(msg.Role),
			"blocks", blockTypes,
		)
	}
	return nil
}

// ContextManaged logs removals per priority tier
func (h *VerboseLoggingHooks) ContextManaged(ctx context.Context, result *compaction.Result) error {
	for priority, n := range result.RemovedByPriority {
		h.logger.Debug("removed by priority", "priority", priority.String(), "count", n)
	}
	h.logger.Debug("content breakdown after reduction",
		"text_chars", result.After.Breakdown.TextChars,
		"tool_use_chars", result.After.Breakdown.ToolUseChars,
		"tool_result_chars", result.After.Breakdown.ToolResultChars,
		"thinking_chars", result.After.Breakdown.ThinkingChars,
		"duration", result.Duration,
	)
	return nil
}
