package agentctx

import (
	"context"
	"fmt"
	"math"

	"github.com/youssefsiam38/agentctx/hooks"
	"github.com/youssefsiam38/agentctx/logging"
	"github.com/youssefsiam38/agentctx/types"
)

// NullManager never modifies a conversation. Routine management is a no-op
// and a context overflow is reported as an error, for callers that treat
// overflow as fatal.
type NullManager struct {
	config Config
	logger logging.Logger
	hooks  *hooks.Registry
}

// NewNullManager creates a NullManager.
func NewNullManager(opts ...Option) (*NullManager, error) {
	ic, err := newInternalConfig(opts)
	if err != nil {
		return nil, err
	}

	return &NullManager{
		config: Config{MaxMessages: math.MaxInt},
		logger: ic.logger,
		hooks:  ic.hooks,
	}, nil
}

// ApplyManagement leaves messages untouched.
func (m *NullManager) ApplyManagement(ctx context.Context, messages *types.Messages) (*types.ManagementResult, error) {
	m.logger.Debug("null manager: no management applied", "messages", len(*messages))
	return types.NoChanges(len(*messages)), nil
}

// ReduceContext always fails with ErrContextOverflow. The error also
// matches ErrInvalidConfig: the manager was configured to remove nothing.
func (m *NullManager) ReduceContext(ctx context.Context, messages *types.Messages, providerErr string) (*types.ManagementResult, error) {
	if err := m.hooks.TriggerContextOverflow(ctx, providerErr, *messages); err != nil {
		m.logger.Warn("context overflow hook failed", "error", err)
	}

	reason := providerErr
	if reason == "" {
		reason = "unknown overflow error"
	}

	return nil, NewError("ReduceContext", fmt.Errorf("%w: %w: %s", ErrInvalidConfig, ErrContextOverflow, reason)).
		WithContext("provider_error", providerErr).
		WithContext("messages", len(*messages))
}

// Config returns the manager's configuration, which imposes no limits.
func (m *NullManager) Config() Config {
	return m.config
}

// IsWithinLimits always reports true.
func (m *NullManager) IsWithinLimits(messages types.Messages) bool {
	return len(messages) <= m.config.MaxMessages
}
