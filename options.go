package agentctx

import (
	"github.com/youssefsiam38/agentctx/hooks"
	"github.com/youssefsiam38/agentctx/logging"
	"github.com/youssefsiam38/agentctx/metrics"
	"go.uber.org/zap"
)

// Option is a functional option for configuring a Manager
type Option func(*internalConfig) error

// internalConfig collects the collaborators injected through options
type internalConfig struct {
	logger  logging.Logger
	hooks   *hooks.Registry
	metrics *metrics.Collector
}

func newInternalConfig(opts []Option) (*internalConfig, error) {
	c := &internalConfig{}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	c.logger = logging.OrNoop(c.logger)
	if c.hooks == nil {
		c.hooks = hooks.NewRegistry()
	}
	if c.metrics != nil {
		c.metrics.Attach(c.hooks)
	}
	return c, nil
}

// WithLogger sets the logger used by the manager and its collaborators
func WithLogger(logger logging.Logger) Option {
	return func(c *internalConfig) error {
		c.logger = logger
		return nil
	}
}

// WithZap logs through a zap logger
func WithZap(logger *zap.Logger) Option {
	return func(c *internalConfig) error {
		c.logger = logging.NewZap(logger)
		return nil
	}
}

// WithHooks sets the hook registry notified of management activity
func WithHooks(registry *hooks.Registry) Option {
	return func(c *internalConfig) error {
		if registry == nil {
			return NewError("WithHooks", ErrInvalidConfig).
				WithContext("reason", "hook registry must not be nil")
		}
		c.hooks = registry
		return nil
	}
}

// WithMetrics feeds management activity into a Prometheus collector.
// The collector is attached to the manager's hook registry once; managers
// sharing a registry and a collector record each event a single time.
func WithMetrics(collector *metrics.Collector) Option {
	return func(c *internalConfig) error {
		if collector == nil {
			return NewError("WithMetrics", ErrInvalidConfig).
				WithContext("reason", "collector must not be nil")
		}
		c.metrics = collector
		return nil
	}
}
