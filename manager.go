package agentctx

import (
	"context"

	"github.com/youssefsiam38/agentctx/types"
)

// Manager keeps a conversation within its limits. Implementations mutate
// the caller's messages in place and hold no per-conversation state, so a
// single Manager may serve many conversations concurrently as long as each
// conversation is managed by one goroutine at a time.
type Manager interface {
	// ApplyManagement runs routine management after every event-loop cycle.
	// A conversation that needs nothing yields a result with ChangesMade
	// false and a nil error.
	ApplyManagement(ctx context.Context, messages *types.Messages) (*types.ManagementResult, error)

	// ReduceContext is called after the provider rejected a request for
	// exceeding its context window. providerErr is the provider's message.
	ReduceContext(ctx context.Context, messages *types.Messages, providerErr string) (*types.ManagementResult, error)

	// Config returns the manager's configuration.
	Config() Config

	// IsWithinLimits reports whether messages fit the message ceiling.
	IsWithinLimits(messages types.Messages) bool
}

var (
	_ Manager = (*SlidingWindowManager)(nil)
	_ Manager = (*NullManager)(nil)
)
