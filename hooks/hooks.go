package hooks

import (
	"context"
	"sync"

	"github.com/youssefsiam38/agentctx/compaction"
	"github.com/youssefsiam38/agentctx/types"
)

// BeforeManagementHook is called before routine management runs on a conversation
type BeforeManagementHook func(ctx context.Context, messages types.Messages) error

// AfterManagementHook is called after routine management finishes
type AfterManagementHook func(ctx context.Context, result *types.ManagementResult) error

// ContextManagedHook is called after the token-budget reduction ran
type ContextManagedHook func(ctx context.Context, result *compaction.Result) error

// ContextOverflowHook is called when the provider reported a context overflow
// Parameters: ctx, provider error text, messages before reduction
type ContextOverflowHook func(ctx context.Context, providerErr string, messages types.Messages) error

// AfterContextReductionHook is called after an overflow reduction finishes
type AfterContextReductionHook func(ctx context.Context, result *types.ManagementResult) error

// Registry holds all registered hooks
type Registry struct {
	mu                    sync.RWMutex
	beforeManagement      []BeforeManagementHook
	afterManagement       []AfterManagementHook
	contextManaged        []ContextManagedHook
	contextOverflow       []ContextOverflowHook
	afterContextReduction []AfterContextReductionHook
}

// NewRegistry creates a new hook registry
func NewRegistry() *Registry {
	return &Registry{
		beforeManagement:      []BeforeManagementHook{},
		afterManagement:       []AfterManagementHook{},
		contextManaged:        []ContextManagedHook{},
		contextOverflow:       []ContextOverflowHook{},
		afterContextReduction: []AfterContextReductionHook{},
	}
}

// OnBeforeManagement registers a hook to be called before routine management
func (r *Registry) OnBeforeManagement(hook BeforeManagementHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.beforeManagement = append(r.beforeManagement, hook)
}

// OnAfterManagement registers a hook to be called after routine management
func (r *Registry) OnAfterManagement(hook AfterManagementHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.afterManagement = append(r.afterManagement, hook)
}

// OnContextManaged registers a hook to be called after token-budget reduction
func (r *Registry) OnContextManaged(hook ContextManagedHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.contextManaged = append(r.contextManaged, hook)
}

// OnContextOverflow registers a hook to be called on provider overflow
func (r *Registry) OnContextOverflow(hook ContextOverflowHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.contextOverflow = append(r.contextOverflow, hook)
}

// OnAfterContextReduction registers a hook to be called after overflow reduction
func (r *Registry) OnAfterContextReduction(hook AfterContextReductionHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.afterContextReduction = append(r.afterContextReduction, hook)
}

// TriggerBeforeManagement calls all registered before-management hooks
func (r *Registry) TriggerBeforeManagement(ctx context.Context, messages types.Messages) error {
	r.mu.RLock()
	hooks := make([]BeforeManagementHook, len(r.beforeManagement))
	copy(hooks, r.beforeManagement)
	r.mu.RUnlock()

	for _, hook := range hooks {
		if err := hook(ctx, messages); err != nil {
			return err
		}
	}
	return nil
}

// TriggerAfterManagement calls all registered after-management hooks
func (r *Registry) TriggerAfterManagement(ctx context.Context, result *types.ManagementResult) error {
	r.mu.RLock()
	hooks := make([]AfterManagementHook, len(r.afterManagement))
	copy(hooks, r.afterManagement)
	r.mu.RUnlock()

	for _, hook := range hooks {
		if err := hook(ctx, result); err != nil {
			return err
		}
	}
	return nil
}

// TriggerContextManaged calls all registered context-managed hooks
func (r *Registry) TriggerContextManaged(ctx context.Context, result *compaction.Result) error {
	r.mu.RLock()
	hooks := make([]ContextManagedHook, len(r.contextManaged))
	copy(hooks, r.contextManaged)
	r.mu.RUnlock()

	for _, hook := range hooks {
		if err := hook(ctx, result); err != nil {
			return err
		}
	}
	return nil
}

// TriggerContextOverflow calls all registered context-overflow hooks
func (r *Registry) TriggerContextOverflow(ctx context.Context, providerErr string, messages types.Messages) error {
	r.mu.RLock()
	hooks := make([]ContextOverflowHook, len(r.contextOverflow))
	copy(hooks, r.contextOverflow)
	r.mu.RUnlock()

	for _, hook := range hooks {
		if err := hook(ctx, providerErr, messages); err != nil {
			return err
		}
	}
	return nil
}

// TriggerAfterContextReduction calls all registered after-reduction hooks
func (r *Registry) TriggerAfterContextReduction(ctx context.Context, result *types.ManagementResult) error {
	r.mu.RLock()
	hooks := make([]AfterContextReductionHook, len(r.afterContextReduction))
	copy(hooks, r.afterContextReduction)
	r.mu.RUnlock()

	for _, hook := range hooks {
		if err := hook(ctx, result); err != nil {
			return err
		}
	}
	return nil
}
