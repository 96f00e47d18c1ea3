// Package agentctx keeps the conversation of a tool-using LLM agent inside
// its limits.
//
// An agent's event loop owns a conversation as a types.Messages value and
// hands it to a Manager at two points:
//
//   - After every cycle, ApplyManagement removes messages made only of
//     unpaired tool blocks, reduces the conversation to its estimated token
//     budget, and trims the oldest messages down to the message ceiling.
//   - After the provider rejects a request as too long, ReduceContext trims
//     harder, to three quarters of the ceiling.
//
// Both mutate the conversation in place and describe what they did in a
// ManagementResult.
//
// # Quick Start
//
//	mgr, err := agentctx.NewSlidingWindowManager(agentctx.DefaultConfig(),
//	    agentctx.WithZap(zapLogger),
//	)
//	if err != nil {
//	    return err
//	}
//
//	for {
//	    // ... call the model, run tools, append messages ...
//	    if _, err := mgr.ApplyManagement(ctx, &messages); err != nil {
//	        return err
//	    }
//	}
//
// On a context overflow reported by the provider:
//
//	result, err := mgr.ReduceContext(ctx, &messages, apiErr.Error())
//
// # Tool Pairing
//
// Providers reject a conversation in which a tool result has no matching
// tool use. With EnableToolAwarePruning set, trimming picks a cut point that
// keeps every tool use on the same side as its result, and token-budget
// reduction removes a message together with its tool counterparts.
//
// # Null Manager
//
// NullManager never changes a conversation. Its ReduceContext returns an
// error matching ErrContextOverflow, for callers that treat overflow as
// fatal.
//
// # Hooks and Metrics
//
// Management activity is reported through a hooks.Registry passed with
// WithHooks. WithMetrics attaches a Prometheus metrics.Collector to it.
package agentctx
