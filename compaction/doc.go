// Package compaction keeps a conversation inside a model's context window.
//
// Token usage is estimated from character counts: text and thinking count
// their length, a tool use counts its compact JSON input plus a fixed
// overhead, and a tool result counts its nested payload. The estimate is
// compared against a safe limit of MaxTokens * BufferPercentage.
//
// # Strategies
//
//   - Priority (StrategyPriority): every message gets a Priority from its
//     role, its position and whether it carries tool content. Messages are
//     removed lowest priority first, oldest first within a tier.
//
//   - Sliding window (StrategySlidingWindow): the oldest messages are removed
//     first.
//
// Both strategies remove a message together with the messages holding the
// other half of its tool pairs, and neither goes below MinMessages.
//
// # Usage
//
//	cfg := compaction.DefaultConfig()
//	cfg.MaxTokens = 100000
//	mgr := compaction.New(cfg, logger)
//
//	if mgr.NeedsManagement(messages) {
//	    result, err := mgr.ManageContext(&messages)
//	    if err != nil {
//	        return err
//	    }
//	    log.Printf("context: %s", result)
//	}
package compaction
