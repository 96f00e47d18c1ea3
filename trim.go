package agentctx

import (
	"github.com/youssefsiam38/agentctx/compaction"
	"github.com/youssefsiam38/agentctx/types"
)

// FindSafeTrimIndex returns how many of the oldest messages can be dropped
// to bring the conversation down to targetSize. With toolAware set, the
// index is adjusted so that no tool use is separated from its result; the
// conversation may then stay above targetSize. The index never removes
// every message of a non-empty conversation.
func FindSafeTrimIndex(messages types.Messages, targetSize int, toolAware bool) int {
	n := len(messages)
	if targetSize < 0 {
		targetSize = 0
	}
	if n <= targetSize {
		return 0
	}

	idx := n - targetSize
	if !toolAware {
		return min(idx, n)
	}

	pairs := compaction.NewPairIndex(messages)

walk:
	for idx < n {
		msg := messages[idx]

		if msg.HasToolResult() {
			// Keep any result whose use would be trimmed together with that use.
			earliest := idx
			for _, id := range msg.ToolResultIDs() {
				if use, ok := trimmedOnly(pairs.UseIndices(id), idx); ok && use < earliest {
					earliest = use
				}
			}
			if earliest < idx {
				idx = earliest
				break walk
			}
		}

		if msg.HasToolUse() && idx+1 < n {
			answered := make(map[string]bool)
			for _, id := range messages[idx+1].ToolResultIDs() {
				answered[id] = true
			}
			for _, id := range msg.ToolUseIDs() {
				if !answered[id] {
					idx++
					continue walk
				}
			}
		}

		break
	}

	if idx >= n {
		idx = n - 1
	}

	return retreatToPairBoundary(messages, pairs, idx)
}

// trimmedOnly reports the latest of indices below cut when none of them is
// at or after it.
func trimmedOnly(indices []int, cut int) (int, bool) {
	latest, found := -1, false
	for _, i := range indices {
		if i >= cut {
			return 0, false
		}
		if i > latest {
			latest, found = i, true
		}
	}
	return latest, found
}

// retreatToPairBoundary moves cut back until no tool pair has one half
// before it and the other half at or after it.
func retreatToPairBoundary(messages types.Messages, pairs *compaction.PairIndex, cut int) int {
	for moved := true; moved && cut > 0; {
		moved = false
		for i := cut; i < len(messages); i++ {
			for _, j := range pairs.Partners(i) {
				if j < cut {
					cut = j
					moved = true
				}
			}
		}
	}
	return cut
}

// TrimMessages drops the oldest messages so that at most targetSize remain,
// subject to FindSafeTrimIndex. It returns the number removed.
func TrimMessages(messages *types.Messages, targetSize int, toolAware bool) int {
	if len(*messages) <= targetSize {
		return 0
	}
	return messages.DropFront(FindSafeTrimIndex(*messages, targetSize, toolAware))
}
