package agentctx

import (
	"github.com/youssefsiam38/agentctx/compaction"
	"github.com/youssefsiam38/agentctx/types"
)

// RemoveDanglingMessages deletes every message whose content consists
// solely of unpaired tool blocks: tool uses nobody answered and tool
// results answering a use that is not in the conversation. Messages that
// mix such blocks with anything else are left untouched. It returns the
// number of messages removed.
func RemoveDanglingMessages(messages *types.Messages) int {
	pairs := compaction.NewPairIndex(*messages)

	var indices []int
	for i, msg := range *messages {
		if isDangling(msg, pairs) {
			indices = append(indices, i)
		}
	}

	return messages.RemoveIndices(indices)
}

func isDangling(msg *types.Message, pairs *compaction.PairIndex) bool {
	if len(msg.Content) == 0 {
		return false
	}
	for _, block := range msg.Content {
		switch block.Type {
		case types.ContentTypeToolUse:
			if pairs.HasResult(block.ToolUseID) {
				return false
			}
		case types.ContentTypeToolResult:
			if pairs.HasUse(block.ToolResultID) {
				return false
			}
		default:
			return false
		}
	}
	return true
}
