package compaction

import (
	"github.com/youssefsiam38/agentctx/types"
)

// Priority ranks how important a message is to keep. Higher values are
// evicted later.
type Priority int

const (
	// PriorityLow is reserved for strategies that want an explicit bottom tier.
	PriorityLow Priority = iota
	// PriorityNormal is older general conversation.
	PriorityNormal
	// PriorityMedium is recent conversation or older tool interactions.
	PriorityMedium
	// PriorityHigh is recent user tool interactions.
	PriorityHigh
	// PriorityCritical is system content, never evicted before anything else.
	PriorityCritical
)

// String returns the priority name.
func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityNormal:
		return "normal"
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	case PriorityCritical:
		return "critical"
	}
	return "unknown"
}

// recentFraction is the share of the conversation, counted from the start,
// after which messages count as recent.
const recentFraction = 0.8

// AssignPriority ranks the message at index within a conversation of total
// messages.
func AssignPriority(msg *types.Message, index, total int) Priority {
	if msg.Role == types.RoleSystem {
		return PriorityCritical
	}

	recent := index >= int(float64(total)*recentFraction)
	hasTool := msg.HasToolUse() || msg.HasToolResult()

	switch {
	case recent && hasTool && msg.Role == types.RoleUser:
		return PriorityHigh
	case recent, hasTool:
		return PriorityMedium
	default:
		return PriorityNormal
	}
}
