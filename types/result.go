package types

// ManagementResult describes what a conversation management pass did.
// A pass that found nothing to do is not an error: ChangesMade is false.
type ManagementResult struct {
	ChangesMade     bool   `json:"changes_made"`
	MessagesRemoved int    `json:"messages_removed"`
	DanglingCleaned int    `json:"dangling_cleaned"`
	MessagesBefore  int    `json:"messages_before"`
	MessagesAfter   int    `json:"messages_after"`
	ContextManaged  bool   `json:"context_managed"`
	Description     string `json:"description"`
}

// NoChanges returns a result for a pass that left the conversation untouched.
func NoChanges(count int) *ManagementResult {
	return &ManagementResult{
		MessagesBefore: count,
		MessagesAfter:  count,
		Description:    "No conversation management needed",
	}
}
