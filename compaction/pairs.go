package compaction

import (
	"sort"

	"github.com/youssefsiam38/agentctx/types"
)

// PairIndex records where each tool use and tool result id appears in a
// conversation so callers can keep a use and its result together.
type PairIndex struct {
	uses    map[string][]int
	results map[string][]int
	msgs    types.Messages
}

// NewPairIndex indexes the tool ids found in messages.
func NewPairIndex(messages types.Messages) *PairIndex {
	idx := &PairIndex{
		uses:    make(map[string][]int),
		results: make(map[string][]int),
		msgs:    messages,
	}
	for i, msg := range messages {
		for _, block := range msg.Content {
			switch block.Type {
			case types.ContentTypeToolUse:
				idx.uses[block.ToolUseID] = appendUnique(idx.uses[block.ToolUseID], i)
			case types.ContentTypeToolResult:
				idx.results[block.ToolResultID] = appendUnique(idx.results[block.ToolResultID], i)
			}
		}
	}
	return idx
}

func appendUnique(s []int, v int) []int {
	if n := len(s); n > 0 && s[n-1] == v {
		return s
	}
	return append(s, v)
}

// UseIndices returns the messages holding a tool use with the given id.
func (p *PairIndex) UseIndices(id string) []int {
	return p.uses[id]
}

// ResultIndices returns the messages holding a tool result for the given id.
func (p *PairIndex) ResultIndices(id string) []int {
	return p.results[id]
}

// HasUse reports whether any message holds a tool use with the given id.
func (p *PairIndex) HasUse(id string) bool {
	return len(p.uses[id]) > 0
}

// HasResult reports whether any message holds a tool result for the given id.
func (p *PairIndex) HasResult(id string) bool {
	return len(p.results[id]) > 0
}

// Partners returns the indices of messages holding the counterpart of any
// tool use or tool result in message i, excluding i itself.
func (p *PairIndex) Partners(i int) []int {
	seen := map[int]bool{i: true}
	var out []int
	add := func(indices []int) {
		for _, j := range indices {
			if !seen[j] {
				seen[j] = true
				out = append(out, j)
			}
		}
	}
	for _, block := range p.msgs[i].Content {
		switch block.Type {
		case types.ContentTypeToolUse:
			add(p.results[block.ToolUseID])
		case types.ContentTypeToolResult:
			add(p.uses[block.ToolResultID])
		}
	}
	sort.Ints(out)
	return out
}

// Group returns message i together with every message transitively linked
// to it by tool ids, in ascending order. Removing a whole group never
// leaves half of a tool pair behind.
func (p *PairIndex) Group(i int) []int {
	seen := map[int]bool{i: true}
	queue := []int{i}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, j := range p.Partners(cur) {
			if !seen[j] {
				seen[j] = true
				queue = append(queue, j)
			}
		}
	}
	group := make([]int, 0, len(seen))
	for j := range seen {
		group = append(group, j)
	}
	sort.Ints(group)
	return group
}
