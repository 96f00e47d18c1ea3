package compaction

import (
	"sort"
	"time"

	"github.com/youssefsiam38/agentctx/logging"
	"github.com/youssefsiam38/agentctx/types"
)

// Strategy represents a context reduction strategy.
type Strategy string

const (
	// StrategyPriority evicts the lowest-priority, oldest messages first.
	StrategyPriority Strategy = "priority"

	// StrategySlidingWindow evicts the oldest messages first.
	StrategySlidingWindow Strategy = "sliding_window"
)

// StrategyExecutor defines the interface for reduction strategy implementations.
type StrategyExecutor interface {
	// Name returns the strategy name.
	Name() Strategy

	// Execute removes messages in place until the conversation fits the
	// safe limit or the message floor is reached.
	Execute(messages *types.Messages) (*StrategyResult, error)
}

// StrategyResult contains the result of executing a reduction strategy.
type StrategyResult struct {
	// MessagesRemoved is the number of messages deleted.
	MessagesRemoved int

	// RemovedByPriority counts removed messages per priority tier.
	RemovedByPriority map[Priority]int

	// Duration is how long the strategy execution took.
	Duration time.Duration
}

// StrategyFactory creates strategy executors based on configuration.
type StrategyFactory struct {
	config *Config
	logger logging.Logger
}

// NewStrategyFactory creates a new strategy factory.
func NewStrategyFactory(config *Config, logger logging.Logger) *StrategyFactory {
	return &StrategyFactory{
		config: config,
		logger: logging.OrNoop(logger),
	}
}

// Create returns the strategy executor selected by the configuration.
func (f *StrategyFactory) Create() StrategyExecutor {
	if f.config.EnablePriorityRetention {
		return NewPriorityStrategy(f.config, f.logger)
	}
	return NewSlidingWindowStrategy(f.config, f.logger)
}

// budget tracks the estimated size of the messages that survive a reduction.
type budget struct {
	config    *Config
	msgChars  []int
	remaining int
	kept      int
}

func newBudget(config *Config, messages types.Messages) *budget {
	b := &budget{config: config, msgChars: make([]int, len(messages)), kept: len(messages)}
	for i, msg := range messages {
		b.msgChars[i] = MessageChars(msg)
		b.remaining += b.msgChars[i]
	}
	return b
}

func (b *budget) withinTarget() bool {
	return estimateTokens(b.remaining, b.config.CharsPerToken) <= b.config.SafeLimit()
}

// fits reports whether removing n more messages keeps the floor.
func (b *budget) fits(n int) bool {
	return b.kept-n >= b.config.MinMessages
}

func (b *budget) remove(i int) {
	b.remaining -= b.msgChars[i]
	b.kept--
}

// PriorityStrategy removes messages in ascending (priority, index) order.
type PriorityStrategy struct {
	config *Config
	logger logging.Logger
}

// NewPriorityStrategy creates a new priority-based strategy.
func NewPriorityStrategy(config *Config, logger logging.Logger) *PriorityStrategy {
	return &PriorityStrategy{config: config, logger: logging.OrNoop(logger)}
}

// Name returns the strategy name.
func (s *PriorityStrategy) Name() Strategy {
	return StrategyPriority
}

type rankedMessage struct {
	index    int
	priority Priority
}

// Execute performs priority-based reduction. A message is removed together
// with the messages holding its tool counterparts; a group that would cross
// the floor is skipped and smaller candidates are still tried.
func (s *PriorityStrategy) Execute(messages *types.Messages) (*StrategyResult, error) {
	start := time.Now()
	msgs := *messages
	total := len(msgs)

	ranked := make([]rankedMessage, total)
	priorities := make([]Priority, total)
	for i, msg := range msgs {
		priorities[i] = AssignPriority(msg, i, total)
		ranked[i] = rankedMessage{index: i, priority: priorities[i]}
	}
	sort.Slice(ranked, func(a, b int) bool {
		if ranked[a].priority != ranked[b].priority {
			return ranked[a].priority < ranked[b].priority
		}
		return ranked[a].index < ranked[b].index
	})

	pairs := NewPairIndex(msgs)
	b := newBudget(s.config, msgs)
	removed := make(map[int]bool)
	byPriority := make(map[Priority]int)

	for _, candidate := range ranked {
		if b.withinTarget() {
			break
		}
		if removed[candidate.index] {
			continue
		}

		var group []int
		for _, i := range pairs.Group(candidate.index) {
			if !removed[i] {
				group = append(group, i)
			}
		}
		if !b.fits(len(group)) {
			s.logger.Debug("group skipped at message floor",
				"index", candidate.index,
				"group_size", len(group),
				"min_messages", s.config.MinMessages,
			)
			continue
		}

		for _, i := range group {
			removed[i] = true
			b.remove(i)
			byPriority[priorities[i]]++
		}
	}

	indices := make([]int, 0, len(removed))
	for i := range removed {
		indices = append(indices, i)
	}
	n := messages.RemoveIndices(indices)

	return &StrategyResult{
		MessagesRemoved:   n,
		RemovedByPriority: byPriority,
		Duration:          time.Since(start),
	}, nil
}

// SlidingWindowStrategy removes the oldest messages first.
type SlidingWindowStrategy struct {
	config *Config
	logger logging.Logger
}

// NewSlidingWindowStrategy creates a new oldest-first strategy.
func NewSlidingWindowStrategy(config *Config, logger logging.Logger) *SlidingWindowStrategy {
	return &SlidingWindowStrategy{config: config, logger: logging.OrNoop(logger)}
}

// Name returns the strategy name.
func (s *SlidingWindowStrategy) Name() Strategy {
	return StrategySlidingWindow
}

// Execute drops the oldest message, with its tool counterparts, until the
// conversation fits or nothing more can go without crossing the floor.
// A group too large for the floor is skipped in favor of newer messages.
func (s *SlidingWindowStrategy) Execute(messages *types.Messages) (*StrategyResult, error) {
	start := time.Now()
	msgs := *messages
	total := len(msgs)

	pairs := NewPairIndex(msgs)
	b := newBudget(s.config, msgs)
	removed := make(map[int]bool)
	byPriority := make(map[Priority]int)

	for oldest := 0; oldest < total && !b.withinTarget(); oldest++ {
		if removed[oldest] {
			continue
		}

		var group []int
		for _, i := range pairs.Group(oldest) {
			if !removed[i] {
				group = append(group, i)
			}
		}
		if !b.fits(len(group)) {
			s.logger.Debug("group skipped at message floor",
				"index", oldest,
				"group_size", len(group),
				"min_messages", s.config.MinMessages,
			)
			continue
		}

		for _, i := range group {
			removed[i] = true
			b.remove(i)
			byPriority[AssignPriority(msgs[i], i, total)]++
		}
	}

	indices := make([]int, 0, len(removed))
	for i := range removed {
		indices = append(indices, i)
	}
	n := messages.RemoveIndices(indices)

	return &StrategyResult{
		MessagesRemoved:   n,
		RemovedByPriority: byPriority,
		Duration:          time.Since(start),
	}, nil
}
