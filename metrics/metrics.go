// Package metrics exports conversation management activity as Prometheus
// metrics. A Collector is fed through a hooks.Registry.
package metrics

import (
	"context"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/youssefsiam38/agentctx/compaction"
	"github.com/youssefsiam38/agentctx/hooks"
	"github.com/youssefsiam38/agentctx/types"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "agentctx"

// Pass labels distinguish routine management from overflow reduction.
const (
	PassManagement = "management"
	PassOverflow   = "overflow"
)

// Collector holds the management metrics.
type Collector struct {
	runsTotal            *prometheus.CounterVec
	messagesRemoved      *prometheus.CounterVec
	danglingCleaned      prometheus.Counter
	contextReductions    *prometheus.CounterVec
	removedByPriority    *prometheus.CounterVec
	tokensSaved          prometheus.Histogram
	overflowsTotal       prometheus.Counter
	conversationMessages prometheus.Gauge

	mu       sync.Mutex
	attached map[*hooks.Registry]bool
}

// NewCollector creates the metrics under namespace, or DefaultNamespace
// when namespace is empty. Nothing is registered until Register is called.
func NewCollector(namespace string) *Collector {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	return &Collector{
		attached: make(map[*hooks.Registry]bool),
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "management_runs_total",
				Help:      "Total number of conversation management passes",
			},
			[]string{"pass", "changed"},
		),
		messagesRemoved: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "messages_removed_total",
				Help:      "Total number of messages removed from conversations",
			},
			[]string{"pass"},
		),
		danglingCleaned: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "dangling_messages_cleaned_total",
				Help:      "Total number of messages removed for holding only unpaired tool blocks",
			},
		),
		contextReductions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "context_reductions_total",
				Help:      "Total number of token-budget reductions",
			},
			[]string{"strategy"},
		),
		removedByPriority: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "context_removed_by_priority_total",
				Help:      "Messages removed by token-budget reduction, by priority tier",
			},
			[]string{"priority"},
		),
		tokensSaved: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "context_tokens_saved",
				Help:      "Estimated tokens saved per token-budget reduction",
				Buckets:   prometheus.ExponentialBuckets(100, 4, 8),
			},
		),
		overflowsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "context_overflows_total",
				Help:      "Total number of provider-reported context overflows",
			},
		),
		conversationMessages: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "conversation_messages",
				Help:      "Message count after the most recent management pass",
			},
		),
	}
}

// Register registers every metric with reg.
func (c *Collector) Register(reg prometheus.Registerer) error {
	for _, m := range []prometheus.Collector{
		c.runsTotal,
		c.messagesRemoved,
		c.danglingCleaned,
		c.contextReductions,
		c.removedByPriority,
		c.tokensSaved,
		c.overflowsTotal,
		c.conversationMessages,
	} {
		if err := reg.Register(m); err != nil {
			return err
		}
	}
	return nil
}

// Attach registers the collector's hooks on r. Attaching to a registry the
// collector is already attached to is a no-op, so managers sharing both a
// registry and a collector count every event once.
func (c *Collector) Attach(r *hooks.Registry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.attached[r] {
		return
	}
	c.attached[r] = true

	r.OnAfterManagement(func(ctx context.Context, result *types.ManagementResult) error {
		c.observe(PassManagement, result)
		return nil
	})
	r.OnContextManaged(func(ctx context.Context, result *compaction.Result) error {
		c.ObserveContext(result)
		return nil
	})
	r.OnContextOverflow(func(ctx context.Context, providerErr string, messages types.Messages) error {
		c.overflowsTotal.Inc()
		return nil
	})
	r.OnAfterContextReduction(func(ctx context.Context, result *types.ManagementResult) error {
		c.observe(PassOverflow, result)
		return nil
	})
}

func (c *Collector) observe(pass string, result *types.ManagementResult) {
	c.runsTotal.WithLabelValues(pass, strconv.FormatBool(result.ChangesMade)).Inc()
	if result.MessagesRemoved > 0 {
		c.messagesRemoved.WithLabelValues(pass).Add(float64(result.MessagesRemoved))
	}
	if result.DanglingCleaned > 0 {
		c.danglingCleaned.Add(float64(result.DanglingCleaned))
	}
	c.conversationMessages.Set(float64(result.MessagesAfter))
}

// ObserveContext records a token-budget reduction.
func (c *Collector) ObserveContext(result *compaction.Result) {
	if !result.ChangesMade {
		return
	}
	c.contextReductions.WithLabelValues(string(result.Strategy)).Inc()
	for priority, n := range result.RemovedByPriority {
		c.removedByPriority.WithLabelValues(priority.String()).Add(float64(n))
	}
	if saved := result.Before.EstimatedTokens - result.After.EstimatedTokens; saved > 0 {
		c.tokensSaved.Observe(float64(saved))
	}
}
