package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	NavigationEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookmarksync_navigation_events_total",
			Help: "Navigation events received, by whether they qualified for evaluation",
		},
		[]string{"qualification"},
	)

	RuleOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookmarksync_rule_outcomes_total",
			Help: "Per-rule evaluation outcomes",
		},
		[]string{"outcome"},
	)

	BatchAborts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookmarksync_batch_aborts_total",
			Help: "Evaluations abandoned because the rules could not be loaded",
		},
	)

	PatternCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookmarksync_pattern_cache_misses_total",
			Help: "Patterns compiled because they were not in the cache",
		},
	)

	EvaluationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bookmarksync_evaluation_duration_seconds",
			Help:    "Time taken to evaluate all rules for one navigation event",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// Qualification label values.
const (
	Qualified = "qualified"
	Ignored   = "ignored"
)
