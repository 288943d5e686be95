package api

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// GoarcSolveTotal counts solve requests by outcome
	GoarcSolveTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "goarc_solve_total",
			Help: "Total number of solve requests by outcome",
		},
		[]string{"outcome"},
	)

	// GoarcSearchCalls counts backtracking calls across all solves
	GoarcSearchCalls = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "goarc_search_calls_total",
			Help: "Total backtracking search calls across all solves",
		},
	)

	// GoarcDeadEnds counts search dead ends across all solves
	GoarcDeadEnds = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "goarc_dead_ends_total",
			Help: "Total search dead ends across all solves",
		},
	)

	// GoarcSolveDuration tracks end-to-end solve latency
	GoarcSolveDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "goarc_solve_duration_seconds",
			Help:    "End-to-end solve duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		},
	)
)

func init() {
	// Register metrics with the default registry
	prometheus.MustRegister(GoarcSolveTotal)
	prometheus.MustRegister(GoarcSearchCalls)
	prometheus.MustRegister(GoarcDeadEnds)
	prometheus.MustRegister(GoarcSolveDuration)
}
