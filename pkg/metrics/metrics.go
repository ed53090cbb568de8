// Package metrics exposes orchestrator run counters and duration
// histograms via prometheus/client_golang, the metrics half of the same
// module the pack uses on its query side (pkg/monitoring/prometheus in the
// chaos-utils example reads metrics back out; this package is what feeds
// that scrape target).
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "racesim",
		Name:      "runs_total",
		Help:      "Total simulation runs submitted to the orchestrator, by terminal status.",
	}, []string{"status"})

	RunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "racesim",
		Name:      "run_duration_seconds",
		Help:      "Wall-clock duration of simulation runs that reached a terminal status.",
		Buckets:   prometheus.DefBuckets,
	})

	ActiveRuns = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "racesim",
		Name:      "active_runs",
		Help:      "1 while a simulation is in flight, 0 otherwise.",
	})

	FactorFetchFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "racesim",
		Name:      "factor_fetch_failures_total",
		Help:      "Variation factor fetches that failed or were circuit-broken.",
	})
)

// ObserveTerminal records a run's terminal status and, when finishedAt is
// known, its duration.
func ObserveTerminal(status string, durationSeconds float64) {
	RunsTotal.WithLabelValues(status).Inc()
	if durationSeconds > 0 {
		RunDuration.Observe(durationSeconds)
	}
	ActiveRuns.Set(0)
}

// ObserveStart marks a run as in flight.
func ObserveStart() {
	ActiveRuns.Set(1)
}
