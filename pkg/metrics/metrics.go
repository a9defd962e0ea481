// Package metrics exposes Prometheus collectors for ranking runs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	runsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ranking_runs_total",
			Help: "Ranking runs by outcome. Failed runs carry the error kind.",
		},
		[]string{"status", "kind"},
	)
	runDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ranking_run_duration_seconds",
			Help:    "Wall time of ranking runs, including sheet I/O.",
			Buckets: prometheus.DefBuckets,
		},
	)
	lastStudents = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ranking_last_run_students",
			Help: "Students ranked by the last successful run.",
		},
	)
	lastGroups = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ranking_last_run_groups",
			Help: "Groups ranked by the last successful run.",
		},
	)
	lastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ranking_last_success_timestamp_seconds",
			Help: "Unix time of the last successful run.",
		},
	)
)

// RecordSuccess records a completed run.
func RecordSuccess(d time.Duration, students, groups int) {
	runsTotal.WithLabelValues("success", "").Inc()
	runDuration.Observe(d.Seconds())
	lastStudents.Set(float64(students))
	lastGroups.Set(float64(groups))
	lastSuccess.SetToCurrentTime()
}

// RecordFailure records a failed run. kind is the error kind, or "Internal"
// when the failure was not classified.
func RecordFailure(d time.Duration, kind string) {
	if kind == "" {
		kind = "Internal"
	}
	runsTotal.WithLabelValues("error", kind).Inc()
	runDuration.Observe(d.Seconds())
}
