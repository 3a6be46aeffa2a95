package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "boxscores"

var (
	// Fetch Metrics
	FetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Duration of box score page fetches in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"result"}, // "ok", "error"
	)

	// Parse Metrics
	ParsesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parses_total",
			Help:      "Total number of parsed box scores by outcome source",
		},
		[]string{"source"}, // "scoreboard", "season_record", "score"
	)

	DegradedParses = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "degraded_parses_total",
			Help:      "Parsed box scores where a team name fell back to its placeholder",
		},
	)

	// Task Metrics
	TasksSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_submitted_total",
			Help:      "Total number of batch tasks submitted",
		},
		[]string{"kind"},
	)

	TasksActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tasks_active",
			Help:      "Number of batch tasks currently running",
		},
	)

	ItemsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "task_items_processed_total",
			Help:      "Total number of batch items processed by kind and status",
		},
		[]string{"kind", "status"}, // status: "success", "failed"
	)
)

// RecordFetch records one page fetch
func RecordFetch(duration time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	FetchDuration.WithLabelValues(result).Observe(duration.Seconds())
}

// RecordParse counts a parsed box score and whether it was degraded
func RecordParse(source string, degraded bool) {
	ParsesTotal.WithLabelValues(source).Inc()
	if degraded {
		DegradedParses.Inc()
	}
}

// RecordItem counts one processed batch item
func RecordItem(kind, status string) {
	ItemsProcessed.WithLabelValues(kind, status).Inc()
}
