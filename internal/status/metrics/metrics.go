package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PollAttempts counts poll attempts by outcome kind
	PollAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "presenced_poll_attempts_total",
			Help: "Total number of presence poll attempts",
		},
		[]string{"outcome"},
	)

	// RetryCount tracks the scheduler's current consecutive failure count
	RetryCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "presenced_retry_count",
			Help: "Current consecutive failure count of the poll scheduler",
		},
	)

	// BackoffDelay observes the delays armed between poll attempts
	BackoffDelay = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "presenced_backoff_delay_seconds",
			Help:    "Delay armed before the next poll attempt in seconds",
			Buckets: []float64{1, 5, 10, 20, 30, 60, 120},
		},
	)

	// LastSuccessTimestamp tracks the unix time of the last successful poll
	LastSuccessTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "presenced_last_success_timestamp_seconds",
			Help: "Unix timestamp of the last successful presence poll",
		},
	)

	// SnapshotRenders counts snapshot deliveries per sink
	SnapshotRenders = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "presenced_snapshot_renders_total",
			Help: "Total number of presence snapshots delivered to sinks",
		},
		[]string{"sink", "result"},
	)

	// DBConnectionPoolUsage tracks database connection pool usage percentage
	DBConnectionPoolUsage = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "presenced_db_pool_usage_percent",
			Help: "Database connection pool usage percentage",
		},
	)
)
