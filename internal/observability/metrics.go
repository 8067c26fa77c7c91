package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// total requests per endpoint, method and status code
	RequestCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adpilot_requests_total",
			Help: "Total API requests received",
		},
		[]string{"endpoint", "method", "status"},
	)

	// request latency in seconds per endpoint/method
	RequestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "adpilot_request_duration_seconds",
			Help:    "Histogram of request latencies",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method"},
	)

	// campaign analyses performed, labelled by result status
	AnalysisCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adpilot_analyses_total",
			Help: "Total campaign analyses performed",
		},
		[]string{"status"},
	)

	// budget allocations performed, labelled by optimization goal
	AllocationCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adpilot_allocations_total",
			Help: "Total budget allocations performed",
		},
		[]string{"goal"},
	)

	// metric snapshots written to the metrics store, per platform
	SnapshotCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adpilot_snapshots_recorded_total",
			Help: "Total metric snapshots recorded",
		},
		[]string{"platform"},
	)

	// number of errors reading from or writing to the metrics store
	StoreErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "adpilot_store_errors_total",
			Help: "Total metrics store errors",
		},
	)

	// latest-snapshot cache lookups labelled by outcome (hit/miss)
	CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adpilot_cache_lookups_total",
			Help: "Total latest-snapshot cache lookups",
		},
		[]string{"outcome"},
	)

	// insights persisted to the insight store
	InsightCount = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "adpilot_insights_stored_total",
			Help: "Total insights stored",
		},
	)

	// platform sync cycles, labelled by outcome
	SyncCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adpilot_sync_cycles_total",
			Help: "Total platform sync cycles",
		},
		[]string{"outcome"},
	)
)

func init() {
	// register all metrics
	prometheus.MustRegister(
		RequestCount,
		RequestLatency,
		AnalysisCount,
		AllocationCount,
		SnapshotCount,
		StoreErrors,
		CacheLookups,
		InsightCount,
		SyncCount,
	)
}
