package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the scoreboard service

var (
	// Upstream feed metrics
	UpstreamCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scoreboard_upstream_calls_total",
			Help: "Total number of gd2 feed calls",
		},
		[]string{"endpoint", "status"},
	)

	UpstreamCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scoreboard_upstream_call_duration_seconds",
			Help:    "Duration of gd2 feed calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// Ingestion metrics
	IngestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scoreboard_ingests_total",
			Help: "Total number of schedule ingestion runs",
		},
		[]string{"status"},
	)

	GamesIngestedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scoreboard_games_ingested_total",
			Help: "Total number of game records created by ingestion",
		},
	)

	GamesSkippedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scoreboard_games_skipped_total",
			Help: "Total number of schedule entries dropped by validation",
		},
	)

	// Status lookup metrics
	ByteRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scoreboard_byte_requests_total",
			Help: "Total number of status lookups",
		},
		[]string{"outcome"},
	)

	LiveRefreshesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scoreboard_live_refreshes_total",
			Help: "Total number of live cache refreshes from the linescore feed",
		},
	)

	// Redis byte cache metrics
	CacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scoreboard_cache_hits_total",
			Help: "Total number of byte cache hits",
		},
	)

	CacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scoreboard_cache_misses_total",
			Help: "Total number of byte cache misses",
		},
	)

	// Error metrics
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scoreboard_errors_total",
			Help: "Total number of errors",
		},
		[]string{"component", "error_type"},
	)

	// System metrics
	SystemUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "scoreboard_system_uptime_seconds",
			Help: "System uptime in seconds",
		},
	)

	LastSuccessfulIngest = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "scoreboard_last_successful_ingest_timestamp",
			Help: "Timestamp of last successful schedule ingestion",
		},
	)
)

// RecordUpstreamCall records a feed call metric
func RecordUpstreamCall(endpoint, status string, duration float64) {
	UpstreamCallsTotal.WithLabelValues(endpoint, status).Inc()
	UpstreamCallDuration.WithLabelValues(endpoint).Observe(duration)
}

// RecordIngest records an ingestion run
func RecordIngest(status string, created int) {
	IngestsTotal.WithLabelValues(status).Inc()

	if status == "success" {
		GamesIngestedTotal.Add(float64(created))
		LastSuccessfulIngest.SetToCurrentTime()
	}
}

// RecordGameSkipped records a schedule entry dropped by validation
func RecordGameSkipped() {
	GamesSkippedTotal.Inc()
}

// RecordByteRequest records a status lookup outcome
func RecordByteRequest(outcome string) {
	ByteRequestsTotal.WithLabelValues(outcome).Inc()
}

// RecordLiveRefresh records a live cache refresh
func RecordLiveRefresh() {
	LiveRefreshesTotal.Inc()
}

// RecordCacheHit records a byte cache hit
func RecordCacheHit() {
	CacheHitsTotal.Inc()
}

// RecordCacheMiss records a byte cache miss
func RecordCacheMiss() {
	CacheMissesTotal.Inc()
}

// RecordError records an error
func RecordError(component, errorType string) {
	ErrorsTotal.WithLabelValues(component, errorType).Inc()
}
