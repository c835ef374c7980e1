// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Scan metrics
	ScansTotal      *prometheus.CounterVec
	ScanDuration    *prometheus.HistogramVec
	ScanRiskLevel   *prometheus.CounterVec
	ChecksUnknown   *prometheus.CounterVec
	CacheHits       *prometheus.CounterVec
	CacheMisses     *prometheus.CounterVec

	// Provider metrics
	ProviderCallLatency *prometheus.HistogramVec
	ProviderCallErrors  *prometheus.CounterVec

	// Ledger metrics
	RPCCallLatency *prometheus.HistogramVec
	WSMessageLatency prometheus.Histogram

	// Discovery metrics
	LaunchesDiscovered *prometheus.CounterVec
	LaunchesDropped    prometheus.Counter

	// Tracker metrics
	OutcomesBackfilled *prometheus.CounterVec
	RugsDetected       prometheus.Counter
	SignalsRecorded    prometheus.Counter

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	// Health metrics
	LastSuccessfulScan    prometheus.Gauge
	LastSuccessfulOutcome prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "mintshield"
	}

	return &Metrics{
		// Scan metrics
		ScansTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "scans_total",
			Help:      "Total number of scans by mode and status",
		}, []string{"mode", "status"}),
		ScanDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "duration_seconds",
			Help:      "Scan wall time in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20},
		}, []string{"mode"}),
		ScanRiskLevel: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "risk_level_total",
			Help:      "Total number of scans by resulting risk level",
		}, []string{"level"}),
		ChecksUnknown: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "checks_unknown_total",
			Help:      "Total number of checks that degraded to unknown",
		}, []string{"check"}),
		CacheHits: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "cache_hits_total",
			Help:      "Total number of result cache hits by mode",
		}, []string{"mode"}),
		CacheMisses: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "cache_misses_total",
			Help:      "Total number of result cache misses by mode",
		}, []string{"mode"}),

		// Provider metrics
		ProviderCallLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "providers",
			Name:      "call_latency_seconds",
			Help:      "External provider call latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"provider"}),
		ProviderCallErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "providers",
			Name:      "call_errors_total",
			Help:      "Total number of external provider call failures",
		}, []string{"provider"}),

		// Ledger metrics
		RPCCallLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "solana",
			Name:      "rpc_call_latency_seconds",
			Help:      "Solana RPC call latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		WSMessageLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "solana",
			Name:      "ws_message_latency_seconds",
			Help:      "WebSocket message processing latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}),

		// Discovery metrics
		LaunchesDiscovered: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "discovery",
			Name:      "launches_total",
			Help:      "Total number of launches discovered by platform",
		}, []string{"platform"}),
		LaunchesDropped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "discovery",
			Name:      "launches_dropped_total",
			Help:      "Total number of discovered launches dropped by a lagging consumer",
		}),

		// Tracker metrics
		OutcomesBackfilled: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tracker",
			Name:      "outcomes_backfilled_total",
			Help:      "Total number of outcome back-fills by horizon",
		}, []string{"horizon"}),
		RugsDetected: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tracker",
			Name:      "rugs_detected_total",
			Help:      "Total number of rugs detected by the outcome tracker",
		}),
		SignalsRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tracker",
			Name:      "launch_signals_recorded_total",
			Help:      "Total number of launch signals recorded",
		}),

		// Database metrics
		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),

		// Health metrics
		LastSuccessfulScan: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_scan_timestamp",
			Help:      "Unix timestamp of the last successful scan",
		}),
		LastSuccessfulOutcome: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_outcome_timestamp",
			Help:      "Unix timestamp of the last successful outcome back-fill",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordScan records one finished scan.
func RecordScan(mode, status, level string, durationSeconds float64) {
	DefaultMetrics.ScansTotal.WithLabelValues(mode, status).Inc()
	DefaultMetrics.ScanDuration.WithLabelValues(mode).Observe(durationSeconds)
	if level != "" {
		DefaultMetrics.ScanRiskLevel.WithLabelValues(level).Inc()
	}
}

// RecordUnknownCheck records a check that degraded to unknown.
func RecordUnknownCheck(check string) {
	DefaultMetrics.ChecksUnknown.WithLabelValues(check).Inc()
}

// RecordCacheHit records a result cache hit.
func RecordCacheHit(mode string) {
	DefaultMetrics.CacheHits.WithLabelValues(mode).Inc()
}

// RecordCacheMiss records a result cache miss.
func RecordCacheMiss(mode string) {
	DefaultMetrics.CacheMisses.WithLabelValues(mode).Inc()
}

// RecordProviderCall records one provider call's latency and outcome.
func RecordProviderCall(provider string, seconds float64, err error) {
	DefaultMetrics.ProviderCallLatency.WithLabelValues(provider).Observe(seconds)
	if err != nil {
		DefaultMetrics.ProviderCallErrors.WithLabelValues(provider).Inc()
	}
}

// RecordRPCLatency records RPC call latency.
func RecordRPCLatency(method string, seconds float64) {
	DefaultMetrics.RPCCallLatency.WithLabelValues(method).Observe(seconds)
}

// RecordLaunchDiscovered records a discovered launch.
func RecordLaunchDiscovered(platform string) {
	DefaultMetrics.LaunchesDiscovered.WithLabelValues(platform).Inc()
}

// RecordOutcomeBackfill records one horizon back-fill.
func RecordOutcomeBackfill(horizon string) {
	DefaultMetrics.OutcomesBackfilled.WithLabelValues(horizon).Inc()
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}
