package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// MetricsCollector holds all Prometheus metrics for the backend.
// Uses a custom registry, no global state.
type MetricsCollector struct {
	Registry *prometheus.Registry

	// Report pipeline metrics.
	ReportsTotal           *prometheus.CounterVec
	ReportDuration         *prometheus.HistogramVec
	ReportScoreDistributed *prometheus.HistogramVec

	// Report cache metrics.
	CacheLookupsTotal  *prometheus.CounterVec
	CacheSweptTotal    prometheus.Counter
	CacheSweepDuration prometheus.Histogram

	// Question set metrics.
	QuestionSetsTotal prometheus.Counter

	// HTTP metrics.
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// System metrics.
	ActiveRequests prometheus.Gauge
}

// NewMetricsCollector creates a MetricsCollector with all metrics registered
// on a custom prometheus.Registry.
func NewMetricsCollector() *MetricsCollector {
	reg := prometheus.NewRegistry()

	m := &MetricsCollector{
		Registry: reg,

		ReportsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "todaylotto",
			Subsystem: "report",
			Name:      "generated_total",
			Help:      "Total reports generated, by tone and warning level.",
		}, []string{"tone", "warning"}),

		ReportDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "todaylotto",
			Subsystem: "report",
			Name:      "generation_duration_seconds",
			Help:      "Report pipeline duration in seconds.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"cached"}),

		ReportScoreDistributed: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "todaylotto",
			Subsystem: "report",
			Name:      "score",
			Help:      "Distribution of final scores.",
			Buckets:   []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		}, []string{"warning"}),

		CacheLookupsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "todaylotto",
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Total report cache lookups, by result.",
		}, []string{"result"}),

		CacheSweptTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "todaylotto",
			Subsystem: "cache",
			Name:      "swept_entries_total",
			Help:      "Total expired cache entries removed by the sweeper.",
		}),

		CacheSweepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "todaylotto",
			Subsystem: "cache",
			Name:      "sweep_duration_seconds",
			Help:      "Cache sweep duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}),

		QuestionSetsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "todaylotto",
			Subsystem: "question",
			Name:      "sets_total",
			Help:      "Total question sets generated.",
		}),

		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "todaylotto",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		}, []string{"method", "path", "status_code"}),

		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "todaylotto",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),

		ActiveRequests: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "todaylotto",
			Name:      "active_requests",
			Help:      "Number of currently active requests.",
		}),
	}

	// Register all collectors.
	reg.MustRegister(
		m.ReportsTotal,
		m.ReportDuration,
		m.ReportScoreDistributed,
		m.CacheLookupsTotal,
		m.CacheSweptTotal,
		m.CacheSweepDuration,
		m.QuestionSetsTotal,
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.ActiveRequests,
	)

	return m
}

// RecordReport records one generated report.
func (m *MetricsCollector) RecordReport(tone, warning string, score int, durationSeconds float64, cached bool) {
	if m == nil {
		return
	}
	cachedLabel := "false"
	if cached {
		cachedLabel = "true"
	}
	m.ReportDuration.WithLabelValues(cachedLabel).Observe(durationSeconds)
	if !cached {
		m.ReportsTotal.WithLabelValues(tone, warning).Inc()
		m.ReportScoreDistributed.WithLabelValues(warning).Observe(float64(score))
	}
}

// RecordCacheLookup records a cache hit or miss.
func (m *MetricsCollector) RecordCacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookupsTotal.WithLabelValues(result).Inc()
}
