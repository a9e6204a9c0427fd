// Package metrics provides Prometheus metrics for the HireLens scoring
// service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Ingestion
	eventsIngested  *prometheus.CounterVec
	eventsDuplicate prometheus.Counter
	eventsRejected  prometheus.Counter

	// Session lifecycle
	sessionsCreated   prometheus.Counter
	sessionsCompleted prometheus.Counter
	sessionsActive    prometheus.Gauge

	// Report generation
	reportLatency   prometheus.Histogram
	reportCacheHits prometheus.Counter
	reportCacheMiss prometheus.Counter

	// Narrative summarizer
	summarizerJobs     prometheus.Counter
	summarizerFailures prometheus.Counter

	// Live feed
	websocketConnections prometheus.Gauge

	// HTTP surface
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "hirelens",
		subsystem:        "scoring",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.eventsIngested = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_ingested_total",
		Help:      "Events accepted into session logs, labeled by event category",
	}, []string{"category"})

	m.eventsDuplicate = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_duplicate_total",
		Help:      "Duplicate event deliveries dropped by the deduper",
	})

	m.eventsRejected = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_rejected_total",
		Help:      "Events rejected at ingestion (unknown kind, bad metadata, frozen session)",
	})

	m.sessionsCreated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sessions_created_total",
		Help:      "Interview sessions created",
	})

	m.sessionsCompleted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sessions_completed_total",
		Help:      "Interview sessions completed and scored",
	})

	m.sessionsActive = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sessions_active",
		Help:      "Sessions currently accepting events",
	})

	m.reportLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "report_generation_seconds",
		Help:      "Histogram of full report assembly latency in seconds",
		Buckets:   m.histogramBuckets,
	})

	m.reportCacheHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "report_cache_hits_total",
		Help:      "Report requests served from the LRU cache",
	})

	m.reportCacheMiss = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "report_cache_misses_total",
		Help:      "Report requests that had to assemble the report",
	})

	m.summarizerJobs = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "summarizer_jobs_total",
		Help:      "Narrative summarizer jobs processed",
	})

	m.summarizerFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "summarizer_failures_total",
		Help:      "Narrative summarizer jobs that fell back to the template",
	})

	m.websocketConnections = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "websocket_connections",
		Help:      "Live feed websocket connections currently open",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route and status code",
	}, []string{"method", "route", "status"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by method and route",
		Buckets:   m.histogramBuckets,
	}, []string{"method", "route"})
}

// GetRegistry returns the registry backing the global manager, for
// exposing metrics over HTTP.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Package-level helpers recording on the global manager.

func RecordEventIngested(category string) {
	if globalManager.enabled {
		globalManager.eventsIngested.WithLabelValues(category).Inc()
	}
}

func RecordEventDuplicate() {
	if globalManager.enabled {
		globalManager.eventsDuplicate.Inc()
	}
}

func RecordEventRejected() {
	if globalManager.enabled {
		globalManager.eventsRejected.Inc()
	}
}

func RecordSessionCreated() {
	if globalManager.enabled {
		globalManager.sessionsCreated.Inc()
		globalManager.sessionsActive.Inc()
	}
}

func RecordSessionCompleted() {
	if globalManager.enabled {
		globalManager.sessionsCompleted.Inc()
		globalManager.sessionsActive.Dec()
	}
}

func ObserveReportLatency(d time.Duration) {
	if globalManager.enabled {
		globalManager.reportLatency.Observe(d.Seconds())
	}
}

func RecordReportCacheHit() {
	if globalManager.enabled {
		globalManager.reportCacheHits.Inc()
	}
}

func RecordReportCacheMiss() {
	if globalManager.enabled {
		globalManager.reportCacheMiss.Inc()
	}
}

func RecordSummarizerJob() {
	if globalManager.enabled {
		globalManager.summarizerJobs.Inc()
	}
}

func RecordSummarizerFailure() {
	if globalManager.enabled {
		globalManager.summarizerFailures.Inc()
	}
}

func WebsocketConnected() {
	if globalManager.enabled {
		globalManager.websocketConnections.Inc()
	}
}

func WebsocketDisconnected() {
	if globalManager.enabled {
		globalManager.websocketConnections.Dec()
	}
}

func RecordHTTPRequest(method, route, status string) {
	if globalManager.enabled {
		globalManager.httpRequests.WithLabelValues(method, route, status).Inc()
	}
}

func ObserveHTTPRequestDuration(method, route string, d time.Duration) {
	if globalManager.enabled {
		globalManager.httpRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
	}
}
