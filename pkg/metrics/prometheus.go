// Package metrics provides Prometheus metrics for the fastbreak service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus collectors for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Challenge lifecycle
	challengesGenerated prometheus.Counter
	submissionsTotal    prometheus.Counter
	duplicateSubmits    prometheus.Counter
	assemblyFailures    *prometheus.CounterVec
	leaderboardSize     *prometheus.GaugeVec

	// Model performance
	projectionDuration prometheus.Histogram
	submitDuration     prometheus.Histogram

	// Persistence health
	storeErrors *prometheus.CounterVec

	// HTTP surface
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global manager backed by a private registry so default Go collectors
// never mix with service metrics.
var (
	globalManager  *Manager            //nolint:gochecknoglobals // singleton metrics manager
	customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // singleton registry
)

func init() { //nolint:gochecknoinits // wire the global manager once
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers all collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "fastbreak",
		subsystem:        "challenge",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.register()
	return m
}

func (m *Manager) register() {
	factory := promauto.With(m.registry)

	m.challengesGenerated = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "challenges_generated_total",
		Help:      "Number of daily challenges generated.",
	})
	m.submissionsTotal = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "submissions_total",
		Help:      "Number of accepted team submissions.",
	})
	m.duplicateSubmits = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "duplicate_submissions_total",
		Help:      "Number of submissions rejected as duplicates.",
	})
	m.assemblyFailures = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "assembly_failures_total",
		Help:      "Number of failed team assemblies by reason.",
	}, []string{"reason"})
	m.leaderboardSize = factory.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "leaderboard_size",
		Help:      "Number of submissions on a challenge leaderboard.",
	}, []string{"date"})
	m.projectionDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "projection_duration_seconds",
		Help:      "Time spent computing win projections.",
		Buckets:   m.histogramBuckets,
	})
	m.submitDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "submit_duration_seconds",
		Help:      "End-to-end submission handling time.",
		Buckets:   m.histogramBuckets,
	})
	m.storeErrors = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_errors_total",
		Help:      "Persistence failures by operation.",
	}, []string{"op"})
	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by endpoint and status.",
	}, []string{"endpoint", "status"})
	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by endpoint.",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint"})
}

// GetRegistry returns the private registry for the /metrics handler.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Package-level recording helpers on the global manager.

func RecordChallengeGenerated() {
	if globalManager.enabled {
		globalManager.challengesGenerated.Inc()
	}
}

func RecordSubmission() {
	if globalManager.enabled {
		globalManager.submissionsTotal.Inc()
	}
}

func RecordDuplicateSubmission() {
	if globalManager.enabled {
		globalManager.duplicateSubmits.Inc()
	}
}

func RecordAssemblyFailure(reason string) {
	if globalManager.enabled {
		globalManager.assemblyFailures.WithLabelValues(reason).Inc()
	}
}

func UpdateLeaderboardSize(date string, size int) {
	if globalManager.enabled {
		globalManager.leaderboardSize.WithLabelValues(date).Set(float64(size))
	}
}

func ObserveProjectionDuration(d time.Duration) {
	if globalManager.enabled {
		globalManager.projectionDuration.Observe(d.Seconds())
	}
}

func ObserveSubmitDuration(d time.Duration) {
	if globalManager.enabled {
		globalManager.submitDuration.Observe(d.Seconds())
	}
}

func RecordStoreError(op string) {
	if globalManager.enabled {
		globalManager.storeErrors.WithLabelValues(op).Inc()
	}
}

func RecordHTTPRequest(endpoint, status string) {
	if globalManager.enabled {
		globalManager.httpRequests.WithLabelValues(endpoint, status).Inc()
	}
}

func ObserveHTTPRequestDuration(endpoint string, d time.Duration) {
	if globalManager.enabled {
		globalManager.httpRequestDuration.WithLabelValues(endpoint).Observe(d.Seconds())
	}
}
