// Package metrics provides Prometheus metrics for the gamemash rating service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Voting
	votesTotal     *prometheus.CounterVec
	votesDuplicate prometheus.Counter
	votesRejected  prometheus.Counter
	duelsTotal     prometheus.Counter
	ratingDelta    prometheus.Histogram
	voteLatency    prometheus.Histogram

	// Store lifecycle
	partitions   prometheus.Gauge
	catalogItems prometheus.Gauge
	stateLoads   *prometheus.CounterVec
	resetsTotal  prometheus.Counter
	exportsTotal prometheus.Counter
	exportRows   prometheus.Gauge

	// Persistence
	persistenceOps     *prometheus.CounterVec
	persistenceLatency *prometheus.HistogramVec
	blobBytes          prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
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
		namespace:        "gamemash",
		subsystem:        "ratings",
		histogramBuckets: prometheus.DefBuckets,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.metricPrefix + name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.metricPrefix + name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.metricPrefix + name,
		Help:        help,
		ConstLabels: m.customLabels,
		Buckets:     buckets,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.votesTotal = auto.NewCounterVec(
		m.counterOpts("votes_total", "Votes applied, by partition and winning side"),
		[]string{"segment", "context", "winner"},
	)
	m.votesDuplicate = auto.NewCounter(m.counterOpts("votes_duplicate_total", "Votes acknowledged as retries of an already applied vote id"))
	m.votesRejected = auto.NewCounter(m.counterOpts("votes_rejected_total", "Votes rejected as invalid input"))
	m.duelsTotal = auto.NewCounter(m.counterOpts("duels_total", "Duels drawn by the pair sampler"))
	m.ratingDelta = auto.NewHistogram(m.histogramOpts(
		"rating_delta_points",
		"Absolute rating change applied to each side of a vote",
		[]float64{1, 2, 4, 8, 12, 16, 20, 24, 28, 32},
	))
	m.voteLatency = auto.NewHistogram(m.histogramOpts(
		"vote_latency_milliseconds",
		"Time to apply and persist one vote in milliseconds",
		m.histogramBuckets,
	))

	m.partitions = auto.NewGauge(m.gaugeOpts("partitions", "Number of (segment, context) partitions"))
	m.catalogItems = auto.NewGauge(m.gaugeOpts("catalog_items", "Number of items in the catalog"))
	m.stateLoads = auto.NewCounterVec(
		m.counterOpts("state_loads_total", "Store loads at startup by outcome (restored, absent, fallback)"),
		[]string{"result"},
	)
	m.resetsTotal = auto.NewCounter(m.counterOpts("resets_total", "Explicit store resets"))
	m.exportsTotal = auto.NewCounter(m.counterOpts("exports_total", "CSV exports rendered"))
	m.exportRows = auto.NewGauge(m.gaugeOpts("export_rows", "Rows in the most recent CSV export"))

	m.persistenceOps = auto.NewCounterVec(
		m.counterOpts("persistence_operations_total", "Blob store operations by backend, operation and result"),
		[]string{"backend", "op", "result"},
	)
	m.persistenceLatency = auto.NewHistogramVec(
		m.histogramOpts("persistence_latency_milliseconds", "Blob store operation latency in milliseconds", m.histogramBuckets),
		[]string{"backend", "op"},
	)
	m.blobBytes = auto.NewGauge(m.gaugeOpts("blob_bytes", "Size of the last serialised store in bytes"))

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByComponent = auto.NewCounterVec(
		m.counterOpts("errors_by_component_total", "Errors by component and type"),
		[]string{"component", "error_type"},
	)
	m.errorRateByType = auto.NewCounterVec(
		m.counterOpts("errors_by_type_total", "Errors by type and severity"),
		[]string{"error_type", "severity"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Errors by endpoint, method and type"),
		[]string{"endpoint", "method", "error_type"},
	)
	m.errorLatency = auto.NewHistogramVec(
		m.histogramOpts("error_latency_milliseconds", "Latency of failed operations in milliseconds", m.histogramBuckets),
		[]string{"component", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts(
		"system_gc_pause_time_milliseconds",
		"GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	))
}

// Voting.

// RecordVote counts an applied vote and observes both rating deltas.
func RecordVote(segment, context, winner string, deltaA, deltaB float64) {
	globalManager.votesTotal.WithLabelValues(segment, context, winner).Inc()
	globalManager.ratingDelta.Observe(abs(deltaA))
	globalManager.ratingDelta.Observe(abs(deltaB))
}

// RecordVoteDuplicate counts a replayed vote id.
func RecordVoteDuplicate() { globalManager.votesDuplicate.Inc() }

// RecordVoteRejected counts a vote that failed validation.
func RecordVoteRejected() { globalManager.votesRejected.Inc() }

// RecordVoteLatency records the time to apply and persist a vote.
func RecordVoteLatency(latencyMs float64) { globalManager.voteLatency.Observe(latencyMs) }

// RecordDuel counts a drawn duel.
func RecordDuel() { globalManager.duelsTotal.Inc() }

// Store lifecycle.

// UpdateStoreShape sets the partition and catalog item gauges.
func UpdateStoreShape(partitions, items int) {
	globalManager.partitions.Set(float64(partitions))
	globalManager.catalogItems.Set(float64(items))
}

// RecordStateLoad counts a startup load by result.
func RecordStateLoad(result string) { globalManager.stateLoads.WithLabelValues(result).Inc() }

// RecordReset counts an explicit reset.
func RecordReset() { globalManager.resetsTotal.Inc() }

// RecordExport counts an export and remembers its row count.
func RecordExport(rows int) {
	globalManager.exportsTotal.Inc()
	globalManager.exportRows.Set(float64(rows))
}

// Persistence.

// RecordPersistence records one blob store operation.
func RecordPersistence(backend, op string, ok bool, latencyMs float64) {
	result := "ok"
	if !ok {
		result = "error"
	}
	globalManager.persistenceOps.WithLabelValues(backend, op, result).Inc()
	globalManager.persistenceLatency.WithLabelValues(backend, op).Observe(latencyMs)
}

// UpdateBlobBytes sets the size of the last serialised store.
func UpdateBlobBytes(n int) { globalManager.blobBytes.Set(float64(n)) }

// HTTP.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Errors.

// RecordErrorByComponent records an error by component and type.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error by type and severity.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error by endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of a failed operation.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// System.

// UpdateSystemMemoryUsage sets the memory usage gauge.
func UpdateSystemMemoryUsage(bytes uint64) { globalManager.systemMemoryUsage.Set(float64(bytes)) }

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(count int) { globalManager.systemGoroutineCount.Set(float64(count)) }

// RecordSystemGCPauseTime observes an average GC pause.
func RecordSystemGCPauseTime(pauseMs float64) { globalManager.systemGCPauseTime.Observe(pauseMs) }

// GetRegistry returns the custom registry served on /healthz.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
