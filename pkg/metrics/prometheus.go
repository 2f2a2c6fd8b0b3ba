// Package metrics provides Prometheus metrics for the Lumina storefront.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the storefront.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	resultBuckets    []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Browsing metrics
	searchRequests    *prometheus.CounterVec
	searchResults     prometheus.Histogram
	filterRequests    *prometheus.CounterVec
	filterResults     prometheus.Histogram
	transitions       *prometheus.CounterVec
	navigationIntents prometheus.Counter
	suggestionsOpened prometheus.Counter
	listenersAttached prometheus.Gauge

	// Session metrics
	sessionsActive  prometheus.Gauge
	sessionsCreated prometheus.Counter
	sessionsEvicted prometheus.Counter

	// Catalog metrics
	catalogBooks      prometheus.Gauge
	catalogCategories prometheus.Gauge

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	rateLimited         *prometheus.CounterVec

	// Error Metrics
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec

	// System Performance Metrics
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
		namespace:        "lumina",
		subsystem:        "storefront",
		histogramBuckets: prometheus.DefBuckets,
		resultBuckets:    []float64{0, 1, 2, 3, 4, 5, 10, 25, 50, 100},
		constLabels:      prometheus.Labels{},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	counter := func(name, help string) prometheus.Counter {
		return auto.NewCounter(prometheus.CounterOpts{
			Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
		})
	}
	gauge := func(name, help string) prometheus.Gauge {
		return auto.NewGauge(prometheus.GaugeOpts{
			Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
		})
	}
	counterVec := func(name, help string, labels ...string) *prometheus.CounterVec {
		return auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
		}, labels)
	}

	m.searchRequests = counterVec("search_requests_total",
		"Search matcher evaluations by outcome (inactive, matched, empty)", "outcome")
	m.searchResults = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name:    "search_result_count",
		Help:    "Number of suggestions returned per active search",
		Buckets: m.resultBuckets,
	})
	m.filterRequests = counterVec("filter_requests_total",
		"Category filter evaluations by scope (all, category)", "scope")
	m.filterResults = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name:    "filter_result_count",
		Help:    "Number of books in the product grid per filter evaluation",
		Buckets: m.resultBuckets,
	})
	m.transitions = counterVec("selection_transitions_total",
		"Selection state transitions by kind", "transition")
	m.navigationIntents = counter("navigation_intents_total",
		"Navigation intents emitted by picking a search suggestion")
	m.suggestionsOpened = counter("suggestion_panel_opened_total",
		"Times an outside-click listener was attached for an opening suggestion panel")
	m.listenersAttached = gauge("outside_click_listeners",
		"Outside-click listeners currently attached")

	m.sessionsActive = gauge("sessions_active", "Browsing sessions currently held in memory")
	m.sessionsCreated = counter("sessions_created_total", "Browsing sessions created")
	m.sessionsEvicted = counter("sessions_evicted_total", "Browsing sessions evicted by the LRU bound")

	m.catalogBooks = gauge("catalog_books", "Books in the loaded catalog")
	m.catalogCategories = gauge("catalog_categories", "Categories (both levels) in the loaded catalog")

	m.httpRequests = counterVec("http_requests_total",
		"Total number of HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name:    "http_request_duration_milliseconds",
		Help:    "HTTP request duration in milliseconds (user experience)",
		Buckets: m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})
	m.rateLimited = counterVec("http_rate_limited_total",
		"Requests rejected by the rate limiter", "endpoint")

	m.errorRateByComponent = counterVec("errors_by_component_total",
		"Total errors by component", "component", "error_type")
	m.errorRateByType = counterVec("errors_by_type_total",
		"Total errors by type and severity", "error_type", "severity")
	m.errorRateByEndpoint = counterVec("errors_by_endpoint_total",
		"Total errors by HTTP endpoint", "endpoint", "method", "error_type")
	m.errorLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name:    "error_latency_milliseconds",
		Help:    "Latency of failed operations in milliseconds",
		Buckets: m.histogramBuckets,
	}, []string{"component", "error_type"})

	m.systemMemoryUsage = gauge("system_memory_usage_bytes", "Current memory usage in bytes")
	m.systemGoroutineCount = gauge("system_goroutine_count", "Current number of goroutines")
	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name:    "system_gc_pause_time_milliseconds",
		Help:    "GC pause time in milliseconds",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
}

// Search outcomes.
const (
	SearchInactive = "inactive"
	SearchMatched  = "matched"
	SearchEmpty    = "empty"
)

// RecordSearch records one matcher evaluation.
func RecordSearch(outcome string, results int) {
	globalManager.searchRequests.WithLabelValues(outcome).Inc()
	if outcome != SearchInactive {
		globalManager.searchResults.Observe(float64(results))
	}
}

// RecordFilter records one category filter evaluation.
func RecordFilter(scope string, results int) {
	globalManager.filterRequests.WithLabelValues(scope).Inc()
	globalManager.filterResults.Observe(float64(results))
}

// RecordTransition counts a selection state transition.
func RecordTransition(transition string) {
	globalManager.transitions.WithLabelValues(transition).Inc()
}

// RecordNavigationIntent counts a navigation intent.
func RecordNavigationIntent() {
	globalManager.navigationIntents.Inc()
}

// RecordListenerAttached tracks an outside-click listener being attached.
func RecordListenerAttached() {
	globalManager.suggestionsOpened.Inc()
	globalManager.listenersAttached.Inc()
}

// RecordListenerReleased tracks an outside-click listener being released.
func RecordListenerReleased() {
	globalManager.listenersAttached.Dec()
}

// UpdateSessionsActive sets the number of live sessions.
func UpdateSessionsActive(count int) {
	globalManager.sessionsActive.Set(float64(count))
}

// RecordSessionCreated counts a new session.
func RecordSessionCreated() {
	globalManager.sessionsCreated.Inc()
}

// RecordSessionEvicted counts an evicted session.
func RecordSessionEvicted() {
	globalManager.sessionsEvicted.Inc()
}

// UpdateCatalogSize sets the catalog gauges.
func UpdateCatalogSize(books, categories int) {
	globalManager.catalogBooks.Set(float64(books))
	globalManager.catalogCategories.Set(float64(categories))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordRateLimited counts a request rejected by the limiter.
func RecordRateLimited(endpoint string) {
	globalManager.rateLimited.WithLabelValues(endpoint).Inc()
}

// RecordErrorByComponent increments the error counter for a specific component.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType increments the error counter for a specific error type.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint increments the error counter for a specific endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of an error.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// UpdateSystemMemoryUsage sets the current memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the current goroutine count.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records a GC pause in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom registry the global manager writes to.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
