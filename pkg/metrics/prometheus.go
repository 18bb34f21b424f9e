// Package metrics provides Prometheus metrics for the flightwise service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Manager owns the flightwise collectors.
type Manager struct {
	namespace      string
	subsystem      string
	latencyBuckets []float64
	constLabels    map[string]string
	registry       prometheus.Registerer

	// Interaction metrics
	interactions       *prometheus.CounterVec
	interactionLatency prometheus.Histogram

	// Search collaborator
	searchRequests *prometheus.CounterVec
	searchLatency  prometheus.Histogram

	// Normalizer
	normalizedOptions prometheus.Histogram
	malformedPayloads prometheus.Counter

	// Generation collaborator
	generationRequests *prometheus.CounterVec
	generationLatency  *prometheus.HistogramVec
	promptBytes        prometheus.Histogram

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec
	errorsByComponent   *prometheus.CounterVec
}

var globalManager *Manager //nolint:gochecknoglobals // process-wide metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a new metrics manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:      "flightwise",
		subsystem:      "core",
		latencyBuckets: []float64{5, 25, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
		constLabels:    map[string]string{},
		registry:       prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.interactions = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "interactions_total",
		Help:        "Search interactions by kind (search, flights, analyze) and outcome",
		ConstLabels: m.constLabels,
	}, []string{"kind", "outcome"})

	m.interactionLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "interaction_latency_milliseconds",
		Help:        "End-to-end latency of one interaction in milliseconds",
		Buckets:     m.latencyBuckets,
		ConstLabels: m.constLabels,
	})

	m.searchRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "search_requests_total",
		Help:        "Calls to the flight-search collaborator by outcome",
		ConstLabels: m.constLabels,
	}, []string{"outcome"})

	m.searchLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "search_latency_milliseconds",
		Help:        "Flight-search collaborator latency in milliseconds",
		Buckets:     m.latencyBuckets,
		ConstLabels: m.constLabels,
	})

	m.normalizedOptions = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "normalized_options",
		Help:        "Number of flight options produced per normalized result set",
		Buckets:     []float64{0, 1, 5, 10, 20, 50, 100},
		ConstLabels: m.constLabels,
	})

	m.malformedPayloads = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "malformed_upstream_total",
		Help:        "Search results rejected by the normalizer",
		ConstLabels: m.constLabels,
	})

	m.generationRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "generation_requests_total",
		Help:        "Calls to the text-generation collaborator by provider and outcome",
		ConstLabels: m.constLabels,
	}, []string{"provider", "outcome"})

	m.generationLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "generation_latency_milliseconds",
		Help:        "Text-generation collaborator latency in milliseconds",
		Buckets:     m.latencyBuckets,
		ConstLabels: m.constLabels,
	}, []string{"provider"})

	m.promptBytes = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "prompt_bytes",
		Help:        "Size of the analysis prompt sent to the generation collaborator",
		Buckets:     prometheus.ExponentialBuckets(1024, 2, 10),
		ConstLabels: m.constLabels,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_requests_total",
		Help:        "Total number of HTTP requests by endpoint and method",
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.latencyBuckets,
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.errorsByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "errors_by_endpoint_total",
		Help:        "Total number of errors by endpoint",
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "error_type"})

	m.errorsByComponent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "errors_by_component_total",
		Help:        "Total number of errors by component",
		ConstLabels: m.constLabels,
	}, []string{"component", "error_type"})
}

// RecordInteraction counts one interaction and observes its latency.
func RecordInteraction(kind, outcome string, latencyMs float64) {
	globalManager.interactions.WithLabelValues(kind, outcome).Inc()
	globalManager.interactionLatency.Observe(latencyMs)
}

// RecordSearch counts one search collaborator call.
func RecordSearch(outcome string, latencyMs float64) {
	globalManager.searchRequests.WithLabelValues(outcome).Inc()
	globalManager.searchLatency.Observe(latencyMs)
}

// RecordNormalized observes the size of a normalized result set.
func RecordNormalized(options int) {
	globalManager.normalizedOptions.Observe(float64(options))
}

// RecordMalformedPayload counts a result set rejected by the normalizer.
func RecordMalformedPayload() {
	globalManager.malformedPayloads.Inc()
}

// RecordGeneration counts one generation collaborator call.
func RecordGeneration(provider, outcome string, latencyMs float64) {
	globalManager.generationRequests.WithLabelValues(provider, outcome).Inc()
	globalManager.generationLatency.WithLabelValues(provider).Observe(latencyMs)
}

// RecordPromptSize observes the prompt size in bytes.
func RecordPromptSize(bytes int) {
	globalManager.promptBytes.Observe(float64(bytes))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
