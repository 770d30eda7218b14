package service

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsService owns the Prometheus collectors for the discovery API.
type MetricsService struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	discoveryRequestsTotal *prometheus.CounterVec
	discoveryDuration      *prometheus.HistogramVec
	discoveryFallbackTotal prometheus.Counter
	discoveryResultSize    *prometheus.HistogramVec

	cacheHitsTotal   prometheus.Counter
	cacheMissesTotal prometheus.Counter

	exportJobsTotal *prometheus.CounterVec
}

// NewMetricsService registers all collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	m := &MetricsService{
		registry: registry,
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by method, path and status.",
		}, []string{"method", "path", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and path.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		discoveryRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "discovery_requests_total",
			Help: "Discovery requests by mode.",
		}, []string{"mode"}),
		discoveryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "discovery_duration_seconds",
			Help:    "Discovery pipeline latency by mode.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"mode"}),
		discoveryFallbackTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "discovery_fallback_total",
			Help: "Recommendations that fell back to the plain listing.",
		}),
		discoveryResultSize: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "discovery_result_size",
			Help:    "Number of tutors returned per request by mode.",
			Buckets: []float64{0, 1, 5, 10, 25, 50},
		}, []string{"mode"}),
		cacheHitsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "listing_cache_hits_total",
			Help: "Listing cache hits.",
		}),
		cacheMissesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "listing_cache_misses_total",
			Help: "Listing cache misses.",
		}),
		exportJobsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "export_jobs_total",
			Help: "Export jobs by terminal status.",
		}, []string{"status"}),
	}

	registry.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.discoveryRequestsTotal,
		m.discoveryDuration,
		m.discoveryFallbackTotal,
		m.discoveryResultSize,
		m.cacheHitsTotal,
		m.cacheMissesTotal,
		m.exportJobsTotal,
	)

	return m
}

// Registry exposes the registry for the /metrics handler.
func (m *MetricsService) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveHTTPRequest records one completed HTTP request.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// ObserveDiscovery records one discovery run.
func (m *MetricsService) ObserveDiscovery(mode string, resultSize int, duration time.Duration) {
	m.discoveryRequestsTotal.WithLabelValues(mode).Inc()
	m.discoveryDuration.WithLabelValues(mode).Observe(duration.Seconds())
	m.discoveryResultSize.WithLabelValues(mode).Observe(float64(resultSize))
}

// ObserveFallback counts a recommend request served by the plain listing.
func (m *MetricsService) ObserveFallback() {
	m.discoveryFallbackTotal.Inc()
}

// ObserveCache counts a listing cache lookup.
func (m *MetricsService) ObserveCache(hit bool) {
	if hit {
		m.cacheHitsTotal.Inc()
		return
	}
	m.cacheMissesTotal.Inc()
}

// ObserveExportJob counts an export job reaching a terminal status.
func (m *MetricsService) ObserveExportJob(status string) {
	m.exportJobsTotal.WithLabelValues(status).Inc()
}
