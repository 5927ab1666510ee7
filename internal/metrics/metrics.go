// Package metrics provides Prometheus metrics for the portal.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the portal.
// All methods are safe to call on a nil *Metrics.
type Metrics struct {
	// HTTP request metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Upstream metrics
	ContentFetchesTotal  *prometheus.CounterVec
	ContentFetchDuration *prometheus.HistogramVec
	AuthValidationsTotal *prometheus.CounterVec
	LoginsTotal          *prometheus.CounterVec

	// Search metrics
	SearchQueriesTotal *prometheus.CounterVec
	SearchResultsTotal prometheus.Counter
}

// NewMetrics creates all metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	m := &Metrics{}

	m.HTTPRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "status"},
	)

	m.HTTPRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portal_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	m.HTTPRequestsInFlight = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "portal_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	m.ContentFetchesTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_content_fetches_total",
			Help: "Total number of content API fetches",
		},
		[]string{"resource", "status"},
	)

	m.ContentFetchDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portal_content_fetch_duration_seconds",
			Help:    "Duration of content API fetches in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"resource"},
	)

	m.AuthValidationsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_auth_validations_total",
			Help: "Total number of session token validations",
		},
		[]string{"result"},
	)

	m.LoginsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_logins_total",
			Help: "Total number of login attempts",
		},
		[]string{"result"},
	)

	m.SearchQueriesTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_search_queries_total",
			Help: "Total number of search queries",
		},
		[]string{"mode"},
	)

	m.SearchResultsTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "portal_search_results_total",
			Help: "Total number of search results returned",
		},
	)

	return m
}

// ObserveFetch records one content API request.
func (m *Metrics) ObserveFetch(resource string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	m.ContentFetchesTotal.WithLabelValues(resource, statusLabel(err)).Inc()
	m.ContentFetchDuration.WithLabelValues(resource).Observe(elapsed.Seconds())
}

// ObserveValidation records one token validation.
func (m *Metrics) ObserveValidation(err error) {
	if m == nil {
		return
	}
	m.AuthValidationsTotal.WithLabelValues(statusLabel(err)).Inc()
}

// ObserveLogin records one login attempt.
func (m *Metrics) ObserveLogin(err error) {
	if m == nil {
		return
	}
	m.LoginsTotal.WithLabelValues(statusLabel(err)).Inc()
}

// ObserveSearch records one search and the number of results it produced.
func (m *Metrics) ObserveSearch(mode string, results int) {
	if m == nil {
		return
	}
	m.SearchQueriesTotal.WithLabelValues(mode).Inc()
	m.SearchResultsTotal.Add(float64(results))
}

// ObserveRequest records one HTTP request.
func (m *Metrics) ObserveRequest(route string, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(route, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
