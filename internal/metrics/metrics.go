// Package metrics holds the prometheus collectors for the search pipeline,
// search sessions and the HTTP surface.
//
// All Record methods are safe to call on a nil *Metrics, so components can
// run without instrumentation.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "cocktail_search"

// Metrics is a set of collectors bound to one registry.
type Metrics struct {
	registry *prometheus.Registry

	searches         *prometheus.CounterVec
	searchDuration   *prometheus.HistogramVec
	resultCount      prometheus.Histogram
	sourceFailures   *prometheus.CounterVec
	hydrationLookups *prometheus.CounterVec
	staleResponses   prometheus.Counter
	activeSessions   prometheus.Gauge
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
}

// New creates the collectors on a fresh registry that also carries the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		searches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "searches_total",
				Help:      "Pipeline runs by query classification and outcome",
			},
			[]string{"classification", "outcome"},
		),
		searchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "search_duration_seconds",
				Help:      "Pipeline run time in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"classification"},
		),
		resultCount: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "search_results",
				Help:      "Ranked results kept after pruning",
				Buckets:   []float64{0, 1, 5, 10, 20, 40, 60},
			},
		),
		sourceFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "source_failures_total",
				Help:      "Non-fatal lookup failures by source and kind",
			},
			[]string{"source", "kind"},
		),
		hydrationLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "hydration_lookups_total",
				Help:      "Detail lookups made while hydrating candidates",
			},
			[]string{"result"},
		),
		staleResponses: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "stale_responses_total",
				Help:      "Pipeline results dropped because a newer query superseded them",
			},
		),
		activeSessions: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "active_sessions",
				Help:      "Open search sessions",
			},
		),
		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordSearch records one finished pipeline run.
func (m *Metrics) RecordSearch(classification, outcome string, results int, took time.Duration) {
	if m == nil {
		return
	}
	m.searches.WithLabelValues(classification, outcome).Inc()
	m.searchDuration.WithLabelValues(classification).Observe(took.Seconds())
	m.resultCount.Observe(float64(results))
}

// RecordSourceFailure records a lookup that contributed an empty result.
func (m *Metrics) RecordSourceFailure(source, kind string) {
	if m == nil {
		return
	}
	m.sourceFailures.WithLabelValues(source, kind).Inc()
}

// RecordHydration records one detail lookup. result is hit, miss or error.
func (m *Metrics) RecordHydration(result string) {
	if m == nil {
		return
	}
	m.hydrationLookups.WithLabelValues(result).Inc()
}

// RecordStale records a dropped stale response.
func (m *Metrics) RecordStale() {
	if m == nil {
		return
	}
	m.staleResponses.Inc()
}

// SessionOpened increments the open session gauge.
func (m *Metrics) SessionOpened() {
	if m == nil {
		return
	}
	m.activeSessions.Inc()
}

// SessionClosed decrements the open session gauge.
func (m *Metrics) SessionClosed() {
	if m == nil {
		return
	}
	m.activeSessions.Dec()
}

// RecordHTTP records one served request.
func (m *Metrics) RecordHTTP(method, route, status string, took time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, status).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(took.Seconds())
}
