// Package metrics exposes Prometheus collectors for the HTTP surface and the
// advocate directory.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry instead of the global default registerer.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	searchTotal     *prometheus.CounterVec
	searchResults   prometheus.Histogram
	seededTotal     prometheus.Counter
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	searchTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "advocate_search_total",
		Help: "Advocate directory searches, split by whether a search term was given",
	}, []string{"filtered"})

	searchResults := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "advocate_search_results",
		Help:    "Number of advocates matching a search",
		Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 500, 1000},
	})

	seededTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "advocate_seeded_total",
		Help: "Total advocates inserted by the seed operation",
	})

	registry.MustRegister(
		requestTotal, requestDuration, searchTotal, searchResults, seededTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Metrics{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestTotal:    requestTotal,
		requestDuration: requestDuration,
		searchTotal:     searchTotal,
		searchResults:   searchResults,
		seededTotal:     seededTotal,
	}
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the exposition format. A nil receiver answers 503.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	code := strconv.Itoa(status)
	m.requestTotal.WithLabelValues(method, route, code).Inc()
	m.requestDuration.WithLabelValues(method, route, code).Observe(d.Seconds())
}

// ObserveSearch records one directory search and the size of its match set.
func (m *Metrics) ObserveSearch(filtered bool, results int) {
	if m == nil {
		return
	}
	m.searchTotal.WithLabelValues(strconv.FormatBool(filtered)).Inc()
	m.searchResults.Observe(float64(results))
}

// ObserveSeed adds inserted to the seeded counter.
func (m *Metrics) ObserveSeed(inserted int) {
	if m == nil || inserted <= 0 {
		return
	}
	m.seededTotal.Add(float64(inserted))
}
