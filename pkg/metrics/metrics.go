package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels
const (
	ResultSuccess  = "success"
	ResultError    = "error"
	ResultStale    = "stale"
	ResultDeclined = "declined"
)

// Metrics defines the Prometheus metrics of the dashboard.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	adFetches     *prometheus.CounterVec
	adDeletes     *prometheus.CounterVec
	requests      *prometheus.CounterVec
	requestsTimer *prometheus.HistogramVec
}

// NewMetrics creates the metrics on a fresh registry
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		adFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_ad_fetches_total",
			Help: "Ad list fetches by outcome.",
		}, []string{"result"}),
		adDeletes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_ad_deletes_total",
			Help: "Ad delete requests by outcome.",
		}, []string{"result"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_http_requests_total",
			Help: "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		requestsTimer: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dashboard_http_request_duration_seconds",
			Help:    "Seconds spent serving HTTP requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}

	m.Registry.MustRegister(m.adFetches, m.adDeletes, m.requests, m.requestsTimer)
	return m
}

// RecordFetch counts one ad list fetch
func (m *Metrics) RecordFetch(result string) {
	if m == nil {
		return
	}
	m.adFetches.WithLabelValues(result).Inc()
}

// RecordDelete counts one delete request
func (m *Metrics) RecordDelete(result string) {
	if m == nil {
		return
	}
	m.adDeletes.WithLabelValues(result).Inc()
}

// RecordRequest counts an HTTP request and observes its duration
func (m *Metrics) RecordRequest(route string, code int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	m.requestsTimer.WithLabelValues(route).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
