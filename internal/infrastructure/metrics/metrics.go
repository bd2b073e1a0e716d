package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Cache lookup outcomes
const (
	OutcomeHit        = "hit"
	OutcomeMiss       = "miss"
	OutcomeExpired    = "expired"
	OutcomeCorrupt    = "corrupt"
	OutcomeStoreError = "store_error"
)

// Metrics holds the collectors exported by the service. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	CacheLookupsTotal       *prometheus.CounterVec
	RemoteFetchesTotal      *prometheus.CounterVec
	StoreWriteFailuresTotal *prometheus.CounterVec
}

// NewMetrics creates the collectors on a fresh registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"path", "method", "status_code"},
		),

		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"path", "method"},
		),

		CacheLookupsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rate_cache_lookups_total",
				Help: "Total number of cache lookups by snapshot kind and outcome",
			},
			[]string{"kind", "outcome"},
		),

		RemoteFetchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rate_remote_fetches_total",
				Help: "Total number of remote rate fetches by snapshot kind and status",
			},
			[]string{"kind", "status"},
		),

		StoreWriteFailuresTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rate_cache_store_write_failures_total",
				Help: "Total number of snapshots that could not be persisted",
			},
			[]string{"kind"},
		),
	}
}

// Handler exposes the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// CacheLookup records the outcome of one cache lookup
func (m *Metrics) CacheLookup(kind, outcome string) {
	if m == nil {
		return
	}
	m.CacheLookupsTotal.WithLabelValues(kind, outcome).Inc()
}

// RemoteFetch records one remote fetch and whether it failed
func (m *Metrics) RemoteFetch(kind string, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.RemoteFetchesTotal.WithLabelValues(kind, status).Inc()
}

// StoreWriteFailure records a snapshot that was returned but not persisted
func (m *Metrics) StoreWriteFailure(kind string) {
	if m == nil {
		return
	}
	m.StoreWriteFailuresTotal.WithLabelValues(kind).Inc()
}

// ObserveHTTPRequest records one served request
func (m *Metrics) ObserveHTTPRequest(path, method string, statusCode int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(path, method, strconv.Itoa(statusCode)).Inc()
	m.HTTPRequestDuration.WithLabelValues(path, method).Observe(duration.Seconds())
}
