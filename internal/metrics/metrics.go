// Package metrics exposes Prometheus counters for dataset loads, view
// construction and HTTP traffic. Each Metrics owns its registry, so tests and
// multiple servers in one process do not collide.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"happydash.dev/internal/happiness"
)

const namespace = "happydash"

type Metrics struct {
	registry *prometheus.Registry

	// DatasetLoads counts load attempts. Labels: result (success, error)
	DatasetLoads *prometheus.CounterVec
	// DatasetRecords is the row count of the dataset currently served.
	DatasetRecords prometheus.Gauge
	// ViewsServed counts views by kind and whether they came from the cache.
	ViewsServed *prometheus.CounterVec
	// HTTPRequests counts requests. Labels: route, method, status
	HTTPRequests *prometheus.CounterVec
	// HTTPDuration observes request latency per route.
	HTTPDuration *prometheus.HistogramVec
}

// New registers every collector on a fresh registry, along with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		DatasetLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dataset",
			Name:      "loads_total",
			Help:      "Dataset load attempts by result.",
		}, []string{"result"}),
		DatasetRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "dataset",
			Name:      "records",
			Help:      "Rows in the dataset currently served.",
		}),
		ViewsServed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "views",
			Name:      "served_total",
			Help:      "Views served by kind and cache outcome.",
		}, []string{"kind", "cache"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}

	reg.MustRegister(
		m.DatasetLoads,
		m.DatasetRecords,
		m.ViewsServed,
		m.HTTPRequests,
		m.HTTPDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// DatasetLoaded implements happiness.Observer.
func (m *Metrics) DatasetLoaded(records int, err error) {
	if err != nil {
		m.DatasetLoads.WithLabelValues("error").Inc()
		return
	}
	m.DatasetLoads.WithLabelValues("success").Inc()
	m.DatasetRecords.Set(float64(records))
}

// ViewServed implements happiness.Observer.
func (m *Metrics) ViewServed(kind happiness.ViewKind, cached bool) {
	outcome := "miss"
	if cached {
		outcome = "hit"
	}
	m.ViewsServed.WithLabelValues(string(kind), outcome).Inc()
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(route, method string, status int, elapsed time.Duration) {
	m.HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

var _ happiness.Observer = (*Metrics)(nil)
