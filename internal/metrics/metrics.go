// Package metrics provides Prometheus metrics for docforge.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the document server.
type Metrics struct {
	// Operation metrics
	OperationsTotal   *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec

	// Document metrics
	DocumentsOpen     prometheus.Gauge
	DocumentsSaved    prometheus.Counter
	ReplacementsTotal prometheus.Counter

	// Server metrics
	RequestsTotal       *prometheus.CounterVec
	ServerUptimeSeconds prometheus.Gauge
	ServerStartTime     time.Time
}

// New creates and registers all metrics on the default registry.
func New() *Metrics {
	m := &Metrics{
		ServerStartTime: time.Now(),
	}

	m.OperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docforge_operations_total",
			Help: "Total number of document operations",
		},
		[]string{"operation", "status"},
	)

	m.OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "docforge_operation_duration_seconds",
			Help:    "Duration of document operations in seconds",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation"},
	)

	m.DocumentsOpen = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "docforge_documents_open",
			Help: "Number of documents currently open",
		},
	)

	m.DocumentsSaved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "docforge_documents_saved_total",
			Help: "Total number of document saves",
		},
	)

	m.ReplacementsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "docforge_replacements_total",
			Help: "Total number of text substitutions committed",
		},
	)

	m.RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docforge_requests_total",
			Help: "Total number of transport requests",
		},
		[]string{"method", "status"},
	)

	m.ServerUptimeSeconds = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "docforge_server_uptime_seconds",
			Help: "Server uptime in seconds",
		},
	)

	return m
}

// RecordOperation records one façade operation outcome.
func (m *Metrics) RecordOperation(op string, duration time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.OperationsTotal.WithLabelValues(op, status).Inc()
	m.OperationDuration.WithLabelValues(op).Observe(duration.Seconds())
}

// UpdateUptime refreshes the uptime gauge.
func (m *Metrics) UpdateUptime() {
	m.ServerUptimeSeconds.Set(time.Since(m.ServerStartTime).Seconds())
}

// Handler returns the HTTP handler exposing the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Serve exposes /metrics on addr until the listener fails. Intended to run
// in its own goroutine; the error is returned for logging.
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	return http.ListenAndServe(addr, mux)
}
