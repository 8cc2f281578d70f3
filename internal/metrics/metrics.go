package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors shared by the storage layer,
// the reminder scheduler and the HTTP middleware
type Metrics struct {
	registry *prometheus.Registry

	KVOperations      *prometheus.CounterVec
	KVDuration        *prometheus.HistogramVec
	RemindersSent     *prometheus.CounterVec
	HTTPRequests      *prometheus.CounterVec
	HTTPRequestLength *prometheus.HistogramVec
}

// New creates and registers all collectors on a fresh registry
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		KVOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "taskboard",
				Name:      "kv_operations_total",
				Help:      "Total number of key-value backend operations",
			},
			[]string{"backend", "op", "result"},
		),
		KVDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "taskboard",
				Name:      "kv_operation_duration_seconds",
				Help:      "Key-value backend operation duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"backend", "op"},
		),
		RemindersSent: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "taskboard",
				Name:      "reminders_total",
				Help:      "Deadline reminders by delivery result",
			},
			[]string{"result"},
		),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestLength: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.KVOperations,
		m.KVDuration,
		m.RemindersSent,
		m.HTTPRequests,
		m.HTTPRequestLength,
	)

	return m
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
