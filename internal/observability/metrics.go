package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds the prometheus collectors exported by the service.
type Metrics struct {
	registry *prometheus.Registry

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	errors          *prometheus.CounterVec
	flushes         *prometheus.CounterVec
	connections     prometheus.Gauge
	frames          *prometheus.CounterVec
}

// NewMetrics registers collectors on a private registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "issueflow_http_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "issueflow_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "issueflow_http_errors_total",
			Help: "Error responses by route, method and error code.",
		}, []string{"route", "method", "code"}),
		flushes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "issueflow_store_flushes_total",
			Help: "Document writes by backend and result.",
		}, []string{"backend", "result"}),
		connections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "issueflow_realtime_connections",
			Help: "Open realtime sessions.",
		}),
		frames: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "issueflow_realtime_frames_total",
			Help: "Realtime frames by event and outcome.",
		}, []string{"event", "outcome"}),
	}
	reg.MustRegister(
		m.requests,
		m.requestDuration,
		m.errors,
		m.flushes,
		m.connections,
		m.frames,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the registry for the /metrics handler.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(path, method).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(path, method, code).Inc()
}

// RecordFlush counts one document write attempt outcome.
func (m *Metrics) RecordFlush(backend string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.flushes.WithLabelValues(backend, result).Inc()
}

// ConnectionOpened tracks a new realtime session.
func (m *Metrics) ConnectionOpened() {
	if m == nil {
		return
	}
	m.connections.Inc()
}

// ConnectionClosed tracks a finished realtime session.
func (m *Metrics) ConnectionClosed() {
	if m == nil {
		return
	}
	m.connections.Dec()
}

// RecordFrame counts a realtime frame as sent or dropped.
func (m *Metrics) RecordFrame(event string, delivered bool) {
	if m == nil {
		return
	}
	outcome := "sent"
	if !delivered {
		outcome = "dropped"
	}
	m.frames.WithLabelValues(event, outcome).Inc()
}
