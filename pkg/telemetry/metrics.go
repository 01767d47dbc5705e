package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics provides Prometheus metrics for repository operations. A nil or
// disabled Metrics records nothing.
type Metrics struct {
	config MetricsConfig

	opsTotal    *prometheus.CounterVec
	opErrors    *prometheus.CounterVec
	opDuration  *prometheus.HistogramVec
	recordCount *prometheus.GaugeVec

	registry *prometheus.Registry
}

// NewMetrics creates a new metrics collector with the given configuration.
func NewMetrics(cfg MetricsConfig) (*Metrics, error) {
	if !cfg.Enabled {
		// Return a no-op metrics instance
		return &Metrics{config: cfg}, nil
	}

	namespace := cfg.Namespace
	buckets := cfg.DefaultHistogramBuckets
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}

	registry := prometheus.NewRegistry()

	m := &Metrics{
		config:   cfg,
		registry: registry,

		opsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "operations_total",
				Help:      "Total number of repository operations",
			},
			[]string{"model", "backend", "operation"},
		),
		opErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "operation_errors_total",
				Help:      "Total number of failed repository operations",
			},
			[]string{"model", "backend", "operation"},
		),
		opDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "operation_duration_seconds",
				Help:      "Duration of repository operations in seconds",
				Buckets:   buckets,
			},
			[]string{"model", "backend", "operation"},
		),
		recordCount: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "records",
				Help:      "Record count observed by the most recent count operation",
			},
			[]string{"model", "backend"},
		),
	}

	registry.MustRegister(
		m.opsTotal,
		m.opErrors,
		m.opDuration,
		m.recordCount,
	)

	return m, nil
}

// RecordOperation records one repository operation with its outcome.
func (m *Metrics) RecordOperation(model, backend, operation string, duration time.Duration, err error) {
	if m == nil || m.opsTotal == nil {
		return
	}
	m.opsTotal.WithLabelValues(model, backend, operation).Inc()
	m.opDuration.WithLabelValues(model, backend, operation).Observe(duration.Seconds())
	if err != nil {
		m.opErrors.WithLabelValues(model, backend, operation).Inc()
	}
}

// SetRecordCount publishes the record total from a count operation.
func (m *Metrics) SetRecordCount(model, backend string, count int64) {
	if m == nil || m.recordCount == nil {
		return
	}
	m.recordCount.WithLabelValues(model, backend).Set(float64(count))
}

// Handler returns an HTTP handler serving the metrics registry, or nil when
// metrics are disabled.
func (m *Metrics) Handler() http.Handler {
	if m == nil || m.registry == nil {
		return nil
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for callers that mount metrics on
// their own mux.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}
