// Package metrics provides Prometheus-compatible metrics collection for the
// collector. Collectors are registered on a caller-supplied registerer so a
// run can own its registry and dump it to a textfile at exit.
package metrics

import (
	"regexp"

	"github.com/prometheus/client_golang/prometheus"
)

var invalidNameChars = regexp.MustCompile(`[^a-zA-Z0-9_]`)

// PrometheusMetrics implements the Metrics interface using the Prometheus client library.
type PrometheusMetrics struct {
	namespace string
	subsystem string

	// processedTotal tracks processed items by status (success/error/skipped) and type
	processedTotal *prometheus.CounterVec
	// errorsTotal tracks errors by error type and operation
	errorsTotal *prometheus.CounterVec
	// skippedTotal tracks items that were skipped, by reason and operation
	skippedTotal *prometheus.CounterVec
	// durationSeconds tracks operation duration
	durationSeconds *prometheus.HistogramVec
	// fileSizeBytes tracks stored file sizes
	fileSizeBytes *prometheus.HistogramVec
	// inProgress tracks operations currently in progress
	inProgress *prometheus.GaugeVec
}

// New creates a PrometheusMetrics instance and registers its collectors.
// Names become {namespace}_{subsystem}_{metric}; characters Prometheus does
// not allow in names are replaced by underscores.
//
// Pre-configured metrics:
//   - processed_total{status,type}
//   - errors_total{error_type,operation}
//   - skipped_total{reason,operation}
//   - duration_seconds{operation}
//   - file_size_bytes{file_type}
//   - in_progress{operation}
//
// Panics if registration fails (e.g., the same component registered twice
// on one registry).
func New(namespace, subsystem string, reg prometheus.Registerer) *PrometheusMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &PrometheusMetrics{
		namespace: SanitizeName(namespace),
		subsystem: SanitizeName(subsystem),
	}

	m.processedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "processed_total",
			Help:      "Total processed items by status and type.",
		},
		[]string{"status", "type"},
	)

	m.errorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_total",
			Help:      "Total errors by error type and operation.",
		},
		[]string{"error_type", "operation"},
	)

	m.skippedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "skipped_total",
			Help:      "Total skipped items by reason and operation.",
		},
		[]string{"reason", "operation"},
	)

	m.durationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "duration_seconds",
			Help:      "Operation duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// Buckets: 1KB, 10KB, 100KB, 1MB, 10MB
	m.fileSizeBytes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "file_size_bytes",
			Help:      "Sizes of stored files in bytes.",
			Buckets:   []float64{1024, 10240, 102400, 1048576, 10485760},
		},
		[]string{"file_type"},
	)

	m.inProgress = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "in_progress",
			Help:      "Operations in progress.",
		},
		[]string{"operation"},
	)

	reg.MustRegister(
		m.processedTotal,
		m.errorsTotal,
		m.skippedTotal,
		m.durationSeconds,
		m.fileSizeBytes,
		m.inProgress,
	)

	return m
}

// RecordSuccess increments processed_total with status="success".
func (m *PrometheusMetrics) RecordSuccess(operationType string) {
	m.processedTotal.WithLabelValues("success", operationType).Inc()
}

// RecordError increments both processed_total (status="error") and the
// detailed errors_total counter.
func (m *PrometheusMetrics) RecordError(operationType string, errorType string) {
	m.processedTotal.WithLabelValues("error", operationType).Inc()
	m.errorsTotal.WithLabelValues(errorType, operationType).Inc()
}

// RecordSkipped increments both processed_total (status="skipped") and skipped_total.
func (m *PrometheusMetrics) RecordSkipped(operationType string, reason string) {
	m.processedTotal.WithLabelValues("skipped", operationType).Inc()
	m.skippedTotal.WithLabelValues(reason, operationType).Inc()
}

// RecordDuration records the duration of an operation in seconds.
//
// Example:
//
//	start := time.Now()
//	// ... perform operation ...
//	metrics.RecordDuration("download", time.Since(start).Seconds())
func (m *PrometheusMetrics) RecordDuration(operation string, duration float64) {
	m.durationSeconds.WithLabelValues(operation).Observe(duration)
}

// RecordFileSize records the size of a stored file in bytes.
func (m *PrometheusMetrics) RecordFileSize(fileType string, bytes int64) {
	m.fileSizeBytes.WithLabelValues(fileType).Observe(float64(bytes))
}

// StartOperation increments the in-progress gauge for an operation.
//
// Example:
//
//	metrics.StartOperation("collect")
//	defer metrics.EndOperation("collect")
func (m *PrometheusMetrics) StartOperation(operation string) {
	m.inProgress.WithLabelValues(operation).Inc()
}

// EndOperation decrements the in-progress gauge for an operation.
func (m *PrometheusMetrics) EndOperation(operation string) {
	m.inProgress.WithLabelValues(operation).Dec()
}

// SanitizeName turns an arbitrary identifier into a valid metric name fragment.
func SanitizeName(name string) string {
	return invalidNameChars.ReplaceAllString(name, "_")
}
