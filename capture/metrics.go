package capture

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes Prometheus collectors shared by the ingestion watchers.
type Metrics struct {
	recordsCaptured      *prometheus.CounterVec
	duplicatesSuppressed *prometheus.CounterVec
	sourceErrors         *prometheus.CounterVec
	appendFailures       prometheus.Counter
}

var (
	defaultMetricsOnce sync.Once
	sharedMetrics      *Metrics
)

// DefaultMetrics returns the package-level metrics instance registered with
// the global Prometheus registry. Collectors are created once to avoid
// duplicate registration panics when components are instantiated multiple
// times in tests.
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		sharedMetrics = MustNewMetrics(prometheus.DefaultRegisterer)
	})
	return sharedMetrics
}

// MustNewMetrics constructs a Metrics instance using the provided
// registerer. Registration errors panic, mirroring promauto semantics.
func MustNewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	recordsCaptured := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "memoryos",
			Subsystem: "capture",
			Name:      "records_total",
			Help:      "Total metadata records appended, by source and content type.",
		},
		[]string{"source", "content_type"},
	)
	duplicatesSuppressed := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "memoryos",
			Subsystem: "capture",
			Name:      "duplicates_suppressed_total",
			Help:      "Captures suppressed by the dedup window, by source.",
		},
		[]string{"source"},
	)
	sourceErrors := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "memoryos",
			Subsystem: "capture",
			Name:      "source_errors_total",
			Help:      "Errors reading from a watched data source, by source.",
		},
		[]string{"source"},
	)
	appendFailures := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "memoryos",
			Subsystem: "capture",
			Name:      "store_append_failures_total",
			Help:      "Failed metadata store appends.",
		},
	)

	reg.MustRegister(recordsCaptured, duplicatesSuppressed, sourceErrors, appendFailures)

	return &Metrics{
		recordsCaptured:      recordsCaptured,
		duplicatesSuppressed: duplicatesSuppressed,
		sourceErrors:         sourceErrors,
		appendFailures:       appendFailures,
	}
}

// RecordCaptured increments the capture counter for a record.
func (m *Metrics) RecordCaptured(source string, ct ContentType) {
	m.recordsCaptured.WithLabelValues(source, string(ct)).Inc()
}

// DuplicateSuppressed increments the dedup suppression counter.
func (m *Metrics) DuplicateSuppressed(source string) {
	m.duplicatesSuppressed.WithLabelValues(source).Inc()
}

// SourceError increments the source read error counter.
func (m *Metrics) SourceError(source string) {
	m.sourceErrors.WithLabelValues(source).Inc()
}
