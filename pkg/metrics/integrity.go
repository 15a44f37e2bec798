package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OutcomeOK labels mutations that committed.
const OutcomeOK = "ok"

// IntegrityMetrics records the outcome and latency of integrity-layer mutations.
type IntegrityMetrics struct {
	duration *prometheus.HistogramVec
	outcomes *prometheus.CounterVec
}

// NewIntegrityMetrics registers the integrity metrics on the provided registerer.
func NewIntegrityMetrics(reg prometheus.Registerer) *IntegrityMetrics {
	if reg == nil {
		return &IntegrityMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "integrity_operation_duration_seconds",
		Help:    "Duration of integrity-checked mutations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "kind"})
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "integrity_operation_total",
		Help: "Integrity-checked mutations by outcome code.",
	}, []string{"operation", "kind", "code"})
	reg.MustRegister(duration, outcomes)
	return &IntegrityMetrics{
		duration: duration,
		outcomes: outcomes,
	}
}

// Observe records one finished operation. code is OutcomeOK or an error code.
func (m *IntegrityMetrics) Observe(operation, kind, code string, duration time.Duration) {
	if m == nil || m.duration == nil || m.outcomes == nil {
		return
	}
	operation = normalizeLabel(operation)
	kind = normalizeLabel(kind)
	m.duration.WithLabelValues(operation, kind).Observe(duration.Seconds())
	m.outcomes.WithLabelValues(operation, kind, normalizeLabel(code)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
