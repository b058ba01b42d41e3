package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics covers all issued assets; one instance is shared process-wide and
// label dimensions keep cardinality bounded (enums only, never holder
// addresses).
type Metrics struct {
	OperationsTotal       *prometheus.CounterVec
	ValidationsTotal      *prometheus.CounterVec
	ValidationDurationSec prometheus.Histogram
	ReentrantAbortsTotal  prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		OperationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "assetgate_ledger_operations_total",
			Help: "Ledger operations by asset kind, classification, and outcome",
		}, []string{"kind", "classification", "outcome"}),
		ValidationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "assetgate_validations_total",
			Help: "Validator gateway dispatches by classification and outcome",
		}, []string{"classification", "outcome"}),
		ValidationDurationSec: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "assetgate_validation_duration_seconds",
			Help:    "Latency of external validator calls",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2},
		}),
		ReentrantAbortsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "assetgate_reentrant_aborts_total",
			Help: "Mutations rejected by the per-asset reentrancy guard",
		}),
	}
}

// Outcome labels.
const (
	OutcomeApplied  = "applied"
	OutcomeRejected = "rejected"
	OutcomeAborted  = "aborted"
	OutcomeAllowed  = "allowed"
	OutcomeError    = "error"
)

func (m *Metrics) IncrementOperation(kind, classification, outcome string) {
	if m == nil {
		return
	}
	m.OperationsTotal.WithLabelValues(kind, classification, outcome).Inc()
}

func (m *Metrics) IncrementValidation(classification, outcome string) {
	if m == nil {
		return
	}
	m.ValidationsTotal.WithLabelValues(classification, outcome).Inc()
}

func (m *Metrics) ObserveValidationDuration(seconds float64) {
	if m == nil {
		return
	}
	m.ValidationDurationSec.Observe(seconds)
}

func (m *Metrics) IncrementReentrantAborts() {
	if m == nil {
		return
	}
	m.ReentrantAbortsTotal.Inc()
}
