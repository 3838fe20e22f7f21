package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the badge module.
// Tracks per-variant lifecycle counts and cascade failures.
type Metrics struct {
	BadgeCreated    *prometheus.CounterVec
	BadgeDeleted    *prometheus.CounterVec
	CascadeFailures *prometheus.CounterVec
}

// New creates a new Metrics instance with all badge module metrics registered.
func New() *Metrics {
	return &Metrics{
		BadgeCreated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "gatepass_badges_created_total",
			Help: "Total number of badges created, by variant",
		}, []string{"kind"}),
		BadgeDeleted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "gatepass_badges_deleted_total",
			Help: "Total number of badges deleted, by variant",
		}, []string{"kind"}),
		CascadeFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "gatepass_badge_cascade_failures_total",
			Help: "Cascade steps (additions/ledger cleanup) that failed after a badge write",
		}, []string{"step"}),
	}
}

// IncrementCreated records a successful badge creation.
func (m *Metrics) IncrementCreated(kind string) {
	if m == nil {
		return
	}
	m.BadgeCreated.WithLabelValues(kind).Inc()
}

// IncrementDeleted records a successful badge deletion.
func (m *Metrics) IncrementDeleted(kind string) {
	if m == nil {
		return
	}
	m.BadgeDeleted.WithLabelValues(kind).Inc()
}

// IncrementCascadeFailure records a failed cascade step.
func (m *Metrics) IncrementCascadeFailure(step string) {
	if m == nil {
		return
	}
	m.CascadeFailures.WithLabelValues(step).Inc()
}
