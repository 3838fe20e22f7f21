package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the notification module.
type Metrics struct {
	DeriveDuration prometheus.Histogram
	Emitted        *prometheus.CounterVec
	Resolutions    *prometheus.CounterVec
}

// New creates a new Metrics instance with all notification module metrics registered.
func New() *Metrics {
	return &Metrics{
		DeriveDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "gatepass_notification_derive_duration_seconds",
			Help:    "Duration of full notification feed derivations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		Emitted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "gatepass_notifications_emitted_total",
			Help: "Notifications emitted by derivations, by category",
		}, []string{"type"}),
		Resolutions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "gatepass_notification_resolutions_total",
			Help: "Resolution actions, split by first-time and repeat",
		}, []string{"outcome"}),
	}
}

// ObserveDerive records the duration of one feed derivation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveDerive(start time.Time) {
	if m == nil {
		return
	}
	m.DeriveDuration.Observe(time.Since(start).Seconds())
}

// IncrementEmitted records notifications emitted for one category.
func (m *Metrics) IncrementEmitted(notifType string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.Emitted.WithLabelValues(notifType).Add(float64(n))
}

// IncrementResolution records one resolve action.
func (m *Metrics) IncrementResolution(outcome string) {
	if m == nil {
		return
	}
	m.Resolutions.WithLabelValues(outcome).Inc()
}
