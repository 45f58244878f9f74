package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the application workflow module.
type Metrics struct {
	TransitionsApplied *prometheus.CounterVec
	TransitionsDenied  *prometheus.CounterVec
	OffersExtended     prometheus.Counter
	OffersAccepted     prometheus.Counter
	TransitionDuration prometheus.Histogram
}

// New creates a Metrics instance with all application module metrics
// registered.
func New() *Metrics {
	return &Metrics{
		TransitionsApplied: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "thiqax_application_transitions_applied_total",
			Help: "Application status transitions applied, by resulting status",
		}, []string{"status"}),
		TransitionsDenied: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "thiqax_application_transitions_denied_total",
			Help: "Application status transitions denied, by violated rule",
		}, []string{"rule"}),
		OffersExtended: promauto.NewCounter(prometheus.CounterOpts{
			Name: "thiqax_application_offers_extended_total",
			Help: "Offers extended to applicants",
		}),
		OffersAccepted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "thiqax_application_offers_accepted_total",
			Help: "Offers accepted by applicants",
		}),
		TransitionDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "thiqax_application_transition_duration_seconds",
			Help:    "Duration of application transition processing",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// ObserveTransition records the duration of one transition request.
func (m *Metrics) ObserveTransition(start time.Time) {
	m.TransitionDuration.Observe(time.Since(start).Seconds())
}

// IncApplied records an applied transition.
func (m *Metrics) IncApplied(status string) {
	m.TransitionsApplied.WithLabelValues(status).Inc()
}

// IncDenied records a denied transition.
func (m *Metrics) IncDenied(rule string) {
	m.TransitionsDenied.WithLabelValues(rule).Inc()
}
