package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the document verification module.
type Metrics struct {
	TransitionsApplied *prometheus.CounterVec
	TransitionsDenied  *prometheus.CounterVec
	ExpiryCollapses    prometheus.Counter
	TransitionDuration prometheus.Histogram
}

// New creates a Metrics instance with all document module metrics registered.
func New() *Metrics {
	return &Metrics{
		TransitionsApplied: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "thiqax_document_transitions_applied_total",
			Help: "Document status transitions applied, by resulting status",
		}, []string{"status"}),
		TransitionsDenied: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "thiqax_document_transitions_denied_total",
			Help: "Document status transitions denied, by violated rule",
		}, []string{"rule"}),
		ExpiryCollapses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "thiqax_document_expiry_collapses_total",
			Help: "Documents automatically collapsed to expired",
		}),
		TransitionDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "thiqax_document_transition_duration_seconds",
			Help:    "Duration of document transition processing",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// ObserveTransition records the duration of one transition request.
// Call with time.Now() at the start of the operation.
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

// IncExpiryCollapse records an automatic expiry collapse.
func (m *Metrics) IncExpiryCollapse() {
	m.ExpiryCollapses.Inc()
}
