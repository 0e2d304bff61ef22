package eligibility

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the eligibility module.
type Metrics struct {
	// Decisions by outcome and reason
	Decisions *prometheus.CounterVec

	// Full evaluation latency including store lookups
	EvaluateLatency prometheus.Histogram
}

func NewMetrics() *Metrics {
	return &Metrics{
		Decisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "studiogate_eligibility_decisions_total",
			Help: "Total eligibility decisions by outcome and reason",
		}, []string{"outcome", "reason"}),

		EvaluateLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "studiogate_eligibility_evaluate_duration_seconds",
			Help:    "Duration of full eligibility evaluation including store lookups",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// IncrementDecision records a decision outcome.
func (m *Metrics) IncrementDecision(outcome, reason string) {
	if m != nil {
		m.Decisions.WithLabelValues(outcome, reason).Inc()
	}
}

// ObserveEvaluateLatency records the total evaluation duration.
func (m *Metrics) ObserveEvaluateLatency(d time.Duration) {
	if m != nil {
		m.EvaluateLatency.Observe(d.Seconds())
	}
}
