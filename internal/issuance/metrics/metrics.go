package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the issuance workflow.
type Metrics struct {
	Outcomes      *prometheus.CounterVec
	StageDuration *prometheus.HistogramVec
	Compensations *prometheus.CounterVec
	IssueDuration prometheus.Histogram
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Outcomes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "soulmint_issuance_outcomes_total",
			Help: "Issuance attempts by result (issued or error code)",
		}, []string{"result"}),
		StageDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "soulmint_issuance_stage_duration_seconds",
			Help:    "Duration of each issuance stage",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"stage"}),
		Compensations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "soulmint_issuance_compensations_total",
			Help: "Compensating actions run after a failed issuance, by stage and result",
		}, []string{"stage", "result"}),
		IssueDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "soulmint_issuance_duration_seconds",
			Help:    "End-to-end issuance duration including lock wait",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
	}
}

func (m *Metrics) IncOutcome(result string) {
	if m != nil {
		m.Outcomes.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) ObserveStage(stage string, start time.Time) {
	if m != nil {
		m.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) IncCompensation(stage string, ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "failed"
	}
	m.Compensations.WithLabelValues(stage, result).Inc()
}

// ObserveIssue records end-to-end duration. Call with time.Now() at the start.
func (m *Metrics) ObserveIssue(start time.Time) {
	if m != nil {
		m.IssueDuration.Observe(time.Since(start).Seconds())
	}
}
