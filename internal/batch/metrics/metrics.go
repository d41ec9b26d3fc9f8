package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks batch registry lifecycle.
type Metrics struct {
	BatchesCreated   prometheus.Counter
	BatchesCompleted prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		BatchesCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "soulmint_batches_created_total",
			Help: "Total number of batch registries created",
		}),
		BatchesCompleted: f.NewCounter(prometheus.CounterOpts{
			Name: "soulmint_batches_completed_total",
			Help: "Total number of batches that reached their cap",
		}),
	}
}

func (m *Metrics) IncCreated() {
	if m != nil {
		m.BatchesCreated.Inc()
	}
}

func (m *Metrics) IncCompleted() {
	if m != nil {
		m.BatchesCompleted.Inc()
	}
}
