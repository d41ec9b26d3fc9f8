package publisher

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for event emission.
type Metrics struct {
	Emitted         *prometheus.CounterVec
	Dropped         prometheus.Counter
	PersistFailures prometheus.Counter
}

// NewMetrics registers event publisher metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Emitted: f.NewCounterVec(prometheus.CounterOpts{
			Name: "soulmint_events_emitted_total",
			Help: "Total number of events persisted by kind",
		}, []string{"kind"}),
		Dropped: f.NewCounter(prometheus.CounterOpts{
			Name: "soulmint_events_dropped_total",
			Help: "Total number of operational events dropped because the buffer was full",
		}),
		PersistFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "soulmint_events_persist_failures_total",
			Help: "Total number of event persistence failures",
		}),
	}
}

func (m *Metrics) incEmitted(kind string) {
	if m != nil {
		m.Emitted.WithLabelValues(kind).Inc()
	}
}

func (m *Metrics) incDropped() {
	if m != nil {
		m.Dropped.Inc()
	}
}

func (m *Metrics) incPersistFailures() {
	if m != nil {
		m.PersistFailures.Inc()
	}
}
