package dispatch

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds Prometheus metrics for the dispatch subsystem. A nil
// *Metrics is a no-op.
type Metrics struct {
	Evaluations *prometheus.CounterVec
	Pushes      *prometheus.CounterVec
}

// NewMetrics registers and returns dispatch metrics on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "aftercare_dispatch_evaluations_total",
			Help: "Total dispatch evaluations by outcome.",
		}, []string{"outcome"}),
		Pushes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "aftercare_pushes_total",
			Help: "Total push attempts by type and outcome.",
		}, []string{"type", "outcome"}),
	}

	reg.MustRegister(m.Evaluations, m.Pushes)
	return m
}

func (m *Metrics) evaluation(outcome string) {
	if m == nil {
		return
	}
	m.Evaluations.WithLabelValues(outcome).Inc()
}

func (m *Metrics) push(t PushType, outcome string) {
	if m == nil {
		return
	}
	m.Pushes.WithLabelValues(string(t), outcome).Inc()
}
