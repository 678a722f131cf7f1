package triage

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds Prometheus metrics for the triage subsystem. A nil
// *Metrics is a no-op so tests and dev wiring can skip registration.
type Metrics struct {
	ReportsTotal  *prometheus.CounterVec
	AlertsCreated *prometheus.CounterVec
	Retriages     prometheus.Counter
	Transitions   *prometheus.CounterVec
}

// NewMetrics registers and returns triage metrics on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ReportsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "aftercare_reports_total",
			Help: "Total symptom reports by triage outcome.",
		}, []string{"outcome"}),
		AlertsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "aftercare_alerts_created_total",
			Help: "Total alerts created by level.",
		}, []string{"level"}),
		Retriages: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "aftercare_alert_retriages_total",
			Help: "Total in-place re-triages of an open alert.",
		}),
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "aftercare_alert_transitions_total",
			Help: "Total alert transition attempts by target status and outcome.",
		}, []string{"to", "outcome"}),
	}

	reg.MustRegister(
		m.ReportsTotal,
		m.AlertsCreated,
		m.Retriages,
		m.Transitions,
	)

	return m
}

func (m *Metrics) reportOutcome(outcome string) {
	if m == nil {
		return
	}
	m.ReportsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) alertCreated(level Level) {
	if m == nil {
		return
	}
	m.AlertsCreated.WithLabelValues(string(level)).Inc()
}

func (m *Metrics) retriage() {
	if m == nil {
		return
	}
	m.Retriages.Inc()
}

func (m *Metrics) transition(to Status, outcome string) {
	if m == nil {
		return
	}
	m.Transitions.WithLabelValues(string(to), outcome).Inc()
}
