package main

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the solve collectors, registered on their own registry.
type Metrics struct {
	Registry    *prometheus.Registry
	solves      *prometheus.CounterVec
	iterations  prometheus.Histogram
	escalations prometheus.Counter
}

// NewMetrics registers the solve collectors on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		solves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spell_optimizer_solves_total",
				Help: "Targets solved, by outcome of the final search",
			},
			[]string{"outcome"},
		),
		iterations: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "spell_optimizer_search_iterations",
				Help:    "Casts tried by the final search of each target",
				Buckets: prometheus.ExponentialBuckets(1, 4, 10),
			},
		),
		escalations: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "spell_optimizer_escalations_total",
				Help: "Searches retried with a raised tolerance",
			},
		),
	}
	m.Registry.MustRegister(m.solves, m.iterations, m.escalations)
	return m
}

func (m *Metrics) observe(out SearchOutcome) {
	if m == nil {
		return
	}
	m.solves.WithLabelValues(out.Kind.String()).Inc()
	m.iterations.Observe(float64(out.Iterations))
}

func (m *Metrics) escalated() {
	if m == nil {
		return
	}
	m.escalations.Inc()
}
