package dashboard

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "studioboard"

type Metrics struct {
	recomputes prometheus.Counter
	reloads    *prometheus.CounterVec
}

// NewMetrics registers the dashboard metrics on reg, nil gives a no-op set.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return nil
	}
	m := &Metrics{
		recomputes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dashboard_recomputes_total",
			Help:      "Total number of dashboard views computed.",
		}),
		reloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_reloads_total",
			Help:      "Snapshot reloads by collection and result.",
		}, []string{"collection", "result"}),
	}
	reg.MustRegister(m.recomputes, m.reloads)
	return m
}

func (m *Metrics) incRecompute() {
	if m == nil {
		return
	}
	m.recomputes.Inc()
}

func (m *Metrics) incReload(collection string, ok bool) {
	if m == nil {
		return
	}
	result := "success"
	if !ok {
		result = "failure"
	}
	m.reloads.WithLabelValues(collection, result).Inc()
}

func (m *Metrics) Reloads() *prometheus.CounterVec {
	return m.reloads
}
