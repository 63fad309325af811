package observe

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is an Observer counting events per wrapped function name and kind.
type Metrics struct {
	EventsTotal *prometheus.CounterVec
}

// NewMetrics creates Metrics and registers its collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		EventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ratefunc_events_total",
				Help: "Total events reported by debounced and throttled functions",
			},
			[]string{"name", "kind"},
		),
	}

	reg.MustRegister(m.EventsTotal)

	return m
}

func (m *Metrics) Observe(e Event) {
	m.EventsTotal.WithLabelValues(e.Name, e.Kind.String()).Inc()
}
