package reporter

import "github.com/prometheus/client_golang/prometheus"

const (
	outcomeDelivered = "delivered"
	outcomeFailed    = "failed"
	outcomeDropped   = "dropped"
)

// Metrics holds the set of metrics a Reporter exposes.
type Metrics struct {
	eventsTotal *prometheus.CounterVec
}

// NewMetrics creates Metrics and registers them on reg. A nil reg skips
// registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		eventsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "errbridge_events_total",
			Help: "Error events handled, partitioned by delivery outcome.",
		}, []string{"outcome"}),
	}
	if reg != nil {
		reg.MustRegister(m.eventsTotal)
	}
	return m
}
