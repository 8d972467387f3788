package notifier

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the Prometheus collectors updated by a Notifier.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	published     prometheus.Counter
	deliveries    prometheus.Counter
	dropped       prometheus.Counter
	registrations prometheus.Gauge
	topics        prometheus.Gauge
}

// NewMetrics creates the collectors and registers them on reg when it is not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		published: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "notifier",
			Name:      "published_total",
			Help:      "Total number of published events",
		}),
		deliveries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "notifier",
			Name:      "deliveries_total",
			Help:      "Total number of events enqueued to registrations",
		}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "notifier",
			Name:      "dropped_total",
			Help:      "Events discarded by bounded registration queues",
		}),
		registrations: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "notifier",
			Name:      "registrations",
			Help:      "Current number of registrations",
		}),
		topics: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "notifier",
			Name:      "topics",
			Help:      "Current number of distinct registered topics",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.published, m.deliveries, m.dropped, m.registrations, m.topics)
	}
	return m
}

func (m *Metrics) observePublish(deliveries, dropped int) {
	if m == nil {
		return
	}
	m.published.Inc()
	m.deliveries.Add(float64(deliveries))
	m.dropped.Add(float64(dropped))
}

func (m *Metrics) setSize(registrations, topics int) {
	if m == nil {
		return
	}
	m.registrations.Set(float64(registrations))
	m.topics.Set(float64(topics))
}
