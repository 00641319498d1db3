package scheduler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for the notification scheduler.
type Metrics struct {
	// Pending is the number of armed timers.
	Pending prometheus.Gauge

	// ScheduleRuns counts full recomputes.
	ScheduleRuns prometheus.Counter

	// Deliveries counts notifications by channel and status.
	Deliveries *prometheus.CounterVec
}

// NewMetrics creates scheduler metrics and registers them on reg.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Pending: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "notifications_pending",
			Help:      "Current number of armed notification timers",
		}),
		ScheduleRuns: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "schedule_runs_total",
			Help:      "Total number of schedule recomputes",
		}),
		Deliveries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "notifications_delivered_total",
				Help:      "Total number of notification deliveries",
			},
			[]string{"channel", "status"},
		),
	}
}

func (m *Metrics) setPending(n int) {
	if m != nil {
		m.Pending.Set(float64(n))
	}
}

func (m *Metrics) incRuns() {
	if m != nil {
		m.ScheduleRuns.Inc()
	}
}

func (m *Metrics) incDelivery(channel, status string) {
	if m != nil {
		m.Deliveries.WithLabelValues(channel, status).Inc()
	}
}
