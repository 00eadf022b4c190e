package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for the reminder sweep. HTTP request
// metrics are registered separately by the router middleware.
type Metrics struct {
	ReminderSweeps    prometheus.Counter
	RemindersSent     prometheus.Counter
	ReminderFailures  prometheus.Counter
	ReminderSweepTime prometheus.Histogram
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		ReminderSweeps: promauto.NewCounter(prometheus.CounterOpts{
			Name: "prestamos_reminder_sweeps_total",
			Help: "Total number of reminder sweep runs",
		}),
		RemindersSent: promauto.NewCounter(prometheus.CounterOpts{
			Name: "prestamos_reminders_sent_total",
			Help: "Total number of reminder messages sent",
		}),
		ReminderFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "prestamos_reminder_failures_total",
			Help: "Total number of reminder messages that failed to send",
		}),
		ReminderSweepTime: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "prestamos_reminder_sweep_duration_seconds",
			Help:    "Duration of reminder sweep runs",
			Buckets: prometheus.DefBuckets,
		}),
	}
}
