package state

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "homework_notifier"

// Metrics groups the collectors updated by the poll process.
type Metrics struct {
	cycles        *prometheus.CounterVec
	errors        *prometheus.CounterVec
	notifications *prometheus.CounterVec
	watermark     prometheus.Gauge
	lastSuccess   prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg. A nil
// registerer leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		cycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "poll_cycles_total",
			Help:      "Poll cycles by result (ok, empty, error).",
		}, []string{"result"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "poll_errors_total",
			Help:      "Failed poll cycles by error kind.",
		}, []string{"kind"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "notifications_total",
			Help:      "Notification attempts by type (status, alert) and result (sent, failed, suppressed).",
		}, []string{"type", "result"}),
		watermark: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "watermark_seconds",
			Help:      "Current from_date watermark as a unix timestamp.",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful poll cycle.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.cycles, m.errors, m.notifications, m.watermark, m.lastSuccess)
	}
	return m
}

const (
	cycleOK    = "ok"
	cycleEmpty = "empty"
	cycleError = "error"

	notifyStatus = "status"
	notifyAlert  = "alert"

	notifySent       = "sent"
	notifyFailed     = "failed"
	notifySuppressed = "suppressed"
)
