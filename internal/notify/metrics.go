package notify

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks notification delivery outcomes.
type Metrics struct {
	Dispatched  prometheus.Counter
	Failed      prometheus.Counter
	DeadLetters prometheus.Counter
}

func NewMetrics() *Metrics {
	return &Metrics{
		Dispatched: promauto.NewCounter(prometheus.CounterOpts{
			Name: "driveops_notify_dispatched_total",
			Help: "Notifications successfully handed to the transport",
		}),
		Failed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "driveops_notify_failed_total",
			Help: "Notifications the transport rejected",
		}),
		DeadLetters: promauto.NewCounter(prometheus.CounterOpts{
			Name: "driveops_notify_dead_letters_total",
			Help: "Failed notifications stored for replay",
		}),
	}
}

// IncDispatched records a successful handoff.
func (m *Metrics) IncDispatched() {
	if m != nil {
		m.Dispatched.Inc()
	}
}

// IncFailed records a delivery failure.
func (m *Metrics) IncFailed() {
	if m != nil {
		m.Failed.Inc()
	}
}

// IncDeadLetter records a message routed to the dead letter sink.
func (m *Metrics) IncDeadLetter() {
	if m != nil {
		m.DeadLetters.Inc()
	}
}
