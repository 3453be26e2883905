package events

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/spatnaik17/scenario-agent-testing-sub000/internal/util"
)

const namespace = "scenario"

// Metrics exposes event delivery counters. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	published  *prometheus.CounterVec
	attempts   *prometheus.CounterVec
	delivered  *prometheus.CounterVec
	dropped    *prometheus.CounterVec
	queueDepth prometheus.Gauge
}

// NewMetrics creates the delivery metrics and registers them with reg.
// Registration is skipped when reg is nil. Collectors already registered
// with reg are reused.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		published: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Total number of lifecycle events published to the bus",
		}, []string{"type"}),
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_delivery_attempts_total",
			Help:      "Total number of event delivery attempts",
		}, []string{"type", "status"}), // status: success, error
		delivered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_delivered_total",
			Help:      "Total number of events delivered to the reporter",
		}, []string{"type"}),
		dropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_dropped_total",
			Help:      "Total number of events dropped after exhausting retries",
		}, []string{"type"}),
		queueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "event_queue_depth",
			Help:      "Number of events waiting for delivery",
		}),
	}
	m.published = util.Register(reg, m.published)
	m.attempts = util.Register(reg, m.attempts)
	m.delivered = util.Register(reg, m.delivered)
	m.dropped = util.Register(reg, m.dropped)
	m.queueDepth = util.Register(reg, m.queueDepth)
	return m
}

func (m *Metrics) recordPublished(t EventType) {
	if m == nil {
		return
	}
	m.published.WithLabelValues(string(t)).Inc()
	m.queueDepth.Inc()
}

func (m *Metrics) recordDequeued() {
	if m == nil {
		return
	}
	m.queueDepth.Dec()
}

func (m *Metrics) recordAttempt(t EventType, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.attempts.WithLabelValues(string(t), status).Inc()
}

func (m *Metrics) recordDelivered(t EventType) {
	if m == nil {
		return
	}
	m.delivered.WithLabelValues(string(t)).Inc()
}

func (m *Metrics) recordDropped(t EventType) {
	if m == nil {
		return
	}
	m.dropped.WithLabelValues(string(t)).Inc()
}
