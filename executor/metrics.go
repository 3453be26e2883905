package executor

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/spatnaik17/scenario-agent-testing-sub000/internal/util"
)

const namespace = "scenario"

// Metrics records run and agent call statistics. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	runs         *prometheus.CounterVec
	turns        prometheus.Histogram
	agentCalls   *prometheus.CounterVec
	callDuration *prometheus.HistogramVec
}

// NewMetrics creates the executor metrics and registers them with reg.
// Registration is skipped when reg is nil. Collectors already registered
// with reg are reused.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Total number of scenario runs by final status",
		}, []string{"status"}), // status: success, failed, error
		turns: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_turns",
			Help:      "Number of turns reached by finished runs",
			Buckets:   []float64{1, 2, 3, 5, 8, 13, 21},
		}),
		agentCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "agent_calls_total",
			Help:      "Total number of agent calls",
		}, []string{"role", "status"}),
		callDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "agent_call_duration_seconds",
			Help:      "Agent call latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"role"}),
	}
	m.runs = util.Register(reg, m.runs)
	m.turns = util.Register(reg, m.turns)
	m.agentCalls = util.Register(reg, m.agentCalls)
	m.callDuration = util.Register(reg, m.callDuration)
	return m
}

func (m *Metrics) recordAgentCall(role string, d time.Duration, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.agentCalls.WithLabelValues(role, status).Inc()
	m.callDuration.WithLabelValues(role).Observe(d.Seconds())
}

func (m *Metrics) recordRun(status string, turns int) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(status).Inc()
	m.turns.Observe(float64(turns))
}
