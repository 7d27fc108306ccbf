package tools

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes Prometheus collectors for tool calls and upstream requests.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	toolCalls        *prometheus.CounterVec
	upstreamRequests *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
}

// NewMetrics registers the gateway collectors with reg. Registration errors
// panic, matching promauto.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		toolCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "toolgate",
				Name:      "tool_calls_total",
				Help:      "Tool calls by tool, binding and outcome.",
			},
			[]string{"tool", "binding", "outcome"},
		),
		upstreamRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "toolgate",
				Name:      "upstream_requests_total",
				Help:      "Upstream requests by service and outcome.",
			},
			[]string{"service", "outcome"},
		),
		upstreamDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "toolgate",
				Name:      "upstream_request_duration_seconds",
				Help:      "Upstream request latency.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"service"},
		),
	}
	reg.MustRegister(m.toolCalls, m.upstreamRequests, m.upstreamDuration)
	return m
}

// ObserveCall counts one finished tool call.
func (m *Metrics) ObserveCall(tool, binding, outcome string) {
	if m == nil {
		return
	}
	m.toolCalls.WithLabelValues(tool, binding, outcome).Inc()
}

// ObserveUpstream counts one upstream request and records its latency.
func (m *Metrics) ObserveUpstream(service, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.upstreamRequests.WithLabelValues(service, outcome).Inc()
	m.upstreamDuration.WithLabelValues(service).Observe(d.Seconds())
}
