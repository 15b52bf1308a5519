// Package observability provides Prometheus metrics and HTTP middleware
// for monitoring the torwart gate.
package observability

import "github.com/prometheus/client_golang/prometheus"

// GateBuckets defines histogram buckets suited for an in-path auth gate,
// ranging from 1ms to 10s.
var GateBuckets = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10}

var (
	// RequestsTotal counts all HTTP requests by method and status class.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "torwart_requests_total",
			Help: "Total requests",
		},
		[]string{"method", "status"},
	)

	// RequestDuration records HTTP request duration in seconds by method.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "torwart_request_duration_seconds",
			Help:    "Request duration",
			Buckets: GateBuckets,
		},
		[]string{"method"},
	)

	// AuthDecisionsTotal counts authentication outcomes at the gate.
	AuthDecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "torwart_auth_decisions_total",
			Help: "Authentication decisions",
		},
		[]string{"outcome"},
	)

	// GuardDenialsTotal counts per-route guard denials by guard name.
	GuardDenialsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "torwart_guard_denials_total",
			Help: "Guard denials",
		},
		[]string{"guard"},
	)

	// UpstreamLatency records upstream round-trip latency in seconds.
	UpstreamLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "torwart_upstream_latency_seconds",
			Help:    "Upstream latency",
			Buckets: GateBuckets,
		},
	)

	// UpstreamErrorsTotal counts failed upstream round trips.
	UpstreamErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "torwart_upstream_errors_total",
			Help: "Upstream errors",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		AuthDecisionsTotal,
		GuardDenialsTotal,
		UpstreamLatency,
		UpstreamErrorsTotal,
	)
}
