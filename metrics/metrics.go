// Package metrics exposes the Prometheus instrumentation the executor and
// HTTP layer emit: request-level counters/histograms generalized to also
// carry a per-primitive-action label (spec.md §10 domain stack).
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// PrimitiveDuration records how long each primitive handler took,
	// labeled by action name.
	PrimitiveDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "uiscript_primitive_duration_seconds",
			Help:    "Duration of primitive handler invocations.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"action"},
	)

	// PrimitiveTotal counts primitive invocations by action and outcome
	// ("success" or "error").
	PrimitiveTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "uiscript_primitive_total",
			Help: "Total number of primitive handler invocations.",
		},
		[]string{"action", "outcome"},
	)

	// HTTPRequestsTotal and HTTPRequestDuration record request-level
	// instrumentation, labeled by handler, method, and status code.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "uiscript_http_requests_total",
			Help: "Total number of HTTP requests received.",
		},
		[]string{"handler", "method", "code"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "uiscript_http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"handler", "method"},
	)
)

func init() {
	prometheus.MustRegister(PrimitiveDuration, PrimitiveTotal, HTTPRequestsTotal, HTTPRequestDuration)
}

// ObservePrimitive records one primitive invocation's duration and outcome.
func ObservePrimitive(action string, seconds float64, success bool) {
	PrimitiveDuration.WithLabelValues(action).Observe(seconds)
	outcome := "success"
	if !success {
		outcome = "error"
	}
	PrimitiveTotal.WithLabelValues(action, outcome).Inc()
}
