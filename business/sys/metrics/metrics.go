// Package metrics publishes request level metrics for the node's web APIs.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// The web metrics are process wide. Handlers across all three servers
// record into the same collectors.
var (
	requests = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "meridian",
		Subsystem: "web",
		Name:      "requests_total",
		Help:      "Total number of requests received.",
	})

	failures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "meridian",
		Subsystem: "web",
		Name:      "errors_total",
		Help:      "Total number of requests that resulted in an error.",
	})

	panics = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "meridian",
		Subsystem: "web",
		Name:      "panics_total",
		Help:      "Total number of requests that panicked.",
	})
)

// AddRequest increments the request counter.
func AddRequest() {
	requests.Inc()
}

// AddError increments the error counter.
func AddError() {
	failures.Inc()
}

// AddPanic increments the panic counter.
func AddPanic() {
	panics.Inc()
}
