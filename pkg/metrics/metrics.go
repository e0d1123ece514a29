// Package metrics holds shared Prometheus helpers used across the
// application.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DefaultBuckets provides a common set of histogram buckets in seconds that
// can be reused across the application for latency metrics.
var DefaultBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10} //nolint: gochecknoglobals

// AuthorizationDecisions counts authorization gate outcomes partitioned by
// resource kind, operation and outcome (allowed or denied).
var AuthorizationDecisions = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint: gochecknoglobals
	Name: "authorization_decisions_total",
	Help: "Authorization gate decisions by resource kind, operation and outcome.",
}, []string{"kind", "operation", "outcome"})
