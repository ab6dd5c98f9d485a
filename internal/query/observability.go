package query

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics with bounded cardinality: the op label only ever takes the six
// query names, and nothing per-shape or per-body is recorded.
var (
	queryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "convex_query_duration_seconds",
		Help:    "Wall time per geometry query",
		Buckets: []float64{1e-7, 5e-7, 1e-6, 5e-6, 1e-5, 5e-5, 1e-4, 1e-3},
	}, []string{"op"}) // Bounded: distance, distance_body, intersects, intersects_body, contains, cast

	solverIterations = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "convex_solver_iterations",
		Help:    "Simplex/expansion iterations per distance query",
		Buckets: []float64{1, 2, 4, 8, 16, 32, 64},
	})

	aabbRejects = promauto.NewCounter(prometheus.CounterOpts{
		Name: "convex_aabb_rejects_total",
		Help: "Boolean queries answered by the bounding-box pre-check alone",
	})

	preconditionFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "convex_precondition_failures_total",
		Help: "Queries rejected before any solver work",
	}, []string{"reason"}) // Bounded: empty_geometry, unattached_shape, resource_state
)

func observe(op string, start time.Time) {
	queryDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func recordFailure(reason string) {
	preconditionFailures.WithLabelValues(reason).Inc()
}
