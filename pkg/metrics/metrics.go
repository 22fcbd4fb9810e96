// Package metrics exposes the platform's Prometheus instrumentation.
// Each service takes a *Registry rather than reaching for the global
// default registry, so tests can assert against an isolated
// prometheus.Registry the way the teacher's gateway integration tests do.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry bundles every counter and histogram the platform emits.
type Registry struct {
	registry *prometheus.Registry

	AssignmentsTotal   *prometheus.CounterVec
	ValidationOutcomes *prometheus.CounterVec
	ExportJobDuration  *prometheus.HistogramVec
	WorkerLoopsTotal   *prometheus.CounterVec
}

// NewRegistry builds a Registry backed by a fresh prometheus.Registry.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Registry{
		registry: reg,

		AssignmentsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "amr_assignments_total",
			Help: "Assignments created, labeled by strategy and role.",
		}, []string{"strategy", "role"}),

		ValidationOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "amr_validation_outcomes_total",
			Help: "Validation results, labeled by outcome (valid/invalid) and check name.",
		}, []string{"outcome", "check"}),

		ExportJobDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "amr_export_job_duration_seconds",
			Help:    "Wall-clock time to export and materialize one job, labeled by level and format.",
			Buckets: prometheus.DefBuckets,
		}, []string{"level", "format"}),

		WorkerLoopsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "amr_export_worker_loops_total",
			Help: "Export worker poll cycles, labeled by outcome (empty/completed/failed/breaker_open).",
		}, []string{"outcome"}),
	}
}

// Gatherer exposes the underlying prometheus.Gatherer for /metrics.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}
