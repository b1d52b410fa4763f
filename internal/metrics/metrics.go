// Package metrics exposes engine counters for local observability. The CLI
// status command reads the same values the registry would export.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	SyncPasses    prometheus.Counter
	SyncFailures  prometheus.Counter
	JobsDelivered prometheus.Counter
	JobsFailed    prometheus.Counter
	JobsDead      prometheus.Counter
	QueueDepth    prometheus.Gauge
}

// New registers engine metrics on the given registerer. Pass
// prometheus.NewRegistry() in tests to avoid global registry collisions.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SyncPasses: factory.NewCounter(prometheus.CounterOpts{
			Name: "materna_sync_passes_total",
			Help: "Completed synchronization passes.",
		}),
		SyncFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "materna_sync_failures_total",
			Help: "Synchronization passes that ended with an error.",
		}),
		JobsDelivered: factory.NewCounter(prometheus.CounterOpts{
			Name: "materna_outbox_jobs_delivered_total",
			Help: "Outbox jobs acknowledged by the remote server.",
		}),
		JobsFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "materna_outbox_jobs_failed_total",
			Help: "Outbox job delivery attempts that failed.",
		}),
		JobsDead: factory.NewCounter(prometheus.CounterOpts{
			Name: "materna_outbox_jobs_dead_total",
			Help: "Outbox jobs moved to the dead-letter state.",
		}),
		QueueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Name: "materna_outbox_queue_depth",
			Help: "Jobs currently waiting in the outbox.",
		}),
	}
}
