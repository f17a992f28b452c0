// Package metrics defines the Prometheus collectors recorded by the job pipeline.
package metrics

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels shared by the counters.
const (
	OutcomeSuccess     = "success"
	OutcomeError       = "error"
	OutcomeUnavailable = "unavailable"
	OutcomeUnknown     = "unknown"
)

// Collector groups the service collectors behind one registry.
// A nil *Collector is valid and records nothing.
type Collector struct {
	registry *prometheus.Registry

	providerAttempts *prometheus.CounterVec
	providerDuration *prometheus.HistogramVec
	jobTransitions   *prometheus.CounterVec
	nodeDuration     *prometheus.HistogramVec
	queueMessages    *prometheus.CounterVec
}

// New creates a Collector registered on a fresh registry under namespace.
func New(namespace string) *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		providerAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "provider_attempts_total",
				Help:      "Provider attempts made by the failover router",
			},
			[]string{"category", "provider", "outcome"},
		),
		providerDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "provider_call_duration_seconds",
				Help:      "Duration of provider calls",
				Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"category", "provider"},
		),
		jobTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "job_transitions_total",
				Help:      "Job status transitions",
			},
			[]string{"kind", "status"},
		),
		nodeDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "workflow_node_duration_seconds",
				Help:      "Duration of workflow node executions",
				Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
			},
			[]string{"task", "status"},
		),
		queueMessages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "queue_messages_total",
				Help:      "Task queue messages processed by workers",
			},
			[]string{"task", "outcome"},
		),
	}
}

// Registry exposes the underlying registry for gathering.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// WatchDB exports connection pool statistics for db as go_sql_* series
// labelled with name.
func (c *Collector) WatchDB(db *sql.DB, name string) {
	if c == nil {
		return
	}
	c.registry.MustRegister(collectors.NewDBStatsCollector(db, name))
}

// Handler serves the collected metrics in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ProviderAttempt counts one router attempt against a provider.
func (c *Collector) ProviderAttempt(category, provider, outcome string, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.providerAttempts.WithLabelValues(category, provider, outcome).Inc()
	if outcome == OutcomeSuccess || outcome == OutcomeError {
		c.providerDuration.WithLabelValues(category, provider).Observe(elapsed.Seconds())
	}
}

// JobTransition counts a job entering status.
func (c *Collector) JobTransition(kind, status string) {
	if c == nil {
		return
	}
	c.jobTransitions.WithLabelValues(kind, status).Inc()
}

// NodeExecuted records a workflow node duration.
func (c *Collector) NodeExecuted(task, status string, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.nodeDuration.WithLabelValues(task, status).Observe(elapsed.Seconds())
}

// QueueMessage counts a queue message handled by a worker.
func (c *Collector) QueueMessage(task, outcome string) {
	if c == nil {
		return
	}
	c.queueMessages.WithLabelValues(task, outcome).Inc()
}
