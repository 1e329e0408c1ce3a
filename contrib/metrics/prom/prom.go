// Package prom provides a Prometheus client_golang implementation of the
// MetricsCollector interface.
//
// Metrics are registered with a dedicated registry unless one is supplied:
//
//	collector := prom.New(prom.WithNamespace("shop"))
//	client, _ := simpledb.New(writeFactory, readFactory,
//	    simpledb.WithMetrics(collector),
//	)
//	http.Handle("/metrics", collector.Handler())
//
// Metrics provided (namespace "simpledb" by default):
//   - {namespace}_query_total{role}
//   - {namespace}_query_errors_total{role}
//   - {namespace}_query_duration_seconds{role}
//   - {namespace}_retries_total{role}
//   - {namespace}_reconnects_total{role}
//   - {namespace}_transaction_commits_total
//   - {namespace}_transaction_rollbacks_total
package prom

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/arloliu/simpledb/types"
)

// DefaultNamespace is the metric namespace used when none is configured.
const DefaultNamespace = "simpledb"

const roleLabel = "role"

// Option configures a Collector.
type Option func(*Collector)

// WithNamespace sets the metric namespace.
//
// Default: "simpledb"
func WithNamespace(namespace string) Option {
	return func(c *Collector) {
		c.namespace = namespace
	}
}

// WithConstLabels attaches fixed labels to every metric, e.g. the service name.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Collector) {
		c.constLabels = labels
	}
}

// WithRegistry registers the metrics with registry instead of a new one.
//
// The caller is responsible for exposing the registry.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(c *Collector) {
		c.registry = registry
	}
}

// WithBuckets sets the histogram buckets of the query duration.
//
// Default: prometheus.DefBuckets
func WithBuckets(buckets []float64) Option {
	return func(c *Collector) {
		c.buckets = buckets
	}
}

// Collector implements types.MetricsCollector on top of client_golang.
//
// Thread-safe for concurrent use.
type Collector struct {
	registry    *prometheus.Registry
	namespace   string
	constLabels prometheus.Labels
	buckets     []float64

	queryTotal    *prometheus.CounterVec
	queryErrors   *prometheus.CounterVec
	queryDuration *prometheus.HistogramVec
	retries       *prometheus.CounterVec
	reconnects    *prometheus.CounterVec
	commits       prometheus.Counter
	rollbacks     prometheus.Counter
}

// Compile-time assertion that Collector implements types.MetricsCollector.
var _ types.MetricsCollector = (*Collector)(nil)

// New creates a collector and registers its metrics.
//
// Parameters:
//   - opts: Configuration options
//
// Returns:
//   - *Collector: A new metrics collector ready for use
func New(opts ...Option) *Collector {
	c := &Collector{
		namespace: DefaultNamespace,
		buckets:   prometheus.DefBuckets,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.registry == nil {
		c.registry = prometheus.NewRegistry()
	}

	c.queryTotal = c.counterVec("query_total", "Number of executed statements.")
	c.queryErrors = c.counterVec("query_errors_total", "Number of statements that failed.")
	c.retries = c.counterVec("retries_total", "Number of statements retried after a transport failure.")
	c.reconnects = c.counterVec("reconnects_total", "Number of replaced connection handles.")
	c.queryDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   c.namespace,
		Name:        "query_duration_seconds",
		Help:        "Statement latency in seconds.",
		Buckets:     c.buckets,
		ConstLabels: c.constLabels,
	}, []string{roleLabel})
	c.commits = c.counter("transaction_commits_total", "Number of committed transactions.")
	c.rollbacks = c.counter("transaction_rollbacks_total", "Number of rolled back transactions.")

	c.registry.MustRegister(
		c.queryTotal,
		c.queryErrors,
		c.queryDuration,
		c.retries,
		c.reconnects,
		c.commits,
		c.rollbacks,
	)

	// Pre-create the role series so they are exported at zero.
	for _, role := range []types.Role{types.RoleWrite, types.RoleRead} {
		c.queryTotal.WithLabelValues(role.String())
		c.queryErrors.WithLabelValues(role.String())
		c.retries.WithLabelValues(role.String())
		c.reconnects.WithLabelValues(role.String())
	}

	return c
}

func (c *Collector) counterVec(name, help string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   c.namespace,
		Name:        name,
		Help:        help,
		ConstLabels: c.constLabels,
	}, []string{roleLabel})
}

func (c *Collector) counter(name, help string) prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   c.namespace,
		Name:        name,
		Help:        help,
		ConstLabels: c.constLabels,
	})
}

// Registry returns the registry the metrics are registered with.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler returns an HTTP handler exposing the registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// IncQueryTotal increments the executed statements counter.
func (c *Collector) IncQueryTotal(role types.Role) {
	c.queryTotal.WithLabelValues(role.String()).Inc()
}

// IncQueryError increments the failed statements counter.
func (c *Collector) IncQueryError(role types.Role) {
	c.queryErrors.WithLabelValues(role.String()).Inc()
}

// ObserveQueryDuration records a statement duration in seconds.
func (c *Collector) ObserveQueryDuration(role types.Role, seconds float64) {
	c.queryDuration.WithLabelValues(role.String()).Observe(seconds)
}

// IncRetry increments the retry counter.
func (c *Collector) IncRetry(role types.Role) {
	c.retries.WithLabelValues(role.String()).Inc()
}

// IncReconnect increments the reconnect counter.
func (c *Collector) IncReconnect(role types.Role) {
	c.reconnects.WithLabelValues(role.String()).Inc()
}

// IncTransactionCommit increments the committed transactions counter.
func (c *Collector) IncTransactionCommit() {
	c.commits.Inc()
}

// IncTransactionRollback increments the rolled back transactions counter.
func (c *Collector) IncTransactionRollback() {
	c.rollbacks.Inc()
}
