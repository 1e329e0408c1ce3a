package vm

import (
	"fmt"
	"io"
	"net/http"

	"github.com/VictoriaMetrics/metrics"

	"github.com/arloliu/simpledb/types"
)

// DefaultPrefix is the metric name prefix used when none is configured.
const DefaultPrefix = "simpledb"

// Option configures a Collector.
type Option func(*Collector)

// WithPrefix sets the metric name prefix.
//
// Default: "simpledb"
//
// Parameters:
//   - prefix: The prefix to use for all metric names
//
// Returns:
//   - Option: A configuration option
func WithPrefix(prefix string) Option {
	return func(c *Collector) {
		c.prefix = prefix
	}
}

// WithMetricsSet sets the metrics set to use.
//
// If provided, the collector will register metrics with this set instead of
// creating a new one. The caller is responsible for exposing this set
// (e.g., via metrics.WritePrometheus or a custom handler).
//
// Parameters:
//   - set: The metrics set to use
//
// Returns:
//   - Option: A configuration option
func WithMetricsSet(set *metrics.Set) Option {
	return func(c *Collector) {
		c.set = set
	}
}

// roleMetrics holds the pre-created metrics of one connection role.
type roleMetrics struct {
	queryTotal    *metrics.Counter
	queryErrors   *metrics.Counter
	queryDuration *metrics.Histogram
	retries       *metrics.Counter
	reconnects    *metrics.Counter
}

// Collector implements types.MetricsCollector using VictoriaMetrics.
//
// All metrics are pre-created at initialization time for optimal performance.
// Thread-safe for concurrent use.
type Collector struct {
	set    *metrics.Set
	prefix string

	write roleMetrics
	read  roleMetrics

	commits   *metrics.Counter
	rollbacks *metrics.Counter
}

// Compile-time assertion that Collector implements types.MetricsCollector.
var _ types.MetricsCollector = (*Collector)(nil)

// New creates a new VictoriaMetrics-based metrics collector.
//
// The collector creates its own metrics.Set and registers it globally.
// All metrics are pre-created at initialization for optimal performance.
//
// Parameters:
//   - opts: Configuration options (e.g., WithPrefix)
//
// Returns:
//   - *Collector: A new metrics collector ready for use
//
// Example:
//
//	collector := vm.New(vm.WithPrefix("myapp"))
//	client, _ := simpledb.New(writeFactory, readFactory,
//	    simpledb.WithMetrics(collector),
//	)
func New(opts ...Option) *Collector {
	c := &Collector{
		prefix: DefaultPrefix,
	}

	for _, opt := range opts {
		opt(c)
	}

	// If no set is provided, create a new one and register it globally.
	// If a set is provided, we assume the caller manages it.
	if c.set == nil {
		c.set = metrics.NewSet()
		metrics.RegisterSet(c.set)
	}

	c.initMetrics()

	return c
}

// initMetrics pre-creates all metrics with the configured prefix.
func (c *Collector) initMetrics() {
	c.write = c.newRoleMetrics(types.RoleWrite)
	c.read = c.newRoleMetrics(types.RoleRead)

	c.commits = c.set.NewCounter(fmt.Sprintf(`%s_transaction_commits_total`, c.prefix))
	c.rollbacks = c.set.NewCounter(fmt.Sprintf(`%s_transaction_rollbacks_total`, c.prefix))
}

func (c *Collector) newRoleMetrics(role types.Role) roleMetrics {
	p := c.prefix

	return roleMetrics{
		queryTotal:    c.set.NewCounter(fmt.Sprintf(`%s_query_total{role="%s"}`, p, role)),
		queryErrors:   c.set.NewCounter(fmt.Sprintf(`%s_query_errors_total{role="%s"}`, p, role)),
		queryDuration: c.set.NewHistogram(fmt.Sprintf(`%s_query_duration_seconds{role="%s"}`, p, role)),
		retries:       c.set.NewCounter(fmt.Sprintf(`%s_retries_total{role="%s"}`, p, role)),
		reconnects:    c.set.NewCounter(fmt.Sprintf(`%s_reconnects_total{role="%s"}`, p, role)),
	}
}

func (c *Collector) role(role types.Role) *roleMetrics {
	if role == types.RoleRead {
		return &c.read
	}

	return &c.write
}

// Set returns the metrics set the collector registers with.
func (c *Collector) Set() *metrics.Set {
	return c.set
}

// Handler returns an HTTP handler that exposes metrics in Prometheus format.
//
// Example:
//
//	http.HandleFunc("/metrics", collector.Handler)
func (c *Collector) Handler(w http.ResponseWriter, _ *http.Request) {
	c.set.WritePrometheus(w)
}

// WritePrometheus writes all metrics in Prometheus format to the given writer.
//
// Parameters:
//   - w: The writer to write metrics to
func (c *Collector) WritePrometheus(w io.Writer) {
	c.set.WritePrometheus(w)
}

// ----------------------
// Statements
// ----------------------

// IncQueryTotal increments the executed statements counter.
func (c *Collector) IncQueryTotal(role types.Role) {
	c.role(role).queryTotal.Inc()
}

// IncQueryError increments the failed statements counter.
func (c *Collector) IncQueryError(role types.Role) {
	c.role(role).queryErrors.Inc()
}

// ObserveQueryDuration records a statement duration in seconds.
func (c *Collector) ObserveQueryDuration(role types.Role, seconds float64) {
	c.role(role).queryDuration.Update(seconds)
}

// ----------------------
// Connections
// ----------------------

// IncRetry increments the retry counter.
func (c *Collector) IncRetry(role types.Role) {
	c.role(role).retries.Inc()
}

// IncReconnect increments the reconnect counter.
func (c *Collector) IncReconnect(role types.Role) {
	c.role(role).reconnects.Inc()
}

// ----------------------
// Transactions
// ----------------------

// IncTransactionCommit increments the committed transactions counter.
func (c *Collector) IncTransactionCommit() {
	c.commits.Inc()
}

// IncTransactionRollback increments the rolled back transactions counter.
func (c *Collector) IncTransactionRollback() {
	c.rollbacks.Inc()
}
