package types

// MetricsCollector defines methods for collecting operational metrics.
//
// All connection-scoped methods accept a Role parameter for labeling.
// Implementations should be thread-safe as methods may be called concurrently.
//
// Example usage with VictoriaMetrics (via contrib/metrics/vm):
//
//	import vmmetrics "github.com/arloliu/simpledb/contrib/metrics/vm"
//
//	collector := vmmetrics.New(vmmetrics.WithPrefix("myapp"))
//	client, _ := simpledb.New(writeFactory, readFactory,
//	    simpledb.WithMetrics(collector),
//	)
//
//	// Expose metrics via HTTP
//	http.HandleFunc("/metrics", collector.Handler)
type MetricsCollector interface {
	// ----------------------
	// Statements
	// ----------------------

	// IncQueryTotal increments the executed statements counter.
	IncQueryTotal(role Role)

	// IncQueryError increments the failed statements counter.
	IncQueryError(role Role)

	// ObserveQueryDuration records a statement duration in seconds.
	ObserveQueryDuration(role Role, seconds float64)

	// ----------------------
	// Connections
	// ----------------------

	// IncRetry increments the counter when a statement is retried after a transport failure.
	IncRetry(role Role)

	// IncReconnect increments the counter when a dead connection handle is replaced.
	IncReconnect(role Role)

	// ----------------------
	// Transactions
	// ----------------------

	// IncTransactionCommit increments the committed transactions counter.
	IncTransactionCommit()

	// IncTransactionRollback increments the rolled back transactions counter.
	IncTransactionRollback()
}
