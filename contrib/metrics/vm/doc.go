// Package vm provides a VictoriaMetrics-based implementation of the MetricsCollector interface.
//
// This package uses github.com/VictoriaMetrics/metrics for lightweight,
// high-performance Prometheus-compatible metrics collection.
//
// # Basic Usage
//
// Create a collector with default prefix "simpledb":
//
//	collector := vm.New()
//	client, _ := simpledb.New(writeFactory, readFactory,
//	    simpledb.WithMetrics(collector),
//	)
//
// # Custom Prefix
//
// Use WithPrefix to customize the metric name prefix:
//
//	collector := vm.New(vm.WithPrefix("myapp"))
//
// This produces metrics like:
//   - myapp_query_total{role="read"}
//   - myapp_query_duration_seconds{role="write"}
//
// # Exposing Metrics
//
// Use the Handler method to expose metrics via HTTP:
//
//	http.HandleFunc("/metrics", collector.Handler)
//	http.ListenAndServe(":8080", nil)
//
// Or use WritePrometheus to write metrics to a custom writer:
//
//	collector.WritePrometheus(w)
//
// # Metrics Provided
//
// Statements:
//   - {prefix}_query_total{role} - Counter of executed statements
//   - {prefix}_query_errors_total{role} - Counter of failed statements
//   - {prefix}_query_duration_seconds{role} - Histogram of statement latencies
//
// Connections:
//   - {prefix}_retries_total{role} - Counter of retries after transport failures
//   - {prefix}_reconnects_total{role} - Counter of replaced handles
//
// Transactions:
//   - {prefix}_transaction_commits_total - Counter of commits
//   - {prefix}_transaction_rollbacks_total - Counter of rollbacks
//
// # Performance Notes
//
// This implementation pre-creates all metrics at initialization time
// using the NewXXX pattern (instead of GetOrCreateXXX) for optimal
// performance in hot paths, as recommended by the VictoriaMetrics documentation.
package vm
