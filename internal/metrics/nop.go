// Package metrics provides internal metrics utilities for simpledb.
package metrics

import "github.com/arloliu/simpledb/types"

// NopMetrics is a no-op metrics collector that discards all metrics.
//
// This is used as the default metrics collector when no collector is configured,
// avoiding nil checks throughout the codebase.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements types.MetricsCollector.
var _ types.MetricsCollector = (*NopMetrics)(nil)

// NewNopMetrics creates a new no-op metrics collector.
//
// Returns:
//   - *NopMetrics: A collector that discards all metrics
func NewNopMetrics() *NopMetrics {
	return &NopMetrics{}
}

// ----------------------
// Statements
// ----------------------

// IncQueryTotal discards the metric.
func (m *NopMetrics) IncQueryTotal(_ types.Role) {}

// IncQueryError discards the metric.
func (m *NopMetrics) IncQueryError(_ types.Role) {}

// ObserveQueryDuration discards the metric.
func (m *NopMetrics) ObserveQueryDuration(_ types.Role, _ float64) {}

// ----------------------
// Connections
// ----------------------

// IncRetry discards the metric.
func (m *NopMetrics) IncRetry(_ types.Role) {}

// IncReconnect discards the metric.
func (m *NopMetrics) IncReconnect(_ types.Role) {}

// ----------------------
// Transactions
// ----------------------

// IncTransactionCommit discards the metric.
func (m *NopMetrics) IncTransactionCommit() {}

// IncTransactionRollback discards the metric.
func (m *NopMetrics) IncTransactionRollback() {}
