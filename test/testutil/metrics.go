package testutil

import (
	"sync"
	"sync/atomic"

	"github.com/arloliu/simpledb/types"
)

// TestMetricsCollector is a test implementation of types.MetricsCollector
// that tracks method calls for assertion in tests.
type TestMetricsCollector struct {
	mu sync.RWMutex

	// Statements
	QueryTotal    map[types.Role]int64
	QueryErrors   map[types.Role]int64
	QueryDuration map[types.Role][]float64

	// Connections
	Retries    map[types.Role]int64
	Reconnects map[types.Role]int64

	// Transactions
	commits   atomic.Int64
	rollbacks atomic.Int64
}

// Compile-time assertion that TestMetricsCollector implements types.MetricsCollector.
var _ types.MetricsCollector = (*TestMetricsCollector)(nil)

// NewTestMetricsCollector creates a new test metrics collector.
func NewTestMetricsCollector() *TestMetricsCollector {
	return &TestMetricsCollector{
		QueryTotal:    make(map[types.Role]int64),
		QueryErrors:   make(map[types.Role]int64),
		QueryDuration: make(map[types.Role][]float64),
		Retries:       make(map[types.Role]int64),
		Reconnects:    make(map[types.Role]int64),
	}
}

// ----------------------
// Statements
// ----------------------

func (m *TestMetricsCollector) IncQueryTotal(role types.Role) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.QueryTotal[role]++
}

func (m *TestMetricsCollector) IncQueryError(role types.Role) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.QueryErrors[role]++
}

func (m *TestMetricsCollector) ObserveQueryDuration(role types.Role, seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.QueryDuration[role] = append(m.QueryDuration[role], seconds)
}

// ----------------------
// Connections
// ----------------------

func (m *TestMetricsCollector) IncRetry(role types.Role) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Retries[role]++
}

func (m *TestMetricsCollector) IncReconnect(role types.Role) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Reconnects[role]++
}

// ----------------------
// Transactions
// ----------------------

func (m *TestMetricsCollector) IncTransactionCommit() {
	m.commits.Add(1)
}

func (m *TestMetricsCollector) IncTransactionRollback() {
	m.rollbacks.Add(1)
}

// ----------------------
// Getters
// ----------------------

// GetQueryTotal returns the executed statements for a role.
func (m *TestMetricsCollector) GetQueryTotal(role types.Role) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.QueryTotal[role]
}

// GetQueryErrors returns the failed statements for a role.
func (m *TestMetricsCollector) GetQueryErrors(role types.Role) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.QueryErrors[role]
}

// GetRetries returns the retries for a role.
func (m *TestMetricsCollector) GetRetries(role types.Role) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.Retries[role]
}

// GetReconnects returns the reconnects for a role.
func (m *TestMetricsCollector) GetReconnects(role types.Role) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.Reconnects[role]
}

// GetCommits returns the committed transactions.
func (m *TestMetricsCollector) GetCommits() int64 {
	return m.commits.Load()
}

// GetRollbacks returns the rolled back transactions.
func (m *TestMetricsCollector) GetRollbacks() int64 {
	return m.rollbacks.Load()
}

// Reset clears all recorded metrics.
func (m *TestMetricsCollector) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.QueryTotal = make(map[types.Role]int64)
	m.QueryErrors = make(map[types.Role]int64)
	m.QueryDuration = make(map[types.Role][]float64)
	m.Retries = make(map[types.Role]int64)
	m.Reconnects = make(map[types.Role]int64)
	m.commits.Store(0)
	m.rollbacks.Store(0)
}
