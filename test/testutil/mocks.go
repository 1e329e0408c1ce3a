package testutil

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	sqladapter "github.com/arloliu/simpledb/adapter/sql"
	"github.com/arloliu/simpledb/types"
)

// ErrTransport is a transport-level failure recognized by MockConn.
var ErrTransport = fmt.Errorf("mock: connection lost: %w", driver.ErrBadConn)

// DriverError is a driver-reported failure carrying an ErrorInfo triple.
type DriverError struct {
	Info types.ErrorInfo
}

// Error implements the error interface.
func (e *DriverError) Error() string {
	return fmt.Sprintf("%s/%d: %s", e.Info.SQLState, e.Info.Code, e.Info.Message)
}

// NewDriverError creates a new DriverError.
func NewDriverError(state string, code int, message string) *DriverError {
	return &DriverError{Info: types.ErrorInfo{SQLState: state, Code: code, Message: message}}
}

// Statement is a statement received by a MockConn.
type Statement struct {
	SQL      string
	Params   types.Params
	Prepared bool
}

// rowSet is a canned row set returned for a statement.
type rowSet struct {
	columns []string
	rows    [][]any
}

// MockConn is a mock implementation of sqladapter.Conn for testing.
//
// Every executed statement is recorded. Row sets and errors are configured per
// statement text; OnExec overrides both.
type MockConn struct {
	Name string

	mu           sync.Mutex
	statements   []Statement
	results      map[string]rowSet
	errs         map[string][]error
	lastErr      error
	lastInsertID int64
	inTx         bool

	closed       atomic.Bool
	pingErr      atomic.Pointer[error]
	execCount    atomic.Int32
	prepareCount atomic.Int32
	pingCount    atomic.Int32
	closeCount   atomic.Int32

	// OnExec, when set, handles every statement instead of the canned results.
	OnExec func(sql string, params types.Params) (*types.Result, error)
}

// Compile-time assertion that MockConn implements sqladapter.Conn.
var _ sqladapter.Conn = (*MockConn)(nil)

// NewMockConn creates a new mock connection.
func NewMockConn(name string) *MockConn {
	return &MockConn{
		Name:    name,
		results: make(map[string]rowSet),
		errs:    make(map[string][]error),
	}
}

// String returns the connection name.
func (m *MockConn) String() string {
	return m.Name
}

// SetRows configures the row set returned for sql.
func (m *MockConn) SetRows(sql string, columns []string, rows ...[]any) *MockConn {
	m.mu.Lock()
	defer m.mu.Unlock()

	if rows == nil {
		rows = [][]any{}
	}
	m.results[sql] = rowSet{columns: columns, rows: rows}

	return m
}

// FailWith queues errors returned by the next executions of sql, one per call.
func (m *MockConn) FailWith(sql string, errs ...error) *MockConn {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.errs[sql] = append(m.errs[sql], errs...)

	return m
}

// SetPingError configures the error returned by PingContext. Nil makes pings succeed.
func (m *MockConn) SetPingError(err error) *MockConn {
	m.pingErr.Store(&err)

	return m
}

// SetLastInsertID sets the value reported by LastInsertID.
func (m *MockConn) SetLastInsertID(id int64) *MockConn {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastInsertID = id

	return m
}

// PrepareContext returns a statement bound to the mock.
func (m *MockConn) PrepareContext(_ context.Context, query string) (sqladapter.Stmt, error) {
	if m.closed.Load() {
		return nil, m.fail(sqladapter.ErrConnClosed)
	}
	m.prepareCount.Add(1)

	return &MockStmt{conn: m, query: query}, nil
}

// ExecContext records and executes the statement directly.
func (m *MockConn) ExecContext(_ context.Context, query string, params types.Params) (*types.Result, error) {
	return m.exec(query, params, false)
}

// PingContext returns the configured ping error.
func (m *MockConn) PingContext(_ context.Context) error {
	m.pingCount.Add(1)

	if m.closed.Load() {
		return sqladapter.ErrConnClosed
	}

	if p := m.pingErr.Load(); p != nil && *p != nil {
		return *p
	}

	return nil
}

// Quote doubles single quotes and wraps the value in single quotes.
func (m *MockConn) Quote(value string) string {
	return sqladapter.QuoteDoubled(value)
}

// LastInsertID returns the last generated identifier.
func (m *MockConn) LastInsertID() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return strconv.FormatInt(m.lastInsertID, 10)
}

// InTransaction reports whether a transaction statement opened a transaction.
func (m *MockConn) InTransaction() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.inTx
}

// ErrorInfo returns the triple of a DriverError, or HY000 with the error text.
func (m *MockConn) ErrorInfo(err error) types.ErrorInfo {
	if err == nil {
		return types.ErrorInfo{}
	}

	var drvErr *DriverError
	if errors.As(err, &drvErr) {
		return drvErr.Info
	}

	return types.ErrorInfo{SQLState: sqladapter.GeneralErrorState, Message: err.Error()}
}

// IsTransportError reports driver.ErrBadConn based errors as transport failures.
func (m *MockConn) IsTransportError(err error) bool {
	return errors.Is(err, driver.ErrBadConn)
}

// LastError returns the error of the most recent failed call.
func (m *MockConn) LastError() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.lastErr
}

// Close marks the connection as closed.
func (m *MockConn) Close() error {
	m.closeCount.Add(1)
	m.closed.Store(true)

	return nil
}

// IsClosed returns whether the connection has been closed.
func (m *MockConn) IsClosed() bool {
	return m.closed.Load()
}

// Statements returns a copy of the recorded statements.
func (m *MockConn) Statements() []Statement {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Statement, len(m.statements))
	copy(out, m.statements)

	return out
}

// SQL returns the text of the recorded statements.
func (m *MockConn) SQL() []string {
	stmts := m.Statements()
	out := make([]string, len(stmts))
	for i, s := range stmts {
		out[i] = s.SQL
	}

	return out
}

// ExecCount returns the number of executed statements.
func (m *MockConn) ExecCount() int {
	return int(m.execCount.Load())
}

// PrepareCount returns the number of prepared statements.
func (m *MockConn) PrepareCount() int {
	return int(m.prepareCount.Load())
}

// PingCount returns the number of pings.
func (m *MockConn) PingCount() int {
	return int(m.pingCount.Load())
}

// CloseCount returns the number of Close calls.
func (m *MockConn) CloseCount() int {
	return int(m.closeCount.Load())
}

func (m *MockConn) exec(query string, params types.Params, prepared bool) (*types.Result, error) {
	m.execCount.Add(1)

	m.mu.Lock()
	m.statements = append(m.statements, Statement{SQL: query, Params: params, Prepared: prepared})
	m.mu.Unlock()

	if m.closed.Load() {
		return nil, m.fail(sqladapter.ErrConnClosed)
	}

	if m.OnExec != nil {
		res, err := m.OnExec(query, params)
		if err != nil {
			return nil, m.fail(err)
		}
		m.succeed(query)

		return res, nil
	}

	m.mu.Lock()
	if queued := m.errs[query]; len(queued) > 0 {
		err := queued[0]
		m.errs[query] = queued[1:]
		m.mu.Unlock()

		return nil, m.fail(err)
	}
	set, ok := m.results[query]
	m.mu.Unlock()

	m.succeed(query)

	if ok {
		rows := make([][]any, len(set.rows))
		copy(rows, set.rows)

		return types.NewRowsResult(set.columns, rows), nil
	}

	if types.ReturnsRows(query) {
		return types.NewRowsResult(nil, [][]any{}), nil
	}

	var id int64
	if kind := types.KindOf(query); kind == types.KindInsert || kind == types.KindReplace {
		m.mu.Lock()
		m.lastInsertID++
		id = m.lastInsertID
		m.mu.Unlock()
	}

	return types.NewExecResult(1, id), nil
}

func (m *MockConn) fail(err error) error {
	m.mu.Lock()
	m.lastErr = err
	m.mu.Unlock()

	return err
}

func (m *MockConn) succeed(query string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastErr = nil

	switch strings.ToUpper(types.FirstWord(query)) {
	case "START", "BEGIN":
		m.inTx = true
	case "COMMIT", "ROLLBACK":
		m.inTx = false
	}
}

// MockStmt is a mock implementation of sqladapter.Stmt.
type MockStmt struct {
	conn  *MockConn
	query string
}

// Compile-time assertion that MockStmt implements sqladapter.Stmt.
var _ sqladapter.Stmt = (*MockStmt)(nil)

// ExecuteContext records and executes the statement.
func (s *MockStmt) ExecuteContext(_ context.Context, params types.Params) (*types.Result, error) {
	return s.conn.exec(s.query, params, true)
}

// Query returns the statement text.
func (s *MockStmt) Query() string {
	return s.query
}

// Close is a no-op.
func (s *MockStmt) Close() error {
	return nil
}

// MockFactory creates MockConn handles and counts invocations.
type MockFactory struct {
	name string

	mu      sync.Mutex
	created []*MockConn
	err     error
	calls   atomic.Int32

	// OnCreate, when set, configures every new handle before it is returned.
	OnCreate func(conn *MockConn)
}

// NewMockFactory creates a factory producing handles named "<name>-<n>".
func NewMockFactory(name string) *MockFactory {
	return &MockFactory{name: name}
}

// Factory returns the sqladapter.Factory backed by this mock.
func (f *MockFactory) Factory() sqladapter.Factory {
	return func(_ context.Context) (sqladapter.Conn, error) {
		n := f.calls.Add(1)

		f.mu.Lock()
		defer f.mu.Unlock()

		if f.err != nil {
			return nil, f.err
		}

		conn := NewMockConn(fmt.Sprintf("%s-%d", f.name, n))
		if f.OnCreate != nil {
			f.OnCreate(conn)
		}
		f.created = append(f.created, conn)

		return conn, nil
	}
}

// SetError makes subsequent invocations fail with err. Nil restores success.
func (f *MockFactory) SetError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.err = err
}

// Calls returns the number of factory invocations.
func (f *MockFactory) Calls() int {
	return int(f.calls.Load())
}

// Created returns the handles created so far.
func (f *MockFactory) Created() []*MockConn {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]*MockConn, len(f.created))
	copy(out, f.created)

	return out
}

// Last returns the most recently created handle, or nil.
func (f *MockFactory) Last() *MockConn {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.created) == 0 {
		return nil
	}

	return f.created[len(f.created)-1]
}
