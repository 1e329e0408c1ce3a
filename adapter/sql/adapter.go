package sql

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/jmoiron/sqlx"

	"github.com/arloliu/simpledb/types"
)

// Conn is a single database session.
//
// A Conn is owned by the connection provider; callers obtain one through the
// client and never construct it in application code. Session state such as an
// open transaction or the last insert id belongs to the Conn.
type Conn interface {
	// PrepareContext prepares a statement with ":name" placeholders.
	//
	// Statements are prepared client-side: the named placeholders are compiled
	// when the statement executes and no server round trip happens here.
	PrepareContext(ctx context.Context, query string) (Stmt, error)

	// ExecContext executes a statement directly without a prepare step.
	//
	// Params, when present, are bound, never interpolated into the text.
	ExecContext(ctx context.Context, query string, params types.Params) (*types.Result, error)

	// PingContext performs a trivial round trip ("SELECT 1") on the session.
	PingContext(ctx context.Context) error

	// Quote renders a value as a string literal for the driver.
	Quote(value string) string

	// LastInsertID returns the most recent identifier generated on this session.
	LastInsertID() string

	// InTransaction reports whether the session has an open transaction.
	//
	// The state follows START TRANSACTION, BEGIN, COMMIT and ROLLBACK
	// statements sent through ExecContext or a prepared statement. Implicit
	// commits (DDL, SET autocommit) and transaction statements that return
	// rows are not observed.
	InTransaction() bool

	// ErrorInfo translates a driver error into the ErrorInfo triple.
	ErrorInfo(err error) types.ErrorInfo

	// IsTransportError reports whether err means the session is broken.
	IsTransportError(err error) bool

	// LastError returns the error of the most recent failed call, or nil when
	// the most recent call succeeded.
	LastError() error

	// Close releases the session.
	Close() error
}

// Stmt is a prepared statement.
type Stmt interface {
	// ExecuteContext executes the statement with the given parameters.
	//
	// Statements that produce a row set are read completely before returning.
	ExecuteContext(ctx context.Context, params types.Params) (*types.Result, error)

	// Query returns the statement text.
	Query() string

	// Close releases the statement.
	Close() error
}

// ErrConnClosed is returned by calls on a Conn that was closed.
// It wraps driver.ErrBadConn so it classifies as a transport failure.
var ErrConnClosed = fmt.Errorf("simpledb: connection handle is closed: %w", driver.ErrBadConn)

// Factory creates a new connection handle.
//
// Factories are invoked lazily by the connection provider, once per handle
// generation, and again on reconnect.
type Factory func(ctx context.Context) (Conn, error)

// ConnOption configures a Conn created by NewConn.
type ConnOption func(*conn)

// WithCloser registers a resource closed together with the Conn.
//
// Factories that open a dedicated *sqlx.DB per handle use this so the pool is
// released when the handle is replaced.
//
// Parameters:
//   - closer: Resource to close after the session is released
//
// Returns:
//   - ConnOption: Configuration option
func WithCloser(closer io.Closer) ConnOption {
	return func(c *conn) {
		c.closers = append(c.closers, closer)
	}
}

// conn implements Conn on top of a *sqlx.Conn.
type conn struct {
	c       *sqlx.Conn
	dialect Dialect
	closers []io.Closer

	mu           sync.Mutex
	lastErr      error
	lastInsertID int64
	inTx         atomic.Bool
	closed       atomic.Bool
}

// Compile-time assertion that conn implements Conn.
var _ Conn = (*conn)(nil)

// NewConn wraps a *sqlx.Conn session.
//
// Parameters:
//   - c: The session to wrap (one server connection)
//   - dialect: Driver-specific quoting and error classification
//   - opts: Optional configuration options
//
// Returns:
//   - Conn: A connection handle
func NewConn(c *sqlx.Conn, dialect Dialect, opts ...ConnOption) Conn {
	if dialect == nil {
		dialect = AnsiDialect{}
	}

	cn := &conn{c: c, dialect: dialect}
	for _, opt := range opts {
		opt(cn)
	}

	return cn
}

// Connect obtains a dedicated session from db and wraps it.
//
// Parameters:
//   - ctx: Context for acquiring the session
//   - db: The pool to take the session from
//   - dialect: Driver-specific quoting and error classification
//   - opts: Optional configuration options
//
// Returns:
//   - Conn: A connection handle
//   - error: Error if no session could be acquired
func Connect(ctx context.Context, db *sqlx.DB, dialect Dialect, opts ...ConnOption) (Conn, error) {
	c, err := db.Connx(ctx)
	if err != nil {
		return nil, err
	}

	return NewConn(c, dialect, opts...), nil
}

// PrepareContext returns a statement bound to this session.
func (c *conn) PrepareContext(_ context.Context, query string) (Stmt, error) {
	if c.closed.Load() {
		return nil, c.fail(ErrConnClosed)
	}

	return &stmt{conn: c, query: query}, nil
}

// ExecContext executes query directly, binding params when present.
func (c *conn) ExecContext(ctx context.Context, query string, params types.Params) (*types.Result, error) {
	return c.run(ctx, query, params)
}

// PingContext issues "SELECT 1" on the session.
func (c *conn) PingContext(ctx context.Context) error {
	if c.closed.Load() {
		return c.fail(ErrConnClosed)
	}

	var one int
	if err := c.c.QueryRowxContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return c.fail(err)
	}
	c.succeed()

	return nil
}

// Quote renders value as a literal using the dialect.
func (c *conn) Quote(value string) string {
	return c.dialect.Quote(value)
}

// LastInsertID returns the most recent generated identifier as a string.
func (c *conn) LastInsertID() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return strconv.FormatInt(c.lastInsertID, 10)
}

// InTransaction reports whether a transaction statement opened a transaction
// that has not been committed or rolled back yet.
func (c *conn) InTransaction() bool {
	return c.inTx.Load()
}

// ErrorInfo delegates to the dialect.
func (c *conn) ErrorInfo(err error) types.ErrorInfo {
	return c.dialect.ErrorInfo(err)
}

// IsTransportError delegates to the dialect.
func (c *conn) IsTransportError(err error) bool {
	return errors.Is(err, ErrConnClosed) || c.dialect.IsTransportError(err)
}

// LastError returns the error of the most recent failed call.
func (c *conn) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.lastErr
}

// Close releases the session and any registered closers.
func (c *conn) Close() error {
	if c.closed.Swap(true) {
		return nil
	}

	err := c.c.Close()
	for _, closer := range c.closers {
		if cerr := closer.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}

	return err
}

func (c *conn) run(ctx context.Context, query string, params types.Params) (*types.Result, error) {
	if c.closed.Load() {
		return nil, c.fail(ErrConnClosed)
	}

	q, args, err := c.bind(query, params)
	if err != nil {
		return nil, c.fail(err)
	}

	if types.ReturnsRows(query) {
		res, err := c.query(ctx, q, args)
		if err != nil {
			return nil, c.fail(err)
		}
		c.succeed()

		return res, nil
	}

	sqlRes, err := c.c.ExecContext(ctx, q, args...)
	if err != nil {
		return nil, c.fail(err)
	}

	affected, _ := sqlRes.RowsAffected()
	var id int64
	kind := types.KindOf(query)
	generatesID := kind == types.KindInsert || kind == types.KindReplace
	if generatesID {
		id, _ = sqlRes.LastInsertId()
	}

	c.mu.Lock()
	c.lastErr = nil
	if generatesID {
		c.lastInsertID = id
	}
	c.mu.Unlock()

	c.trackTransaction(query)

	return types.NewExecResult(affected, id), nil
}

// bind compiles named placeholders into the driver's bind style.
// Statements without params are sent verbatim. Colons inside quoted literals
// are not placeholders.
func (c *conn) bind(query string, params types.Params) (string, []any, error) {
	if len(params) == 0 {
		return query, nil, nil
	}

	var backslash bool
	if be, ok := c.dialect.(BackslashEscaper); ok {
		backslash = be.BackslashEscapes()
	}

	q, args, err := sqlx.Named(escapeLiteralColons(query, backslash), map[string]any(params))
	if err != nil {
		return "", nil, err
	}

	return c.c.Rebind(q), args, nil
}

func (c *conn) query(ctx context.Context, q string, args []any) (*types.Result, error) {
	rows, err := c.c.QueryxContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	data := make([][]any, 0)
	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return nil, err
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		data = append(data, values)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return types.NewRowsResult(columns, data), nil
}

// trackTransaction follows transaction control statements passing through the session.
func (c *conn) trackTransaction(query string) {
	fields := strings.Fields(strings.ToUpper(query))
	if len(fields) == 0 {
		return
	}

	switch strings.TrimRight(fields[0], ";") {
	case "START":
		if len(fields) > 1 && strings.HasPrefix(fields[1], "TRANSACTION") {
			c.inTx.Store(true)
		}
	case "BEGIN":
		c.inTx.Store(true)
	case "COMMIT":
		c.inTx.Store(false)
	case "ROLLBACK":
		if len(fields) > 1 && (fields[1] == "TO" || (fields[1] == "WORK" && len(fields) > 2 && fields[2] == "TO")) {
			return
		}
		c.inTx.Store(false)
	}
}

func (c *conn) fail(err error) error {
	c.mu.Lock()
	c.lastErr = err
	c.mu.Unlock()

	return err
}

func (c *conn) succeed() {
	c.mu.Lock()
	c.lastErr = nil
	c.mu.Unlock()
}

// stmt implements Stmt for conn.
type stmt struct {
	conn  *conn
	query string
}

// ExecuteContext runs the statement on its session.
func (s *stmt) ExecuteContext(ctx context.Context, params types.Params) (*types.Result, error) {
	return s.conn.run(ctx, s.query, params)
}

// Query returns the statement text.
func (s *stmt) Query() string {
	return s.query
}

// Close is a no-op; statements hold no server resources.
func (s *stmt) Close() error {
	return nil
}
