// Package sqlite adapts github.com/mattn/go-sqlite3 to the simpledb driver surface.
//
// SQLite accepts most of the statements simpledb builds (backtick identifiers,
// REPLACE INTO, multi-row VALUES), which makes it the driver of choice for tests
// and embedded use. MySQL-only statements such as TRUNCATE, SHOW TABLES or
// row-value IN lists are not translated.
package sqlite

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"

	sqladapter "github.com/arloliu/simpledb/adapter/sql"
	"github.com/arloliu/simpledb/types"
)

// DriverName is the database/sql driver name registered by go-sqlite3.
const DriverName = "sqlite3"

// constraintState is the SQLSTATE reported for constraint violations.
const constraintState = "23000"

// Dialect implements sqladapter.Dialect for SQLite.
type Dialect struct{}

// Compile-time assertion that Dialect implements sqladapter.Dialect.
var _ sqladapter.Dialect = Dialect{}

// Quote doubles embedded single quotes and wraps the value in single quotes.
func (Dialect) Quote(value string) string {
	return sqladapter.QuoteDoubled(value)
}

// ErrorInfo maps a go-sqlite3 error to the ErrorInfo triple.
//
// The code is the extended result code; constraint violations report SQLSTATE 23000.
func (Dialect) ErrorInfo(err error) types.ErrorInfo {
	if err == nil {
		return types.ErrorInfo{}
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		state := sqladapter.GeneralErrorState
		if liteErr.Code == sqlite3.ErrConstraint {
			state = constraintState
		}

		return types.ErrorInfo{SQLState: state, Code: int(liteErr.ExtendedCode), Message: liteErr.Error()}
	}

	return types.ErrorInfo{SQLState: sqladapter.GeneralErrorState, Message: err.Error()}
}

// IsTransportError reports I/O and open failures as transport errors.
func (Dialect) IsTransportError(err error) bool {
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code == sqlite3.ErrIoErr || liteErr.Code == sqlite3.ErrCantOpen
	}

	return sqladapter.IsTransportError(err)
}

// NewFactory returns a factory that opens dsn on every call.
//
// Every handle gets its own pool; with ":memory:" that means every handle is a
// separate database. Use a shared-cache DSN such as
// "file:app?mode=memory&cache=shared" for a read handle that sees the writes.
//
// Parameters:
//   - dsn: go-sqlite3 data source name
//
// Returns:
//   - sqladapter.Factory: A connection factory
func NewFactory(dsn string) sqladapter.Factory {
	return func(ctx context.Context) (sqladapter.Conn, error) {
		db, err := sqlx.Open(DriverName, dsn)
		if err != nil {
			return nil, err
		}

		conn, err := sqladapter.Connect(ctx, db, Dialect{}, sqladapter.WithCloser(db))
		if err != nil {
			_ = db.Close()
			return nil, err
		}

		return conn, nil
	}
}
