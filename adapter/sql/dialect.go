package sql

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"net"
	"strings"
	"syscall"

	"github.com/arloliu/simpledb/types"
)

// Dialect supplies the driver-specific parts of a Conn.
//
// Implementations MUST be safe for concurrent use.
type Dialect interface {
	// Quote renders value as a string literal, including the surrounding quotes.
	Quote(value string) string

	// ErrorInfo translates a driver error into the (SQLSTATE, code, message) triple.
	ErrorInfo(err error) types.ErrorInfo

	// IsTransportError reports whether err means the session itself is broken
	// (dropped connection, server gone away) rather than the statement failing.
	IsTransportError(err error) bool
}

// GeneralErrorState is the SQLSTATE reported when a driver gives none.
const GeneralErrorState = "HY000"

// AnsiDialect is a Dialect for drivers without a dedicated adapter.
//
// Quotes are doubled inside literals; errors carry the general SQLSTATE and
// code 0; transport errors are recognized with IsTransportError.
type AnsiDialect struct{}

// Compile-time assertion that AnsiDialect implements Dialect.
var _ Dialect = AnsiDialect{}

// Quote doubles embedded single quotes and wraps the value in single quotes.
func (AnsiDialect) Quote(value string) string {
	return QuoteDoubled(value)
}

// ErrorInfo returns the general SQLSTATE with the error text as message.
func (AnsiDialect) ErrorInfo(err error) types.ErrorInfo {
	if err == nil {
		return types.ErrorInfo{}
	}

	return types.ErrorInfo{SQLState: GeneralErrorState, Message: err.Error()}
}

// IsTransportError delegates to the package level IsTransportError.
func (AnsiDialect) IsTransportError(err error) bool {
	return IsTransportError(err)
}

// QuoteDoubled wraps value in single quotes, doubling embedded quotes.
func QuoteDoubled(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}

// IsTransportError reports whether err is a connection-level failure reported by
// database/sql or the network stack.
//
// Recognized failures:
//   - driver.ErrBadConn and sql.ErrConnDone
//   - io.EOF and io.ErrUnexpectedEOF from a half-closed socket
//   - any net.Error, and ECONNRESET, ECONNREFUSED or EPIPE
func IsTransportError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}

	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}

	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.EPIPE) {
		return true
	}

	var netErr net.Error

	return errors.As(err, &netErr)
}
