package types

import (
	"errors"
	"strings"
)

// Role identifies which connection handle a statement runs on.
type Role string

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

const (
	// RoleWrite is the connection used for all mutating statements
	// and as the fallback for anything that is not a SELECT.
	RoleWrite Role = "write"
	// RoleRead is the optional connection used for SELECT statements.
	RoleRead Role = "read"
)

// Params maps placeholder names (without the leading colon) to values.
//
// Values are scalars or nil. A nil value is bound as SQL NULL.
type Params map[string]any

// FetchMode selects the shape of returned rows.
type FetchMode int

const (
	// FetchAssoc returns rows keyed by column name.
	FetchAssoc FetchMode = iota
	// FetchNum returns positional rows.
	FetchNum
)

// String returns the string representation of the FetchMode.
func (m FetchMode) String() string {
	switch m {
	case FetchAssoc:
		return "assoc"
	case FetchNum:
		return "num"
	default:
		return "unknown"
	}
}

// ErrorInfo is the (SQLSTATE, driver code, message) triple reported by a driver.
type ErrorInfo struct {
	// SQLState is the five character SQLSTATE, e.g. "23000".
	SQLState string

	// Code is the driver-specific error number, e.g. 1062 for a MySQL duplicate key.
	Code int

	// Message is the human readable driver message. May be empty.
	Message string
}

// MessageOrBlank returns Message, or "(blank)" when the driver gave none.
func (e ErrorInfo) MessageOrBlank() string {
	if strings.TrimSpace(e.Message) == "" {
		return "(blank)"
	}

	return e.Message
}

// Sentinel errors for common failure scenarios.
var (
	// ErrNilFactory indicates that a nil write connection factory was provided.
	ErrNilFactory = errors.New("simpledb: write connection factory cannot be nil")

	// ErrNilProvider indicates that a nil connection provider was provided.
	ErrNilProvider = errors.New("simpledb: connection provider cannot be nil")

	// ErrNilConnection indicates that a factory returned a nil handle without an error.
	ErrNilConnection = errors.New("simpledb: connection factory returned a nil connection")

	// ErrClientClosed indicates an operation was attempted on a closed client.
	ErrClientClosed = errors.New("simpledb: client is closed")

	// ErrEmptyRows indicates a multi-row helper was called without any rows.
	ErrEmptyRows = errors.New("simpledb: at least one row required")

	// ErrRowShapeMismatch indicates a multi-row helper received rows with different columns.
	ErrRowShapeMismatch = errors.New("simpledb: all rows must have the same columns")

	// ErrEmptyFields indicates a single-row helper was called without any fields.
	ErrEmptyFields = errors.New("simpledb: at least one field required")

	// ErrColumnOutOfRange indicates a column index beyond the returned row width.
	ErrColumnOutOfRange = errors.New("simpledb: column index out of range")

	// ErrNoRecords is matched by NoRecordsFoundError via errors.Is.
	ErrNoRecords = errors.New("simpledb: no records found")
)
