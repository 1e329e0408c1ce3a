package types

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// QueryExecutionError is returned when a statement fails on the driver.
//
// It is produced for logical failures (constraint violations, syntax errors,
// deadlocks) immediately, and for transport failures once the retry budget is
// exhausted or a reconnect was not possible.
type QueryExecutionError struct {
	// SQL is the statement text as supplied by the caller.
	SQL string

	// Params are the parameters the statement was executed with.
	Params Params

	// Info is the driver error triple.
	Info ErrorInfo

	// Cause is the underlying driver error.
	Cause error
}

// Error implements the error interface.
func (e *QueryExecutionError) Error() string {
	return fmt.Sprintf("simpledb: could not execute query %s with parameters %s: %s/%d - %s",
		e.SQL, EncodeParams(e.Params), e.Info.SQLState, e.Info.Code, e.Info.MessageOrBlank())
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *QueryExecutionError) Unwrap() error {
	return e.Cause
}

// IsConstraintViolation reports whether the driver reported an integrity
// constraint violation (SQLSTATE class 23), e.g. a duplicate key.
func (e *QueryExecutionError) IsConstraintViolation() bool {
	return strings.HasPrefix(e.Info.SQLState, "23")
}

// NoRecordsFoundError is returned by the required row accessors when the
// statement produced no rows.
type NoRecordsFoundError struct {
	// SQL is the statement text as supplied by the caller.
	SQL string

	// Params are the parameters the statement was executed with.
	Params Params
}

// Error implements the error interface.
func (e *NoRecordsFoundError) Error() string {
	return "simpledb: no records were found using SQL: " + e.ResolvedQuery()
}

// ResolvedQuery returns the statement with its parameters substituted for display.
func (e *NoRecordsFoundError) ResolvedQuery() string {
	return ResolveQuery(e.SQL, e.Params)
}

// Unwrap allows errors.Is(err, ErrNoRecords).
func (e *NoRecordsFoundError) Unwrap() error {
	return ErrNoRecords
}

// UnknownStatementKindError is returned by ClassifyAccess when the leading
// keyword of a statement is neither a read nor a known write keyword.
type UnknownStatementKindError struct {
	// Keyword is the leading keyword found, upper-cased. Empty for blank statements.
	Keyword string
}

// Error implements the error interface.
func (e *UnknownStatementKindError) Error() string {
	if e.Keyword == "" {
		return "simpledb: cannot classify an empty statement"
	}

	return "simpledb: unknown statement kind " + e.Keyword
}

// EncodeParams serializes params as JSON for log lines and error messages.
//
// Values that cannot be marshaled fall back to their fmt representation so that
// error reporting never fails itself.
func EncodeParams(params Params) string {
	if len(params) == 0 {
		return "[]"
	}

	b, err := json.Marshal(params)
	if err == nil {
		return string(b)
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%q:%q", k, fmt.Sprint(params[k])))
	}

	return "{" + strings.Join(parts, ",") + "}"
}
