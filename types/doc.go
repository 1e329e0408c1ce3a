// Package types provides shared types and error definitions for the simpledb library.
//
// This is a leaf package with zero simpledb imports to prevent import cycles.
// All packages in simpledb can safely import this package.
//
// # Roles
//
// Role tags a connection handle as the write (master) or read (slave) connection:
//
//	const (
//	    RoleWrite Role = "write"
//	    RoleRead  Role = "read"
//	)
//
// # Statements
//
// Statements are plain SQL strings with ":name" placeholders and a Params map.
// The classification helpers (FirstWord, KindOf, ClassifyAccess, IsReadStatement)
// decide routing and whether a statement produces a row set.
//
// # Results
//
// Result is a fully buffered execution result. Rows are returned as Row values,
// shaped by FetchMode:
//
//	row, ok := result.Fetch(types.FetchAssoc)
//	name, _ := row.Get("name")
//
// # Errors
//
// Sentinel errors are provided for common failure scenarios:
//
//   - ErrNilFactory: A nil connection factory was provided
//   - ErrClientClosed: Operation attempted on a closed client
//   - ErrEmptyRows: A bulk helper was called without rows
//   - ErrNoRecords: A required accessor found no rows (see NoRecordsFoundError)
//
// QueryExecutionError carries the SQL, the parameters and the driver ErrorInfo
// of a failed statement.
package types
