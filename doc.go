// Package simpledb provides a thin relational database access helper.
//
// simpledb wraps a write connection and an optional read connection behind a
// single client that executes named-parameter SQL, shapes results into rows,
// builds simple INSERT/REPLACE/DELETE statements, manages tables and runs
// transactions. It is not an ORM, a pool or a driver: every statement is plain
// SQL sent through an adapter around database/sql.
//
// # Key Features
//
//   - Read/Write Splitting: SELECT statements go to the read handle, everything else to the write handle
//   - Lazy Connections: Handles are opened on first use and replaced when found dead
//   - Retry on Disconnect: Transport failures are retried after a reconnect, within a budget
//   - Row Accessors: GetColumn, GetRow, GetAll and GetColumnFromAllRows
//   - Mutation Helpers: Insert, Replace, Delete and their multi-row variants
//   - Table Utilities: Truncate, duplicate, rename, drop and list tables
//   - Transactions: RunInTransaction and the generic Transactional helper
//
// # Basic Usage
//
//	cfg, _ := gomysql.ParseDSN("app:secret@tcp(db-master:3306)/shop")
//	replica, _ := gomysql.ParseDSN("app:secret@tcp(db-replica:3306)/shop")
//
//	client, err := simpledb.New(mysql.NewFactory(cfg), mysql.NewFactory(replica),
//	    simpledb.WithLogger(logger),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	id, err := client.Insert(ctx, "users", simpledb.Params{"name": "alice"})
//
//	row, err := client.GetRow(ctx, "SELECT * FROM users WHERE id = :id",
//	    simpledb.Params{"id": id}, false, simpledb.FetchAssoc)
//
// # Error Handling
//
// Driver failures are returned as *types.QueryExecutionError carrying the
// statement, its parameters and the driver's (SQLSTATE, code, message) triple:
//
//	var qe *types.QueryExecutionError
//	if errors.As(err, &qe) && qe.IsConstraintViolation() {
//	    // duplicate key
//	}
//
// Required accessors return *types.NoRecordsFoundError when nothing matched:
//
//	if errors.Is(err, types.ErrNoRecords) {
//	    // not found
//	}
//
// # Disconnects and Retries
//
// When a statement fails with a transport error, the client pauses (see
// RetryPolicy), asks the Provider to reconnect and runs the statement again.
// Whether a handle is dead is decided by a DisconnectDetector; the default
// issues "SELECT 1". Logical failures such as syntax errors or constraint
// violations are never retried.
//
// # Concurrency
//
// Handle replacement is guarded by a mutex, so a Client may be shared for
// non-transactional work. Transactions live on the write session; run them from
// one goroutine at a time.
package simpledb
