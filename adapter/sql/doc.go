// Package sql provides the driver surface used by simpledb.
//
// simpledb never talks to database/sql directly. Every connection handle is a
// [Conn], which exposes exactly the capabilities the client needs: prepare,
// execute, fetch (through buffered results), quote, last insert id, liveness and
// the translation of driver errors into an ErrorInfo triple.
//
// # Interfaces
//
//   - [Conn]: A single database session (one server connection)
//   - [Stmt]: A prepared statement bound to a Conn
//   - [Dialect]: Driver-specific quoting and error classification
//   - [Factory]: Creates a new Conn, used by the connection provider
//
// # Named parameters
//
// Statements use ":name" placeholders. Binding is done with sqlx, which compiles
// the named placeholders into the driver's bind style. Statements executed
// without parameters are sent verbatim, so literal text such as '10:30' is safe.
//
// # Usage
//
//	db, _ := sqlx.Open("sqlite3", "file:app.db")
//	c, _ := db.Connx(ctx)
//	conn := sqladapter.NewConn(c, sqladapter.AnsiDialect{}, sqladapter.WithCloser(db))
//
//	stmt, _ := conn.PrepareContext(ctx, "SELECT name FROM users WHERE id = :id")
//	res, _ := stmt.ExecuteContext(ctx, types.Params{"id": 1})
//
// Drivers with their own dialect live in sibling packages, see adapter/mysql and
// adapter/sqlite.
package sql
