// Package mysql adapts github.com/go-sql-driver/mysql to the simpledb driver surface.
//
// It provides the MySQL Dialect (quoting, ErrorInfo extraction and transport
// classification) and connection factories that open one dedicated session per
// handle.
//
// # Usage
//
//	cfg, _ := gomysql.ParseDSN("app:secret@tcp(db-master:3306)/shop?parseTime=true")
//	write := mysql.NewFactory(cfg)
//
//	client, _ := simpledb.New(write, nil)
package mysql

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	sqladapter "github.com/arloliu/simpledb/adapter/sql"
	"github.com/arloliu/simpledb/types"
)

// MySQL client error codes for a lost session.
const (
	// CodeServerGone is CR_SERVER_GONE_ERROR ("MySQL server has gone away").
	CodeServerGone = 2006
	// CodeServerLost is CR_SERVER_LOST ("Lost connection to MySQL server during query").
	CodeServerLost = 2013
)

// DriverName is the database/sql driver name registered by go-sql-driver/mysql.
const DriverName = "mysql"

// Dialect implements sqladapter.Dialect for MySQL and MariaDB.
type Dialect struct {
	// NoBackslashEscapes selects quote doubling instead of backslash escaping,
	// for servers running with the NO_BACKSLASH_ESCAPES SQL mode.
	NoBackslashEscapes bool
}

// Compile-time assertions.
var (
	_ sqladapter.Dialect          = Dialect{}
	_ sqladapter.BackslashEscaper = Dialect{}
)

// BackslashEscapes reports whether string literals use backslash escapes.
func (d Dialect) BackslashEscapes() bool {
	return !d.NoBackslashEscapes
}

// Quote escapes value the way mysql_real_escape_string does and wraps it in single quotes.
func (d Dialect) Quote(value string) string {
	if d.NoBackslashEscapes {
		return sqladapter.QuoteDoubled(value)
	}

	var b strings.Builder
	b.Grow(len(value) + 2)
	b.WriteByte('\'')
	for i := 0; i < len(value); i++ {
		switch c := value[i]; c {
		case 0:
			b.WriteString(`\0`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\x1a':
			b.WriteString(`\Z`)
		case '\'':
			b.WriteString(`\'`)
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('\'')

	return b.String()
}

// ErrorInfo extracts the SQLSTATE, error number and message from a MySQL error.
//
// Server errors carry their own triple. A lost session is reported as
// CodeServerGone so that error-code based disconnect detection works for
// client-side failures too.
func (d Dialect) ErrorInfo(err error) types.ErrorInfo {
	if err == nil {
		return types.ErrorInfo{}
	}

	var myErr *gomysql.MySQLError
	if errors.As(err, &myErr) {
		state := strings.TrimRight(string(myErr.SQLState[:]), "\x00")
		if state == "" {
			state = sqladapter.GeneralErrorState
		}

		return types.ErrorInfo{SQLState: state, Code: int(myErr.Number), Message: myErr.Message}
	}

	if d.IsTransportError(err) {
		return types.ErrorInfo{SQLState: sqladapter.GeneralErrorState, Code: CodeServerGone, Message: err.Error()}
	}

	return types.ErrorInfo{SQLState: sqladapter.GeneralErrorState, Message: err.Error()}
}

// IsTransportError reports whether err means the MySQL session is broken.
func (d Dialect) IsTransportError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, gomysql.ErrInvalidConn) {
		return true
	}

	var myErr *gomysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == CodeServerGone || myErr.Number == CodeServerLost
	}

	return sqladapter.IsTransportError(err)
}

// FactoryOption configures a factory created by NewFactory.
type FactoryOption func(*factoryConfig)

type factoryConfig struct {
	dialect Dialect
	init    []string
}

// WithNoBackslashEscapes makes Quote double single quotes instead of using backslashes.
//
// Returns:
//   - FactoryOption: Configuration option
func WithNoBackslashEscapes() FactoryOption {
	return func(c *factoryConfig) {
		c.dialect.NoBackslashEscapes = true
	}
}

// WithInitStatements sets statements executed on every new session,
// e.g. "SET time_zone = '+00:00'".
//
// Parameters:
//   - stmts: Statements to execute after connecting
//
// Returns:
//   - FactoryOption: Configuration option
func WithInitStatements(stmts ...string) FactoryOption {
	return func(c *factoryConfig) {
		c.init = append(c.init, stmts...)
	}
}

// NewFactory returns a factory that opens a dedicated MySQL session per call.
//
// Each handle owns a private pool limited to one connection, so statements like
// START TRANSACTION and SET apply to the session the handle represents.
//
// Parameters:
//   - cfg: Driver configuration (see gomysql.ParseDSN and gomysql.NewConfig)
//   - opts: Optional factory options
//
// Returns:
//   - sqladapter.Factory: A connection factory for the provider
func NewFactory(cfg *gomysql.Config, opts ...FactoryOption) sqladapter.Factory {
	fc := &factoryConfig{}
	for _, opt := range opts {
		opt(fc)
	}

	return func(ctx context.Context) (sqladapter.Conn, error) {
		connector, err := gomysql.NewConnector(cfg)
		if err != nil {
			return nil, err
		}

		db := sqlx.NewDb(sql.OpenDB(connector), DriverName)
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)

		conn, err := sqladapter.Connect(ctx, db, fc.dialect, sqladapter.WithCloser(db))
		if err != nil {
			_ = db.Close()
			return nil, err
		}

		for _, stmt := range fc.init {
			if _, err := conn.ExecContext(ctx, stmt, nil); err != nil {
				_ = conn.Close()
				return nil, err
			}
		}

		return conn, nil
	}
}

// NewFactoryFromDSN parses dsn and returns a factory for it.
//
// Parameters:
//   - dsn: Data source name, e.g. "user:pass@tcp(host:3306)/db"
//   - opts: Optional factory options
//
// Returns:
//   - sqladapter.Factory: A connection factory
//   - error: Error if the DSN cannot be parsed
func NewFactoryFromDSN(dsn string, opts ...FactoryOption) (sqladapter.Factory, error) {
	cfg, err := gomysql.ParseDSN(dsn)
	if err != nil {
		return nil, err
	}

	return NewFactory(cfg, opts...), nil
}
