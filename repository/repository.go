package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/mysql"   // registers the mysql dialect
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3" // registers the sqlite3 dialect
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/arloliu/simpledb"
	"github.com/arloliu/simpledb/types"
)

// Dialect names accepted by WithDialect.
const (
	DialectMySQL  = "mysql"
	DialectSQLite = "sqlite3"
)

// ErrInvalidOrder is returned when an order clause cannot be parsed.
var ErrInvalidOrder = errors.New("repository: invalid order clause")

// Mapper builds a value from an associative row.
type Mapper[T any] func(row types.Row) (T, error)

// Option configures a Repository.
type Option func(*options)

type options struct {
	dialect string
}

// WithDialect selects the goqu dialect used by Search and Count.
//
// Parameters:
//   - name: DialectMySQL (default) or DialectSQLite
//
// Returns:
//   - Option: Configuration option
func WithDialect(name string) Option {
	return func(o *options) {
		o.dialect = name
	}
}

// Repository reads rows of one table and maps them with a Mapper.
type Repository[T any] struct {
	client  *simpledb.Client
	table   string
	fromRow Mapper[T]
	dialect goqu.DialectWrapper
}

// New creates a repository for table.
//
// Parameters:
//   - client: The client used for every statement
//   - table: Table searched by Search and Count
//   - fromRow: Builds a value from one associative row
//   - opts: Optional configuration options
//
// Returns:
//   - *Repository[T]: A new repository
func New[T any](client *simpledb.Client, table string, fromRow Mapper[T], opts ...Option) *Repository[T] {
	o := options{dialect: DialectMySQL}
	for _, opt := range opts {
		opt(&o)
	}

	return &Repository[T]{
		client:  client,
		table:   table,
		fromRow: fromRow,
		dialect: goqu.Dialect(o.dialect),
	}
}

// Client returns the client of the repository.
func (r *Repository[T]) Client() *simpledb.Client {
	return r.client
}

// Table returns the table searched by Search and Count.
func (r *Repository[T]) Table() string {
	return r.table
}

// GetByParameters runs sql and maps its first row.
//
// With zero rows it returns (nil, nil) when optional is set, and a
// *types.NoRecordsFoundError otherwise.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - sql: Statement text
//   - params: Named parameters, may be nil
//   - optional: Return nil instead of failing when no row matches
//
// Returns:
//   - *T: The mapped value
//   - error: NoRecordsFoundError, a mapper error or an execution error
func (r *Repository[T]) GetByParameters(ctx context.Context, sql string, params types.Params, optional bool) (*T, error) {
	row, err := r.client.GetRow(ctx, sql, params, optional, types.FetchAssoc)
	if err != nil || row == nil {
		return nil, err
	}

	v, err := r.fromRow(*row)
	if err != nil {
		return nil, err
	}

	return &v, nil
}

// GetAllByParameters runs sql and maps every row, in result order.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - sql: Statement text
//   - params: Named parameters, may be nil
//
// Returns:
//   - []T: The mapped values, empty when nothing matched
//   - error: A mapper error or an execution error
func (r *Repository[T]) GetAllByParameters(ctx context.Context, sql string, params types.Params) ([]T, error) {
	rows, err := r.client.GetAll(ctx, sql, params, types.FetchAssoc)
	if err != nil {
		return nil, err
	}

	return r.mapAll(rows)
}

// Search returns one page of the rows whose columns equal params.
//
// A nil parameter value matches NULL. The order clause is a comma separated
// list of columns, each optionally followed by ASC or DESC, e.g. "name, id DESC".
// Pages start at 1; a page below 1 is treated as 1 and a limit of 0 returns
// every matching row.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - params: Column values to match, may be empty
//   - order: Order clause, may be empty
//   - page: Page number
//   - limit: Rows per page
//
// Returns:
//   - []T: The mapped values of the page
//   - error: ErrInvalidOrder, a mapper error or an execution error
func (r *Repository[T]) Search(ctx context.Context, params types.Params, order string, page, limit int) ([]T, error) {
	ds := r.filtered(params)

	ordering, err := parseOrder(order)
	if err != nil {
		return nil, err
	}
	if len(ordering) > 0 {
		ds = ds.Order(ordering...)
	}

	if limit > 0 {
		page = max(page, 1)
		ds = ds.Limit(uint(limit))
		if offset := (page - 1) * limit; offset > 0 {
			ds = ds.Offset(uint(offset))
		}
	}

	sql, _, err := ds.ToSQL()
	if err != nil {
		return nil, err
	}

	return r.GetAllByParameters(ctx, sql, nil)
}

// Count returns the number of rows whose columns equal params.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - params: Column values to match, may be empty
//
// Returns:
//   - int64: The row count
//   - error: An execution error
func (r *Repository[T]) Count(ctx context.Context, params types.Params) (int64, error) {
	sql, _, err := r.filtered(params).Select(goqu.COUNT(goqu.Star())).ToSQL()
	if err != nil {
		return 0, err
	}

	return r.client.GetInt(ctx, sql, nil)
}

func (r *Repository[T]) filtered(params types.Params) *goqu.SelectDataset {
	ds := r.dialect.From(r.table)
	if len(params) > 0 {
		ds = ds.Where(goqu.Ex(params))
	}

	return ds
}

func (r *Repository[T]) mapAll(rows []types.Row) ([]T, error) {
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		v, err := r.fromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}

	return out, nil
}

// parseOrder turns "a, b DESC" into goqu order expressions.
func parseOrder(order string) ([]exp.OrderedExpression, error) {
	if strings.TrimSpace(order) == "" {
		return nil, nil
	}

	terms := strings.Split(order, ",")
	out := make([]exp.OrderedExpression, 0, len(terms))
	for _, term := range terms {
		fields := strings.Fields(term)
		switch {
		case len(fields) == 1:
			out = append(out, goqu.I(fields[0]).Asc())
		case len(fields) == 2 && strings.EqualFold(fields[1], "ASC"):
			out = append(out, goqu.I(fields[0]).Asc())
		case len(fields) == 2 && strings.EqualFold(fields[1], "DESC"):
			out = append(out, goqu.I(fields[0]).Desc())
		default:
			return nil, ErrInvalidOrder
		}
	}

	return out, nil
}
