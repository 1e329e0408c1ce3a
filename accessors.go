package simpledb

import (
	"context"
	"fmt"
	"strconv"

	"github.com/arloliu/simpledb/types"
)

// GetColumn returns one column of the first row.
//
// With zero rows it returns (nil, nil) when optional is set, and a
// *types.NoRecordsFoundError otherwise.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - sql: Statement text
//   - params: Named parameters, may be nil
//   - column: Zero-based column index
//   - optional: Return nil instead of failing when no row matches
//
// Returns:
//   - any: The column value
//   - error: NoRecordsFoundError, ErrColumnOutOfRange or an execution error
func (c *Client) GetColumn(ctx context.Context, sql string, params types.Params, column int, optional bool) (any, error) {
	res, err := c.Execute(ctx, sql, params)
	if err != nil {
		return nil, err
	}

	if res.RowCount() < 1 {
		return c.noRecords(sql, params, optional)
	}

	v, ok, err := res.FetchColumn(column)
	if err != nil {
		return nil, err
	}
	if !ok {
		return c.noRecords(sql, params, optional)
	}

	return v, nil
}

// GetRow returns the first row shaped by mode.
//
// With zero rows it returns (nil, nil) when optional is set, and a
// *types.NoRecordsFoundError otherwise.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - sql: Statement text
//   - params: Named parameters, may be nil
//   - optional: Return nil instead of failing when no row matches
//   - mode: FetchAssoc for name-keyed rows, FetchNum for positional rows
//
// Returns:
//   - *types.Row: The first row
//   - error: NoRecordsFoundError or an execution error
func (c *Client) GetRow(ctx context.Context, sql string, params types.Params, optional bool, mode types.FetchMode) (*types.Row, error) {
	res, err := c.Execute(ctx, sql, params)
	if err != nil {
		return nil, err
	}

	row, ok := res.Fetch(mode)
	if !ok {
		if _, err := c.noRecords(sql, params, optional); err != nil {
			return nil, err
		}

		return nil, nil
	}

	return &row, nil
}

// GetAll returns every row shaped by mode.
//
// An empty result is an empty slice, never an error.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - sql: Statement text
//   - params: Named parameters, may be nil
//   - mode: FetchAssoc for name-keyed rows, FetchNum for positional rows
//
// Returns:
//   - []types.Row: All rows in result order
//   - error: An execution error
func (c *Client) GetAll(ctx context.Context, sql string, params types.Params, mode types.FetchMode) ([]types.Row, error) {
	res, err := c.Execute(ctx, sql, params)
	if err != nil {
		return nil, err
	}

	return res.FetchAll(mode), nil
}

// GetColumnFromAllRows returns one column of every row, in row order.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - sql: Statement text
//   - params: Named parameters, may be nil
//   - column: Zero-based column index
//
// Returns:
//   - []any: The column values
//   - error: ErrColumnOutOfRange or an execution error
func (c *Client) GetColumnFromAllRows(ctx context.Context, sql string, params types.Params, column int) ([]any, error) {
	rows, err := c.GetAll(ctx, sql, params, types.FetchNum)
	if err != nil {
		return nil, err
	}

	out := make([]any, 0, len(rows))
	for _, row := range rows {
		if column < 0 || column >= row.Len() {
			return nil, types.ErrColumnOutOfRange
		}
		out = append(out, row.At(column))
	}

	return out, nil
}

// GetInt returns the first column of the first row as an int64, e.g. for COUNT(*).
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - sql: Statement text
//   - params: Named parameters, may be nil
//
// Returns:
//   - int64: The value
//   - error: NoRecordsFoundError, a conversion error or an execution error
func (c *Client) GetInt(ctx context.Context, sql string, params types.Params) (int64, error) {
	v, err := c.GetColumn(ctx, sql, params, 0, false)
	if err != nil {
		return 0, err
	}

	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case uint64:
		return int64(n), nil
	case float64:
		return int64(n), nil
	case nil:
		return 0, nil
	default:
		i, err := strconv.ParseInt(types.StringValue(n), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("simpledb: %q is not an integer: %w", types.StringValue(n), err)
		}

		return i, nil
	}
}

func (c *Client) noRecords(sql string, params types.Params, optional bool) (any, error) {
	if optional {
		return nil, nil
	}

	return nil, &types.NoRecordsFoundError{SQL: sql, Params: params}
}
