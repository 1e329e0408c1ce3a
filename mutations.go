package simpledb

import (
	"context"
	"fmt"
	"strings"

	sqladapter "github.com/arloliu/simpledb/adapter/sql"
	"github.com/arloliu/simpledb/types"
)

// Insert inserts one row with bound parameters and returns the generated id.
//
// Columns are emitted in sorted key order. A key containing "." is a qualified
// column name and each segment is quoted separately.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - table: Table name
//   - fields: Column values keyed by column name
//
// Returns:
//   - string: The last insert id reported by the write handle
//   - error: ErrEmptyFields or an execution error
func (c *Client) Insert(ctx context.Context, table string, fields types.Params) (string, error) {
	if err := c.writeSingle(ctx, "INSERT", table, fields); err != nil {
		return "", err
	}

	conn, err := c.provider.WriteConn(ctx)
	if err != nil {
		return "", err
	}

	return conn.LastInsertID(), nil
}

// Replace inserts or replaces one row with bound parameters (REPLACE INTO).
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - table: Table name
//   - fields: Column values keyed by column name
//
// Returns:
//   - error: ErrEmptyFields or an execution error
func (c *Client) Replace(ctx context.Context, table string, fields types.Params) error {
	return c.writeSingle(ctx, "REPLACE", table, fields)
}

// InsertMultiple inserts every row in one statement with literal-quoted values.
//
// Every row must have the columns of the first row.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - table: Table name
//   - rows: Rows to insert, at least one
//
// Returns:
//   - error: ErrEmptyRows, ErrRowShapeMismatch or an execution error
func (c *Client) InsertMultiple(ctx context.Context, table string, rows []types.Params) error {
	return c.writeMultiple(ctx, "INSERT", table, rows)
}

// ReplaceMultiple inserts or replaces every row in one statement with
// literal-quoted values.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - table: Table name
//   - rows: Rows to replace, at least one
//
// Returns:
//   - error: ErrEmptyRows, ErrRowShapeMismatch or an execution error
func (c *Client) ReplaceMultiple(ctx context.Context, table string, rows []types.Params) error {
	return c.writeMultiple(ctx, "REPLACE", table, rows)
}

// Delete deletes the rows matching every column of row.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - table: Table name
//   - row: Column values identifying the row
//
// Returns:
//   - error: ErrEmptyRows or an execution error
func (c *Client) Delete(ctx context.Context, table string, row types.Params) error {
	return c.DeleteMultiple(ctx, table, []types.Params{row})
}

// DeleteMultiple deletes the rows matching any of the given column tuples in
// one statement, e.g. for composite natural keys:
//
//	DELETE FROM `t` WHERE (`id`,`name`) IN (('1','a'),('2','b'));
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - table: Table name
//   - rows: Column tuples, at least one, all with the columns of the first
//
// Returns:
//   - error: ErrEmptyRows, ErrRowShapeMismatch or an execution error
func (c *Client) DeleteMultiple(ctx context.Context, table string, rows []types.Params) error {
	keys, tuples, err := c.tuples(ctx, rows)
	if err != nil {
		return err
	}

	sql := fmt.Sprintf("DELETE FROM %s WHERE (%s) IN ((%s));",
		quoteTable(table), columnList(keys), strings.Join(tuples, "),("))

	_, err = c.Exec(ctx, sql, nil)

	return err
}

func (c *Client) writeSingle(ctx context.Context, verb, table string, fields types.Params) error {
	if len(fields) == 0 {
		return types.ErrEmptyFields
	}

	keys := sortedKeys(fields)
	placeholders := make([]string, len(keys))
	for i, k := range keys {
		placeholders[i] = ":" + k
	}

	sql := fmt.Sprintf("%s INTO %s (%s) VALUES (%s);",
		verb, quoteTable(table), columnList(keys), strings.Join(placeholders, ","))

	_, err := c.Execute(ctx, sql, fields)

	return err
}

func (c *Client) writeMultiple(ctx context.Context, verb, table string, rows []types.Params) error {
	keys, tuples, err := c.tuples(ctx, rows)
	if err != nil {
		return err
	}

	sql := fmt.Sprintf("%s INTO %s (%s) VALUES (%s);",
		verb, quoteTable(table), columnList(keys), strings.Join(tuples, "),("))

	_, err = c.Exec(ctx, sql, nil)

	return err
}

// tuples renders every row as a comma separated list of quoted literals, in
// the sorted column order of the first row.
func (c *Client) tuples(ctx context.Context, rows []types.Params) ([]string, []string, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, nil, types.ErrEmptyRows
	}

	conn, err := c.provider.WriteConn(ctx)
	if err != nil {
		return nil, nil, err
	}

	keys := sortedKeys(rows[0])
	tuples := make([]string, len(rows))
	for i, row := range rows {
		tuple, err := renderTuple(conn, keys, row)
		if err != nil {
			return nil, nil, err
		}
		tuples[i] = tuple
	}

	return keys, tuples, nil
}

func renderTuple(conn sqladapter.Conn, keys []string, row types.Params) (string, error) {
	if len(row) != len(keys) {
		return "", types.ErrRowShapeMismatch
	}

	values := make([]string, len(keys))
	for i, k := range keys {
		v, ok := row[k]
		if !ok {
			return "", types.ErrRowShapeMismatch
		}
		values[i] = quoteValue(conn, v)
	}

	return strings.Join(values, ","), nil
}
