package simpledb

import (
	"context"
	"fmt"
	"strings"

	"github.com/arloliu/simpledb/types"
)

// TruncateTable removes every row of table.
func (c *Client) TruncateTable(ctx context.Context, table string) error {
	_, err := c.Exec(ctx, fmt.Sprintf("TRUNCATE %s;", quoteTable(table)), nil)
	return err
}

// DropTable drops table.
func (c *Client) DropTable(ctx context.Context, table string) error {
	_, err := c.Exec(ctx, fmt.Sprintf("DROP TABLE %s;", quoteTable(table)), nil)
	return err
}

// RenameTable renames currentName to newName.
func (c *Client) RenameTable(ctx context.Context, currentName, newName string) error {
	_, err := c.Exec(ctx, fmt.Sprintf("RENAME TABLE %s TO %s", quoteTable(currentName), quoteTable(newName)), nil)
	return err
}

// DuplicateTable creates newTable with the structure of table if it does not exist.
//
// With withData the new table is truncated and then filled with every row of
// table. The source table is never modified.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - table: Source table
//   - newTable: Table to create
//   - withData: Copy the rows as well
//
// Returns:
//   - error: The first execution error
func (c *Client) DuplicateTable(ctx context.Context, table, newTable string, withData bool) error {
	src, dst := quoteTable(table), quoteTable(newTable)

	if _, err := c.Exec(ctx, fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s LIKE %s;", dst, src), nil); err != nil {
		return err
	}

	if !withData {
		return nil
	}

	if err := c.TruncateTable(ctx, newTable); err != nil {
		return err
	}

	_, err := c.Exec(ctx, fmt.Sprintf("INSERT INTO %s SELECT * FROM %s;", dst, src), nil)

	return err
}

// DisableForeignKeyChecks turns off foreign key enforcement for the write session.
func (c *Client) DisableForeignKeyChecks(ctx context.Context) error {
	_, err := c.Exec(ctx, "SET foreign_key_checks = 0;", nil)
	return err
}

// EnableForeignKeyChecks turns foreign key enforcement back on for the write session.
func (c *Client) EnableForeignKeyChecks(ctx context.Context) error {
	_, err := c.Exec(ctx, "SET foreign_key_checks = 1;", nil)
	return err
}

// ListTablesStartsWith returns the tables whose name starts with prefix.
//
// The prefix is a LIKE pattern, so "_" and "%" keep their wildcard meaning.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - prefix: Name prefix, empty for all tables
//
// Returns:
//   - []string: Table names in catalog order
//   - error: An execution error
func (c *Client) ListTablesStartsWith(ctx context.Context, prefix string) ([]string, error) {
	pattern, err := c.Quote(ctx, prefix+"%")
	if err != nil {
		return nil, err
	}

	values, err := c.GetColumnFromAllRows(ctx, fmt.Sprintf("SHOW TABLES LIKE %s;", pattern), nil, 0)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(values))
	for i, v := range values {
		names[i] = types.StringValue(v)
	}

	return names, nil
}

// ListAllTables returns every table of the current database.
func (c *Client) ListAllTables(ctx context.Context) ([]string, error) {
	return c.ListTablesStartsWith(ctx, "")
}

// ListTablesNotStartingWith returns the tables whose name does not start with prefix.
//
// The full list is filtered client-side; prefix is matched literally.
func (c *Client) ListTablesNotStartingWith(ctx context.Context, prefix string) ([]string, error) {
	all, err := c.ListAllTables(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(all))
	for _, name := range all {
		if !strings.HasPrefix(name, prefix) {
			out = append(out, name)
		}
	}

	return out, nil
}
