package simpledb

import (
	"context"
	"reflect"
	"sort"
	"strings"

	sqladapter "github.com/arloliu/simpledb/adapter/sql"
	"github.com/arloliu/simpledb/types"
)

// Quote renders value as a SQL literal using the write handle's driver quoting.
//
// Rendering rules:
//   - driver.Valuer values are replaced by their Value and pointers are dereferenced
//   - nil, a nil pointer and a NULL Valuer become NULL
//   - slices and arrays (except []byte) are joined with "," and quoted as one string
//   - anything else is converted with types.StringValue and quoted
//
// Parameters:
//   - ctx: Context for a lazy connect
//   - value: The value to render
//
// Returns:
//   - string: The literal
//   - error: Factory error if the write handle cannot be opened
func (c *Client) Quote(ctx context.Context, value any) (string, error) {
	conn, err := c.provider.WriteConn(ctx)
	if err != nil {
		return "", err
	}

	return quoteValue(conn, value), nil
}

func quoteValue(conn sqladapter.Conn, value any) string {
	value = types.Indirect(value)
	if value == nil {
		return "NULL"
	}

	if _, ok := value.([]byte); !ok {
		rv := reflect.ValueOf(value)
		if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
			parts := make([]string, rv.Len())
			for i := range parts {
				parts[i] = types.StringValue(rv.Index(i).Interface())
			}

			return conn.Quote(strings.Join(parts, ","))
		}
	}

	return conn.Quote(types.StringValue(value))
}

// quoteIdentifier wraps a table or column name in backticks.
// Dotted names are qualified identifiers and every segment is quoted separately.
func quoteIdentifier(name string) string {
	segments := strings.Split(name, ".")
	for i, s := range segments {
		segments[i] = "`" + strings.ReplaceAll(s, "`", "``") + "`"
	}

	return strings.Join(segments, ".")
}

// quoteTable wraps a table name in backticks without splitting on dots.
func quoteTable(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// sortedKeys returns the keys of fields in ascending order.
func sortedKeys(fields types.Params) []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}

// columnList renders keys as a comma separated list of quoted identifiers.
func columnList(keys []string) string {
	quoted := make([]string, len(keys))
	for i, k := range keys {
		quoted[i] = quoteIdentifier(k)
	}

	return strings.Join(quoted, ",")
}
