package types

// Row is a single result row.
//
// Rows fetched with FetchAssoc carry their column names and support lookups by
// name. Rows fetched with FetchNum are positional only; Columns is nil.
type Row struct {
	// Columns holds the column names in select order. Nil for positional rows.
	Columns []string

	// Values holds the column values in select order.
	Values []any
}

// Len returns the number of values in the row.
func (r Row) Len() int {
	return len(r.Values)
}

// At returns the value at the given position, or nil when out of range.
func (r Row) At(i int) any {
	if i < 0 || i >= len(r.Values) {
		return nil
	}

	return r.Values[i]
}

// Get returns the value of the named column.
//
// When a statement selects the same name twice, the last occurrence wins.
func (r Row) Get(column string) (any, bool) {
	for i := len(r.Columns) - 1; i >= 0; i-- {
		if r.Columns[i] == column && i < len(r.Values) {
			return r.Values[i], true
		}
	}

	return nil, false
}

// Map returns the row keyed by column name. Positional rows return an empty map.
func (r Row) Map() map[string]any {
	out := make(map[string]any, len(r.Columns))
	for i, c := range r.Columns {
		if i < len(r.Values) {
			out[c] = r.Values[i]
		}
	}

	return out
}

// Result is a buffered execution result.
//
// Statements that produce a row set have every row read into memory before the
// result is returned, so a Result never holds a driver cursor open. Statements
// without a row set report RowsAffected and, for inserts, LastInsertID.
type Result struct {
	columns      []string
	rows         [][]any
	rowsAffected int64
	lastInsertID int64
	cursor       int
}

// NewRowsResult creates a result for a statement that produced a row set.
//
// Parameters:
//   - columns: Column names in select order
//   - rows: Row values, each the same width as columns
//
// Returns:
//   - *Result: A result positioned before the first row
func NewRowsResult(columns []string, rows [][]any) *Result {
	return &Result{
		columns:      columns,
		rows:         rows,
		rowsAffected: int64(len(rows)),
	}
}

// NewExecResult creates a result for a statement without a row set.
//
// Parameters:
//   - rowsAffected: Rows changed by the statement
//   - lastInsertID: Identifier generated by the statement, 0 if none
//
// Returns:
//   - *Result: A result with no rows
func NewExecResult(rowsAffected, lastInsertID int64) *Result {
	return &Result{
		rowsAffected: rowsAffected,
		lastInsertID: lastInsertID,
	}
}

// Columns returns the column names of the row set.
func (r *Result) Columns() []string {
	return r.columns
}

// RowCount returns the number of rows in the row set, or the number of
// affected rows for statements without one.
func (r *Result) RowCount() int64 {
	if r.rows != nil {
		return int64(len(r.rows))
	}

	return r.rowsAffected
}

// RowsAffected returns the affected row count reported by the driver.
func (r *Result) RowsAffected() int64 {
	return r.rowsAffected
}

// LastInsertID returns the identifier generated by the statement, 0 if none.
func (r *Result) LastInsertID() int64 {
	return r.lastInsertID
}

// Fetch returns the next row shaped by mode and advances the cursor.
//
// Returns:
//   - Row: The next row
//   - bool: false when no rows remain
func (r *Result) Fetch(mode FetchMode) (Row, bool) {
	if r.cursor >= len(r.rows) {
		return Row{}, false
	}

	row := r.shape(r.rows[r.cursor], mode)
	r.cursor++

	return row, true
}

// FetchColumn returns one column of the next row and advances the cursor.
//
// Returns:
//   - any: The column value
//   - bool: false when no rows remain
//   - error: ErrColumnOutOfRange if the column does not exist
func (r *Result) FetchColumn(column int) (any, bool, error) {
	if r.cursor >= len(r.rows) {
		return nil, false, nil
	}

	values := r.rows[r.cursor]
	if column < 0 || column >= len(values) {
		return nil, false, ErrColumnOutOfRange
	}
	r.cursor++

	return values[column], true, nil
}

// FetchAll returns every remaining row shaped by mode.
//
// An exhausted or empty result returns an empty, non-nil slice.
func (r *Result) FetchAll(mode FetchMode) []Row {
	out := make([]Row, 0, len(r.rows)-min(r.cursor, len(r.rows)))
	for {
		row, ok := r.Fetch(mode)
		if !ok {
			return out
		}
		out = append(out, row)
	}
}

func (r *Result) shape(values []any, mode FetchMode) Row {
	if mode == FetchNum {
		return Row{Values: values}
	}

	return Row{Columns: r.columns, Values: values}
}
