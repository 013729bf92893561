// Package table holds the in-memory tabular model passed between the
// extract, clean, load and analysis stages.
//
// A Table is a named, ordered set of columns and a list of rows. Each row
// holds one Value per column; a nil Value is missing. Values produced by the
// extractor are float64 or string, and the cleaner turns YEAR into time.Time.
package table

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Value is a single cell. nil means missing.
type Value = any

// Row is one record, aligned with Table.Columns.
type Row []Value

// Table is an in-memory dataset.
type Table struct {
	Name    string
	Columns []string
	Rows    []Row
}

// New creates an empty table with the given columns.
func New(name string, columns ...string) *Table {
	return &Table{
		Name:    name,
		Columns: append([]string(nil), columns...),
	}
}

// Append adds a row. Short rows are padded with missing values; long rows
// are truncated to the column count.
func (t *Table) Append(values ...Value) {
	row := make(Row, len(t.Columns))
	copy(row, values)
	t.Rows = append(t.Rows, row)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// ColumnIndex returns the position of column name, or -1 when absent.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// HasColumns reports whether every named column is present.
func (t *Table) HasColumns(names ...string) bool {
	return len(t.MissingColumns(names...)) == 0
}

// MissingColumns returns the names that are not columns of t, in argument order.
func (t *Table) MissingColumns(names ...string) []string {
	var missing []string
	for _, n := range names {
		if t.ColumnIndex(n) < 0 {
			missing = append(missing, n)
		}
	}
	return missing
}

// Column returns the values of one column in row order.
func (t *Table) Column(name string) ([]Value, bool) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil, false
	}
	out := make([]Value, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r[idx]
	}
	return out, true
}

// Clone returns a deep copy of the row slice; cell values are shared.
func (t *Table) Clone() *Table {
	c := &Table{
		Name:    t.Name,
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([]Row, len(t.Rows)),
	}
	for i, r := range t.Rows {
		c.Rows[i] = append(Row(nil), r...)
	}
	return c
}

// IsMissing reports whether v counts as a missing cell. NaN floats are
// missing, matching how spreadsheets surface empty numeric cells.
func IsMissing(v Value) bool {
	switch x := v.(type) {
	case nil:
		return true
	case float64:
		return math.IsNaN(x)
	case string:
		return strings.TrimSpace(x) == ""
	}
	return false
}

// Float converts a numeric cell to float64.
func Float(v Value) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, !math.IsNaN(x)
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// Key renders a cell as a join key. Dates collapse to their year so a cleaned
// YEAR joins with a raw numeric one.
func Key(v Value) string {
	switch x := v.(type) {
	case nil:
		return ""
	case time.Time:
		return strconv.Itoa(x.Year())
	case string:
		return strings.TrimSpace(x)
	case float64:
		if x == math.Trunc(x) {
			return strconv.FormatInt(int64(x), 10)
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}
