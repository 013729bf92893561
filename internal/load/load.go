// Package load writes cleaned tables into their destination tables.
//
// Each load replaces the destination's contents: existing rows are removed and
// the cleaned rows inserted. Cells are converted to the Go type matching the
// destination column before they reach the writer:
//
//	TEXT    -> string
//	INTEGER -> int64
//	REAL    -> float64
//	DATE    -> time.Time
//
// Sheet columns the destination does not declare are ignored.
package load

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/vvka-141/vaxpipe/internal/clean"
	"github.com/vvka-141/vaxpipe/internal/dataset"
	"github.com/vvka-141/vaxpipe/internal/table"
	"github.com/vvka-141/vaxpipe/pkg/vaxpipe"
)

// dateLayouts are the textual date forms accepted for DATE columns.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"02/01/2006",
	"2006/01/02",
}

// Loader converts and writes tables.
type Loader struct {
	logger vaxpipe.Logger
}

// New creates a Loader.
func New(logger vaxpipe.Logger) *Loader {
	return &Loader{logger: logger}
}

// Load replaces the rows of ds.Table with the rows of t and returns the number
// of rows written. Errors wrap vaxpipe.ErrLoadFailed; nothing is written when
// a cell cannot be converted.
func (l *Loader) Load(ctx context.Context, w vaxpipe.TableWriter, ds dataset.Dataset, t *table.Table) (int64, error) {
	rows, err := Convert(ds, t)
	if err != nil {
		return 0, fmt.Errorf("load %s: %w: %w", ds.Table, err, vaxpipe.ErrLoadFailed)
	}

	l.logger.Verbose("Writing %d rows to %s", len(rows), ds.Table)
	n, err := w.ReplaceRows(ctx, ds.Table, ds.ColumnNames(), rows)
	if err != nil {
		return 0, fmt.Errorf("load %s: %w: %w", ds.Table, err, vaxpipe.ErrLoadFailed)
	}
	return n, nil
}

// Convert projects t onto the dataset's columns and converts every cell.
func Convert(ds dataset.Dataset, t *table.Table) ([][]any, error) {
	if missing := t.MissingColumns(ds.ColumnNames()...); len(missing) > 0 {
		return nil, fmt.Errorf("columns missing from %s: %s", t.Name, strings.Join(missing, ", "))
	}

	idx := make([]int, len(ds.Columns))
	for i, c := range ds.Columns {
		idx[i] = t.ColumnIndex(c.Name)
	}

	out := make([][]any, 0, t.Len())
	for r, row := range t.Rows {
		vals := make([]any, len(ds.Columns))
		for i, c := range ds.Columns {
			v, err := convertValue(c.Type, row[idx[i]])
			if err != nil {
				// Row numbers are 1-based and skip the header.
				return nil, fmt.Errorf("row %d, column %s: %w", r+2, c.Name, err)
			}
			vals[i] = v
		}
		out = append(out, vals)
	}
	return out, nil
}

func convertValue(typ dataset.ColumnType, v table.Value) (any, error) {
	if table.IsMissing(v) {
		return nil, nil
	}

	switch typ {
	case dataset.Integer:
		return toInteger(v)
	case dataset.Real:
		f, ok := table.Float(v)
		if !ok {
			return nil, fmt.Errorf("%v is not a number", v)
		}
		return f, nil
	case dataset.Date:
		return toDate(v)
	default:
		return toText(v), nil
	}
}

func toText(v table.Value) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case time.Time:
		return x.Format("2006-01-02")
	}
	return fmt.Sprint(v)
}

func toInteger(v table.Value) (int64, error) {
	switch x := v.(type) {
	case int64:
		return x, nil
	case int:
		return int64(x), nil
	}

	f, ok := table.Float(v)
	if !ok {
		return 0, fmt.Errorf("%v is not a number", v)
	}
	if f != math.Trunc(f) || math.Abs(f) > math.MaxInt64 {
		return 0, fmt.Errorf("%v is not an integer", v)
	}
	return int64(f), nil
}

// toDate accepts dates, four-digit years, Excel serial numbers and the
// layouts in dateLayouts. Whole numbers from 1000 to 9999 are read as years.
func toDate(v table.Value) (time.Time, error) {
	if t, ok := v.(time.Time); ok {
		return t, nil
	}
	if y, ok := clean.ParseYear(v); ok {
		return y, nil
	}

	if s, ok := v.(string); ok {
		s = strings.TrimSpace(s)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
		}
	}

	if f, ok := table.Float(v); ok && f > 0 {
		t, err := excelize.ExcelDateToTime(f, false)
		if err != nil {
			return time.Time{}, fmt.Errorf("%v is not a valid date: %w", v, err)
		}
		return t, nil
	}

	return time.Time{}, fmt.Errorf("%v is not a valid date", v)
}
