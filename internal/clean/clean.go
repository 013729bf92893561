package clean

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/vvka-141/vaxpipe/internal/table"
)

const (
	ColumnCoverage      = "COVERAGE"
	ColumnIncidenceRate = "INCIDENCE_RATE"
	ColumnCases         = "CASES"
	ColumnYear          = "YEAR"
)

// forwardFilled lists the columns whose gaps are filled from the previous row.
var forwardFilled = []string{ColumnCoverage, ColumnIncidenceRate, ColumnCases}

const (
	minYear = 1000
	maxYear = 9999
)

// Report counts what a Clean call changed.
type Report struct {
	Input          int
	Filled         int
	DroppedMissing int
	DroppedYear    int
	DroppedRange   int
	Output         int
}

// Dropped returns the total number of rows removed.
func (r Report) Dropped() int {
	return r.DroppedMissing + r.DroppedYear + r.DroppedRange
}

// Clean returns a cleaned copy of t. The input table is not modified.
func Clean(t *table.Table) (*table.Table, Report) {
	out := t.Clone()
	rep := Report{Input: out.Len()}

	for _, col := range forwardFilled {
		rep.Filled += forwardFill(out, col)
	}

	rep.DroppedMissing = dropMissing(out)

	if idx := out.ColumnIndex(ColumnYear); idx >= 0 {
		rep.DroppedYear = filterMap(out, idx, func(v table.Value) (table.Value, bool) {
			y, ok := ParseYear(v)
			return y, ok
		})
	}

	if idx := out.ColumnIndex(ColumnCoverage); idx >= 0 {
		rep.DroppedRange = filterMap(out, idx, normalizeCoverage)
	}

	rep.Output = out.Len()
	return out, rep
}

// forwardFill replaces each missing cell of col with the nearest preceding
// non-missing value. Leading gaps stay missing. Returns the number of cells filled.
func forwardFill(t *table.Table, col string) int {
	idx := t.ColumnIndex(col)
	if idx < 0 {
		return 0
	}

	var last table.Value
	filled := 0
	for _, row := range t.Rows {
		if table.IsMissing(row[idx]) {
			if last != nil {
				row[idx] = last
				filled++
			}
			continue
		}
		last = row[idx]
	}
	return filled
}

func dropMissing(t *table.Table) int {
	kept := t.Rows[:0]
	for _, row := range t.Rows {
		if !rowHasMissing(row) {
			kept = append(kept, row)
		}
	}
	dropped := len(t.Rows) - len(kept)
	t.Rows = kept
	return dropped
}

func rowHasMissing(row table.Row) bool {
	for _, v := range row {
		if table.IsMissing(v) {
			return true
		}
	}
	return false
}

// filterMap rewrites column idx with fn and drops rows where fn reports false.
func filterMap(t *table.Table, idx int, fn func(table.Value) (table.Value, bool)) int {
	kept := t.Rows[:0]
	for _, row := range t.Rows {
		v, ok := fn(row[idx])
		if !ok {
			continue
		}
		row[idx] = v
		kept = append(kept, row)
	}
	dropped := len(t.Rows) - len(kept)
	t.Rows = kept
	return dropped
}

// ParseYear converts a four-digit year into 1 January of that year, UTC.
// Integral numbers and four-digit strings are accepted; a time.Time is
// truncated to its year.
func ParseYear(v table.Value) (time.Time, bool) {
	var year int
	switch x := v.(type) {
	case time.Time:
		year = x.Year()
	case float64:
		if math.IsNaN(x) || x != math.Trunc(x) {
			return time.Time{}, false
		}
		year = int(x)
	case int:
		year = x
	case int64:
		year = int(x)
	case string:
		s := strings.TrimSpace(x)
		if len(s) != 4 {
			return time.Time{}, false
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return time.Time{}, false
		}
		year = n
	default:
		return time.Time{}, false
	}

	if year < minYear || year > maxYear {
		return time.Time{}, false
	}
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC), true
}

func normalizeCoverage(v table.Value) (table.Value, bool) {
	pct, ok := table.Float(v)
	if !ok {
		return nil, false
	}
	frac := pct / 100
	if frac < 0 || frac > 1 {
		return nil, false
	}
	return frac, true
}
