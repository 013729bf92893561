// Package extract reads the input spreadsheets into in-memory tables.
package extract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/vvka-141/vaxpipe/internal/dataset"
	"github.com/vvka-141/vaxpipe/internal/table"
	"github.com/vvka-141/vaxpipe/pkg/vaxpipe"
)

// Extractor reads one XLSX workbook per dataset from a directory.
type Extractor struct {
	dir    string
	logger vaxpipe.Logger
}

// New creates an Extractor rooted at dir.
func New(dir string, logger vaxpipe.Logger) *Extractor {
	return &Extractor{dir: dir, logger: logger}
}

// Extract reads every dataset. Any failure aborts the whole extraction and no
// tables are returned.
func (e *Extractor) Extract(ctx context.Context, datasets []dataset.Dataset) (map[string]*table.Table, error) {
	out := make(map[string]*table.Table, len(datasets))
	for _, ds := range datasets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		path := filepath.Join(e.dir, ds.File)
		t, err := ReadFile(path, ds.Table)
		if err != nil {
			return nil, err
		}

		e.logger.Verbose("Read %d rows x %d columns from %s", t.Len(), len(t.Columns), path)
		out[ds.Table] = t
	}
	return out, nil
}

// ReadFile reads the first sheet of an XLSX workbook. The first row is the
// header. Errors wrap vaxpipe.ErrExtractFailed.
func ReadFile(path, name string) (*table.Table, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("input file %s not found: %w", path, vaxpipe.ErrExtractFailed)
		}
		return nil, fmt.Errorf("cannot access %s: %v: %w", path, err, vaxpipe.ErrExtractFailed)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open workbook %s: %v: %w", path, err, vaxpipe.ErrExtractFailed)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets: %w", path, vaxpipe.ErrExtractFailed)
	}

	// Raw values keep numbers free of display formatting (thousand separators,
	// percent signs); date cells come back as Excel serial numbers.
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("cannot read sheet %q of %s: %v: %w", sheets[0], path, err, vaxpipe.ErrExtractFailed)
	}

	t, err := fromRows(name, rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %v: %w", path, err, vaxpipe.ErrExtractFailed)
	}
	return t, nil
}

// naMarkers are the text cells read as missing alongside empty ones.
var naMarkers = map[string]bool{
	"#N/A": true, "#N/A N/A": true, "#NA": true, "-1.#IND": true, "-1.#QNAN": true,
	"-NaN": true, "-nan": true, "1.#IND": true, "1.#QNAN": true, "<NA>": true,
	"N/A": true, "NA": true, "NULL": true, "NaN": true, "None": true,
	"n/a": true, "nan": true, "null": true,
}

// missingCell reports whether a raw cell is empty or a missing-value marker.
func missingCell(cell string) bool {
	cell = strings.TrimSpace(cell)
	return cell == "" || naMarkers[cell]
}

// fromRows builds a table from raw sheet rows, inferring per column whether
// values are numeric.
func fromRows(name string, rows [][]string) (*table.Table, error) {
	if len(rows) == 0 {
		return nil, errors.New("sheet is empty")
	}

	header := headerNames(rows[0])

	body := rows[1:]
	numeric := numericColumns(len(header), body)

	t := table.New(name, header...)
	for _, raw := range body {
		if blankRow(raw) {
			continue
		}
		row := make(table.Row, len(header))
		for i := range header {
			if i >= len(raw) {
				break
			}
			if missingCell(raw[i]) {
				continue
			}
			cell := strings.TrimSpace(raw[i])
			if numeric[i] {
				f, _ := strconv.ParseFloat(cell, 64)
				row[i] = f
				continue
			}
			row[i] = cell
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// headerNames trims the header row. Blank names become "Unnamed: <index>"
// and repeats get a ".1", ".2" suffix.
func headerNames(raw []string) []string {
	header := make([]string, len(raw))
	seen := make(map[string]bool, len(raw))
	counts := make(map[string]int, len(raw))
	for i, h := range raw {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		base := h
		for seen[h] {
			counts[base]++
			h = fmt.Sprintf("%s.%d", base, counts[base])
		}
		seen[h] = true
		header[i] = h
	}
	return header
}

// numericColumns reports, per column, whether every non-missing cell parses as
// a float. Columns with no values at all are not numeric.
func numericColumns(n int, body [][]string) []bool {
	numeric := make([]bool, n)
	seen := make([]bool, n)
	for i := range numeric {
		numeric[i] = true
	}
	for _, raw := range body {
		for i := 0; i < n && i < len(raw); i++ {
			if !numeric[i] || missingCell(raw[i]) {
				continue
			}
			seen[i] = true
			if _, err := strconv.ParseFloat(strings.TrimSpace(raw[i]), 64); err != nil {
				numeric[i] = false
			}
		}
	}
	for i := range numeric {
		numeric[i] = numeric[i] && seen[i]
	}
	return numeric
}

func blankRow(raw []string) bool {
	for _, c := range raw {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
