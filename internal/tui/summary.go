// Package tui renders human-facing run output with lipgloss.
package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/vvka-141/vaxpipe/internal/analysis"
	"github.com/vvka-141/vaxpipe/internal/pipeline"
)

var summaryHeaders = []string{"Table", "File", "Read", "Filled", "Dropped", "Clean", "Loaded", "Status"}

// statusColumn is the index of the Status column in summaryHeaders.
const statusColumn = 7

// RenderSummary formats a run summary as a table of datasets followed by the
// analysis results.
func RenderSummary(s *pipeline.Summary, color bool) string {
	st := NewStyles(color)

	rows := make([][]string, 0, len(s.Tables))
	failed := make(map[int]bool)
	for i, t := range s.Tables {
		status := SymbolCheck + " loaded"
		if t.LoadErr != nil {
			status = SymbolCross + " " + firstLine(t.LoadErr)
			failed[i] = true
		}
		rows = append(rows, []string{
			t.Table,
			t.File,
			strconv.Itoa(t.Clean.Input),
			strconv.Itoa(t.Clean.Filled),
			strconv.Itoa(t.Clean.Dropped()),
			strconv.Itoa(t.Clean.Output),
			strconv.FormatInt(t.Loaded, 10),
			status,
		})
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(st.Border).
		Headers(summaryHeaders...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return st.Header
			case col == statusColumn && failed[row]:
				return st.Error.Padding(0, 1)
			case col == statusColumn:
				return st.Success.Padding(0, 1)
			}
			return st.Cell
		})

	var b strings.Builder
	b.WriteString(st.Title.Render(fmt.Sprintf("vaxpipe run %s", s.RunID)))
	b.WriteString("\n")
	b.WriteString(st.Muted.Render(fmt.Sprintf("database %s, %s", s.Database, s.Duration.Round(time.Millisecond))))
	b.WriteString("\n")
	b.WriteString(tbl.String())
	b.WriteString("\n")

	loaded := fmt.Sprintf("%d/%d tables loaded", s.LoadedTables(), len(s.Tables))
	if s.LoadedTables() == len(s.Tables) {
		b.WriteString(st.Success.Render(loaded))
	} else {
		b.WriteString(st.Error.Render(loaded))
	}
	b.WriteString("\n")

	if s.DatabaseErr != nil {
		fmt.Fprintf(&b, "%s %s\n", st.Warning.Render(SymbolBullet+" Database:"), firstLine(s.DatabaseErr))
	}
	if s.TablesErr != nil {
		fmt.Fprintf(&b, "%s %s\n", st.Warning.Render(SymbolBullet+" Tables:"), firstLine(s.TablesErr))
	}

	switch {
	case s.PlotErr == nil:
		fmt.Fprintf(&b, "%s %s\n", st.Success.Render(SymbolBullet+" Trend chart:"), s.PlotPath)
	case errors.Is(s.PlotErr, analysis.ErrMissingColumns):
		fmt.Fprintf(&b, "%s skipped, required columns missing\n", st.Warning.Render(SymbolBullet+" Trend chart:"))
	default:
		fmt.Fprintf(&b, "%s %s\n", st.Error.Render(SymbolBullet+" Trend chart:"), firstLine(s.PlotErr))
	}

	switch {
	case s.Correlation != nil:
		fmt.Fprintf(&b, "%s r = %.4f over %d pairs\n",
			st.Success.Render(SymbolBullet+" Correlation:"), s.Correlation.R, s.Correlation.N)
	case errors.Is(s.CorrelationErr, analysis.ErrMissingColumns):
		fmt.Fprintf(&b, "%s skipped, required columns missing\n", st.Warning.Render(SymbolBullet+" Correlation:"))
	case s.CorrelationErr != nil:
		fmt.Fprintf(&b, "%s %s\n", st.Warning.Render(SymbolBullet+" Correlation:"), firstLine(s.CorrelationErr))
	}

	return b.String()
}

// firstLine keeps table cells single-line; connection errors carry
// multi-line hints.
func firstLine(err error) string {
	msg := err.Error()
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		return msg[:i]
	}
	return msg
}
