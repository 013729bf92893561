// Package analysis produces the two exploratory results of a run: a
// coverage trend chart and the coverage/incidence correlation.
package analysis

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/vvka-141/vaxpipe/internal/table"
	"github.com/vvka-141/vaxpipe/pkg/vaxpipe"
)

var (
	// ErrMissingColumns means a required column is absent. The analysis is skipped.
	ErrMissingColumns = errors.New("required columns are missing")

	// ErrInsufficientData means the join produced fewer than two pairs.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrUndefinedCorrelation means one of the series has zero variance.
	ErrUndefinedCorrelation = errors.New("correlation is undefined")
)

const (
	colYear          = "YEAR"
	colName          = "NAME"
	colCode          = "CODE"
	colCoverage      = "COVERAGE"
	colIncidenceRate = "INCIDENCE_RATE"

	// TrendTitle is the chart title.
	TrendTitle = "Vaccination Trends by Country"
)

// Correlation is a Pearson coefficient and the number of pairs it was computed over.
type Correlation struct {
	R float64
	N int
}

// Analyzer renders charts to plotPath.
type Analyzer struct {
	plotPath string
	logger   vaxpipe.Logger
}

// New creates an Analyzer writing its chart to plotPath.
func New(plotPath string, logger vaxpipe.Logger) *Analyzer {
	return &Analyzer{plotPath: plotPath, logger: logger}
}

// PlotTrends draws one COVERAGE over YEAR line per NAME and saves it as a PNG.
// Several rows for the same NAME and year are averaged. Nothing is written
// when YEAR, COVERAGE or NAME is missing.
func (a *Analyzer) PlotTrends(coverage *table.Table) (string, error) {
	if missing := coverage.MissingColumns(colYear, colCoverage, colName); len(missing) > 0 {
		return "", fmt.Errorf("plot %s: %s: %w", coverage.Name, strings.Join(missing, ", "), ErrMissingColumns)
	}

	series := trendSeries(coverage)

	p := plot.New()
	p.Title.Text = TrendTitle
	p.X.Label.Text = "Year"
	p.Y.Label.Text = "Coverage"
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	for i, s := range series {
		line, err := plotter.NewLine(s.points)
		if err != nil {
			return "", fmt.Errorf("plot line %q: %w", s.name, err)
		}
		line.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(s.name, line)
	}

	a.logger.Verbose("Rendering %d trend lines to %s", len(series), a.plotPath)
	if err := p.Save(12*vg.Inch, 6*vg.Inch, a.plotPath); err != nil {
		return "", fmt.Errorf("save plot %s: %w", a.plotPath, err)
	}
	return a.plotPath, nil
}

type trend struct {
	name   string
	points plotter.XYs
}

// trendSeries groups rows by NAME and averages COVERAGE per year. Series are
// sorted by name and points by year.
func trendSeries(t *table.Table) []trend {
	yi, ci, ni := t.ColumnIndex(colYear), t.ColumnIndex(colCoverage), t.ColumnIndex(colName)

	type acc struct{ sum, n float64 }
	byName := map[string]map[float64]*acc{}
	for _, row := range t.Rows {
		year, ok := yearOf(row[yi])
		if !ok {
			continue
		}
		cov, ok := table.Float(row[ci])
		if !ok {
			continue
		}
		name := table.Key(row[ni])
		if byName[name] == nil {
			byName[name] = map[float64]*acc{}
		}
		a := byName[name][year]
		if a == nil {
			a = &acc{}
			byName[name][year] = a
		}
		a.sum += cov
		a.n++
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]trend, 0, len(names))
	for _, name := range names {
		years := make([]float64, 0, len(byName[name]))
		for y := range byName[name] {
			years = append(years, y)
		}
		sort.Float64s(years)

		pts := make(plotter.XYs, len(years))
		for i, y := range years {
			a := byName[name][y]
			pts[i] = plotter.XY{X: y, Y: a.sum / a.n}
		}
		out = append(out, trend{name: name, points: pts})
	}
	return out
}

func yearOf(v table.Value) (float64, bool) {
	if t, ok := v.(time.Time); ok {
		return float64(t.Year()), true
	}
	return table.Float(v)
}

// CorrelateCoverageIncidence inner-joins the tables on (CODE, YEAR) and
// returns the Pearson correlation of COVERAGE and INCIDENCE_RATE over the
// joined rows. A key matching several rows on both sides yields every pairing.
func (a *Analyzer) CorrelateCoverageIncidence(coverage, incidence *table.Table) (*Correlation, error) {
	missing := coverage.MissingColumns(colCode, colYear, colCoverage)
	missing = append(missing, incidence.MissingColumns(colCode, colYear, colIncidenceRate)...)
	if len(missing) > 0 {
		return nil, fmt.Errorf("correlate: %s: %w", strings.Join(missing, ", "), ErrMissingColumns)
	}

	x, y := joinPairs(coverage, incidence)
	a.logger.Verbose("Joined %d coverage/incidence pairs", len(x))
	if len(x) < 2 {
		return nil, fmt.Errorf("correlate: %d joined rows: %w", len(x), ErrInsufficientData)
	}

	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return nil, fmt.Errorf("correlate: %d joined rows: %w", len(x), ErrUndefinedCorrelation)
	}
	// Rounding can push |r| slightly past 1.
	r = math.Max(-1, math.Min(1, r))

	return &Correlation{R: r, N: len(x)}, nil
}

func joinPairs(coverage, incidence *table.Table) (x, y []float64) {
	key := func(t *table.Table, row table.Row) string {
		return table.Key(row[t.ColumnIndex(colCode)]) + "\x00" + table.Key(row[t.ColumnIndex(colYear)])
	}

	rates := map[string][]float64{}
	ri := incidence.ColumnIndex(colIncidenceRate)
	for _, row := range incidence.Rows {
		if f, ok := table.Float(row[ri]); ok {
			k := key(incidence, row)
			rates[k] = append(rates[k], f)
		}
	}

	ci := coverage.ColumnIndex(colCoverage)
	for _, row := range coverage.Rows {
		cov, ok := table.Float(row[ci])
		if !ok {
			continue
		}
		for _, rate := range rates[key(coverage, row)] {
			x = append(x, cov)
			y = append(y, rate)
		}
	}
	return x, y
}
