package pipeline

import (
	"time"

	"github.com/vvka-141/vaxpipe/internal/analysis"
	"github.com/vvka-141/vaxpipe/internal/clean"
)

// TableResult is the outcome for one dataset.
type TableResult struct {
	Table  string
	File   string
	Clean  clean.Report
	Loaded int64

	// LoadErr is set when the table was not written. It is also set, to the
	// connection error, when the load was skipped.
	LoadErr error
}

// Summary describes a completed run.
type Summary struct {
	RunID    string
	Database string
	Tables   []TableResult

	DatabaseErr error
	TablesErr   error

	PlotPath string
	PlotErr  error

	Correlation    *analysis.Correlation
	CorrelationErr error

	Duration time.Duration
}

// LoadedTables counts tables written without error.
func (s *Summary) LoadedTables() int {
	n := 0
	for _, t := range s.Tables {
		if t.LoadErr == nil {
			n++
		}
	}
	return n
}

// FailedTables returns the names of tables that were not written.
func (s *Summary) FailedTables() []string {
	var out []string
	for _, t := range s.Tables {
		if t.LoadErr != nil {
			out = append(out, t.Table)
		}
	}
	return out
}
