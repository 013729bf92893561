// Package dataset describes the five WHO extracts the pipeline handles: which
// spreadsheet each comes from, which table it lands in, and the column types
// of that table.
package dataset

import "fmt"

// ColumnType is the SQL type family of a destination column.
type ColumnType int

const (
	Text ColumnType = iota
	Integer
	Real
	Date
)

// String returns the lowercase type name.
func (c ColumnType) String() string {
	switch c {
	case Text:
		return "text"
	case Integer:
		return "integer"
	case Real:
		return "real"
	case Date:
		return "date"
	default:
		return fmt.Sprintf("ColumnType(%d)", int(c))
	}
}

// SQLType returns the PostgreSQL type used for the column.
func (c ColumnType) SQLType() string {
	switch c {
	case Integer:
		return "BIGINT"
	case Real:
		return "DOUBLE PRECISION"
	case Date:
		return "DATE"
	default:
		return "TEXT"
	}
}

// Column is one destination column.
type Column struct {
	Name string
	Type ColumnType
}

// Dataset binds an input spreadsheet to its destination table.
type Dataset struct {
	// Table is the destination table name and the dataset's identity.
	Table string

	// File is the default spreadsheet file name.
	File string

	Columns []Column
}

// ColumnNames returns the destination column names in order.
func (d Dataset) ColumnNames() []string {
	names := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		names[i] = c.Name
	}
	return names
}

const (
	Coverage        = "coverage_data"
	Incidence       = "incidence_rate"
	ReportedCases   = "reported_cases_data"
	VaccineIntro    = "vaccine_intro_data"
	VaccineSchedule = "vaccine_schedule_data"
)

var all = []Dataset{
	{
		Table: Coverage,
		File:  "coverage-data.xlsx",
		Columns: []Column{
			{"GROUP", Text},
			{"CODE", Text},
			{"NAME", Text},
			{"YEAR", Date},
			{"ANTIGEN", Text},
			{"ANTIGEN_DESCRIPTION", Text},
			{"COVERAGE_CATEGORY", Text},
			{"COVERAGE_CATEGORY_DESCRIPTION", Text},
			{"TARGET_NUMBER", Integer},
			{"DOSES", Integer},
			{"COVERAGE", Real},
		},
	},
	{
		Table: Incidence,
		File:  "incidence-rate-data.xlsx",
		Columns: []Column{
			{"GROUP", Text},
			{"CODE", Text},
			{"NAME", Text},
			{"YEAR", Date},
			{"DISEASE", Text},
			{"DISEASE_DESCRIPTION", Text},
			{"DENOMINATOR", Integer},
			{"INCIDENCE_RATE", Real},
		},
	},
	{
		Table: ReportedCases,
		File:  "reported-cases-data.xlsx",
		Columns: []Column{
			{"GROUP", Text},
			{"CODE", Text},
			{"NAME", Text},
			{"YEAR", Date},
			{"DISEASE", Text},
			{"DISEASE_DESCRIPTION", Text},
			{"CASES", Integer},
		},
	},
	{
		Table: VaccineIntro,
		File:  "vaccine-introduction-data.xlsx",
		Columns: []Column{
			{"ISO_3_CODE", Text},
			{"COUNTRYNAME", Text},
			{"WHO_REGION", Text},
			{"YEAR", Date},
			{"DESCRIPTION", Text},
			{"INTRO", Date},
		},
	},
	{
		Table: VaccineSchedule,
		File:  "vaccine-schedule-data.xlsx",
		Columns: []Column{
			{"ISO_3_CODE", Text},
			{"COUNTRYNAME", Text},
			{"WHO_REGION", Text},
			{"YEAR", Date},
			{"VACCINECODE", Text},
			{"VACCINE_DESCRIPTION", Text},
			{"SCHEDULEROUNDS", Text},
			{"TARGETPOP", Integer},
			{"TARGETPOP_DESCRIPTION", Text},
			{"GEOAREA", Text},
			{"AGEADMINISTERED", Text},
			{"SOURCECOMMENT", Text},
		},
	},
}

// All returns the five datasets in processing order. The slice is a copy.
func All() []Dataset {
	out := make([]Dataset, len(all))
	copy(out, all)
	return out
}

// Lookup finds a dataset by destination table name.
func Lookup(table string) (Dataset, bool) {
	for _, d := range all {
		if d.Table == table {
			return d, true
		}
	}
	return Dataset{}, false
}

// WithFiles returns the datasets with file names replaced from overrides,
// keyed by table name. Unknown keys are reported as an error.
func WithFiles(overrides map[string]string) ([]Dataset, error) {
	out := All()
	for table := range overrides {
		if _, ok := Lookup(table); !ok {
			return nil, fmt.Errorf("unknown dataset %q in input overrides", table)
		}
	}
	for i := range out {
		if f, ok := overrides[out[i].Table]; ok && f != "" {
			out[i].File = f
		}
	}
	return out, nil
}
