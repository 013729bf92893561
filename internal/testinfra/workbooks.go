package testinfra

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// WriteWorkbook writes rows to the first sheet of a new XLSX workbook.
func WriteWorkbook(t *testing.T, path string, rows [][]any) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		row := r
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
}

// Row counts of the sample inputs after cleaning.
const (
	SampleCoverageRows      = 4
	SampleIncidenceRows     = 4
	SampleReportedCasesRows = 2
	SampleVaccineIntroRows  = 2
	SampleScheduleRows      = 1
)

// SampleInputs returns small versions of the five WHO extracts keyed by their
// default file names. They exercise forward-fill, dropped rows and a bad year.
func SampleInputs() map[string][][]any {
	return map[string][][]any{
		"coverage-data.xlsx": {
			{"GROUP", "CODE", "NAME", "YEAR", "ANTIGEN", "ANTIGEN_DESCRIPTION", "COVERAGE_CATEGORY", "COVERAGE_CATEGORY_DESCRIPTION", "TARGET_NUMBER", "DOSES", "COVERAGE"},
			{"COUNTRIES", "ABW", "Aruba", "2020", "BCG", "BCG", "ADMIN", "Administrative coverage", 1200, 1150, 95.8},
			{"COUNTRIES", "ABW", "Aruba", "2021", "BCG", "BCG", "ADMIN", "Administrative coverage", 1180, 1100, 93.2},
			{"COUNTRIES", "AFG", "Afghanistan", "2020", "BCG", "BCG", "WUENIC", "WHO/UNICEF Estimates", 1000000, 700000, 70},
			{"COUNTRIES", "AFG", "Afghanistan", "2021", "BCG", "BCG", "WUENIC", "WHO/UNICEF Estimates", 1000000, 650000, nil},
			{"COUNTRIES", "ALB", "Albania", "n/a", "BCG", "BCG", "WUENIC", "WHO/UNICEF Estimates", 30000, 29000, 98},
			{"COUNTRIES", "DZA", "Algeria", "2021", "BCG", nil, "WUENIC", "WHO/UNICEF Estimates", 900000, 850000, 94},
		},
		"incidence-rate-data.xlsx": {
			{"GROUP", "CODE", "NAME", "YEAR", "DISEASE", "DISEASE_DESCRIPTION", "DENOMINATOR", "INCIDENCE_RATE"},
			{"COUNTRIES", "ABW", "Aruba", 2020, "MEASLES", "Measles", 1000000, 1.5},
			{"COUNTRIES", "ABW", "Aruba", 2021, "MEASLES", "Measles", 1000000, 2.0},
			{"COUNTRIES", "AFG", "Afghanistan", 2020, "MEASLES", "Measles", 1000000, 10.0},
			{"COUNTRIES", "AFG", "Afghanistan", 2021, "MEASLES", "Measles", 1000000, nil},
		},
		"reported-cases-data.xlsx": {
			{"GROUP", "CODE", "NAME", "YEAR", "DISEASE", "DISEASE_DESCRIPTION", "CASES"},
			{"COUNTRIES", "ABW", "Aruba", 2020, "MEASLES", "Measles", 0},
			{"COUNTRIES", "AFG", "Afghanistan", 2020, "MEASLES", "Measles", 2500},
			{"COUNTRIES", "ALB", "Albania", nil, "MEASLES", "Measles", 4},
		},
		"vaccine-introduction-data.xlsx": {
			{"ISO_3_CODE", "COUNTRYNAME", "WHO_REGION", "YEAR", "DESCRIPTION", "INTRO"},
			{"ABW", "Aruba", "AMR", 2020, "Hib (Haemophilus influenzae type B) vaccine", 1995},
			{"AFG", "Afghanistan", "EMR", 2020, "Hib (Haemophilus influenzae type B) vaccine", 2009},
		},
		"vaccine-schedule-data.xlsx": {
			{"ISO_3_CODE", "COUNTRYNAME", "WHO_REGION", "YEAR", "VACCINECODE", "VACCINE_DESCRIPTION", "SCHEDULEROUNDS", "TARGETPOP", "TARGETPOP_DESCRIPTION", "GEOAREA", "AGEADMINISTERED", "SOURCECOMMENT"},
			{"ABW", "Aruba", "AMR", 2022, "BCG", "BCG vaccine", 1, 1200, "General/routine", "NATIONAL", "B_1", "none"},
		},
	}
}

// WriteSampleInputs writes SampleInputs into dir.
func WriteSampleInputs(t *testing.T, dir string) {
	t.Helper()

	for name, rows := range SampleInputs() {
		WriteWorkbook(t, filepath.Join(dir, name), rows)
	}
}
