package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAll_Order(t *testing.T) {
	var tables []string
	for _, d := range All() {
		tables = append(tables, d.Table)
	}
	assert.Equal(t, []string{Coverage, Incidence, ReportedCases, VaccineIntro, VaccineSchedule}, tables)
}

func TestAll_ColumnCounts(t *testing.T) {
	want := map[string]int{
		Coverage:        11,
		Incidence:       8,
		ReportedCases:   7,
		VaccineIntro:    6,
		VaccineSchedule: 12,
	}
	for _, d := range All() {
		assert.Len(t, d.Columns, want[d.Table], d.Table)
	}
}

func TestAll_ReturnsCopy(t *testing.T) {
	a := All()
	a[0].File = "changed.xlsx"

	d, ok := Lookup(Coverage)
	require.True(t, ok)
	assert.Equal(t, "coverage-data.xlsx", d.File)
}

func TestWithFiles(t *testing.T) {
	ds, err := WithFiles(map[string]string{Incidence: "incidence-2024.xlsx"})
	require.NoError(t, err)
	assert.Equal(t, "coverage-data.xlsx", ds[0].File)
	assert.Equal(t, "incidence-2024.xlsx", ds[1].File)

	_, err = WithFiles(map[string]string{"nope": "x.xlsx"})
	assert.Error(t, err)
}

func TestColumnType_SQLType(t *testing.T) {
	assert.Equal(t, "TEXT", Text.SQLType())
	assert.Equal(t, "BIGINT", Integer.SQLType())
	assert.Equal(t, "DOUBLE PRECISION", Real.SQLType())
	assert.Equal(t, "DATE", Date.SQLType())
	assert.Equal(t, "real", Real.String())
}

func TestColumnNames(t *testing.T) {
	d, _ := Lookup(ReportedCases)
	assert.Equal(t, []string{"GROUP", "CODE", "NAME", "YEAR", "DISEASE", "DISEASE_DESCRIPTION", "CASES"}, d.ColumnNames())
}
