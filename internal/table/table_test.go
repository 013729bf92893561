package table

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppend_PadsAndTruncates(t *testing.T) {
	tbl := New("t", "A", "B", "C")
	tbl.Append("x")
	tbl.Append("x", "y", "z", "extra")

	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, Row{"x", nil, nil}, tbl.Rows[0])
	assert.Equal(t, Row{"x", "y", "z"}, tbl.Rows[1])
}

func TestMissingColumns(t *testing.T) {
	tbl := New("t", "YEAR", "COVERAGE")

	assert.True(t, tbl.HasColumns("YEAR", "COVERAGE"))
	assert.False(t, tbl.HasColumns("YEAR", "NAME"))
	assert.Equal(t, []string{"NAME", "CODE"}, tbl.MissingColumns("NAME", "YEAR", "CODE"))
}

func TestColumn(t *testing.T) {
	tbl := New("t", "A", "B")
	tbl.Append(1.0, "a")
	tbl.Append(2.0, "b")

	vals, ok := tbl.Column("B")
	require.True(t, ok)
	assert.Equal(t, []Value{"a", "b"}, vals)

	_, ok = tbl.Column("Z")
	assert.False(t, ok)
}

func TestClone_IsIndependent(t *testing.T) {
	tbl := New("t", "A")
	tbl.Append(1.0)

	c := tbl.Clone()
	c.Rows[0][0] = 2.0
	c.Columns[0] = "B"

	assert.Equal(t, 1.0, tbl.Rows[0][0])
	assert.Equal(t, "A", tbl.Columns[0])
}

func TestIsMissing(t *testing.T) {
	assert.True(t, IsMissing(nil))
	assert.True(t, IsMissing(math.NaN()))
	assert.True(t, IsMissing("   "))
	assert.False(t, IsMissing(0.0))
	assert.False(t, IsMissing("0"))
	assert.False(t, IsMissing(time.Time{}))
}

func TestFloat(t *testing.T) {
	f, ok := Float(" 95.5 ")
	assert.True(t, ok)
	assert.Equal(t, 95.5, f)

	_, ok = Float("n/a")
	assert.False(t, ok)

	f, ok = Float(int64(3))
	assert.True(t, ok)
	assert.Equal(t, 3.0, f)

	_, ok = Float(math.NaN())
	assert.False(t, ok)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "2020", Key(2020.0))
	assert.Equal(t, "2020", Key(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "AFG", Key(" AFG "))
	assert.Equal(t, "1.5", Key(1.5))
	assert.Equal(t, "", Key(nil))
}
