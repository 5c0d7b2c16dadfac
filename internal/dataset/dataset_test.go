package dataset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRead(t *testing.T) {
	csv := "Name,Score\nAlice,10\nBob,20\nCara,30\n"
	ds, err := Read(strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, []string{"Name", "Score"}, ds.Columns)
	require.Len(t, ds.Rows, 3)
	assert.Equal(t, []string{"Bob", "20"}, ds.Rows[1])
}

func TestRead_RaggedRowsPadded(t *testing.T) {
	csv := "a,b,c\n1,2\n1,2,3,4\n"
	ds, err := Read(strings.NewReader(csv))
	require.NoError(t, err)

	require.Len(t, ds.Rows, 2)
	assert.Equal(t, []string{"1", "2", ""}, ds.Rows[0])
	assert.Equal(t, []string{"1", "2", "3"}, ds.Rows[1])
}

func TestRead_EmptyInput(t *testing.T) {
	_, err := Read(strings.NewReader(""))
	require.Error(t, err)
}

func TestEmpty(t *testing.T) {
	var nilDS *Dataset
	assert.True(t, nilDS.Empty())
	assert.True(t, (&Dataset{Columns: []string{"a"}}).Empty())
	assert.False(t, (&Dataset{Columns: []string{"a"}, Rows: [][]string{{"1"}}}).Empty())
}

func TestClone_Independent(t *testing.T) {
	ds := &Dataset{Columns: []string{"a"}, Rows: [][]string{{"1"}}}
	c := ds.Clone()
	c.Rows[0][0] = "changed"
	c.Columns[0] = "changed"

	assert.Equal(t, "1", ds.Rows[0][0])
	assert.Equal(t, "a", ds.Columns[0])
}

func TestColumnType(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   ColumnType
	}{
		{"currency strings are numeric", []string{"$1,200", "$3,400.50", "$0"}, ColumnNumeric},
		{"placeholders are text", []string{"N/A", "TBD", "—"}, ColumnText},
		{"plain floats are numeric", []string{"10", "20", "30"}, ColumnNumeric},
		{"two plain numbers are numeric", []string{"10", "20"}, ColumnNumeric},
		{"two decorated numbers stay text", []string{"$10", "$20"}, ColumnText},
		{"mostly text is text", []string{"abc", "def", "ghi", "1", "2"}, ColumnText},
		{"all empty is text", []string{"", "", ""}, ColumnText},
		{"no rows is text", nil, ColumnText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := make([][]string, len(tt.values))
			for i, v := range tt.values {
				rows[i] = []string{v}
			}
			ds := &Dataset{Columns: []string{"col"}, Rows: rows}
			assert.Equal(t, tt.want, ds.ColumnType("col"))
		})
	}
}

func TestColumnType_UnknownColumn(t *testing.T) {
	ds := &Dataset{Columns: []string{"a"}, Rows: [][]string{{"1"}}}
	assert.Equal(t, ColumnText, ds.ColumnType("missing"))
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"1,200", 1200},
		{"$3,400.50", 3400.5},
		{"-10", -10},
		{"42%", 42},
		{"N/A", 0},
		{"", 0},
		{"--..", 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.InDelta(t, tt.want, ParseNumber(tt.in), 1e-9)
		})
	}
}

func TestMarshalCSV_RoundTrip(t *testing.T) {
	ds := &Dataset{
		Columns: []string{"Name", "Score"},
		Rows:    [][]string{{"Alice", "10"}, {"Bob, Jr.", "20"}},
	}
	out, err := ds.MarshalCSV()
	require.NoError(t, err)

	back, err := Read(strings.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, ds, back)
}
