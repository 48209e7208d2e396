package dataset

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const weatherARFF = `% weather sample
@relation weather

@attribute Weather {Sunny, Rainy}
@attribute 'Activity type' {'Hike', 'Read'}
@attribute temperature numeric

@data
Sunny,Hike,21
Sunny,Hike,24
Sunny,Read,?
Rainy,Read,12
`

func TestReadARFF_Weather(t *testing.T) {
	tbl, err := ReadARFF(strings.NewReader(weatherARFF))
	require.NoError(t, err)

	assert.Equal(t, "weather", tbl.Relation)
	require.Len(t, tbl.Attributes, 3)
	assert.Equal(t, Attribute{Name: "Weather", Kind: Nominal, Values: []string{"Sunny", "Rainy"}}, tbl.Attributes[0])
	assert.Equal(t, Attribute{Name: "Activity type", Kind: Nominal, Values: []string{"Hike", "Read"}}, tbl.Attributes[1])
	assert.Equal(t, Numeric, tbl.Attributes[2].Kind)
	assert.Empty(t, tbl.Attributes[2].Values)

	require.Len(t, tbl.Rows, 4)
	assert.Equal(t, []string{"Sunny", "Read", Missing}, tbl.Rows[2])
	require.NoError(t, tbl.ValidateDomains())
}

func TestReadARFF_ValueCleaning(t *testing.T) {
	src := "@relation r\n@attribute city {'New York', Paris}\n@attribute x {a,b}\n@data\n'New York', a\n"
	tbl, err := ReadARFF(strings.NewReader(src))
	require.NoError(t, err)

	assert.Equal(t, []string{"New|York", "Paris"}, tbl.Attributes[0].Values)
	assert.Equal(t, []string{"New|York", "a"}, tbl.Rows[0])
}

func TestReadARFF_QuotedComma(t *testing.T) {
	src := "@relation r\n@attribute city {'New, York', \"Paris, TX\", Rome}\n@attribute x {a,b}\n@data\n'New, York',x\n\"Paris, TX\", b\n"
	tbl, err := ReadARFF(strings.NewReader(src))
	require.NoError(t, err)

	assert.Equal(t, []string{"New,|York", "Paris,|TX", "Rome"}, tbl.Attributes[0].Values)
	assert.Equal(t, [][]string{{"New,|York", "x"}, {"Paris,|TX", "b"}}, tbl.Rows)
}

func TestSplitFields(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"a,b", []string{"a", "b"}},
		{"'a,b',c", []string{"'a,b'", "c"}},
		{`"it's, here",c`, []string{`"it's, here"`, "c"}},
		{"a,", []string{"a", ""}},
		{"'open,ended", []string{"'open,ended"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, splitFields(tt.in), tt.in)
	}
}

func TestWriteARFF_QuotesCommas(t *testing.T) {
	tbl := &Table{
		Relation: "cities",
		Attributes: []Attribute{
			{Name: "city", Kind: Nominal, Values: []string{"New,|York", "it's,|here"}},
			{Name: "x", Kind: Nominal, Values: []string{"a"}},
		},
		Rows: [][]string{{"New,|York", "a"}, {"it's,|here", "a"}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteARFF(&buf, tbl))
	assert.Contains(t, buf.String(), "'New,|York',a\n")

	again, err := ReadARFF(&buf)
	require.NoError(t, err)
	assert.Equal(t, []string{"New,|York", "its,|here"}, again.Attributes[0].Values)
	assert.Equal(t, []string{"New,|York", "a"}, again.Rows[0])
}

func TestReadARFF_RangedAttribute(t *testing.T) {
	src := "@relation r\n@attribute age {[0<->9], [10<->19]}\n@attribute x {a}\n@data\n[0<->9],a\n"
	tbl, err := ReadARFF(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, Ranged, tbl.Attributes[0].Kind)
	assert.Equal(t, Nominal, tbl.Attributes[1].Kind)
}

func TestReadARFF_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		line int
	}{
		{"unknown keyword", "@relation r\n@foo bar\n", 2},
		{"ragged row", "@relation r\n@attribute a {x}\n@data\nx,x\n", 4},
		{"data before attributes", "@relation r\n@data\n", 2},
		{"unsupported type", "@relation r\n@attribute a string\n", 2},
		{"sparse row", "@relation r\n@attribute a {x}\n@data\n{0 x}\n", 4},
		{"missing data", "@relation r\n@attribute a {x}\n", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadARFF(strings.NewReader(tt.src))
			require.Error(t, err)
			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.line, pe.Line)
		})
	}
}

func TestWriteARFF_RoundTrip(t *testing.T) {
	tbl, err := ReadARFF(strings.NewReader(weatherARFF))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteARFF(&buf, tbl))
	assert.Contains(t, buf.String(), "@attribute 'Activity type' {Hike, Read}")
	assert.Contains(t, buf.String(), "@attribute temperature numeric")

	again, err := ReadARFF(&buf)
	require.NoError(t, err)
	assert.Equal(t, tbl, again)
}

func TestLoadARFF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weather.arff")
	require.NoError(t, os.WriteFile(path, []byte(weatherARFF), 0o644))

	tbl, err := LoadARFF(path)
	require.NoError(t, err)
	assert.Len(t, tbl.Rows, 4)

	_, err = LoadARFF(filepath.Join(t.TempDir(), "missing.arff"))
	assert.Error(t, err)
}
