package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() *Table {
	return &Table{
		Relation: "weather",
		Attributes: []Attribute{
			{Name: "Weather", Values: []string{"Sunny", "Rainy", "Foggy"}},
			{Name: "Activity", Values: []string{"Hike", "Read"}},
		},
		Rows: [][]string{
			{"Sunny", "Hike"},
			{"Sunny", Missing},
			{"Rainy", "Read"},
		},
	}
}

func TestTable_Validate(t *testing.T) {
	require.NoError(t, sample().Validate())

	ragged := sample()
	ragged.Rows = append(ragged.Rows, []string{"Sunny"})
	assert.ErrorContains(t, ragged.Validate(), "row 3")

	dup := sample()
	dup.Attributes[1].Name = "Weather"
	assert.ErrorContains(t, dup.Validate(), "twice")

	empty := &Table{Relation: "x"}
	assert.Error(t, empty.Validate())
}

func TestTable_ValidateDomains(t *testing.T) {
	require.NoError(t, sample().ValidateDomains())

	bad := sample()
	bad.Rows[0][1] = "Swim"
	assert.ErrorContains(t, bad.ValidateDomains(), `"Swim"`)
}

func TestTable_DropMissing(t *testing.T) {
	orig := sample()
	got := orig.DropMissing()

	assert.Len(t, got.Rows, 2)
	assert.Len(t, orig.Rows, 3, "receiver must not change")
}

func TestTable_FillMissing(t *testing.T) {
	orig := sample()
	got := orig.FillMissing()

	assert.Equal(t, []string{"Sunny", Undefined}, got.Rows[1])
	assert.Equal(t, []string{"Hike", "Read", Undefined}, got.Attributes[1].Values)
	assert.Equal(t, []string{"Sunny", "Rainy", "Foggy"}, got.Attributes[0].Values)
	assert.Equal(t, Missing, orig.Rows[1][1])
	require.NoError(t, got.ValidateDomains())
}

func TestTable_RemoveUnusedValues(t *testing.T) {
	got := sample().RemoveUnusedValues()
	assert.Equal(t, []string{"Sunny", "Rainy"}, got.Attributes[0].Values)
}

func TestTable_RemoveRowsWhere(t *testing.T) {
	got, err := sample().RemoveRowsWhere("Weather", "Sunny")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Rainy", "Read"}}, got.Rows)

	_, err = sample().RemoveRowsWhere("Nope", "x")
	assert.Error(t, err)
}

func TestTable_Subset(t *testing.T) {
	got, err := sample().Subset(1, 3)
	require.NoError(t, err)
	assert.Len(t, got.Rows, 2)
	assert.Equal(t, "Rainy", got.Rows[1][0])

	_, err = sample().Subset(2, 5)
	assert.Error(t, err)
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "nominal", Nominal.String())
	assert.Equal(t, "ranged", Ranged.String())
	assert.Equal(t, "numeric", Numeric.String())
}
