package harness

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/apriori/internal/mining"
)

func floatPtr(v float64) *float64 { return &v }

func weatherMining() *mining.Result {
	return &mining.Result{
		CyclesCompleted: 2,
		RemainingRows:   3,
		Items: []mining.ItemRow{
			{Item: "Weather=Sunny", Count: 3},
			{Item: "Activity=Hike", Count: 2},
		},
		Levels: []mining.LevelResult{{
			Size: 2,
			Itemsets: []mining.RuleRow{
				{Items: []string{"Weather=Sunny", "Activity=Hike"}, Count: 2, Confidence: 0.667},
			},
		}},
	}
}

func TestEvaluateAssertions_Pass(t *testing.T) {
	r := &Result{Mining: weatherMining()}
	errs := EvaluateAssertions(r, []Assertion{
		{Type: AssertCycles, Value: intPtr(2)},
		{Type: AssertRemainingRows, Value: intPtr(3)},
		{Type: AssertItem, Item: "Weather=Sunny", Count: intPtr(3)},
		{Type: AssertItemset, Items: []string{"Weather=Sunny", "Activity=Hike"}, Count: intPtr(2), Confidence: floatPtr(0.667)},
		{Type: AssertAbsent, Item: "Weather=Rainy"},
		{Type: AssertAbsent, Items: []string{"Activity=Hike", "Weather=Sunny"}},
	})
	assert.Empty(t, errs)
}

func TestEvaluateAssertions_Failures(t *testing.T) {
	r := &Result{Mining: weatherMining()}
	errs := EvaluateAssertions(r, []Assertion{
		{Type: AssertCycles, Value: intPtr(3)},
		{Type: AssertItem, Item: "Weather=Rainy", Count: intPtr(1)},
		{Type: AssertItemset, Items: []string{"Weather=Sunny", "Activity=Hike"}, Confidence: floatPtr(0.5)},
		{Type: AssertAbsent, Item: "Activity=Hike"},
		{Type: AssertError, Code: "CONFIGURATION"},
	})
	assert.Len(t, errs, 5)
	assert.Contains(t, errs[0], "Expected: 3")
	assert.Contains(t, errs[1], "not among level-1 survivors")
	assert.Contains(t, errs[2], "confidence")
	assert.Contains(t, errs[3], "present with count 2")
	assert.Contains(t, errs[4], "run succeeded")
}

func TestEvaluateAssertions_RunError(t *testing.T) {
	runErr := &mining.Error{Code: mining.ErrCodeConfiguration, Message: "bad"}

	t.Run("unexpected", func(t *testing.T) {
		errs := EvaluateAssertions(&Result{RunErr: runErr}, []Assertion{{Type: AssertCycles, Value: intPtr(1)}})
		assert.Len(t, errs, 1)
		assert.Contains(t, errs[0], "unexpected mining error")
	})

	t.Run("expected code", func(t *testing.T) {
		errs := EvaluateAssertions(&Result{RunErr: runErr}, []Assertion{{Type: AssertError, Code: "CONFIGURATION"}})
		assert.Empty(t, errs)
	})

	t.Run("wrong code", func(t *testing.T) {
		errs := EvaluateAssertions(&Result{RunErr: runErr}, []Assertion{{Type: AssertError, Code: "ENCODING_COLLISION"}})
		assert.Len(t, errs, 1)
	})

	t.Run("non-mining error", func(t *testing.T) {
		errs := EvaluateAssertions(&Result{RunErr: errors.New("boom")}, []Assertion{{Type: AssertError, Code: "CONFIGURATION"}})
		assert.Len(t, errs, 1)
	})
}

func TestResult_AddError(t *testing.T) {
	r := NewResult()
	assert.True(t, r.Pass)
	r.AddError("nope")
	assert.False(t, r.Pass)
	assert.Equal(t, []string{"nope"}, r.Errors)
}
