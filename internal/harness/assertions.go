package harness

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/roach88/apriori/internal/mining"
)

// confidenceTolerance absorbs the rounding of confidence to thousandths.
const confidenceTolerance = 0.0005

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	return fmt.Sprintf("assertion failed: %s\n  Expected: %s\n  Actual: %s", e.Type, e.Expected, e.Actual)
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
//
// A failed run only satisfies error assertions; every other assertion
// against it fails. A run that was expected to fail but succeeded fails
// its error assertion.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string

	expectsError := slices.ContainsFunc(assertions, func(a Assertion) bool { return a.Type == AssertError })
	if result.RunErr != nil && !expectsError {
		errs = append(errs, fmt.Sprintf("unexpected mining error: %v", result.RunErr))
		return errs
	}

	for i, a := range assertions {
		var err error
		switch {
		case a.Type == AssertError:
			err = assertError(result.RunErr, a)
		case result.Mining == nil:
			err = fmt.Errorf("assertion[%d]: %s needs a successful run", i, a.Type)
		case a.Type == AssertCycles:
			err = assertNumber(AssertCycles, *a.Value, result.Mining.CyclesCompleted)
		case a.Type == AssertRemainingRows:
			err = assertNumber(AssertRemainingRows, *a.Value, result.Mining.RemainingRows)
		case a.Type == AssertItem:
			err = assertItem(result.Mining, a)
		case a.Type == AssertItemset:
			err = assertItemset(result.Mining, a)
		case a.Type == AssertAbsent:
			err = assertAbsent(result.Mining, a)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, a.Type)
		}
		if err != nil {
			errs = append(errs, err.Error())
		}
	}
	return errs
}

func assertError(runErr error, a Assertion) error {
	if runErr == nil {
		return &AssertionError{Type: AssertError, Expected: a.Code, Actual: "run succeeded"}
	}
	if got := mining.CodeOf(runErr); string(got) != a.Code {
		return &AssertionError{Type: AssertError, Expected: a.Code, Actual: fmt.Sprintf("%s (%v)", got, runErr)}
	}
	return nil
}

func assertNumber(kind string, want, got int) error {
	if want != got {
		return &AssertionError{Type: kind, Expected: fmt.Sprint(want), Actual: fmt.Sprint(got)}
	}
	return nil
}

func assertItem(res *mining.Result, a Assertion) error {
	for _, it := range res.Items {
		if it.Item == a.Item {
			return assertNumber(AssertItem+" "+a.Item, *a.Count, it.Count)
		}
	}
	return &AssertionError{Type: AssertItem, Expected: a.Item, Actual: "item not among level-1 survivors"}
}

func assertItemset(res *mining.Result, a Assertion) error {
	row, ok := findItemset(res, a.Items)
	if !ok {
		return &AssertionError{Type: AssertItemset, Expected: formatItems(a.Items), Actual: "itemset not found"}
	}
	if a.Count != nil && *a.Count != row.Count {
		return &AssertionError{
			Type:     AssertItemset + " count",
			Expected: fmt.Sprintf("%s count %d", formatItems(a.Items), *a.Count),
			Actual:   fmt.Sprint(row.Count),
		}
	}
	if a.Confidence != nil && math.Abs(*a.Confidence-row.Confidence) > confidenceTolerance {
		return &AssertionError{
			Type:     AssertItemset + " confidence",
			Expected: fmt.Sprintf("%s confidence %.3f", formatItems(a.Items), *a.Confidence),
			Actual:   fmt.Sprintf("%.3f", row.Confidence),
		}
	}
	return nil
}

func assertAbsent(res *mining.Result, a Assertion) error {
	if a.Item != "" {
		for _, it := range res.Items {
			if it.Item == a.Item {
				return &AssertionError{Type: AssertAbsent, Expected: a.Item + " absent", Actual: fmt.Sprintf("present with count %d", it.Count)}
			}
		}
	}
	if len(a.Items) > 0 {
		if row, ok := findItemset(res, a.Items); ok {
			return &AssertionError{Type: AssertAbsent, Expected: formatItems(a.Items) + " absent", Actual: fmt.Sprintf("present with count %d", row.Count)}
		}
	}
	return nil
}

// findItemset looks up an itemset by its exact item order.
func findItemset(res *mining.Result, items []string) (mining.RuleRow, bool) {
	lvl, ok := res.Level(len(items))
	if !ok {
		return mining.RuleRow{}, false
	}
	for _, r := range lvl.Itemsets {
		if slices.Equal(r.Items, items) {
			return r, true
		}
	}
	return mining.RuleRow{}, false
}

func formatItems(items []string) string {
	return "[" + strings.Join(items, ", ") + "]"
}
