package harness

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/apriori/internal/dataset"
	"github.com/roach88/apriori/internal/mining"
	"github.com/roach88/apriori/internal/testutil"
)

// Run executes a scenario and evaluates its assertions.
//
// A mining failure is not an error of Run: it is recorded in Result.RunErr
// and checked by the scenario's error assertions. Run only fails when the
// scenario's dataset cannot be built.
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario, nil)
}

// RunContext is Run with a context and an optional logger.
func RunContext(ctx context.Context, scenario *Scenario, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	table, err := BuildTable(scenario)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	result := NewResult()
	miner, err := mining.New(thresholds(scenario.Thresholds),
		mining.WithLogger(logger),
		mining.WithRunIDGenerator(testutil.NewFixedRunIDGenerator(scenario.RunID)),
		mining.WithClock(testutil.NewDeterministicClock(0)),
	)
	if err == nil {
		result.Mining, err = miner.Run(ctx, table)
	}
	result.RunErr = err

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

// BuildTable loads the scenario dataset and applies missing-value handling
// and binning.
func BuildTable(s *Scenario) (*dataset.Table, error) {
	var t *dataset.Table
	if s.Dataset.ARFF != "" {
		loaded, err := dataset.LoadARFF(s.Dataset.ARFF)
		if err != nil {
			return nil, err
		}
		t = loaded
		if s.Dataset.Relation != "" {
			t.Relation = s.Dataset.Relation
		}
	} else {
		t = inlineTable(s.Dataset)
	}

	mode, err := dataset.ParseMissingMode(s.Missing)
	if err != nil {
		return nil, err
	}
	return t.Prepare(dataset.PrepareOptions{Missing: mode, Bins: s.Bin})
}

func inlineTable(d DatasetSpec) *dataset.Table {
	relation := d.Relation
	if relation == "" {
		relation = "scenario"
	}
	t := &dataset.Table{Relation: relation, Rows: d.Rows}
	for _, a := range d.Attributes {
		kind := dataset.Nominal
		if len(a.Values) == 0 {
			kind = dataset.Numeric
		}
		t.Attributes = append(t.Attributes, dataset.Attribute{Name: a.Name, Kind: kind, Values: a.Values})
	}
	return t
}

func thresholds(ts ThresholdSpec) mining.Thresholds {
	th := mining.Thresholds{
		MinSupport:       ts.Support,
		MinConfidence:    ts.Confidence,
		FilterSupport:    true,
		FilterConfidence: true,
	}
	if ts.FilterSupport != nil {
		th.FilterSupport = *ts.FilterSupport
	}
	if ts.FilterConfidence != nil {
		th.FilterConfidence = *ts.FilterConfidence
	}
	return th
}
