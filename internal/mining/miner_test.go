package mining

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/apriori/internal/dataset"
	"github.com/roach88/apriori/internal/symbol"
	"github.com/roach88/apriori/internal/testutil"
)

func halfThresholds() Thresholds {
	return Thresholds{MinSupport: 0.5, MinConfidence: 0.5, FilterSupport: true, FilterConfidence: true}
}

func newTestMiner(t *testing.T, th Thresholds, opts ...Option) *Miner {
	t.Helper()
	opts = append([]Option{WithRunID("test-run"), WithClock(testutil.NewDeterministicClock(0))}, opts...)
	m, err := New(th, opts...)
	require.NoError(t, err)
	return m
}

func TestMiner_WeatherEndToEnd(t *testing.T) {
	m := newTestMiner(t, halfThresholds())

	res, err := m.Run(context.Background(), testutil.WeatherTable())
	require.NoError(t, err)

	assert.Equal(t, "test-run", res.RunID)
	assert.Equal(t, "weather", res.Relation)
	assert.Equal(t, 2, res.CyclesCompleted)
	assert.Equal(t, 4, res.TotalRows)
	assert.Equal(t, 3, res.RemainingRows)
	assert.Equal(t, 3, res.DifferentItems)
	assert.Equal(t, 2, res.SupportThreshold)
	assert.Equal(t, 500, res.ConfidenceThreshold)
	assert.Equal(t, []string{"Weather", "Activity"}, res.Attributes)

	assert.Equal(t, []ItemRow{
		{Item: "Weather=Sunny", Count: 3},
		{Item: "Activity=Hike", Count: 2},
		{Item: "Activity=Read", Count: 2},
	}, res.Items)

	require.Len(t, res.Levels, 1)
	assert.Equal(t, LevelResult{
		Size: 2,
		Itemsets: []RuleRow{
			{Items: []string{"Weather=Sunny", "Activity=Hike"}, Count: 2, Confidence: 0.667},
		},
	}, res.Levels[0])

	assert.Equal(t, []LevelStats{
		{Level: 1, Candidates: 4, RowsBefore: 4, RowsAfter: 4, SupportThreshold: 2, AfterSupport: 3, AfterConfidence: 3},
		{Level: 2, Candidates: 2, RowsBefore: 4, RowsAfter: 3, SupportThreshold: 2, AfterSupport: 1, AfterConfidence: 1},
	}, res.Stats)
}

func TestMiner_FiltersDisabled(t *testing.T) {
	th := halfThresholds()
	th.FilterSupport = false
	th.FilterConfidence = false
	m := newTestMiner(t, th)

	res, err := m.Run(context.Background(), testutil.WeatherTable())
	require.NoError(t, err)

	assert.Equal(t, 4, res.DifferentItems)
	assert.Equal(t, 4, res.RemainingRows)

	lvl, ok := res.Level(2)
	require.True(t, ok)
	assert.Equal(t, []RuleRow{
		{Items: []string{"Weather=Rainy", "Activity=Read"}, Count: 1, Confidence: 1},
		{Items: []string{"Weather=Sunny", "Activity=Hike"}, Count: 2, Confidence: 0.667},
		{Items: []string{"Weather=Sunny", "Activity=Read"}, Count: 1, Confidence: 0.333},
		{Items: []string{"Weather=Rainy", "Activity=Hike"}, Count: 0, Confidence: 0},
	}, lvl.Itemsets)
}

func TestMiner_SortBySupport(t *testing.T) {
	th := halfThresholds()
	th.FilterSupport = false
	th.FilterConfidence = false
	m := newTestMiner(t, th, WithSortColumn(SortSupport))

	res, err := m.Run(context.Background(), testutil.WeatherTable())
	require.NoError(t, err)

	lvl, ok := res.Level(2)
	require.True(t, ok)
	assert.Equal(t, []string{"Weather=Sunny", "Activity=Hike"}, lvl.Itemsets[0].Items)
	assert.Equal(t, 0, lvl.Itemsets[3].Count)
}

func TestMiner_NoPairsEndsAfterLevelOne(t *testing.T) {
	th := halfThresholds()
	th.MinSupport = 0.75
	m := newTestMiner(t, th)

	res, err := m.Run(context.Background(), testutil.WeatherTable())
	require.NoError(t, err)

	assert.Equal(t, 1, res.CyclesCompleted)
	assert.Equal(t, []ItemRow{{Item: "Weather=Sunny", Count: 3}}, res.Items)
	assert.Empty(t, res.Levels)
	assert.Equal(t, 4, res.RemainingRows)
}

func TestMiner_SingleAttribute(t *testing.T) {
	tbl := &dataset.Table{
		Relation:   "one",
		Attributes: []dataset.Attribute{{Name: "a", Values: []string{"x", "y"}}},
		Rows:       [][]string{{"x"}, {"y"}, {"x"}},
	}
	res, err := newTestMiner(t, halfThresholds()).Run(context.Background(), tbl)
	require.NoError(t, err)
	assert.Equal(t, 1, res.CyclesCompleted)
	assert.Empty(t, res.Levels)
}

func TestMiner_CollisionFailsFast(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	constant := symbol.HasherFunc(func(string) uint32 { return 42 })
	m := newTestMiner(t, halfThresholds(), WithHasher(constant), WithLogger(logger))

	res, err := m.Run(context.Background(), testutil.WeatherTable())
	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, IsCollisionError(err))
	assert.True(t, symbol.IsCollision(err))
	assert.NotContains(t, buf.String(), "level counted", "no counting may happen")
}

func TestMiner_ConfigurationErrors(t *testing.T) {
	numeric := testutil.WeatherTable()
	numeric.Attributes[1] = dataset.Attribute{Name: "Activity", Kind: dataset.Numeric}

	ragged := testutil.WeatherTable()
	ragged.Rows[1] = []string{"Sunny"}

	empty := testutil.WeatherTable()
	empty.Rows = nil

	noAttrs := &dataset.Table{Relation: "none"}

	tests := []struct {
		name  string
		table *dataset.Table
	}{
		{"numeric attribute", numeric},
		{"ragged rows", ragged},
		{"zero rows", empty},
		{"zero attributes", noAttrs},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := newTestMiner(t, halfThresholds()).Run(context.Background(), tt.table)
			require.Error(t, err)
			assert.Nil(t, res)
			assert.True(t, IsConfigurationError(err), err.Error())

			var me *Error
			require.ErrorAs(t, err, &me)
			assert.Equal(t, "test-run", me.RunID)
		})
	}
}

func TestNew_InvalidThresholds(t *testing.T) {
	for _, th := range []Thresholds{
		{MinSupport: 0, MinConfidence: 0.5},
		{MinSupport: 1.5, MinConfidence: 0.5},
		{MinSupport: 0.5, MinConfidence: -1},
		{MinSupport: 0.5, MinConfidence: 1.01},
	} {
		m, err := New(th)
		assert.Nil(t, m)
		assert.True(t, IsConfigurationError(err), "%+v", th)
	}
}

func TestMiner_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := newTestMiner(t, halfThresholds()).Run(ctx, testutil.WeatherTable())
	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestMiner_RunIDGenerator(t *testing.T) {
	m, err := New(halfThresholds(), WithRunIDGenerator(NewFixedGenerator("a", "b")))
	require.NoError(t, err)

	first, err := m.Run(context.Background(), testutil.WeatherTable())
	require.NoError(t, err)
	second, err := m.Run(context.Background(), testutil.WeatherTable())
	require.NoError(t, err)

	assert.Equal(t, "a", first.RunID)
	assert.Equal(t, "b", second.RunID)
}

func TestMiner_DefaultRunIDIsUUID(t *testing.T) {
	m, err := New(halfThresholds())
	require.NoError(t, err)

	res, err := m.Run(context.Background(), testutil.WeatherTable())
	require.NoError(t, err)
	assert.Len(t, res.RunID, 36)
}

func TestMiner_ElapsedFromClock(t *testing.T) {
	m := newTestMiner(t, halfThresholds(), WithClock(testutil.NewDeterministicClock(1500*time.Millisecond)))

	res, err := m.Run(context.Background(), testutil.WeatherTable())
	require.NoError(t, err)
	assert.Equal(t, int64(1500), res.ElapsedMS)
}

func TestMiner_Logging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := newTestMiner(t, halfThresholds(), WithLogger(logger)).Run(context.Background(), testutil.WeatherTable())
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "mining started")
	assert.Contains(t, out, "run_id=test-run")
	assert.Contains(t, out, "level=2")
	assert.Contains(t, out, "mining finished")
}

func TestResult_Rules(t *testing.T) {
	res := &Result{Levels: []LevelResult{
		{Size: 2, Itemsets: []RuleRow{{Items: []string{"a", "b"}}}},
		{Size: 3, Itemsets: []RuleRow{{Items: []string{"a", "b", "c"}}}},
	}}
	rules := res.Rules()
	require.Len(t, rules, 2)
	assert.Equal(t, 3, len(rules[0].Items))
	assert.Equal(t, []string{"a", "b"}, rules[0].Antecedent())
	assert.Equal(t, "c", rules[0].Consequent())
}

func TestParseSortColumn(t *testing.T) {
	for in, want := range map[string]SortColumn{"": SortDefault, "default": SortDefault, "Support": SortSupport, "confidence": SortConfidence} {
		got, err := ParseSortColumn(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseSortColumn("lift")
	assert.Error(t, err)
}
