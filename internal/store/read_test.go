package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/apriori/internal/mining"
	"github.com/roach88/apriori/internal/testutil"
)

func TestListRuns_Empty(t *testing.T) {
	s := createTestStore(t)

	runs, err := s.ListRuns(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, runs)
	assert.Empty(t, runs)
}

func TestListRuns_SaveOrder(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, s.SaveResult(ctx, mineTestResult(t, id, testutil.WeatherTable(), halfThresholds())))
	}

	runs, err := s.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "zeta", runs[0].ID)
	assert.Equal(t, "alpha", runs[1].ID)
	assert.Equal(t, "mid", runs[2].ID)
	assert.Equal(t, int64(1), runs[0].Seq)
	assert.Equal(t, int64(3), runs[2].Seq)
	assert.Equal(t, RunSummary{
		ID: "zeta", Seq: 1, Relation: "weather", MinSupport: 0.5, MinConfidence: 0.5,
		Cycles: 2, TotalRows: 4, RemainingRows: 3,
	}, runs[0])
}

func TestReadResult_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.ReadResult(context.Background(), "nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestReadLevel(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveResult(ctx, mineTestResult(t, "w", testutil.WeatherTable(), halfThresholds())))

	lvl, err := s.ReadLevel(ctx, "w", 2)
	require.NoError(t, err)
	assert.Equal(t, mining.LevelResult{
		Size: 2,
		Itemsets: []mining.RuleRow{
			{Items: []string{"Weather=Sunny", "Activity=Hike"}, Count: 2, Confidence: 0.667},
		},
	}, lvl)

	lvl, err = s.ReadLevel(ctx, "w", 3)
	require.NoError(t, err)
	assert.Empty(t, lvl.Itemsets)

	_, err = s.ReadLevel(ctx, "w", 1)
	assert.Error(t, err)
}
