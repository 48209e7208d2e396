package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/apriori/internal/dataset"
	"github.com/roach88/apriori/internal/mining"
	"github.com/roach88/apriori/internal/testutil"
)

// createTestStore creates a new store in a temporary directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// mineTestResult mines tbl with fixed run ID and frozen clock.
func mineTestResult(t *testing.T, runID string, tbl *dataset.Table, th mining.Thresholds) *mining.Result {
	t.Helper()
	m, err := mining.New(th, mining.WithRunID(runID), mining.WithClock(testutil.NewDeterministicClock(0)))
	require.NoError(t, err)
	res, err := m.Run(context.Background(), tbl)
	require.NoError(t, err)
	return res
}
