package mining

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/apriori/internal/dataset"
)

// RunPartitions splits t into n contiguous, disjoint row ranges and mines
// each concurrently. Partition i runs as "<base>-p<i>", where base is the
// miner's run ID. Results are returned in partition order.
//
// Partitions share nothing but the read-only input table. The first failure
// cancels partitions that have not started yet.
func (m *Miner) RunPartitions(ctx context.Context, t *dataset.Table, n int) ([]*Result, error) {
	base := m.nextRunID()
	if n < 1 || n > len(t.Rows) {
		return nil, newConfigError(base, "partition count %d outside [1, %d]", n, len(t.Rows))
	}

	parts := make([]*dataset.Table, n)
	for i := range n {
		lo, hi := i*len(t.Rows)/n, (i+1)*len(t.Rows)/n
		p, err := t.Subset(lo, hi)
		if err != nil {
			return nil, newConfigError(base, "partition %d: %v", i, err)
		}
		parts[i] = p
	}

	results := make([]*Result, n)
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range parts {
		pm := *m
		pm.runID = fmt.Sprintf("%s-p%d", base, i)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := pm.Run(gctx, p)
			if err != nil {
				return fmt.Errorf("partition %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
