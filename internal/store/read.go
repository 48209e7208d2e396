package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/apriori/internal/mining"
)

// ErrRunNotFound is returned when a run ID is not in the store.
var ErrRunNotFound = errors.New("run not found")

// RunSummary is the listing view of a saved run.
type RunSummary struct {
	ID            string  `json:"id"`
	Seq           int64   `json:"seq"`
	Relation      string  `json:"relation"`
	MinSupport    float64 `json:"min_support"`
	MinConfidence float64 `json:"min_confidence"`
	Cycles        int     `json:"cycles"`
	TotalRows     int     `json:"total_rows"`
	RemainingRows int     `json:"remaining_rows"`
}

// ListRuns returns every saved run in save order.
// Returns an empty slice (not nil) if the store holds no runs.
func (s *Store) ListRuns(ctx context.Context) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, seq, relation, min_support, min_confidence, cycles, total_rows, remaining_rows
		FROM runs
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []RunSummary{}
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(&r.ID, &r.Seq, &r.Relation, &r.MinSupport, &r.MinConfidence,
			&r.Cycles, &r.TotalRows, &r.RemainingRows); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ReadResult loads a saved run back into a mining.Result.
// Returns an error wrapping ErrRunNotFound for unknown IDs.
func (s *Store) ReadResult(ctx context.Context, id string) (*mining.Result, error) {
	res := &mining.Result{RunID: id}
	var attrs string
	var filterSupport, filterConfidence int

	err := s.db.QueryRowContext(ctx, `
		SELECT relation, min_support, min_confidence, filter_support, filter_confidence,
		       support_threshold, confidence_threshold, cycles, total_rows, remaining_rows,
		       different_items, elapsed_ms, attributes
		FROM runs
		WHERE id = ?
	`, id).Scan(
		&res.Relation,
		&res.Thresholds.MinSupport,
		&res.Thresholds.MinConfidence,
		&filterSupport,
		&filterConfidence,
		&res.SupportThreshold,
		&res.ConfidenceThreshold,
		&res.CyclesCompleted,
		&res.TotalRows,
		&res.RemainingRows,
		&res.DifferentItems,
		&res.ElapsedMS,
		&attrs,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("read run %s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read run %s: %w", id, err)
	}
	res.Thresholds.FilterSupport = filterSupport != 0
	res.Thresholds.FilterConfidence = filterConfidence != 0

	if res.Attributes, err = unmarshalStrings(attrs); err != nil {
		return nil, fmt.Errorf("read run %s: %w", id, err)
	}
	if res.Items, err = s.readItems(ctx, id); err != nil {
		return nil, err
	}

	res.Levels = []mining.LevelResult{}
	for k := 2; k <= res.CyclesCompleted; k++ {
		lvl, err := s.ReadLevel(ctx, id, k)
		if err != nil {
			return nil, err
		}
		res.Levels = append(res.Levels, lvl)
	}

	if res.Stats, err = s.readStats(ctx, id); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Store) readItems(ctx context.Context, id string) ([]mining.ItemRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT item, count FROM items WHERE run_id = ? ORDER BY rank ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	items := []mining.ItemRow{}
	for rows.Next() {
		var it mining.ItemRow
		if err := rows.Scan(&it.Item, &it.Count); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return items, nil
}

// ReadLevel returns the itemsets of size k (k >= 2) of a saved run in
// their saved order. A level without survivors yields no itemsets.
func (s *Store) ReadLevel(ctx context.Context, id string, k int) (mining.LevelResult, error) {
	lvl := mining.LevelResult{Size: k, Itemsets: []mining.RuleRow{}}
	if k < 2 {
		return lvl, fmt.Errorf("read level %d of run %s: levels start at 2", k, id)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT items, count, confidence
		FROM itemsets
		WHERE run_id = ? AND level = ?
		ORDER BY rank ASC
	`, id, k)
	if err != nil {
		return lvl, fmt.Errorf("query level %d: %w", k, err)
	}
	defer rows.Close()

	for rows.Next() {
		var items string
		var r mining.RuleRow
		if err := rows.Scan(&items, &r.Count, &r.Confidence); err != nil {
			return lvl, fmt.Errorf("scan itemset: %w", err)
		}
		if r.Items, err = unmarshalStrings(items); err != nil {
			return lvl, err
		}
		lvl.Itemsets = append(lvl.Itemsets, r)
	}
	if err := rows.Err(); err != nil {
		return lvl, fmt.Errorf("iterate level %d: %w", k, err)
	}
	return lvl, nil
}

func (s *Store) readStats(ctx context.Context, id string) ([]mining.LevelStats, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT level, candidates, rows_before, rows_after, support_threshold, after_support, after_confidence
		FROM level_stats
		WHERE run_id = ?
		ORDER BY level ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("query level stats: %w", err)
	}
	defer rows.Close()

	stats := []mining.LevelStats{}
	for rows.Next() {
		var st mining.LevelStats
		if err := rows.Scan(&st.Level, &st.Candidates, &st.RowsBefore, &st.RowsAfter,
			&st.SupportThreshold, &st.AfterSupport, &st.AfterConfidence); err != nil {
			return nil, fmt.Errorf("scan level stats: %w", err)
		}
		stats = append(stats, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate level stats: %w", err)
	}
	return stats, nil
}
