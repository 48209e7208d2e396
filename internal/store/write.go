package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/apriori/internal/mining"
)

// SaveResult stores a complete mining result in one transaction.
// Saving a run ID twice is an error; results are never merged.
func (s *Store) SaveResult(ctx context.Context, res *mining.Result) error {
	attrs, err := marshalStrings(res.Attributes)
	if err != nil {
		return fmt.Errorf("save run %s: %w", res.RunID, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save run %s: begin: %w", res.RunID, err)
	}
	defer tx.Rollback()

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM runs`).Scan(&seq); err != nil {
		return fmt.Errorf("save run %s: next seq: %w", res.RunID, err)
	}

	th := res.Thresholds
	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, seq, relation, min_support, min_confidence, filter_support, filter_confidence,
		 support_threshold, confidence_threshold, cycles, total_rows, remaining_rows,
		 different_items, elapsed_ms, attributes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		res.RunID,
		seq,
		res.Relation,
		th.MinSupport,
		th.MinConfidence,
		boolToInt(th.FilterSupport),
		boolToInt(th.FilterConfidence),
		res.SupportThreshold,
		res.ConfidenceThreshold,
		res.CyclesCompleted,
		res.TotalRows,
		res.RemainingRows,
		res.DifferentItems,
		res.ElapsedMS,
		attrs,
	)
	if err != nil {
		return fmt.Errorf("save run %s: %w", res.RunID, err)
	}

	if err := writeItems(ctx, tx, res); err != nil {
		return err
	}
	if err := writeItemsets(ctx, tx, res); err != nil {
		return err
	}
	if err := writeStats(ctx, tx, res); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save run %s: commit: %w", res.RunID, err)
	}
	return nil
}

func writeItems(ctx context.Context, tx *sql.Tx, res *mining.Result) error {
	for rank, it := range res.Items {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO items (run_id, rank, item, count) VALUES (?, ?, ?, ?)
		`, res.RunID, rank, it.Item, it.Count)
		if err != nil {
			return fmt.Errorf("save run %s: item %d: %w", res.RunID, rank, err)
		}
	}
	return nil
}

func writeItemsets(ctx context.Context, tx *sql.Tx, res *mining.Result) error {
	for _, lvl := range res.Levels {
		for rank, r := range lvl.Itemsets {
			items, err := marshalStrings(r.Items)
			if err != nil {
				return fmt.Errorf("save run %s: %w", res.RunID, err)
			}
			_, err = tx.ExecContext(ctx, `
				INSERT INTO itemsets (run_id, level, rank, items, count, confidence)
				VALUES (?, ?, ?, ?, ?, ?)
			`, res.RunID, lvl.Size, rank, items, r.Count, r.Confidence)
			if err != nil {
				return fmt.Errorf("save run %s: level %d itemset %d: %w", res.RunID, lvl.Size, rank, err)
			}
		}
	}
	return nil
}

func writeStats(ctx context.Context, tx *sql.Tx, res *mining.Result) error {
	for _, st := range res.Stats {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO level_stats
			(run_id, level, candidates, rows_before, rows_after, support_threshold, after_support, after_confidence)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, res.RunID, st.Level, st.Candidates, st.RowsBefore, st.RowsAfter,
			st.SupportThreshold, st.AfterSupport, st.AfterConfidence)
		if err != nil {
			return fmt.Errorf("save run %s: level %d stats: %w", res.RunID, st.Level, err)
		}
	}
	return nil
}

// DeleteRun removes a run and, through cascading keys, all of its rows.
// Returns an error wrapping ErrRunNotFound for unknown IDs.
func (s *Store) DeleteRun(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete run %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete run %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("delete run %s: %w", id, ErrRunNotFound)
	}
	return nil
}
