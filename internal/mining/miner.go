package mining

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/apriori/internal/dataset"
	"github.com/roach88/apriori/internal/symbol"
)

// Miner runs Apriori with fixed thresholds. It holds no per-run state and
// may be reused, including from several goroutines.
type Miner struct {
	thresholds Thresholds
	hasher     symbol.Hasher
	logger     *slog.Logger
	clock      Clock
	runID      string
	ids        RunIDGenerator
	sortBy     SortColumn
}

// Option configures a Miner.
type Option func(*Miner)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(m *Miner) { m.logger = l }
}

// WithHasher replaces the default MurmurHash symbol hasher.
func WithHasher(h symbol.Hasher) Option {
	return func(m *Miner) { m.hasher = h }
}

// WithClock sets the clock used for elapsed time.
func WithClock(c Clock) Option {
	return func(m *Miner) { m.clock = c }
}

// WithRunID fixes the run identifier. It takes precedence over any generator.
func WithRunID(id string) Option {
	return func(m *Miner) { m.runID = id }
}

// WithRunIDGenerator sets the generator used when no run ID is fixed.
// The default generates UUIDv7s.
func WithRunIDGenerator(g RunIDGenerator) Option {
	return func(m *Miner) { m.ids = g }
}

// WithSortColumn sets the column levels are sorted by in the result.
func WithSortColumn(c SortColumn) Option {
	return func(m *Miner) { m.sortBy = c }
}

// New creates a Miner. Invalid thresholds yield a configuration error.
func New(t Thresholds, opts ...Option) (*Miner, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	m := &Miner{
		thresholds: t,
		hasher:     symbol.NewMurmur(),
		logger:     slog.New(slog.DiscardHandler),
		clock:      systemClock{},
		ids:        UUIDv7Generator{},
		sortBy:     SortDefault,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Thresholds returns the miner's thresholds.
func (m *Miner) Thresholds() Thresholds {
	return m.thresholds
}

func (m *Miner) nextRunID() string {
	if m.runID != "" {
		return m.runID
	}
	return m.ids.Generate()
}

// run is the state of one mining run.
type run struct {
	id      string
	t       Thresholds
	symbols *symbol.Table
	enc     *EncodedTable
	history History
	stats   []LevelStats
	items   int
	log     *slog.Logger
}

// Run mines t and returns the assembled result.
//
// Errors are *Error values; no partial result is returned. The context is
// checked between levels.
func (m *Miner) Run(ctx context.Context, t *dataset.Table) (*Result, error) {
	id := m.nextRunID()
	start := m.clock.Now()
	log := m.logger.With("run_id", id)

	if err := t.Validate(); err != nil {
		return nil, &Error{Code: ErrCodeConfiguration, Message: "invalid table", RunID: id, Err: err}
	}
	if len(t.Rows) == 0 {
		return nil, newConfigError(id, "relation %q has no rows", t.Relation)
	}

	symbols, err := symbol.Build(domains(t), m.hasher)
	if err != nil {
		return nil, &Error{Code: ErrCodeEncodingCollision, Message: "symbol encoding failed", RunID: id, Err: err}
	}

	enc, err := EncodeTable(symbols, t)
	if err != nil {
		var me *Error
		if errors.As(err, &me) {
			me.RunID = id
		}
		return nil, err
	}

	log.Info("mining started",
		"relation", t.Relation,
		"rows", enc.Rows(),
		"attributes", enc.Cols(),
		"symbols", symbols.Len())

	r := &run{id: id, t: m.thresholds, symbols: symbols, enc: enc, log: log}
	if err := r.mine(ctx); err != nil {
		return nil, err
	}

	res := r.assemble(t, m.sortBy)
	res.ElapsedMS = m.clock.Now().Sub(start).Milliseconds()

	log.Info("mining finished",
		"cycles", res.CyclesCompleted,
		"remaining_rows", res.RemainingRows,
		"elapsed_ms", res.ElapsedMS)
	return res, nil
}

func domains(t *dataset.Table) []symbol.Domain {
	d := make([]symbol.Domain, len(t.Attributes))
	for i, a := range t.Attributes {
		d[i] = symbol.Domain{Name: a.Name, Values: a.Values}
	}
	return d
}

func (r *run) mine(ctx context.Context) error {
	rows := r.enc.Rows()
	records := countItems(r.symbols, r.enc)
	threshold := r.t.SupportCount(rows)
	survivors := records
	if r.t.FilterSupport {
		survivors = filterItems(records, threshold)
	}
	r.items = len(survivors)

	r.log.Debug("level counted",
		"level", 1,
		"candidates", len(records),
		"rows", rows,
		"threshold", threshold,
		"survivors", len(survivors))

	r.stats = append(r.stats, LevelStats{
		Level:            1,
		Candidates:       len(records),
		RowsBefore:       rows,
		RowsAfter:        rows,
		SupportThreshold: threshold,
		AfterSupport:     len(survivors),
		AfterConfidence:  len(survivors),
	})
	if err := r.history.Put(itemLevel(survivors)); err != nil {
		return &Error{Code: ErrCodeInvariantViolation, Message: "storing level 1", RunID: r.id, Err: err}
	}

	for k := 2; k <= r.enc.Cols(); k++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("run %s cancelled before level %d: %w", r.id, k, err)
		}

		var candidates []Itemset
		if k == 2 {
			candidates = buildPairs(r.symbols, survivors)
		} else {
			prev, _ := r.history.Level(k - 1)
			candidates = joinLevel(r.symbols, prev)
		}
		if len(candidates) == 0 {
			r.log.Debug("no candidates", "level", k)
			break
		}
		if err := r.level(k, candidates); err != nil {
			return err
		}
	}
	return nil
}

// level counts, prunes, filters and stores level k.
func (r *run) level(k int, candidates []Itemset) error {
	before := r.enc.Rows()
	counted, marks := countCandidates(r.enc, candidates)
	r.enc = r.enc.Keep(marks)
	after := r.enc.Rows()

	threshold := r.t.SupportCount(after)
	sets := counted
	if r.t.FilterSupport {
		sets = filterSupport(sets, threshold)
	}
	afterSupport := len(sets)

	sets = withConfidence(sets, &r.history)
	if r.t.FilterConfidence {
		sets = filterConfidence(sets, r.t.ConfidencePermille())
	}

	lvl := Level{Size: k, Itemsets: sets}
	if err := verifyDistinctAttributes(r.id, r.symbols, lvl); err != nil {
		return err
	}
	if err := r.history.Put(lvl); err != nil {
		return &Error{Code: ErrCodeInvariantViolation, Message: fmt.Sprintf("storing level %d", k), RunID: r.id, Err: err}
	}

	r.log.Debug("level counted",
		"level", k,
		"candidates", len(candidates),
		"rows_before", before,
		"rows", after,
		"threshold", threshold,
		"after_support", afterSupport,
		"survivors", len(sets))

	r.stats = append(r.stats, LevelStats{
		Level:            k,
		Candidates:       len(candidates),
		RowsBefore:       before,
		RowsAfter:        after,
		SupportThreshold: threshold,
		AfterSupport:     afterSupport,
		AfterConfidence:  len(sets),
	})
	return nil
}
