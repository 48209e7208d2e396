package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/apriori/internal/dataset"
	"github.com/roach88/apriori/internal/mining"
	"github.com/roach88/apriori/internal/report"
	"github.com/roach88/apriori/internal/store"
)

// MineOptions holds flags for the mine command.
type MineOptions struct {
	*RootOptions
	Job                string
	Relation           string
	Support            float64
	Confidence         float64
	NoSupportFilter    bool
	NoConfidenceFilter bool
	Missing            string
	Bins               map[string]int
	Report             string
	Save               string
	Database           string
	Partitions         int
	RunID              string
	Sort               string

	// RunIDs overrides the run ID generator (for testing).
	RunIDs mining.RunIDGenerator
}

// NewMineCommand creates the mine command.
func NewMineCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MineOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "mine [dataset.arff]",
		Short: "Mine frequent itemsets and rules from an ARFF dataset",
		Long: `Mine frequent itemsets and association rules from an ARFF dataset.

The dataset is given as an argument or through a CUE job file (--job).
Flags set on the command line override the job file.

Examples:
  apriori mine weather.arff --support 0.5 --confidence 0.5
  apriori mine census.arff --missing drop --bin age=10 --report json-pretty
  apriori mine --job weather.cue --db results.db
  apriori mine golf.arff --partitions 4 --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return formatter(opts.RootOptions, cmd).Fail(runMine(opts, args, cmd))
		},
	}

	th := mining.DefaultThresholds()
	cmd.Flags().StringVar(&opts.Job, "job", "", "CUE job file")
	cmd.Flags().StringVar(&opts.Relation, "relation", "", "override the relation name")
	cmd.Flags().Float64Var(&opts.Support, "support", th.MinSupport, "minimum support ratio in (0, 1]")
	cmd.Flags().Float64Var(&opts.Confidence, "confidence", th.MinConfidence, "minimum confidence ratio in (0, 1]")
	cmd.Flags().BoolVar(&opts.NoSupportFilter, "no-support-filter", false, "keep itemsets below minimum support")
	cmd.Flags().BoolVar(&opts.NoConfidenceFilter, "no-confidence-filter", false, "keep itemsets below minimum confidence")
	cmd.Flags().StringVar(&opts.Missing, "missing", "keep", "missing value handling (keep|drop|fill)")
	cmd.Flags().StringToIntVar(&opts.Bins, "bin", nil, "bin numeric attributes into ranges (attr=width)")
	cmd.Flags().StringVar(&opts.Report, "report", string(report.FormatWeka), "report format (none|json|json-pretty|weka)")
	cmd.Flags().StringVar(&opts.Save, "save", "", "write the report to this file instead of stdout")
	cmd.Flags().StringVar(&opts.Database, "db", "", "save results to this SQLite database")
	cmd.Flags().IntVar(&opts.Partitions, "partitions", 1, "split rows into this many independently mined partitions")
	cmd.Flags().StringVar(&opts.RunID, "run-id", "", "fixed run ID (default: generated UUIDv7)")
	cmd.Flags().StringVar(&opts.Sort, "sort", "default", "result sort column (default|support|confidence)")

	return cmd
}

func runMine(opts *MineOptions, args []string, cmd *cobra.Command) error {
	path := ""
	if len(args) == 1 {
		path = args[0]
	}
	if opts.Job != "" {
		job, err := LoadJob(opts.Job)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to load job", err)
		}
		applyJob(opts, job, cmd)
		if path == "" {
			path = job.Dataset
		}
	}
	if path == "" {
		return WrapCodedError(ExitCommandError, ErrCodeInvalidConfig, "no dataset: pass an ARFF path or --job", nil)
	}

	format, err := report.ParseFormat(opts.Report)
	if err != nil {
		return WrapCodedError(ExitCommandError, ErrCodeInvalidConfig, "invalid --report", err)
	}
	sortBy, err := mining.ParseSortColumn(opts.Sort)
	if err != nil {
		return WrapCodedError(ExitCommandError, ErrCodeInvalidConfig, "invalid --sort", err)
	}
	missing, err := dataset.ParseMissingMode(opts.Missing)
	if err != nil {
		return WrapCodedError(ExitCommandError, ErrCodeInvalidConfig, "invalid --missing", err)
	}
	if opts.Partitions < 1 {
		return WrapCodedError(ExitCommandError, ErrCodeInvalidConfig,
			fmt.Sprintf("--partitions must be at least 1, got %d", opts.Partitions), nil)
	}

	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	table, err := dataset.LoadARFF(path)
	if errors.Is(err, fs.ErrNotExist) {
		return WrapCodedError(ExitCommandError, ErrCodeNotFound, "dataset not found", err)
	}
	if err != nil {
		return WrapCodedError(ExitCommandError, ErrCodeInvalidConfig, "failed to load dataset", err)
	}
	if opts.Relation != "" {
		table.Relation = opts.Relation
	}
	table, err = table.Prepare(dataset.PrepareOptions{Missing: missing, Bins: opts.Bins})
	if err != nil {
		return WrapCodedError(ExitCommandError, ErrCodeInvalidConfig, "failed to prepare dataset", err)
	}
	logger.Debug("dataset loaded", "path", path, "relation", table.Relation,
		"attributes", len(table.Attributes), "rows", len(table.Rows))

	minerOpts := []mining.Option{mining.WithLogger(logger), mining.WithSortColumn(sortBy)}
	if opts.RunID != "" {
		minerOpts = append(minerOpts, mining.WithRunID(opts.RunID))
	}
	if opts.RunIDs != nil {
		minerOpts = append(minerOpts, mining.WithRunIDGenerator(opts.RunIDs))
	}
	miner, err := mining.New(mining.Thresholds{
		MinSupport:       opts.Support,
		MinConfidence:    opts.Confidence,
		FilterSupport:    !opts.NoSupportFilter,
		FilterConfidence: !opts.NoConfidenceFilter,
	}, minerOpts...)
	if err != nil {
		return WrapCodedError(ExitCommandError, ErrCodeInvalidConfig, "invalid thresholds", err)
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var results []*mining.Result
	if opts.Partitions > 1 {
		results, err = miner.RunPartitions(ctx, table, opts.Partitions)
	} else {
		var res *mining.Result
		res, err = miner.Run(ctx, table)
		results = []*mining.Result{res}
	}
	if err != nil {
		if mining.IsConfigurationError(err) {
			return WrapCodedError(ExitCommandError, ErrCodeInvalidConfig, "invalid dataset", err)
		}
		return WrapCodedError(ExitFailure, ErrCodeMiningFailed, "mining failed", err)
	}

	if opts.Database != "" {
		if err := saveResults(ctx, opts.Database, results); err != nil {
			return WrapCodedError(ExitCommandError, ErrCodeStoreFailed, "failed to save results", err)
		}
		logger.Info("results saved", "db", opts.Database, "runs", len(results))
	}

	return writeResults(opts, cmd, format, results)
}

// applyJob copies job values into opts for every flag not set explicitly.
func applyJob(opts *MineOptions, job *Job, cmd *cobra.Command) {
	set := func(name string) bool { return !cmd.Flags().Changed(name) }

	if job.Relation != "" && set("relation") {
		opts.Relation = job.Relation
	}
	if job.Support != nil && set("support") {
		opts.Support = *job.Support
	}
	if job.Confidence != nil && set("confidence") {
		opts.Confidence = *job.Confidence
	}
	if job.Filter.Support != nil && set("no-support-filter") {
		opts.NoSupportFilter = !*job.Filter.Support
	}
	if job.Filter.Confidence != nil && set("no-confidence-filter") {
		opts.NoConfidenceFilter = !*job.Filter.Confidence
	}
	if job.Missing != "" && set("missing") {
		opts.Missing = job.Missing
	}
	if len(job.Bin) > 0 && set("bin") {
		opts.Bins = job.Bin
	}
	if job.Output.Format != "" && set("report") {
		opts.Report = job.Output.Format
	}
	if job.Output.File != "" && set("save") {
		opts.Save = job.Output.File
	}
	if job.Partitions > 0 && set("partitions") {
		opts.Partitions = job.Partitions
	}
	if job.Sort != "" && set("sort") {
		opts.Sort = job.Sort
	}
	if job.Database != "" && set("db") {
		opts.Database = job.Database
	}
}

func saveResults(ctx context.Context, path string, results []*mining.Result) error {
	st, err := store.Open(path)
	if err != nil {
		return err
	}
	defer st.Close()

	for _, res := range results {
		if err := st.SaveResult(ctx, res); err != nil {
			return err
		}
	}
	return nil
}

func writeResults(opts *MineOptions, cmd *cobra.Command, format report.Format, results []*mining.Result) error {
	if opts.Save != "" {
		for i, res := range results {
			path := opts.Save
			if len(results) > 1 {
				path = partitionPath(path, i)
			}
			if err := report.Save(path, format, res); err != nil {
				return WrapCodedError(ExitCommandError, ErrCodeWriteFailed, "failed to save report", err)
			}
		}
	}

	if opts.Format == "json" {
		var data any = results
		if len(results) == 1 {
			data = results[0]
		}
		return formatter(opts.RootOptions, cmd).Success(data)
	}

	w := cmd.OutOrStdout()
	if opts.Save != "" {
		for _, res := range results {
			fmt.Fprintf(w, "✓ run %s: %d cycles, %d rules\n", res.RunID, res.CyclesCompleted, len(res.Rules()))
		}
		return nil
	}
	for _, res := range results {
		if err := report.Write(w, format, res); err != nil {
			return WrapCodedError(ExitCommandError, ErrCodeWriteFailed, "failed to write report", err)
		}
	}
	return nil
}

// partitionPath inserts "-p<i>" before the extension of path.
func partitionPath(path string, i int) string {
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s-p%d%s", strings.TrimSuffix(path, ext), i, ext)
}

// commandContext returns the command's context, or Background in tests that
// execute a command without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
