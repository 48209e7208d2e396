package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/apriori/internal/mining"
	"github.com/roach88/apriori/internal/report"
	"github.com/roach88/apriori/internal/store"
)

// StoreOptions holds flags for commands that read the result store.
type StoreOptions struct {
	*RootOptions
	Database string
}

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	StoreOptions
	Report string
	Level  int
}

// NewRunsCommand creates the runs command.
func NewRunsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StoreOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List saved mining runs",
		Long: `List the mining runs saved in a result store, oldest first.

Example:
  apriori runs --db results.db
  apriori runs --db results.db --format json
  apriori runs delete 0190a0c2-... --db results.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return formatter(opts.RootOptions, cmd).Fail(runRuns(opts, cmd))
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	cmd.AddCommand(newRunsDeleteCommand(rootOpts))

	return cmd
}

func newRunsDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StoreOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "delete <run-id>...",
		Short:         "Delete saved mining runs",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return formatter(opts.RootOptions, cmd).Fail(runDelete(opts, args, cmd))
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{StoreOptions: StoreOptions{RootOptions: rootOpts}}

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show a saved mining run",
		Long: `Render a saved mining run, or one level of it with --level.

Example:
  apriori show 0190a0c2-... --db results.db
  apriori show 0190a0c2-... --db results.db --report json-pretty
  apriori show 0190a0c2-... --db results.db --level 3`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return formatter(opts.RootOptions, cmd).Fail(runShow(opts, args[0], cmd))
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVar(&opts.Report, "report", string(report.FormatWeka), "report format (json|json-pretty|weka)")
	cmd.Flags().IntVar(&opts.Level, "level", 0, "show only the itemsets of this size (>= 2)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

// openStore opens an existing store; a missing file is a command error.
func openStore(path string) (*store.Store, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, WrapCodedError(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("database not found: %s", path), nil)
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, WrapCodedError(ExitCommandError, ErrCodeStoreFailed, "failed to open database", err)
	}
	return st, nil
}

func runRuns(opts *StoreOptions, cmd *cobra.Command) error {
	st, err := openStore(opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.ListRuns(commandContext(cmd))
	if err != nil {
		return WrapCodedError(ExitCommandError, ErrCodeStoreFailed, "failed to list runs", err)
	}

	if opts.Format == "json" {
		return formatter(opts.RootOptions, cmd).Success(runs)
	}

	w := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs found.")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tRUN\tRELATION\tSUPPORT\tCONFIDENCE\tCYCLES\tROWS")
	for _, r := range runs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%g\t%g\t%d\t%d/%d\n",
			r.Seq, r.ID, r.Relation, r.MinSupport, r.MinConfidence, r.Cycles, r.RemainingRows, r.TotalRows)
	}
	return tw.Flush()
}

// runDelete removes each run in order and stops at the first failure.
func runDelete(opts *StoreOptions, ids []string, cmd *cobra.Command) error {
	st, err := openStore(opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	out := formatter(opts.RootOptions, cmd)
	ctx := commandContext(cmd)
	for _, id := range ids {
		if err := st.DeleteRun(ctx, id); err != nil {
			return runError(id, err)
		}
		out.VerboseLog("Deleted run %s", id)
	}

	if opts.Format == "json" {
		return out.Success(map[string]any{"deleted": ids})
	}
	for _, id := range ids {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ deleted run %s\n", id)
	}
	return nil
}

func runShow(opts *ShowOptions, runID string, cmd *cobra.Command) error {
	format, err := report.ParseFormat(opts.Report)
	if err != nil {
		return WrapCodedError(ExitCommandError, ErrCodeInvalidConfig, "invalid --report", err)
	}

	st, err := openStore(opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := commandContext(cmd)
	if opts.Level != 0 {
		lvl, err := st.ReadLevel(ctx, runID, opts.Level)
		if err != nil {
			return runError(runID, err)
		}
		return writeLevel(opts, cmd, lvl)
	}

	res, err := st.ReadResult(ctx, runID)
	if err != nil {
		return runError(runID, err)
	}
	if opts.Format == "json" {
		return formatter(opts.RootOptions, cmd).Success(res)
	}
	return report.Write(cmd.OutOrStdout(), format, res)
}

// runError maps a store failure for one run: an unknown run exits 1, any
// other store error exits 2.
func runError(runID string, err error) error {
	if errors.Is(err, store.ErrRunNotFound) {
		return WrapCodedError(ExitFailure, ErrCodeNotFound, fmt.Sprintf("run %s", runID), err)
	}
	return WrapCodedError(ExitCommandError, ErrCodeStoreFailed, fmt.Sprintf("run %s", runID), err)
}

func writeLevel(opts *ShowOptions, cmd *cobra.Command, lvl mining.LevelResult) error {
	if opts.Format == "json" {
		return formatter(opts.RootOptions, cmd).Success(lvl)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "L(%d): %d itemsets\n", lvl.Size, len(lvl.Itemsets))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, r := range lvl.Itemsets {
		fmt.Fprintf(tw, "%d.\t%s ==> %s\tcount:(%d)\tconf:(%.2f)\n",
			i+1, strings.Join(r.Antecedent(), " "), r.Consequent(), r.Count, r.Confidence)
	}
	return tw.Flush()
}
