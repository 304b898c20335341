package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/parafilter/internal/compiler"
	"github.com/roach88/parafilter/internal/ir"
	"github.com/roach88/parafilter/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database   string
	Limit      int
	RunID      string
	SourcePath string
	SpecHash   string
	Operation  string
	Skipped    bool
}

// HistoryResult is the payload of the history command.
type HistoryResult struct {
	Runs []ir.RunRecord `json:"runs"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history --db <path>",
		Short: "List recorded filter passes",
		Long: `List the filter passes recorded in a run log written by apply --db.

Passes are listed oldest first. --limit keeps the most recent N of the
matching passes. --run, --filtersrc, --operation, --spec-hash and
--skipped narrow the list; combined flags must all match.

Example:
  parafilter history --db ./runs.db
  parafilter history --db ./runs.db --limit 20 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite run log (required)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "show only the most recent N passes (0 = all)")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "show only the passes of this run id")
	cmd.Flags().StringVar(&opts.SourcePath, "filtersrc", "", "show only passes filtering this source path")
	cmd.Flags().StringVar(&opts.Operation, "operation", "",
		"show only passes using this operation code ("+strings.Join(ir.OperationCodes(), " ")+")")
	cmd.Flags().StringVar(&opts.SpecHash, "spec-hash", "", "show only passes of this exact filter spec")
	cmd.Flags().BoolVar(&opts.Skipped, "skipped", false, "show only skipped passes (--skipped=false: only applied ones)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	// Opening creates missing files; history must not.
	if _, err := os.Stat(opts.Database); os.IsNotExist(err) {
		msg := fmt.Sprintf("database not found: %s", opts.Database)
		_ = formatter.Error(ErrCodeNotFound, msg, nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", ErrCodeNotFound, msg))
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		_ = formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	q := store.RunQuery{
		RunID:      opts.RunID,
		SourcePath: opts.SourcePath,
		SpecHash:   opts.SpecHash,
		Limit:      opts.Limit,
	}
	if opts.Operation != "" {
		op, ok := ir.ParseOperation(opts.Operation)
		if !ok {
			msg := fmt.Sprintf("unknown operation %q", opts.Operation)
			_ = formatter.Error(compiler.ErrUnknownOperation, msg, nil)
			return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", compiler.ErrUnknownOperation, msg))
		}
		q.Operation = op
	}
	if cmd.Flags().Changed("skipped") {
		q.Skipped = &opts.Skipped
	}

	runs, err := st.QueryRuns(cmdContext(cmd), q)
	if err != nil {
		_ = formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to read runs", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(HistoryResult{Runs: runs})
	}

	if len(runs) == 0 {
		fmt.Fprintln(formatter.Writer, "No runs recorded.")
		return nil
	}

	tw := tabwriter.NewWriter(formatter.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tRUN\tFILTERSRC\tOP\tKEPT\tNOTE")
	for _, r := range runs {
		note := ""
		if r.Skipped {
			note = "skipped: " + r.Reason
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d/%d\t%s\n",
			r.Seq, r.RunID, r.Spec.SourcePath, r.Spec.Operation, r.KeptLen, r.InputLen, note)
	}
	return tw.Flush()
}
