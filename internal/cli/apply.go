package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/parafilter/internal/engine"
	"github.com/roach88/parafilter/internal/record"
	"github.com/roach88/parafilter/internal/store"
)

// ApplyOptions holds flags for the apply command.
type ApplyOptions struct {
	*RootOptions
	Database string

	// RunIDs allows overriding the run id generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	RunIDs engine.RunIDGenerator
}

// ApplyResult is the payload of a successful apply.
type ApplyResult struct {
	RunID     string           `json:"run_id"`
	Record    map[string]any   `json:"record"`
	Summaries []engine.Summary `json:"summaries"`
}

// NewApplyCommand creates the apply command.
func NewApplyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ApplyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "apply <config-dir> <record.json>",
		Short: "Filter a record with a CUE config",
		Long: `Load the filters and mappings of a CUE config directory and apply
them, in order, to a JSON record. The filtered record is printed to stdout.

With --db every pass is appended to a SQLite run log (created if missing);
see the history command.

Example:
  parafilter apply ./config record.json
  parafilter apply ./config record.json --db ./runs.db --format json`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite run log (optional)")

	return cmd
}

func runApply(opts *ApplyOptions, configDir, recordPath string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	loaded, err := LoadConfig(configDir)
	if err != nil {
		return outputLoadError(formatter, err)
	}
	if len(loaded.Config.Filters) == 0 {
		_ = formatter.Error(ErrCodeNoFilters, "no filters found in config", nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("%s: no filters found in config", ErrCodeNoFilters))
	}
	formatter.VerboseLog("Loaded %d filter(s) and %d mapping(s) from %s",
		len(loaded.Config.Filters), len(loaded.Config.Mappings), configDir)

	rec, err := record.ReadFile(recordPath,
		record.WithMappings(loaded.Config.Mappings...),
		record.WithTrackedPaths(loaded.Config.Tracked...),
	)
	if err != nil {
		_ = formatter.Error(ErrCodeRecordFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to read record", err)
	}

	ids := opts.RunIDs
	if ids == nil {
		ids = engine.UUIDv7Generator{}
	}
	runID := ids.Generate()
	runnerOpts := []engine.RunnerOption{
		engine.WithRunIDs(engine.NewFixedGenerator(runID)),
		engine.WithLogger(slog.Default()),
	}

	if opts.Database != "" {
		st, err := store.Open(opts.Database)
		if err != nil {
			_ = formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				slog.Error("error closing database", "error", closeErr)
			}
		}()

		// Continue the log's seq numbering so ReadRuns stays ordered.
		last, err := st.MaxSeq(cmdContext(cmd))
		if err != nil {
			_ = formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to read database", err)
		}
		runnerOpts = append(runnerOpts,
			engine.WithRecorder(st),
			engine.WithClock(engine.NewClockAt(last)),
		)
	}

	ctx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summaries, err := engine.NewRunner(runnerOpts...).Run(ctx, rec, loaded.Config.Filters)
	for _, s := range summaries {
		formatter.VerboseLog("%s", formatSummary(s))
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return WrapExitError(ExitCommandError, "interrupted", err)
		}
		code := filterErrorCode(err)
		_ = formatter.Error(code, err.Error(), map[string]any{"run_id": runID, "applied": len(summaries)})
		return WrapExitError(ExitFailure, fmt.Sprintf("%s: filter failed", code), err)
	}

	if formatter.Format == "json" {
		return formatter.encode(CLIResponse{
			Status: "ok",
			RunID:  runID,
			Data: ApplyResult{
				RunID:     runID,
				Record:    rec.Data(),
				Summaries: summaries,
			},
		})
	}

	out, err := json.MarshalIndent(rec.Data(), "", "  ")
	if err != nil {
		return WrapExitError(ExitFailure, "failed to encode record", err)
	}
	fmt.Fprintln(formatter.Writer, string(out))
	return nil
}

// outputLoadError reports a LoadConfig failure with its code.
func outputLoadError(formatter *OutputFormatter, err error) error {
	code, message := ErrCodeGeneric, err.Error()
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		code, message = loadErr.Code, loadErr.Message
	}
	_ = formatter.Error(code, message, nil)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

// formatSummary renders one pass for text output.
func formatSummary(s engine.Summary) string {
	if s.Skipped {
		return fmt.Sprintf("#%d %s %s skipped (%s)", s.Seq, s.SourcePath, s.Operation, s.Reason)
	}
	return fmt.Sprintf("#%d %s %s kept %d/%d", s.Seq, s.SourcePath, s.Operation, s.KeptLen, s.InputLen)
}

// cmdContext returns the command's context, or Background when the command
// was executed without one.
func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
