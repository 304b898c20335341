package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/parafilter/internal/ir"
	"github.com/roach88/parafilter/internal/record"
)

// RunRecorder persists one record per filter pass.
// Implemented by *store.Store.
type RunRecorder interface {
	WriteRun(ctx context.Context, run ir.RunRecord) error
}

// Summary reports one filter of a Runner pass.
type Summary struct {
	RunID      string           `json:"run_id"`
	Seq        int64            `json:"seq"`
	SpecHash   string           `json:"spec_hash"`
	SourcePath string           `json:"filtersrc"`
	Operation  ir.Operation     `json:"operation"`
	InputLen   int              `json:"input_len"`
	KeptLen    int              `json:"kept_len"`
	Skipped    bool             `json:"skipped"`
	Reason     RuntimeErrorCode `json:"reason,omitempty"`
}

// Runner applies an ordered list of filters to one record.
//
// Each filter is an independent selection pass over the data left by the
// previous one; tracked paths are rediscovered before every pass.
type Runner struct {
	ids      RunIDGenerator
	clock    *Clock
	recorder RunRecorder
	logger   *slog.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithRecorder records every pass. Without it nothing is persisted.
func WithRecorder(r RunRecorder) RunnerOption {
	return func(run *Runner) {
		run.recorder = r
	}
}

// WithRunIDs replaces the UUIDv7 run id generator.
func WithRunIDs(g RunIDGenerator) RunnerOption {
	return func(run *Runner) {
		run.ids = g
	}
}

// WithClock sets the clock stamping seq numbers.
// Use NewClockAt to continue an existing run log.
func WithClock(c *Clock) RunnerOption {
	return func(run *Runner) {
		run.clock = c
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) RunnerOption {
	return func(run *Runner) {
		run.logger = l
	}
}

// NewRunner creates a Runner.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		ids:    UUIDv7Generator{},
		clock:  NewClock(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run applies specs to rec in declaration order and returns one Summary per
// spec. On error the summaries of the passes already applied are returned
// with it; the failing pass left rec as it was before that pass.
func (r *Runner) Run(ctx context.Context, rec record.Container, specs []ir.FilterSpec) ([]Summary, error) {
	runID := r.ids.Generate()
	summaries := make([]Summary, 0, len(specs))

	for i, spec := range specs {
		if err := ctx.Err(); err != nil {
			return summaries, err
		}

		hash, err := ir.SpecHash(spec)
		if err != nil {
			return summaries, fmt.Errorf("filters[%d]: %w", i, err)
		}

		outcome, err := Select(rec, spec, rec.TrackedPaths())
		if err != nil {
			r.logger.Error("filter failed",
				"run_id", runID,
				"index", i,
				"filtersrc", spec.SourcePath,
				"operation", spec.Operation.String(),
				"error", err,
			)
			return summaries, fmt.Errorf("filters[%d]: %w", i, err)
		}

		s := Summary{
			RunID:      runID,
			Seq:        r.clock.Next(),
			SpecHash:   hash,
			SourcePath: spec.SourcePath,
			Operation:  spec.Operation,
			InputLen:   outcome.InputLen,
			KeptLen:    outcome.KeptLen,
			Skipped:    outcome.Skipped,
			Reason:     outcome.Reason,
		}

		if s.Skipped {
			r.logger.Info("filter skipped",
				"run_id", runID,
				"seq", s.Seq,
				"filtersrc", spec.SourcePath,
				"reason", string(s.Reason),
			)
		} else {
			r.logger.Debug("filter applied",
				"run_id", runID,
				"seq", s.Seq,
				"filtersrc", spec.SourcePath,
				"operation", spec.Operation.String(),
				"input_len", s.InputLen,
				"kept_len", s.KeptLen,
				"paths", len(outcome.Paths),
			)
		}

		if err := r.record(ctx, rec, spec, s); err != nil {
			return append(summaries, s), fmt.Errorf("filters[%d]: %w", i, err)
		}
		summaries = append(summaries, s)
	}

	return summaries, nil
}

// dataRecord is implemented by containers whose contents can be hashed.
type dataRecord interface {
	Data() map[string]any
}

func (r *Runner) record(ctx context.Context, rec record.Container, spec ir.FilterSpec, s Summary) error {
	if r.recorder == nil {
		return nil
	}

	run := ir.RunRecord{
		RunID:         s.RunID,
		Seq:           s.Seq,
		SpecHash:      s.SpecHash,
		Spec:          spec,
		InputLen:      s.InputLen,
		KeptLen:       s.KeptLen,
		Skipped:       s.Skipped,
		Reason:        string(s.Reason),
		EngineVersion: ir.EngineVersion,
	}
	if dr, ok := rec.(dataRecord); ok {
		h, err := ir.RecordHash(dr.Data())
		if err != nil {
			return fmt.Errorf("hash record: %w", err)
		}
		run.RecordHash = h
	}

	if err := r.recorder.WriteRun(ctx, run); err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}
