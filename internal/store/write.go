package store

import (
	"context"
	"fmt"

	"github.com/roach88/parafilter/internal/ir"
)

// WriteRun records one filter pass. The parent run row is created on first
// use. Uses ON CONFLICT DO NOTHING for idempotency - writing the same
// (run_id, seq) twice is silently ignored.
//
// Implements engine.RunRecorder.
func (s *Store) WriteRun(ctx context.Context, run ir.RunRecord) error {
	specJSON, err := marshalSpec(run.Spec)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write run: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, engine_version)
		VALUES (?, ?)
		ON CONFLICT(id) DO NOTHING
	`, run.RunID, run.EngineVersion); err != nil {
		return fmt.Errorf("write run: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO filter_runs
		(run_id, seq, spec_hash, spec, filtersrc, operation, input_len, kept_len, skipped, reason, record_hash)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, seq) DO NOTHING
	`,
		run.RunID,
		run.Seq,
		run.SpecHash,
		specJSON,
		run.Spec.SourcePath,
		run.Spec.Operation.String(),
		run.InputLen,
		run.KeptLen,
		run.Skipped,
		run.Reason,
		run.RecordHash,
	); err != nil {
		return fmt.Errorf("write filter run: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write run: commit: %w", err)
	}
	return nil
}
