package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/parafilter/internal/ir"
)

const selectFilterRuns = `
	SELECT f.run_id, f.seq, f.spec_hash, f.spec, f.input_len, f.kept_len,
	       f.skipped, f.reason, f.record_hash, r.engine_version
	FROM filter_runs f
	JOIN runs r ON r.id = f.run_id
`

// ReadRuns returns the most recent limit filter passes, oldest first.
// A limit <= 0 returns every recorded pass.
//
// Returns an empty slice (not nil) if nothing has been recorded.
func (s *Store) ReadRuns(ctx context.Context, limit int) ([]ir.RunRecord, error) {
	return s.QueryRuns(ctx, RunQuery{Limit: limit})
}

// ReadRunsByID returns every filter pass of one run, in seq order.
//
// Returns an empty slice (not nil) if the run does not exist.
func (s *Store) ReadRunsByID(ctx context.Context, runID string) ([]ir.RunRecord, error) {
	runs, err := s.QueryRuns(ctx, RunQuery{RunID: runID})
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return runs, nil
}

// MaxSeq returns the highest recorded seq, or 0 for an empty log.
// engine.NewClockAt(MaxSeq) continues the log without reusing seq values.
func (s *Store) MaxSeq(ctx context.Context) (int64, error) {
	var seq int64
	if err := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) FROM filter_runs`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("query max seq: %w", err)
	}
	return seq, nil
}

func scanRuns(rows *sql.Rows) ([]ir.RunRecord, error) {
	runs := []ir.RunRecord{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

func scanRun(rows *sql.Rows) (ir.RunRecord, error) {
	var (
		run      ir.RunRecord
		specJSON string
	)
	if err := rows.Scan(
		&run.RunID,
		&run.Seq,
		&run.SpecHash,
		&specJSON,
		&run.InputLen,
		&run.KeptLen,
		&run.Skipped,
		&run.Reason,
		&run.RecordHash,
		&run.EngineVersion,
	); err != nil {
		return ir.RunRecord{}, fmt.Errorf("scan run: %w", err)
	}

	spec, err := unmarshalSpec(specJSON)
	if err != nil {
		return ir.RunRecord{}, err
	}
	run.Spec = spec
	return run, nil
}
