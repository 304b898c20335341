package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/parafilter/internal/ir"
)

// RunQuery selects filter passes from the run log. Zero fields match
// everything; set fields are ANDed.
type RunQuery struct {
	RunID      string
	SpecHash   string
	SourcePath string
	Operation  ir.Operation // OpInvalid matches any operation
	Skipped    *bool

	// Limit keeps only the most recent Limit passes. <= 0 means no limit.
	Limit int
}

// compile turns q into a parameterized SELECT. Values are never
// interpolated. Every query orders by seq with run_id as tiebreaker so
// reads are deterministic.
func (q RunQuery) compile() (string, []any) {
	var (
		conds  []string
		params []any
	)
	eq := func(column string, value any) {
		conds = append(conds, column+" = ?")
		params = append(params, value)
	}

	if q.RunID != "" {
		eq("f.run_id", q.RunID)
	}
	if q.SpecHash != "" {
		eq("f.spec_hash", q.SpecHash)
	}
	if q.SourcePath != "" {
		eq("f.filtersrc", q.SourcePath)
	}
	if q.Operation.Valid() {
		eq("f.operation", q.Operation.Code())
	}
	if q.Skipped != nil {
		eq("f.skipped", *q.Skipped)
	}

	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}

	limit := q.Limit
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	params = append(params, limit)

	// Newest first to apply the limit, then back to oldest first.
	query := fmt.Sprintf(`
		SELECT * FROM (%s
			%s
			ORDER BY f.seq DESC, f.run_id COLLATE BINARY DESC
			LIMIT ?
		)
		ORDER BY seq ASC, run_id COLLATE BINARY ASC
	`, selectFilterRuns, where)

	return query, params
}

// QueryRuns returns the filter passes matching q, oldest first.
//
// Returns an empty slice (not nil) if nothing matches.
func (s *Store) QueryRuns(ctx context.Context, q RunQuery) ([]ir.RunRecord, error) {
	query, params := q.compile()
	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}
