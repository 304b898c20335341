package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/parafilter/internal/ir"
)

// Snapshot captures a scenario's observable outcome: the filtered record
// and what each pass did. Hashes are left out so snapshots stay readable.
type Snapshot struct {
	ScenarioName string
	RunID        string
	Result       *Result
}

// toCanonicalMap converts a Snapshot to a map[string]any for canonical JSON
// serialization.
func (s *Snapshot) toCanonicalMap() map[string]any {
	summaries := make([]any, len(s.Result.Summaries))
	for i, sum := range s.Result.Summaries {
		m := map[string]any{
			"seq":       sum.Seq,
			"filtersrc": sum.SourcePath,
			"operation": sum.Operation.String(),
			"input_len": sum.InputLen,
			"kept_len":  sum.KeptLen,
			"skipped":   sum.Skipped,
		}
		if sum.Reason != "" {
			m["reason"] = string(sum.Reason)
		}
		summaries[i] = m
	}

	out := map[string]any{
		"scenario_name": s.ScenarioName,
		"run_id":        s.RunID,
		"record":        s.Result.Record,
		"summaries":     summaries,
	}
	if s.Result.Err != nil {
		out["error"] = s.Result.Err.Error()
	}
	return out
}

// MarshalSnapshot renders the canonical JSON compared against golden files.
func MarshalSnapshot(scenario *Scenario, result *Result) ([]byte, error) {
	snap := Snapshot{ScenarioName: scenario.Name, RunID: scenario.RunID, Result: result}
	return ir.MarshalCanonical(snap.toCanonicalMap())
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against the scenario's golden
// file without re-running it.
func AssertGolden(t *testing.T, scenario *Scenario, result *Result) error {
	t.Helper()

	data, err := MarshalSnapshot(scenario, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, data)

	return nil
}
