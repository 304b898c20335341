package harness

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/roach88/parafilter/internal/compiler"
	"github.com/roach88/parafilter/internal/engine"
	"github.com/roach88/parafilter/internal/ir"
	"github.com/roach88/parafilter/internal/record"
	"github.com/roach88/parafilter/internal/store"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates every expectation held.
	Pass bool `json:"pass"`

	// Record is the record after filtering.
	Record map[string]any `json:"record"`

	// Summaries report each filter pass, in order.
	Summaries []engine.Summary `json:"summaries"`

	// Runs are the passes as read back from the run log.
	Runs []ir.RunRecord `json:"runs"`

	// Err is the filter error, if the passes stopped early.
	Err error `json:"-"`

	// Errors contains expectation failures. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:      true,
		Summaries: []engine.Summary{},
		Runs:      []ir.RunRecord{},
		Errors:    []string{},
	}
}

// AddError adds an expectation failure and marks the result as failed.
func (r *Result) AddError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
	r.Pass = false
}

// Run executes a scenario and returns its result.
//
// Each scenario runs against a fresh in-memory run log.
//
// Execution flow:
//  1. Compile mappings and filters through the CUE schema
//  2. Decode the record the way the CLI decodes record files
//  3. Apply the filters with a Runner recording to the run log
//  4. Check expect / expect_error against the outcome
//
// An error return means the scenario itself could not be executed (record
// not an object, store failure). Config and filter failures are part of the
// Result, so expect_error can match them.
func Run(scenario *Scenario) (*Result, error) {
	result := NewResult()

	cfg, err := compileScenarioConfig(scenario)
	if err != nil {
		// A config the schema rejects is an outcome, not a harness failure.
		rec, decodeErr := decodeRecord(scenario.Record, &ir.Config{})
		if decodeErr != nil {
			return nil, decodeErr
		}
		result.Record = rec.Data()
		result.Err = fmt.Errorf("compile config: %w", err)
		checkExpectations(scenario, rec, result)
		return result, nil
	}

	rec, err := decodeRecord(scenario.Record, cfg)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	runner := engine.NewRunner(
		engine.WithRunIDs(engine.NewFixedGenerator(scenario.RunID)),
		engine.WithRecorder(st),
		engine.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)

	ctx := context.Background()

	result.Summaries, result.Err = runner.Run(ctx, rec, cfg.Filters)
	result.Record = rec.Data()

	runs, err := st.ReadRunsByID(ctx, scenario.RunID)
	if err != nil {
		return nil, fmt.Errorf("read run log: %w", err)
	}
	result.Runs = runs

	checkExpectations(scenario, rec, result)
	return result, nil
}

// compileScenarioConfig turns the scenario's filters and mappings into a
// config through the same schema a CUE config directory goes through.
func compileScenarioConfig(s *Scenario) (*ir.Config, error) {
	doc := map[string]any{"filters": s.Filters}
	if len(s.Mappings) > 0 {
		doc["mappings"] = s.Mappings
	}
	if len(s.Tracked) > 0 {
		doc["tracked"] = s.Tracked
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	return compiler.CompileConfigJSON(data)
}

// decodeRecord round-trips the YAML record through JSON so numbers arrive
// as json.Number exactly as they do from a record file.
func decodeRecord(data map[string]any, cfg *ir.Config) (*record.Map, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode scenario record: %w", err)
	}
	rec, err := record.DecodeJSONBytes(raw,
		record.WithMappings(cfg.Mappings...),
		record.WithTrackedPaths(cfg.Tracked...),
	)
	if err != nil {
		return nil, fmt.Errorf("scenario record: %w", err)
	}
	return rec, nil
}

func checkExpectations(s *Scenario, rec *record.Map, result *Result) {
	if s.ExpectError != "" {
		switch {
		case result.Err == nil:
			result.AddError("expected error containing %q, filters succeeded", s.ExpectError)
		case !strings.Contains(result.Err.Error(), s.ExpectError):
			result.AddError("expected error containing %q, got %q", s.ExpectError, result.Err.Error())
		}
		return
	}

	if result.Err != nil {
		result.AddError("filters failed: %v", result.Err)
		return
	}

	paths := make([]string, 0, len(s.Expect))
	for p := range s.Expect {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, path := range paths {
		got, ok := rec.Array(path)
		if !ok {
			result.AddError("%s: no array at path", path)
			continue
		}
		want, wantJSON, err := normalize(s.Expect[path])
		if err != nil {
			result.AddError("%s: expected value: %v", path, err)
			continue
		}
		_, gotJSON, err := normalize(got)
		if err != nil {
			result.AddError("%s: actual value: %v", path, err)
			continue
		}
		if !bytes.Equal(wantJSON, gotJSON) {
			result.AddError("%s: expected %s, got %s (%d vs %d elements)",
				path, wantJSON, gotJSON, len(want), len(got))
		}
	}
}

// normalize renders an array as canonical JSON after a JSON round-trip, so
// 2, 2.0 and json.Number("2") compare equal.
func normalize(arr []any) ([]any, []byte, error) {
	raw, err := json.Marshal(arr)
	if err != nil {
		return nil, nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var out []any
	if err := dec.Decode(&out); err != nil {
		return nil, nil, err
	}
	if out == nil {
		out = []any{}
	}
	canon, err := ir.MarshalCanonical(out)
	if err != nil {
		return nil, nil, err
	}
	return out, canon, nil
}
