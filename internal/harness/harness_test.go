package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/parafilter/internal/ir"
)

func TestRunScenarios(t *testing.T) {
	scenarios, err := LoadScenarios("testdata/scenarios")
	require.NoError(t, err)

	for _, s := range scenarios {
		t.Run(s.Name, func(t *testing.T) {
			result, err := Run(s)
			require.NoError(t, err)
			assert.True(t, result.Pass, "expectation failures: %v", result.Errors)
		})
	}
}

func TestRunRecordsEveryPass(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/sequential_filters.yaml")
	require.NoError(t, err)

	result, err := Run(s)
	require.NoError(t, err)
	require.True(t, result.Pass, result.Errors)

	require.Len(t, result.Summaries, 3)
	require.Len(t, result.Runs, 3)
	for i, run := range result.Runs {
		assert.Equal(t, DefaultRunID, run.RunID)
		assert.Equal(t, int64(i+1), run.Seq)
		assert.Equal(t, result.Summaries[i].SpecHash, run.SpecHash)
		assert.Equal(t, result.Summaries[i].KeptLen, run.KeptLen)
		assert.NotEmpty(t, run.RecordHash)
	}

	assert.Equal(t, 6, result.Summaries[0].InputLen)
	assert.Equal(t, 5, result.Summaries[0].KeptLen)
	assert.Equal(t, "day", result.Runs[1].Spec.SourcePath)
	assert.Equal(t, ir.OpInsideClosed, result.Runs[1].Spec.Operation)
	assert.Equal(t, 2, result.Summaries[2].KeptLen)
}

func TestRunExpectationMismatch(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: wrong
description: expects the wrong survivors
record:
  x: [1, 2, 3]
  y: [a, b, c]
filters:
  - operation: ">"
    value: 1
expect:
  x: [1, 2]
  y: [b, c]
  z: [1]
`))
	require.NoError(t, err)

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "x: expected [1,2], got [2,3]")
	assert.Contains(t, result.Errors[1], "z: no array at path")
}

func TestRunNumberSpellingsCompareEqual(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: spellings
description: 2.0 in the expectation matches 2 in the record
record:
  x: [1, 2, 3]
filters:
  - operation: "="
    value: 2
expect:
  x: [2.0]
`))
	require.NoError(t, err)

	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, result.Errors)
}

func TestRunExpectErrorButSucceeded(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: no-error
description: filters succeed though an error is expected
record:
  x: [1, 2, 3]
filters:
  - operation: ">"
    value: 1
expect_error: LENGTH_MISMATCH
`))
	require.NoError(t, err)

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "filters succeeded")
}

func TestRunUnexpectedFilterError(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: empty-interval
description: an empty bound list is an invalid value
record:
  x: [1, 2, 3]
filters:
  - operation: "[]"
    value: []
expect:
  x: [1, 2, 3]
`))
	require.NoError(t, err)

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), "INVALID_VALUE")
	assert.Empty(t, result.Runs, "failed pass is not recorded")
	assert.Equal(t, []any{1, 2, 3}, toInts(t, result.Record["x"]), "record left as it was")
}

func TestRunConfigErrorKeepsRecord(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/unknown_operation.yaml")
	require.NoError(t, err)

	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, result.Errors)
	require.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), "filters[0].operation")
	assert.Empty(t, result.Summaries)
	assert.Contains(t, result.Record, "x")
}

func TestRunRecordNotEncodable(t *testing.T) {
	s := &Scenario{
		Name:        "bad-record",
		Description: "record with a value JSON cannot encode",
		Record:      map[string]any{"x": make(chan int)},
		Filters:     []map[string]any{{"value": 1}},
		Expect:      map[string][]any{"x": {1}},
		RunID:       DefaultRunID,
	}
	_, err := Run(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "encode scenario record")
}

// toInts converts a decoded JSON array back to ints for comparison.
func toInts(t *testing.T, v any) []any {
	t.Helper()
	arr, ok := v.([]any)
	require.True(t, ok, "expected array, got %T", v)
	out := make([]any, len(arr))
	for i, e := range arr {
		n, ok := e.(interface{ Int64() (int64, error) })
		require.True(t, ok, "expected number, got %T", e)
		i64, err := n.Int64()
		require.NoError(t, err)
		out[i] = int(i64)
	}
	return out
}
