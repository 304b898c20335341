package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoldenScenarios(t *testing.T) {
	for _, name := range []string{"half_open_interval", "disabled_noop"} {
		t.Run(name, func(t *testing.T) {
			s, err := LoadScenario("testdata/scenarios/" + name + ".yaml")
			require.NoError(t, err)

			result, err := RunWithGolden(t, s)
			require.NoError(t, err)
			assert.True(t, result.Pass, result.Errors)
		})
	}
}

func TestMarshalSnapshotDeterministic(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/sequential_filters.yaml")
	require.NoError(t, err)

	r1, err := Run(s)
	require.NoError(t, err)
	r2, err := Run(s)
	require.NoError(t, err)

	b1, err := MarshalSnapshot(s, r1)
	require.NoError(t, err)
	b2, err := MarshalSnapshot(s, r2)
	require.NoError(t, err)
	assert.Equal(t, string(b1), string(b2))
	assert.NotContains(t, string(b1), "spec_hash")
}

func TestMarshalSnapshotIncludesError(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/length_mismatch.yaml")
	require.NoError(t, err)

	result, err := Run(s)
	require.NoError(t, err)

	data, err := MarshalSnapshot(s, result)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"error":"filters[0]: LENGTH_MISMATCH`)
	assert.Contains(t, string(data), `"summaries":[]`)
}
