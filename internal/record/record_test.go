package record

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/parafilter/internal/coerce"
	"github.com/roach88/parafilter/internal/ir"
)

var _ Container = (*Map)(nil)
var _ coerce.MappingProvider = (*Map)(nil)

func sampleRecord() map[string]any {
	return map[string]any{
		"x":    []any{1, 2, 3},
		"y":    []any{"a", "b", "c"},
		"ids":  []any{"p", "q", "r"},
		"name": "trace 0",
		"marker": map[string]any{
			"color": []any{"red", "blue", "red"},
			"size":  8,
			"line": map[string]any{
				"width": []any{1, 1, 2},
			},
		},
		"meta": []any{map[string]any{"k": 1}},
		"grid": []any{[]any{1, 2}, []any{3, 4}},
	}
}

func TestSplitPath(t *testing.T) {
	keys, err := SplitPath("marker.line.width")
	require.NoError(t, err)
	assert.Equal(t, []string{"marker", "line", "width"}, keys)

	for _, bad := range []string{"", "  ", "a..b", ".a", "a."} {
		_, err := SplitPath(bad)
		require.Error(t, err, "path %q", bad)

		var pe *PathError
		assert.ErrorAs(t, err, &pe)
	}
}

func TestMapGet(t *testing.T) {
	m := NewMap(sampleRecord())

	v, ok := m.Get("marker.size")
	require.True(t, ok)
	assert.Equal(t, 8, v)

	_, ok = m.Get("marker.missing")
	assert.False(t, ok)

	_, ok = m.Get("name.first")
	assert.False(t, ok, "cannot descend into a string")
}

func TestMapArray(t *testing.T) {
	m := NewMap(sampleRecord())

	arr, ok := m.Array("marker.color")
	require.True(t, ok)
	assert.Equal(t, []any{"red", "blue", "red"}, arr)

	_, ok = m.Array("marker.size")
	assert.False(t, ok, "scalar is not an array")

	_, ok = m.Array("nope")
	assert.False(t, ok)
}

func TestMapSetArray(t *testing.T) {
	m := NewMap(sampleRecord())

	require.NoError(t, m.SetArray("marker.color", []any{"green"}))
	arr, _ := m.Array("marker.color")
	assert.Equal(t, []any{"green"}, arr)

	require.NoError(t, m.SetArray("error_y.array", []any{0.1}))
	arr, ok := m.Array("error_y.array")
	require.True(t, ok, "intermediate objects are created")
	assert.Equal(t, []any{0.1}, arr)

	err := m.SetArray("name.first", []any{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not an object")
}

func TestMapTrackedPaths(t *testing.T) {
	m := NewMap(sampleRecord())

	assert.Equal(t, []string{
		"ids",
		"marker.color",
		"marker.line.width",
		"x",
		"y",
	}, m.TrackedPaths(), "flat scalar arrays only, sorted")
}

func TestMapTrackedPathsEmpty(t *testing.T) {
	assert.Equal(t, []string{}, NewMap(nil).TrackedPaths())
}

func TestMapDeclaredTrackedPaths(t *testing.T) {
	m := NewMap(sampleRecord(), WithTrackedPaths("y", "x", "y"))
	assert.Equal(t, []string{"x", "y"}, m.TrackedPaths(), "declared paths, sorted and unique")

	assert.Equal(t, []string{"x", "y"}, m.Clone().TrackedPaths(), "declaration carried over")
}

func TestMapWithTrackedPathsNoneKeepsDiscovery(t *testing.T) {
	m := NewMap(sampleRecord(), WithTrackedPaths())
	assert.Len(t, m.TrackedPaths(), 5)
}

func TestMapMappings(t *testing.T) {
	m := NewMap(sampleRecord(), WithMappings(
		ir.MappingSpec{Path: "marker.color", Type: ir.MappingString},
		ir.MappingSpec{Path: "marker.color", Type: ir.MappingCategory, Categories: []string{"red", "blue"}},
	))

	spec, ok := m.Mapping("marker.color")
	require.True(t, ok)
	assert.Equal(t, ir.MappingCategory, spec.Type, "later mapping replaces earlier")

	_, ok = m.Mapping("x")
	assert.False(t, ok)

	c, err := coerce.For(m, "marker.color")
	require.NoError(t, err)
	assert.Equal(t, ir.Num(1), c("blue"))
}

func TestMapClone(t *testing.T) {
	m := NewMap(sampleRecord(), WithMappings(ir.MappingSpec{Path: "x", Type: ir.MappingString}))
	c := m.Clone()

	require.NoError(t, c.SetArray("x", []any{}))
	nested, _ := c.Get("marker")
	nested.(map[string]any)["size"] = 9

	arr, _ := m.Array("x")
	assert.Equal(t, []any{1, 2, 3}, arr, "original untouched")
	size, _ := m.Get("marker.size")
	assert.Equal(t, 8, size)

	_, ok := c.Mapping("x")
	assert.True(t, ok, "mappings carried over")
}

func TestDeepCopy(t *testing.T) {
	src := []any{map[string]any{"a": []any{1}}, 2}
	cp := DeepCopy(src).([]any)

	cp[0].(map[string]any)["a"].([]any)[0] = 99
	assert.Equal(t, 1, src[0].(map[string]any)["a"].([]any)[0])
	assert.Equal(t, "s", DeepCopy("s"))
}

func TestDecodeJSON(t *testing.T) {
	m, err := DecodeJSON(strings.NewReader(`{"x": [1, 2.5, "3"], "marker": {"color": ["a", null, "b"]}}`))
	require.NoError(t, err)

	arr, ok := m.Array("x")
	require.True(t, ok)
	assert.Equal(t, []any{json.Number("1"), json.Number("2.5"), "3"}, arr)

	arr, ok = m.Array("marker.color")
	require.True(t, ok)
	assert.Equal(t, []any{"a", nil, "b"}, arr)
}

func TestDecodeJSONErrors(t *testing.T) {
	for _, src := range []string{`[1, 2]`, `"x"`, `{`, `{"x": 1} {"y": 2}`} {
		_, err := DecodeJSON(strings.NewReader(src))
		assert.Error(t, err, src)
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "record.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"x": [3, 1]}`), 0o644))

	m, err := ReadFile(path, WithMappings(ir.MappingSpec{Path: "x", Type: ir.MappingString}))
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, m.TrackedPaths())

	_, ok := m.Mapping("x")
	assert.True(t, ok)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestMarshalCanonical(t *testing.T) {
	m, err := DecodeJSONBytes([]byte(`{"y": ["b", null], "x": [2, 1.5]}`))
	require.NoError(t, err)

	out, err := m.MarshalCanonical()
	require.NoError(t, err)
	assert.Equal(t, `{"x":[2,1.5],"y":["b",null]}`, string(out))
}
