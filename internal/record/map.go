package record

import (
	"sort"

	"github.com/roach88/parafilter/internal/ir"
)

// Map is a record backed by nested map[string]any values.
//
// Map also implements coerce.MappingProvider: mappings attached with
// WithMappings decide how each source path is coerced.
type Map struct {
	data     map[string]any
	mappings map[string]ir.MappingSpec
	tracked  []string // nil: discover
}

// Option configures a Map.
type Option func(*Map)

// WithMappings attaches coercion mappings. A later mapping for the same
// path replaces an earlier one.
func WithMappings(mappings ...ir.MappingSpec) Option {
	return func(m *Map) {
		for _, spec := range mappings {
			m.mappings[spec.Path] = spec
		}
	}
}

// WithTrackedPaths declares the arrays TrackedPaths returns instead of
// discovering every flat array. Arrays outside the list are left alone by
// filtering. With no paths discovery stays on.
func WithTrackedPaths(paths ...string) Option {
	return func(m *Map) {
		if len(paths) == 0 {
			return
		}
		m.tracked = append(m.tracked, paths...)
	}
}

// NewMap wraps data. The map is used in place, not copied; filtering
// mutates it.
func NewMap(data map[string]any, opts ...Option) *Map {
	if data == nil {
		data = map[string]any{}
	}
	m := &Map{data: data, mappings: map[string]ir.MappingSpec{}}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Data returns the underlying map.
func (m *Map) Data() map[string]any {
	return m.data
}

// Get resolves a dotted path.
func (m *Map) Get(path string) (any, bool) {
	keys, err := SplitPath(path)
	if err != nil {
		return nil, false
	}
	var cur any = m.data
	for _, k := range keys {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = obj[k]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// Array implements Container.
func (m *Map) Array(path string) ([]any, bool) {
	v, ok := m.Get(path)
	if !ok {
		return nil, false
	}
	arr, ok := v.([]any)
	return arr, ok
}

// SetArray implements Container. Missing intermediate objects are created;
// an intermediate that exists but is not an object is an error.
func (m *Map) SetArray(path string, data []any) error {
	keys, err := SplitPath(path)
	if err != nil {
		return err
	}
	obj := m.data
	for _, k := range keys[:len(keys)-1] {
		next, exists := obj[k]
		if !exists {
			child := map[string]any{}
			obj[k] = child
			obj = child
			continue
		}
		child, ok := next.(map[string]any)
		if !ok {
			return &PathError{Path: path, Message: "key " + k + " is not an object"}
		}
		obj = child
	}
	obj[keys[len(keys)-1]] = data
	return nil
}

// TrackedPaths implements Container. It returns the paths declared with
// WithTrackedPaths, or else every flat array of scalars in the record.
// Paths are sorted and unique.
func (m *Map) TrackedPaths() []string {
	paths := []string{}
	if m.tracked != nil {
		seen := make(map[string]bool, len(m.tracked))
		for _, p := range m.tracked {
			if !seen[p] {
				seen[p] = true
				paths = append(paths, p)
			}
		}
	} else {
		walk(m.data, "", &paths)
	}
	sort.Strings(paths)
	return paths
}

func walk(obj map[string]any, prefix string, paths *[]string) {
	for k, v := range obj {
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]any:
			walk(val, path, paths)
		default:
			if _, ok := isAttributeArray(val); ok {
				*paths = append(*paths, path)
			}
		}
	}
}

// Mapping implements coerce.MappingProvider.
func (m *Map) Mapping(path string) (ir.MappingSpec, bool) {
	spec, ok := m.mappings[path]
	return spec, ok
}

// Clone returns a deep copy of the record with the same mappings.
func (m *Map) Clone() *Map {
	out := &Map{
		data:     DeepCopy(m.data).(map[string]any),
		mappings: make(map[string]ir.MappingSpec, len(m.mappings)),
	}
	if m.tracked != nil {
		out.tracked = append([]string(nil), m.tracked...)
	}
	for k, v := range m.mappings {
		out.mappings[k] = v
	}
	return out
}

// MarshalCanonical renders the record as canonical JSON.
func (m *Map) MarshalCanonical() ([]byte, error) {
	return ir.MarshalCanonical(m.data)
}
