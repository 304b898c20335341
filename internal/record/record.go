package record

import (
	"fmt"
	"strings"
)

// Container is a record whose array attributes can be filtered in lockstep.
//
// Implementations must return the live array from Array; the engine copies it
// before clearing. SetArray replaces the array stored at path.
type Container interface {
	// TrackedPaths lists every array attribute subject to filtering.
	TrackedPaths() []string

	// Array returns the array at path. ok is false when the path is absent
	// or holds something other than an array.
	Array(path string) ([]any, bool)

	// SetArray replaces the array at path.
	SetArray(path string, data []any) error
}

// PathError reports a dotted path that cannot be resolved for writing.
type PathError struct {
	Path    string
	Message string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("path %q: %s", e.Path, e.Message)
}

// SplitPath splits a dotted attribute path into its keys.
// Empty keys ("a..b", ".a", "a.") are rejected.
func SplitPath(path string) ([]string, error) {
	if strings.TrimSpace(path) == "" {
		return nil, &PathError{Path: path, Message: "path must not be empty"}
	}
	keys := strings.Split(path, ".")
	for _, k := range keys {
		if k == "" {
			return nil, &PathError{Path: path, Message: "empty key in dotted path"}
		}
	}
	return keys, nil
}

// DeepCopy copies nested maps and slices so the result shares no mutable
// state with v. Scalars are returned as is.
func DeepCopy(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, e := range val {
			out[k] = DeepCopy(e)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = DeepCopy(e)
		}
		return out
	default:
		return v
	}
}

// isAttributeArray reports whether v is a flat array of scalars.
func isAttributeArray(v any) ([]any, bool) {
	arr, ok := v.([]any)
	if !ok {
		return nil, false
	}
	for _, e := range arr {
		switch e.(type) {
		case map[string]any, []any:
			return nil, false
		}
	}
	return arr, true
}
