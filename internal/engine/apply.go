package engine

import (
	"fmt"

	"github.com/roach88/parafilter/internal/coerce"
	"github.com/roach88/parafilter/internal/compiler"
	"github.com/roach88/parafilter/internal/ir"
	"github.com/roach88/parafilter/internal/record"
)

// Outcome describes what one selection pass did.
type Outcome struct {
	// Skipped is true when the guard left the record untouched.
	Skipped bool

	// Reason is ErrCodeDisabled or ErrCodeUnfilterableSource when Skipped.
	Reason RuntimeErrorCode

	// Paths are the arrays that were rewritten, source first.
	Paths []string

	// InputLen is the source length before the pass.
	InputLen int

	// KeptLen is the size of the retained index set.
	KeptLen int
}

// Apply filters rec in place with spec, keeping every array in paths
// parallel to the source. The source path is tracked even when paths omits
// it.
//
// A disabled spec or an unfilterable source is a no-op and returns nil.
// Compile errors and runtime errors are returned with rec unmodified.
func Apply(rec record.Container, spec ir.FilterSpec, paths []string) error {
	_, err := Select(rec, spec, paths)
	return err
}

// Select is Apply reporting the Outcome of the pass.
func Select(rec record.Container, spec ir.FilterSpec, paths []string) (Outcome, error) {
	if !spec.Enabled {
		return Outcome{Skipped: true, Reason: ErrCodeDisabled}, nil
	}
	source, ok := rec.Array(spec.SourcePath)
	if !ok {
		return Outcome{Skipped: true, Reason: ErrCodeUnfilterableSource}, nil
	}

	coercer, err := coerce.For(rec, spec.SourcePath)
	if err != nil {
		return Outcome{}, fmt.Errorf("resolve coercer for %s: %w", spec.SourcePath, err)
	}
	pred, err := compiler.CompilePredicate(spec.Operation, spec.Value, coercer)
	if err != nil {
		return Outcome{}, fmt.Errorf("compile filter on %s: %w", spec.SourcePath, err)
	}

	tracked := trackedPaths(spec.SourcePath, paths)
	n := len(source)

	// Snapshot. Every tracked array is resolved and checked before any of
	// them is touched.
	snapshot := make(map[string][]any, len(tracked))
	for _, path := range tracked {
		arr, ok := rec.Array(path)
		if !ok {
			return Outcome{}, NewMissingAttributeError(path)
		}
		if len(arr) != n {
			return Outcome{}, NewLengthMismatchError(path, len(arr), n)
		}
		snapshot[path] = copyArray(arr)
	}

	// Clear.
	live := make(map[string][]any, len(tracked))
	for _, path := range tracked {
		live[path] = make([]any, 0, n)
	}

	// Refill in a single pass driven by the source snapshot.
	src := snapshot[spec.SourcePath]
	kept := 0
	for i := 0; i < n; i++ {
		if pred(src[i]) {
			kept++
			for _, path := range tracked {
				live[path] = append(live[path], snapshot[path][i])
			}
			continue
		}
		if spec.PreserveGaps {
			for _, path := range tracked {
				live[path] = append(live[path], nil)
			}
		}
	}

	if err := publish(rec, tracked, live, snapshot); err != nil {
		return Outcome{}, err
	}

	return Outcome{
		Paths:    tracked,
		InputLen: n,
		KeptLen:  kept,
	}, nil
}

// publish replaces each tracked array with its refilled version. If one
// write fails, the arrays already written are restored from the snapshot.
func publish(rec record.Container, tracked []string, live, snapshot map[string][]any) error {
	for i, path := range tracked {
		if err := rec.SetArray(path, live[path]); err != nil {
			for _, done := range tracked[:i] {
				_ = rec.SetArray(done, snapshot[done]) // best effort
			}
			return fmt.Errorf("set %s: %w", path, err)
		}
	}
	return nil
}

// trackedPaths puts source first and drops duplicates, keeping the caller's
// order otherwise.
func trackedPaths(source string, paths []string) []string {
	out := make([]string, 0, len(paths)+1)
	seen := map[string]bool{source: true}
	out = append(out, source)
	for _, p := range paths {
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

func copyArray(arr []any) []any {
	out := make([]any, len(arr))
	for i, v := range arr {
		out[i] = record.DeepCopy(v)
	}
	return out
}
