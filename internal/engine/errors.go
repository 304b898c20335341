package engine

import (
	"errors"
	"fmt"
)

// RuntimeError represents a record the selection pass refuses to rewrite.
//
// Runtime errors are returned before any tracked array is mutated:
//   - Length mismatch: a tracked array and the source differ in length
//   - Missing attribute: a tracked path does not hold an array
//
// UNFILTERABLE_SOURCE is never returned by Apply (the pass is a no-op); it
// is the reason code the Runner attaches to a skipped filter.
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// Path is the tracked attribute that failed, if any.
	Path string

	// Details contains additional context.
	Details map[string]string
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeLengthMismatch indicates a tracked array is not parallel to the source.
	ErrCodeLengthMismatch RuntimeErrorCode = "LENGTH_MISMATCH"

	// ErrCodeMissingAttribute indicates a tracked path is absent or not an array.
	ErrCodeMissingAttribute RuntimeErrorCode = "MISSING_ATTRIBUTE"

	// ErrCodeUnfilterableSource indicates the source path is absent or not an array.
	ErrCodeUnfilterableSource RuntimeErrorCode = "UNFILTERABLE_SOURCE"

	// ErrCodeDisabled marks a filter skipped because enabled is false.
	ErrCodeDisabled RuntimeErrorCode = "DISABLED"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s (path=%s)", e.Code, e.Message, e.Path)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsLengthMismatch returns true if the error is a length mismatch error.
// Uses errors.As to handle wrapped errors.
func IsLengthMismatch(err error) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == ErrCodeLengthMismatch
	}
	return false
}

// IsMissingAttribute returns true if the error is a missing attribute error.
// Uses errors.As to handle wrapped errors.
func IsMissingAttribute(err error) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == ErrCodeMissingAttribute
	}
	return false
}

// NewLengthMismatchError creates a RuntimeError for a non-parallel array.
func NewLengthMismatchError(path string, got, want int) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeLengthMismatch,
		Message: fmt.Sprintf("tracked array has %d elements, source has %d", got, want),
		Path:    path,
		Details: map[string]string{
			"len":        fmt.Sprintf("%d", got),
			"source_len": fmt.Sprintf("%d", want),
		},
	}
}

// NewMissingAttributeError creates a RuntimeError for a tracked path that
// does not hold an array.
func NewMissingAttributeError(path string) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeMissingAttribute,
		Message: "tracked path does not hold an array",
		Path:    path,
	}
}
