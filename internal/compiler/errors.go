package compiler

import (
	"errors"
	"fmt"

	"cuelang.org/go/cue/token"
)

// FilterErrorCode categorizes predicate compilation errors.
type FilterErrorCode string

const (
	// ErrCodeInvalidOperation indicates an operation outside the closed set.
	ErrCodeInvalidOperation FilterErrorCode = "INVALID_OPERATION"

	// ErrCodeInvalidValue indicates a value shape the broadcast rules cannot
	// resolve, such as an empty list for an inequality or interval operation.
	ErrCodeInvalidValue FilterErrorCode = "INVALID_VALUE"
)

// FilterError is returned when a predicate cannot be compiled.
// A compile failure is a configuration defect; no predicate is returned.
type FilterError struct {
	// Code identifies the error category.
	Code FilterErrorCode

	// Message is a human-readable description.
	Message string

	// Operation is the offending operation code, if known.
	Operation string
}

// Error implements the error interface.
func (e *FilterError) Error() string {
	if e.Operation != "" {
		return fmt.Sprintf("%s: %s (operation=%q)", e.Code, e.Message, e.Operation)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsInvalidOperation returns true if err is an INVALID_OPERATION error.
// Uses errors.As to handle wrapped errors.
func IsInvalidOperation(err error) bool {
	var fe *FilterError
	if errors.As(err, &fe) {
		return fe.Code == ErrCodeInvalidOperation
	}
	return false
}

// IsInvalidValue returns true if err is an INVALID_VALUE error.
// Uses errors.As to handle wrapped errors.
func IsInvalidValue(err error) bool {
	var fe *FilterError
	if errors.As(err, &fe) {
		return fe.Code == ErrCodeInvalidValue
	}
	return false
}

// CompileError represents a config compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
	Err     error // underlying FilterError, if any
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}
