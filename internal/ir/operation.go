package ir

import "fmt"

// Operation is the closed set of filter operation codes.
//
// The zero value is OpInvalid so an unset Operation never passes as "=".
// Use ParseOperation to convert a config code; use Code to go back.
type Operation int

const (
	// OpInvalid is the zero value; it is never produced by ParseOperation.
	OpInvalid Operation = iota

	// Inequality operations: one bound.
	OpEq // =
	OpLt // <
	OpLe // <=
	OpGt // >
	OpGe // >=

	// Interval operations: lower and upper bound, keep inside.
	OpInsideClosed     // []
	OpInsideOpen       // ()
	OpInsideClosedOpen // [)
	OpInsideOpenClosed // (]

	// Interval operations: lower and upper bound, keep outside.
	OpOutsideClosed     // ][
	OpOutsideOpen       // )(
	OpOutsideClosedOpen // ](
	OpOutsideOpenClosed // )[

	// Set operations: any number of members.
	OpIn    // {}
	OpNotIn // }{
)

// Arity classifies how an operation interprets its value.
type Arity int

const (
	// ArityNone is returned for OpInvalid.
	ArityNone Arity = iota
	// ArityInequality takes one coerced bound.
	ArityInequality
	// ArityInterval takes an ordered pair of coerced bounds.
	ArityInterval
	// AritySet takes a list of coerced members.
	AritySet
)

func (a Arity) String() string {
	switch a {
	case ArityInequality:
		return "inequality"
	case ArityInterval:
		return "interval"
	case AritySet:
		return "set"
	default:
		return "none"
	}
}

var opCodes = map[Operation]string{
	OpEq:                "=",
	OpLt:                "<",
	OpLe:                "<=",
	OpGt:                ">",
	OpGe:                ">=",
	OpInsideClosed:      "[]",
	OpInsideOpen:        "()",
	OpInsideClosedOpen:  "[)",
	OpInsideOpenClosed:  "(]",
	OpOutsideClosed:     "][",
	OpOutsideOpen:       ")(",
	OpOutsideClosedOpen: "](",
	OpOutsideOpenClosed: ")[",
	OpIn:                "{}",
	OpNotIn:             "}{",
}

var opByCode = func() map[string]Operation {
	m := make(map[string]Operation, len(opCodes))
	for op, code := range opCodes {
		m[code] = op
	}
	return m
}()

// Operations lists every valid operation in declaration order.
var Operations = []Operation{
	OpEq, OpLt, OpLe, OpGt, OpGe,
	OpInsideClosed, OpInsideOpen, OpInsideClosedOpen, OpInsideOpenClosed,
	OpOutsideClosed, OpOutsideOpen, OpOutsideClosedOpen, OpOutsideOpenClosed,
	OpIn, OpNotIn,
}

// OperationCodes returns the config codes of Operations, in order.
func OperationCodes() []string {
	codes := make([]string, len(Operations))
	for i, op := range Operations {
		codes[i] = op.Code()
	}
	return codes
}

// ParseOperation converts a config code such as "[)" to an Operation.
// Returns false for any code outside the closed set.
func ParseOperation(code string) (Operation, bool) {
	op, ok := opByCode[code]
	return op, ok
}

// Code returns the config code of the operation, or "" for OpInvalid.
func (op Operation) Code() string {
	return opCodes[op]
}

// String implements fmt.Stringer.
func (op Operation) String() string {
	if code, ok := opCodes[op]; ok {
		return code
	}
	return "invalid"
}

// Valid reports whether op is one of the closed set.
func (op Operation) Valid() bool {
	_, ok := opCodes[op]
	return ok
}

// Arity returns the arity class of the operation.
func (op Operation) Arity() Arity {
	switch op {
	case OpEq, OpLt, OpLe, OpGt, OpGe:
		return ArityInequality
	case OpInsideClosed, OpInsideOpen, OpInsideClosedOpen, OpInsideOpenClosed,
		OpOutsideClosed, OpOutsideOpen, OpOutsideClosedOpen, OpOutsideOpenClosed:
		return ArityInterval
	case OpIn, OpNotIn:
		return AritySet
	default:
		return ArityNone
	}
}

// MarshalText encodes the operation as its config code.
func (op Operation) MarshalText() ([]byte, error) {
	return []byte(op.String()), nil
}

// UnmarshalText decodes a config code. Unknown codes are an error.
func (op *Operation) UnmarshalText(text []byte) error {
	parsed, ok := ParseOperation(string(text))
	if !ok {
		return fmt.Errorf("unknown operation %q", text)
	}
	*op = parsed
	return nil
}
