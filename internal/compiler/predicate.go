package compiler

import (
	"fmt"

	"github.com/roach88/parafilter/internal/ir"
)

// Predicate reports whether one raw source element is kept.
type Predicate func(raw any) bool

// CompilePredicate builds the predicate for op over value.
//
// The value is coerced once, at compile time, according to the arity of op:
//   - inequality: a list contributes its first element, a scalar itself
//   - interval: a list contributes elements 0 and 1 in the given order
//     (no reordering); a one-element list or a scalar is broadcast to both
//     bounds
//   - set: a list contributes every element, a scalar a singleton
//
// The returned predicate coerces every candidate afresh with coerce and
// compares it against the captured bounds. Unknown operations fail with
// INVALID_OPERATION rather than degrading to a permissive predicate.
func CompilePredicate(op ir.Operation, value any, coerce ir.Coercer) (Predicate, error) {
	if coerce == nil {
		return nil, fmt.Errorf("compile predicate: nil coercer")
	}

	switch op.Arity() {
	case ir.ArityInequality:
		bound, err := coerceScalar(op, value, coerce)
		if err != nil {
			return nil, err
		}
		return inequality(op, bound, coerce), nil

	case ir.ArityInterval:
		lo, hi, err := coercePair(op, value, coerce)
		if err != nil {
			return nil, err
		}
		return interval(op, lo, hi, coerce), nil

	case ir.AritySet:
		members := coerceSet(value, coerce)
		return set(op, members, coerce), nil

	default:
		return nil, invalidOperation(op)
	}
}

func invalidOperation(op ir.Operation) *FilterError {
	return &FilterError{
		Code:      ErrCodeInvalidOperation,
		Message:   "operation is not one of the supported codes",
		Operation: op.String(),
	}
}

func coerceScalar(op ir.Operation, value any, coerce ir.Coercer) (ir.Coord, error) {
	list, isList := asList(value)
	if !isList {
		return coerce(value), nil
	}
	if len(list) == 0 {
		return ir.Coord{}, &FilterError{
			Code:      ErrCodeInvalidValue,
			Message:   "inequality operation needs a value, got an empty list",
			Operation: op.String(),
		}
	}
	return coerce(list[0]), nil
}

func coercePair(op ir.Operation, value any, coerce ir.Coercer) (ir.Coord, ir.Coord, error) {
	list, isList := asList(value)
	if !isList {
		c := coerce(value)
		return c, c, nil
	}
	switch len(list) {
	case 0:
		return ir.Coord{}, ir.Coord{}, &FilterError{
			Code:      ErrCodeInvalidValue,
			Message:   "interval operation needs two bounds, got an empty list",
			Operation: op.String(),
		}
	case 1:
		c := coerce(list[0])
		return c, c, nil
	default:
		return coerce(list[0]), coerce(list[1]), nil
	}
}

func coerceSet(value any, coerce ir.Coercer) []ir.Coord {
	list, isList := asList(value)
	if !isList {
		return []ir.Coord{coerce(value)}
	}
	members := make([]ir.Coord, len(list))
	for i, v := range list {
		members[i] = coerce(v)
	}
	return members
}

// asList recognizes the list shapes a value arrives in from JSON, CUE and
// Go callers.
func asList(value any) ([]any, bool) {
	switch v := value.(type) {
	case []any:
		return v, true
	case []string:
		return toAny(v), true
	case []float64:
		return toAny(v), true
	case []int:
		return toAny(v), true
	case []int64:
		return toAny(v), true
	default:
		return nil, false
	}
}

func toAny[T any](s []T) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}

func inequality(op ir.Operation, b0 ir.Coord, coerce ir.Coercer) Predicate {
	switch op {
	case ir.OpEq:
		return func(raw any) bool { return coerce(raw).Equal(b0) }
	case ir.OpLt:
		return func(raw any) bool { return coerce(raw).Less(b0) }
	case ir.OpLe:
		return func(raw any) bool { return coerce(raw).LessEq(b0) }
	case ir.OpGt:
		return func(raw any) bool { return b0.Less(coerce(raw)) }
	case ir.OpGe:
		return func(raw any) bool { return b0.LessEq(coerce(raw)) }
	}
	panic("unreachable: inequality called with " + op.String())
}

func interval(op ir.Operation, b0, b1 ir.Coord, coerce ir.Coercer) Predicate {
	switch op {
	case ir.OpInsideClosed:
		return func(raw any) bool {
			cv := coerce(raw)
			return b0.LessEq(cv) && cv.LessEq(b1)
		}
	case ir.OpInsideOpen:
		return func(raw any) bool {
			cv := coerce(raw)
			return b0.Less(cv) && cv.Less(b1)
		}
	case ir.OpInsideClosedOpen:
		return func(raw any) bool {
			cv := coerce(raw)
			return b0.LessEq(cv) && cv.Less(b1)
		}
	case ir.OpInsideOpenClosed:
		return func(raw any) bool {
			cv := coerce(raw)
			return b0.Less(cv) && cv.LessEq(b1)
		}
	case ir.OpOutsideClosed:
		return func(raw any) bool {
			cv := coerce(raw)
			return cv.LessEq(b0) || b1.LessEq(cv)
		}
	case ir.OpOutsideOpen:
		return func(raw any) bool {
			cv := coerce(raw)
			return cv.Less(b0) || b1.Less(cv)
		}
	case ir.OpOutsideClosedOpen:
		return func(raw any) bool {
			cv := coerce(raw)
			return cv.LessEq(b0) || b1.Less(cv)
		}
	case ir.OpOutsideOpenClosed:
		return func(raw any) bool {
			cv := coerce(raw)
			return cv.Less(b0) || b1.LessEq(cv)
		}
	}
	panic("unreachable: interval called with " + op.String())
}

func set(op ir.Operation, members []ir.Coord, coerce ir.Coercer) Predicate {
	contains := func(cv ir.Coord) bool {
		for _, m := range members {
			if cv.Equal(m) {
				return true
			}
		}
		return false
	}

	switch op {
	case ir.OpIn:
		return func(raw any) bool { return contains(coerce(raw)) }
	case ir.OpNotIn:
		return func(raw any) bool { return !contains(coerce(raw)) }
	}
	panic("unreachable: set called with " + op.String())
}
