// Package coerce turns raw array elements into comparable coordinates.
//
// Every function here returns an ir.Coercer: a pure, deterministic mapping
// from one raw element (as decoded from JSON or CUE) to an ir.Coord. Values
// that cannot be represented in the target domain coerce to NaN, which no
// predicate ever keeps.
//
// For resolves the coercer for a source path the same way the engine does:
// the reserved "ids" path is always a string cast, a mapping declared by the
// record wins next, and a numeric cast is the fallback.
package coerce
