package ir

import (
	"math"
	"strconv"
)

// CoordKind tags the domain of a Coord.
type CoordKind uint8

const (
	// KindNumber is a float64 coordinate. NaN marks a value that failed to coerce.
	KindNumber CoordKind = iota
	// KindString is a string coordinate, compared bytewise.
	KindString
)

// Coord is a comparable coordinate produced by a Coercer.
//
// Numbers compare numerically, strings compare bytewise. A number and a
// string are never comparable, and NaN is comparable to nothing (not even
// itself), so any predicate over such a pair is false.
type Coord struct {
	Kind CoordKind
	Num  float64
	Str  string
}

// Coercer maps one raw element of a source array to a Coord.
// Implementations must be pure and deterministic.
type Coercer func(raw any) Coord

// Num creates a number coordinate.
func Num(f float64) Coord {
	return Coord{Kind: KindNumber, Num: f}
}

// Str creates a string coordinate.
func Str(s string) Coord {
	return Coord{Kind: KindString, Str: s}
}

// NaN is the coordinate of a value that could not be coerced to a number.
func NaN() Coord {
	return Num(math.NaN())
}

// IsNaN reports whether c is a number coordinate holding NaN.
func (c Coord) IsNaN() bool {
	return c.Kind == KindNumber && math.IsNaN(c.Num)
}

// Compare orders c against o.
// Returns ok=false when the two are not comparable.
func (c Coord) Compare(o Coord) (cmp int, ok bool) {
	if c.Kind != o.Kind {
		return 0, false
	}
	if c.Kind == KindString {
		switch {
		case c.Str < o.Str:
			return -1, true
		case c.Str > o.Str:
			return 1, true
		default:
			return 0, true
		}
	}
	if math.IsNaN(c.Num) || math.IsNaN(o.Num) {
		return 0, false
	}
	switch {
	case c.Num < o.Num:
		return -1, true
	case c.Num > o.Num:
		return 1, true
	default:
		return 0, true
	}
}

// Equal reports whether c and o are comparable and equal.
func (c Coord) Equal(o Coord) bool {
	cmp, ok := c.Compare(o)
	return ok && cmp == 0
}

// Less reports c < o.
func (c Coord) Less(o Coord) bool {
	cmp, ok := c.Compare(o)
	return ok && cmp < 0
}

// LessEq reports c <= o.
func (c Coord) LessEq(o Coord) bool {
	cmp, ok := c.Compare(o)
	return ok && cmp <= 0
}

// String implements fmt.Stringer.
func (c Coord) String() string {
	if c.Kind == KindString {
		return strconv.Quote(c.Str)
	}
	return strconv.FormatFloat(c.Num, 'g', -1, 64)
}
