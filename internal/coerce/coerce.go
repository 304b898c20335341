package coerce

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/parafilter/internal/ir"
)

// Numeric casts raw to a number coordinate.
//
// Numbers pass through, numeric strings are parsed after trimming
// whitespace, booleans become 0 or 1. Everything else, including blank
// strings and nil, is NaN.
func Numeric(raw any) ir.Coord {
	f, ok := toFloat64(raw)
	if !ok {
		return ir.NaN()
	}
	return ir.Num(f)
}

// String casts raw to an NFC-normalized string coordinate.
// Numbers use their shortest decimal form so 2, 2.0 and "2" agree.
// nil, lists and objects have no string form and are NaN.
func String(raw any) ir.Coord {
	s, ok := toString(raw)
	if !ok {
		return ir.NaN()
	}
	return ir.Str(s)
}

// Identity keeps numbers as numbers and strings as strings.
// Booleans become numbers; nil and other types are NaN.
func Identity(raw any) ir.Coord {
	switch v := raw.(type) {
	case string:
		return ir.Str(norm.NFC.String(v))
	case nil:
		return ir.NaN()
	}
	if f, ok := toFloat64(raw); ok {
		return ir.Num(f)
	}
	return ir.NaN()
}

// toFloat64 converts the numeric shapes produced by encoding/json, CUE
// decoding and Go literals.
func toFloat64(raw any) (float64, bool) {
	switch n := raw.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return math.NaN(), false
		}
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	default:
		return math.NaN(), false
	}
}

func toString(raw any) (string, bool) {
	switch v := raw.(type) {
	case nil:
		return "", false
	case string:
		return norm.NFC.String(v), true
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return formatNumber(f), true
		}
		return v.String(), true
	case bool:
		return strconv.FormatBool(v), true
	}
	if f, ok := toFloat64(raw); ok {
		return formatNumber(f), true
	}
	return "", false
}

// formatNumber writes integral values without an exponent, matching how
// they appear in JSON input.
func formatNumber(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
