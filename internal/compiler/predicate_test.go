package compiler

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/parafilter/internal/coerce"
	"github.com/roach88/parafilter/internal/ir"
)

// keep runs p over candidates and returns the ones it keeps.
func keep(p Predicate, candidates ...any) []any {
	out := []any{}
	for _, c := range candidates {
		if p(c) {
			out = append(out, c)
		}
	}
	return out
}

func mustCompile(t *testing.T, code string, value any, c ir.Coercer) Predicate {
	t.Helper()
	op, ok := ir.ParseOperation(code)
	require.True(t, ok, "unknown operation %q", code)
	p, err := CompilePredicate(op, value, c)
	require.NoError(t, err)
	return p
}

func TestCompilePredicateOperationTable(t *testing.T) {
	candidates := []any{1, 2, 3, 4, 5, 6}

	tests := []struct {
		code  string
		value any
		want  []any
	}{
		{"=", 3, []any{3}},
		{"<", 3, []any{1, 2}},
		{"<=", 3, []any{1, 2, 3}},
		{">", 3, []any{4, 5, 6}},
		{">=", 3, []any{3, 4, 5, 6}},
		{"[]", []any{2, 5}, []any{2, 3, 4, 5}},
		{"()", []any{2, 5}, []any{3, 4}},
		{"[)", []any{2, 5}, []any{2, 3, 4}},
		{"(]", []any{2, 5}, []any{3, 4, 5}},
		{"][", []any{2, 5}, []any{1, 2, 5, 6}},
		{")(", []any{2, 5}, []any{1, 6}},
		{"](", []any{2, 5}, []any{1, 2, 6}},
		{")[", []any{2, 5}, []any{1, 5, 6}},
		{"{}", []any{1, 4, 6}, []any{1, 4, 6}},
		{"}{", []any{1, 4, 6}, []any{2, 3, 5}},
	}

	require.Len(t, tests, len(ir.Operations), "every operation has a row")

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			p := mustCompile(t, tt.code, tt.value, coerce.Numeric)
			assert.Equal(t, tt.want, keep(p, candidates...))
		})
	}
}

func TestCompilePredicateBoundaryInclusion(t *testing.T) {
	bounds := []any{2, 5}

	tests := []struct {
		code      string
		keepsLow  bool
		keepsHigh bool
	}{
		{"[]", true, true},
		{"()", false, false},
		{"[)", true, false},
		{"(]", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			p := mustCompile(t, tt.code, bounds, coerce.Numeric)
			assert.Equal(t, tt.keepsLow, p(2), "lower bound")
			assert.Equal(t, tt.keepsHigh, p(5), "upper bound")
		})
	}
}

func TestCompilePredicateMirroredIntervals(t *testing.T) {
	bounds := []any{2, 5}
	candidates := []any{0, 1, 2, 2.5, 3, 4, 4.5, 5, 6, 7}

	pairs := map[string]string{
		"][": "()",
		")(": "[]",
		"](": "(]",
		")[": "[)",
	}

	for outside, inside := range pairs {
		t.Run(outside, func(t *testing.T) {
			out := mustCompile(t, outside, bounds, coerce.Numeric)
			in := mustCompile(t, inside, bounds, coerce.Numeric)
			for _, c := range candidates {
				assert.NotEqual(t, in(c), out(c), "%s and %s must partition %v", outside, inside, c)
			}
		})
	}

	// ][ keeps exactly what () excludes, boundary points included.
	p := mustCompile(t, "][", bounds, coerce.Numeric)
	assert.Equal(t, []any{0, 1, 2, 5, 6, 7}, keep(p, candidates...))
}

func TestCompilePredicateBoundsNotReordered(t *testing.T) {
	p := mustCompile(t, "[]", []any{5, 2}, coerce.Numeric)
	assert.Empty(t, keep(p, 1, 2, 3, 4, 5, 6), "reversed bounds select nothing")

	p = mustCompile(t, "][", []any{5, 2}, coerce.Numeric)
	assert.Equal(t, []any{1, 2, 3, 4, 5, 6}, keep(p, 1, 2, 3, 4, 5, 6))
}

func TestCompilePredicateBroadcast(t *testing.T) {
	t.Run("scalar interval is a point", func(t *testing.T) {
		p := mustCompile(t, "[]", 3, coerce.Numeric)
		assert.Equal(t, []any{3}, keep(p, 1, 2, 3, 4))

		p = mustCompile(t, "()", 3, coerce.Numeric)
		assert.Empty(t, keep(p, 1, 2, 3, 4))
	})

	t.Run("single element interval is a point", func(t *testing.T) {
		p := mustCompile(t, "[]", []any{3}, coerce.Numeric)
		assert.Equal(t, []any{3}, keep(p, 1, 2, 3, 4))
	})

	t.Run("scalar set is a singleton", func(t *testing.T) {
		p := mustCompile(t, "{}", "b", coerce.Identity)
		assert.Equal(t, []any{"b"}, keep(p, "a", "b", "c"))

		p = mustCompile(t, "}{", "b", coerce.Identity)
		assert.Equal(t, []any{"a", "c"}, keep(p, "a", "b", "c"))
	})

	t.Run("inequality takes the first list element", func(t *testing.T) {
		p := mustCompile(t, ">", []any{3, 100}, coerce.Numeric)
		assert.Equal(t, []any{4, 5}, keep(p, 1, 2, 3, 4, 5))
	})

	t.Run("interval uses the first two of many", func(t *testing.T) {
		p := mustCompile(t, "[]", []any{1, 2, 5}, coerce.Numeric)
		assert.Equal(t, []any{1, 2}, keep(p, 1, 2, 3, 4, 5))
	})
}

func TestCompilePredicateSetMembership(t *testing.T) {
	p := mustCompile(t, "{}", []any{"a", "b", "c"}, coerce.Identity)
	assert.Equal(t, []any{"a", "c", "b"}, keep(p, "a", "d", "c", "e", "b"))

	p = mustCompile(t, "}{", []any{"a", "b", "c"}, coerce.Identity)
	assert.Equal(t, []any{"d", "e"}, keep(p, "a", "d", "c", "e", "b"))
}

func TestCompilePredicateEmptySet(t *testing.T) {
	p := mustCompile(t, "{}", []any{}, coerce.Numeric)
	assert.Empty(t, keep(p, 1, 2, 3))

	p = mustCompile(t, "}{", []any{}, coerce.Numeric)
	assert.Equal(t, []any{1, 2, 3}, keep(p, 1, 2, 3))
}

func TestCompilePredicateCoercesBothSides(t *testing.T) {
	// Bounds and candidates arrive in mixed shapes from JSON, CUE and Go.
	p := mustCompile(t, "[)", []any{json.Number("2"), "4"}, coerce.Numeric)
	assert.Equal(t, []any{"2", 3.0, json.Number("3.5")}, keep(p, "2", 3.0, json.Number("3.5"), 4, "x"))

	p = mustCompile(t, "=", 7, coerce.String)
	assert.True(t, p("7"))
	assert.True(t, p(7.0))
}

func TestCompilePredicateTypedLists(t *testing.T) {
	p := mustCompile(t, "{}", []string{"x", "z"}, coerce.Identity)
	assert.Equal(t, []any{"x", "z"}, keep(p, "x", "y", "z"))

	p = mustCompile(t, "[]", []float64{1.5, 2.5}, coerce.Numeric)
	assert.Equal(t, []any{2}, keep(p, 1, 2, 3))

	p = mustCompile(t, "()", []int{1, 3}, coerce.Numeric)
	assert.Equal(t, []any{2}, keep(p, 1, 2, 3))
}

func TestCompilePredicateNaN(t *testing.T) {
	// Unparseable candidates never satisfy an ordered or equality test.
	for _, code := range []string{"=", "<", "<=", ">", ">=", "[]", "][", "{}"} {
		p := mustCompile(t, code, []any{0, 10}, coerce.Numeric)
		assert.False(t, p("abc"), "%s kept NaN", code)
		assert.False(t, p(nil), "%s kept nil", code)
	}

	// Non-membership keeps them, since NaN is never a member.
	p := mustCompile(t, "}{", []any{1, math.NaN()}, coerce.Numeric)
	assert.True(t, p("abc"))
	assert.False(t, p(1))
}

func TestCompilePredicateMixedKinds(t *testing.T) {
	p := mustCompile(t, "<", "m", coerce.Identity)
	assert.Equal(t, []any{"a", "b"}, keep(p, "a", "b", "x", 1, 2))
}

func TestCompilePredicateInvalidOperation(t *testing.T) {
	for _, op := range []ir.Operation{ir.OpInvalid, ir.Operation(99)} {
		p, err := CompilePredicate(op, 1, coerce.Numeric)
		require.Error(t, err)
		assert.Nil(t, p)
		assert.True(t, IsInvalidOperation(err))
		assert.False(t, IsInvalidValue(err))
	}
}

func TestCompilePredicateInvalidValue(t *testing.T) {
	for _, code := range []string{"=", ">=", "[]", ")("} {
		op, _ := ir.ParseOperation(code)
		p, err := CompilePredicate(op, []any{}, coerce.Numeric)
		require.Error(t, err, code)
		assert.Nil(t, p)
		assert.True(t, IsInvalidValue(err), code)

		var fe *FilterError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, ErrCodeInvalidValue, fe.Code)
	}
}

func TestCompilePredicateNilCoercer(t *testing.T) {
	_, err := CompilePredicate(ir.OpEq, 1, nil)
	require.Error(t, err)
}
