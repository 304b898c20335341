package coerce

import (
	"fmt"
	"strings"
	"time"

	"github.com/roach88/parafilter/internal/ir"
)

// DefaultDateLayouts are tried in order when a date mapping declares none.
var DefaultDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006-01",
	"2006",
}

// MappingProvider is implemented by records that declare per-path coercion.
type MappingProvider interface {
	Mapping(path string) (ir.MappingSpec, bool)
}

// Category returns a coercer that maps a label to its index in categories.
// Labels are matched after string cast, so 1 and "1" hit the same category.
// Unknown labels are NaN.
func Category(categories []string) ir.Coercer {
	index := make(map[string]float64, len(categories))
	for i, c := range categories {
		key, _ := toString(c)
		if _, dup := index[key]; !dup {
			index[key] = float64(i)
		}
	}
	return func(raw any) ir.Coord {
		label, ok := toString(raw)
		if !ok {
			return ir.NaN()
		}
		if i, ok := index[label]; ok {
			return ir.Num(i)
		}
		return ir.NaN()
	}
}

// Date returns a coercer that parses date strings into milliseconds since
// the Unix epoch (UTC). Numbers are taken to already be milliseconds.
// Empty layouts means DefaultDateLayouts.
func Date(layouts []string) ir.Coercer {
	if len(layouts) == 0 {
		layouts = DefaultDateLayouts
	}
	return func(raw any) ir.Coord {
		s, isStr := raw.(string)
		if !isStr {
			return Numeric(raw)
		}
		s = strings.TrimSpace(s)
		for _, layout := range layouts {
			if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
				return ir.Num(float64(t.UnixMilli()))
			}
		}
		return ir.NaN()
	}
}

// FromSpec builds the coercer declared by a mapping.
func FromSpec(m ir.MappingSpec) (ir.Coercer, error) {
	switch m.Type {
	case ir.MappingLinear, "":
		return Numeric, nil
	case ir.MappingCategory:
		return Category(m.Categories), nil
	case ir.MappingDate:
		return Date(m.Layouts), nil
	case ir.MappingString:
		return String, nil
	case ir.MappingIdentity:
		return Identity, nil
	default:
		return nil, fmt.Errorf("unknown mapping type %q for path %q", m.Type, m.Path)
	}
}

// For resolves the coercer for a source path on rec.
//
// Resolution order:
//  1. the reserved ids path always casts to string
//  2. a mapping declared by rec (if it implements MappingProvider)
//  3. numeric cast
func For(rec any, path string) (ir.Coercer, error) {
	if path == ir.IDsPath {
		return String, nil
	}
	if mp, ok := rec.(MappingProvider); ok {
		if m, found := mp.Mapping(path); found {
			return FromSpec(m)
		}
	}
	return Numeric, nil
}
