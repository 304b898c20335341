package compiler

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"

	"github.com/roach88/parafilter/internal/ir"
)

//go:embed schema.cue
var schemaSource string

// definition compiles the embedded schema in ctx and returns one of its
// definitions (#Filter, #Mapping).
func definition(ctx *cue.Context, name string) (cue.Value, error) {
	s := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := s.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("embedded schema: %w", err)
	}
	return s.LookupPath(cue.ParsePath(name)), nil
}

// CompileConfig parses a CUE value holding `filters`, `mappings` and
// `tracked` lists. All are optional; filters keep their declaration order.
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`filters: [{operation: "[)", value: [2, 4]}]`)
//	cfg, err := CompileConfig(v)
func CompileConfig(v cue.Value) (*ir.Config, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	cfg := &ir.Config{}

	filtersVal := v.LookupPath(cue.ParsePath("filters"))
	if filtersVal.Exists() {
		iter, err := filtersVal.List()
		if err != nil {
			return nil, formatCUEError(err)
		}
		for i := 0; iter.Next(); i++ {
			spec, err := CompileFilter(iter.Value())
			if err != nil {
				return nil, prefixField(err, fmt.Sprintf("filters[%d]", i))
			}
			cfg.Filters = append(cfg.Filters, *spec)
		}
	}

	mappingsVal := v.LookupPath(cue.ParsePath("mappings"))
	if mappingsVal.Exists() {
		iter, err := mappingsVal.List()
		if err != nil {
			return nil, formatCUEError(err)
		}
		for i := 0; iter.Next(); i++ {
			m, err := CompileMapping(iter.Value())
			if err != nil {
				return nil, prefixField(err, fmt.Sprintf("mappings[%d]", i))
			}
			cfg.Mappings = append(cfg.Mappings, *m)
		}
	}

	tracked, err := stringList(v, "tracked")
	if err != nil {
		return nil, prefixField(err, "tracked")
	}
	cfg.Tracked = tracked

	return cfg, nil
}

// CompileConfigJSON compiles a JSON document with the same layout as a CUE
// config. JSON is valid CUE, so defaults come from the same schema.
func CompileConfigJSON(data []byte) (*ir.Config, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename("config.json"))
	return CompileConfig(v)
}

// CompileFilter unifies one filter struct with the #Filter schema and
// converts it to an ir.FilterSpec with every default filled in.
func CompileFilter(v cue.Value) (*ir.FilterSpec, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	def, err := definition(v.Context(), "#Filter")
	if err != nil {
		return nil, err
	}
	u := def.Unify(v)
	if err := u.Validate(); err != nil {
		return nil, formatCUEError(err)
	}

	spec := &ir.FilterSpec{}

	if spec.Enabled, err = field(u, "enabled").Bool(); err != nil {
		return nil, formatCUEError(err)
	}
	if spec.SourcePath, err = field(u, "filtersrc").String(); err != nil {
		return nil, formatCUEError(err)
	}
	if spec.PreserveGaps, err = field(u, "preservegaps").Bool(); err != nil {
		return nil, formatCUEError(err)
	}

	opVal := field(u, "operation")
	code, err := opVal.String()
	if err != nil {
		return nil, formatCUEError(err)
	}
	op, ok := ir.ParseOperation(code)
	if !ok {
		return nil, &CompileError{
			Field:   "operation",
			Message: fmt.Sprintf("unknown operation %q (want one of %s)", code, strings.Join(ir.OperationCodes(), " ")),
			Pos:     opVal.Pos(),
			Err:     invalidOperationCode(code),
		}
	}
	spec.Operation = op

	valueVal := field(u, "value")
	spec.Value, err = decodeValue(valueVal)
	if err != nil {
		return nil, &CompileError{
			Field:   "value",
			Message: err.Error(),
			Pos:     valueVal.Pos(),
		}
	}

	return spec, nil
}

// CompileMapping unifies one mapping struct with the #Mapping schema.
func CompileMapping(v cue.Value) (*ir.MappingSpec, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	def, err := definition(v.Context(), "#Mapping")
	if err != nil {
		return nil, err
	}
	u := def.Unify(v)
	if err := u.Validate(); err != nil {
		return nil, formatCUEError(err)
	}

	m := &ir.MappingSpec{}
	if m.Path, err = field(u, "path").String(); err != nil {
		return nil, formatCUEError(err)
	}
	typ, err := field(u, "type").String()
	if err != nil {
		return nil, formatCUEError(err)
	}
	m.Type = ir.MappingType(typ)

	if m.Categories, err = stringList(u, "categories"); err != nil {
		return nil, err
	}
	if m.Layouts, err = stringList(u, "layouts"); err != nil {
		return nil, err
	}

	return m, nil
}

func invalidOperationCode(code string) *FilterError {
	return &FilterError{
		Code:      ErrCodeInvalidOperation,
		Message:   "operation is not one of the supported codes",
		Operation: code,
	}
}

// field looks up name and resolves it to its default when it has one.
func field(v cue.Value, name string) cue.Value {
	f := v.LookupPath(cue.ParsePath(name))
	if d, ok := f.Default(); ok {
		return d
	}
	return f
}

// stringList decodes an optional list of strings.
func stringList(v cue.Value, name string) ([]string, error) {
	f := v.LookupPath(cue.ParsePath(name))
	if !f.Exists() {
		return nil, nil
	}
	iter, err := f.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var out []string
	for iter.Next() {
		s, err := iter.Value().String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		out = append(out, s)
	}
	return out, nil
}

// decodeValue converts a concrete CUE value to the Go shapes the predicate
// compiler accepts. Numbers decode as json.Number so integer and decimal
// spellings survive untouched.
func decodeValue(v cue.Value) (any, error) {
	raw, err := v.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("value must be concrete: %v", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode value: %w", err)
	}
	return out, nil
}

// prefixField qualifies the Field of a CompileError with its position in
// the config (e.g. "filters[2].operation").
func prefixField(err error, prefix string) error {
	if ce, ok := err.(*CompileError); ok {
		ce.Field = prefix + "." + ce.Field
		return ce
	}
	return fmt.Errorf("%s: %w", prefix, err)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
