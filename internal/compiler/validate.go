package compiler

import (
	"fmt"
	"strings"

	"github.com/roach88/parafilter/internal/coerce"
	"github.com/roach88/parafilter/internal/ir"
)

// Validation error codes (E100-E199)
const (
	// General validation errors (E100)
	ErrUnsupportedIRType = "E100" // unsupported IR type for validation

	// FilterSpec errors (E101-E109)
	ErrBlankSourcePath   = "E101" // filtersrc is required
	ErrUnknownOperation  = "E102" // operation outside the closed set
	ErrEmptyBoundList    = "E103" // inequality/interval value is an empty list
	ErrExtraBounds       = "E104" // interval value has more than two bounds
	ErrUnusableSetMember = "E105" // set member is a list or object
	ErrBlankTrackedPath  = "E106" // tracked entry is blank

	// MappingSpec errors (E110-E119)
	ErrBlankMappingPath    = "E110" // mapping path is required
	ErrUnknownMappingType  = "E111" // mapping type outside the known set
	ErrMissingCategories   = "E112" // category mapping without categories
	ErrDuplicateMapping    = "E113" // path mapped more than once
	ErrUnusedMappingOption = "E114" // categories/layouts on the wrong type
)

// ValidationError represents a schema validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks compiled config values for problems the schema cannot
// express. Returns all errors found (does not fail-fast).
// Supports Config, FilterSpec and MappingSpec values.
//
// Some findings are warnings rather than hard failures: an interval with
// more than two bounds still compiles (extra bounds are ignored), but it
// almost always means the author meant a set operation.
func Validate(v any) []ValidationError {
	switch spec := v.(type) {
	case *ir.Config:
		return validateConfig(spec)
	case ir.Config:
		return validateConfig(&spec)
	case *ir.FilterSpec:
		return validateFilter(spec, "")
	case ir.FilterSpec:
		return validateFilter(&spec, "")
	case *ir.MappingSpec:
		return validateMapping(spec, "")
	case ir.MappingSpec:
		return validateMapping(&spec, "")
	default:
		return []ValidationError{{
			Field:   "type",
			Message: fmt.Sprintf("unsupported IR type: %T", v),
			Code:    ErrUnsupportedIRType,
		}}
	}
}

func validateConfig(cfg *ir.Config) []ValidationError {
	var errs []ValidationError

	for i := range cfg.Filters {
		errs = append(errs, validateFilter(&cfg.Filters[i], fmt.Sprintf("filters[%d].", i))...)
	}

	for i, path := range cfg.Tracked {
		if strings.TrimSpace(path) == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("tracked[%d]", i),
				Message: "tracked paths must be non-empty",
				Code:    ErrBlankTrackedPath,
			})
		}
	}

	seen := make(map[string]int)
	for i := range cfg.Mappings {
		prefix := fmt.Sprintf("mappings[%d].", i)
		errs = append(errs, validateMapping(&cfg.Mappings[i], prefix)...)

		path := cfg.Mappings[i].Path
		if first, dup := seen[path]; dup {
			errs = append(errs, ValidationError{
				Field:   prefix + "path",
				Message: fmt.Sprintf("path %q already mapped by mappings[%d]; the last mapping wins", path, first),
				Code:    ErrDuplicateMapping,
			})
			continue
		}
		seen[path] = i
	}

	return errs
}

func validateFilter(spec *ir.FilterSpec, prefix string) []ValidationError {
	var errs []ValidationError

	if strings.TrimSpace(spec.SourcePath) == "" {
		errs = append(errs, ValidationError{
			Field:   prefix + "filtersrc",
			Message: "filtersrc is required and must be non-empty",
			Code:    ErrBlankSourcePath,
		})
	}

	if !spec.Operation.Valid() {
		errs = append(errs, ValidationError{
			Field:   prefix + "operation",
			Message: fmt.Sprintf("unknown operation %s", spec.Operation),
			Code:    ErrUnknownOperation,
		})
		return errs
	}

	list, isList := asList(spec.Value)
	switch spec.Operation.Arity() {
	case ir.ArityInequality, ir.ArityInterval:
		if isList && len(list) == 0 {
			errs = append(errs, ValidationError{
				Field:   prefix + "value",
				Message: fmt.Sprintf("operation %s needs at least one bound", spec.Operation.Code()),
				Code:    ErrEmptyBoundList,
			})
		}
		if spec.Operation.Arity() == ir.ArityInterval && len(list) > 2 {
			errs = append(errs, ValidationError{
				Field:   prefix + "value",
				Message: fmt.Sprintf("operation %s uses two bounds, got %d", spec.Operation.Code(), len(list)),
				Code:    ErrExtraBounds,
			})
		}
	case ir.AritySet:
		for i, m := range list {
			if !isScalar(m) {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("%svalue[%d]", prefix, i),
					Message: fmt.Sprintf("set members must be scalars, got %T", m),
					Code:    ErrUnusableSetMember,
				})
			}
		}
	}

	return errs
}

func validateMapping(m *ir.MappingSpec, prefix string) []ValidationError {
	var errs []ValidationError

	if strings.TrimSpace(m.Path) == "" {
		errs = append(errs, ValidationError{
			Field:   prefix + "path",
			Message: "mapping path is required and must be non-empty",
			Code:    ErrBlankMappingPath,
		})
	}

	if _, err := coerce.FromSpec(*m); err != nil {
		errs = append(errs, ValidationError{
			Field:   prefix + "type",
			Message: err.Error(),
			Code:    ErrUnknownMappingType,
		})
		return errs
	}

	if m.Type == ir.MappingCategory && len(m.Categories) == 0 {
		errs = append(errs, ValidationError{
			Field:   prefix + "categories",
			Message: "category mapping needs at least one category",
			Code:    ErrMissingCategories,
		})
	}
	if m.Type != ir.MappingCategory && len(m.Categories) > 0 {
		errs = append(errs, ValidationError{
			Field:   prefix + "categories",
			Message: fmt.Sprintf("categories are ignored by %q mappings", m.Type),
			Code:    ErrUnusedMappingOption,
		})
	}
	if m.Type != ir.MappingDate && len(m.Layouts) > 0 {
		errs = append(errs, ValidationError{
			Field:   prefix + "layouts",
			Message: fmt.Sprintf("layouts are ignored by %q mappings", m.Type),
			Code:    ErrUnusedMappingOption,
		})
	}

	return errs
}

func isScalar(v any) bool {
	switch v.(type) {
	case []any, map[string]any:
		return false
	default:
		return true
	}
}
