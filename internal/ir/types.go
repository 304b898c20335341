package ir

// Config defaults applied by the schema layer when a field is omitted.
const (
	DefaultSourcePath = "x"
	DefaultOperation  = OpEq
)

// IDsPath is the reserved attribute path that always coerces by string cast,
// regardless of any mapping declared for it.
const IDsPath = "ids"

// FilterSpec is one well-formed filter application.
//
// Built once by the config layer (compiler.CompileFilter) and never mutated.
// Value holds a scalar, a []any pair, or a []any list depending on the
// operation's arity; shape mismatches are resolved by the broadcast rules of
// the predicate compiler.
type FilterSpec struct {
	Enabled      bool      `json:"enabled"`
	SourcePath   string    `json:"filtersrc"`
	Operation    Operation `json:"operation"`
	Value        any       `json:"value"`
	PreserveGaps bool      `json:"preservegaps"`
}

// MappingType selects how raw values of one attribute are coerced.
type MappingType string

const (
	// MappingLinear casts values to numbers (the default).
	MappingLinear MappingType = "linear"
	// MappingCategory maps labels to their index in Categories.
	MappingCategory MappingType = "category"
	// MappingDate parses date strings to milliseconds since the epoch.
	MappingDate MappingType = "date"
	// MappingString casts values to NFC-normalized strings.
	MappingString MappingType = "string"
	// MappingIdentity keeps numbers as numbers and strings as strings.
	MappingIdentity MappingType = "identity"
)

// MappingTypes lists every valid mapping type.
var MappingTypes = []MappingType{
	MappingLinear, MappingCategory, MappingDate, MappingString, MappingIdentity,
}

// MappingSpec declares the coercion used for one attribute path.
type MappingSpec struct {
	Path       string      `json:"path"`
	Type       MappingType `json:"type"`
	Categories []string    `json:"categories,omitempty"`
	Layouts    []string    `json:"layouts,omitempty"` // Go time layouts, date mappings only
}

// Config is a compiled filter configuration: the filters to apply in
// declaration order plus the coercion mappings they may rely on.
//
// Tracked names the arrays kept parallel to each filter's source. When it
// is empty every flat array in the record is tracked.
type Config struct {
	Filters  []FilterSpec  `json:"filters"`
	Mappings []MappingSpec `json:"mappings,omitempty"`
	Tracked  []string      `json:"tracked,omitempty"`
}

// Mapping returns the mapping declared for path.
// When a path is declared twice the last declaration wins.
func (c Config) Mapping(path string) (MappingSpec, bool) {
	for i := len(c.Mappings) - 1; i >= 0; i-- {
		if c.Mappings[i].Path == path {
			return c.Mappings[i], true
		}
	}
	return MappingSpec{}, false
}
