package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultRunID is the run id used when a scenario does not set one.
const DefaultRunID = "test-run-default"

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario (and its golden file).
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Record is the data being filtered, as a JSON-compatible map.
	Record map[string]any `yaml:"record"`

	// Mappings declare per-path coercion, same keys as the CUE config.
	Mappings []map[string]any `yaml:"mappings,omitempty"`

	// Tracked lists the arrays kept parallel to the source. Empty means
	// every flat array in the record.
	Tracked []string `yaml:"tracked,omitempty"`

	// Filters are applied in order, same keys as the CUE config.
	// Omitted keys take the schema defaults.
	Filters []map[string]any `yaml:"filters"`

	// Expect maps dotted paths to the arrays they hold after filtering.
	Expect map[string][]any `yaml:"expect,omitempty"`

	// ExpectError is a substring of the error the filters must produce.
	ExpectError string `yaml:"expect_error,omitempty"`

	// RunID is an optional fixed run id for golden output.
	RunID string `yaml:"run_id,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML with strict field validation.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // catches typos like "filter:" vs "filters:"
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	if scenario.RunID == "" {
		scenario.RunID = DefaultRunID
	}

	return &scenario, nil
}

// LoadScenarios loads every *.yaml and *.yml file in dir, sorted by file name.
func LoadScenarios(dir string) ([]*Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext == ".yaml" || ext == ".yml" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	scenarios := make([]*Scenario, 0, len(names))
	for _, name := range names {
		s, err := LoadScenario(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Record == nil {
		return fmt.Errorf("record is required")
	}

	if len(s.Filters) == 0 {
		return fmt.Errorf("filters list is required and must be non-empty")
	}

	if len(s.Expect) == 0 && s.ExpectError == "" {
		return fmt.Errorf("one of expect or expect_error is required")
	}

	if len(s.Expect) > 0 && s.ExpectError != "" {
		return fmt.Errorf("expect and expect_error are mutually exclusive")
	}

	for path := range s.Expect {
		if strings.TrimSpace(path) == "" {
			return fmt.Errorf("expect: path must be non-empty")
		}
	}

	return nil
}
