package store

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/roach88/parafilter/internal/ir"
)

// marshalSpec converts a filter spec to canonical JSON TEXT for storage.
// The keys match the config surface (filtersrc, preservegaps).
func marshalSpec(spec ir.FilterSpec) (string, error) {
	data, err := ir.MarshalCanonical(map[string]any{
		"enabled":      spec.Enabled,
		"filtersrc":    spec.SourcePath,
		"operation":    spec.Operation,
		"value":        spec.Value,
		"preservegaps": spec.PreserveGaps,
	})
	if err != nil {
		return "", fmt.Errorf("marshal spec: %w", err)
	}
	return string(data), nil
}

// storedSpec mirrors the stored JSON layout.
type storedSpec struct {
	Enabled      bool   `json:"enabled"`
	SourcePath   string `json:"filtersrc"`
	Operation    string `json:"operation"`
	Value        any    `json:"value"`
	PreserveGaps bool   `json:"preservegaps"`
}

// unmarshalSpec parses stored JSON TEXT back into a filter spec.
// Numbers in value decode as json.Number to avoid float64 precision loss.
func unmarshalSpec(data string) (ir.FilterSpec, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(data)))
	dec.UseNumber()

	var s storedSpec
	if err := dec.Decode(&s); err != nil {
		return ir.FilterSpec{}, fmt.Errorf("unmarshal spec: %w", err)
	}

	op, ok := ir.ParseOperation(s.Operation)
	if !ok {
		return ir.FilterSpec{}, fmt.Errorf("unmarshal spec: unknown operation %q", s.Operation)
	}

	return ir.FilterSpec{
		Enabled:      s.Enabled,
		SourcePath:   s.SourcePath,
		Operation:    op,
		Value:        s.Value,
		PreserveGaps: s.PreserveGaps,
	}, nil
}
