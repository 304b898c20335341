package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// DecodeJSON reads a JSON object into a Map. Numbers are kept as
// json.Number so integers and decimals round-trip unchanged.
func DecodeJSON(r io.Reader, opts ...Option) (*Map, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("decode record: trailing data after object")
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("decode record: top level must be an object, got %T", v)
	}
	return NewMap(obj, opts...), nil
}

// DecodeJSONBytes is DecodeJSON over a byte slice.
func DecodeJSONBytes(data []byte, opts ...Option) (*Map, error) {
	return DecodeJSON(bytes.NewReader(data), opts...)
}

// ReadFile decodes the JSON record stored at path.
func ReadFile(path string, opts ...Option) (*Map, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open record: %w", err)
	}
	defer f.Close()
	return DecodeJSON(f, opts...)
}
