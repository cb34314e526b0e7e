package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
)

// =============================================================================
// Input
// =============================================================================

var (
	errNotAnObject  = errors.New("request body must be a JSON object")
	errTrailingData = errors.New("request body has data after the JSON object")
)

// Input is a candidate record as decoded from a request body: field name to
// raw value. Numbers are expected as json.Number (decoder.UseNumber), though
// plain Go numeric types are accepted too.
type Input map[string]any

// Lookup returns the raw value of field. A key holding JSON null is absent.
func (in Input) Lookup(field string) (any, bool) {
	v, ok := in[field]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// Has reports whether field was supplied with a non-null value.
func (in Input) Has(field string) bool {
	_, ok := in.Lookup(field)
	return ok
}

// String returns field as a string. ok is false when absent or not a string.
func (in Input) String(field string) (string, bool) {
	v, present := in.Lookup(field)
	if !present {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Number returns field as a float64. ok is false when absent or not numeric.
func (in Input) Number(field string) (float64, bool) {
	v, present := in.Lookup(field)
	if !present {
		return 0, false
	}
	return asNumber(v)
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	default:
		return 0, false
	}
}

// DecodeInput reads a JSON object into an Input, keeping numbers as json.Number.
func DecodeInput(data []byte) (Input, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var in Input
	if err := dec.Decode(&in); err != nil {
		return nil, err
	}
	if in == nil {
		return nil, errNotAnObject
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errTrailingData
	}
	return in, nil
}
