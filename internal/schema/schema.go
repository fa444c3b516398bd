// ABOUTME: Structural validation of decoded JSON before it enters application state
// ABOUTME: Combinator-style schemas checking types, required fields, and length caps

package schema

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalid is the base error for all schema validation failures.
var ErrInvalid = errors.New("value does not match schema")

// Schema validates a value freshly decoded from JSON (maps, slices,
// strings, bools, float64s). Implementations must reject anything that
// does not match the declared shape, including wrong types, missing
// required fields, and over-length strings.
type Schema interface {
	Validate(v any) error
}

// Field describes one member of an object schema.
type Field struct {
	Name     string
	Schema   Schema
	Optional bool
}

// Object returns a schema accepting a JSON object with exactly the given
// fields. Unknown fields are rejected.
func Object(fields ...Field) Schema {
	return objectSchema{fields: fields}
}

// Array returns a schema accepting a JSON array whose every element
// matches elem.
func Array(elem Schema) Schema {
	return arraySchema{elem: elem}
}

// String returns a schema accepting a string of at most maxLen bytes.
// A maxLen of zero or less means no cap.
func String(maxLen int) Schema {
	return stringSchema{maxLen: maxLen}
}

// Bool returns a schema accepting a boolean.
func Bool() Schema {
	return boolSchema{}
}

// TimeString returns a schema accepting an RFC3339 timestamp string.
func TimeString() Schema {
	return timeSchema{}
}

// Enum returns a schema accepting any of the given string values.
func Enum(values ...string) Schema {
	return enumSchema{values: values}
}

type objectSchema struct {
	fields []Field
}

func (s objectSchema) Validate(v any) error {
	obj, ok := v.(map[string]any)
	if !ok {
		return fmt.Errorf("%w: expected object, got %T", ErrInvalid, v)
	}

	known := make(map[string]bool, len(s.fields))
	for _, f := range s.fields {
		known[f.Name] = true
		fv, present := obj[f.Name]
		if !present || fv == nil {
			if f.Optional {
				continue
			}
			return fmt.Errorf("%w: missing field %q", ErrInvalid, f.Name)
		}
		if err := f.Schema.Validate(fv); err != nil {
			return fmt.Errorf("field %q: %w", f.Name, err)
		}
	}

	for name := range obj {
		if !known[name] {
			return fmt.Errorf("%w: unexpected field %q", ErrInvalid, name)
		}
	}
	return nil
}

type arraySchema struct {
	elem Schema
}

func (s arraySchema) Validate(v any) error {
	arr, ok := v.([]any)
	if !ok {
		return fmt.Errorf("%w: expected array, got %T", ErrInvalid, v)
	}
	for i, e := range arr {
		if err := s.elem.Validate(e); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
	}
	return nil
}

type stringSchema struct {
	maxLen int
}

func (s stringSchema) Validate(v any) error {
	str, ok := v.(string)
	if !ok {
		return fmt.Errorf("%w: expected string, got %T", ErrInvalid, v)
	}
	if s.maxLen > 0 && len(str) > s.maxLen {
		return fmt.Errorf("%w: string exceeds %d bytes", ErrInvalid, s.maxLen)
	}
	return nil
}

type boolSchema struct{}

func (s boolSchema) Validate(v any) error {
	if _, ok := v.(bool); !ok {
		return fmt.Errorf("%w: expected bool, got %T", ErrInvalid, v)
	}
	return nil
}

type timeSchema struct{}

func (s timeSchema) Validate(v any) error {
	str, ok := v.(string)
	if !ok {
		return fmt.Errorf("%w: expected timestamp string, got %T", ErrInvalid, v)
	}
	if _, err := time.Parse(time.RFC3339, str); err != nil {
		return fmt.Errorf("%w: invalid timestamp %q", ErrInvalid, str)
	}
	return nil
}

type enumSchema struct {
	values []string
}

func (s enumSchema) Validate(v any) error {
	str, ok := v.(string)
	if !ok {
		return fmt.Errorf("%w: expected string, got %T", ErrInvalid, v)
	}
	for _, allowed := range s.values {
		if str == allowed {
			return nil
		}
	}
	return fmt.Errorf("%w: %q is not one of %v", ErrInvalid, str, s.values)
}
