package schema

import "errors"

var (
	// ErrFormat is returned for a malformed descriptor string or an
	// unrecognized field-specification shape.
	ErrFormat = errors.New("schema format error")

	// ErrInference is returned when field types cannot be inferred, most
	// commonly because only names were given and no sample rows exist.
	ErrInference = errors.New("schema inference error")

	// ErrCollision is returned when a field name is declared twice.
	ErrCollision = errors.New("schema field collision")

	// ErrOffset is returned when a field insertion offset lies outside the
	// field list.
	ErrOffset = errors.New("field offset out of range")

	// ErrUnknownField is returned when a field name is not part of the schema.
	ErrUnknownField = errors.New("unknown field")
)
