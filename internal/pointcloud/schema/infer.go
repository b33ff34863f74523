package schema

import (
	"fmt"
	"reflect"
)

// ScalarType returns the element descriptor matching a Go numeric value.
// int and uint are treated as 64-bit.
func ScalarType(v any) (Descriptor, bool) {
	switch v.(type) {
	case int8:
		return Descriptor{Count: 1, Kind: KindInt, Size: 1}, true
	case int16:
		return Descriptor{Count: 1, Kind: KindInt, Size: 2}, true
	case int32:
		return Descriptor{Count: 1, Kind: KindInt, Size: 4}, true
	case int, int64:
		return Descriptor{Count: 1, Kind: KindInt, Size: 8}, true
	case uint8:
		return Descriptor{Count: 1, Kind: KindUint, Size: 1}, true
	case uint16:
		return Descriptor{Count: 1, Kind: KindUint, Size: 2}, true
	case uint32:
		return Descriptor{Count: 1, Kind: KindUint, Size: 4}, true
	case uint, uint64:
		return Descriptor{Count: 1, Kind: KindUint, Size: 8}, true
	case float32:
		return Descriptor{Count: 1, Kind: KindFloat, Size: 4}, true
	case float64:
		return Descriptor{Count: 1, Kind: KindFloat, Size: 8}, true
	}
	return Descriptor{}, false
}

// Elements unpacks a packed cell value ([]float64, []any, [3]int32, ...)
// into its elements. It reports false for anything that is not a slice or
// array.
func Elements(v any) ([]any, bool) {
	switch s := v.(type) {
	case []any:
		return s, true
	case []float64:
		return boxed(s), true
	case []float32:
		return boxed(s), true
	case []int64:
		return boxed(s), true
	case []int:
		return boxed(s), true
	case []uint64:
		return boxed(s), true
	case nil:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func boxed[T any](s []T) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}

// InferCell returns the descriptor of a single cell: a scalar, or a packed
// slice whose length becomes the count.
func InferCell(v any) (Descriptor, error) {
	if d, ok := ScalarType(v); ok {
		return d, nil
	}
	elems, ok := Elements(v)
	if !ok {
		return Descriptor{}, fmt.Errorf("cannot infer a numeric type from %T: %w", v, ErrInference)
	}
	if len(elems) == 0 {
		return Descriptor{}, fmt.Errorf("cannot infer a type from an empty sequence: %w", ErrInference)
	}
	var elem Descriptor
	for i, e := range elems {
		d, ok := ScalarType(e)
		if !ok {
			return Descriptor{}, fmt.Errorf("cannot infer a numeric type from element %T: %w", e, ErrInference)
		}
		if i == 0 {
			elem = d
			continue
		}
		elem = Promote(elem, d)
	}
	elem.Count = len(elems)
	return elem, nil
}

// Infer builds a schema for names from sample rows. Every row must carry
// one value per name; a column's type is the promotion of every sampled
// value.
func Infer(names []string, sample [][]any) (*Schema, error) {
	if len(sample) == 0 {
		return nil, fmt.Errorf("fields %v given by name only and no rows to infer from: %w", names, ErrInference)
	}
	types := make([]Descriptor, len(names))
	for r, row := range sample {
		if len(row) != len(names) {
			return nil, fmt.Errorf("row %d has %d values for %d fields: %w", r, len(row), len(names), ErrInference)
		}
		for c, v := range row {
			d, err := InferCell(v)
			if err != nil {
				return nil, fmt.Errorf("field %q row %d: %w", names[c], r, err)
			}
			if r == 0 {
				types[c] = d
				continue
			}
			if d.Count != types[c].Count {
				return nil, fmt.Errorf("field %q has %d elements in row %d, %d before: %w",
					names[c], d.Count, r, types[c].Count, ErrInference)
			}
			count := d.Count
			types[c] = Promote(types[c], d)
			types[c].Count = count
		}
	}
	fields := make([]Field, len(names))
	for i, n := range names {
		fields[i] = Field{Name: n, Type: types[i]}
	}
	return New(fields...)
}
