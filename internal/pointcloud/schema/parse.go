package schema

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ccoveille/go-safecast/v2"
)

// Input is a field specification accepted at the construction and field
// mutation boundaries. The concrete variants are:
//
//   - nil: no fields
//   - *Schema: an existing typed schema, copied verbatim
//   - Names: names only, types inferred later from sample rows
//   - Specs: descriptor tuples built with Tuple
//   - Mixed: a legacy list mixing bare names and tuples
type Input interface {
	fieldInput()
}

// Names lists field names whose descriptors are inferred from sample rows.
type Names []string

// Specs lists descriptor tuples.
type Specs []FieldSpec

// Mixed lists bare names (string) and tuples (FieldSpec) in one sequence.
// Any bare name turns the whole list into an inference request.
type Mixed []any

func (*Schema) fieldInput() {}
func (Names) fieldInput()   {}
func (Specs) fieldInput()   {}
func (Mixed) fieldInput()   {}

// FieldSpec is one loosely typed field tuple. Parts is either a single
// compact descriptor string, or a PCL style (size, type[, count]) group in
// which size and type may be swapped.
type FieldSpec struct {
	Name  string
	Parts []any
}

// Tuple builds a FieldSpec:
//
//	Tuple("normal", "3f4")
//	Tuple("intensity", 1, "F")
//	Tuple("normal", "U", 4, 3)
func Tuple(name string, parts ...any) FieldSpec {
	return FieldSpec{Name: name, Parts: parts}
}

// Field normalizes the tuple into a validated Field.
func (fs FieldSpec) Field() (Field, error) {
	switch len(fs.Parts) {
	case 1:
		s, ok := fs.Parts[0].(string)
		if !ok {
			break
		}
		d, err := ParseDescriptor(s)
		if err != nil {
			return Field{}, fmt.Errorf("field %q: %w", fs.Name, err)
		}
		return Field{Name: fs.Name, Type: d}, nil
	case 2, 3:
		compact, err := pclToCompact(fs.Parts)
		if err != nil {
			return Field{}, fmt.Errorf("field %q: %w", fs.Name, err)
		}
		d, err := ParseDescriptor(compact)
		if err != nil {
			return Field{}, fmt.Errorf("field %q: %w", fs.Name, err)
		}
		return Field{Name: fs.Name, Type: d}, nil
	}
	return Field{}, fmt.Errorf("unknown fields format for %q (%d parts): %w", fs.Name, len(fs.Parts), ErrFormat)
}

// pclToCompact turns (size, type[, count]) or (type, size[, count]) into the
// compact descriptor string.
func pclToCompact(parts []any) (string, error) {
	tag, size := parts[0], parts[1]
	if isSize(parts[0]) {
		tag, size = parts[1], parts[0]
	}
	t, ok := tag.(string)
	if !ok {
		return "", fmt.Errorf("unknown fields format: type tag %v: %w", tag, ErrFormat)
	}
	n, ok := asInt(size)
	if !ok {
		return "", fmt.Errorf("unknown fields format: byte size %v: %w", size, ErrFormat)
	}
	count := 1
	if len(parts) == 3 {
		if count, ok = asInt(parts[2]); !ok {
			return "", fmt.Errorf("unknown fields format: count %v: %w", parts[2], ErrFormat)
		}
	}

	var b strings.Builder
	if count != 1 {
		b.WriteString(strconv.Itoa(count))
	}
	b.WriteString(strings.ToLower(t))
	b.WriteString(strconv.Itoa(n))
	return b.String(), nil
}

// isSize reports whether a tuple part is a byte size: an integer or a
// string of digits.
func isSize(v any) bool {
	_, ok := asInt(v)
	return ok
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int8:
		return int(n), true
	case int16:
		return int(n), true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case uint8:
		return int(n), true
	case uint16:
		return int(n), true
	case uint32:
		return int(n), true
	case uint:
		i, err := safecast.Convert[int](n)
		return i, err == nil
	case uint64:
		i, err := safecast.Convert[int](n)
		return i, err == nil
	case string:
		if n == "" {
			return 0, false
		}
		for _, r := range n {
			if r < '0' || r > '9' {
				return 0, false
			}
		}
		i, err := strconv.Atoi(n)
		return i, err == nil
	}
	return 0, false
}

// Parsed is the outcome of Parse. When RequiresInference is set, Schema is
// empty and Names holds the declared names awaiting inference.
type Parsed struct {
	Schema            *Schema
	Names             []string
	RequiresInference bool
}

// Parse normalizes any Input into a canonical schema.
func Parse(in Input) (Parsed, error) {
	switch v := in.(type) {
	case nil:
		return Parsed{Schema: Empty()}, nil
	case *Schema:
		if v == nil {
			return Parsed{Schema: Empty()}, nil
		}
		s, err := New(v.fields...)
		if err != nil {
			return Parsed{}, err
		}
		return Parsed{Schema: s}, nil
	case Names:
		return parseNames(v)
	case Specs:
		fields := make([]Field, len(v))
		for i, fs := range v {
			f, err := fs.Field()
			if err != nil {
				return Parsed{}, err
			}
			fields[i] = f
		}
		s, err := New(fields...)
		if err != nil {
			return Parsed{}, err
		}
		return Parsed{Schema: s}, nil
	case Mixed:
		return parseMixed(v)
	}
	return Parsed{}, fmt.Errorf("unknown fields format %T: %w", in, ErrFormat)
}

func parseNames(names Names) (Parsed, error) {
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if seen[n] {
			return Parsed{}, fmt.Errorf("field %q declared twice: %w", n, ErrCollision)
		}
		seen[n] = true
	}
	return Parsed{
		Schema:            Empty(),
		Names:             append([]string(nil), names...),
		RequiresInference: true,
	}, nil
}

func parseMixed(items Mixed) (Parsed, error) {
	var (
		names []string
		specs Specs
		bare  bool
	)
	for _, it := range items {
		switch v := it.(type) {
		case string:
			bare = true
			names = append(names, v)
		case FieldSpec:
			names = append(names, v.Name)
			specs = append(specs, v)
		default:
			return Parsed{}, fmt.Errorf("unknown fields format: item %T: %w", it, ErrFormat)
		}
	}
	if bare {
		return parseNames(names)
	}
	return Parse(specs)
}
