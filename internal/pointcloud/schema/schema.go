package schema

import (
	"fmt"
	"strings"
)

// Field is one named column of a point record.
type Field struct {
	Name string
	Type Descriptor
}

// String renders the field as a (name, descriptor) pair.
func (f Field) String() string {
	return fmt.Sprintf("(%s, %s)", f.Name, f.Type)
}

// Schema is an immutable, ordered, name-unique list of fields. Field order
// is the physical column order of a point record.
type Schema struct {
	fields []Field
	index  map[string]int
}

var empty = &Schema{index: map[string]int{}}

// Empty returns the schema with no fields.
func Empty() *Schema { return empty }

// New validates fields and returns them as a Schema. Descriptors must be
// valid and names pairwise distinct.
func New(fields ...Field) (*Schema, error) {
	if len(fields) == 0 {
		return empty, nil
	}
	s := &Schema{
		fields: make([]Field, len(fields)),
		index:  make(map[string]int, len(fields)),
	}
	for i, f := range fields {
		if err := f.Type.Validate(); err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
		if _, dup := s.index[f.Name]; dup {
			return nil, fmt.Errorf("field %q declared twice: %w", f.Name, ErrCollision)
		}
		s.index[f.Name] = i
		s.fields[i] = f
	}
	return s, nil
}

// Len returns the number of fields.
func (s *Schema) Len() int { return len(s.fields) }

// Field returns the i-th field.
func (s *Schema) Field(i int) Field { return s.fields[i] }

// Fields returns a copy of the field list.
func (s *Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Names returns the field names in order.
func (s *Schema) Names() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.Name
	}
	return names
}

// Index returns the position of name, or -1.
func (s *Schema) Index(name string) int {
	if i, ok := s.index[name]; ok {
		return i
	}
	return -1
}

// Has reports whether name is a field of s.
func (s *Schema) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Lookup returns the field called name.
func (s *Schema) Lookup(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// Equal reports whether both schemas declare the same fields in the same order.
func (s *Schema) Equal(o *Schema) bool {
	if s.Len() != o.Len() {
		return false
	}
	for i := range s.fields {
		if s.fields[i] != o.fields[i] {
			return false
		}
	}
	return true
}

// String renders the field list, e.g. "[(x, f4) (normal, 3f4)]".
func (s *Schema) String() string {
	parts := make([]string, len(s.fields))
	for i, f := range s.fields {
		parts[i] = f.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Specs returns the schema as canonical (name, descriptor) tuples. Parsing
// the result yields an equal schema.
func (s *Schema) Specs() Specs {
	specs := make(Specs, len(s.fields))
	for i, f := range s.fields {
		specs[i] = Tuple(f.Name, f.Type.String())
	}
	return specs
}

// Append returns a new schema with fields added after the existing ones.
func (s *Schema) Append(fields ...Field) (*Schema, error) {
	if err := s.checkNew(fields); err != nil {
		return nil, err
	}
	all := make([]Field, 0, len(s.fields)+len(fields))
	all = append(all, s.fields...)
	all = append(all, fields...)
	return New(all...)
}

// Insert returns a new schema with fields[i] placed before the field
// currently at offsets[i]. An offset equal to Len appends. Fields sharing an
// offset keep their relative order.
func (s *Schema) Insert(fields []Field, offsets []int) (*Schema, error) {
	if len(fields) != len(offsets) {
		return nil, fmt.Errorf("%d fields but %d offsets: %w", len(fields), len(offsets), ErrFormat)
	}
	if err := s.checkNew(fields); err != nil {
		return nil, err
	}
	buckets := make([][]Field, len(s.fields)+1)
	for i, off := range offsets {
		if off < 0 || off > len(s.fields) {
			return nil, fmt.Errorf("offset %d for field %q outside [0, %d]: %w",
				off, fields[i].Name, len(s.fields), ErrOffset)
		}
		buckets[off] = append(buckets[off], fields[i])
	}
	all := make([]Field, 0, len(s.fields)+len(fields))
	for i, f := range s.fields {
		all = append(all, buckets[i]...)
		all = append(all, f)
	}
	all = append(all, buckets[len(s.fields)]...)
	return New(all...)
}

// Without returns a new schema lacking the named fields.
func (s *Schema) Without(names ...string) (*Schema, error) {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		if !s.Has(n) {
			return nil, fmt.Errorf("field %q: %w", n, ErrUnknownField)
		}
		drop[n] = true
	}
	kept := make([]Field, 0, len(s.fields))
	for _, f := range s.fields {
		if !drop[f.Name] {
			kept = append(kept, f)
		}
	}
	return New(kept...)
}

// Select returns a new schema holding the named fields in the given order.
func (s *Schema) Select(names ...string) (*Schema, error) {
	fields := make([]Field, len(names))
	for i, n := range names {
		f, ok := s.Lookup(n)
		if !ok {
			return nil, fmt.Errorf("field %q: %w", n, ErrUnknownField)
		}
		fields[i] = f
	}
	return New(fields...)
}

func (s *Schema) checkNew(fields []Field) error {
	for _, f := range fields {
		if s.Has(f.Name) {
			return fmt.Errorf("field %q already exists: %w", f.Name, ErrCollision)
		}
	}
	return nil
}
