package schema

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Kind is the element type tag of a descriptor.
type Kind byte

const (
	// KindInt is a signed two's complement integer.
	KindInt Kind = 'i'
	// KindUint is an unsigned integer.
	KindUint Kind = 'u'
	// KindFloat is an IEEE 754 float.
	KindFloat Kind = 'f'
)

// String returns the lowercase type tag.
func (k Kind) String() string { return string(rune(k)) }

// MaxCount bounds the element count of a packed field.
const MaxCount = 1 << 16

// descriptorPattern is the compact descriptor grammar: optional repeat
// count, type tag, byte width.
var descriptorPattern = regexp.MustCompile(`^(\d+)?([iufIUF])([1248])$`)

// Descriptor is the parsed form of a compact field descriptor such as "3f4"
// (three packed 32-bit floats).
type Descriptor struct {
	Count int
	Kind  Kind
	Size  int
}

// ParseDescriptor parses and validates a compact descriptor string.
func ParseDescriptor(s string) (Descriptor, error) {
	m := descriptorPattern.FindStringSubmatch(s)
	if m == nil {
		return Descriptor{}, fmt.Errorf("unknown input descriptor %q: %w", s, ErrFormat)
	}

	count := 1
	if m[1] != "" {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return Descriptor{}, fmt.Errorf("descriptor %q count: %v: %w", s, err, ErrFormat)
		}
		count = n
	}

	size, _ := strconv.Atoi(m[3])
	d := Descriptor{Count: count, Kind: Kind(strings.ToLower(m[2])[0]), Size: size}
	if err := d.Validate(); err != nil {
		return Descriptor{}, err
	}
	return d, nil
}

// MustDescriptor is ParseDescriptor for literals; it panics on error.
func MustDescriptor(s string) Descriptor {
	d, err := ParseDescriptor(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Validate reports whether the descriptor can back a column.
func (d Descriptor) Validate() error {
	switch d.Kind {
	case KindInt, KindUint:
	case KindFloat:
		if d.Size == 1 {
			return fmt.Errorf("descriptor %s: no 8-bit float type: %w", d, ErrFormat)
		}
	default:
		return fmt.Errorf("descriptor type tag %q: %w", rune(d.Kind), ErrFormat)
	}
	switch d.Size {
	case 1, 2, 4, 8:
	default:
		return fmt.Errorf("descriptor byte width %d: %w", d.Size, ErrFormat)
	}
	if d.Count < 1 || d.Count > MaxCount {
		return fmt.Errorf("descriptor count %d outside [1, %d]: %w", d.Count, MaxCount, ErrFormat)
	}
	return nil
}

// String returns the canonical compact form. The count prefix is omitted
// when it is 1.
func (d Descriptor) String() string {
	if d.Count == 1 {
		return d.Kind.String() + strconv.Itoa(d.Size)
	}
	return strconv.Itoa(d.Count) + d.Kind.String() + strconv.Itoa(d.Size)
}

// Elem returns the descriptor of a single element (Count 1).
func (d Descriptor) Elem() Descriptor {
	d.Count = 1
	return d
}

// Bytes is the packed width of one cell.
func (d Descriptor) Bytes() int { return d.Count * d.Size }

// Promote returns the narrowest element type able to represent values of
// both a and b. Counts are ignored; the result has Count 1.
//
// Floats win over integers; a float mixed with an integer widens to f8.
// Signed mixed with unsigned widens to a signed type twice the unsigned
// width, capped at 8 bytes.
func Promote(a, b Descriptor) Descriptor {
	a, b = a.Elem(), b.Elem()
	if a.Kind == b.Kind {
		return Descriptor{Count: 1, Kind: a.Kind, Size: max(a.Size, b.Size)}
	}
	if a.Kind == KindFloat || b.Kind == KindFloat {
		return Descriptor{Count: 1, Kind: KindFloat, Size: 8}
	}
	signed, unsigned := a, b
	if a.Kind == KindUint {
		signed, unsigned = b, a
	}
	return Descriptor{Count: 1, Kind: KindInt, Size: min(8, max(signed.Size, 2*unsigned.Size))}
}
