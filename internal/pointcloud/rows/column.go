package rows

import (
	"fmt"
	"slices"

	"github.com/banshee-data/pointcloud/internal/pointcloud/schema"
)

// column holds the values of one field, row-major, Count elements per row.
// Exactly one of ints, uints, floats is used, chosen by desc.Kind. A column
// is never written after the Store that owns it has been returned.
type column struct {
	desc   schema.Descriptor
	ints   []int64
	uints  []uint64
	floats []float64
}

func newColumn(d schema.Descriptor, n int) *column {
	c := &column{desc: d}
	switch d.Kind {
	case schema.KindInt:
		c.ints = make([]int64, n*d.Count)
	case schema.KindUint:
		c.uints = make([]uint64, n*d.Count)
	case schema.KindFloat:
		c.floats = make([]float64, n*d.Count)
	}
	return c
}

func (c *column) clone() *column {
	return &column{
		desc:   c.desc,
		ints:   slices.Clone(c.ints),
		uints:  slices.Clone(c.uints),
		floats: slices.Clone(c.floats),
	}
}

// cell returns row i as int64, uint64, float64 or a slice of those.
func (c *column) cell(i int) any {
	k := c.desc.Count
	lo, hi := i*k, (i+1)*k
	switch c.desc.Kind {
	case schema.KindInt:
		if k == 1 {
			return c.ints[lo]
		}
		return slices.Clone(c.ints[lo:hi])
	case schema.KindUint:
		if k == 1 {
			return c.uints[lo]
		}
		return slices.Clone(c.uints[lo:hi])
	default:
		if k == 1 {
			return c.floats[lo]
		}
		return slices.Clone(c.floats[lo:hi])
	}
}

// float returns element j of row i widened to float64.
func (c *column) float(i, j int) float64 {
	at := i*c.desc.Count + j
	switch c.desc.Kind {
	case schema.KindInt:
		return float64(c.ints[at])
	case schema.KindUint:
		return float64(c.uints[at])
	default:
		return c.floats[at]
	}
}

// copyRow copies row src of from into row dst of c. Descriptors must match.
func (c *column) copyRow(dst int, from *column, src int) {
	k := c.desc.Count
	switch c.desc.Kind {
	case schema.KindInt:
		copy(c.ints[dst*k:(dst+1)*k], from.ints[src*k:(src+1)*k])
	case schema.KindUint:
		copy(c.uints[dst*k:(dst+1)*k], from.uints[src*k:(src+1)*k])
	default:
		copy(c.floats[dst*k:(dst+1)*k], from.floats[src*k:(src+1)*k])
	}
}

// put coerces v into row i.
func (c *column) put(i int, v any, p OverflowPolicy) error {
	if c.desc.Count == 1 {
		return c.putElem(i, v, p)
	}
	elems, ok := schema.Elements(v)
	if !ok {
		return fmt.Errorf("%s cell needs %d values, got %T: %w", c.desc, c.desc.Count, v, ErrShapeMismatch)
	}
	if len(elems) != c.desc.Count {
		return fmt.Errorf("%s cell needs %d values, got %d: %w", c.desc, c.desc.Count, len(elems), ErrShapeMismatch)
	}
	for j, e := range elems {
		if err := c.putElem(i*c.desc.Count+j, e, p); err != nil {
			return err
		}
	}
	return nil
}

// putElem coerces a scalar into flat element position at.
func (c *column) putElem(at int, v any, p OverflowPolicy) error {
	switch c.desc.Kind {
	case schema.KindInt:
		x, err := toInt(v, c.desc.Size, p)
		if err != nil {
			return err
		}
		c.ints[at] = x
	case schema.KindUint:
		x, err := toUint(v, c.desc.Size, p)
		if err != nil {
			return err
		}
		c.uints[at] = x
	default:
		x, err := toFloat(v, c.desc.Size)
		if err != nil {
			return err
		}
		c.floats[at] = x
	}
	return nil
}

// convertRow writes row src of from into row dst of c, coercing when the
// descriptors differ.
func (c *column) convertRow(dst int, from *column, src int, p OverflowPolicy) error {
	if c.desc == from.desc {
		c.copyRow(dst, from, src)
		return nil
	}
	return c.put(dst, from.cell(src), p)
}

func (c *column) equal(o *column) bool {
	return c.desc == o.desc &&
		slices.Equal(c.ints, o.ints) &&
		slices.Equal(c.uints, o.uints) &&
		slices.Equal(c.floats, o.floats)
}
