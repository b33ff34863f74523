package pointcloud

import (
	"fmt"

	"github.com/banshee-data/pointcloud/internal/pointcloud/rows"
)

// Key addresses part of a cloud: rows (Index, Indices, Span), fields
// (Field, Fields) or a block of an organized grid (Grid).
type Key interface {
	isKey()
}

// RowKey is a Key that selects row positions.
type RowKey interface {
	Key
	positions(n int) ([]int, error)
}

// Index selects one row. Negative values count from the end.
type Index int

// Indices selects rows in the given order. Negative values count from the end.
type Indices []int

// Field selects one column.
type Field string

// Fields selects columns in the given order.
type Fields []string

// Grid selects a block of an organized cloud. Rows ranges over [0, height),
// Cols over [0, width); cell (r, c) is row r*width + c.
type Grid struct {
	Rows, Cols RowKey
}

// Span is a half-open, optionally strided row range with the semantics of a
// Python slice: missing bounds cover the whole axis, negative bounds count
// from the end, and out-of-range bounds are clipped.
type Span struct {
	start, stop       int
	step              int
	hasStart, hasStop bool
	hasStep           bool
}

// All selects every row.
var All = Span{}

// Slice selects rows [start, stop).
func Slice(start, stop int) Span {
	return Span{start: start, stop: stop, hasStart: true, hasStop: true}
}

// SliceFrom selects rows [start, len).
func SliceFrom(start int) Span { return Span{start: start, hasStart: true} }

// SliceTo selects rows [0, stop).
func SliceTo(stop int) Span { return Span{stop: stop, hasStop: true} }

// Step returns s with the given stride. A negative stride walks backwards.
func (s Span) Step(step int) Span {
	s.step, s.hasStep = step, true
	return s
}

func (Index) isKey()   {}
func (Indices) isKey() {}
func (Span) isKey()    {}
func (Field) isKey()   {}
func (Fields) isKey()  {}
func (Grid) isKey()    {}

func normalize(i, n int) (int, error) {
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return 0, fmt.Errorf("index %d of %d: %w", i, n, rows.ErrIndexRange)
	}
	return i, nil
}

func (k Index) positions(n int) ([]int, error) {
	i, err := normalize(int(k), n)
	if err != nil {
		return nil, err
	}
	return []int{i}, nil
}

func (k Indices) positions(n int) ([]int, error) {
	out := make([]int, len(k))
	for j, i := range k {
		p, err := normalize(i, n)
		if err != nil {
			return nil, err
		}
		out[j] = p
	}
	return out, nil
}

// clip resolves a slice bound against n, keeping it within [lo, hi].
func clip(v, n, lo, hi int) int {
	if v < 0 {
		v += n
		if v < lo {
			v = lo
		}
		return v
	}
	if v > hi {
		v = hi
	}
	return v
}

func (s Span) positions(n int) ([]int, error) {
	step := 1
	if s.hasStep {
		step = s.step
	}
	if step == 0 {
		return nil, fmt.Errorf("slice step cannot be zero: %w", rows.ErrIndexRange)
	}

	var out []int
	if step > 0 {
		start, stop := 0, n
		if s.hasStart {
			start = clip(s.start, n, 0, n)
		}
		if s.hasStop {
			stop = clip(s.stop, n, 0, n)
		}
		for i := start; i < stop; i += step {
			out = append(out, i)
		}
		return out, nil
	}

	start, stop := n-1, -1
	if s.hasStart {
		start = clip(s.start, n, -1, n-1)
	}
	if s.hasStop {
		stop = clip(s.stop, n, -1, n-1)
	}
	for i := start; i > stop; i += step {
		out = append(out, i)
	}
	return out, nil
}

// Tuple builds a Key from loosely typed parts, the way a subscript list is
// read: all strings select fields, one row selector selects rows, two row
// selectors address an organized grid. Row selectors are int, []int or any
// RowKey.
func Tuple(parts ...any) (Key, error) {
	if len(parts) == 0 {
		return nil, fmt.Errorf("empty index: %w", ErrIndexArity)
	}

	names := make(Fields, 0, len(parts))
	for _, p := range parts {
		s, ok := p.(string)
		if !ok {
			break
		}
		names = append(names, s)
	}
	if len(names) == len(parts) {
		return names, nil
	}

	switch len(parts) {
	case 1:
		return rowKey(parts[0])
	case 2:
		r, err := rowKey(parts[0])
		if err != nil {
			return nil, err
		}
		c, err := rowKey(parts[1])
		if err != nil {
			return nil, err
		}
		return Grid{Rows: r, Cols: c}, nil
	}
	return nil, fmt.Errorf("%d indices, too many indices: %w", len(parts), ErrIndexArity)
}

func rowKey(v any) (RowKey, error) {
	switch k := v.(type) {
	case int:
		return Index(k), nil
	case []int:
		return Indices(k), nil
	case RowKey:
		return k, nil
	}
	return nil, fmt.Errorf("%T is not a row selector: %w", v, ErrIndexArity)
}
