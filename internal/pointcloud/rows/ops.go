package rows

import (
	"fmt"
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/ccoveille/go-safecast/v2"

	"github.com/banshee-data/pointcloud/internal/pointcloud/schema"
)

// ref addresses one row of one of several source stores.
type ref struct {
	src, row int
}

// gather builds a store of len(refs) rows laid out by s, row r copied from
// srcs[refs[r].src]. Every source must share the layout s.
func gather(s *schema.Schema, srcs []*Store, refs []ref) *Store {
	out := New(s, len(refs))
	for c, col := range out.cols {
		for r, ref := range refs {
			col.copyRow(r, srcs[ref.src].cols[c], ref.row)
		}
	}
	return out
}

func (st *Store) checkRows(idx []int) error {
	for _, i := range idx {
		if i < 0 || i >= st.n {
			return fmt.Errorf("row %d of %d: %w", i, st.n, ErrIndexRange)
		}
	}
	return nil
}

// Take returns the rows at idx, in that order. Positions may repeat.
func (st *Store) Take(idx []int) (*Store, error) {
	if err := st.checkRows(idx); err != nil {
		return nil, err
	}
	refs := make([]ref, len(idx))
	for r, i := range idx {
		refs[r] = ref{row: i}
	}
	return gather(st.schema, []*Store{st}, refs), nil
}

// Remove returns the store without the rows at idx. Repeated positions
// remove a row once.
func (st *Store) Remove(idx []int) (*Store, error) {
	if err := st.checkRows(idx); err != nil {
		return nil, err
	}
	if _, err := safecast.Convert[uint32](st.n); err != nil {
		return nil, fmt.Errorf("%d rows exceed the removal index: %w", st.n, ErrIndexRange)
	}
	drop := roaring.New()
	for _, i := range idx {
		drop.Add(uint32(i))
	}
	refs := make([]ref, 0, st.n-int(drop.GetCardinality()))
	for i := 0; i < st.n; i++ {
		if !drop.Contains(uint32(i)) {
			refs = append(refs, ref{row: i})
		}
	}
	return gather(st.schema, []*Store{st}, refs), nil
}

// Insert places data[k] before the current row positions[k]. A position of
// Len appends and negative positions count from the end. Rows aimed at the
// same position keep their order.
func (st *Store) Insert(positions []int, data [][]any, p OverflowPolicy) (*Store, error) {
	if len(positions) != len(data) {
		return nil, fmt.Errorf("%d positions for %d rows: %w", len(positions), len(data), ErrShapeMismatch)
	}
	at := make([]int, len(positions))
	for k, pos := range positions {
		if pos < 0 {
			pos += st.n
		}
		if pos < 0 || pos > st.n {
			return nil, fmt.Errorf("insert position %d of %d: %w", positions[k], st.n, ErrIndexRange)
		}
		at[k] = pos
	}
	add, err := FromRows(st.schema, data, p)
	if err != nil {
		return nil, err
	}

	order := make([]int, len(at))
	for k := range order {
		order[k] = k
	}
	sort.SliceStable(order, func(a, b int) bool { return at[order[a]] < at[order[b]] })

	refs := make([]ref, 0, st.n+len(data))
	next := 0
	for i := 0; i <= st.n; i++ {
		for next < len(order) && at[order[next]] == i {
			refs = append(refs, ref{src: 1, row: order[next]})
			next++
		}
		if i < st.n {
			refs = append(refs, ref{row: i})
		}
	}
	return gather(st.schema, []*Store{st, add}, refs), nil
}

// Append adds data after the last row.
func (st *Store) Append(data [][]any, p OverflowPolicy) (*Store, error) {
	positions := make([]int, len(data))
	for k := range positions {
		positions[k] = st.n
	}
	return st.Insert(positions, data, p)
}

// Concat appends the rows of o, which must share st's layout.
func (st *Store) Concat(o *Store) (*Store, error) {
	if !st.schema.Equal(o.schema) {
		return nil, fmt.Errorf("concat %s with %s: %w", st.schema, o.schema, ErrShapeMismatch)
	}
	refs := make([]ref, 0, st.n+o.n)
	for i := 0; i < st.n; i++ {
		refs = append(refs, ref{row: i})
	}
	for i := 0; i < o.n; i++ {
		refs = append(refs, ref{src: 1, row: i})
	}
	return gather(st.schema, []*Store{st, o}, refs), nil
}

// asRows interprets value as either one row ([]any or Record) or a list of
// rows ([][]any or []Record).
func asRows(value any) (data [][]any, single bool, err error) {
	switch v := value.(type) {
	case Record:
		return [][]any{v}, true, nil
	case []any:
		return [][]any{v}, true, nil
	case [][]any:
		return v, false, nil
	case []Record:
		data = make([][]any, len(v))
		for i, r := range v {
			data[i] = r
		}
		return data, false, nil
	case *Store:
		return v.Rows(), false, nil
	}
	return nil, false, fmt.Errorf("cannot assign %T to rows: %w", value, ErrShapeMismatch)
}

// SetRows overwrites the rows at idx. value is one row, broadcast to every
// position, or one row per position.
func (st *Store) SetRows(idx []int, value any, p OverflowPolicy) (*Store, error) {
	if err := st.checkRows(idx); err != nil {
		return nil, err
	}
	data, single, err := asRows(value)
	if err != nil {
		return nil, err
	}
	if !single && len(data) != len(idx) {
		return nil, fmt.Errorf("%d rows for %d positions: %w", len(data), len(idx), ErrShapeMismatch)
	}
	src, err := FromRows(st.schema, data, p)
	if err != nil {
		return nil, err
	}
	out := st.Clone()
	for k, i := range idx {
		from := k
		if single {
			from = 0
		}
		for c, col := range out.cols {
			col.copyRow(i, src.cols[c], from)
		}
	}
	return out, nil
}

// SetColumns overwrites the named fields in every row. For one field,
// value follows Fill. For several, value is one tuple ([]any or Record with
// a cell per field) broadcast to every row, or one tuple per row.
func (st *Store) SetColumns(names []string, value any, p OverflowPolicy) (*Store, error) {
	if len(names) == 1 {
		return st.Fill(names[0], value, p)
	}
	sub, err := st.schema.Select(names...)
	if err != nil {
		return nil, err
	}
	data, single, err := asRows(value)
	if err != nil {
		return nil, err
	}
	if !single && len(data) != st.n {
		return nil, fmt.Errorf("%d tuples for %d rows: %w", len(data), st.n, ErrShapeMismatch)
	}
	src, err := FromRows(sub, data, p)
	if err != nil {
		return nil, err
	}
	out := &Store{schema: st.schema, n: st.n, cols: append([]*column(nil), st.cols...)}
	for k, name := range names {
		c := st.schema.Index(name)
		col := newColumn(st.cols[c].desc, st.n)
		for i := 0; i < st.n; i++ {
			from := i
			if single {
				from = 0
			}
			col.copyRow(i, src.cols[k], from)
		}
		out.cols[c] = col
	}
	return out, nil
}

// Fill rebuilds the named field from value: a single cell broadcast to every
// row, or a sequence holding one cell per row. A scalar fills every element
// of a packed field.
func (st *Store) Fill(name string, value any, p OverflowPolicy) (*Store, error) {
	c := st.schema.Index(name)
	if c < 0 {
		return nil, fmt.Errorf("field %q: %w", name, schema.ErrUnknownField)
	}
	col := newColumn(st.cols[c].desc, st.n)
	if col.desc.Count > 1 && isScalar(value) {
		value = repeat(value, col.desc.Count)
	}
	if fits(col.desc, value) {
		for i := 0; i < st.n; i++ {
			if err := col.put(i, value, p); err != nil {
				return nil, fmt.Errorf("field %q: %w", name, err)
			}
		}
	} else {
		cells, ok := schema.Elements(value)
		if !ok || len(cells) != st.n {
			return nil, fmt.Errorf("field %q: %T does not fill %d rows: %w", name, value, st.n, ErrShapeMismatch)
		}
		for i, v := range cells {
			if err := col.put(i, v, p); err != nil {
				return nil, fmt.Errorf("field %q row %d: %w", name, i, err)
			}
		}
	}
	return st.withColumn(c, col), nil
}

func repeat(v any, n int) []any {
	out := make([]any, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// CopyColumn rebuilds field name from field srcName of src, row by row,
// coercing when the descriptors differ.
func (st *Store) CopyColumn(name string, src *Store, srcName string, p OverflowPolicy) (*Store, error) {
	c := st.schema.Index(name)
	if c < 0 {
		return nil, fmt.Errorf("field %q: %w", name, schema.ErrUnknownField)
	}
	sc := src.schema.Index(srcName)
	if sc < 0 {
		return nil, fmt.Errorf("source field %q: %w", srcName, schema.ErrUnknownField)
	}
	if src.n != st.n {
		return nil, fmt.Errorf("field %q: %d source rows for %d rows: %w", name, src.n, st.n, ErrShapeMismatch)
	}
	col := newColumn(st.cols[c].desc, st.n)
	for i := 0; i < st.n; i++ {
		if err := col.convertRow(i, src.cols[sc], i, p); err != nil {
			return nil, fmt.Errorf("field %q row %d: %w", name, i, err)
		}
	}
	return st.withColumn(c, col), nil
}

func (st *Store) withColumn(c int, col *column) *Store {
	out := &Store{schema: st.schema, n: st.n, cols: append([]*column(nil), st.cols...)}
	out.cols[c] = col
	return out
}

// Select projects the named fields, in the given order.
func (st *Store) Select(names ...string) (*Store, error) {
	sub, err := st.schema.Select(names...)
	if err != nil {
		return nil, err
	}
	out := &Store{schema: sub, n: st.n, cols: make([]*column, len(names))}
	for k, name := range names {
		out.cols[k] = st.cols[st.schema.Index(name)]
	}
	return out, nil
}

// Reshape lays the store out by target. Fields present in both layouts with
// the same descriptor keep their values; other target fields start zeroed.
func (st *Store) Reshape(target *schema.Schema) *Store {
	out := &Store{schema: target, n: st.n, cols: make([]*column, target.Len())}
	for k := range out.cols {
		f := target.Field(k)
		if c := st.schema.Index(f.Name); c >= 0 && st.cols[c].desc == f.Type {
			out.cols[k] = st.cols[c]
			continue
		}
		out.cols[k] = newColumn(f.Type, st.n)
	}
	return out
}
