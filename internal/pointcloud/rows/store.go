package rows

import (
	"fmt"
	"reflect"

	"github.com/banshee-data/pointcloud/internal/pointcloud/schema"
)

// Record is one point: its values in schema order. Scalar cells are int64,
// uint64 or float64; packed cells are []int64, []uint64 or []float64.
type Record []any

// Equal reports whether both records hold the same values.
func (r Record) Equal(o Record) bool {
	return reflect.DeepEqual(r, o)
}

// Store is an immutable table of n rows laid out by a schema.
type Store struct {
	schema *schema.Schema
	n      int
	cols   []*column
}

// New allocates a zero-valued store of n rows.
func New(s *schema.Schema, n int) *Store {
	if s == nil {
		s = schema.Empty()
	}
	st := &Store{schema: s, n: n, cols: make([]*column, s.Len())}
	for i := range st.cols {
		st.cols[i] = newColumn(s.Field(i).Type, n)
	}
	return st
}

// FromRows builds a store from positional rows. Each row must hold one cell
// per field.
func FromRows(s *schema.Schema, data [][]any, p OverflowPolicy) (*Store, error) {
	st := New(s, len(data))
	for i, row := range data {
		if err := st.putRow(i, row, p); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
	}
	return st, nil
}

// putRow writes row i in place. Only for stores that have not escaped yet.
func (st *Store) putRow(i int, row []any, p OverflowPolicy) error {
	if len(row) != len(st.cols) {
		return fmt.Errorf("%d values for %d fields: %w", len(row), len(st.cols), ErrShapeMismatch)
	}
	for c, v := range row {
		if err := st.cols[c].put(i, v, p); err != nil {
			return fmt.Errorf("field %q: %w", st.schema.Field(c).Name, err)
		}
	}
	return nil
}

// Schema returns the layout of the store.
func (st *Store) Schema() *schema.Schema { return st.schema }

// Len returns the row count.
func (st *Store) Len() int { return st.n }

// At returns row i.
func (st *Store) At(i int) (Record, error) {
	if i < 0 || i >= st.n {
		return nil, fmt.Errorf("row %d of %d: %w", i, st.n, ErrIndexRange)
	}
	return st.record(i), nil
}

func (st *Store) record(i int) Record {
	r := make(Record, len(st.cols))
	for c, col := range st.cols {
		r[c] = col.cell(i)
	}
	return r
}

// Records returns every row.
func (st *Store) Records() []Record {
	out := make([]Record, st.n)
	for i := range out {
		out[i] = st.record(i)
	}
	return out
}

// Rows returns every row as plain positional values, suitable for FromRows.
func (st *Store) Rows() [][]any {
	out := make([][]any, st.n)
	for i := range out {
		out[i] = st.record(i)
	}
	return out
}

// Column returns the cells of the named field, one per row.
func (st *Store) Column(name string) ([]any, error) {
	c := st.schema.Index(name)
	if c < 0 {
		return nil, fmt.Errorf("field %q: %w", name, schema.ErrUnknownField)
	}
	out := make([]any, st.n)
	for i := range out {
		out[i] = st.cols[c].cell(i)
	}
	return out, nil
}

// Float64s returns the named field flattened row-major (Count values per
// row) and widened to float64. Integers beyond 2^53 lose precision.
func (st *Store) Float64s(name string) ([]float64, error) {
	c := st.schema.Index(name)
	if c < 0 {
		return nil, fmt.Errorf("field %q: %w", name, schema.ErrUnknownField)
	}
	col := st.cols[c]
	k := col.desc.Count
	out := make([]float64, st.n*k)
	for i := 0; i < st.n; i++ {
		for j := 0; j < k; j++ {
			out[i*k+j] = col.float(i, j)
		}
	}
	return out, nil
}

// Clone returns a store that shares no column buffers with st.
func (st *Store) Clone() *Store {
	out := &Store{schema: st.schema, n: st.n, cols: make([]*column, len(st.cols))}
	for i, c := range st.cols {
		out.cols[i] = c.clone()
	}
	return out
}

// Equal reports whether both stores have the same schema and values.
func (st *Store) Equal(o *Store) bool {
	if st.n != o.n || !st.schema.Equal(o.schema) {
		return false
	}
	for i := range st.cols {
		if !st.cols[i].equal(o.cols[i]) {
			return false
		}
	}
	return true
}

// Contains reports whether some row equals rec once rec is coerced to the
// schema. A rec that cannot be coerced is not contained.
func (st *Store) Contains(rec []any) bool {
	probe := New(st.schema, 1)
	if err := probe.putRow(0, rec, OverflowReject); err != nil {
		return false
	}
	want := probe.record(0)
	for i := 0; i < st.n; i++ {
		if st.record(i).Equal(want) {
			return true
		}
	}
	return false
}
