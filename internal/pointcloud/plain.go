package pointcloud

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/pointcloud/internal/config"
	"github.com/banshee-data/pointcloud/internal/monitoring"
	"github.com/banshee-data/pointcloud/internal/pointcloud/rows"
	"github.com/banshee-data/pointcloud/internal/pointcloud/schema"
)

// PlainArray is a homogeneous view of selected fields: one matrix row per
// point, packed fields expanded into consecutive columns.
type PlainArray struct {
	// Type is the element type every value was converted to. Values are
	// held as float64, so i8 and u8 values beyond 2^53 lose precision.
	Type schema.Descriptor
	// Names lists the source fields in column order.
	Names      []string
	Rows, Cols int
	// Data is nil when Rows or Cols is zero.
	Data *mat.Dense
}

// At returns the value at row i, column j.
func (a *PlainArray) At(i, j int) float64 { return a.Data.At(i, j) }

// Values returns the matrix as row slices.
func (a *PlainArray) Values() [][]float64 {
	out := make([][]float64, a.Rows)
	for i := range out {
		out[i] = make([]float64, a.Cols)
		if a.Data != nil {
			mat.Row(out[i], i, a.Data)
		}
	}
	return out
}

// ToPlainArray projects the named fields (all fields when names is nil)
// into one homogeneous array. With a nil target the fields must share an
// element type, unless the cloud's plain array policy allows promotion to a
// common type.
func (pc *PointCloud) ToPlainArray(names []string, target *schema.Descriptor) (*PlainArray, error) {
	if names == nil {
		names = pc.Names()
	}
	sub, err := pc.store.Select(names...)
	if err != nil {
		return nil, err
	}

	var elem schema.Descriptor
	if target != nil {
		if err := target.Validate(); err != nil {
			return nil, err
		}
		elem = target.Elem()
	} else if elem, err = pc.commonType(sub.Schema()); err != nil {
		return nil, err
	}

	cols := 0
	for _, f := range sub.Schema().Fields() {
		cols += f.Type.Count
	}
	n := sub.Len()
	out := &PlainArray{Type: elem, Names: names, Rows: n, Cols: cols}
	if n == 0 || cols == 0 {
		return out, nil
	}

	data := make([]float64, n*cols)
	at := 0
	for _, f := range sub.Schema().Fields() {
		vals, err := sub.Float64s(f.Name)
		if err != nil {
			return nil, err
		}
		k := f.Type.Count
		for i := 0; i < n; i++ {
			for j := 0; j < k; j++ {
				data[i*cols+at+j] = rows.Cast(vals[i*k+j], elem)
			}
		}
		at += k
	}
	out.Data = mat.NewDense(n, cols, data)
	return out, nil
}

func (pc *PointCloud) commonType(s *schema.Schema) (schema.Descriptor, error) {
	if s.Len() == 0 {
		return schema.Descriptor{}, fmt.Errorf("no fields selected: %w", ErrAmbiguousType)
	}
	elem := s.Field(0).Type.Elem()
	uniform := true
	for _, f := range s.Fields()[1:] {
		if f.Type.Elem() != elem {
			uniform = false
			elem = schema.Promote(elem, f.Type)
		}
	}
	if uniform {
		return elem, nil
	}
	if pc.cfg.GetPlainArrayPolicy() != config.PlainArrayPromote {
		return schema.Descriptor{}, fmt.Errorf("fields %s: %w", s, ErrAmbiguousType)
	}
	monitoring.Opf("to_plain_array", "promoting fields %s to %s", s, elem)
	return elem, nil
}
