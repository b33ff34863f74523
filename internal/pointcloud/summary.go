package pointcloud

import (
	"fmt"
	"iter"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/banshee-data/pointcloud/internal/pointcloud/rows"
	"github.com/banshee-data/pointcloud/internal/pointcloud/schema"
)

// IsDense reports whether every point is valid: no float value is NaN
// (nor ±Inf when the config says so) and all fields have the same count.
func (pc *PointCloud) IsDense() bool {
	fields := pc.Fields()
	for _, f := range fields {
		if f.Type.Count != fields[0].Type.Count {
			return false
		}
	}
	rejectInf := pc.cfg.GetDenseRejectsInf()
	for _, f := range fields {
		if f.Type.Kind != schema.KindFloat {
			continue
		}
		vals, err := pc.store.Float64s(f.Name)
		if err != nil || len(vals) == 0 {
			continue
		}
		if floats.HasNaN(vals) {
			return false
		}
		if rejectInf && (math.IsInf(floats.Max(vals), 1) || math.IsInf(floats.Min(vals), -1)) {
			return false
		}
	}
	return true
}

// All iterates over the points in row order.
func (pc *PointCloud) All() iter.Seq2[int, rows.Record] {
	st := pc.store
	return func(yield func(int, rows.Record) bool) {
		for i := 0; i < st.Len(); i++ {
			rec, err := st.At(i)
			if err != nil || !yield(i, rec) {
				return
			}
		}
	}
}

// Contains reports whether some point equals rec after conversion to the
// field types.
func (pc *PointCloud) Contains(rec []any) bool { return pc.store.Contains(rec) }

// Snapshot returns every point as a row of values.
func (pc *PointCloud) Snapshot() [][]any { return pc.store.Rows() }

// String renders a multi-line summary of the cloud.
func (pc *PointCloud) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "points[]: %d\n", pc.Len())
	fmt.Fprintf(&b, "width: %d, height: %d\n", pc.width, pc.height)
	fmt.Fprintf(&b, "fields: %s\n", pc.Schema())
	fmt.Fprintf(&b, "is_dense: %t\n", pc.IsDense())
	fmt.Fprintf(&b, "sensor origin (xyz): %v\n", pc.origin)
	q := pc.orientation
	fmt.Fprintf(&b, "sensor orientation (xyzw) : %v\n", [4]float64{q.Imag, q.Jmag, q.Kmag, q.Real})
	return b.String()
}

// GoString is the short form used by %#v.
func (pc *PointCloud) GoString() string {
	return fmt.Sprintf("<PointCloud of %d points>", pc.Len())
}
