package pointcloud

import (
	"fmt"

	"github.com/banshee-data/pointcloud/internal/monitoring"
	"github.com/banshee-data/pointcloud/internal/pointcloud/rows"
)

// Get returns the addressed part of the cloud as a row store: whole rows
// for a RowKey or Grid, the named columns of every row for Field or Fields.
func (pc *PointCloud) Get(key Key) (*rows.Store, error) {
	switch k := key.(type) {
	case Field:
		return pc.store.Select(string(k))
	case Fields:
		return pc.store.Select(k...)
	}
	idx, err := pc.positions(key)
	if err != nil {
		return nil, err
	}
	return pc.store.Take(idx)
}

// Set writes value into the addressed part of the cloud. Row keys accept a
// single record, which is broadcast, or one record per selected row. Field
// keys accept a scalar or packed cell to broadcast, a column, or a list with
// one entry per named field.
func (pc *PointCloud) Set(key Key, value any) error {
	var (
		st  *rows.Store
		err error
	)
	switch k := key.(type) {
	case Field:
		st, err = pc.store.SetColumns([]string{string(k)}, value, pc.overflow())
	case Fields:
		st, err = pc.store.SetColumns(k, value, pc.overflow())
	default:
		var idx []int
		if idx, err = pc.positions(key); err != nil {
			return err
		}
		st, err = pc.store.SetRows(idx, value, pc.overflow())
	}
	if err != nil {
		return err
	}
	pc.swap(st, false)
	return nil
}

// Delete removes the addressed rows, disorganizing the cloud, or the
// addressed fields.
func (pc *PointCloud) Delete(key Key) error {
	switch k := key.(type) {
	case Field:
		return pc.deleteFields([]string{string(k)})
	case Fields:
		return pc.deleteFields(k)
	}
	idx, err := pc.positions(key)
	if err != nil {
		return err
	}
	st, err := pc.store.Remove(idx)
	if err != nil {
		return err
	}
	pc.swap(st, true)
	return nil
}

func (pc *PointCloud) deleteFields(names []string) error {
	target, err := pc.Schema().Without(names...)
	if err != nil {
		return err
	}
	pc.swap(pc.store.Reshape(target), false)
	monitoring.Opf("delete", "removed fields %v", names)
	return nil
}

// positions resolves a row or grid key to linear row indices.
func (pc *PointCloud) positions(key Key) ([]int, error) {
	switch k := key.(type) {
	case Grid:
		return pc.gridPositions(k)
	case RowKey:
		return k.positions(pc.Len())
	case nil:
		return nil, fmt.Errorf("nil key: %w", ErrIndexArity)
	}
	return nil, fmt.Errorf("unsupported key %T: %w", key, ErrIndexArity)
}

func (pc *PointCloud) gridPositions(g Grid) ([]int, error) {
	if !pc.IsOrganized() {
		return nil, fmt.Errorf("only organized point clouds support row/column access: %w", ErrIndexArity)
	}
	if g.Rows == nil || g.Cols == nil {
		return nil, fmt.Errorf("grid key needs both rows and columns: %w", ErrIndexArity)
	}
	rs, err := g.Rows.positions(pc.height)
	if err != nil {
		return nil, err
	}
	cs, err := g.Cols.positions(pc.width)
	if err != nil {
		return nil, err
	}
	out := make([]int, 0, len(rs)*len(cs))
	for _, r := range rs {
		for _, c := range cs {
			out = append(out, r*pc.width+c)
		}
	}
	return out, nil
}
