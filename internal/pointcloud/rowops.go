package pointcloud

import (
	"fmt"
	"slices"

	"github.com/banshee-data/pointcloud/internal/pointcloud/rows"
)

// Insert places points before the given row positions. Positions refer to
// the cloud before insertion; ties keep the order given. The cloud is
// disorganized.
func (pc *PointCloud) Insert(positions []int, points [][]any) error {
	st, err := pc.store.Insert(positions, points, pc.overflow())
	if err != nil {
		return err
	}
	pc.swap(st, true)
	return nil
}

// Append adds points at the end. The cloud is disorganized.
func (pc *PointCloud) Append(points ...[]any) error {
	st, err := pc.store.Append(points, pc.overflow())
	if err != nil {
		return err
	}
	pc.swap(st, true)
	return nil
}

// Extend appends every point of other, which must declare the same field
// names. Values are converted when the descriptors differ.
func (pc *PointCloud) Extend(other *PointCloud) error {
	if !slices.Equal(pc.Names(), other.Names()) {
		return fmt.Errorf("fields %v cannot take points with fields %v: %w",
			pc.Names(), other.Names(), rows.ErrShapeMismatch)
	}
	var (
		st  *rows.Store
		err error
	)
	if pc.Schema().Equal(other.Schema()) {
		st, err = pc.store.Concat(other.store)
	} else {
		st, err = pc.store.Append(other.store.Rows(), pc.overflow())
	}
	if err != nil {
		return err
	}
	pc.swap(st, true)
	return nil
}

// Concat returns a new cloud holding the points of pc followed by those of
// other. Neither input changes.
func (pc *PointCloud) Concat(other *PointCloud) (*PointCloud, error) {
	out, err := Clone(pc, false)
	if err != nil {
		return nil, err
	}
	if err := out.Extend(other); err != nil {
		return nil, err
	}
	return out, nil
}

// Pop removes and returns the selected rows; a nil key pops the last row.
// The cloud is disorganized.
func (pc *PointCloud) Pop(key RowKey) (*rows.Store, error) {
	if key == nil {
		key = Index(-1)
	}
	idx, err := key.positions(pc.Len())
	if err != nil {
		return nil, err
	}
	popped, err := pc.store.Take(idx)
	if err != nil {
		return nil, err
	}
	rest, err := pc.store.Remove(idx)
	if err != nil {
		return nil, err
	}
	pc.swap(rest, true)
	return popped, nil
}
