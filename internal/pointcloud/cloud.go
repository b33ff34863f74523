package pointcloud

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/num/quat"

	"github.com/banshee-data/pointcloud/internal/config"
	"github.com/banshee-data/pointcloud/internal/monitoring"
	"github.com/banshee-data/pointcloud/internal/pointcloud/rows"
	"github.com/banshee-data/pointcloud/internal/pointcloud/schema"
)

// PointCloud is a typed collection of points. When organized, Width×Height
// equals Len and rows are laid out row-major; otherwise Height is 1.
type PointCloud struct {
	store       *rows.Store
	width       int
	height      int
	origin      [4]float64
	orientation quat.Number
	cfg         *config.CloudConfig
}

// Option configures New and Clone.
type Option func(*options)

type options struct {
	width, height int
	indices       RowKey
	cfg           *config.CloudConfig
}

// WithWidth sets the grid width.
func WithWidth(w int) Option { return func(o *options) { o.width = w } }

// WithHeight sets the grid height.
func WithHeight(h int) Option { return func(o *options) { o.height = h } }

// WithDimensions sets both grid dimensions.
func WithDimensions(w, h int) Option {
	return func(o *options) { o.width, o.height = w, h }
}

// WithIndices keeps only the selected rows of the constructed cloud.
func WithIndices(k RowKey) Option { return func(o *options) { o.indices = k } }

// WithConfig sets the behavioural policies. A nil config uses the defaults.
func WithConfig(cfg *config.CloudConfig) Option { return func(o *options) { o.cfg = cfg } }

func collect(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

var identity = quat.Number{Real: 1}

// New builds a cloud from row-major points described by fields.
//
// Dimensions resolve as follows: with no width, supplied rows make an
// unorganized cloud and a bare height stands in for the width. A width
// without height implies height 1. Without points, width×height zeroed rows
// are allocated; with points, width×height must equal their count.
func New(points [][]any, fields schema.Input, opts ...Option) (*PointCloud, error) {
	o := collect(opts)

	parsed, err := schema.Parse(fields)
	if err != nil {
		return nil, err
	}
	s := parsed.Schema
	if parsed.RequiresInference {
		if points == nil {
			return nil, fmt.Errorf("fields %v need sample points: %w", parsed.Names, schema.ErrInference)
		}
		if s, err = schema.Infer(parsed.Names, points); err != nil {
			return nil, err
		}
	}

	if o.width < 0 || o.height < 0 {
		return nil, fmt.Errorf("width %d, height %d: %w", o.width, o.height, ErrDimensionMismatch)
	}

	pc := &PointCloud{orientation: identity, cfg: o.cfg}
	n := len(points)
	w, h, err := resolveDimensions(o.width, o.height, n)
	if err != nil {
		return nil, err
	}

	var st *rows.Store
	if n > 0 {
		if st, err = rows.FromRows(s, points, pc.overflow()); err != nil {
			return nil, err
		}
	} else {
		for _, f := range s.Fields() {
			if w*h > math.MaxInt/f.Type.Count {
				return nil, fmt.Errorf("%dx%d grid of field %s overflows: %w", w, h, f, ErrDimensionMismatch)
			}
		}
		st = rows.New(s, w*h)
	}
	pc.store, pc.width, pc.height = st, w, h

	if o.indices != nil {
		if err := pc.project(o.indices); err != nil {
			return nil, err
		}
	}
	return pc, nil
}

func resolveDimensions(w, h, n int) (int, int, error) {
	if w == 0 {
		switch {
		case n > 0:
			w, h = n, 1
		case h > 0:
			w, h = h, 1
		}
	}
	if w > 0 && h == 0 {
		h = 1
	}
	if h > 0 && w > math.MaxInt/h {
		return 0, 0, fmt.Errorf("%dx%d grid overflows the point count: %w", w, h, ErrDimensionMismatch)
	}
	if n > 0 && w*h != n {
		return 0, 0, fmt.Errorf("%dx%d grid for %d points: %w", w, h, n, ErrDimensionMismatch)
	}
	return w, h, nil
}

// project keeps the rows selected by k.
func (pc *PointCloud) project(k RowKey) error {
	idx, err := k.positions(pc.Len())
	if err != nil {
		return err
	}
	st, err := pc.store.Take(idx)
	if err != nil {
		return err
	}
	pc.swap(st, true)
	return nil
}

// Clone copies src. Column storage is immutable and shared between clones,
// so a shallow clone only differs from a deep one in memory use; deep
// copies every column. Options override src's config and may project rows.
func Clone(src *PointCloud, deep bool, opts ...Option) (*PointCloud, error) {
	o := collect(opts)
	pc := *src
	if deep {
		pc.store = src.store.Clone()
	}
	if o.cfg != nil {
		pc.cfg = o.cfg
	}
	if o.indices != nil {
		if err := pc.project(o.indices); err != nil {
			return nil, err
		}
	}
	return &pc, nil
}

// swap installs st. When the row count or order changed, the cloud loses
// its grid layout.
func (pc *PointCloud) swap(st *rows.Store, reordered bool) {
	pc.store = st
	if reordered {
		pc.Disorganize()
	}
}

func (pc *PointCloud) overflow() rows.OverflowPolicy {
	if pc.cfg.GetIntegerOverflow() == config.OverflowWrap {
		return rows.OverflowWrap
	}
	return rows.OverflowReject
}

// Config returns the cloud's policies. It may be nil, meaning defaults.
func (pc *PointCloud) Config() *config.CloudConfig { return pc.cfg }

// Len is the number of points.
func (pc *PointCloud) Len() int { return pc.store.Len() }

// Width is the grid width, or the point count when unorganized.
func (pc *PointCloud) Width() int { return pc.width }

// Height is the grid height, 1 when unorganized.
func (pc *PointCloud) Height() int { return pc.height }

// IsOrganized reports whether the cloud is a grid of more than one row.
func (pc *PointCloud) IsOrganized() bool { return pc.height > 1 }

// Schema returns the current field layout.
func (pc *PointCloud) Schema() *schema.Schema { return pc.store.Schema() }

// Names returns the field names in order.
func (pc *PointCloud) Names() []string { return pc.store.Schema().Names() }

// Fields returns the fields in order.
func (pc *PointCloud) Fields() []schema.Field { return pc.store.Schema().Fields() }

// Data returns the current row store. It is an immutable snapshot.
func (pc *PointCloud) Data() *rows.Store { return pc.store }

// SetData replaces all rows, keeping the schema. A changed row count
// disorganizes the cloud.
func (pc *PointCloud) SetData(points [][]any) error {
	st, err := rows.FromRows(pc.Schema(), points, pc.overflow())
	if err != nil {
		return err
	}
	pc.swap(st, st.Len() != pc.Len())
	return nil
}

// Disorganize drops the grid layout: Width becomes Len and Height 1.
func (pc *PointCloud) Disorganize() {
	if pc.IsOrganized() {
		monitoring.Opf("disorganize", "dropping %dx%d grid for %d points", pc.width, pc.height, pc.Len())
	}
	pc.width, pc.height = pc.Len(), 1
}

// SetWidth reshapes the grid to width w. Len must be divisible by w; the
// height follows. An empty cloud only accepts 0.
func (pc *PointCloud) SetWidth(w int) error {
	h, err := pc.otherDimension("width", w)
	if err != nil {
		return err
	}
	pc.width, pc.height = w, h
	return nil
}

// SetHeight reshapes the grid to height h, the width following.
func (pc *PointCloud) SetHeight(h int) error {
	w, err := pc.otherDimension("height", h)
	if err != nil {
		return err
	}
	pc.width, pc.height = w, h
	return nil
}

func (pc *PointCloud) otherDimension(name string, v int) (int, error) {
	n := pc.Len()
	if n == 0 {
		if v != 0 {
			return 0, fmt.Errorf("%s %d for an empty cloud: %w", name, v, ErrDimensionMismatch)
		}
		return 0, nil
	}
	if v <= 0 || v > n || n%v != 0 {
		return 0, fmt.Errorf("%s %d does not divide %d points: %w", name, v, n, ErrDimensionMismatch)
	}
	return n / v, nil
}
