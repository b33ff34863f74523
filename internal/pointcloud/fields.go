package pointcloud

import (
	"fmt"
	"reflect"

	"github.com/banshee-data/pointcloud/internal/monitoring"
	"github.com/banshee-data/pointcloud/internal/pointcloud/rows"
	"github.com/banshee-data/pointcloud/internal/pointcloud/schema"
)

// Offsets places new fields for InsertFields.
type Offsets interface {
	offsets(fields []schema.Field) ([]int, error)
}

// Positions gives one insertion offset per new field, in declared order.
// Offsets refer to the schema before insertion.
type Positions []int

// ByName gives the insertion offset of each new field by name.
type ByName map[string]int

func (p Positions) offsets([]schema.Field) ([]int, error) { return p, nil }

func (b ByName) offsets(fields []schema.Field) ([]int, error) {
	out := make([]int, len(fields))
	for i, f := range fields {
		off, ok := b[f.Name]
		if !ok {
			return nil, fmt.Errorf("no offset for field %q: %w", f.Name, schema.ErrFormat)
		}
		out[i] = off
	}
	return out, nil
}

// AppendFields adds fields after the existing ones and backfills them from
// data. Existing values are kept; unfilled new columns are zero.
//
// data may be nil, a map keyed by field name, a row store or cloud
// holding same-named columns, a sequence with one value per new field, or
// a scalar broadcast to every new field. Each value is either broadcast or
// taken as a whole column.
func (pc *PointCloud) AppendFields(fields schema.Input, data any) error {
	added, err := newFields(fields)
	if err != nil {
		return err
	}
	target, err := pc.Schema().Append(added...)
	if err != nil {
		return err
	}
	return pc.rebuild("append_fields", target, added, data)
}

// InsertFields adds fields at the given offsets and backfills them like
// AppendFields. Fields sharing an offset keep their declared order.
func (pc *PointCloud) InsertFields(fields schema.Input, offsets Offsets, data any) error {
	added, err := newFields(fields)
	if err != nil {
		return err
	}
	if offsets == nil {
		return fmt.Errorf("insert_fields needs offsets: %w", schema.ErrFormat)
	}
	offs, err := offsets.offsets(added)
	if err != nil {
		return err
	}
	target, err := pc.Schema().Insert(added, offs)
	if err != nil {
		return err
	}
	return pc.rebuild("insert_fields", target, added, data)
}

// PopFields removes the named fields and returns their columns.
func (pc *PointCloud) PopFields(names ...string) (*rows.Store, error) {
	popped, err := pc.store.Select(names...)
	if err != nil {
		return nil, err
	}
	if err := pc.deleteFields(names); err != nil {
		return nil, err
	}
	return popped, nil
}

func newFields(in schema.Input) ([]schema.Field, error) {
	p, err := schema.Parse(in)
	if err != nil {
		return nil, err
	}
	if p.RequiresInference {
		return nil, fmt.Errorf("fields %v need descriptors: %w", p.Names, schema.ErrInference)
	}
	return p.Schema.Fields(), nil
}

// rebuild reshapes to target and backfills the added columns. pc only
// changes once everything succeeded.
func (pc *PointCloud) rebuild(op string, target *schema.Schema, added []schema.Field, data any) error {
	st, err := backfill(pc.store.Reshape(target), added, data, pc.overflow())
	if err != nil {
		return err
	}
	pc.swap(st, false)
	monitoring.Opf(op, "added %d fields, schema now %s", len(added), target)
	return nil
}

func backfill(st *rows.Store, added []schema.Field, data any, p rows.OverflowPolicy) (*rows.Store, error) {
	if m, ok := stringMap(data); ok {
		data = m
	}
	var err error
	switch d := data.(type) {
	case nil:
		return st, nil
	case map[string]any:
		for _, f := range added {
			v, ok := d[f.Name]
			if !ok {
				continue
			}
			if st, err = st.Fill(f.Name, v, p); err != nil {
				return nil, err
			}
		}
		return st, nil
	case *PointCloud:
		return copyColumns(st, added, d.store, p)
	case *rows.Store:
		return copyColumns(st, added, d, p)
	}

	if _, ok := schema.ScalarType(data); ok {
		for _, f := range added {
			if st, err = st.Fill(f.Name, data, p); err != nil {
				return nil, err
			}
		}
		return st, nil
	}

	elems, ok := schema.Elements(data)
	if !ok {
		return nil, fmt.Errorf("cannot backfill from %T: %w", data, rows.ErrShapeMismatch)
	}
	if len(elems) != len(added) {
		return nil, fmt.Errorf("%d values for %d new fields: %w", len(elems), len(added), rows.ErrShapeMismatch)
	}
	for i, f := range added {
		if st, err = st.Fill(f.Name, elems[i], p); err != nil {
			return nil, err
		}
	}
	return st, nil
}

// stringMap converts any map keyed by a string type, such as
// map[string][]float64, into map[string]any.
func stringMap(v any) (map[string]any, bool) {
	if m, ok := v.(map[string]any); ok {
		return m, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}

func copyColumns(st *rows.Store, added []schema.Field, src *rows.Store, p rows.OverflowPolicy) (*rows.Store, error) {
	var err error
	for _, f := range added {
		if !src.Schema().Has(f.Name) {
			continue
		}
		if st, err = st.CopyColumn(f.Name, src, f.Name, p); err != nil {
			return nil, err
		}
	}
	return st, nil
}
