package rows

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/pointcloud/internal/pointcloud/schema"
)

func layout(t *testing.T, specs ...schema.FieldSpec) *schema.Schema {
	t.Helper()
	p, err := schema.Parse(schema.Specs(specs))
	require.NoError(t, err)
	return p.Schema
}

func xyz(t *testing.T) *Store {
	t.Helper()
	s := layout(t, schema.Tuple("x", "i1"), schema.Tuple("y", "f2"), schema.Tuple("z", "f2"))
	st, err := FromRows(s, [][]any{{1, 2., 3.}, {4, 5., 6.}, {7, 8., 9.}, {10, 11., 12.}}, OverflowReject)
	require.NoError(t, err)
	return st
}

func TestFromRows(t *testing.T) {
	st := xyz(t)
	assert.Equal(t, 4, st.Len())

	want := [][]any{
		{int64(1), 2.0, 3.0},
		{int64(4), 5.0, 6.0},
		{int64(7), 8.0, 9.0},
		{int64(10), 11.0, 12.0},
	}
	if diff := cmp.Diff(want, st.Rows()); diff != "" {
		t.Errorf("Rows mismatch (-want +got):\n%s", diff)
	}

	rec, err := st.At(2)
	require.NoError(t, err)
	assert.True(t, rec.Equal(Record{int64(7), 8.0, 9.0}))

	_, err = st.At(4)
	assert.ErrorIs(t, err, ErrIndexRange)
	_, err = st.At(-1)
	assert.ErrorIs(t, err, ErrIndexRange)
}

func TestFromRowsShapeErrors(t *testing.T) {
	s := layout(t, schema.Tuple("x", "i1"), schema.Tuple("n", "3f4"))
	tests := []struct {
		name string
		rows [][]any
	}{
		{"short row", [][]any{{1}}},
		{"long row", [][]any{{1, []float64{1, 2, 3}, 4}}},
		{"scalar for packed", [][]any{{1, 2.0}}},
		{"short packed", [][]any{{1, []float64{1, 2}}}},
		{"string", [][]any{{"a", []float64{1, 2, 3}}}},
		{"overflow", [][]any{{300, []float64{1, 2, 3}}}},
		{"fractional int", [][]any{{1.5, []float64{1, 2, 3}}}},
		{"nan int", [][]any{{math.NaN(), []float64{1, 2, 3}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromRows(s, tt.rows, OverflowReject)
			assert.ErrorIs(t, err, ErrShapeMismatch)
		})
	}
}

func TestCoercion(t *testing.T) {
	tests := []struct {
		name string
		desc string
		in   any
		p    OverflowPolicy
		want any
	}{
		{"int fits", "i2", int32(-300), OverflowReject, int64(-300)},
		{"int wraps", "i1", 300, OverflowWrap, int64(44)},
		{"uint wraps negative", "u1", -1, OverflowWrap, uint64(255)},
		{"uint from float", "u2", 7.0, OverflowReject, uint64(7)},
		{"float32 rounding", "f4", 0.1, OverflowReject, float64(float32(0.1))},
		{"half rounding", "f2", 2049.0, OverflowReject, 2048.0},
		{"float from uint", "f8", uint8(3), OverflowReject, 3.0},
		{"big uint to i8", "i8", uint64(5), OverflowReject, int64(5)},
		{"float above int64 to u8", "u8", math.Ldexp(1, 63), OverflowReject, uint64(1) << 63},
		{"largest float below 2^64 to u8", "u8", math.Nextafter(math.Ldexp(1, 64), 0), OverflowReject, uint64(math.MaxUint64 - 2047)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := layout(t, schema.Tuple("v", tt.desc))
			st, err := FromRows(s, [][]any{{tt.in}}, tt.p)
			require.NoError(t, err)
			rec, err := st.At(0)
			require.NoError(t, err)
			assert.Equal(t, tt.want, rec[0])
		})
	}
}

func TestCoercionRejects(t *testing.T) {
	tests := []struct {
		desc string
		in   any
	}{
		{"u1", -1},
		{"u4", int64(math.MaxUint32) + 1},
		{"u8", math.Ldexp(1, 64)},
		{"i8", uint64(math.MaxUint64)},
		{"i4", 1e12},
		{"i2", math.Inf(1)},
		{"f4", true},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			s := layout(t, schema.Tuple("v", tt.desc))
			_, err := FromRows(s, [][]any{{tt.in}}, OverflowReject)
			assert.ErrorIs(t, err, ErrShapeMismatch)
		})
	}
}

func TestPackedCells(t *testing.T) {
	s := layout(t, schema.Tuple("x", "i1"), schema.Tuple("yz", "2f2"))
	st, err := FromRows(s, [][]any{{1, []any{2., 3.}}, {4, [2]float32{5, 6}}}, OverflowReject)
	require.NoError(t, err)

	col, err := st.Column("yz")
	require.NoError(t, err)
	assert.Equal(t, []any{[]float64{2, 3}, []float64{5, 6}}, col)

	flat, err := st.Float64s("yz")
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 3, 5, 6}, flat)

	rec, err := st.At(0)
	require.NoError(t, err)
	rec[1].([]float64)[0] = 99
	again, err := st.At(0)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 3}, again[1], "cells must not alias column storage")
}

func TestColumnUnknown(t *testing.T) {
	st := xyz(t)
	_, err := st.Column("w")
	assert.ErrorIs(t, err, schema.ErrUnknownField)
	_, err = st.Float64s("w")
	assert.ErrorIs(t, err, schema.ErrUnknownField)
}

func TestNewZeroed(t *testing.T) {
	st := New(layout(t, schema.Tuple("x", "u2"), schema.Tuple("n", "3f4")), 2)
	assert.Equal(t, [][]any{{uint64(0), []float64{0, 0, 0}}, {uint64(0), []float64{0, 0, 0}}}, st.Rows())

	bare := New(nil, 3)
	assert.Equal(t, 3, bare.Len())
	assert.Equal(t, 0, bare.Schema().Len())
}

func TestEqualCloneContains(t *testing.T) {
	a := xyz(t)
	b := a.Clone()
	assert.True(t, a.Equal(b))

	c, err := a.SetRows([]int{0}, []any{0, 0., 0.}, OverflowReject)
	require.NoError(t, err)
	assert.False(t, a.Equal(c))

	assert.True(t, a.Contains([]any{4, 5, 6}))
	assert.False(t, a.Contains([]any{4, 5, 7}))
	assert.False(t, a.Contains([]any{4, 5}))
	assert.False(t, a.Contains([]any{"x", 5, 6}))
}

func TestCast(t *testing.T) {
	tests := []struct {
		desc string
		in   float64
		want float64
	}{
		{"i1", 1.75, 1},
		{"i1", -2.5, -2},
		{"i1", 300, 44},
		{"u1", -2.5, 254},
		{"u2", 70000, 4464},
		{"i8", math.NaN(), 0},
		{"f2", 2049, 2048},
		{"f8", 0.1, 0.1},
		{"u8", math.Ldexp(1, 64) + 4096, 4096},
		{"i8", -math.Ldexp(1, 64) - 4096, -4096},
		{"u8", math.Ldexp(1, 63), math.Ldexp(1, 63)},
		{"i8", math.Ldexp(1, 63), math.MinInt64},
		{"i4", math.Inf(1), 0},
	}
	for _, tt := range tests {
		got := Cast(tt.in, schema.MustDescriptor(tt.desc))
		assert.Equal(t, tt.want, got, "Cast(%v, %s)", tt.in, tt.desc)
	}
}
