package pointcloud

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/pointcloud/internal/pointcloud/schema"
	"github.com/banshee-data/pointcloud/internal/testutil"
)

func TestRowLifecycle(t *testing.T) {
	pc := xyzCloud(t)

	require.NoError(t, pc.Delete(Indices{1, 3}))
	assert.Equal(t, []any{int64(1), int64(7)}, column(t, pc.Data(), "x"))

	require.NoError(t, pc.Insert([]int{1}, [][]any{{4, 5, 6}}))
	assert.Equal(t, []any{int64(1), int64(4), int64(7)}, column(t, pc.Data(), "x"))

	require.NoError(t, pc.Append([]any{10, 11, 12}))
	assert.Equal(t, 4, pc.Len())

	popped, err := pc.Pop(nil)
	require.NoError(t, err)
	assert.Equal(t, [][]any{{int64(10), 11.0, 12.0}}, popped.Rows())
	assert.Equal(t, 3, pc.Len())

	require.NoError(t, pc.Extend(pc))
	assert.Equal(t, 6, pc.Len())
	assert.Equal(t, 6, pc.Width())
	assert.Equal(t, 1, pc.Height())
}

func TestOrganizedRowLifecycle(t *testing.T) {
	pc := xyzCloud(t, WithDimensions(2, 2))
	require.True(t, pc.IsOrganized())

	require.NoError(t, pc.Delete(Indices{1, 3}))
	assert.Equal(t, []any{int64(1), int64(7)}, column(t, pc.Data(), "x"))
	assert.Equal(t, 2, pc.Width())
	assert.Equal(t, 1, pc.Height())

	require.NoError(t, pc.Insert([]int{1, 2}, [][]any{{4, 5, 6}, {10, 11, 12}}))
	assert.Equal(t, []any{int64(1), int64(4), int64(7), int64(10)}, column(t, pc.Data(), "x"))
	assert.Equal(t, [][]any{
		{int64(1), 2.0, 3.0},
		{int64(4), 5.0, 6.0},
		{int64(7), 8.0, 9.0},
		{int64(10), 11.0, 12.0},
	}, pc.Snapshot())

	require.NoError(t, pc.Append([]any{0, 0, 0}))
	popped, err := pc.Pop(nil)
	require.NoError(t, err)
	assert.Equal(t, [][]any{{int64(0), 0.0, 0.0}}, popped.Rows())

	tail, err := New([][]any{{13, 14, 15}, {16, 17, 18}}, testutil.XYZSpecs())
	require.NoError(t, err)
	require.NoError(t, pc.Extend(tail))
	assert.Equal(t, 6, pc.Len())
	assert.Equal(t, 6, pc.Width())
	assert.Equal(t, 1, pc.Height())
	assert.False(t, pc.IsOrganized())
}

func TestInsertErrors(t *testing.T) {
	pc := xyzCloud(t)
	testutil.AssertErrorIs(t, pc.Insert([]int{9}, [][]any{{1, 1, 1}}), ErrIndexRange)
	testutil.AssertErrorIs(t, pc.Insert([]int{0, 1}, [][]any{{1, 1, 1}}), ErrShapeMismatch)
	testutil.AssertErrorIs(t, pc.Append([]any{1}), ErrShapeMismatch)
	assert.Equal(t, 4, pc.Len())
}

func TestInsertDisorganizes(t *testing.T) {
	pc := gridCloud(t, 2, 2)
	require.NoError(t, pc.Insert([]int{0}, [][]any{{-1}}))
	assert.False(t, pc.IsOrganized())
	assert.Equal(t, 5, pc.Width())
	assert.Equal(t, []any{-1.0}, pc.Snapshot()[0])
}

func TestPop(t *testing.T) {
	pc := xyzCloud(t)
	popped, err := pc.Pop(Indices{0, 2})
	require.NoError(t, err)
	assert.Equal(t, []any{int64(1), int64(7)}, column(t, popped, "x"))
	assert.Equal(t, []any{int64(4), int64(10)}, column(t, pc.Data(), "x"))

	empty, err := New(nil, testutil.XYZSpecs())
	require.NoError(t, err)
	_, err = empty.Pop(nil)
	testutil.AssertErrorIs(t, err, ErrIndexRange)
}

func TestExtendConverts(t *testing.T) {
	pc := xyzCloud(t)
	wide, err := New([][]any{{int64(3), 0.25, 0.5}}, schema.Specs{
		schema.Tuple("x", "i8"),
		schema.Tuple("y", "f8"),
		schema.Tuple("z", "f8"),
	})
	require.NoError(t, err)

	require.NoError(t, pc.Extend(wide))
	assert.Equal(t, []any{int64(3), 0.25, 0.5}, pc.Snapshot()[4])
	assert.Equal(t, "[(x, i1) (y, f2) (z, f2)]", pc.Schema().String(), "receiver keeps its layout")

	other, err := New([][]any{{1}}, schema.Specs{schema.Tuple("x", "i1")})
	require.NoError(t, err)
	testutil.AssertErrorIs(t, pc.Extend(other), ErrShapeMismatch)
}

func TestConcat(t *testing.T) {
	a := xyzCloud(t)
	b := xyzCloud(t)
	out, err := a.Concat(b)
	require.NoError(t, err)
	assert.Equal(t, 8, out.Len())
	assert.Equal(t, 4, a.Len())
	assert.Equal(t, 4, b.Len())
}
