package pointcloud

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/banshee-data/pointcloud/internal/pointcloud/schema"
	"github.com/banshee-data/pointcloud/internal/testutil"
)

func organized(t *rapid.T) *PointCloud {
	w := rapid.IntRange(1, 6).Draw(t, "w")
	h := rapid.IntRange(2, 6).Draw(t, "h")
	pc, err := New(testutil.Grid(w, h), schema.Specs{schema.Tuple("v", "f8")}, WithDimensions(w, h))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return pc
}

// Any change to the row count leaves an unorganized cloud of Len×1.
func TestRowMutationsDisorganize(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		pc := organized(t)
		n := pc.Len()
		var err error
		switch rapid.SampledFrom([]string{"delete", "insert", "append", "pop"}).Draw(t, "op") {
		case "delete":
			err = pc.Delete(Index(rapid.IntRange(0, n-1).Draw(t, "i")))
		case "insert":
			err = pc.Insert([]int{rapid.IntRange(0, n).Draw(t, "i")}, [][]any{{-1.0}})
		case "append":
			err = pc.Append([]any{-1.0})
		case "pop":
			_, err = pc.Pop(nil)
		}
		if err != nil {
			t.Fatalf("mutation: %v", err)
		}
		if pc.Len() == n {
			t.Fatalf("row count unchanged at %d", n)
		}
		if pc.IsOrganized() || pc.Height() != 1 || pc.Width() != pc.Len() {
			t.Fatalf("got %dx%d for %d points", pc.Width(), pc.Height(), pc.Len())
		}
	})
}

// Any divisor of Len is a valid width, and setting the height back restores
// the original grid.
func TestWidthHeightRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		w := rapid.IntRange(1, 8).Draw(t, "w")
		h := rapid.IntRange(1, 8).Draw(t, "h")
		pc, err := New(testutil.Grid(w, h), schema.Specs{schema.Tuple("v", "f8")}, WithDimensions(w, h))
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		n := w * h
		if pc.Width() != w || pc.Height() != h || pc.Len() != n {
			t.Fatalf("got %dx%d for %d points, want %dx%d", pc.Width(), pc.Height(), pc.Len(), w, h)
		}

		var divisors []int
		for d := 1; d <= n; d++ {
			if n%d == 0 {
				divisors = append(divisors, d)
			}
		}
		d := rapid.SampledFrom(divisors).Draw(t, "d")
		if err := pc.SetWidth(d); err != nil {
			t.Fatalf("SetWidth(%d): %v", d, err)
		}
		if pc.Height() != n/d {
			t.Fatalf("width %d gave height %d, want %d", d, pc.Height(), n/d)
		}
		if err := pc.SetHeight(h); err != nil {
			t.Fatalf("SetHeight(%d): %v", h, err)
		}
		if pc.Width() != w || pc.Len() != n {
			t.Fatalf("height %d gave width %d, want %d", h, pc.Width(), w)
		}
	})
}

// Grid cell (r, c) is linear row r*width + c.
func TestGridMatchesLinearIndex(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		pc := organized(t)
		r := rapid.IntRange(0, pc.Height()-1).Draw(t, "r")
		c := rapid.IntRange(0, pc.Width()-1).Draw(t, "c")

		cell, err := pc.Get(Grid{Rows: Index(r), Cols: Index(c)})
		if err != nil {
			t.Fatalf("grid get: %v", err)
		}
		row, err := pc.Get(Index(r*pc.Width() + c))
		if err != nil {
			t.Fatalf("linear get: %v", err)
		}
		if !cell.Equal(row) {
			t.Fatalf("cell (%d, %d) = %v, row = %v", r, c, cell.Rows(), row.Rows())
		}
	})
}

// Appending fields and popping them again restores the original layout and
// values.
func TestAppendPopFieldsRestores(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		pc, err := New(testutil.XYZRows(), testutil.XYZSpecs())
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		before := pc.Data()

		names := rapid.SliceOfNDistinct(rapid.StringMatching(`[a-w]{2,4}`), 1, 4, rapid.ID[string]).Draw(t, "names")
		descs := rapid.SampledFrom([]string{"i1", "u2", "f4", "3f8", "2i4"})
		specs := make(schema.Specs, len(names))
		for i, n := range names {
			specs[i] = schema.Tuple(n, descs.Draw(t, "desc"))
		}

		if err := pc.AppendFields(specs, 1); err != nil {
			t.Fatalf("AppendFields: %v", err)
		}
		if _, err := pc.PopFields(names...); err != nil {
			t.Fatalf("PopFields: %v", err)
		}
		if !pc.Schema().Equal(before.Schema()) || !pc.Data().Equal(before) {
			t.Fatalf("got %s, want %s", pc.Schema(), before.Schema())
		}
	})
}
