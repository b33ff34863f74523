// Package testutil provides shared test utilities and fixtures.
//
// This package centralises the point layouts and sample rows used across the
// point cloud test files.
package testutil

import (
	"errors"
	"testing"

	"github.com/banshee-data/pointcloud/internal/pointcloud/schema"
)

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// AssertErrorIs fails the test unless err wraps target.
func AssertErrorIs(t *testing.T, err, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("error = %v, want %v", err, target)
	}
}

// XYZSpecs is the mixed-type layout shared by the container tests:
// an i1 x and half-precision y and z.
func XYZSpecs() schema.Specs {
	return schema.Specs{
		schema.Tuple("x", "i1"),
		schema.Tuple("y", "f2"),
		schema.Tuple("z", "f2"),
	}
}

// XYZRows returns four sample rows matching XYZSpecs. Every value is exact
// in its column type.
func XYZRows() [][]any {
	return [][]any{
		{1, 2.0, 3.0},
		{4, 5.0, 6.0},
		{7, 8.0, 9.0},
		{10, 11.0, 12.0},
	}
}

// Grid returns w*h rows for a single f4 field "v" holding the row index.
func Grid(w, h int) [][]any {
	out := make([][]any, w*h)
	for i := range out {
		out[i] = []any{float64(i)}
	}
	return out
}
