package schema

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func fieldsOf(t *testing.T, in Input) []Field {
	t.Helper()
	p, err := Parse(in)
	require.NoError(t, err)
	require.False(t, p.RequiresInference)
	return p.Schema.Fields()
}

func TestParseFormsAgree(t *testing.T) {
	want := []Field{
		{Name: "x", Type: MustDescriptor("i1")},
		{Name: "y", Type: MustDescriptor("f2")},
		{Name: "z", Type: MustDescriptor("f2")},
	}

	compact := Specs{Tuple("x", "i1"), Tuple("y", "f2"), Tuple("z", "f2")}
	pcl := Specs{Tuple("x", 1, "I"), Tuple("y", "f", 2), Tuple("z", 2, "F")}

	if diff := cmp.Diff(want, fieldsOf(t, compact)); diff != "" {
		t.Errorf("compact tuples mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, fieldsOf(t, pcl)); diff != "" {
		t.Errorf("pcl tuples mismatch (-want +got):\n%s", diff)
	}

	typed, err := New(want...)
	require.NoError(t, err)
	if diff := cmp.Diff(want, fieldsOf(t, typed)); diff != "" {
		t.Errorf("typed schema mismatch (-want +got):\n%s", diff)
	}
}

func TestParsePCLCount(t *testing.T) {
	got := fieldsOf(t, Specs{Tuple("x", 1, "I"), Tuple("yz", "f", 2, 2), Tuple("n", "4", "u", 3)})
	assert.Equal(t, "[(x, i1) (yz, 2f2) (n, 3u4)]", mustSchema(t, got).String())

	got = fieldsOf(t, Specs{Tuple("a", uint(4), "f"), Tuple("b", uint64(2), "u", uint(3)), Tuple("c", uint16(8), "i")})
	assert.Equal(t, "[(a, f4) (b, 3u2) (c, i8)]", mustSchema(t, got).String())
}

func TestParseNil(t *testing.T) {
	p, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Schema.Len())
	assert.False(t, p.RequiresInference)

	var s *Schema
	p, err = Parse(s)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Schema.Len())
}

func TestParseNamesRequiresInference(t *testing.T) {
	p, err := Parse(Names{"x", "y", "z"})
	require.NoError(t, err)
	assert.True(t, p.RequiresInference)
	assert.Equal(t, []string{"x", "y", "z"}, p.Names)
	assert.Equal(t, 0, p.Schema.Len())
}

func TestParseMixed(t *testing.T) {
	p, err := Parse(Mixed{"x", Tuple("y", "f4")})
	require.NoError(t, err)
	assert.True(t, p.RequiresInference)
	assert.Equal(t, []string{"x", "y"}, p.Names)

	p, err = Parse(Mixed{Tuple("x", "i2"), Tuple("y", "f4")})
	require.NoError(t, err)
	assert.False(t, p.RequiresInference)
	assert.Equal(t, []string{"x", "y"}, p.Schema.Names())

	_, err = Parse(Mixed{3.5})
	assert.ErrorIs(t, err, ErrFormat)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		in   Input
		want error
	}{
		{"malformed compact", Specs{Tuple("x", "q4")}, ErrFormat},
		{"trailing garbage", Specs{Tuple("x", "f4x")}, ErrFormat},
		{"bad pcl size", Specs{Tuple("x", 3, "f")}, ErrFormat},
		{"bad pcl tag", Specs{Tuple("x", 4, "z")}, ErrFormat},
		{"no parts", Specs{Tuple("x")}, ErrFormat},
		{"too many parts", Specs{Tuple("x", 4, "f", 1, 1)}, ErrFormat},
		{"non string compact", Specs{Tuple("x", 4)}, ErrFormat},
		{"two sizes", Specs{Tuple("x", 4, 4)}, ErrFormat},
		{"huge unsigned size", Specs{Tuple("x", uint64(1)<<63, "f")}, ErrFormat},
		{"duplicate spec", Specs{Tuple("x", "f4"), Tuple("x", "f8")}, ErrCollision},
		{"duplicate name", Names{"x", "x"}, ErrCollision},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.in)
			assert.True(t, errors.Is(err, tt.want), "Parse error = %v, want %v", err, tt.want)
		})
	}
}

func TestParseIdempotentProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 8).Draw(t, "fields")
		names := rapid.SliceOfNDistinct(rapid.StringMatching(`[a-z]{1,6}`), n, n, rapid.ID[string]).Draw(t, "names")
		fields := make([]Field, n)
		for i, name := range names {
			fields[i] = Field{Name: name, Type: descriptorGen().Draw(t, "type")}
		}
		s, err := New(fields...)
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		p, err := Parse(s.Specs())
		if err != nil {
			t.Fatalf("Parse(canonical): %v", err)
		}
		if !p.Schema.Equal(s) {
			t.Fatalf("canonical parse changed schema: %s -> %s", s, p.Schema)
		}
		again, err := Parse(p.Schema.Specs())
		if err != nil || !again.Schema.Equal(p.Schema) {
			t.Fatalf("second parse not idempotent: %v", err)
		}
	})
}

func mustSchema(t *testing.T, fields []Field) *Schema {
	t.Helper()
	s, err := New(fields...)
	require.NoError(t, err)
	return s
}
