package pointcloud

import (
	"errors"

	"github.com/banshee-data/pointcloud/internal/pointcloud/rows"
	"github.com/banshee-data/pointcloud/internal/pointcloud/schema"
)

var (
	// ErrDimensionMismatch is returned when width×height disagrees with the
	// row count, or a dimension is negative.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrIndexArity is returned for keys of unsupported arity, and for
	// row/column access on an unorganized cloud.
	ErrIndexArity = errors.New("index arity error")

	// ErrAmbiguousType is returned by ToPlainArray when the selected fields
	// do not share one element type and promotion is disabled.
	ErrAmbiguousType = errors.New("ambiguous element type")

	// ErrInvalidOrientation is returned for a sensor orientation that cannot
	// be normalized.
	ErrInvalidOrientation = errors.New("invalid sensor orientation")
)

// Errors raised by the schema and rows layers, re-exported so callers only
// need this package for errors.Is checks.
var (
	ErrSchemaFormat    = schema.ErrFormat
	ErrSchemaInference = schema.ErrInference
	ErrSchemaCollision = schema.ErrCollision
	ErrUnknownField    = schema.ErrUnknownField
	ErrFieldOffset     = schema.ErrOffset
	ErrShapeMismatch   = rows.ErrShapeMismatch
	ErrIndexRange      = rows.ErrIndexRange
)
