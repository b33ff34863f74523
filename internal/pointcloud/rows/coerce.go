package rows

import (
	"fmt"
	"math"

	"github.com/ccoveille/go-safecast/v2"
	"github.com/x448/float16"

	"github.com/banshee-data/pointcloud/internal/pointcloud/schema"
)

// OverflowPolicy decides what happens to an integer that does not fit its
// column's declared width.
type OverflowPolicy int

const (
	// OverflowReject fails the write with ErrShapeMismatch.
	OverflowReject OverflowPolicy = iota
	// OverflowWrap truncates to the declared width (two's complement).
	OverflowWrap
)

// canonical maps any Go numeric value onto int64, uint64 or float64.
func canonical(v any) (any, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return uint64(n), true
	case uint8:
		return uint64(n), true
	case uint16:
		return uint64(n), true
	case uint32:
		return uint64(n), true
	case uint64:
		return n, true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return nil, false
}

func isScalar(v any) bool {
	_, ok := canonical(v)
	return ok
}

// wholeFloat converts an integral, finite float for an integer column.
func wholeFloat(f float64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, fmt.Errorf("value %v is not an integer: %w", f, ErrShapeMismatch)
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, fmt.Errorf("value %v overflows a 64-bit integer: %w", f, ErrShapeMismatch)
	}
	return int64(f), nil
}

func toInt(v any, size int, p OverflowPolicy) (int64, error) {
	c, ok := canonical(v)
	if !ok {
		return 0, fmt.Errorf("%T is not numeric: %w", v, ErrShapeMismatch)
	}
	var x int64
	switch n := c.(type) {
	case int64:
		x = n
	case uint64:
		if p == OverflowWrap {
			x = int64(n)
			break
		}
		var err error
		if x, err = safecast.Convert[int64](n); err != nil {
			return 0, fmt.Errorf("value %d does not fit i8: %w", n, ErrShapeMismatch)
		}
	case float64:
		var err error
		if x, err = wholeFloat(n); err != nil {
			return 0, err
		}
	}

	if p == OverflowWrap {
		switch size {
		case 1:
			return int64(int8(x)), nil
		case 2:
			return int64(int16(x)), nil
		case 4:
			return int64(int32(x)), nil
		}
		return x, nil
	}

	var err error
	switch size {
	case 1:
		_, err = safecast.Convert[int8](x)
	case 2:
		_, err = safecast.Convert[int16](x)
	case 4:
		_, err = safecast.Convert[int32](x)
	}
	if err != nil {
		return 0, fmt.Errorf("value %d does not fit i%d: %w", x, size, ErrShapeMismatch)
	}
	return x, nil
}

func toUint(v any, size int, p OverflowPolicy) (uint64, error) {
	c, ok := canonical(v)
	if !ok {
		return 0, fmt.Errorf("%T is not numeric: %w", v, ErrShapeMismatch)
	}
	var x uint64
	switch n := c.(type) {
	case uint64:
		x = n
	case int64:
		if p == OverflowWrap {
			x = uint64(n)
			break
		}
		var err error
		if x, err = safecast.Convert[uint64](n); err != nil {
			return 0, fmt.Errorf("value %d does not fit u%d: %w", n, size, ErrShapeMismatch)
		}
	case float64:
		if n >= twoTo63 && n < twoTo64 && n == math.Trunc(n) {
			x = uint64(n)
			break
		}
		i, err := wholeFloat(n)
		if err != nil {
			return 0, err
		}
		return toUint(i, size, p)
	}

	if p == OverflowWrap {
		switch size {
		case 1:
			return uint64(uint8(x)), nil
		case 2:
			return uint64(uint16(x)), nil
		case 4:
			return uint64(uint32(x)), nil
		}
		return x, nil
	}

	var err error
	switch size {
	case 1:
		_, err = safecast.Convert[uint8](x)
	case 2:
		_, err = safecast.Convert[uint16](x)
	case 4:
		_, err = safecast.Convert[uint32](x)
	}
	if err != nil {
		return 0, fmt.Errorf("value %d does not fit u%d: %w", x, size, ErrShapeMismatch)
	}
	return x, nil
}

func toFloat(v any, size int) (float64, error) {
	c, ok := canonical(v)
	if !ok {
		return 0, fmt.Errorf("%T is not numeric: %w", v, ErrShapeMismatch)
	}
	var f float64
	switch n := c.(type) {
	case int64:
		f = float64(n)
	case uint64:
		f = float64(n)
	case float64:
		f = n
	}
	return roundFloat(f, size), nil
}

// roundFloat rounds f to the precision of a float column of the given width.
func roundFloat(f float64, size int) float64 {
	switch size {
	case 2:
		return float64(float16.Fromfloat32(float32(f)).Float32())
	case 4:
		return float64(float32(f))
	}
	return f
}

// fits reports whether v is a single cell for d: a scalar for Count 1, a
// sequence of Count scalars otherwise.
func fits(d schema.Descriptor, v any) bool {
	if d.Count == 1 {
		return isScalar(v)
	}
	elems, ok := schema.Elements(v)
	if !ok || len(elems) != d.Count {
		return false
	}
	for _, e := range elems {
		if !isScalar(e) {
			return false
		}
	}
	return true
}

const (
	twoTo63 = 1 << 63
	twoTo64 = 1 << 64
)

// wrap64 reduces a whole float modulo 2^64 to its two's complement bits.
func wrap64(t float64) uint64 {
	switch {
	case t >= math.MinInt64 && t < twoTo63:
		return uint64(int64(t))
	case t >= 0:
		return uint64(math.Mod(t, twoTo64))
	default:
		return -uint64(-math.Mod(t, twoTo64))
	}
}

// Cast converts v to element type d the way an explicit type conversion
// does: floats round to the width, integers truncate toward zero and wrap to
// the width. NaN and ±Inf become zero in integer types.
func Cast(v float64, d schema.Descriptor) float64 {
	if d.Kind == schema.KindFloat {
		return roundFloat(v, d.Size)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	u := wrap64(math.Trunc(v))
	shift := 64 - 8*uint(d.Size)
	if d.Kind == schema.KindUint {
		return float64(u << shift >> shift)
	}
	return float64(int64(u<<shift) >> shift)
}
