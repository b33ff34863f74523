package rows

import "errors"

var (
	// ErrShapeMismatch is returned when supplied data does not fit the
	// declared schema or the addressed region.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrIndexRange is returned for a row position outside the store.
	ErrIndexRange = errors.New("index out of range")
)
