package vector

import "errors"

var (
	// ErrCorruptData marks stored vector bytes or metadata that cannot be trusted.
	// Records failing with it must be recomputed.
	ErrCorruptData = errors.New("corrupt vector data")

	// ErrDimensionMismatch is returned when two vectors (or a vector and its
	// declared dimensionality) disagree in length.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
)
