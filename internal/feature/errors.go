package feature

import "errors"

var (
	// ErrInvalidOptions reports non-positive sizes passed to a constructor.
	ErrInvalidOptions = errors.New("feature: invalid options")

	// ErrDimensionMismatch reports two block images whose patches cannot be
	// compared because their dimensions differ.
	ErrDimensionMismatch = errors.New("feature: patch dimension mismatch")
)
