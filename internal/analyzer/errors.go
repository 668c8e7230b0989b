package analyzer

import "errors"

var (
	// ErrNilInput is returned when Analyze is called without an input.
	ErrNilInput = errors.New("nil permutation input")

	// ErrMissingSizeMap is returned when an input carries no size map.
	ErrMissingSizeMap = errors.New("permutation input has no size map")
)
