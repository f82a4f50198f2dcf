package bvh

import "errors"

var (
	// Returned when the builder is asked to partition zero triangles.
	ErrEmptyRange = errors.New("bvh builder: empty triangle range")

	// Returned when the builder options are not usable.
	ErrInvalidOptions = errors.New("bvh builder: invalid options")
)
