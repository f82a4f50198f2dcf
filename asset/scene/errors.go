package scene

import "errors"

var (
	// Returned when a tree violates a structural invariant.
	ErrInvalidTree = errors.New("bvh tree: invalid structure")
)
