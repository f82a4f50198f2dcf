package types

import "errors"

var (
	// Returned when a size, center or area query is made on a box that has
	// not been grown to include any point.
	ErrUninitializedBox = errors.New("bbox: query on uninitialized bounding box")
)
