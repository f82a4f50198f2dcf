package mesh

import "errors"

var (
	// Returned when the input is not an exact multiple of the triangle record size.
	ErrMalformedInput = errors.New("mesh: malformed triangle input")
)
