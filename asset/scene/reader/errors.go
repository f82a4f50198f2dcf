package reader

import "errors"

var (
	ErrBadMagic  = errors.New("bvh reader: missing BVH1 magic")
	ErrTruncated = errors.New("bvh reader: unexpected end of data")
	ErrTrailing  = errors.New("bvh reader: unexpected trailing data")
	ErrBadNode   = errors.New("bvh reader: malformed node record")
)
