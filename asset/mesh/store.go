package mesh

import (
	"github.com/achilleasa/meshbvh/types"
	"github.com/pkg/errors"
)

// Number of coordinates that describe a triangle (3 vertices x 3 axes).
const CoordsPerTriangle = 9

// TriangleStore is an immutable, ordered list of triangles. Coordinates are kept
// in a single flat slice where the coordinate for axis a of vertex v of triangle
// i lives at i*9 + v*3 + a. Centroids are computed once at construction.
type TriangleStore struct {
	coords    []float64
	centroids []float64
}

// Create a store from a flat coordinate list. The store takes ownership of
// the slice; callers must not modify it afterwards.
func NewTriangleStore(coords []float64) (*TriangleStore, error) {
	if len(coords)%CoordsPerTriangle != 0 {
		return nil, errors.Wrapf(ErrMalformedInput, "coordinate count %d is not a multiple of %d", len(coords), CoordsPerTriangle)
	}

	count := len(coords) / CoordsPerTriangle
	centroids := make([]float64, 3*count)
	for i := 0; i < count; i++ {
		base := i * CoordsPerTriangle
		for axis := 0; axis < 3; axis++ {
			centroids[3*i+axis] = (coords[base+axis] + coords[base+3+axis] + coords[base+6+axis]) / 3.0
		}
	}

	return &TriangleStore{
		coords:    coords,
		centroids: centroids,
	}, nil
}

// Get the number of triangles in the store.
func (s *TriangleStore) Len() int {
	return len(s.coords) / CoordsPerTriangle
}

// Get vertex v (0-2) of triangle i.
func (s *TriangleStore) Vertex(i, v int) types.Point3 {
	base := i*CoordsPerTriangle + v*3
	return types.Point3{s.coords[base], s.coords[base+1], s.coords[base+2]}
}

// Get the three vertices of triangle i.
func (s *TriangleStore) Triangle(i int) [3]types.Point3 {
	return [3]types.Point3{s.Vertex(i, 0), s.Vertex(i, 1), s.Vertex(i, 2)}
}

// Get the precomputed centroid of triangle i.
func (s *TriangleStore) Centroid(i int) types.Point3 {
	return types.Point3{s.centroids[3*i], s.centroids[3*i+1], s.centroids[3*i+2]}
}

// Get a single centroid coordinate of triangle i.
func (s *TriangleStore) CentroidAxis(i, axis int) float64 {
	return s.centroids[3*i+axis]
}

// Get the tight bounding box of triangle i.
func (s *TriangleStore) BBox(i int) types.BBox {
	box := types.EmptyBBox()
	box.GrowTriangle(s.Triangle(i))
	return box
}
