package types

import (
	"math"

	"github.com/pkg/errors"
)

// An axis-aligned bounding box. The zero value is NOT an empty box; use
// EmptyBBox to obtain a box that can be grown.
type BBox struct {
	Min Point3
	Max Point3
}

// Create an empty box with min = +inf and max = -inf on every axis.
func EmptyBBox() BBox {
	return BBox{
		Min: Point3{math.Inf(1), math.Inf(1), math.Inf(1)},
		Max: Point3{math.Inf(-1), math.Inf(-1), math.Inf(-1)},
	}
}

// Create a box from a pair of float32 corners.
func BBoxFromVec3(min, max Vec3) BBox {
	return BBox{Min: min.Point3(), Max: max.Point3()}
}

// Returns true if the box has not been grown yet.
func (b BBox) IsEmpty() bool {
	return b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1] || b.Min[2] > b.Max[2]
}

// Grow the box so it includes p.
func (b *BBox) GrowPoint(p Point3) {
	b.Min = MinPoint3(b.Min, p)
	b.Max = MaxPoint3(b.Max, p)
}

// Grow the box so it includes all three triangle vertices.
func (b *BBox) GrowTriangle(tri [3]Point3) {
	b.GrowPoint(tri[0])
	b.GrowPoint(tri[1])
	b.GrowPoint(tri[2])
}

// Grow the box so it includes another box. Growing by an empty box is a no-op.
func (b *BBox) GrowBBox(other BBox) {
	if other.IsEmpty() {
		return
	}
	b.GrowPoint(other.Min)
	b.GrowPoint(other.Max)
}

// Return the smallest box containing both a and b.
func Union(a, b BBox) BBox {
	out := a
	out.GrowBBox(b)
	return out
}

// Return the 8 box corners.
func (b BBox) Corners() [8]Point3 {
	var corners [8]Point3
	for i := 0; i < 8; i++ {
		for axis := 0; axis < 3; axis++ {
			if i&(1<<uint(axis)) == 0 {
				corners[i][axis] = b.Min[axis]
			} else {
				corners[i][axis] = b.Max[axis]
			}
		}
	}
	return corners
}

// Get the box extents.
func (b BBox) Size() (Point3, error) {
	if b.IsEmpty() {
		return Point3{}, errors.Wrap(ErrUninitializedBox, "size")
	}
	return b.Max.Sub(b.Min), nil
}

// Get the box center.
func (b BBox) Center() (Point3, error) {
	if b.IsEmpty() {
		return Point3{}, errors.Wrap(ErrUninitializedBox, "center")
	}
	return b.Min.Add(b.Max).Mul(0.5), nil
}

// Get the box surface area. Degenerate (flat or point) boxes have a
// well-defined area which may be 0.
func (b BBox) SurfaceArea() (float64, error) {
	side, err := b.Size()
	if err != nil {
		return 0, errors.Wrap(err, "surface area")
	}
	return 2 * (side[0]*side[1] + side[1]*side[2] + side[0]*side[2]), nil
}

// Returns true if the box has zero extent on all axes.
func (b BBox) IsPoint() (bool, error) {
	side, err := b.Size()
	if err != nil {
		return false, err
	}
	return side[0] == 0 && side[1] == 0 && side[2] == 0, nil
}

// Returns the index of the axis with the largest extent. Ties resolve to the
// lowest axis.
func (b BBox) LongestAxis() (int, error) {
	side, err := b.Size()
	if err != nil {
		return 0, err
	}
	axis := 0
	if side[1] > side[axis] {
		axis = 1
	}
	if side[2] > side[axis] {
		axis = 2
	}
	return axis, nil
}

// Narrow the box corners to float32.
func (b BBox) Vec3() (min, max Vec3) {
	return Vec3FromPoint3(b.Min), Vec3FromPoint3(b.Max)
}
