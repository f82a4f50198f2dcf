package types

import (
	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/image/math/f32"
)

// Vec3 is the float32 vector used for values that are read from or written to disk.
type Vec3 f32.Vec3

// Point3 is the double-precision point used while building.
type Point3 = mgl64.Vec3

// Define a 3 component float32 vector.
func XYZ(x, y, z float32) Vec3 {
	return Vec3{x, y, z}
}

// Widen to a double-precision point.
func (v Vec3) Point3() Point3 {
	return Point3{float64(v[0]), float64(v[1]), float64(v[2])}
}

// Narrow a double-precision point to a float32 vector.
func Vec3FromPoint3(p Point3) Vec3 {
	return Vec3{float32(p[0]), float32(p[1]), float32(p[2])}
}

// Calc min component from two points.
func MinPoint3(p1, p2 Point3) Point3 {
	out := p1
	for axis := 0; axis < 3; axis++ {
		if p2[axis] < out[axis] || p2[axis] != p2[axis] {
			out[axis] = p2[axis]
		}
	}
	return out
}

// Calc max component from two points.
func MaxPoint3(p1, p2 Point3) Point3 {
	out := p1
	for axis := 0; axis < 3; axis++ {
		if p2[axis] > out[axis] || p2[axis] != p2[axis] {
			out[axis] = p2[axis]
		}
	}
	return out
}
