package mesh

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/achilleasa/meshbvh/asset"
	"github.com/achilleasa/meshbvh/log"
	"github.com/pkg/errors"
)

// Supported triangle record strides (in float32 values).
const (
	// Three vertices per triangle.
	VertexStride = 9

	// Three vertices followed by a per-triangle normal which is ignored.
	VertexNormalStride = 12
)

var logger = log.New("mesh loader")

// Load a triangle store from a resource containing little-endian float32
// triangle records of the given stride. A zero stride selects VertexStride.
func Load(res *asset.Resource, stride int) (*TriangleStore, error) {
	logger.Noticef(`loading triangles from "%s"`, res.Path())
	start := time.Now()

	data, err := res.ReadAll()
	if err != nil {
		return nil, err
	}

	store, err := Decode(data, stride)
	if err != nil {
		return nil, errors.Wrapf(err, `could not load "%s"`, res.Path())
	}

	logger.Noticef("loaded %d triangles in %d ms", store.Len(), time.Since(start).Nanoseconds()/1e6)
	return store, nil
}

// Decode a triangle store from raw little-endian float32 triangle records.
func Decode(data []byte, stride int) (*TriangleStore, error) {
	if stride == 0 {
		stride = VertexStride
	}
	if stride != VertexStride && stride != VertexNormalStride {
		return nil, errors.Errorf("unsupported triangle stride %d; expected %d or %d", stride, VertexStride, VertexNormalStride)
	}

	recordSize := 4 * stride
	if len(data)%recordSize != 0 {
		return nil, errors.Wrapf(
			ErrMalformedInput,
			"input size %d bytes is not a multiple of the %d byte triangle record (%d trailing bytes)",
			len(data), recordSize, len(data)%recordSize,
		)
	}

	count := len(data) / recordSize
	coords := make([]float64, count*CoordsPerTriangle)
	for i := 0; i < count; i++ {
		record := data[i*recordSize:]
		for c := 0; c < CoordsPerTriangle; c++ {
			bits := binary.LittleEndian.Uint32(record[4*c:])
			coords[i*CoordsPerTriangle+c] = float64(math.Float32frombits(bits))
		}
	}

	return NewTriangleStore(coords)
}

// Encode triangle i of the store as a little-endian float32 record of VertexStride values.
func AppendTriangle(buf []byte, store *TriangleStore, i int) []byte {
	for v := 0; v < 3; v++ {
		vertex := store.Vertex(i, v)
		for axis := 0; axis < 3; axis++ {
			buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(float32(vertex[axis])))
		}
	}
	return buf
}
