package mesh

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/achilleasa/meshbvh/asset"
	"github.com/achilleasa/meshbvh/types"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func encodeFloats(values ...float32) []byte {
	buf := make([]byte, 0, 4*len(values))
	for _, v := range values {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v))
	}
	return buf
}

func TestTriangleStoreAccessors(t *testing.T) {
	store, err := NewTriangleStore([]float64{
		0, 0, 0, 3, 0, 0, 0, 3, 0,
		1, 1, 1, 1, 4, 1, 1, 1, 7,
	})
	require.NoError(t, err)
	require.Equal(t, 2, store.Len())

	require.Equal(t, types.Point3{3, 0, 0}, store.Vertex(0, 1))
	require.Equal(t, [3]types.Point3{{1, 1, 1}, {1, 4, 1}, {1, 1, 7}}, store.Triangle(1))
	require.Equal(t, types.Point3{1, 1, 0}, store.Centroid(0))
	require.Equal(t, 3.0, store.CentroidAxis(1, 2))

	box := store.BBox(1)
	require.Equal(t, types.Point3{1, 1, 1}, box.Min)
	require.Equal(t, types.Point3{1, 4, 7}, box.Max)
}

func TestTriangleStoreRejectsPartialTriangles(t *testing.T) {
	_, err := NewTriangleStore(make([]float64, 10))
	require.True(t, errors.Is(err, ErrMalformedInput), "expected ErrMalformedInput; got %v", err)
}

func TestDecodeVertexStride(t *testing.T) {
	data := encodeFloats(
		0, 0, 0, 1, 0, 0, 0, 1, 0,
		2, 2, 2, 3, 2, 2, 2, 3, 2,
	)

	store, err := Decode(data, 0)
	require.NoError(t, err)
	require.Equal(t, 2, store.Len())
	require.Equal(t, types.Point3{3, 2, 2}, store.Vertex(1, 1))
}

func TestDecodeIgnoresTrailingNormals(t *testing.T) {
	data := encodeFloats(
		0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1,
		5, 5, 5, 6, 5, 5, 5, 6, 5, 0, 0, -1,
	)

	store, err := Decode(data, VertexNormalStride)
	require.NoError(t, err)
	require.Equal(t, 2, store.Len())
	require.Equal(t, [3]types.Point3{{5, 5, 5}, {6, 5, 5}, {5, 6, 5}}, store.Triangle(1))
}

func TestDecodeMalformedInput(t *testing.T) {
	data := encodeFloats(0, 0, 0, 1, 0, 0, 0, 1)

	_, err := Decode(data, VertexStride)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrMalformedInput), "expected ErrMalformedInput; got %v", err)
	require.Contains(t, err.Error(), "not a multiple of the 36 byte triangle record")

	// A valid 9-float file is malformed when read with the normal stride
	_, err = Decode(encodeFloats(make([]float32, 9)...), VertexNormalStride)
	require.True(t, errors.Is(err, ErrMalformedInput), "expected ErrMalformedInput; got %v", err)
}

func TestDecodeUnsupportedStride(t *testing.T) {
	_, err := Decode(nil, 7)
	require.EqualError(t, err, "unsupported triangle stride 7; expected 9 or 12")
}

func TestLoadFromResource(t *testing.T) {
	data := encodeFloats(0.5, 0, 0, 1, 0, 0, 0, 1, 0.25)
	res := asset.NewResourceFromBytes("mesh.bin", data)
	defer res.Close()

	store, err := Load(res, VertexStride)
	require.NoError(t, err)
	require.Equal(t, 1, store.Len())
	require.Equal(t, types.Point3{0.5, 0, 0}, store.Vertex(0, 0))
}

func TestLoadReportsPath(t *testing.T) {
	res := asset.NewResourceFromBytes("broken.bin", []byte{1, 2, 3})
	defer res.Close()

	_, err := Load(res, VertexStride)
	require.Error(t, err)
	require.Contains(t, err.Error(), `"broken.bin"`)
}

func TestAppendTriangle(t *testing.T) {
	data := encodeFloats(1, 2, 3, 4, 5, 6, 7, 8, 9)
	store, err := Decode(data, VertexStride)
	require.NoError(t, err)
	require.Equal(t, data, AppendTriangle(nil, store, 0))
}
