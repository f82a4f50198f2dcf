package reader

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"time"

	"github.com/achilleasa/meshbvh/asset"
	"github.com/achilleasa/meshbvh/asset/scene"
	"github.com/achilleasa/meshbvh/log"
	"github.com/achilleasa/meshbvh/types"
	"github.com/pkg/errors"
)

type binaryReader struct {
	logger log.Logger
}

// Create a new binary BVH reader
func newBinaryReader() *binaryReader {
	return &binaryReader{
		logger: log.New("bvh reader"),
	}
}

// Read BVH tree from a resource.
func (r *binaryReader) Read(res *asset.Resource) (*scene.Tree, error) {
	r.logger.Noticef(`parsing BVH from "%s"`, res.Path())
	start := time.Now()

	data, err := res.ReadAll()
	if err != nil {
		return nil, err
	}

	tree, err := Unmarshal(data)
	if err != nil {
		return nil, errors.Wrapf(err, `could not parse "%s"`, res.Path())
	}

	r.logger.Noticef("loaded BVH with %d nodes in %d ms", len(tree.Nodes), time.Since(start).Nanoseconds()/1e6)
	return tree, nil
}

// Decode a BVH tree from r.
func Deserialize(r io.Reader) (*scene.Tree, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Unmarshal(data)
}

// Decode a BVH tree from its binary representation and validate its structure.
func Unmarshal(data []byte) (*scene.Tree, error) {
	if len(data) < scene.HeaderSize {
		return nil, errors.Wrapf(ErrTruncated, "header requires %d bytes; got %d", scene.HeaderSize, len(data))
	}
	if !bytes.Equal(data[:4], []byte(scene.Magic)) {
		return nil, errors.Wrapf(ErrBadMagic, "got %q", data[:4])
	}

	nodeCount := binary.LittleEndian.Uint32(data[4:])
	indexCount := binary.LittleEndian.Uint32(data[8:])
	expSize := uint64(scene.HeaderSize) + uint64(nodeCount)*scene.NodeRecordSize + uint64(indexCount)*scene.IndexEntrySize
	switch {
	case uint64(len(data)) < expSize:
		return nil, errors.Wrapf(ErrTruncated, "%d nodes and %d indices require %d bytes; got %d", nodeCount, indexCount, expSize, len(data))
	case uint64(len(data)) > expSize:
		return nil, errors.Wrapf(ErrTrailing, "%d bytes after index table", uint64(len(data))-expSize)
	}

	tree := &scene.Tree{
		Nodes:   make([]scene.BvhNode, nodeCount),
		Indices: make([]uint32, indexCount),
	}

	offset := scene.HeaderSize
	for index := range tree.Nodes {
		record := data[offset : offset+scene.NodeRecordSize]
		offset += scene.NodeRecordSize

		var corners [6]float32
		for c := range corners {
			corners[c] = math.Float32frombits(binary.LittleEndian.Uint32(record[4*c:]))
		}

		node := &tree.Nodes[index]
		node.SetBBox(types.BBoxFromVec3(
			types.XYZ(corners[0], corners[1], corners[2]),
			types.XYZ(corners[3], corners[4], corners[5]),
		))

		lData := binary.LittleEndian.Uint32(record[25:])
		rData := binary.LittleEndian.Uint32(record[29:])
		switch record[24] {
		case scene.LeafNodeTag:
			node.SetPrimitives(lData, rData)
		case scene.InternalNodeTag:
			node.SetChildNodes(lData, rData)
		default:
			return nil, errors.Wrapf(ErrBadNode, "node %d has leaf tag %d", index, record[24])
		}
	}

	for index := range tree.Indices {
		tree.Indices[index] = binary.LittleEndian.Uint32(data[offset:])
		offset += scene.IndexEntrySize
	}

	if err := tree.Validate(len(tree.Indices)); err != nil {
		return nil, err
	}
	return tree, nil
}
