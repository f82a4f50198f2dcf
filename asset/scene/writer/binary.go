package writer

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/achilleasa/meshbvh/asset/scene"
	"github.com/achilleasa/meshbvh/log"
	"github.com/pkg/errors"
)

type binaryWriter struct {
	logger   log.Logger
	filename string
}

// Create a new binary BVH writer
func newBinaryWriter(filename string) *binaryWriter {
	return &binaryWriter{
		logger:   log.New("bvh writer"),
		filename: filename,
	}
}

// Write BVH tree to file.
func (w *binaryWriter) Write(tree *scene.Tree) error {
	w.logger.Noticef(`writing BVH to "%s"`, w.filename)
	start := time.Now()

	data, err := Marshal(tree)
	if err != nil {
		return err
	}
	if err = writeFileAtomic(w.filename, data); err != nil {
		return err
	}

	w.logger.Noticef("wrote %d bytes in %d ms", len(data), time.Since(start).Nanoseconds()/1e6)
	return nil
}

// A tree flattened in pre-order.
type flatTree struct {
	// Indices of the reachable nodes in the order they are emitted.
	order []uint32

	// Maps a node index to its position in order.
	remap []uint32

	// The index table; leaf ranges appear in emit order.
	indices []uint32

	// Index table offset for each emitted leaf keyed by its position in order.
	leafOffsets map[uint32]uint32
}

// Walk the tree from the root and assign each reachable node its emit
// position. Leaf index ranges are copied into a fresh index table in the
// same order.
func flatten(tree *scene.Tree) (*flatTree, error) {
	ft := &flatTree{
		remap:       make([]uint32, len(tree.Nodes)),
		order:       make([]uint32, 0, len(tree.Nodes)),
		indices:     make([]uint32, 0, len(tree.Indices)),
		leafOffsets: make(map[uint32]uint32),
	}

	err := tree.Walk(func(index uint32, node *scene.BvhNode, _ int) error {
		pos := uint32(len(ft.order))
		ft.remap[index] = pos
		ft.order = append(ft.order, index)

		if !node.Leaf {
			return nil
		}

		first, count := node.GetPrimitives()
		if uint64(first)+uint64(count) > uint64(len(tree.Indices)) {
			return errors.Wrapf(scene.ErrInvalidTree, "leaf %d range [%d, %d) exceeds index table size %d", index, first, uint64(first)+uint64(count), len(tree.Indices))
		}
		ft.leafOffsets[pos] = uint32(len(ft.indices))
		ft.indices = append(ft.indices, tree.LeafIndices(node)...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ft, nil
}

// Encode tree using the binary BVH format:
//
//	magic "BVH1" | node count (u32) | index count (u32)
//	node count x [min xyz, max xyz (6 x f32) | is_leaf (u8) | 2 x u32]
//	index count x triangle index (u32)
//
// All values are little-endian. The root is always the first node; internal
// nodes store the positions of their children in the node table and leafs
// store an (offset, count) pair into the index table.
func Marshal(tree *scene.Tree) ([]byte, error) {
	ft, err := flatten(tree)
	if err != nil {
		return nil, err
	}

	size := scene.HeaderSize + len(ft.order)*scene.NodeRecordSize + len(ft.indices)*scene.IndexEntrySize
	buf := make([]byte, 0, size)

	buf = append(buf, scene.Magic...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(ft.order)))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(ft.indices)))

	for pos, index := range ft.order {
		node := &tree.Nodes[index]
		min, max := node.BBox.Vec3()
		for _, v := range [6]float32{min[0], min[1], min[2], max[0], max[1], max[2]} {
			buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v))
		}

		var lData, rData uint32
		if node.Leaf {
			buf = append(buf, scene.LeafNodeTag)
			_, count := node.GetPrimitives()
			lData, rData = ft.leafOffsets[uint32(pos)], count
		} else {
			buf = append(buf, scene.InternalNodeTag)
			left, right := node.GetChildNodes()
			lData, rData = ft.remap[left], ft.remap[right]
		}
		buf = binary.LittleEndian.AppendUint32(buf, lData)
		buf = binary.LittleEndian.AppendUint32(buf, rData)
	}

	for _, triIndex := range ft.indices {
		buf = binary.LittleEndian.AppendUint32(buf, triIndex)
	}

	return buf, nil
}
