package scene

import (
	"math"

	"github.com/achilleasa/meshbvh/types"
	"github.com/pkg/errors"
)

// Bvh nodes are comprised of a bounding box, a leaf flag and two multipurpose
// uint32 parameters whose value depends on the node type:
//
// - For internal nodes they are the indices of the L/R child nodes
// - For leafs, LData is the offset of the first entry in the index table and
//   RData the number of triangle indices owned by the leaf
type BvhNode struct {
	BBox types.BBox
	Leaf bool

	LData uint32
	RData uint32
}

// Set bounding box.
func (n *BvhNode) SetBBox(bbox types.BBox) {
	n.BBox = bbox
}

// Set left and right child node indices and mark node as internal.
func (n *BvhNode) SetChildNodes(left, right uint32) {
	n.Leaf = false
	n.LData = left
	n.RData = right
}

// Get left and right child node indices.
func (n *BvhNode) GetChildNodes() (left, right uint32) {
	return n.LData, n.RData
}

// Set index table offset and count and mark node as a leaf.
func (n *BvhNode) SetPrimitives(firstIndex, count uint32) {
	n.Leaf = true
	n.LData = firstIndex
	n.RData = count
}

// Get index table offset and count.
func (n *BvhNode) GetPrimitives() (firstIndex, count uint32) {
	return n.LData, n.RData
}

// Add offset to indices of child nodes.
func (n *BvhNode) OffsetChildNodes(offset uint32) {
	// Ignore leafs
	if n.Leaf {
		return
	}

	n.LData += offset
	n.RData += offset
}

// A BVH tree stored as a node arena and a triangle index table. The root is
// always Nodes[0]; leafs reference contiguous ranges of Indices whose values
// point into the triangle store the tree was built from.
type Tree struct {
	Nodes   []BvhNode
	Indices []uint32
}

// A callback invoked for each node visited by Walk.
type WalkFunc func(index uint32, node *BvhNode, depth int) error

// Visit all nodes reachable from the root in pre-order (left subtree before
// right subtree) using an explicit stack. The walk stops at the first error
// returned by fn. Child indices that fall outside the node list or a node that
// is reachable more than once cause ErrInvalidTree to be returned.
func (t *Tree) Walk(fn WalkFunc) error {
	if len(t.Nodes) == 0 {
		return errors.Wrap(ErrInvalidTree, "tree has no nodes")
	}

	type stackEntry struct {
		index uint32
		depth int
	}

	visited := make([]bool, len(t.Nodes))
	stack := []stackEntry{{0, 0}}
	for len(stack) > 0 {
		entry := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if int(entry.index) >= len(t.Nodes) {
			return errors.Wrapf(ErrInvalidTree, "node index %d out of range [0, %d)", entry.index, len(t.Nodes))
		}
		if visited[entry.index] {
			return errors.Wrapf(ErrInvalidTree, "node %d is referenced more than once", entry.index)
		}
		visited[entry.index] = true

		node := &t.Nodes[entry.index]
		if err := fn(entry.index, node, entry.depth); err != nil {
			return err
		}

		if !node.Leaf {
			left, right := node.GetChildNodes()
			// Push right first so the left subtree is visited first
			stack = append(stack, stackEntry{right, entry.depth + 1}, stackEntry{left, entry.depth + 1})
		}
	}

	return nil
}

// Get the triangle indices owned by a leaf node.
func (t *Tree) LeafIndices(node *BvhNode) []uint32 {
	first, count := node.GetPrimitives()
	return t.Indices[first : first+count]
}

// Check the structural invariants of the tree: every node is reachable exactly
// once from the root, leafs reference non-empty in-range slices of the index
// table, internal node boxes are the union of their children and the leafs
// together reference each triangle in [0, triangleCount) exactly once.
func (t *Tree) Validate(triangleCount int) error {
	seen := make([]bool, triangleCount)
	reached := 0
	referenced := 0

	err := t.Walk(func(index uint32, node *BvhNode, _ int) error {
		reached++

		if node.Leaf {
			first, count := node.GetPrimitives()
			if count == 0 {
				return errors.Wrapf(ErrInvalidTree, "leaf %d is empty", index)
			}
			if uint64(first)+uint64(count) > uint64(len(t.Indices)) {
				return errors.Wrapf(ErrInvalidTree, "leaf %d range [%d, %d) exceeds index table size %d", index, first, uint64(first)+uint64(count), len(t.Indices))
			}
			for _, triIndex := range t.LeafIndices(node) {
				if int(triIndex) >= triangleCount {
					return errors.Wrapf(ErrInvalidTree, "leaf %d references triangle %d; only %d triangles available", index, triIndex, triangleCount)
				}
				if seen[triIndex] {
					return errors.Wrapf(ErrInvalidTree, "triangle %d is referenced more than once", triIndex)
				}
				seen[triIndex] = true
				referenced++
			}
			return nil
		}

		left, right := node.GetChildNodes()
		if int(left) >= len(t.Nodes) || int(right) >= len(t.Nodes) {
			return errors.Wrapf(ErrInvalidTree, "node %d children (%d, %d) out of range", index, left, right)
		}
		if left == right {
			return errors.Wrapf(ErrInvalidTree, "node %d has identical children", index)
		}
		if union := types.Union(t.Nodes[left].BBox, t.Nodes[right].BBox); !sameBBox(union, node.BBox) {
			return errors.Wrapf(ErrInvalidTree, "node %d box %v is not the union %v of its children", index, node.BBox, union)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if reached != len(t.Nodes) {
		return errors.Wrapf(ErrInvalidTree, "%d of %d nodes are unreachable from the root", len(t.Nodes)-reached, len(t.Nodes))
	}
	if referenced != triangleCount {
		return errors.Wrapf(ErrInvalidTree, "leafs reference %d of %d triangles", referenced, triangleCount)
	}
	return nil
}

// Compare two boxes treating NaN coordinates as equal to each other so that
// boxes polluted by malformed input still compare consistently.
func sameBBox(a, b types.BBox) bool {
	for axis := 0; axis < 3; axis++ {
		if !sameFloat(a.Min[axis], b.Min[axis]) || !sameFloat(a.Max[axis], b.Max[axis]) {
			return false
		}
	}
	return true
}

func sameFloat(a, b float64) bool {
	return a == b || (math.IsNaN(a) && math.IsNaN(b))
}
