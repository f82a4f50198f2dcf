package scene

import (
	"strings"
	"testing"

	"github.com/achilleasa/meshbvh/types"
	"github.com/pkg/errors"
)

func box(minX, maxX float64) types.BBox {
	return types.BBox{Min: types.Point3{minX, 0, 0}, Max: types.Point3{maxX, 1, 0}}
}

// Build a 5 node tree:
//
//	    0
//	  1   2
//	     3 4
func mockTree() *Tree {
	t := &Tree{
		Nodes:   make([]BvhNode, 5),
		Indices: []uint32{3, 0, 1, 4, 2},
	}
	t.Nodes[1].SetBBox(box(0, 2))
	t.Nodes[1].SetPrimitives(0, 2)
	t.Nodes[3].SetBBox(box(2, 3))
	t.Nodes[3].SetPrimitives(2, 1)
	t.Nodes[4].SetBBox(box(3, 5))
	t.Nodes[4].SetPrimitives(3, 2)
	t.Nodes[2].SetBBox(box(2, 5))
	t.Nodes[2].SetChildNodes(3, 4)
	t.Nodes[0].SetBBox(box(0, 5))
	t.Nodes[0].SetChildNodes(1, 2)
	return t
}

func TestNodeAccessors(t *testing.T) {
	var n BvhNode
	n.SetChildNodes(3, 7)
	if n.Leaf {
		t.Fatal("expected node to be internal")
	}
	n.OffsetChildNodes(10)
	if l, r := n.GetChildNodes(); l != 13 || r != 17 {
		t.Fatalf("expected children (13, 17); got (%d, %d)", l, r)
	}

	n.SetPrimitives(4, 2)
	if !n.Leaf {
		t.Fatal("expected node to be a leaf")
	}
	n.OffsetChildNodes(10)
	if first, count := n.GetPrimitives(); first != 4 || count != 2 {
		t.Fatalf("expected leaf range (4, 2) to be unaffected by child offsets; got (%d, %d)", first, count)
	}
}

func TestWalkOrder(t *testing.T) {
	tree := mockTree()

	var order []uint32
	var depths []int
	err := tree.Walk(func(index uint32, _ *BvhNode, depth int) error {
		order = append(order, index)
		depths = append(depths, depth)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	expOrder := []uint32{0, 1, 2, 3, 4}
	expDepths := []int{0, 1, 1, 2, 2}
	for i := range expOrder {
		if order[i] != expOrder[i] || depths[i] != expDepths[i] {
			t.Fatalf("expected visit order %v with depths %v; got %v with depths %v", expOrder, expDepths, order, depths)
		}
	}
}

func TestWalkStopsOnError(t *testing.T) {
	tree := mockTree()
	stopErr := errors.New("stop")
	visits := 0
	err := tree.Walk(func(index uint32, _ *BvhNode, _ int) error {
		visits++
		if index == 1 {
			return stopErr
		}
		return nil
	})
	if err != stopErr {
		t.Fatalf("expected walk to return the callback error; got %v", err)
	}
	if visits != 2 {
		t.Fatalf("expected walk to stop after 2 visits; got %d", visits)
	}
}

func TestValidate(t *testing.T) {
	if err := mockTree().Validate(5); err != nil {
		t.Fatalf("expected mock tree to be valid; got %v", err)
	}

	type spec struct {
		descr    string
		mutate   func(*Tree)
		triCount int
		expErr   string
	}
	specs := []spec{
		{"empty tree", func(tr *Tree) { tr.Nodes = nil }, 5, "tree has no nodes"},
		{"cycle", func(tr *Tree) { tr.Nodes[2].SetChildNodes(3, 0); tr.Nodes[2].SetBBox(box(0, 5)) }, 5, "node 0 is referenced more than once"},
		{"out of range child", func(tr *Tree) { tr.Nodes[2].SetChildNodes(3, 9) }, 5, "out of range"},
		{"unreachable node", func(tr *Tree) { tr.Nodes = append(tr.Nodes, tr.Nodes[3]) }, 5, "1 of 6 nodes are unreachable"},
		{"empty leaf", func(tr *Tree) { tr.Nodes[3].SetPrimitives(2, 0) }, 5, "leaf 3 is empty"},
		{"leaf range overflow", func(tr *Tree) { tr.Nodes[4].SetPrimitives(3, 5) }, 5, "exceeds index table size"},
		{"duplicate triangle", func(tr *Tree) { tr.Indices[4] = 3 }, 5, "triangle 3 is referenced more than once"},
		{"triangle out of range", func(tr *Tree) {}, 4, "references triangle 4"},
		{"missing triangle", func(tr *Tree) {}, 6, "leafs reference 5 of 6 triangles"},
		{"loose box", func(tr *Tree) { tr.Nodes[0].SetBBox(box(-1, 5)) }, 5, "is not the union"},
	}

	for index, s := range specs {
		tree := mockTree()
		s.mutate(tree)
		err := tree.Validate(s.triCount)
		if !errors.Is(err, ErrInvalidTree) {
			t.Fatalf("[spec %d: %s] expected ErrInvalidTree; got %v", index, s.descr, err)
		}
		if !strings.Contains(err.Error(), s.expErr) {
			t.Fatalf("[spec %d: %s] expected error to contain %q; got %q", index, s.descr, s.expErr, err.Error())
		}
	}
}

func TestSummaryAndStats(t *testing.T) {
	tree := mockTree()
	st, err := tree.Summary()
	if err != nil {
		t.Fatal(err)
	}

	exp := TreeStats{
		Nodes:            5,
		Leafs:            3,
		Internal:         2,
		MaxDepth:         2,
		Triangles:        5,
		MinLeafTriangles: 1,
		MaxLeafTriangles: 2,
		AvgLeafTriangles: 5.0 / 3.0,
	}
	if st != exp {
		t.Fatalf("expected stats %+v; got %+v", exp, st)
	}

	table, err := tree.Stats()
	if err != nil {
		t.Fatal(err)
	}
	for _, expText := range []string{"Max depth", "Avg per leaf", "1.67", "197 bytes"} {
		if !strings.Contains(table, expText) {
			t.Fatalf("expected stats table to contain %q; got:\n%s", expText, table)
		}
	}
}
