package writer

import (
	"io"

	"github.com/achilleasa/meshbvh/asset/mesh"
	"github.com/achilleasa/meshbvh/asset/scene"
)

// The Writer interface is implemented by all BVH writers.
type Writer interface {
	// Write BVH tree
	Write(*scene.Tree) error
}

// Write tree to a file using the binary BVH format. The file is either fully
// written or not modified at all.
func WriteTree(tree *scene.Tree, filename string) error {
	writer := newBinaryWriter(filename)
	return writer.Write(tree)
}

// Serialize tree to w using the binary BVH format. Nothing is written to w if
// the tree cannot be serialized.
func Serialize(tree *scene.Tree, w io.Writer) error {
	data, err := Marshal(tree)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Write the vertex data of the store's triangles to a file as float32 records
// ordered by the serialized index table of tree.
func WriteTriangles(store *mesh.TriangleStore, tree *scene.Tree, filename string) error {
	writer := newTriangleWriter(store, filename)
	return writer.Write(tree)
}
