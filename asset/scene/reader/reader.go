package reader

import (
	"github.com/achilleasa/meshbvh/asset"
	"github.com/achilleasa/meshbvh/asset/scene"
)

// The Reader interface is implemented by all BVH readers.
type Reader interface {
	// Read BVH tree from a resource.
	Read(*asset.Resource) (*scene.Tree, error)
}

// Read a BVH tree from a local file or http(s) URL.
func ReadTree(filename string) (*scene.Tree, error) {
	res, err := asset.NewResource(filename)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	return newBinaryReader().Read(res)
}
