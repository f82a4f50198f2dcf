package compiler

import (
	"time"

	"github.com/achilleasa/meshbvh/asset/compiler/bvh"
	"github.com/achilleasa/meshbvh/asset/mesh"
	"github.com/achilleasa/meshbvh/asset/scene"
	"github.com/achilleasa/meshbvh/log"
	"github.com/pkg/errors"
)

type meshCompiler struct {
	store  *mesh.TriangleStore
	opts   bvh.Options
	logger log.Logger
}

// Compile a BVH tree for the triangles in store. A store without triangles
// yields bvh.ErrEmptyRange; no partial tree is ever returned.
func Compile(store *mesh.TriangleStore, opts bvh.Options) (*scene.Tree, error) {
	compiler := &meshCompiler{
		store:  store,
		opts:   opts,
		logger: log.New("mesh compiler"),
	}

	start := time.Now()
	compiler.logger.Noticef("compiling BVH for %d triangles", store.Len())

	tree, err := compiler.partitionGeometry()
	if err != nil {
		return nil, err
	}

	compiler.logger.Noticef("compiled BVH in %d ms", time.Since(start).Nanoseconds()/1e6)
	return tree, nil
}

// Partition the mesh triangles and sanity check the resulting tree.
func (mc *meshCompiler) partitionGeometry() (*scene.Tree, error) {
	if mc.store.Len() == 0 {
		return nil, errors.Wrap(bvh.ErrEmptyRange, "mesh contains no triangles")
	}

	opts := mc.opts.WithDefaults()
	mc.logger.Infof("partitioning %d triangles (leaf threshold: %d, workers: %d)", mc.store.Len(), opts.LeafThreshold, opts.Workers)
	tree, err := bvh.Build(mc.store, opts)
	if err != nil {
		return nil, errors.Wrap(err, "could not build BVH")
	}

	st, err := tree.Summary()
	if err != nil {
		return nil, err
	}
	if st.Triangles != mc.store.Len() {
		return nil, errors.Wrapf(scene.ErrInvalidTree, "tree references %d of %d triangles", st.Triangles, mc.store.Len())
	}

	mc.logger.Infof("BVH has %d nodes (%d leafs), max depth %d", st.Nodes, st.Leafs, st.MaxDepth)
	return tree, nil
}
