package writer

import (
	"time"

	"github.com/achilleasa/meshbvh/asset/mesh"
	"github.com/achilleasa/meshbvh/asset/scene"
	"github.com/achilleasa/meshbvh/log"
	"github.com/pkg/errors"
)

type triangleWriter struct {
	logger   log.Logger
	store    *mesh.TriangleStore
	filename string
}

// Create a writer for the reordered triangle data of a mesh.
func newTriangleWriter(store *mesh.TriangleStore, filename string) *triangleWriter {
	return &triangleWriter{
		logger:   log.New("triangle writer"),
		store:    store,
		filename: filename,
	}
}

// Write the store triangles in the order they appear in the serialized index
// table of tree so that leaf (offset, count) pairs address the file directly.
func (w *triangleWriter) Write(tree *scene.Tree) error {
	w.logger.Noticef(`writing reordered triangles to "%s"`, w.filename)
	start := time.Now()

	ft, err := flatten(tree)
	if err != nil {
		return err
	}

	buf := make([]byte, 0, len(ft.indices)*mesh.CoordsPerTriangle*4)
	for _, triIndex := range ft.indices {
		if int(triIndex) >= w.store.Len() {
			return errors.Wrapf(scene.ErrInvalidTree, "index table references triangle %d; only %d triangles available", triIndex, w.store.Len())
		}
		buf = mesh.AppendTriangle(buf, w.store, int(triIndex))
	}

	if err = writeFileAtomic(w.filename, buf); err != nil {
		return err
	}

	w.logger.Noticef("wrote %d triangles in %d ms", len(ft.indices), time.Since(start).Nanoseconds()/1e6)
	return nil
}
