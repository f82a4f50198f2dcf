package cmd

import (
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/achilleasa/meshbvh/asset"
	"github.com/achilleasa/meshbvh/asset/compiler"
	"github.com/achilleasa/meshbvh/asset/mesh"
	"github.com/achilleasa/meshbvh/asset/scene/writer"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

// Build a BVH for a binary triangle file and write it in the binary BVH format.
func CompileMesh(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() != 1 {
		return errors.New("expected a single triangle file argument")
	}
	meshFile := ctx.Args().First()

	cfg, err := configFromContext(ctx)
	if err != nil {
		return err
	}
	opts, err := cfg.BuildOptions()
	if err != nil {
		return err
	}

	res, err := asset.NewResource(meshFile)
	if err != nil {
		return err
	}
	defer res.Close()

	store, err := mesh.Load(res, cfg.Stride)
	if err != nil {
		return err
	}

	tree, err := compiler.Compile(store, opts)
	if err != nil {
		return err
	}

	// Display compiled BVH info
	stats, err := tree.Stats()
	if err != nil {
		return err
	}
	logger.Noticef("BVH information:\n%s", stats)

	bvhFile := ctx.String("out")
	if bvhFile == "" {
		bvhFile = defaultBvhFile(meshFile)
	}
	if err = writer.WriteTree(tree, bvhFile); err != nil {
		return err
	}

	if triFile := ctx.String("triangles-out"); triFile != "" {
		if err = writer.WriteTriangles(store, tree, triFile); err != nil {
			return err
		}
	}

	return nil
}

// Derive the BVH file name from the mesh file name: "mesh.bin" becomes
// "mesh_bvh.bin". Remote meshes are written to the working directory.
func defaultBvhFile(meshFile string) string {
	if u, err := url.Parse(meshFile); err == nil && u.Scheme != "" {
		meshFile = path.Base(u.Path)
	}

	ext := filepath.Ext(meshFile)
	return strings.TrimSuffix(meshFile, ext) + "_bvh.bin"
}
