package cmd

import (
	"github.com/achilleasa/meshbvh/asset/scene/reader"
	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

// Display compiled BVH info.
func ShowBvhInfo(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() != 1 {
		return errors.New("missing compiled BVH file")
	}

	tree, err := reader.ReadTree(ctx.Args().First())
	if err != nil {
		return err
	}

	stats, err := tree.Stats()
	if err != nil {
		return err
	}
	logger.Noticef("BVH information:\n%s", stats)

	if ctx.Bool("dump") {
		cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true}
		cfg.Fdump(ctx.App.Writer, tree)
	}

	return nil
}
