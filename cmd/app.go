package cmd

import (
	"github.com/achilleasa/meshbvh/asset/compiler/bvh"
	"github.com/urfave/cli"
)

// Create the command line application.
func NewApp() *cli.App {
	// The default version flag claims -v which is used for verbosity
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "meshbvh"
	app.Usage = "build bounding volume hierarchies for triangle meshes"
	app.Version = "0.0.1"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "compile",
			Usage: "build a BVH for a binary triangle file",
			Description: `
Load a mesh exported as little-endian float32 triangle records (9 floats per
triangle, or 12 when each record carries a trailing normal), partition its
triangles into a bounding volume hierarchy and write the result using the
BVH1 binary format.

Settings are read from an optional YAML config file; flags override it.`,
			ArgsUsage: "mesh.bin",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "config, c",
					Usage: "YAML file with build settings",
				},
				cli.StringFlag{
					Name:  "out, o",
					Usage: "BVH output file (default: <mesh>_bvh.bin)",
				},
				cli.StringFlag{
					Name:  "triangles-out",
					Usage: "also write the triangles reordered to match the BVH index table",
				},
				cli.IntFlag{
					Name:  "leaf-threshold",
					Value: bvh.DefaultLeafThreshold,
					Usage: "max triangles per leaf",
				},
				cli.StringFlag{
					Name:  "split",
					Value: "midpoint",
					Usage: "split strategy (midpoint or sah)",
				},
				cli.IntFlag{
					Name:  "sah-bins",
					Value: bvh.DefaultSAHBins,
					Usage: "candidate split planes per axis for the sah strategy",
				},
				cli.IntFlag{
					Name:  "workers",
					Usage: "max concurrent sub-builds (default: number of CPUs)",
				},
				cli.IntFlag{
					Name:  "stride",
					Value: 9,
					Usage: "floats per triangle record (9 or 12)",
				},
			},
			Action: CompileMesh,
		},
		{
			Name:      "info",
			Usage:     "display compiled BVH information",
			ArgsUsage: "mesh_bvh.bin",
			Flags: []cli.Flag{
				cli.BoolFlag{
					Name:  "dump",
					Usage: "dump the decoded node and index tables",
				},
			},
			Action: ShowBvhInfo,
		},
	}

	return app
}
