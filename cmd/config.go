package cmd

import (
	"bytes"
	"os"
	"runtime"

	"github.com/achilleasa/meshbvh/asset/compiler/bvh"
	"github.com/achilleasa/meshbvh/asset/mesh"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
	"gopkg.in/yaml.v3"
)

// Build settings. Values are loaded from an optional YAML file and then
// overridden by any explicitly set command line flags.
type Config struct {
	// Max triangles per leaf.
	LeafThreshold int `yaml:"leaf_threshold"`

	// Split strategy name: midpoint or sah.
	Split string `yaml:"split"`

	// Candidate planes per axis for the sah strategy.
	SAHBins int `yaml:"sah_bins"`

	// Max concurrent sub-builds; 1 builds sequentially.
	Workers int `yaml:"workers"`

	// Ranges smaller than this are never built in parallel.
	ParallelMinTriangles int `yaml:"parallel_min_triangles"`

	// Floats per triangle record in the input file (9 or 12).
	Stride int `yaml:"stride"`
}

func defaultConfig() Config {
	return Config{
		LeafThreshold:        bvh.DefaultLeafThreshold,
		Split:                "midpoint",
		SAHBins:              bvh.DefaultSAHBins,
		Workers:              runtime.NumCPU(),
		ParallelMinTriangles: bvh.DefaultParallelMinTriangles,
		Stride:               mesh.VertexStride,
	}
}

// Load a config file on top of the defaults. Unknown keys are rejected.
func loadConfig(filename string) (Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return cfg, errors.Wrapf(err, "could not read config file")
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err = dec.Decode(&cfg); err != nil {
		return cfg, errors.Wrapf(err, `could not parse config file "%s"`, filename)
	}
	return cfg, nil
}

// Assemble the config for a command invocation.
func configFromContext(ctx *cli.Context) (Config, error) {
	cfg := defaultConfig()
	if filename := ctx.String("config"); filename != "" {
		var err error
		if cfg, err = loadConfig(filename); err != nil {
			return cfg, err
		}
	}

	if ctx.IsSet("leaf-threshold") {
		cfg.LeafThreshold = ctx.Int("leaf-threshold")
	}
	if ctx.IsSet("split") {
		cfg.Split = ctx.String("split")
	}
	if ctx.IsSet("sah-bins") {
		cfg.SAHBins = ctx.Int("sah-bins")
	}
	if ctx.IsSet("workers") {
		cfg.Workers = ctx.Int("workers")
	}
	if ctx.IsSet("stride") {
		cfg.Stride = ctx.Int("stride")
	}

	return cfg, cfg.validate()
}

func (cfg Config) validate() error {
	if cfg.LeafThreshold < 1 {
		return errors.Errorf("config: leaf threshold must be >= 1; got %d", cfg.LeafThreshold)
	}
	if cfg.Workers < 1 {
		return errors.Errorf("config: workers must be >= 1; got %d", cfg.Workers)
	}
	if cfg.ParallelMinTriangles < 1 {
		return errors.Errorf("config: parallel_min_triangles must be >= 1; got %d", cfg.ParallelMinTriangles)
	}
	if cfg.Stride != mesh.VertexStride && cfg.Stride != mesh.VertexNormalStride {
		return errors.Errorf("config: stride must be %d or %d; got %d", mesh.VertexStride, mesh.VertexNormalStride, cfg.Stride)
	}
	if _, err := bvh.StrategyByName(cfg.Split, cfg.SAHBins); err != nil {
		return errors.Wrap(err, "config")
	}
	return nil
}

// Convert the config into builder options.
func (cfg Config) BuildOptions() (bvh.Options, error) {
	strategy, err := bvh.StrategyByName(cfg.Split, cfg.SAHBins)
	if err != nil {
		return bvh.Options{}, err
	}

	return bvh.Options{
		LeafThreshold:        cfg.LeafThreshold,
		Strategy:             strategy,
		Workers:              cfg.Workers,
		ParallelMinTriangles: cfg.ParallelMinTriangles,
	}, nil
}
