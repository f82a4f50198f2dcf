package compiler

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/achilleasa/meshbvh/asset/compiler/bvh"
	"github.com/achilleasa/meshbvh/asset/mesh"
	"github.com/achilleasa/meshbvh/log"
	"github.com/pkg/errors"
)

func TestCompile(t *testing.T) {
	coords := make([]float64, 0, 50*mesh.CoordsPerTriangle)
	for i := 0; i < 50; i++ {
		x := float64(i % 10)
		z := float64(i / 10)
		coords = append(coords, x, 0, z, x+1, 0, z, x, 1, z+0.5)
	}
	store, err := mesh.NewTriangleStore(coords)
	if err != nil {
		t.Fatal(err)
	}

	tree, err := Compile(store, bvh.Options{LeafThreshold: 4})
	if err != nil {
		t.Fatal(err)
	}
	if err = tree.Validate(store.Len()); err != nil {
		t.Fatalf("expected compiled tree to be valid; got %v", err)
	}

	st, err := tree.Summary()
	if err != nil {
		t.Fatal(err)
	}
	if st.MaxLeafTriangles > 4 {
		t.Fatalf("expected leafs to hold at most 4 triangles; got %d", st.MaxLeafTriangles)
	}
}

func TestCompileEmptyMesh(t *testing.T) {
	store, err := mesh.NewTriangleStore(nil)
	if err != nil {
		t.Fatal(err)
	}

	_, err = Compile(store, bvh.Options{})
	if !errors.Is(err, bvh.ErrEmptyRange) {
		t.Fatalf("expected ErrEmptyRange; got %v", err)
	}
}

func TestCompileInvalidOptions(t *testing.T) {
	store, err := mesh.NewTriangleStore([]float64{0, 0, 0, 1, 0, 0, 0, 1, 0})
	if err != nil {
		t.Fatal(err)
	}

	_, err = Compile(store, bvh.Options{LeafThreshold: -3})
	if !errors.Is(err, bvh.ErrInvalidOptions) {
		t.Fatalf("expected ErrInvalidOptions; got %v", err)
	}
}

func TestCompileLogsEffectiveOptions(t *testing.T) {
	defer func() {
		log.SetSink(os.Stderr)
		log.SetLevel(log.Notice)
	}()

	var buf bytes.Buffer
	log.SetSink(&buf)
	log.SetLevel(log.Info)

	store, err := mesh.NewTriangleStore([]float64{0, 0, 0, 1, 0, 0, 0, 1, 0})
	if err != nil {
		t.Fatal(err)
	}
	if _, err = Compile(store, bvh.Options{}); err != nil {
		t.Fatal(err)
	}

	exp := "leaf threshold: 4, workers: 1"
	if !strings.Contains(buf.String(), exp) {
		t.Fatalf("expected log output to contain %q; got %q", exp, buf.String())
	}
}
