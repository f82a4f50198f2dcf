package bvh

import (
	"time"

	"github.com/achilleasa/meshbvh/asset/scene"
	"github.com/achilleasa/meshbvh/log"
	"github.com/achilleasa/meshbvh/types"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

type Axis uint8

const (
	XAxis Axis = iota
	YAxis
	ZAxis
)

const (
	// The default max number of triangles that a leaf may reference.
	DefaultLeafThreshold = 4

	// Ranges with fewer triangles than this are never built in parallel.
	DefaultParallelMinTriangles = 4096
)

// The TriangleSet interface is implemented by triangle containers that can be
// partitioned by the bvh builder. Triangles are addressed by their index.
type TriangleSet interface {
	Len() int
	BBox(i int) types.BBox
	CentroidAxis(i, axis int) float64
}

// Builder options.
type Options struct {
	// Ranges with at most this many triangles become leafs.
	LeafThreshold int

	// The split selection strategy. Defaults to MidpointSplit.
	Strategy SplitStrategy

	// The max number of sub-builds that may run concurrently. Values <= 1
	// select a sequential build.
	Workers int

	// Ranges with fewer triangles than this are always built sequentially.
	ParallelMinTriangles int
}

// Fill in defaults for unset options.
func (opts Options) WithDefaults() Options {
	if opts.LeafThreshold == 0 {
		opts.LeafThreshold = DefaultLeafThreshold
	}
	if opts.Strategy == nil {
		opts.Strategy = MidpointSplit
	}
	if opts.ParallelMinTriangles == 0 {
		opts.ParallelMinTriangles = DefaultParallelMinTriangles
	}
	if opts.Workers == 0 {
		opts.Workers = 1
	}
	return opts
}

func (opts Options) validate() error {
	if opts.LeafThreshold < 1 {
		return errors.Wrapf(ErrInvalidOptions, "leaf threshold must be >= 1; got %d", opts.LeafThreshold)
	}
	if opts.Workers < 0 {
		return errors.Wrapf(ErrInvalidOptions, "worker count must be >= 0; got %d", opts.Workers)
	}
	if opts.ParallelMinTriangles < 0 {
		return errors.Wrapf(ErrInvalidOptions, "parallel triangle cutoff must be >= 0; got %d", opts.ParallelMinTriangles)
	}
	return nil
}

type stats struct {
	partitionedItems int
	nodes            int
	leafs            int
	maxDepth         int
	fallbackSplits   int
	forks            int
}

func (s *stats) merge(other stats) {
	s.partitionedItems += other.partitionedItems
	s.nodes += other.nodes
	s.leafs += other.leafs
	s.fallbackSplits += other.fallbackSplits
	s.forks += other.forks
	if other.maxDepth > s.maxDepth {
		s.maxDepth = other.maxDepth
	}
}

type builder struct {
	logger log.Logger

	set  TriangleSet
	opts Options

	// Triangle indices; partitioned in place. Concurrent sub-builders share
	// this slice but only ever touch disjoint ranges of it.
	indices []uint32

	// Bvh nodes stored as a contiguous list
	nodes []scene.BvhNode

	// Limits the number of concurrent sub-builds; nil for sequential builds.
	sem *semaphore.Weighted

	// Stats
	stats stats
}

// Construct a BVH over all triangles in set.
//
// The builder recursively computes the bounding box of a triangle range and
// emits a leaf if the range contains at most LeafThreshold triangles or its
// box has zero extent. Otherwise it asks the split strategy for a split plane,
// partitions the range in place and recurses into both halves. If a split
// leaves one side empty the range is split into two equal-count halves.
//
// The returned tree stores the root at node 0 followed by the nodes of the left
// subtree and then the right subtree, so its layout does not depend on the
// number of workers.
func Build(set TriangleSet, opts Options) (*scene.Tree, error) {
	opts = opts.WithDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}

	count := set.Len()
	indices := make([]uint32, count)
	for i := range indices {
		indices[i] = uint32(i)
	}

	b := &builder{
		logger:  log.New("bvh builder"),
		set:     set,
		opts:    opts,
		indices: indices,
		nodes:   make([]scene.BvhNode, 0, 2*(count/opts.LeafThreshold)+1),
	}
	if opts.Workers > 1 {
		b.sem = semaphore.NewWeighted(int64(opts.Workers - 1))
	}

	start := time.Now()
	if _, err := b.partition(0, count, 0); err != nil {
		return nil, err
	}
	b.logger.Debugf(
		"BVH tree build time: %d ms, maxDepth: %d, nodes: %d, leafs: %d, fallback splits: %d, forks: %d",
		time.Since(start).Nanoseconds()/1e6,
		b.stats.maxDepth, b.stats.nodes, b.stats.leafs, b.stats.fallbackSplits, b.stats.forks,
	)

	return &scene.Tree{
		Nodes:   b.nodes,
		Indices: indices,
	}, nil
}

// Partition the index range [lo, hi) and return the node index of its root.
func (b *builder) partition(lo, hi, depth int) (uint32, error) {
	if hi <= lo {
		return 0, errors.Wrapf(ErrEmptyRange, "range [%d, %d)", lo, hi)
	}
	if depth > b.stats.maxDepth {
		b.stats.maxDepth = depth
	}

	// Calculate bounding box for node
	bbox := types.EmptyBBox()
	for _, triIndex := range b.indices[lo:hi] {
		bbox.GrowBBox(b.set.BBox(int(triIndex)))
	}

	// Do we have few enough items for a leaf?
	count := hi - lo
	if count <= b.opts.LeafThreshold {
		return b.createLeaf(bbox, lo, hi), nil
	}

	// Splitting a range whose triangles all collapse to a single point is pointless
	isPoint, err := bbox.IsPoint()
	if err != nil {
		return 0, err
	}
	if isPoint {
		return b.createLeaf(bbox, lo, hi), nil
	}

	mid := lo
	axis, splitPoint, ok, err := b.opts.Strategy.SelectSplit(b.set, b.indices[lo:hi])
	if err != nil {
		return 0, err
	}
	if ok {
		mid = lo + partitionIndices(b.set, b.indices[lo:hi], axis, splitPoint)
	}

	// Guarantee that both children are non-empty
	if mid == lo || mid == hi {
		mid = lo + count/2
		b.stats.fallbackSplits++
	}

	// Add node to list; its box is filled in once the children are built
	nodeIndex := len(b.nodes)
	b.nodes = append(b.nodes, scene.BvhNode{})
	b.stats.nodes++

	leftNodeIndex, rightNodeIndex, err := b.partitionChildren(lo, mid, hi, depth+1)
	if err != nil {
		return 0, err
	}

	node := &b.nodes[nodeIndex]
	node.SetChildNodes(leftNodeIndex, rightNodeIndex)
	node.SetBBox(types.Union(b.nodes[leftNodeIndex].BBox, b.nodes[rightNodeIndex].BBox))
	return uint32(nodeIndex), nil
}

// Build the subtrees for [lo, mid) and [mid, hi). Large ranges are handed to
// two sub-builders running in parallel when a worker slot is available. The
// range has already been partitioned so the sub-builders own disjoint slices
// of the index list.
func (b *builder) partitionChildren(lo, mid, hi, depth int) (left, right uint32, err error) {
	if b.sem == nil || hi-lo < b.opts.ParallelMinTriangles || !b.sem.TryAcquire(1) {
		if left, err = b.partition(lo, mid, depth); err != nil {
			return 0, 0, err
		}
		if right, err = b.partition(mid, hi, depth); err != nil {
			return 0, 0, err
		}
		return left, right, nil
	}
	defer b.sem.Release(1)
	b.stats.forks++

	leftBuilder, rightBuilder := b.fork(), b.fork()
	var g errgroup.Group
	g.Go(func() error {
		_, err := leftBuilder.partition(lo, mid, depth)
		return err
	})
	g.Go(func() error {
		_, err := rightBuilder.partition(mid, hi, depth)
		return err
	})
	if err = g.Wait(); err != nil {
		return 0, 0, err
	}

	return b.merge(leftBuilder), b.merge(rightBuilder), nil
}

// Create a sub-builder that shares the index list and worker pool but writes
// to its own node list.
func (b *builder) fork() *builder {
	return &builder{
		logger:  b.logger,
		set:     b.set,
		opts:    b.opts,
		indices: b.indices,
		nodes:   make([]scene.BvhNode, 0),
		sem:     b.sem,
	}
}

// Append the nodes of a sub-builder to our node list and return the index of
// the sub-builder's root node.
func (b *builder) merge(sub *builder) uint32 {
	offset := uint32(len(b.nodes))
	for index := range sub.nodes {
		sub.nodes[index].OffsetChildNodes(offset)
	}
	b.nodes = append(b.nodes, sub.nodes...)
	b.stats.merge(sub.stats)
	return offset
}

// Setup a leaf node owning the index range [lo, hi) and return its index in
// the bvh node list.
func (b *builder) createLeaf(bbox types.BBox, lo, hi int) uint32 {
	var node scene.BvhNode
	node.SetBBox(bbox)
	node.SetPrimitives(uint32(lo), uint32(hi-lo))

	// append node to list
	nodeIndex := len(b.nodes)
	b.nodes = append(b.nodes, node)

	// update stats
	b.stats.nodes++
	b.stats.leafs++
	b.stats.partitionedItems += hi - lo

	return uint32(nodeIndex)
}

// Reorder indices in a single pass so that all triangles whose centroid along
// axis is <= splitPoint come first. Returns the number of such triangles.
func partitionIndices(set TriangleSet, indices []uint32, axis Axis, splitPoint float64) int {
	i, j := 0, len(indices)-1
	for i <= j {
		if set.CentroidAxis(int(indices[i]), int(axis)) <= splitPoint {
			i++
			continue
		}
		indices[i], indices[j] = indices[j], indices[i]
		j--
	}
	return i
}
