package bvh

import (
	"math"

	"github.com/achilleasa/meshbvh/types"
	"github.com/pkg/errors"
)

// The default number of candidate split planes per axis evaluated by the SAH strategy.
const DefaultSAHBins = 10

var (
	// Split at the midpoint of the axis with the largest centroid spread.
	MidpointSplit SplitStrategy = midpointSplit{}
)

// A split selection strategy.
type SplitStrategy interface {
	// Select a split plane for the triangles referenced by indices. Triangles
	// whose centroid along axis is <= splitPoint form the left partition.
	// Implementations return ok = false if they cannot suggest a plane.
	SelectSplit(set TriangleSet, indices []uint32) (axis Axis, splitPoint float64, ok bool, err error)
}

// Lookup a split strategy by name.
func StrategyByName(name string, sahBins int) (SplitStrategy, error) {
	switch name {
	case "", "midpoint":
		return MidpointSplit, nil
	case "sah":
		return SurfaceAreaHeuristic(sahBins)
	}
	return nil, errors.Wrapf(ErrInvalidOptions, "unknown split strategy %q", name)
}

// Calculate the bounding box of the centroids of the referenced triangles.
func centroidBounds(set TriangleSet, indices []uint32) types.BBox {
	bounds := types.EmptyBBox()
	for _, triIndex := range indices {
		bounds.GrowPoint(types.Point3{
			set.CentroidAxis(int(triIndex), 0),
			set.CentroidAxis(int(triIndex), 1),
			set.CentroidAxis(int(triIndex), 2),
		})
	}
	return bounds
}

type midpointSplit struct{}

// Pick the axis with the largest centroid spread and split at the middle of
// the spread. Returns ok = false if all centroids coincide.
func (midpointSplit) SelectSplit(set TriangleSet, indices []uint32) (Axis, float64, bool, error) {
	bounds := centroidBounds(set, indices)
	axis, err := bounds.LongestAxis()
	if err != nil {
		return 0, 0, false, err
	}

	side, _ := bounds.Size()
	if !(side[axis] > 0) {
		return 0, 0, false, nil
	}

	return Axis(axis), 0.5 * (bounds.Min[axis] + bounds.Max[axis]), true, nil
}

type splitScore struct {
	axis       Axis
	splitPoint float64

	leftCount, rightCount int
	score                 float64
}

// A split strategy that uses the surface area heuristic for scoring candidate
// planes.
type surfaceAreaHeuristic struct {
	bins int
}

// Create a SAH split strategy that evaluates bins evenly spaced candidate
// planes along each axis of the centroid bounds.
func SurfaceAreaHeuristic(bins int) (SplitStrategy, error) {
	if bins == 0 {
		bins = DefaultSAHBins
	}
	if bins < 1 {
		return nil, errors.Wrapf(ErrInvalidOptions, "SAH bin count must be >= 1; got %d", bins)
	}
	return surfaceAreaHeuristic{bins: bins}, nil
}

// Evaluate all candidate planes and select the one with the lowest score. Each
// axis is scored in its own goroutine. Ties are resolved in favor of the lower
// axis and then the lower plane so the result is deterministic. If no
// candidate produces two non-empty partitions the midpoint strategy is used.
func (h surfaceAreaHeuristic) SelectSplit(set TriangleSet, indices []uint32) (Axis, float64, bool, error) {
	bounds := centroidBounds(set, indices)
	side, err := bounds.Size()
	if err != nil {
		return 0, 0, false, err
	}

	scoreChan := make(chan splitScore, 3)
	for axis := XAxis; axis <= ZAxis; axis++ {
		go func(axis Axis) {
			scoreChan <- h.bestAxisSplit(set, indices, axis, bounds.Min[axis], side[axis])
		}(axis)
	}

	var axisBest [3]splitScore
	for pending := 3; pending > 0; pending-- {
		candidate := <-scoreChan
		axisBest[candidate.axis] = candidate
	}

	best := axisBest[XAxis]
	for _, candidate := range axisBest[1:] {
		if candidate.score < best.score {
			best = candidate
		}
	}

	if math.IsInf(best.score, 1) {
		return MidpointSplit.SelectSplit(set, indices)
	}
	return best.axis, best.splitPoint, true, nil
}

// Find the best scoring candidate plane along a single axis.
func (h surfaceAreaHeuristic) bestAxisSplit(set TriangleSet, indices []uint32, axis Axis, start, length float64) splitScore {
	best := splitScore{axis: axis, score: math.Inf(1)}
	if !(length > 0) {
		return best
	}

	for bin := 1; bin <= h.bins; bin++ {
		splitPoint := start + length*float64(bin)/float64(h.bins+1)
		lCount, rCount, score := h.ScoreSplit(set, indices, axis, splitPoint)
		if score < best.score {
			best = splitScore{
				axis:       axis,
				splitPoint: splitPoint,
				leftCount:  lCount,
				rightCount: rCount,
				score:      score,
			}
		}
	}
	return best
}

// Score a BVH split based on the surface area heuristic. The SAH calculates
// the split score using the formula (lower score is better):
//
// left count * left BBOX half area + right count * right BBOX half area.
//
// SAH avoids splits that generate empty partitions by assigning the worst
// possible score (+Inf) when it encounters such cases.
func (h surfaceAreaHeuristic) ScoreSplit(set TriangleSet, indices []uint32, axis Axis, splitPoint float64) (leftCount, rightCount int, score float64) {
	lbox := types.EmptyBBox()
	rbox := types.EmptyBBox()

	for _, triIndex := range indices {
		if set.CentroidAxis(int(triIndex), int(axis)) <= splitPoint {
			leftCount++
			lbox.GrowBBox(set.BBox(int(triIndex)))
		} else {
			rightCount++
			rbox.GrowBBox(set.BBox(int(triIndex)))
		}
	}

	// Make sure that we don't generate empty partitions
	if leftCount == 0 || rightCount == 0 {
		return leftCount, rightCount, math.Inf(1)
	}

	larea, _ := lbox.SurfaceArea()
	rarea, _ := rbox.SurfaceArea()
	score = 0.5 * (float64(leftCount)*larea + float64(rightCount)*rarea)
	return leftCount, rightCount, score
}
