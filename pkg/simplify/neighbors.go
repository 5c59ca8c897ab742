package simplify

import (
	"gonum.org/v1/gonum/spatial/kdtree"

	"github.com/Faultbox/proxymesh/pkg/math"
)

// thresholdPairs returns every vertex pair whose distance is strictly
// below threshold, lower id first.
func thresholdPairs(points []math.Vec3, threshold float64) []pairKey {
	if len(points) < 2 {
		return nil
	}
	set := make(vertexPoints, len(points))
	for i, p := range points {
		set[i] = vertexPoint{id: i, p: p}
	}
	tree := kdtree.New(set, false)

	var out []pairKey
	for i, p := range points {
		keep := kdtree.NewDistKeeper(threshold * threshold)
		tree.NearestSet(keep, vertexPoint{id: i, p: p})
		for _, cd := range keep.Heap {
			if cd.Comparable == nil {
				continue
			}
			other := cd.Comparable.(vertexPoint)
			if other.id <= i || p.Distance(other.p) >= threshold {
				continue
			}
			out = append(out, pairKey{i, other.id})
		}
	}
	return out
}

// vertexPoint is a vertex position that remembers its id through the
// kd-tree's reordering.
type vertexPoint struct {
	id int
	p  math.Vec3
}

func (v vertexPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(vertexPoint)
	switch d {
	case 0:
		return v.p.X - q.p.X
	case 1:
		return v.p.Y - q.p.Y
	case 2:
		return v.p.Z - q.p.Z
	}
	panic("unreachable")
}

func (v vertexPoint) Dims() int { return 3 }

func (v vertexPoint) Distance(c kdtree.Comparable) float64 {
	return v.p.Sub(c.(vertexPoint).p).LengthSquared()
}

type vertexPoints []vertexPoint

func (p vertexPoints) Index(i int) kdtree.Comparable { return p[i] }
func (p vertexPoints) Len() int                      { return len(p) }
func (p vertexPoints) Swap(i, j int)                 { p[i], p[j] = p[j], p[i] }

func (p vertexPoints) Pivot(d kdtree.Dim) int {
	return kdtree.Partition(vertexPlane{Dim: d, vertexPoints: p}, kdtree.MedianOfMedians(vertexPlane{Dim: d, vertexPoints: p}))
}

func (p vertexPoints) Slice(start, end int) kdtree.Interface { return p[start:end] }

// vertexPlane sorts vertices along one dimension for kd-tree partitioning.
type vertexPlane struct {
	kdtree.Dim
	vertexPoints
}

func (p vertexPlane) Less(i, j int) bool {
	return p.vertexPoints[i].Compare(p.vertexPoints[j], p.Dim) < 0
}

func (p vertexPlane) Slice(start, end int) kdtree.SortSlicer {
	p.vertexPoints = p.vertexPoints[start:end]
	return p
}
