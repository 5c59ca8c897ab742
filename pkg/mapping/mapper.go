package mapping

import (
	"fmt"
	gomath "math"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/proxymesh/pkg/math"
	"github.com/Faultbox/proxymesh/pkg/mesh"
)

// minChunk is the smallest range handed to one task.
const minChunk = 64

// Mapper holds one frozen PointMapping per dense vertex.
type Mapper struct {
	mappings []PointMapping
	opts     Options
	log      *zap.Logger
}

// NewMapper maps every high-resolution point onto the proxy mesh. Points
// are processed in parallel; each task writes a disjoint range of the
// result.
func NewMapper(lowPoints, lowNormals []math.Vec3, lowTriangles []math.Triangle, highPoints []math.Vec3, opts Options) (*Mapper, error) {
	if len(lowNormals) != len(lowPoints) {
		return nil, fmt.Errorf("mapping: %w: %d normals for %d points",
			ErrNormalCountMismatch, len(lowNormals), len(lowPoints))
	}
	if err := mesh.ValidateTriangles(len(lowPoints), lowTriangles); err != nil {
		return nil, fmt.Errorf("mapping: %w", err)
	}
	if len(lowTriangles) == 0 && len(highPoints) > 0 {
		return nil, fmt.Errorf("mapping: %w: proxy mesh has no triangles", ErrNoCandidateTriangle)
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	m := &Mapper{
		mappings: make([]PointMapping, len(highPoints)),
		opts:     opts,
		log:      log,
	}
	spheres := BuildSpheres(lowPoints, lowTriangles)

	err := forChunks(len(highPoints), opts.workers(), func(lo, hi int) error {
		for i := lo; i < hi; i++ {
			pm, err := MapPoint(highPoints[i], lowPoints, lowNormals, lowTriangles, spheres, opts)
			if err != nil {
				return fmt.Errorf("mapping: point %d %v: %w", i, highPoints[i], err)
			}
			m.mappings[i] = pm
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Debug("mapping built",
		zap.Int("dense_points", len(highPoints)),
		zap.Int("proxy_triangles", len(lowTriangles)),
		zap.Int("workers", opts.workers()))
	return m, nil
}

// MapPoint finds the proxy triangle nearest to p, refines the barycentric
// coordinates so the interpolated normal points at p, and records the
// signed offset along that normal.
func MapPoint(p math.Vec3, lowPoints, lowNormals []math.Vec3, lowTriangles []math.Triangle, spheres []math.Sphere, opts Options) (PointMapping, error) {
	best := -1
	bestDist2 := gomath.Inf(1)
	var bu, bv float64

	for i, t := range lowTriangles {
		if best >= 0 {
			s := spheres[i]
			reach := gomath.Sqrt(bestDist2) + s.Radius
			if reach*reach <= p.Sub(s.Center).LengthSquared() {
				continue
			}
		}
		a, b, c := t.Corners(lowPoints)
		d2, u, v, _ := math.ClosestPointOnTriangle(p, a, b, c)
		if d2 < bestDist2 {
			best, bestDist2 = i, d2
			bu, bv = u, v
		}
	}
	if best < 0 {
		return PointMapping{}, ErrNoCandidateTriangle
	}

	t := lowTriangles[best]
	var corners, normals [3]math.Vec3
	for k, id := range t.Indices() {
		corners[k] = lowPoints[id]
		normals[k] = lowNormals[id]
	}
	u, v, w := Refine(bu, bv, p, corners, normals, opts.MinStep, opts.MaxIter)

	base := math.Barycentric(corners[0], corners[1], corners[2], u, v, w)
	n := math.Barycentric(normals[0], normals[1], normals[2], u, v, w).Normalize()
	return PointMapping{
		Triangle: best,
		Corners:  t,
		U:        u,
		V:        v,
		W:        w,
		Offset:   signedOffset(p.Sub(base), n),
	}, nil
}

// Len returns the number of dense points mapped.
func (m *Mapper) Len() int {
	return len(m.mappings)
}

// Mapping returns the record for dense point i.
func (m *Mapper) Mapping(i int) PointMapping {
	return m.mappings[i]
}

// Mappings returns a copy of all records in dense point order.
func (m *Mapper) Mappings() []PointMapping {
	out := make([]PointMapping, len(m.mappings))
	copy(out, m.mappings)
	return out
}

// Point rebuilds dense point i from the current proxy state.
func (m *Mapper) Point(i int, lowPoints, lowNormals []math.Vec3) math.Vec3 {
	return Evaluate(m.mappings[i], lowPoints, lowNormals)
}

// Reconstruct rebuilds every dense point into dst, growing it if needed,
// and returns the filled slice. The proxy buffers must not be written
// while Reconstruct runs.
func (m *Mapper) Reconstruct(dst, lowPoints, lowNormals []math.Vec3) []math.Vec3 {
	n := len(m.mappings)
	if cap(dst) < n {
		dst = make([]math.Vec3, n)
	}
	dst = dst[:n]
	forChunks(n, m.opts.workers(), func(lo, hi int) error {
		for i := lo; i < hi; i++ {
			dst[i] = Evaluate(m.mappings[i], lowPoints, lowNormals)
		}
		return nil
	})
	return dst
}

// forChunks splits [0, n) into contiguous ranges and runs fn on them with
// at most workers goroutines. The first error is returned.
func forChunks(n, workers int, fn func(lo, hi int) error) error {
	if n == 0 {
		return nil
	}
	if workers < 1 {
		workers = 1
	}
	size := (n + workers - 1) / workers
	if size < minChunk {
		size = minChunk
	}
	if size >= n {
		return fn(0, n)
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for lo := 0; lo < n; lo += size {
		hi := min(lo+size, n)
		g.Go(func() error {
			return fn(lo, hi)
		})
	}
	return g.Wait()
}
