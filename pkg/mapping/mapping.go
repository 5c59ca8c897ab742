// Package mapping records how each vertex of a dense mesh can be rebuilt
// from a coarse proxy mesh, and rebuilds the dense positions after the
// proxy deforms.
//
// A PointMapping is computed once against the rest pose and never
// updated. Evaluating it against the current proxy positions and normals
// yields the deformed dense vertex.
package mapping

import (
	"errors"
	gomath "math"
	"runtime"

	"go.uber.org/zap"

	"github.com/Faultbox/proxymesh/pkg/math"
)

var (
	// ErrNoCandidateTriangle is returned when no proxy triangle can be
	// assigned to a dense point.
	ErrNoCandidateTriangle = errors.New("no candidate triangle")
	// ErrNormalCountMismatch is returned when the proxy normals do not
	// line up with the proxy points.
	ErrNormalCountMismatch = errors.New("normal count does not match point count")
)

// PointMapping rebuilds one dense vertex from a proxy triangle. U, V and W
// weight the triangle's first, second and third corner and may fall
// slightly outside [0, 1].
type PointMapping struct {
	// Triangle is the proxy triangle index and Corners its vertex ids at
	// construction time.
	Triangle int
	Corners  math.Triangle
	U, V, W  float64
	// Offset is the signed distance along the interpolated normal.
	Offset float64
}

// Options controls mapping construction and reconstruction.
type Options struct {
	// MinStep ends the pattern search once its step falls below it.
	MinStep float64
	// MaxIter caps pattern-search iterations per point.
	MaxIter int
	// Workers bounds parallel tasks. Zero or less means GOMAXPROCS.
	Workers int
	// Logger receives diagnostics. Nil disables logging.
	Logger *zap.Logger
}

// DefaultOptions returns the standard refinement settings.
func DefaultOptions() Options {
	return Options{
		MinStep: 1e-6,
		MaxIter: 100,
		Workers: runtime.GOMAXPROCS(0),
	}
}

func (o Options) workers() int {
	if o.Workers <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return o.Workers
}

// Evaluate rebuilds a dense position from the current proxy positions and
// normals.
func Evaluate(pm PointMapping, lowPoints, lowNormals []math.Vec3) math.Vec3 {
	t := pm.Corners
	base := math.Barycentric(lowPoints[t.A], lowPoints[t.B], lowPoints[t.C], pm.U, pm.V, pm.W)
	n := math.Barycentric(lowNormals[t.A], lowNormals[t.B], lowNormals[t.C], pm.U, pm.V, pm.W).Normalize()
	return base.Add(n.Scale(pm.Offset))
}

// signedOffset is |d| signed by the side of the normal d lies on.
func signedOffset(d, n math.Vec3) float64 {
	dot := d.Dot(n)
	if dot == 0 {
		return 0
	}
	return gomath.Copysign(d.Length(), dot)
}
