package mesh

import (
	"fmt"
	gomath "math"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/Faultbox/proxymesh/pkg/math"
)

// FromSDF tessellates an SDF with uniform marching cubes and welds the
// resulting triangle soup into an indexed mesh. Triangles that collapse
// onto a repeated vertex during welding are dropped.
func FromSDF(s sdf.SDF3, cells int) (*Mesh, error) {
	if cells <= 0 {
		return nil, fmt.Errorf("mesh: cells must be positive, got %d", cells)
	}
	soup := render.ToTriangles(s, render.NewMarchingCubesUniform(cells))
	if len(soup) == 0 {
		return nil, fmt.Errorf("mesh: sdf produced no triangles")
	}

	bb := s.BoundingBox()
	size := bb.Max.Sub(bb.Min)
	tol := gomath.Max(size.X, gomath.Max(size.Y, size.Z)) / float64(cells) * 1e-4

	w := newWelder(tol)
	triangles := make([]math.Triangle, 0, len(soup))
	for _, tri := range soup {
		t := math.Triangle{A: w.index(tri[0]), B: w.index(tri[1]), C: w.index(tri[2])}
		if t.HasDuplicate() {
			continue
		}
		triangles = append(triangles, t)
	}
	return &Mesh{Points: w.points, Triangles: triangles}, nil
}

// Sphere tessellates a sphere of the given radius centered at the origin.
func Sphere(radius float64, cells int) (*Mesh, error) {
	s, err := sdf.Sphere3D(radius)
	if err != nil {
		return nil, fmt.Errorf("mesh: sphere: %w", err)
	}
	return FromSDF(s, cells)
}

// Box tessellates a box centered at the origin with rounded edges.
func Box(x, y, z, round float64, cells int) (*Mesh, error) {
	s, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, round)
	if err != nil {
		return nil, fmt.Errorf("mesh: box: %w", err)
	}
	return FromSDF(s, cells)
}

// welder merges positions that quantize to the same grid cell.
type welder struct {
	inv    float64
	points []math.Vec3
	lookup map[[3]int64]int
}

func newWelder(tol float64) *welder {
	return &welder{inv: 1 / tol, lookup: make(map[[3]int64]int)}
}

func (w *welder) index(v v3.Vec) int {
	key := [3]int64{
		int64(gomath.Round(v.X * w.inv)),
		int64(gomath.Round(v.Y * w.inv)),
		int64(gomath.Round(v.Z * w.inv)),
	}
	if idx, ok := w.lookup[key]; ok {
		return idx
	}
	w.points = append(w.points, math.Vec3{X: v.X, Y: v.Y, Z: v.Z})
	w.lookup[key] = len(w.points) - 1
	return len(w.points) - 1
}
