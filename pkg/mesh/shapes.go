package mesh

import (
	gomath "math"

	"github.com/Faultbox/proxymesh/pkg/math"
)

// Icosahedron returns a regular icosahedron with unit circumradius and
// outward counter-clockwise winding: 12 vertices, 20 triangles.
func Icosahedron() *Mesh {
	t := (1 + gomath.Sqrt(5)) / 2
	raw := []math.Vec3{
		{X: -1, Y: t}, {X: 1, Y: t}, {X: -1, Y: -t}, {X: 1, Y: -t},
		{Y: -1, Z: t}, {Y: 1, Z: t}, {Y: -1, Z: -t}, {Y: 1, Z: -t},
		{X: t, Z: -1}, {X: t, Z: 1}, {X: -t, Z: -1}, {X: -t, Z: 1},
	}
	points := make([]math.Vec3, len(raw))
	for i, p := range raw {
		points[i] = p.Normalize()
	}
	triangles := []math.Triangle{
		{A: 0, B: 11, C: 5}, {A: 0, B: 5, C: 1}, {A: 0, B: 1, C: 7}, {A: 0, B: 7, C: 10}, {A: 0, B: 10, C: 11},
		{A: 1, B: 5, C: 9}, {A: 5, B: 11, C: 4}, {A: 11, B: 10, C: 2}, {A: 10, B: 7, C: 6}, {A: 7, B: 1, C: 8},
		{A: 3, B: 9, C: 4}, {A: 3, B: 4, C: 2}, {A: 3, B: 2, C: 6}, {A: 3, B: 6, C: 8}, {A: 3, B: 8, C: 9},
		{A: 4, B: 9, C: 5}, {A: 2, B: 4, C: 11}, {A: 6, B: 2, C: 10}, {A: 8, B: 6, C: 7}, {A: 9, B: 8, C: 1},
	}
	return &Mesh{Points: points, Triangles: triangles}
}

// Icosphere returns an icosahedron subdivided the given number of times
// with every vertex pushed onto the sphere of the given radius.
func Icosphere(radius float64, subdivisions int) *Mesh {
	m := Icosahedron()
	for i := 0; i < subdivisions; i++ {
		m = Subdivide(m, true)
	}
	for i, p := range m.Points {
		m.Points[i] = p.Scale(radius)
	}
	return m
}

// Subdivide splits every triangle into four at its edge midpoints. Shared
// edges share their midpoint. With project set, each midpoint is moved
// out to the mean distance of its endpoints from the origin.
func Subdivide(m *Mesh, project bool) *Mesh {
	points := make([]math.Vec3, len(m.Points), len(m.Points)+len(m.Triangles)*3/2)
	copy(points, m.Points)
	midpoints := make(map[[2]int]int)

	midpoint := func(a, b int) int {
		key := [2]int{min(a, b), max(a, b)}
		if idx, ok := midpoints[key]; ok {
			return idx
		}
		pa, pb := m.Points[a], m.Points[b]
		p := pa.Midpoint(pb)
		if project {
			p = p.Normalize().Scale((pa.Length() + pb.Length()) / 2)
		}
		points = append(points, p)
		midpoints[key] = len(points) - 1
		return len(points) - 1
	}

	triangles := make([]math.Triangle, 0, len(m.Triangles)*4)
	for _, t := range m.Triangles {
		ab := midpoint(t.A, t.B)
		bc := midpoint(t.B, t.C)
		ca := midpoint(t.C, t.A)
		triangles = append(triangles,
			math.Triangle{A: t.A, B: ab, C: ca},
			math.Triangle{A: t.B, B: bc, C: ab},
			math.Triangle{A: t.C, B: ca, C: bc},
			math.Triangle{A: ab, B: bc, C: ca},
		)
	}
	return &Mesh{Points: points, Triangles: triangles}
}

// Grid returns a flat n x n quad grid in the z = 0 plane covering
// [0, size] x [0, size], two triangles per cell.
func Grid(n int, size float64) *Mesh {
	points := make([]math.Vec3, 0, (n+1)*(n+1))
	for j := 0; j <= n; j++ {
		for i := 0; i <= n; i++ {
			points = append(points, math.Vec3{X: size * float64(i) / float64(n), Y: size * float64(j) / float64(n)})
		}
	}
	triangles := make([]math.Triangle, 0, 2*n*n)
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			v := j*(n+1) + i
			triangles = append(triangles,
				math.Triangle{A: v, B: v + 1, C: v + n + 2},
				math.Triangle{A: v, B: v + n + 2, C: v + n + 1},
			)
		}
	}
	return &Mesh{Points: points, Triangles: triangles}
}
