package math

import "math"

// SphereEpsilon enlarges every triangle sphere to absorb rounding error.
const SphereEpsilon = 1e-6

// Sphere is a bounding sphere.
type Sphere struct {
	Center Vec3
	Radius float64
}

// Contains reports whether p lies inside or on the sphere.
func (s Sphere) Contains(p Vec3) bool {
	return p.Sub(s.Center).LengthSquared() <= s.Radius*s.Radius
}

// SphereFromTriangle returns a sphere containing the corners a, b and c.
// The diametral sphere of each edge is tried first; acute triangles fall
// back to the circumsphere.
func SphereFromTriangle(a, b, c Vec3) Sphere {
	edges := [3][3]Vec3{{a, b, c}, {b, c, a}, {c, a, b}}
	for _, e := range edges {
		center := e[0].Midpoint(e[1])
		r2 := e[0].Sub(e[1]).LengthSquared() / 4
		if e[2].Sub(center).LengthSquared() <= r2 {
			return Sphere{Center: center, Radius: math.Sqrt(r2) + SphereEpsilon}
		}
	}

	// Barycentric circumcenter weights from squared edge lengths.
	a2 := c.Sub(b).LengthSquared()
	b2 := a.Sub(c).LengthSquared()
	c2 := b.Sub(a).LengthSquared()
	wa := a2 * (b2 + c2 - a2)
	wb := b2 * (c2 + a2 - b2)
	wc := c2 * (a2 + b2 - c2)
	sum := wa + wb + wc
	center := Barycentric(a, b, c, wa/sum, wb/sum, wc/sum)

	radius := math.Max(center.Distance(a), math.Max(center.Distance(b), center.Distance(c)))
	return Sphere{Center: center, Radius: radius + SphereEpsilon}
}
