package math

// Triangle is an ordered triple of vertex indices.
type Triangle struct {
	A, B, C int
}

// Indices returns the vertex indices as an array.
func (t Triangle) Indices() [3]int {
	return [3]int{t.A, t.B, t.C}
}

// Contains reports whether the triangle references vertex v.
func (t Triangle) Contains(v int) bool {
	return t.A == v || t.B == v || t.C == v
}

// HasDuplicate reports whether any two indices are equal.
func (t Triangle) HasDuplicate() bool {
	return t.A == t.B || t.B == t.C || t.A == t.C
}

// Replace returns a copy with every occurrence of from rewritten to to.
func (t Triangle) Replace(from, to int) Triangle {
	if t.A == from {
		t.A = to
	}
	if t.B == from {
		t.B = to
	}
	if t.C == from {
		t.C = to
	}
	return t
}

// Corners returns the three positions referenced by the triangle.
func (t Triangle) Corners(points []Vec3) (a, b, c Vec3) {
	return points[t.A], points[t.B], points[t.C]
}

// Normal returns the unnormalized face normal (b-a) x (c-a).
func (t Triangle) Normal(points []Vec3) Vec3 {
	a, b, c := t.Corners(points)
	return b.Sub(a).Cross(c.Sub(a))
}

// IsDegenerate reports whether the triangle repeats a vertex or its
// corners are collinear.
func (t Triangle) IsDegenerate(points []Vec3) bool {
	return t.HasDuplicate() || t.Normal(points).IsZero()
}
