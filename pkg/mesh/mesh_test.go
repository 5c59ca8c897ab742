package mesh

import (
	"errors"
	gomath "math"
	"testing"

	"github.com/Faultbox/proxymesh/pkg/math"
)

func TestIcosahedron(t *testing.T) {
	m := Icosahedron()
	if m.VertexCount() != 12 {
		t.Errorf("expected 12 vertices, got %d", m.VertexCount())
	}
	if m.TriangleCount() != 20 {
		t.Errorf("expected 20 triangles, got %d", m.TriangleCount())
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	for i, p := range m.Points {
		if gomath.Abs(p.Length()-1) > 1e-12 {
			t.Errorf("vertex %d at radius %v, want 1", i, p.Length())
		}
	}
	// Outward winding: every face normal points away from the origin.
	for i, tri := range m.Triangles {
		a, _, _ := tri.Corners(m.Points)
		if tri.Normal(m.Points).Dot(a) <= 0 {
			t.Errorf("triangle %d is wound inward", i)
		}
	}
	if c := m.Components(); c != 1 {
		t.Errorf("Components() = %d, want 1", c)
	}
}

func TestSubdivide(t *testing.T) {
	m := Subdivide(Icosahedron(), true)
	// Euler: V = 12 + 30 edge midpoints.
	if m.VertexCount() != 42 {
		t.Errorf("expected 42 vertices, got %d", m.VertexCount())
	}
	if m.TriangleCount() != 80 {
		t.Errorf("expected 80 triangles, got %d", m.TriangleCount())
	}
	for i, p := range m.Points {
		if gomath.Abs(p.Length()-1) > 1e-12 {
			t.Errorf("vertex %d at radius %v, want 1", i, p.Length())
		}
	}
}

func TestIcosphereRadius(t *testing.T) {
	m := Icosphere(2.5, 2)
	if m.TriangleCount() != 320 {
		t.Errorf("expected 320 triangles, got %d", m.TriangleCount())
	}
	for i, p := range m.Points {
		if gomath.Abs(p.Length()-2.5) > 1e-9 {
			t.Fatalf("vertex %d at radius %v, want 2.5", i, p.Length())
		}
	}
}

func TestValidateOutOfRange(t *testing.T) {
	m := New([]math.Vec3{{}, {X: 1}, {Y: 1}}, []math.Triangle{{A: 0, B: 1, C: 3}})
	err := m.Validate()
	if !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("Validate() = %v, want ErrIndexOutOfRange", err)
	}
}

func TestComputeNormalsSphere(t *testing.T) {
	m := Icosahedron()
	normals := m.Normals()
	for i, n := range normals {
		// Regular solid: vertex normals are radial.
		if n.Distance(m.Points[i]) > 1e-9 {
			t.Errorf("normal %d = %v, want %v", i, n, m.Points[i])
		}
	}
}

func TestComputeNormalsFlat(t *testing.T) {
	m := Grid(3, 1)
	for i, n := range m.Normals() {
		if n.Distance(math.Vec3{Z: 1}) > 1e-12 {
			t.Errorf("normal %d = %v, want +Z", i, n)
		}
	}
}

func TestComponents(t *testing.T) {
	points := []math.Vec3{
		{}, {X: 1}, {Y: 1},
		{X: 5}, {X: 6}, {X: 5, Y: 1},
		{X: 9}, // isolated
	}
	m := New(points, []math.Triangle{{A: 0, B: 1, C: 2}, {A: 3, B: 4, C: 5}})
	if c := m.Components(); c != 2 {
		t.Errorf("Components() = %d, want 2", c)
	}
}

func TestCloneIsDeep(t *testing.T) {
	m := Icosahedron()
	c := m.Clone()
	c.Points[0] = math.Vec3{X: 100}
	c.Triangles[0] = math.Triangle{}
	if m.Points[0].X == 100 || m.Triangles[0] == (math.Triangle{}) {
		t.Error("Clone() shares storage with the original")
	}
}

func TestSphereFromSDF(t *testing.T) {
	m, err := Sphere(1, 24)
	if err != nil {
		t.Fatalf("Sphere() failed: %v", err)
	}
	if m.IsEmpty() {
		t.Fatal("mesh is empty")
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	// Welding must share vertices between neighbouring triangles.
	if m.VertexCount() >= 3*m.TriangleCount() {
		t.Errorf("expected welded vertices, got %d vertices for %d triangles", m.VertexCount(), m.TriangleCount())
	}
	for i, p := range m.Points {
		if gomath.Abs(p.Length()-1) > 0.1 {
			t.Fatalf("vertex %d at radius %v, want ~1", i, p.Length())
		}
	}
	t.Logf("sphere: %d vertices, %d triangles", m.VertexCount(), m.TriangleCount())
}
