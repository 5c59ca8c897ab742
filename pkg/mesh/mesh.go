// Package mesh provides an indexed triangle mesh and the utilities the
// simplifier and mapper need around it: validation, vertex normals,
// connectivity and procedural sources.
package mesh

import (
	"errors"
	"fmt"
	gomath "math"

	"github.com/Faultbox/proxymesh/pkg/math"
)

// ErrIndexOutOfRange is returned when a triangle references a vertex that
// does not exist.
var ErrIndexOutOfRange = errors.New("triangle index out of range")

// Mesh is an indexed triangle mesh.
type Mesh struct {
	Points    []math.Vec3
	Triangles []math.Triangle
}

// New creates a mesh over the given slices without copying them.
func New(points []math.Vec3, triangles []math.Triangle) *Mesh {
	return &Mesh{Points: points, Triangles: triangles}
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Points)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Triangles)
}

// IsEmpty returns true if the mesh has no triangles.
func (m *Mesh) IsEmpty() bool {
	return len(m.Triangles) == 0
}

// Clone returns a deep copy.
func (m *Mesh) Clone() *Mesh {
	points := make([]math.Vec3, len(m.Points))
	copy(points, m.Points)
	triangles := make([]math.Triangle, len(m.Triangles))
	copy(triangles, m.Triangles)
	return &Mesh{Points: points, Triangles: triangles}
}

// Validate checks that every triangle references an existing vertex.
func (m *Mesh) Validate() error {
	return ValidateTriangles(len(m.Points), m.Triangles)
}

// ValidateTriangles checks triangle indices against a vertex count.
func ValidateTriangles(vertexCount int, triangles []math.Triangle) error {
	for i, t := range triangles {
		for _, idx := range t.Indices() {
			if idx < 0 || idx >= vertexCount {
				return fmt.Errorf("%w: triangle %d references vertex %d of %d", ErrIndexOutOfRange, i, idx, vertexCount)
			}
		}
	}
	return nil
}

// Bounds returns the axis-aligned bounding box of all points.
func (m *Mesh) Bounds() (min, max math.Vec3) {
	if len(m.Points) == 0 {
		return math.Vec3{}, math.Vec3{}
	}
	min = math.Vec3{X: gomath.Inf(1), Y: gomath.Inf(1), Z: gomath.Inf(1)}
	max = math.Vec3{X: gomath.Inf(-1), Y: gomath.Inf(-1), Z: gomath.Inf(-1)}
	for _, p := range m.Points {
		min = math.Vec3{X: gomath.Min(min.X, p.X), Y: gomath.Min(min.Y, p.Y), Z: gomath.Min(min.Z, p.Z)}
		max = math.Vec3{X: gomath.Max(max.X, p.X), Y: gomath.Max(max.Y, p.Y), Z: gomath.Max(max.Z, p.Z)}
	}
	return min, max
}

// UsedVertices reports, per vertex, whether any triangle references it.
func (m *Mesh) UsedVertices() []bool {
	used := make([]bool, len(m.Points))
	for _, t := range m.Triangles {
		used[t.A] = true
		used[t.B] = true
		used[t.C] = true
	}
	return used
}

// Components returns the number of edge-connected triangle components.
// Vertices that no triangle references are not counted.
func (m *Mesh) Components() int {
	parent := make([]int, len(m.Points))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[ra] = rb
		}
	}
	for _, t := range m.Triangles {
		union(t.A, t.B)
		union(t.B, t.C)
	}

	roots := make(map[int]struct{})
	for i, used := range m.UsedVertices() {
		if used {
			roots[find(i)] = struct{}{}
		}
	}
	return len(roots)
}
