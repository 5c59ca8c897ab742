// Package deform drives a proxy mesh through an external deformation
// solver and carries the result back to the dense mesh.
//
// Constrained vertices are grouped in sections, each moved rigidly by its
// own transform. The solver places the remaining vertices.
package deform

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/proxymesh/pkg/math"
)

// Section is a group of proxy vertices that follow one transform.
type Section struct {
	Name      string
	Indices   []int
	Transform mgl64.Mat4
}

// NewSection returns a section with an identity transform.
func NewSection(name string, indices []int) *Section {
	return &Section{Name: name, Indices: indices, Transform: mgl64.Ident4()}
}

// Len returns the number of constrained vertices.
func (s *Section) Len() int {
	return len(s.Indices)
}

// WriteIndices appends the constrained vertex ids to dst.
func (s *Section) WriteIndices(dst []int) []int {
	return append(dst, s.Indices...)
}

// WritePositions appends the transformed rest positions of the section's
// vertices to dst.
func (s *Section) WritePositions(dst, rest []math.Vec3) []math.Vec3 {
	for _, i := range s.Indices {
		p := mgl64.TransformCoordinate(rest[i].MGL(), s.Transform)
		dst = append(dst, math.FromMGL(p))
	}
	return dst
}

// Twist returns a rotation by angle radians about the axis through pivot.
func Twist(pivot, axis math.Vec3, angle float64) mgl64.Mat4 {
	c := pivot.MGL()
	return mgl64.Translate3D(c.X(), c.Y(), c.Z()).
		Mul4(mgl64.HomogRotate3D(angle, axis.Normalize().MGL())).
		Mul4(mgl64.Translate3D(-c.X(), -c.Y(), -c.Z()))
}
