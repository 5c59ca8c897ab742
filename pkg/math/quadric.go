package math

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// SingularDeterminant is the determinant magnitude at or below which a
// quadric's optimal position is considered undefined.
const SingularDeterminant = 1e-10

// Quadric is a symmetric 4x4 error quadric stored as its upper triangle:
//
//	[q0 q1 q2 q3]
//	[.  q4 q5 q6]
//	[.  .  q7 q8]
//	[.  .  .  q9]
type Quadric [10]float64

// PlaneQuadric returns the fundamental quadric Kp = p*p^T of the plane
// ax + by + cz + d = 0.
func PlaneQuadric(a, b, c, d float64) Quadric {
	return Quadric{
		a * a, a * b, a * c, a * d,
		b * b, b * c, b * d,
		c * c, c * d,
		d * d,
	}
}

// FaceQuadric returns the plane quadric of the triangle p0 p1 p2.
// ok is false when the corners are collinear.
func FaceQuadric(p0, p1, p2 Vec3) (q Quadric, ok bool) {
	n := p1.Sub(p0).Cross(p2.Sub(p0))
	if n.IsZero() {
		return Quadric{}, false
	}
	n = n.Normalize()
	d := -n.Dot(p0)
	return PlaneQuadric(n.X, n.Y, n.Z, d), true
}

// Add returns q + other.
func (q Quadric) Add(other Quadric) Quadric {
	for i := range q {
		q[i] += other[i]
	}
	return q
}

// Eval returns the error v^T Q v with v in homogeneous coordinates.
func (q Quadric) Eval(v Vec3) float64 {
	x, y, z := v.X, v.Y, v.Z
	return q[0]*x*x + 2*q[1]*x*y + 2*q[2]*x*z + 2*q[3]*x +
		q[4]*y*y + 2*q[5]*y*z + 2*q[6]*y +
		q[7]*z*z + 2*q[8]*z +
		q[9]
}

// Matrix expands q into a full symmetric matrix.
func (q Quadric) Matrix() mgl64.Mat4 {
	return mgl64.Mat4FromRows(
		mgl64.Vec4{q[0], q[1], q[2], q[3]},
		mgl64.Vec4{q[1], q[4], q[5], q[6]},
		mgl64.Vec4{q[2], q[5], q[7], q[8]},
		mgl64.Vec4{q[3], q[6], q[8], q[9]},
	)
}

// Optimal returns the position minimizing Eval. It solves the gradient
// system with the last row replaced by (0, 0, 0, 1); ok is false when that
// system is numerically singular.
func (q Quadric) Optimal() (v Vec3, ok bool) {
	m := mgl64.Mat4FromRows(
		mgl64.Vec4{q[0], q[1], q[2], q[3]},
		mgl64.Vec4{q[1], q[4], q[5], q[6]},
		mgl64.Vec4{q[2], q[5], q[7], q[8]},
		mgl64.Vec4{0, 0, 0, 1},
	)
	if math.Abs(m.Det()) <= SingularDeterminant {
		return Vec3{}, false
	}
	col := m.Inv().Col(3)
	return Vec3{col[0], col[1], col[2]}, true
}
