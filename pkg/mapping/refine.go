package mapping

import "github.com/Faultbox/proxymesh/pkg/math"

// InitialStep is the pattern-search step size in barycentric units.
const InitialStep = 0.025

// ErrorAt measures how far the interpolated normal at (u, v) is from
// pointing at p: |n x (base - p)|^2, with n the renormalized blend of the
// corner normals and base the blend of the corners. The displacement is
// not normalized.
func ErrorAt(u, v float64, p math.Vec3, corners, normals [3]math.Vec3) float64 {
	w := 1 - u - v
	base := math.Barycentric(corners[0], corners[1], corners[2], u, v, w)
	n := math.Barycentric(normals[0], normals[1], normals[2], u, v, w).Normalize()
	return n.Cross(base.Sub(p)).LengthSquared()
}

// Refine runs a coordinate pattern search over (u, v) starting at
// (u0, v0) to minimize ErrorAt. Each iteration probes u±step and v±step
// and moves to the best probe that improves the error; otherwise the step
// is halved. The search stops once the step drops below minStep or after
// maxIter iterations. The result is not clamped to the triangle.
func Refine(u0, v0 float64, p math.Vec3, corners, normals [3]math.Vec3, minStep float64, maxIter int) (u, v, w float64) {
	u, v = u0, v0
	step := InitialStep
	best := ErrorAt(u, v, p, corners, normals)

	for iter := 0; iter < maxIter; iter++ {
		probes := [4][2]float64{
			{u - step, v},
			{u + step, v},
			{u, v - step},
			{u, v + step},
		}
		moved := false
		nu, nv := u, v
		for _, pr := range probes {
			if e := ErrorAt(pr[0], pr[1], p, corners, normals); e < best {
				best = e
				nu, nv = pr[0], pr[1]
				moved = true
			}
		}
		if moved {
			u, v = nu, nv
			continue
		}
		step /= 2
		if step < minStep {
			break
		}
	}
	return u, v, 1 - u - v
}
