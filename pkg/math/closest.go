package math

// ClosestPointOnTriangle returns the squared distance from p to the
// triangle abc and the barycentric coordinates (u, v, w) of the closest
// point, weighting a, b and c respectively.
//
// The triangle is parameterized as a + t0*(b-a) + t1*(c-a) and the
// minimizer is found by case analysis over the seven regions of the
// (t0, t1) plane, so boundary solutions are exact rather than clamped.
// The returned weights are never negative.
func ClosestPointOnTriangle(p, a, b, c Vec3) (dist2, u, v, w float64) {
	diff := p.Sub(a)
	edge0 := b.Sub(a)
	edge1 := c.Sub(a)
	a00 := edge0.Dot(edge0)
	a01 := edge0.Dot(edge1)
	a11 := edge1.Dot(edge1)
	b0 := -diff.Dot(edge0)
	b1 := -diff.Dot(edge1)
	det := a00*a11 - a01*a01
	t0 := a01*b1 - a11*b0
	t1 := a01*b0 - a00*b1

	if t0+t1 <= det {
		switch {
		case t0 < 0 && t1 < 0: // region 4
			if b0 < 0 {
				t1 = 0
				if -b0 >= a00 {
					t0 = 1
				} else {
					t0 = -b0 / a00
				}
			} else {
				t0 = 0
				t1 = edgeParam(b1, a11)
			}
		case t0 < 0: // region 3
			t0 = 0
			t1 = edgeParam(b1, a11)
		case t1 < 0: // region 5
			t1 = 0
			t0 = edgeParam(b0, a00)
		default: // region 0, interior
			invDet := 1 / det
			t0 *= invDet
			t1 *= invDet
		}
	} else {
		switch {
		case t0 < 0: // region 2
			tmp0 := a01 + b0
			tmp1 := a11 + b1
			if tmp1 > tmp0 {
				numer := tmp1 - tmp0
				denom := a00 - 2*a01 + a11
				if numer >= denom {
					t0, t1 = 1, 0
				} else {
					t0 = numer / denom
					t1 = 1 - t0
				}
			} else {
				t0 = 0
				switch {
				case tmp1 <= 0:
					t1 = 1
				case b1 >= 0:
					t1 = 0
				default:
					t1 = -b1 / a11
				}
			}
		case t1 < 0: // region 6
			tmp0 := a01 + b1
			tmp1 := a00 + b0
			if tmp1 > tmp0 {
				numer := tmp1 - tmp0
				denom := a00 - 2*a01 + a11
				if numer >= denom {
					t0, t1 = 0, 1
				} else {
					t1 = numer / denom
					t0 = 1 - t1
				}
			} else {
				t1 = 0
				switch {
				case tmp1 <= 0:
					t0 = 1
				case b0 >= 0:
					t0 = 0
				default:
					t0 = -b0 / a00
				}
			}
		default: // region 1
			numer := a11 + b1 - a01 - b0
			if numer <= 0 {
				t0, t1 = 0, 1
			} else {
				denom := a00 - 2*a01 + a11
				if numer >= denom {
					t0, t1 = 1, 0
				} else {
					t0 = numer / denom
					t1 = 1 - t0
				}
			}
		}
	}

	dx := diff.X - (t0*edge0.X + t1*edge1.X)
	dy := diff.Y - (t0*edge0.Y + t1*edge1.Y)
	dz := diff.Z - (t0*edge0.Z + t1*edge1.Z)
	u = max(0, 1-t0-t1)
	return dx*dx + dy*dy + dz*dz, u, t0, t1
}

// edgeParam clamps the minimizer -b/a of a single edge to [0, 1].
func edgeParam(b, a float64) float64 {
	switch {
	case b >= 0:
		return 0
	case -b >= a:
		return 1
	default:
		return -b / a
	}
}
