package math

import (
	"math"
	"testing"
)

func TestVec3Add(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{4, 5, 6}
	got := a.Add(b)
	want := Vec3{5, 7, 9}
	if got != want {
		t.Errorf("Vec3.Add() = %v, want %v", got, want)
	}
}

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	got := x.Cross(y)
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3Length(t *testing.T) {
	v := Vec3{2, 3, 6}
	if got := v.Length(); got != 7 {
		t.Errorf("Vec3.Length() = %v, want 7", got)
	}
	if got := v.LengthSquared(); got != 49 {
		t.Errorf("Vec3.LengthSquared() = %v, want 49", got)
	}
}

func TestVec3Normalize(t *testing.T) {
	v := Vec3{3, 4, 12}
	l := v.Normalize().Length()
	if math.Abs(l-1) > 1e-12 {
		t.Errorf("Vec3.Normalize().Length() = %v, want 1", l)
	}
	if got := (Vec3{}).Normalize(); got != (Vec3{}) {
		t.Errorf("zero Vec3.Normalize() = %v, want zero", got)
	}
}

func TestVec3MGLRoundTrip(t *testing.T) {
	v := Vec3{1.5, -2, 3.25}
	if got := FromMGL(v.MGL()); got != v {
		t.Errorf("FromMGL(MGL()) = %v, want %v", got, v)
	}
}

func TestBarycentric(t *testing.T) {
	a := Vec3{0, 0, 0}
	b := Vec3{1, 0, 0}
	c := Vec3{0, 1, 0}

	tests := []struct {
		name    string
		u, v, w float64
		want    Vec3
	}{
		{"corner a", 1, 0, 0, a},
		{"corner b", 0, 1, 0, b},
		{"corner c", 0, 0, 1, c},
		{"centroid", 0.5, 0.25, 0.25, Vec3{0.25, 0.25, 0}},
		{"outside", -1, 1, 1, Vec3{1, 1, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Barycentric(a, b, c, tt.u, tt.v, tt.w); got != tt.want {
				t.Errorf("Barycentric() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTriangleDegenerate(t *testing.T) {
	points := []Vec3{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}, {0, 1, 0}}

	tests := []struct {
		name string
		tri  Triangle
		want bool
	}{
		{"valid", Triangle{0, 1, 3}, false},
		{"collinear", Triangle{0, 1, 2}, true},
		{"repeated index", Triangle{0, 0, 3}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tri.IsDegenerate(points); got != tt.want {
				t.Errorf("IsDegenerate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTriangleReplace(t *testing.T) {
	tri := Triangle{4, 7, 9}
	got := tri.Replace(7, 4)
	if got != (Triangle{4, 4, 9}) {
		t.Errorf("Replace() = %v, want {4 4 9}", got)
	}
	if !got.HasDuplicate() {
		t.Error("expected replaced triangle to have a duplicate index")
	}
	if tri.Replace(1, 2) != tri {
		t.Error("Replace of absent index should not change the triangle")
	}
}
