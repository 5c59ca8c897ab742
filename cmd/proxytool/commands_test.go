package main

import (
	"testing"

	"github.com/Faultbox/proxymesh/internal/config"
	"github.com/Faultbox/proxymesh/pkg/deform"
	"github.com/Faultbox/proxymesh/pkg/math"
)

func TestBuildSource(t *testing.T) {
	tests := []struct {
		shape string
		faces int
	}{
		{config.ShapeIcosahedron, 20},
		{config.ShapeIcosphere, 20 * 4 * 4},
		{config.ShapeGrid, 2 * 4 * 4},
	}
	for _, tt := range tests {
		t.Run(tt.shape, func(t *testing.T) {
			src := config.Default().Source
			src.Shape = tt.shape
			src.Subdivisions = 2
			m, err := buildSource(src)
			if err != nil {
				t.Fatalf("buildSource() error = %v", err)
			}
			if m.TriangleCount() != tt.faces {
				t.Errorf("buildSource() has %d faces, want %d", m.TriangleCount(), tt.faces)
			}
		})
	}

	src := config.Default().Source
	src.Shape = "torus"
	if _, err := buildSource(src); err == nil {
		t.Error("buildSource() accepted an unknown shape")
	}

	for _, n := range []int{-1, config.MaxSubdivisions + 1, 63} {
		src := config.Default().Source
		src.Shape = config.ShapeGrid
		src.Subdivisions = n
		if _, err := buildSource(src); err == nil {
			t.Errorf("buildSource(%d subdivisions) error = nil, want error", n)
		}
	}
}

func TestAddTwistSections(t *testing.T) {
	src := config.Default().Source
	src.Subdivisions = 1
	m, err := buildSource(src)
	if err != nil {
		t.Fatalf("buildSource() error = %v", err)
	}
	sim, err := deform.NewSimulator(m.Points, m.Triangles, nil, nil)
	if err != nil {
		t.Fatalf("NewSimulator() error = %v", err)
	}
	top, err := addTwistSections(sim, m)
	if err != nil {
		t.Fatalf("addTwistSections() error = %v", err)
	}
	for _, i := range top.Indices {
		if m.Points[i].Y <= 0 {
			t.Errorf("vertex %d at y=%v is in the top section", i, m.Points[i].Y)
		}
	}
	if _, ok := sim.Section("base"); !ok {
		t.Error("base section missing")
	}
}

func TestCompare(t *testing.T) {
	got := []math.Vec3{{X: 1}, {X: 0}, {Y: 3}}
	want := []math.Vec3{{X: 0}, {X: 0}, {Y: 0}}
	s := compare(got, want)
	if s.Max != 3 {
		t.Errorf("Max = %v, want 3", s.Max)
	}
	if s.Mean != 4.0/3 {
		t.Errorf("Mean = %v, want %v", s.Mean, 4.0/3)
	}
	if zero := compare(nil, nil); zero != (errorStats{}) {
		t.Errorf("compare(nil, nil) = %+v, want zero", zero)
	}
}
