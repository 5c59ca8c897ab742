package main

import (
	"fmt"

	"github.com/Faultbox/proxymesh/internal/config"
	"github.com/Faultbox/proxymesh/pkg/mesh"
)

// buildSource generates the dense mesh named by the source config.
func buildSource(c config.SourceConfig) (*mesh.Mesh, error) {
	if c.Subdivisions < 0 || c.Subdivisions > config.MaxSubdivisions {
		return nil, fmt.Errorf("subdivisions %d outside [0, %d]", c.Subdivisions, config.MaxSubdivisions)
	}
	switch c.Shape {
	case config.ShapeIcosphere:
		return mesh.Icosphere(c.Radius, c.Subdivisions), nil
	case config.ShapeIcosahedron:
		return mesh.Icosphere(c.Radius, 0), nil
	case config.ShapeGrid:
		n := 1 << c.Subdivisions
		return mesh.Grid(n, 2*c.Radius), nil
	case config.ShapeSphere:
		return mesh.Sphere(c.Radius, c.Cells)
	case config.ShapeBox:
		d := 2 * c.Radius
		return mesh.Box(d, d, d, 0.1*c.Radius, c.Cells)
	default:
		return nil, fmt.Errorf("unknown shape %q", c.Shape)
	}
}
