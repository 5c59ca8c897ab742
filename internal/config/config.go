// Package config handles proxytool configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/Faultbox/proxymesh/internal/logger"
	"github.com/Faultbox/proxymesh/pkg/mapping"
	"github.com/Faultbox/proxymesh/pkg/simplify"
)

// Source shapes.
const (
	ShapeIcosphere   = "icosphere"
	ShapeIcosahedron = "icosahedron"
	ShapeSphere      = "sphere"
	ShapeBox         = "box"
	ShapeGrid        = "grid"
)

// MaxSubdivisions caps source.subdivisions. An icosphere at this level
// already has over a million faces.
const MaxSubdivisions = 8

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

// Config holds all proxytool settings.
type Config struct {
	Simplify SimplifyConfig `yaml:"simplify"`
	Mapping  MappingConfig  `yaml:"mapping"`
	Source   SourceConfig   `yaml:"source"`
	Animate  AnimateConfig  `yaml:"animate"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// SimplifyConfig holds proxy generation settings.
type SimplifyConfig struct {
	TargetFaces       int     `yaml:"target_faces"`
	DistanceThreshold float64 `yaml:"distance_threshold"`
	Strict            bool    `yaml:"strict"`
	EmitSplits        bool    `yaml:"emit_splits"`
}

// MappingConfig holds dense-to-proxy mapping settings.
type MappingConfig struct {
	MinStep float64 `yaml:"min_step"`
	MaxIter int     `yaml:"max_iter"`
	Workers int     `yaml:"workers"` // 0 means GOMAXPROCS
}

// SourceConfig selects the generated dense mesh.
type SourceConfig struct {
	Shape        string  `yaml:"shape"`
	Radius       float64 `yaml:"radius"`
	Cells        int     `yaml:"cells"`        // marching cubes resolution for sdf shapes
	Subdivisions int     `yaml:"subdivisions"` // icosphere levels
}

// AnimateConfig holds deformation demo settings.
type AnimateConfig struct {
	Frames       int     `yaml:"frames"`
	TwistDegrees float64 `yaml:"twist_degrees"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Simplify: SimplifyConfig{
			TargetFaces: 1000,
			Strict:      true,
		},
		Mapping: MappingConfig{
			MinStep: 1e-6,
			MaxIter: 100,
		},
		Source: SourceConfig{
			Shape:        ShapeIcosphere,
			Radius:       1,
			Cells:        64,
			Subdivisions: 3,
		},
		Animate: AnimateConfig{
			Frames:       30,
			TwistDegrees: 90,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	switch {
	case c.Simplify.TargetFaces < 0:
		return fmt.Errorf("%w: simplify.target_faces %d is negative", ErrInvalid, c.Simplify.TargetFaces)
	case c.Simplify.DistanceThreshold < 0:
		return fmt.Errorf("%w: simplify.distance_threshold %v is negative", ErrInvalid, c.Simplify.DistanceThreshold)
	case c.Mapping.MinStep <= 0:
		return fmt.Errorf("%w: mapping.min_step must be positive", ErrInvalid)
	case c.Mapping.MaxIter <= 0:
		return fmt.Errorf("%w: mapping.max_iter must be positive", ErrInvalid)
	case c.Mapping.Workers < 0:
		return fmt.Errorf("%w: mapping.workers %d is negative", ErrInvalid, c.Mapping.Workers)
	case c.Source.Radius <= 0:
		return fmt.Errorf("%w: source.radius must be positive", ErrInvalid)
	case c.Source.Subdivisions < 0:
		return fmt.Errorf("%w: source.subdivisions %d is negative", ErrInvalid, c.Source.Subdivisions)
	case c.Source.Subdivisions > MaxSubdivisions:
		return fmt.Errorf("%w: source.subdivisions %d exceeds %d", ErrInvalid, c.Source.Subdivisions, MaxSubdivisions)
	case c.Animate.Frames < 0:
		return fmt.Errorf("%w: animate.frames %d is negative", ErrInvalid, c.Animate.Frames)
	}

	switch c.Source.Shape {
	case ShapeIcosphere, ShapeIcosahedron, ShapeGrid:
	case ShapeSphere, ShapeBox:
		if c.Source.Cells < 2 {
			return fmt.Errorf("%w: source.cells must be at least 2 for %s", ErrInvalid, c.Source.Shape)
		}
	default:
		return fmt.Errorf("%w: unknown source.shape %q", ErrInvalid, c.Source.Shape)
	}

	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("%w: logging.level: %v", ErrInvalid, err)
	}
	return nil
}

// SimplifyOptions converts the simplify section.
func (c *Config) SimplifyOptions() simplify.Options {
	return simplify.Options{
		TargetFaceCount:   c.Simplify.TargetFaces,
		DistanceThreshold: c.Simplify.DistanceThreshold,
		Strict:            c.Simplify.Strict,
		EmitSplitRecords:  c.Simplify.EmitSplits,
	}
}

// MappingOptions converts the mapping section.
func (c *Config) MappingOptions() mapping.Options {
	opts := mapping.DefaultOptions()
	opts.MinStep = c.Mapping.MinStep
	opts.MaxIter = c.Mapping.MaxIter
	if c.Mapping.Workers > 0 {
		opts.Workers = c.Mapping.Workers
	}
	return opts
}
