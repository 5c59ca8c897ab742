package deform

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/proxymesh/pkg/math"
	"github.com/Faultbox/proxymesh/pkg/mesh"
)

var (
	// ErrDuplicateSection is returned when a section name is reused.
	ErrDuplicateSection = errors.New("duplicate section")
	// ErrSectionNotFound is returned for an unknown section name.
	ErrSectionNotFound = errors.New("section not found")
	// ErrVertexConstrained is returned when a vertex would belong to two
	// sections.
	ErrVertexConstrained = errors.New("vertex already constrained")
)

// Simulator owns the rest pose of a proxy mesh and its constrained
// sections, and asks a Solver for new positions each step.
type Simulator struct {
	rest      []math.Vec3
	triangles []math.Triangle
	solver    Solver
	log       *zap.Logger

	sections []*Section
	owner    map[int]string
	dirty    bool

	constrained []int
	targets     []math.Vec3
}

// NewSimulator creates a simulator over the proxy rest pose.
func NewSimulator(rest []math.Vec3, triangles []math.Triangle, solver Solver, log *zap.Logger) (*Simulator, error) {
	if err := mesh.ValidateTriangles(len(rest), triangles); err != nil {
		return nil, fmt.Errorf("simulator: %w", err)
	}
	if solver == nil {
		solver = &StaticSolver{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Simulator{
		rest:      rest,
		triangles: triangles,
		solver:    solver,
		log:       log,
		owner:     make(map[int]string),
	}, nil
}

// Rest returns the rest positions.
func (s *Simulator) Rest() []math.Vec3 {
	return s.rest
}

// AddSection constrains the section's vertices. The section is kept by
// reference so later Transform changes take effect on the next step.
func (s *Simulator) AddSection(sec *Section) error {
	for _, other := range s.sections {
		if other.Name == sec.Name {
			return fmt.Errorf("%w: %q", ErrDuplicateSection, sec.Name)
		}
	}
	for _, i := range sec.Indices {
		if i < 0 || i >= len(s.rest) {
			return fmt.Errorf("section %q: %w: vertex %d of %d", sec.Name, mesh.ErrIndexOutOfRange, i, len(s.rest))
		}
		if name, ok := s.owner[i]; ok {
			return fmt.Errorf("section %q: %w: vertex %d belongs to %q", sec.Name, ErrVertexConstrained, i, name)
		}
	}
	for _, i := range sec.Indices {
		s.owner[i] = sec.Name
	}
	s.sections = append(s.sections, sec)
	s.dirty = true
	return nil
}

// RemoveSection drops the named section.
func (s *Simulator) RemoveSection(name string) error {
	for k, sec := range s.sections {
		if sec.Name != name {
			continue
		}
		for _, i := range sec.Indices {
			delete(s.owner, i)
		}
		s.sections = append(s.sections[:k], s.sections[k+1:]...)
		s.dirty = true
		return nil
	}
	return fmt.Errorf("%w: %q", ErrSectionNotFound, name)
}

// Section returns the named section.
func (s *Simulator) Section(name string) (*Section, bool) {
	for _, sec := range s.sections {
		if sec.Name == name {
			return sec, true
		}
	}
	return nil, false
}

// Reset removes every section.
func (s *Simulator) Reset() {
	s.sections = nil
	clear(s.owner)
	s.dirty = true
}

// ConstrainedCount returns the number of constrained vertices.
func (s *Simulator) ConstrainedCount() int {
	return len(s.owner)
}

// Step writes the next proxy positions into dst, growing it if needed,
// and returns it. With no constrained vertices the rest pose is returned.
func (s *Simulator) Step(dst []math.Vec3) ([]math.Vec3, error) {
	if cap(dst) < len(s.rest) {
		dst = make([]math.Vec3, len(s.rest))
	}
	dst = dst[:len(s.rest)]

	if s.dirty {
		if err := s.configure(); err != nil {
			return nil, err
		}
	}
	if len(s.constrained) == 0 {
		copy(dst, s.rest)
		return dst, nil
	}

	s.targets = s.targets[:0]
	for _, sec := range s.sections {
		s.targets = sec.WritePositions(s.targets, s.rest)
	}
	if err := s.solver.Step(s.targets, dst); err != nil {
		return nil, fmt.Errorf("simulator step: %w", err)
	}
	return dst, nil
}

func (s *Simulator) configure() error {
	s.constrained = s.constrained[:0]
	for _, sec := range s.sections {
		s.constrained = sec.WriteIndices(s.constrained)
	}
	s.dirty = false
	if len(s.constrained) == 0 {
		return nil
	}
	if err := s.solver.Configure(s.rest, s.triangles, s.constrained); err != nil {
		s.dirty = true
		return fmt.Errorf("simulator configure: %w", err)
	}
	s.log.Debug("solver configured",
		zap.Int("sections", len(s.sections)),
		zap.Int("constrained", len(s.constrained)))
	return nil
}
