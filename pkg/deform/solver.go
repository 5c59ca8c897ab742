package deform

import (
	"errors"
	"fmt"

	"github.com/Faultbox/proxymesh/pkg/math"
)

var (
	// ErrNotConfigured is returned by Step before Configure.
	ErrNotConfigured = errors.New("solver not configured")
	// ErrConstraintCount is returned when the constrained positions do not
	// match the configured constraints.
	ErrConstraintCount = errors.New("constraint count mismatch")
)

// Solver computes proxy positions from constrained vertex targets.
// Configure is called whenever the set of constrained vertices changes;
// Step is called once per frame with one target per constrained vertex,
// in Configure order, and fills solution with every vertex position.
type Solver interface {
	Configure(rest []math.Vec3, triangles []math.Triangle, constrained []int) error
	Step(constrained, solution []math.Vec3) error
}

// StaticSolver pins constrained vertices to their targets and leaves all
// other vertices at rest.
type StaticSolver struct {
	rest        []math.Vec3
	constrained []int
}

// Configure implements Solver.
func (s *StaticSolver) Configure(rest []math.Vec3, _ []math.Triangle, constrained []int) error {
	for _, i := range constrained {
		if i < 0 || i >= len(rest) {
			return fmt.Errorf("static solver: constrained vertex %d of %d out of range", i, len(rest))
		}
	}
	s.rest = rest
	s.constrained = append(s.constrained[:0], constrained...)
	return nil
}

// Step implements Solver.
func (s *StaticSolver) Step(constrained, solution []math.Vec3) error {
	if s.rest == nil {
		return ErrNotConfigured
	}
	if len(constrained) != len(s.constrained) {
		return fmt.Errorf("%w: got %d targets for %d vertices", ErrConstraintCount, len(constrained), len(s.constrained))
	}
	copy(solution, s.rest)
	for k, i := range s.constrained {
		solution[i] = constrained[k]
	}
	return nil
}
