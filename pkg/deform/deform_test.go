package deform

import (
	"errors"
	gomath "math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/proxymesh/pkg/mapping"
	"github.com/Faultbox/proxymesh/pkg/math"
	"github.com/Faultbox/proxymesh/pkg/mesh"
)

func near(a, b math.Vec3, tol float64) bool {
	return a.Distance(b) <= tol
}

func TestSectionWritePositions(t *testing.T) {
	rest := []math.Vec3{{X: 1}, {Y: 1}, {Z: 1}}
	sec := NewSection("s", []int{2, 0})
	sec.Transform = mgl64.Translate3D(1, 2, 3)

	got := sec.WritePositions(nil, rest)
	want := []math.Vec3{{X: 1, Y: 2, Z: 4}, {X: 2, Y: 2, Z: 3}}
	if len(got) != len(want) {
		t.Fatalf("WritePositions() returned %d positions, want %d", len(got), len(want))
	}
	for i := range want {
		if !near(got[i], want[i], 1e-12) {
			t.Errorf("position %d = %v, want %v", i, got[i], want[i])
		}
	}
	if ids := sec.WriteIndices([]int{7}); len(ids) != 3 || ids[1] != 2 || ids[2] != 0 {
		t.Errorf("WriteIndices() = %v, want [7 2 0]", ids)
	}
}

func TestTwist(t *testing.T) {
	m := Twist(math.Vec3{X: 1}, math.Vec3{Z: 2}, gomath.Pi/2)
	got := math.FromMGL(mgl64.TransformCoordinate(mgl64.Vec3{2, 0, 5}, m))
	want := math.Vec3{X: 1, Y: 1, Z: 5}
	if !near(got, want, 1e-12) {
		t.Errorf("Twist() moved point to %v, want %v", got, want)
	}
}

func TestStaticSolver(t *testing.T) {
	rest := []math.Vec3{{X: 0}, {X: 1}, {X: 2}}
	var s StaticSolver
	if err := s.Step(nil, make([]math.Vec3, 3)); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Step() before Configure error = %v, want %v", err, ErrNotConfigured)
	}
	if err := s.Configure(rest, nil, []int{3}); err == nil {
		t.Error("Configure() accepted an out of range vertex")
	}
	if err := s.Configure(rest, nil, []int{1}); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}
	if err := s.Step(nil, make([]math.Vec3, 3)); !errors.Is(err, ErrConstraintCount) {
		t.Errorf("Step() error = %v, want %v", err, ErrConstraintCount)
	}

	sol := make([]math.Vec3, 3)
	if err := s.Step([]math.Vec3{{Y: 9}}, sol); err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	want := []math.Vec3{{X: 0}, {Y: 9}, {X: 2}}
	for i := range want {
		if sol[i] != want[i] {
			t.Errorf("solution[%d] = %v, want %v", i, sol[i], want[i])
		}
	}
}

type countingSolver struct {
	StaticSolver
	configures int
}

func (c *countingSolver) Configure(rest []math.Vec3, tris []math.Triangle, constrained []int) error {
	c.configures++
	return c.StaticSolver.Configure(rest, tris, constrained)
}

func TestSimulatorSections(t *testing.T) {
	grid := mesh.Grid(2, 1)
	solver := &countingSolver{}
	sim, err := NewSimulator(grid.Points, grid.Triangles, solver, nil)
	if err != nil {
		t.Fatalf("NewSimulator() error = %v", err)
	}

	// No constraints: rest pose, no solver involvement.
	got, err := sim.Step(nil)
	if err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	for i := range grid.Points {
		if got[i] != grid.Points[i] {
			t.Fatalf("vertex %d = %v, want rest %v", i, got[i], grid.Points[i])
		}
	}
	if solver.configures != 0 {
		t.Errorf("solver configured %d times without constraints", solver.configures)
	}

	lift := NewSection("lift", []int{0, 1})
	lift.Transform = mgl64.Translate3D(0, 0, 1)
	if err := sim.AddSection(lift); err != nil {
		t.Fatalf("AddSection() error = %v", err)
	}
	if err := sim.AddSection(NewSection("lift", []int{5})); !errors.Is(err, ErrDuplicateSection) {
		t.Errorf("AddSection() duplicate name error = %v, want %v", err, ErrDuplicateSection)
	}
	if err := sim.AddSection(NewSection("other", []int{1})); !errors.Is(err, ErrVertexConstrained) {
		t.Errorf("AddSection() shared vertex error = %v, want %v", err, ErrVertexConstrained)
	}
	if err := sim.AddSection(NewSection("bad", []int{99})); !errors.Is(err, mesh.ErrIndexOutOfRange) {
		t.Errorf("AddSection() bad vertex error = %v, want %v", err, mesh.ErrIndexOutOfRange)
	}
	if n := sim.ConstrainedCount(); n != 2 {
		t.Errorf("ConstrainedCount() = %d, want 2", n)
	}

	for frame := 0; frame < 3; frame++ {
		got, err = sim.Step(got)
		if err != nil {
			t.Fatalf("Step() error = %v", err)
		}
	}
	if solver.configures != 1 {
		t.Errorf("solver configured %d times, want 1", solver.configures)
	}
	for i, p := range got {
		want := grid.Points[i]
		if i < 2 {
			want = want.Add(math.Vec3{Z: 1})
		}
		if !near(p, want, 1e-12) {
			t.Errorf("vertex %d = %v, want %v", i, p, want)
		}
	}

	lift.Transform = mgl64.Translate3D(0, 0, 2)
	if got, err = sim.Step(got); err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	if !near(got[0], math.Vec3{Z: 2}, 1e-12) {
		t.Errorf("vertex 0 = %v after transform change, want (0, 0, 2)", got[0])
	}

	if err := sim.RemoveSection("missing"); !errors.Is(err, ErrSectionNotFound) {
		t.Errorf("RemoveSection() error = %v, want %v", err, ErrSectionNotFound)
	}
	if err := sim.RemoveSection("lift"); err != nil {
		t.Fatalf("RemoveSection() error = %v", err)
	}
	if got, err = sim.Step(got); err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	if got[0] != grid.Points[0] {
		t.Errorf("vertex 0 = %v after removal, want rest", got[0])
	}
	if _, ok := sim.Section("lift"); ok {
		t.Error("Section() found a removed section")
	}
}

func TestDriverRestPose(t *testing.T) {
	proxy := mesh.Grid(3, 1)
	dense := mesh.Grid(12, 1)
	// Lift the dense interior so offsets are not all zero.
	for i, p := range dense.Points {
		dense.Points[i].Z = 0.05 * gomath.Sin(3*p.X) * gomath.Sin(3*p.Y)
	}

	m, err := mapping.NewMapper(proxy.Points, proxy.Normals(), proxy.Triangles, dense.Points, mapping.DefaultOptions())
	if err != nil {
		t.Fatalf("NewMapper() error = %v", err)
	}
	sim, err := NewSimulator(proxy.Points, proxy.Triangles, nil, nil)
	if err != nil {
		t.Fatalf("NewSimulator() error = %v", err)
	}
	d, err := NewDriver(sim, m, proxy.Triangles, dense.Triangles)
	if err != nil {
		t.Fatalf("NewDriver() error = %v", err)
	}

	for frame := 0; frame < 2; frame++ {
		f, err := d.Step()
		if err != nil {
			t.Fatalf("Step() error = %v", err)
		}
		if f.Index != frame {
			t.Errorf("frame index = %d, want %d", f.Index, frame)
		}
		for i, p := range f.DensePoints {
			if !near(p, dense.Points[i], 1e-9) {
				t.Fatalf("frame %d: dense vertex %d = %v, want %v", frame, i, p, dense.Points[i])
			}
		}
		if len(f.DenseNormals) != len(dense.Points) {
			t.Fatalf("got %d dense normals, want %d", len(f.DenseNormals), len(dense.Points))
		}
	}
}

func TestDriverFollowsRigidMotion(t *testing.T) {
	proxy := mesh.Icosphere(1, 1)
	dense := mesh.Icosphere(1, 2)
	m, err := mapping.NewMapper(proxy.Points, proxy.Normals(), proxy.Triangles, dense.Points, mapping.DefaultOptions())
	if err != nil {
		t.Fatalf("NewMapper() error = %v", err)
	}
	rest, err := NewDriver(mustSimulator(t, proxy), m, proxy.Triangles, dense.Triangles)
	if err != nil {
		t.Fatalf("NewDriver() error = %v", err)
	}
	base, err := rest.Step()
	if err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	before := append([]math.Vec3(nil), base.DensePoints...)

	sim := mustSimulator(t, proxy)
	all := make([]int, len(proxy.Points))
	for i := range all {
		all[i] = i
	}
	whole := NewSection("whole", all)
	whole.Transform = mgl64.Translate3D(0, 0, 3).Mul4(mgl64.HomogRotate3DY(0.7))
	if err := sim.AddSection(whole); err != nil {
		t.Fatalf("AddSection() error = %v", err)
	}
	d, err := NewDriver(sim, m, proxy.Triangles, dense.Triangles)
	if err != nil {
		t.Fatalf("NewDriver() error = %v", err)
	}
	f, err := d.Step()
	if err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	for i, p := range f.DensePoints {
		want := math.FromMGL(mgl64.TransformCoordinate(before[i].MGL(), whole.Transform))
		if !near(p, want, 1e-9) {
			t.Errorf("dense vertex %d = %v, want %v", i, p, want)
		}
	}
}

func mustSimulator(t *testing.T, m *mesh.Mesh) *Simulator {
	t.Helper()
	sim, err := NewSimulator(m.Points, m.Triangles, nil, nil)
	if err != nil {
		t.Fatalf("NewSimulator() error = %v", err)
	}
	return sim
}

func TestNewDriverValidates(t *testing.T) {
	proxy := mesh.Grid(1, 1)
	m, err := mapping.NewMapper(proxy.Points, proxy.Normals(), proxy.Triangles, proxy.Points, mapping.DefaultOptions())
	if err != nil {
		t.Fatalf("NewMapper() error = %v", err)
	}
	sim := mustSimulator(t, proxy)
	bad := []math.Triangle{{A: 0, B: 1, C: 7}}
	if _, err := NewDriver(sim, m, proxy.Triangles, bad); !errors.Is(err, mesh.ErrIndexOutOfRange) {
		t.Errorf("NewDriver() error = %v, want %v", err, mesh.ErrIndexOutOfRange)
	}
}
