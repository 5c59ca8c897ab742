package deform

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/proxymesh/pkg/mapping"
	"github.com/Faultbox/proxymesh/pkg/math"
	"github.com/Faultbox/proxymesh/pkg/mesh"
)

// Frame is the state produced by one driver step. Its slices are owned by
// the driver and overwritten by the next step.
type Frame struct {
	Index        int
	ProxyPoints  []math.Vec3
	ProxyNormals []math.Vec3
	DensePoints  []math.Vec3
	DenseNormals []math.Vec3
}

// Driver runs the per-frame pipeline: solve the proxy, refresh its
// normals, rebuild the dense mesh through the mapper and refresh the dense
// normals.
type Driver struct {
	sim      *Simulator
	mapper   *mapping.Mapper
	proxyTri []math.Triangle
	denseTri []math.Triangle
	log      *zap.Logger

	frame Frame
}

// DriverOption configures a Driver.
type DriverOption func(*Driver)

// WithLogger sets the driver logger.
func WithLogger(log *zap.Logger) DriverOption {
	return func(d *Driver) {
		if log != nil {
			d.log = log
		}
	}
}

// NewDriver wires a simulator to a mapper built against the simulator's
// rest pose.
func NewDriver(sim *Simulator, mapper *mapping.Mapper, proxyTriangles, denseTriangles []math.Triangle, opts ...DriverOption) (*Driver, error) {
	if err := mesh.ValidateTriangles(len(sim.Rest()), proxyTriangles); err != nil {
		return nil, fmt.Errorf("driver: proxy: %w", err)
	}
	if err := mesh.ValidateTriangles(mapper.Len(), denseTriangles); err != nil {
		return nil, fmt.Errorf("driver: dense: %w", err)
	}
	d := &Driver{
		sim:      sim,
		mapper:   mapper,
		proxyTri: proxyTriangles,
		denseTri: denseTriangles,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.frame.Index = -1
	return d, nil
}

// Simulator returns the driven simulator.
func (d *Driver) Simulator() *Simulator {
	return d.sim
}

// Step advances one frame.
func (d *Driver) Step() (*Frame, error) {
	f := &d.frame
	points, err := d.sim.Step(f.ProxyPoints)
	if err != nil {
		return nil, err
	}
	f.ProxyPoints = points
	f.ProxyNormals = growVec3(f.ProxyNormals, len(points))
	mesh.UpdateNormals(f.ProxyPoints, d.proxyTri, f.ProxyNormals)

	f.DensePoints = d.mapper.Reconstruct(f.DensePoints, f.ProxyPoints, f.ProxyNormals)
	f.DenseNormals = growVec3(f.DenseNormals, len(f.DensePoints))
	mesh.UpdateNormals(f.DensePoints, d.denseTri, f.DenseNormals)

	f.Index++
	d.log.Debug("frame", zap.Int("index", f.Index), zap.Int("dense_points", len(f.DensePoints)))
	return f, nil
}

func growVec3(s []math.Vec3, n int) []math.Vec3 {
	if cap(s) < n {
		return make([]math.Vec3, n)
	}
	return s[:n]
}
