package main

import (
	"flag"
	"fmt"
	gomath "math"
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/proxymesh/internal/config"
	"github.com/Faultbox/proxymesh/internal/logger"
	"github.com/Faultbox/proxymesh/pkg/deform"
	"github.com/Faultbox/proxymesh/pkg/mapping"
	"github.com/Faultbox/proxymesh/pkg/math"
	"github.com/Faultbox/proxymesh/pkg/mesh"
	"github.com/Faultbox/proxymesh/pkg/simplify"
)

type meshStats struct {
	Vertices   int `yaml:"vertices"`
	Triangles  int `yaml:"triangles"`
	Components int `yaml:"components"`
}

func statsOf(m *mesh.Mesh) meshStats {
	return meshStats{
		Vertices:   m.VertexCount(),
		Triangles:  m.TriangleCount(),
		Components: m.Components(),
	}
}

type simplifyReport struct {
	Shape        string     `yaml:"shape"`
	Source       meshStats  `yaml:"source"`
	Proxy        meshStats  `yaml:"proxy"`
	Contractions int        `yaml:"contractions"`
	Splits       int        `yaml:"splits"`
	Refined      *meshStats `yaml:"refined,omitempty"`
	ElapsedMS    int64      `yaml:"elapsed_ms"`
}

type errorStats struct {
	Max  float64 `yaml:"max"`
	Mean float64 `yaml:"mean"`
	RMS  float64 `yaml:"rms"`
}

type mapReport struct {
	Proxy     meshStats  `yaml:"proxy"`
	Points    int        `yaml:"points"`
	Error     errorStats `yaml:"round_trip_error"`
	MaxOffset float64    `yaml:"max_offset"`
	ElapsedMS int64      `yaml:"elapsed_ms"`
}

type frameReport struct {
	Frame           int     `yaml:"frame"`
	AngleDegrees    float64 `yaml:"angle_degrees"`
	MaxDisplacement float64 `yaml:"max_displacement"`
	Mean            float64 `yaml:"mean_displacement"`
}

type animateReport struct {
	Proxy       meshStats     `yaml:"proxy"`
	Constrained int           `yaml:"constrained"`
	Frames      []frameReport `yaml:"frames"`
}

func cmdSimplify(args []string) {
	fs := flag.NewFlagSet("simplify", flag.ExitOnError)
	cfg := setup(fs, args)

	dense, err := buildSource(cfg.Source)
	if err != nil {
		fail(err)
	}
	start := time.Now()
	res, err := buildProxy(cfg, dense)
	if err != nil {
		fail(err)
	}

	report := simplifyReport{
		Shape:        cfg.Source.Shape,
		Source:       statsOf(dense),
		Proxy:        statsOf(res.Mesh()),
		Contractions: res.Contractions,
		Splits:       len(res.Splits),
		ElapsedMS:    time.Since(start).Milliseconds(),
	}
	if len(res.Splits) > 0 {
		points, tris, err := simplify.Refine(res.Points, res.Triangles, res.Splits, len(res.Splits))
		if err != nil {
			fail(err)
		}
		refined := statsOf(mesh.New(points, tris))
		report.Refined = &refined
	}
	printYAML(report)
}

func cmdMap(args []string) {
	fs := flag.NewFlagSet("map", flag.ExitOnError)
	cfg := setup(fs, args)

	dense, err := buildSource(cfg.Source)
	if err != nil {
		fail(err)
	}
	res, err := buildProxy(cfg, dense)
	if err != nil {
		fail(err)
	}
	proxy := res.Mesh()
	normals := proxy.Normals()

	start := time.Now()
	m, err := buildMapper(cfg, proxy, normals, dense)
	if err != nil {
		fail(err)
	}
	rebuilt := m.Reconstruct(nil, proxy.Points, normals)

	report := mapReport{
		Proxy:     statsOf(proxy),
		Points:    m.Len(),
		Error:     compare(rebuilt, dense.Points),
		ElapsedMS: time.Since(start).Milliseconds(),
	}
	for _, pm := range m.Mappings() {
		report.MaxOffset = gomath.Max(report.MaxOffset, gomath.Abs(pm.Offset))
	}
	printYAML(report)
}

func cmdAnimate(args []string) {
	fs := flag.NewFlagSet("animate", flag.ExitOnError)
	frames := fs.Int("frames", -1, "Number of frames (overrides animate.frames)")
	cfg := setup(fs, args)
	if *frames >= 0 {
		cfg.Animate.Frames = *frames
	}

	dense, err := buildSource(cfg.Source)
	if err != nil {
		fail(err)
	}
	res, err := buildProxy(cfg, dense)
	if err != nil {
		fail(err)
	}
	proxy := res.Mesh()
	m, err := buildMapper(cfg, proxy, proxy.Normals(), dense)
	if err != nil {
		fail(err)
	}

	sim, err := deform.NewSimulator(proxy.Points, proxy.Triangles, &deform.StaticSolver{}, logger.Named("deform"))
	if err != nil {
		fail(err)
	}
	top, err := addTwistSections(sim, proxy)
	if err != nil {
		fail(err)
	}
	driver, err := deform.NewDriver(sim, m, proxy.Triangles, dense.Triangles, deform.WithLogger(logger.Named("driver")))
	if err != nil {
		fail(err)
	}

	report := animateReport{Proxy: statsOf(proxy), Constrained: sim.ConstrainedCount()}
	lo, hi := proxy.Bounds()
	pivot := lo.Midpoint(hi)
	up := math.Vec3{Y: 1}
	for i := 0; i < cfg.Animate.Frames; i++ {
		angle := cfg.Animate.TwistDegrees * float64(i+1) / float64(cfg.Animate.Frames)
		top.Transform = deform.Twist(pivot, up, angle*gomath.Pi/180)

		frame, err := driver.Step()
		if err != nil {
			fail(err)
		}
		stats := compare(frame.DensePoints, dense.Points)
		report.Frames = append(report.Frames, frameReport{
			Frame:           frame.Index,
			AngleDegrees:    angle,
			MaxDisplacement: stats.Max,
			Mean:            stats.Mean,
		})
	}
	printYAML(report)
}

func cmdConfig(args []string) {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	out := fs.String("o", "", "Write the configuration to this file")
	cfg := setup(fs, args)

	if *out != "" {
		if err := cfg.SaveTo(*out); err != nil {
			fail(err)
		}
		logger.Info("config written", zap.String("path", *out))
		return
	}
	data, err := cfg.Marshal()
	if err != nil {
		fail(err)
	}
	os.Stdout.Write(data)
}

func buildProxy(cfg *config.Config, dense *mesh.Mesh) (*simplify.Result, error) {
	opts := cfg.SimplifyOptions()
	opts.Logger = logger.Named("simplify")
	res, err := simplify.Simplify(dense.Points, dense.Triangles, opts)
	if err != nil {
		return nil, err
	}
	logger.Info("proxy built",
		zap.Int("source_faces", dense.TriangleCount()),
		zap.Int("proxy_faces", len(res.Triangles)),
		zap.Int("contractions", res.Contractions))
	return res, nil
}

func buildMapper(cfg *config.Config, proxy *mesh.Mesh, normals []math.Vec3, dense *mesh.Mesh) (*mapping.Mapper, error) {
	opts := cfg.MappingOptions()
	opts.Logger = logger.Named("mapping")
	return mapping.NewMapper(proxy.Points, normals, proxy.Triangles, dense.Points, opts)
}

// addTwistSections pins the bottom quarter of the proxy along Y and
// returns the section holding its upper half.
func addTwistSections(sim *deform.Simulator, proxy *mesh.Mesh) (*deform.Section, error) {
	lo, hi := proxy.Bounds()
	height := hi.Y - lo.Y
	mid := lo.Y + height/2
	var base, top []int
	for i, p := range proxy.Points {
		switch {
		case p.Y > mid:
			top = append(top, i)
		case p.Y < lo.Y+height/4:
			base = append(base, i)
		}
	}
	if len(top) == 0 {
		return nil, fmt.Errorf("proxy has no vertices above y=%v", mid)
	}
	if err := sim.AddSection(deform.NewSection("base", base)); err != nil {
		return nil, err
	}
	sec := deform.NewSection("top", top)
	if err := sim.AddSection(sec); err != nil {
		return nil, err
	}
	return sec, nil
}

func compare(got, want []math.Vec3) errorStats {
	var s errorStats
	if len(want) == 0 {
		return s
	}
	var sum, sum2 float64
	for i := range want {
		d := got[i].Distance(want[i])
		s.Max = gomath.Max(s.Max, d)
		sum += d
		sum2 += d * d
	}
	n := float64(len(want))
	s.Mean = sum / n
	s.RMS = gomath.Sqrt(sum2 / n)
	return s
}

func printYAML(v any) {
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		fail(err)
	}
	enc.Close()
}
