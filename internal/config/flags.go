package config

import (
	"flag"
	"strconv"
)

// Flags holds command-line overrides. Unset flags keep their sentinel
// values and leave the config untouched.
type Flags struct {
	config    *string
	debug     *bool
	target    *int
	threshold *float64
	strict    *optionalBool
	splits    *optionalBool
	shape     *string
	cells     *int
	subdiv    *int
	workers   *int
}

// RegisterFlags defines the config flags on fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{
		config:    fs.String("config", "", "Path to config file"),
		debug:     fs.Bool("debug", false, "Enable debug logging"),
		target:    fs.Int("target", -1, "Target proxy face count"),
		threshold: fs.Float64("threshold", -1, "Pair vertices closer than this distance"),
		strict:    &optionalBool{},
		splits:    &optionalBool{},
		shape:     fs.String("shape", "", "Source shape: icosphere, icosahedron, sphere, box, grid"),
		cells:     fs.Int("cells", 0, "Marching cubes cells for sdf shapes"),
		subdiv:    fs.Int("subdiv", -1, "Icosphere subdivision levels"),
		workers:   fs.Int("workers", 0, "Mapping workers (0 = GOMAXPROCS)"),
	}
	fs.Var(f.strict, "strict", "Fail on degenerate input faces (-strict=false discards them)")
	fs.Var(f.splits, "splits", "Record vertex splits")
	return f
}

// optionalBool is a boolean flag that remembers whether it was given, so
// both -x and -x=false can override the config file.
type optionalBool struct {
	set   bool
	value bool
}

func (b *optionalBool) String() string {
	if b == nil || !b.set {
		return ""
	}
	return strconv.FormatBool(b.value)
}

func (b *optionalBool) Set(s string) error {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	b.set, b.value = true, v
	return nil
}

func (b *optionalBool) IsBoolFlag() bool { return true }

// ConfigPath returns the explicit config path if provided via -config.
func (f *Flags) ConfigPath() string {
	if f == nil {
		return ""
	}
	return *f.config
}

// apply applies CLI flag overrides to the config.
func (f *Flags) apply(cfg *Config) {
	if f == nil {
		return
	}
	if *f.debug {
		cfg.Logging.Level = "debug"
	}
	if *f.target >= 0 {
		cfg.Simplify.TargetFaces = *f.target
	}
	if *f.threshold >= 0 {
		cfg.Simplify.DistanceThreshold = *f.threshold
	}
	if f.strict.set {
		cfg.Simplify.Strict = f.strict.value
	}
	if f.splits.set {
		cfg.Simplify.EmitSplits = f.splits.value
	}
	if *f.shape != "" {
		cfg.Source.Shape = *f.shape
	}
	if *f.cells > 0 {
		cfg.Source.Cells = *f.cells
	}
	if *f.subdiv >= 0 {
		cfg.Source.Subdivisions = *f.subdiv
	}
	if *f.workers > 0 {
		cfg.Mapping.Workers = *f.workers
	}
}
