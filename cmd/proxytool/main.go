// proxytool builds coarse proxy meshes from dense meshes, maps the dense
// vertices onto the proxy, and replays proxy deformations on the dense
// mesh.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Faultbox/proxymesh/internal/config"
	"github.com/Faultbox/proxymesh/internal/logger"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "simplify", "s":
		cmdSimplify(args)
	case "map", "m":
		cmdMap(args)
	case "animate", "a":
		cmdAnimate(args)
	case "config":
		cmdConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`proxytool - proxy mesh simplification and detail mapping

Usage:
  proxytool <command> [options]

Commands:
  simplify   Simplify the source mesh and report the proxy
  map        Map the source mesh onto its proxy and report round-trip error
  animate    Twist the proxy and report how far the dense mesh moves
  config     Print the effective configuration (-o to write it)

Options (all commands):
  -config <file>   Config file (default ./proxytool.yaml or user config dir)
  -debug           Enable debug logging
  -target <n>      Target proxy face count
  -threshold <d>   Also pair vertices closer than d
  -strict[=false]  Fail on degenerate input faces (default true)
  -splits          Record vertex splits
  -shape <name>    icosphere, icosahedron, sphere, box, grid
  -cells <n>       Marching cubes cells for sphere and box
  -subdiv <n>      Icosphere subdivision levels
  -workers <n>     Mapping workers (0 = GOMAXPROCS)

Examples:
  proxytool simplify -shape sphere -cells 48 -target 200
  proxytool map -subdiv 4 -target 500
  proxytool animate -target 300 -debug
  proxytool config -o proxytool.yaml`)
}

// setup parses the shared flags, loads the config and starts logging.
// Extra flags may be registered on fs before it is called.
func setup(fs *flag.FlagSet, args []string) *config.Config {
	f := config.RegisterFlags(fs)
	fs.Parse(args)

	cfg, err := config.Load(f)
	if err != nil {
		fail(err)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fail(err)
	}
	logger.Sugar.Debugf("config: %+v", cfg)
	return cfg
}

func fail(err error) {
	logger.Sync()
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
