// meshtool is a CLI utility for decimating meshes and testing collision proxies.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-lod/internal/config"
	"github.com/Faultbox/midgard-lod/internal/logger"
)

// app carries what every command needs.
type app struct {
	cfg *config.Config
	out io.Writer
	log *zap.Logger
}

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	opts := logger.Options{Level: cfg.Logging.Level, Console: os.Stderr, JSON: cfg.Logging.JSON}
	if cfg.Logging.LogFile != "" {
		opts.File = logger.DefaultFileConfig(cfg.Logging.LogFile)
	}
	if err := logger.InitWithOptions(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}

	args := config.Args()
	if len(args) < 1 {
		printUsage(os.Stderr)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	a := &app{cfg: cfg, out: os.Stdout, log: logger.Log}
	logger.Sugar.Debugf("Config: %+v", cfg)

	err = a.run(ctx, args[0], args[1:])
	stop()
	logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "info":
		return a.cmdInfo(args)
	case "simplify", "s":
		return a.cmdSimplify(ctx, args)
	case "raycast", "ray":
		return a.cmdRaycast(ctx, args)
	case "batch":
		return a.cmdBatch(ctx, args)
	case "config":
		return a.cmdConfig(args)
	case "help", "-h", "--help":
		printUsage(a.out)
		return nil
	default:
		printUsage(os.Stderr)
		return fmt.Errorf("unknown command: %s", command)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `meshtool - mesh decimation and collision proxy utility

Usage:
  meshtool [global options] <command> [options]

Global options:
  -config <file>       Config file (default ./meshtool.yaml, then user config dir)
  -debug               Enable debug logging
  -log-file <file>     Also write logs to a rotating file
  -quality <q>         Fraction of triangles to keep
  -iterations <n>      Maximum decimation sweeps
  -aggressiveness <k>  Error threshold growth exponent
  -workers <n>         Batch worker count

Commands:
  info <file.obj>                          Show mesh information
  simplify <in.obj> <out.obj>              Decimate one mesh
  raycast <file.obj> ox oy oz dx dy dz     Cast a ray against a collision proxy
  batch -out <dir> <file.obj|dir>...       Decimate many meshes in parallel
  config [-o file]                         Print or save the effective config

Examples:
  meshtool info house.obj
  meshtool -quality 0.25 simplify house.obj house_lod.obj
  meshtool raycast -closest house.obj 0 10 0 0 -1 0
  meshtool -workers 4 batch -out lod/ models/`)
}
