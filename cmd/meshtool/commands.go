package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-lod/pkg/collider"
	"github.com/Faultbox/midgard-lod/pkg/formats"
	"github.com/Faultbox/midgard-lod/pkg/math"
	"github.com/Faultbox/midgard-lod/pkg/picking"
	"github.com/Faultbox/midgard-lod/pkg/simplify"
)

var errUsage = errors.New("invalid arguments")

func usageError(usage string) error {
	return fmt.Errorf("%w\nUsage: %s", errUsage, usage)
}

// loadMesh reads an OBJ file into decimator buffers.
func loadMesh(path string) (*simplify.Mesh, error) {
	obj, err := formats.LoadOBJ(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	m, err := obj.Mesh()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

func (a *app) cmdInfo(args []string) error {
	if len(args) < 1 {
		return usageError("meshtool info <file.obj>")
	}

	obj, err := formats.LoadOBJ(args[0])
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "File:       %s\n", args[0])
	fmt.Fprintf(a.out, "Vertices:   %d\n", len(obj.Positions))
	fmt.Fprintf(a.out, "Triangles:  %d\n", obj.TriangleCount())
	fmt.Fprintf(a.out, "Tex coords: %d\n", len(obj.TexCoords))
	fmt.Fprintf(a.out, "Normals:    %d\n", len(obj.Normals))
	if box, ok := picking.BoundsOf(obj.Positions); ok {
		fmt.Fprintf(a.out, "Bounds:     %v - %v\n", box.Min, box.Max)
	}

	if _, err := obj.Mesh(); err != nil {
		fmt.Fprintf(a.out, "Warning:    %v\n", err)
	}
	return nil
}

func (a *app) cmdSimplify(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("simplify", flag.ContinueOnError)
	quality := fs.Float64("q", -1, "Fraction of triangles to keep (overrides -quality)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return usageError("meshtool simplify [-q quality] <in.obj> <out.obj>")
	}

	opts := a.cfg.Simplify.Options(a.log.Named("simplify"))
	if *quality >= 0 {
		opts.Quality = float32(*quality)
	}

	stats, err := simplifyFile(ctx, fs.Arg(0), fs.Arg(1), opts)
	if err != nil {
		return err
	}
	printStats(a, fs.Arg(1), stats)
	return nil
}

// simplifyFile decimates one OBJ file into another.
func simplifyFile(ctx context.Context, in, out string, opts simplify.Options) (simplify.Stats, error) {
	m, err := loadMesh(in)
	if err != nil {
		return simplify.Stats{}, err
	}

	lod, stats, err := simplify.SimplifyWithOptions(ctx, m, opts)
	if err != nil {
		return stats, fmt.Errorf("%s: %w", in, err)
	}
	if err := formats.SaveOBJ(out, lod); err != nil {
		return stats, fmt.Errorf("%s: %w", out, err)
	}
	return stats, nil
}

func printStats(a *app, name string, s simplify.Stats) {
	fmt.Fprintf(a.out, "%s: %d -> %d triangles (target %d), %d vertices, %d iterations, %d collapses\n",
		name, s.InputTriangles, s.OutputTriangles, s.TargetTriangles, s.OutputVertices, s.Iterations, s.Collapses)
}

func (a *app) cmdRaycast(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("raycast", flag.ContinueOnError)
	quality := fs.Float64("q", -1, "Proxy quality (overrides collider.quality)")
	maxDist := fs.Float64("max", 0, "Maximum hit distance (0 = unbounded)")
	closest := fs.Bool("closest", false, "Report the nearest hit instead of the first")
	if err := fs.Parse(args); err != nil {
		return err
	}
	const usage = "meshtool raycast [-q quality] [-max dist] [-closest] <file.obj> ox oy oz dx dy dz"
	if fs.NArg() != 7 {
		return usageError(usage)
	}

	var v [6]float32
	for i := range v {
		f, err := strconv.ParseFloat(fs.Arg(i+1), 32)
		if err != nil {
			return fmt.Errorf("%w: %v\nUsage: %s", errUsage, err, usage)
		}
		v[i] = float32(f)
	}
	origin := math.Vec3{X: v[0], Y: v[1], Z: v[2]}
	dir := math.Vec3{X: v[3], Y: v[4], Z: v[5]}
	if dir.Length() == 0 {
		return fmt.Errorf("%w: ray direction is zero", errUsage)
	}

	m, err := loadMesh(fs.Arg(0))
	if err != nil {
		return err
	}

	opts := a.cfg.ColliderOptions(a.log.Named("collider"))
	if *quality >= 0 {
		opts.Quality = float32(*quality)
	}
	c, err := collider.NewContext(ctx, m, opts)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Proxy: %d of %d triangles\n", c.TriangleCount(), m.TriangleCount())

	limit := picking.Unbounded
	if *maxDist > 0 {
		limit = float32(*maxDist)
	}
	ray := picking.NewRay(origin, dir, limit)
	query := c.Intersects
	if *closest {
		query = c.Closest
	}

	hit, ok := query(ray)
	if !ok {
		fmt.Fprintln(a.out, "Miss")
		return nil
	}
	a.log.Debug("ray hit", zap.Int("triangle", hit.Triangle), zap.Float32("distance", hit.Distance))
	fmt.Fprintf(a.out, "Hit triangle %d at distance %.4f\n", hit.Triangle, hit.Distance)
	fmt.Fprintf(a.out, "  point:  %v\n", hit.Point)
	fmt.Fprintf(a.out, "  normal: %v\n", hit.Normal)
	return nil
}

func (a *app) cmdConfig(args []string) error {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	output := fs.String("o", "", "Write to this file instead of stdout")
	save := fs.Bool("save", false, "Write to the user config directory")
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch {
	case *save:
		path, err := a.cfg.Save()
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Saved %s\n", path)
	case *output != "":
		if err := a.cfg.SaveTo(*output); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Saved %s\n", *output)
	default:
		data, err := a.cfg.Marshal()
		if err != nil {
			return err
		}
		if _, err := a.out.Write(data); err != nil {
			return err
		}
	}
	return nil
}
