// Package simplify reduces the triangle count of an indexed mesh with greedy
// quadric error metric edge collapses.
//
// One engine, Decimate, produces a compacted Result. Simplify turns that into
// a renderable Mesh; the collider package wraps it in a ray query.
package simplify

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-lod/pkg/math"
)

// Stats summarises one decimation run.
type Stats struct {
	InputTriangles  int
	TargetTriangles int
	OutputTriangles int
	OutputVertices  int
	Iterations      int
	Collapses       int

	// BorderSkips and FlipSkips count rejected collapse attempts.
	BorderSkips int
	FlipSkips   int
}

// Result is a decimated and compacted mesh. It is immutable and safe for
// concurrent reads.
type Result struct {
	g     *graph
	stats Stats
}

// Decimate runs the collapse loop on m. Malformed input fails with an
// *InvalidMeshError before any work is done. The context is checked between
// sweeps only.
func Decimate(ctx context.Context, m *Mesh, opts Options) (*Result, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}

	g := newGraph(m, opts)
	stats := Stats{
		InputTriangles:  len(g.triangles),
		TargetTriangles: opts.targetCount(len(g.triangles)),
	}

	if err := g.run(ctx, stats.TargetTriangles, &stats); err != nil {
		return nil, fmt.Errorf("decimating %d triangles: %w", stats.InputTriangles, err)
	}
	g.compact()

	stats.OutputTriangles = len(g.triangles)
	stats.OutputVertices = len(g.vertices)

	opts.logger().Info("mesh decimated",
		zap.Int("input_triangles", stats.InputTriangles),
		zap.Int("target_triangles", stats.TargetTriangles),
		zap.Int("output_triangles", stats.OutputTriangles),
		zap.Int("output_vertices", stats.OutputVertices),
		zap.Int("iterations", stats.Iterations),
		zap.Int("collapses", stats.Collapses),
	)

	return &Result{g: g, stats: stats}, nil
}

// Simplify decimates m to roughly quality * its triangle count using the
// default tuning.
func Simplify(m *Mesh, quality float32) (*Mesh, error) {
	out, _, err := SimplifyWithOptions(context.Background(), m, DefaultOptions().WithQuality(quality))
	return out, err
}

// SimplifyWithOptions decimates m and returns the new mesh with run stats.
func SimplifyWithOptions(ctx context.Context, m *Mesh, opts Options) (*Mesh, Stats, error) {
	res, err := Decimate(ctx, m, opts)
	if err != nil {
		return nil, Stats{}, err
	}
	return res.Mesh(), res.Stats(), nil
}

// Stats returns the run summary.
func (r *Result) Stats() Stats {
	return r.stats
}

// TriangleCount returns the number of triangles left.
func (r *Result) TriangleCount() int {
	return len(r.g.triangles)
}

// VertexCount returns the number of vertices left.
func (r *Result) VertexCount() int {
	return len(r.g.vertices)
}

// Triangle returns the corner positions of triangle i.
func (r *Result) Triangle(i int) (a, b, c math.Vec3) {
	t := &r.g.triangles[i]
	return r.g.vertices[t.v[0]].p, r.g.vertices[t.v[1]].p, r.g.vertices[t.v[2]].p
}

// Mesh regenerates output buffers: positions, indices and one freshly
// computed normal per triangle. UVs are not carried over.
func (r *Result) Mesh() *Mesh {
	return r.g.regenerate()
}
