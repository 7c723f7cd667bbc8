package simplify

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/midgard-lod/pkg/math"
)

func TestSimplifyCube(t *testing.T) {
	out, err := Simplify(cubeMesh(), 0.5)
	if err != nil {
		t.Fatalf("Simplify failed: %v", err)
	}

	n := out.TriangleCount()
	if n < 1 || n > 6 {
		t.Errorf("expected 1..6 triangles, got %d", n)
	}
	if i := checkIndices(out); i >= 0 {
		t.Errorf("index %d (%d) out of range for %d positions", i, out.Indices[i], len(out.Positions))
	}
	if len(out.Normals) != n {
		t.Errorf("expected %d normals, got %d", n, len(out.Normals))
	}
	if len(out.UVs) != 0 {
		t.Errorf("expected no UVs, got %d", len(out.UVs))
	}

	// A closed mesh stays closed: every edge is shared by two triangles.
	uses := make(map[edgeKey]int)
	for i := 0; i < len(out.Indices); i += 3 {
		for j := 0; j < 3; j++ {
			uses[makeEdgeKey(int32(out.Indices[i+j]), int32(out.Indices[i+(j+1)%3]))]++
		}
	}
	for e, c := range uses {
		if c != 2 {
			t.Errorf("edge %v used %d times, want 2", e, c)
		}
	}
}

func TestSimplifyQualityOne(t *testing.T) {
	for name, m := range map[string]*Mesh{
		"cube":   cubeMesh(),
		"grid":   gridMesh(6),
		"sphere": sphereMesh(8, 12),
	} {
		t.Run(name, func(t *testing.T) {
			out, stats, err := SimplifyWithOptions(context.Background(), m, DefaultOptions().WithQuality(1))
			if err != nil {
				t.Fatalf("Simplify failed: %v", err)
			}
			if out.TriangleCount() != m.TriangleCount() {
				t.Errorf("expected %d triangles, got %d", m.TriangleCount(), out.TriangleCount())
			}
			if stats.Iterations != 0 || stats.Collapses != 0 {
				t.Errorf("expected no work, got %d iterations and %d collapses", stats.Iterations, stats.Collapses)
			}
		})
	}
}

func TestSimplifyReachesTarget(t *testing.T) {
	tests := []struct {
		name    string
		mesh    *Mesh
		quality float32
	}{
		{"grid half", gridMesh(8), 0.5},
		{"grid tenth", gridMesh(8), 0.1},
		{"sphere half", sphereMesh(8, 12), 0.5},
		{"sphere quarter", sphereMesh(16, 24), 0.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, stats, err := SimplifyWithOptions(context.Background(), tt.mesh, DefaultOptions().WithQuality(tt.quality))
			if err != nil {
				t.Fatalf("Simplify failed: %v", err)
			}
			if stats.OutputTriangles > stats.TargetTriangles {
				t.Errorf("expected at most %d triangles, got %d", stats.TargetTriangles, stats.OutputTriangles)
			}
			if stats.OutputTriangles > stats.InputTriangles {
				t.Errorf("output %d exceeds input %d", stats.OutputTriangles, stats.InputTriangles)
			}
			if out.TriangleCount() != stats.OutputTriangles {
				t.Errorf("mesh has %d triangles, stats say %d", out.TriangleCount(), stats.OutputTriangles)
			}
			if len(out.Positions) != stats.OutputVertices {
				t.Errorf("mesh has %d positions, stats say %d", len(out.Positions), stats.OutputVertices)
			}
			if i := checkIndices(out); i >= 0 {
				t.Errorf("index %d out of range", i)
			}
			if stats.Iterations > DefaultMaxIterations {
				t.Errorf("ran %d iterations, cap is %d", stats.Iterations, DefaultMaxIterations)
			}
		})
	}
}

func TestSimplifyIdempotent(t *testing.T) {
	first, err := Simplify(sphereMesh(16, 24), 0.25)
	if err != nil {
		t.Fatalf("Simplify failed: %v", err)
	}

	// Already at its own target: no sweep should run.
	second, stats, err := SimplifyWithOptions(context.Background(), first, DefaultOptions().WithQuality(1))
	if err != nil {
		t.Fatalf("second Simplify failed: %v", err)
	}
	if stats.Iterations > 1 {
		t.Errorf("expected at most 1 pass, got %d", stats.Iterations)
	}
	if second.TriangleCount() != first.TriangleCount() {
		t.Errorf("expected %d triangles, got %d", first.TriangleCount(), second.TriangleCount())
	}
}

func TestSimplifyZeroQuality(t *testing.T) {
	m := sphereMesh(8, 12)
	out, err := Simplify(m, 0)
	if err != nil {
		t.Fatalf("Simplify failed: %v", err)
	}
	if out.TriangleCount() > m.TriangleCount() {
		t.Errorf("output %d exceeds input %d", out.TriangleCount(), m.TriangleCount())
	}
	if i := checkIndices(out); i >= 0 {
		t.Errorf("index %d out of range", i)
	}
}

func TestSimplifyFlatGridStaysInPlane(t *testing.T) {
	m := gridMesh(8)
	out, err := Simplify(m, 0.25)
	if err != nil {
		t.Fatalf("Simplify failed: %v", err)
	}
	if out.TriangleCount() >= m.TriangleCount() {
		t.Errorf("expected fewer than %d triangles, got %d", m.TriangleCount(), out.TriangleCount())
	}

	// Every edge costs nothing on a plane, so merged vertices land on
	// endpoints or midpoints and never leave the unit square.
	for i, p := range out.Positions {
		if p.X < 0 || p.X > 1 || p.Y < 0 || p.Y > 1 || p.Z != 0 {
			t.Errorf("position %d = %v left the unit square", i, p)
		}
	}
}

func TestSimplifyInvalidMesh(t *testing.T) {
	cube := cubeMesh()

	tests := []struct {
		name string
		mesh *Mesh
	}{
		{"nil", nil},
		{"no positions", &Mesh{Indices: []uint16{0, 1, 2}}},
		{"no indices", &Mesh{Positions: cube.Positions}},
		{"seven indices", &Mesh{Positions: cube.Positions, Indices: []uint16{0, 1, 2, 3, 4, 5, 6}}},
		{"index out of range", &Mesh{Positions: cube.Positions, Indices: []uint16{0, 1, 8}}},
		{"uv count mismatch", &Mesh{Positions: cube.Positions, Indices: cube.Indices, UVs: make([]math.Vec2, 3)}},
		{"normal count mismatch", &Mesh{Positions: cube.Positions, Indices: cube.Indices, Normals: make([]math.Vec3, 5)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Simplify(tt.mesh, 0.5)
			if out != nil {
				t.Error("expected no mesh on error")
			}
			if !errors.Is(err, ErrInvalidMesh) {
				t.Fatalf("expected ErrInvalidMesh, got %v", err)
			}
			var meshErr *InvalidMeshError
			if !errors.As(err, &meshErr) {
				t.Errorf("expected *InvalidMeshError, got %T", err)
			}
		})
	}
}

func TestSimplifyAcceptsPassThroughBuffers(t *testing.T) {
	m := cubeMesh()
	m.Normals = make([]math.Vec3, len(m.Positions))
	m.UVs = make([]math.Vec2, len(m.Positions))

	if _, err := Simplify(m, 0.5); err != nil {
		t.Fatalf("Simplify failed: %v", err)
	}
}

func TestSimplifyInvalidOptions(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxIterations = -1
	if _, err := Decimate(context.Background(), cubeMesh(), opts); !errors.Is(err, ErrInvalidOptions) {
		t.Errorf("expected ErrInvalidOptions, got %v", err)
	}
}

func TestDecimateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := Decimate(ctx, cubeMesh(), DefaultOptions())
	if res != nil {
		t.Error("expected no result when cancelled")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestDecimateLogsSweeps(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	opts := DefaultOptions()
	opts.Logger = zap.New(core)

	res, err := Decimate(context.Background(), sphereMesh(8, 12), opts)
	if err != nil {
		t.Fatalf("Decimate failed: %v", err)
	}

	if got := logs.FilterMessage("sweep done").Len(); got != res.Stats().Iterations {
		t.Errorf("expected %d sweep entries, got %d", res.Stats().Iterations, got)
	}
	if logs.FilterMessage("mesh decimated").Len() != 1 {
		t.Error("expected one summary entry")
	}
}

func TestResultTriangles(t *testing.T) {
	res, err := Decimate(context.Background(), cubeMesh(), DefaultOptions().WithQuality(1))
	if err != nil {
		t.Fatalf("Decimate failed: %v", err)
	}
	if res.TriangleCount() != 12 || res.VertexCount() != 8 {
		t.Fatalf("expected 12 triangles and 8 vertices, got %d and %d", res.TriangleCount(), res.VertexCount())
	}

	a, b, c := res.Triangle(0)
	want := [3]math.Vec3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 1, Y: 0, Z: 0}}
	if [3]math.Vec3{a, b, c} != want {
		t.Errorf("Triangle(0) = %v %v %v, want %v", a, b, c, want)
	}

	m := res.Mesh()
	if n := m.Normals[0]; n != (math.Vec3{X: 0, Y: 0, Z: -1}) {
		t.Errorf("normal of bottom face = %v, want (0, 0, -1)", n)
	}
}
