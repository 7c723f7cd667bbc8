package simplify

import (
	"github.com/Faultbox/midgard-lod/pkg/math"
)

// Mesh is an indexed triangle mesh as exchanged with the rest of the pipeline.
//
// Normals and UVs are optional on input and ignored by the decimator. On
// output Normals holds one freshly computed unit normal per triangle and UVs
// is always empty.
type Mesh struct {
	Positions []math.Vec3
	Indices   []uint16
	Normals   []math.Vec3
	UVs       []math.Vec2
}

// TriangleCount returns len(Indices) / 3.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Validate reports whether the mesh can be decimated.
func (m *Mesh) Validate() error {
	if m == nil || len(m.Positions) == 0 {
		return invalidMesh("empty position buffer")
	}
	if len(m.Indices) == 0 {
		return invalidMesh("empty index buffer")
	}
	if len(m.Indices)%3 != 0 {
		return invalidMesh("index count %d is not a multiple of 3", len(m.Indices))
	}
	for i, idx := range m.Indices {
		if int(idx) >= len(m.Positions) {
			return invalidMesh("index %d at %d out of range (%d positions)", idx, i, len(m.Positions))
		}
	}
	for i, p := range m.Positions {
		if !p.IsFinite() {
			return invalidMesh("position %d is not finite", i)
		}
	}
	// Per-vertex or per-face normals are both accepted.
	if n := len(m.Normals); n != 0 && n != len(m.Positions) && n != m.TriangleCount() {
		return invalidMesh("%d normals for %d positions and %d triangles", n, len(m.Positions), m.TriangleCount())
	}
	if len(m.UVs) != 0 && len(m.UVs) != len(m.Positions) {
		return invalidMesh("%d uvs for %d positions", len(m.UVs), len(m.Positions))
	}
	return nil
}
