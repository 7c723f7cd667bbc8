package simplify

import (
	gomath "math"

	"github.com/Faultbox/midgard-lod/pkg/math"
)

// calculateError returns the error of collapsing edge (i0, i1) and the point
// the merged vertex should move to.
//
// The point minimises the summed quadric when its 3x3 block is invertible.
// A singular block, or an edge touching the border, falls back to the
// cheapest of the two endpoints and their midpoint.
func (g *graph) calculateError(i0, i1 int32) (float64, math.Vec3) {
	v0 := &g.vertices[i0]
	v1 := &g.vertices[i1]
	q := v0.q.Add(v1.q)

	det := q.Det(0, 1, 2, 1, 4, 5, 2, 5, 7)
	if det != 0 && !v0.border && !v1.border {
		p := math.Vec3{
			X: float32(-1 / det * q.Det(1, 2, 3, 4, 5, 6, 5, 7, 8)),
			Y: float32(1 / det * q.Det(0, 2, 3, 1, 5, 6, 2, 7, 8)),
			Z: float32(-1 / det * q.Det(0, 1, 3, 1, 4, 6, 2, 5, 8)),
		}
		return q.Evaluate(p.Float64()), p
	}

	p1 := v0.p
	p2 := v1.p
	p3 := p1.Midpoint(p2)
	e1 := q.Evaluate(p1.Float64())
	e2 := q.Evaluate(p2.Float64())
	e3 := q.Evaluate(p3.Float64())

	best := min(e1, e2, e3)
	p := p1
	if e2 == best {
		p = p2
	}
	if e3 == best {
		p = p3
	}
	return best, p
}

// borderCompatible reports whether an edge may collapse at all: a border
// vertex only merges with another border vertex.
func borderCompatible(v0, v1 *vertex) bool {
	return v0.border == v1.border
}

// flipped reports whether moving v0 (index i0) to p would produce a sliver
// or turn a neighbouring face too far from its cached normal. Triangles that
// also use i1 collapse with the edge; they are marked in deleted instead of
// being tested. deleted must hold at least v0.count entries.
func (g *graph) flipped(p math.Vec3, i0, i1 int32, v0 *vertex, deleted []bool) bool {
	for k, r := range g.window(v0) {
		t := &g.triangles[r.tid]
		if t.deleted {
			continue
		}

		id1 := t.v[(r.slot+1)%3]
		id2 := t.v[(r.slot+2)%3]
		if id1 == i1 || id2 == i1 {
			deleted[k] = true
			continue
		}

		d1 := g.vertices[id1].p.Sub(p).Normalize()
		d2 := g.vertices[id2].p.Sub(p).Normalize()
		if gomath.Abs(float64(d1.Dot(d2))) > g.opts.SliverCosine {
			return true
		}

		n := d1.Cross(d2).Normalize()
		deleted[k] = false
		if float64(n.Dot(t.n)) < g.opts.FlipCosine {
			return true
		}
	}
	return false
}
