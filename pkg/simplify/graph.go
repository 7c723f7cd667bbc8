package simplify

import (
	"github.com/Faultbox/midgard-lod/pkg/math"
)

// vertex is the working record of one input position.
type vertex struct {
	p math.Vec3
	q Quadric

	// start and count select the window of refs that lists the live
	// triangles using this vertex.
	start, count int

	border bool
}

// triangle is the working record of one input face.
type triangle struct {
	v [3]int32

	// err[0..2] is the collapse error of edge j -> j+1, err[3] their minimum.
	err [4]float64

	// n is the face normal at setup. Flip checks compare against it.
	n math.Vec3

	deleted bool
	dirty   bool
}

// ref records that triangle tid uses a vertex in slot 0, 1 or 2.
type ref struct {
	tid  int32
	slot uint8
}

// graph is the mutable mesh model owned by a single decimation run.
type graph struct {
	vertices  []vertex
	triangles []triangle
	refs      []ref

	deleted int
	opts    Options
}

type edgeKey [2]int32

func makeEdgeKey(a, b int32) edgeKey {
	if a > b {
		a, b = b, a
	}
	return edgeKey{a, b}
}

// newGraph builds the working model. The mesh must already be validated.
func newGraph(m *Mesh, opts Options) *graph {
	g := &graph{
		vertices:  make([]vertex, len(m.Positions)),
		triangles: make([]triangle, m.TriangleCount()),
		opts:      opts,
	}
	for i, p := range m.Positions {
		g.vertices[i].p = p
	}
	for i := range g.triangles {
		g.triangles[i].v = [3]int32{
			int32(m.Indices[3*i]),
			int32(m.Indices[3*i+1]),
			int32(m.Indices[3*i+2]),
		}
	}

	g.markBorders()
	g.initQuadrics()
	g.rebuildRefs()
	for i := range g.triangles {
		g.updateErrors(&g.triangles[i])
	}
	return g
}

// markBorders flags both ends of every edge used by exactly one triangle.
func (g *graph) markBorders() {
	uses := make(map[edgeKey]int, len(g.triangles)*3/2)
	for i := range g.triangles {
		t := &g.triangles[i]
		for j := 0; j < 3; j++ {
			uses[makeEdgeKey(t.v[j], t.v[(j+1)%3])]++
		}
	}
	for e, n := range uses {
		if n == 1 {
			g.vertices[e[0]].border = true
			g.vertices[e[1]].border = true
		}
	}
}

// initQuadrics caches face normals and sums each face's plane quadric into
// its three vertices.
func (g *graph) initQuadrics() {
	for i := range g.triangles {
		t := &g.triangles[i]
		p0 := g.vertices[t.v[0]].p
		p1 := g.vertices[t.v[1]].p
		p2 := g.vertices[t.v[2]].p

		n := p1.Sub(p0).Cross(p2.Sub(p0)).Normalize()
		t.n = n

		a, b, c := n.Float64()
		q := NewQuadric(a, b, c, -float64(n.Dot(p0)))
		for j := 0; j < 3; j++ {
			v := &g.vertices[t.v[j]]
			v.q = v.q.Add(q)
		}
	}
}

// rebuildRefs lays out one ref per (live triangle, slot), grouped by vertex.
// Only safe between sweeps.
func (g *graph) rebuildRefs() {
	for i := range g.vertices {
		g.vertices[i].start = 0
		g.vertices[i].count = 0
	}
	for i := range g.triangles {
		t := &g.triangles[i]
		if t.deleted {
			continue
		}
		for j := 0; j < 3; j++ {
			g.vertices[t.v[j]].count++
		}
	}

	total := 0
	for i := range g.vertices {
		v := &g.vertices[i]
		v.start = total
		total += v.count
		v.count = 0
	}

	if cap(g.refs) >= total {
		g.refs = g.refs[:total]
	} else {
		g.refs = make([]ref, total)
	}

	for i := range g.triangles {
		t := &g.triangles[i]
		if t.deleted {
			continue
		}
		for j := 0; j < 3; j++ {
			v := &g.vertices[t.v[j]]
			g.refs[v.start+v.count] = ref{tid: int32(i), slot: uint8(j)}
			v.count++
		}
	}
}

// liveRefs returns the number of refs a freshly rebuilt table would hold.
func (g *graph) liveRefs() int {
	return 3 * (len(g.triangles) - g.deleted)
}

// window returns the refs of vertex v.
func (g *graph) window(v *vertex) []ref {
	return g.refs[v.start : v.start+v.count]
}

// updateErrors recomputes the cached edge errors of t.
func (g *graph) updateErrors(t *triangle) {
	for j := 0; j < 3; j++ {
		t.err[j], _ = g.calculateError(t.v[j], t.v[(j+1)%3])
	}
	t.err[3] = min(t.err[0], t.err[1], t.err[2])
}
