package simplify

import (
	"github.com/Faultbox/midgard-lod/pkg/math"
)

// compact drops deleted triangles and unreferenced vertices and remaps the
// remaining indices. The reference table is discarded.
func (g *graph) compact() {
	// remap[i] is 0 for dead vertices until the second pass assigns indices.
	remap := make([]int32, len(g.vertices))

	dst := 0
	for i := range g.triangles {
		t := g.triangles[i]
		if t.deleted {
			continue
		}
		g.triangles[dst] = t
		dst++
		for _, v := range t.v {
			remap[v] = 1
		}
	}
	g.triangles = g.triangles[:dst]

	dst = 0
	for i := range g.vertices {
		if remap[i] == 0 {
			continue
		}
		remap[i] = int32(dst)
		g.vertices[dst] = g.vertices[i]
		g.vertices[dst].start = 0
		g.vertices[dst].count = 0
		dst++
	}
	g.vertices = g.vertices[:dst]

	for i := range g.triangles {
		t := &g.triangles[i]
		for j := range t.v {
			t.v[j] = remap[t.v[j]]
		}
	}

	g.refs = nil
	g.deleted = 0
}

// faceNormal returns the unit normal of triangle t from its current positions.
func (g *graph) faceNormal(t *triangle) math.Vec3 {
	p0 := g.vertices[t.v[0]].p
	p1 := g.vertices[t.v[1]].p
	p2 := g.vertices[t.v[2]].p
	return p1.Sub(p0).Cross(p2.Sub(p1)).Normalize()
}

// regenerate builds output buffers from a compacted graph.
func (g *graph) regenerate() *Mesh {
	m := &Mesh{
		Positions: make([]math.Vec3, len(g.vertices)),
		Indices:   make([]uint16, 3*len(g.triangles)),
		Normals:   make([]math.Vec3, len(g.triangles)),
	}
	for i := range g.vertices {
		m.Positions[i] = g.vertices[i].p
	}
	for i := range g.triangles {
		t := &g.triangles[i]
		m.Indices[3*i] = uint16(t.v[0])
		m.Indices[3*i+1] = uint16(t.v[1])
		m.Indices[3*i+2] = uint16(t.v[2])
		m.Normals[i] = g.faceNormal(t)
	}
	return m
}
