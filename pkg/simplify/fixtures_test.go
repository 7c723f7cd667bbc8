package simplify

import (
	gomath "math"

	"github.com/Faultbox/midgard-lod/pkg/math"
)

// cubeMesh returns a closed unit cube with outward facing triangles.
func cubeMesh() *Mesh {
	return &Mesh{
		Positions: []math.Vec3{
			{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0},
			{X: 0, Y: 0, Z: 1}, {X: 1, Y: 0, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: 0, Y: 1, Z: 1},
		},
		Indices: []uint16{
			0, 2, 1, 0, 3, 2, // bottom
			4, 5, 6, 4, 6, 7, // top
			0, 1, 5, 0, 5, 4, // front
			3, 7, 6, 3, 6, 2, // back
			0, 4, 7, 0, 7, 3, // left
			1, 2, 6, 1, 6, 5, // right
		},
	}
}

// gridMesh returns a flat n x n quad grid in the XY plane. It is open, so
// its outer ring is border.
func gridMesh(n int) *Mesh {
	m := &Mesh{}
	for y := 0; y <= n; y++ {
		for x := 0; x <= n; x++ {
			m.Positions = append(m.Positions, math.Vec3{X: float32(x) / float32(n), Y: float32(y) / float32(n)})
		}
	}
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			a := uint16(y*(n+1) + x)
			b := a + 1
			c := a + uint16(n+1)
			d := c + 1
			m.Indices = append(m.Indices, a, b, d, a, d, c)
		}
	}
	return m
}

// sphereMesh returns a closed UV sphere of radius 1 with single pole vertices.
func sphereMesh(stacks, slices int) *Mesh {
	m := &Mesh{Positions: []math.Vec3{{X: 0, Y: 0, Z: 1}}}
	for i := 1; i < stacks; i++ {
		theta := gomath.Pi * float64(i) / float64(stacks)
		for j := 0; j < slices; j++ {
			phi := 2 * gomath.Pi * float64(j) / float64(slices)
			m.Positions = append(m.Positions, math.Vec3{
				X: float32(gomath.Sin(theta) * gomath.Cos(phi)),
				Y: float32(gomath.Sin(theta) * gomath.Sin(phi)),
				Z: float32(gomath.Cos(theta)),
			})
		}
	}
	m.Positions = append(m.Positions, math.Vec3{Z: -1})
	south := uint16(len(m.Positions) - 1)

	ring := func(i, j int) uint16 {
		return uint16(1 + (i-1)*slices + j%slices)
	}
	for j := 0; j < slices; j++ {
		m.Indices = append(m.Indices, 0, ring(1, j), ring(1, j+1))
	}
	for i := 1; i < stacks-1; i++ {
		for j := 0; j < slices; j++ {
			a, b := ring(i, j), ring(i, j+1)
			c, d := ring(i+1, j), ring(i+1, j+1)
			m.Indices = append(m.Indices, a, c, d, a, d, b)
		}
	}
	for j := 0; j < slices; j++ {
		m.Indices = append(m.Indices, south, ring(stacks-1, j+1), ring(stacks-1, j))
	}
	return m
}

// checkIndices reports the first out-of-range index, or -1.
func checkIndices(m *Mesh) int {
	for i, idx := range m.Indices {
		if int(idx) >= len(m.Positions) {
			return i
		}
	}
	return -1
}
