// Package formats reads and writes mesh files for the command-line tools.
package formats

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Faultbox/midgard-lod/pkg/math"
	"github.com/Faultbox/midgard-lod/pkg/simplify"
)

// OBJ format errors.
var (
	ErrMalformedOBJ    = errors.New("malformed OBJ data")
	ErrOBJIndexRange   = errors.New("OBJ index out of range")
	ErrNoOBJGeometry   = errors.New("OBJ has no faces")
	ErrTooManyVertices = errors.New("too many vertices for 16-bit indices")
)

// MaxIndexedVertices is the largest vertex count addressable by a 16-bit index buffer.
const MaxIndexedVertices = 1 << 16

// OBJ is the geometry of a Wavefront OBJ file. Polygons are fan-triangulated
// and only position indices are kept; texture coordinates and normals are
// loaded as listed.
type OBJ struct {
	Positions []math.Vec3
	TexCoords []math.Vec2
	Normals   []math.Vec3
	Triangles []uint32
}

// TriangleCount returns the number of triangles.
func (o *OBJ) TriangleCount() int {
	return len(o.Triangles) / 3
}

// ParseOBJ parses OBJ text.
func ParseOBJ(data []byte) (*OBJ, error) {
	obj := &OBJ{}
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		var err error
		switch fields[0] {
		case "v":
			var v math.Vec3
			v, err = parseVec3(fields[1:])
			obj.Positions = append(obj.Positions, v)
		case "vn":
			var v math.Vec3
			v, err = parseVec3(fields[1:])
			obj.Normals = append(obj.Normals, v)
		case "vt":
			var v math.Vec2
			v, err = parseVec2(fields[1:])
			obj.TexCoords = append(obj.TexCoords, v)
		case "f":
			err = obj.parseFace(fields[1:])
		default:
			// Groups, materials and smoothing do not affect geometry.
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading OBJ: %w", err)
	}
	if len(obj.Triangles) == 0 {
		return nil, ErrNoOBJGeometry
	}
	return obj, nil
}

// LoadOBJ parses an OBJ file from disk.
func LoadOBJ(path string) (*OBJ, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading OBJ file: %w", err)
	}
	return ParseOBJ(data)
}

func (o *OBJ) parseFace(corners []string) error {
	if len(corners) < 3 {
		return fmt.Errorf("%w: face with %d corners", ErrMalformedOBJ, len(corners))
	}

	idx := make([]uint32, len(corners))
	for i, c := range corners {
		// Only the position part of v/vt/vn matters.
		pos, _, _ := strings.Cut(c, "/")
		n, err := strconv.Atoi(pos)
		if err != nil {
			return fmt.Errorf("%w: corner %q", ErrMalformedOBJ, c)
		}
		// Negative indices count back from the latest vertex.
		if n < 0 {
			n = len(o.Positions) + n + 1
		}
		if n < 1 || n > len(o.Positions) {
			return fmt.Errorf("%w: %s with %d vertices", ErrOBJIndexRange, pos, len(o.Positions))
		}
		idx[i] = uint32(n - 1)
	}

	for i := 1; i+1 < len(idx); i++ {
		o.Triangles = append(o.Triangles, idx[0], idx[i], idx[i+1])
	}
	return nil
}

func parseFloats(fields []string, n int) ([]float32, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("%w: expected %d components, got %d", ErrMalformedOBJ, n, len(fields))
	}
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedOBJ, err)
		}
		out[i] = float32(f)
	}
	return out, nil
}

func parseVec3(fields []string) (math.Vec3, error) {
	f, err := parseFloats(fields, 3)
	if err != nil {
		return math.Vec3{}, err
	}
	return math.Vec3{X: f[0], Y: f[1], Z: f[2]}, nil
}

func parseVec2(fields []string) (math.Vec2, error) {
	f, err := parseFloats(fields, 2)
	if err != nil {
		return math.Vec2{}, err
	}
	return math.Vec2{X: f[0], Y: f[1]}, nil
}

// Mesh converts the OBJ to 16-bit index buffers. Texture coordinates and
// normals are passed through only when they line up with the positions.
func (o *OBJ) Mesh() (*simplify.Mesh, error) {
	if len(o.Positions) > MaxIndexedVertices {
		return nil, fmt.Errorf("%w: %d", ErrTooManyVertices, len(o.Positions))
	}

	m := &simplify.Mesh{
		Positions: o.Positions,
		Indices:   make([]uint16, len(o.Triangles)),
	}
	for i, idx := range o.Triangles {
		m.Indices[i] = uint16(idx)
	}
	if len(o.Normals) == len(o.Positions) {
		m.Normals = o.Normals
	}
	if len(o.TexCoords) == len(o.Positions) {
		m.UVs = o.TexCoords
	}
	return m, nil
}

// WriteOBJ writes m as OBJ text. Per-face normals are referenced from each
// face; other normal layouts are dropped.
func WriteOBJ(w io.Writer, m *simplify.Mesh) error {
	bw := bufio.NewWriter(w)

	for _, p := range m.Positions {
		fmt.Fprintf(bw, "v %g %g %g\n", p.X, p.Y, p.Z)
	}

	perFace := len(m.Normals) > 0 && len(m.Normals) == m.TriangleCount()
	if perFace {
		for _, n := range m.Normals {
			fmt.Fprintf(bw, "vn %g %g %g\n", n.X, n.Y, n.Z)
		}
	}

	for i := 0; i < m.TriangleCount(); i++ {
		a, b, c := int(m.Indices[3*i])+1, int(m.Indices[3*i+1])+1, int(m.Indices[3*i+2])+1
		if perFace {
			fmt.Fprintf(bw, "f %d//%d %d//%d %d//%d\n", a, i+1, b, i+1, c, i+1)
		} else {
			fmt.Fprintf(bw, "f %d %d %d\n", a, b, c)
		}
	}

	return bw.Flush()
}

// SaveOBJ writes m to path.
func SaveOBJ(path string, m *simplify.Mesh) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteOBJ(f, m); err != nil {
		f.Close()
		return fmt.Errorf("writing OBJ: %w", err)
	}
	return f.Close()
}
