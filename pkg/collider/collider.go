// Package collider builds a decimated collision proxy for a mesh and answers
// ray queries against it.
package collider

import (
	"context"

	"github.com/Faultbox/midgard-lod/pkg/math"
	"github.com/Faultbox/midgard-lod/pkg/picking"
	"github.com/Faultbox/midgard-lod/pkg/simplify"
)

// DefaultQuality is the fraction of triangles a collision proxy keeps.
const DefaultQuality = 0.5

// boundsPadding grows the broad-phase box, relative to its largest extent,
// so rays grazing its faces still reach the triangle test.
const boundsPadding = 1e-4

// MeshCollider is an immutable, decimated copy of a mesh used for ray tests.
// It is safe for concurrent queries.
type MeshCollider struct {
	result  *simplify.Result
	normals []math.Vec3
	bounds  picking.AABB
	broad   picking.AABB
	empty   bool
}

// DefaultOptions returns the decimation settings used for colliders.
func DefaultOptions() simplify.Options {
	return simplify.DefaultOptions().WithQuality(DefaultQuality)
}

// New decimates m and builds a collider from the result.
func New(m *simplify.Mesh, opts simplify.Options) (*MeshCollider, error) {
	return NewContext(context.Background(), m, opts)
}

// NewContext is New with cancellation between decimation sweeps.
func NewContext(ctx context.Context, m *simplify.Mesh, opts simplify.Options) (*MeshCollider, error) {
	res, err := simplify.Decimate(ctx, m, opts)
	if err != nil {
		return nil, err
	}
	return fromResult(res), nil
}

func fromResult(res *simplify.Result) *MeshCollider {
	c := &MeshCollider{
		result:  res,
		normals: make([]math.Vec3, res.TriangleCount()),
	}

	corners := make([]math.Vec3, 0, 3*res.TriangleCount())
	for i := range c.normals {
		a, b, cc := res.Triangle(i)
		c.normals[i] = b.Sub(a).Cross(cc.Sub(b)).Normalize()
		corners = append(corners, a, b, cc)
	}

	box, ok := picking.BoundsOf(corners)
	c.bounds = box
	c.empty = !ok

	size := box.Max.Sub(box.Min)
	c.broad = box.Expand(boundsPadding * max(1, size.X, size.Y, size.Z))
	return c
}

// Intersects returns the first triangle, in mesh order, that the ray hits
// within [0, MaxDistance].
func (c *MeshCollider) Intersects(ray picking.Ray) (picking.Hit, bool) {
	if c.empty || !ray.MayHit(c.broad) {
		return picking.Hit{}, false
	}
	for i := range c.normals {
		if hit, ok := c.test(ray, i); ok {
			return hit, true
		}
	}
	return picking.Hit{}, false
}

// Closest returns the nearest hit within [0, MaxDistance].
func (c *MeshCollider) Closest(ray picking.Ray) (picking.Hit, bool) {
	if c.empty || !ray.MayHit(c.broad) {
		return picking.Hit{}, false
	}
	var best picking.Hit
	found := false
	for i := range c.normals {
		hit, ok := c.test(ray, i)
		if ok && (!found || hit.Distance < best.Distance) {
			best = hit
			found = true
		}
	}
	return best, found
}

func (c *MeshCollider) test(ray picking.Ray, i int) (picking.Hit, bool) {
	n := c.normals[i]
	if ray.Direction.Dot(n) == 0 {
		return picking.Hit{}, false // Ray runs along the triangle plane
	}

	a, b, cc := c.result.Triangle(i)
	t, ok := ray.IntersectTriangle(a, b, cc)
	if !ok || !ray.InRange(t) {
		return picking.Hit{}, false
	}
	return picking.Hit{Triangle: i, Distance: t, Point: ray.At(t), Normal: n}, true
}

// Mesh regenerates the renderable form of the proxy.
func (c *MeshCollider) Mesh() *simplify.Mesh {
	return c.result.Mesh()
}

// Stats returns the decimation summary.
func (c *MeshCollider) Stats() simplify.Stats {
	return c.result.Stats()
}

// TriangleCount returns the number of triangles in the proxy.
func (c *MeshCollider) TriangleCount() int {
	return len(c.normals)
}

// Bounds returns the proxy's bounding box and false when it has no triangles.
func (c *MeshCollider) Bounds() (picking.AABB, bool) {
	return c.bounds, !c.empty
}
