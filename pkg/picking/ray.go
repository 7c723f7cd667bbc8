// Package picking provides ray casting against boxes and triangles.
package picking

import (
	gomath "math"

	"github.com/Faultbox/midgard-lod/pkg/math"
)

// triangleEpsilon is the smallest determinant accepted by the ray/triangle test.
const triangleEpsilon = 1e-8

// Unbounded is the MaxDistance of a ray without a range limit.
var Unbounded = float32(gomath.Inf(1))

// Ray is a half-line in the caller's frame. The zero Origin is the frame origin.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3

	// MaxDistance bounds hits along Direction to [0, MaxDistance]. Use
	// Unbounded for no limit; a negative value accepts nothing.
	MaxDistance float32
}

// NewRay builds a ray with a normalized direction.
func NewRay(origin, direction math.Vec3, maxDistance float32) Ray {
	return Ray{Origin: origin, Direction: direction.Normalize(), MaxDistance: maxDistance}
}

// At returns the point at parameter t.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// InRange reports whether t lies in [0, MaxDistance].
func (r Ray) InRange(t float32) bool {
	return t >= 0 && t <= r.MaxDistance
}

// Hit describes a ray/triangle intersection.
type Hit struct {
	Triangle int       // Index of the triangle in the queried mesh
	Distance float32   // Ray parameter t; equals distance for unit directions
	Point    math.Vec3 // Intersection point
	Normal   math.Vec3 // Unit face normal
}

// IntersectTriangle tests the ray against triangle (a, b, c) with the
// Möller–Trumbore algorithm. Both faces count. The returned t is only
// meaningful when hit is true; range limits are left to the caller.
func (r Ray) IntersectTriangle(a, b, c math.Vec3) (t float32, hit bool) {
	e1 := b.Sub(a)
	e2 := c.Sub(a)

	pvec := r.Direction.Cross(e2)
	det := e1.Dot(pvec)
	if gomath.Abs(float64(det)) < triangleEpsilon {
		return 0, false // Parallel to the triangle plane
	}
	inv := 1 / det

	tvec := r.Origin.Sub(a)
	u := tvec.Dot(pvec) * inv
	if u < 0 || u > 1 {
		return 0, false
	}

	qvec := tvec.Cross(e1)
	v := r.Direction.Dot(qvec) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}

	return e2.Dot(qvec) * inv, true
}
