package picking

import (
	gomath "math"

	"github.com/Faultbox/midgard-lod/pkg/math"
)

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min math.Vec3
	Max math.Vec3
}

// NewAABB creates an AABB from two corners in any order.
func NewAABB(a, b math.Vec3) AABB {
	return AABB{Min: a.Min(b), Max: a.Max(b)}
}

// BoundsOf returns the smallest box containing every point, and false for
// an empty set.
func BoundsOf(points []math.Vec3) (AABB, bool) {
	if len(points) == 0 {
		return AABB{}, false
	}
	box := AABB{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		box.Min = box.Min.Min(p)
		box.Max = box.Max.Max(p)
	}
	return box, true
}

// Expand returns the box grown by d on every side.
func (b AABB) Expand(d float32) AABB {
	pad := math.Vec3{X: d, Y: d, Z: d}
	return AABB{Min: b.Min.Sub(pad), Max: b.Max.Add(pad)}
}

// Contains reports whether p lies inside or on the box.
func (b AABB) Contains(p math.Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// IntersectAABB tests ray intersection with an axis-aligned bounding box.
// Returns the distance to intersection (t) and whether intersection occurred.
// If the ray starts inside the box, returns the exit distance.
func (r Ray) IntersectAABB(box AABB) (t float32, hit bool) {
	tmin := float32(-gomath.MaxFloat32)
	tmax := float32(gomath.MaxFloat32)

	origin := r.Origin.Array()
	dir := r.Direction.Array()
	lo := box.Min.Array()
	hi := box.Max.Array()

	for axis := 0; axis < 3; axis++ {
		if dir[axis] == 0 {
			if origin[axis] < lo[axis] || origin[axis] > hi[axis] {
				return 0, false // Parallel and outside this slab
			}
			continue
		}
		t1 := (lo[axis] - origin[axis]) / dir[axis]
		t2 := (hi[axis] - origin[axis]) / dir[axis]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = max(tmin, t1)
		tmax = min(tmax, t2)
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// MayHit reports whether the bounded ray can reach the box at all.
func (r Ray) MayHit(box AABB) bool {
	if box.Contains(r.Origin) {
		return true
	}
	t, hit := r.IntersectAABB(box)
	return hit && r.InRange(t)
}
