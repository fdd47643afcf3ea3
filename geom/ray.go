package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type Ray struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
}

func (r Ray) At(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// IntersectAABB runs the slab test and returns the entry and exit distances
// along the ray. The ray misses when tMin > tMax.
// Entry is clamped to 0 so a ray starting inside the box enters immediately.
func IntersectAABB(ray Ray, box AABB) (tMin, tMax float64) {
	if !box.IsValid() {
		return 1, 0
	}
	minB, maxB := box.Min(), box.Max()
	tMin, tMax = 0, math.MaxFloat64
	for i := 0; i < 3; i++ {
		o, d := ray.Origin[i], ray.Direction[i]
		if d == 0 {
			if o < minB[i] || o > maxB[i] {
				return 1, 0
			}
			continue
		}
		inv := 1 / d
		t1 := (minB[i] - o) * inv
		t2 := (maxB[i] - o) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
	}
	return tMin, tMax
}

// ClosestPoints finds the parameters t on a and s on b of the closest pair of
// points between two lines, and their distance. Parallel lines report ok=false.
func ClosestPoints(a, b Ray) (t, s, dist float64, ok bool) {
	r := a.Origin.Sub(b.Origin)
	aa := a.Direction.Dot(a.Direction)
	ab := a.Direction.Dot(b.Direction)
	bb := b.Direction.Dot(b.Direction)
	f := b.Direction.Dot(r)

	det := aa*bb - ab*ab
	if det < 1e-12 {
		return 0, 0, r.Len(), false
	}

	c := a.Direction.Dot(r)
	t = (ab*f - c*bb) / det
	s = (aa*f - ab*c) / det
	return t, s, a.At(t).Sub(b.At(s)).Len(), true
}

// IntersectPlane returns the ray parameter where it crosses the plane through
// point with the given normal.
func IntersectPlane(ray Ray, point, normal mgl64.Vec3) (float64, bool) {
	denom := ray.Direction.Dot(normal)
	if math.Abs(denom) < 1e-12 {
		return 0, false
	}
	t := point.Sub(ray.Origin).Dot(normal) / denom
	return t, finite(t)
}
