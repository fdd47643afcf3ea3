package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// AABB is an axis aligned box stored as centre and half extents.
// Negative extents mark an empty box; use EmptyAABB as the accumulator seed.
type AABB struct {
	Origin  mgl64.Vec3
	Extents mgl64.Vec3
}

func EmptyAABB() AABB {
	return AABB{Extents: mgl64.Vec3{-1, -1, -1}}
}

func NewAABBFromMinMax(min, max mgl64.Vec3) AABB {
	return AABB{
		Origin:  min.Add(max).Mul(0.5),
		Extents: max.Sub(min).Mul(0.5),
	}
}

func (b AABB) IsValid() bool {
	for i := 0; i < 3; i++ {
		if !finite(b.Origin[i]) || !finite(b.Extents[i]) || b.Extents[i] < 0 {
			return false
		}
	}
	return true
}

func (b AABB) Min() mgl64.Vec3 {
	return b.Origin.Sub(b.Extents)
}

func (b AABB) Max() mgl64.Vec3 {
	return b.Origin.Add(b.Extents)
}

func (b *AABB) IncludePoint(p mgl64.Vec3) {
	if !b.IsValid() {
		b.Origin = p
		b.Extents = mgl64.Vec3{}
		return
	}
	min, max := b.Min(), b.Max()
	for i := 0; i < 3; i++ {
		min[i] = math.Min(min[i], p[i])
		max[i] = math.Max(max[i], p[i])
	}
	*b = NewAABBFromMinMax(min, max)
}

func (b *AABB) IncludeAABB(o AABB) {
	if !o.IsValid() {
		return
	}
	b.IncludePoint(o.Min())
	b.IncludePoint(o.Max())
}

// Intersects reports whether the boxes overlap, touching faces included.
func (b AABB) Intersects(o AABB) bool {
	if !b.IsValid() || !o.IsValid() {
		return false
	}
	for i := 0; i < 3; i++ {
		if math.Abs(b.Origin[i]-o.Origin[i]) > b.Extents[i]+o.Extents[i] {
			return false
		}
	}
	return true
}

// Contains reports whether o lies completely inside b.
func (b AABB) Contains(o AABB) bool {
	if !b.IsValid() || !o.IsValid() {
		return false
	}
	bmin, bmax := b.Min(), b.Max()
	omin, omax := o.Min(), o.Max()
	for i := 0; i < 3; i++ {
		if omin[i] < bmin[i] || omax[i] > bmax[i] {
			return false
		}
	}
	return true
}

func (b AABB) Corners() [8]mgl64.Vec3 {
	min, max := b.Min(), b.Max()
	return [8]mgl64.Vec3{
		{min[0], min[1], min[2]},
		{max[0], min[1], min[2]},
		{max[0], max[1], min[2]},
		{min[0], max[1], min[2]},
		{min[0], min[1], max[2]},
		{max[0], min[1], max[2]},
		{max[0], max[1], max[2]},
		{min[0], max[1], max[2]},
	}
}

// Transformed returns the box enclosing b after applying m.
func (b AABB) Transformed(m mgl64.Mat4) AABB {
	if !b.IsValid() {
		return b
	}
	out := EmptyAABB()
	for _, c := range b.Corners() {
		out.IncludePoint(mgl64.TransformCoordinate(c, m))
	}
	return out
}
