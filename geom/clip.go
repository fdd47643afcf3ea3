package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Cull selects whether back-facing polygons are rejected. Front faces wind
// counter-clockwise in device space.
type Cull int

const (
	CullNone Cull = iota
	CullBack
)

// Homogeneous clip planes, a point is inside when plane.Dot(p) >= 0.
var clipPlanes = [6]mgl64.Vec4{
	{1, 0, 0, 1},
	{-1, 0, 0, 1},
	{0, 1, 0, 1},
	{0, -1, 0, 1},
	{0, 0, 1, 1},
	{0, 0, -1, 1},
}

func toClip(m mgl64.Mat4, p mgl64.Vec3) mgl64.Vec4 {
	return m.Mul4x1(p.Vec4(1))
}

func toDevice(c mgl64.Vec4) mgl64.Vec3 {
	return c.Vec3().Mul(1 / c.W())
}

func insideClip(c mgl64.Vec4) bool {
	for _, pl := range clipPlanes {
		if pl.Dot(c) < 0 {
			return false
		}
	}
	return c.W() > 0
}

// ClipPoint transforms p by m and reports whether it lies in the clip volume.
func ClipPoint(m mgl64.Mat4, p mgl64.Vec3) (mgl64.Vec3, bool) {
	c := toClip(m, p)
	if !insideClip(c) {
		return mgl64.Vec3{}, false
	}
	return toDevice(c), true
}

func clipSegment(a, b mgl64.Vec4) (mgl64.Vec4, mgl64.Vec4, bool) {
	t0, t1 := 0.0, 1.0
	for _, pl := range clipPlanes {
		da, db := pl.Dot(a), pl.Dot(b)
		switch {
		case da < 0 && db < 0:
			return a, b, false
		case da < 0:
			t0 = math.Max(t0, da/(da-db))
		case db < 0:
			t1 = math.Min(t1, da/(da-db))
		}
	}
	if t0 > t1 {
		return a, b, false
	}
	d := b.Sub(a)
	return a.Add(d.Mul(t0)), a.Add(d.Mul(t1)), true
}

// clipPolygon runs Sutherland-Hodgman against every clip plane.
func clipPolygon(in []mgl64.Vec4) []mgl64.Vec4 {
	out := in
	for _, pl := range clipPlanes {
		if len(out) == 0 {
			break
		}
		src := out
		out = make([]mgl64.Vec4, 0, len(src)+2)
		prev := src[len(src)-1]
		prevD := pl.Dot(prev)
		for _, cur := range src {
			curD := pl.Dot(cur)
			if curD >= 0 {
				if prevD < 0 {
					out = append(out, lerp4(prev, cur, prevD/(prevD-curD)))
				}
				out = append(out, cur)
			} else if prevD >= 0 {
				out = append(out, lerp4(prev, cur, prevD/(prevD-curD)))
			}
			prev, prevD = cur, curD
		}
	}
	return out
}

func lerp4(a, b mgl64.Vec4, t float64) mgl64.Vec4 {
	return a.Add(b.Sub(a).Mul(t))
}

// segmentBest returns the point of device-space segment ab nearest to the
// test point at the origin.
func segmentBest(a, b mgl64.Vec3) Intersection {
	d := b.Sub(a)
	d2 := d.X()*d.X() + d.Y()*d.Y()
	s := 0.0
	if d2 > 1e-18 {
		s = mgl64.Clamp(-(a.X()*d.X()+a.Y()*d.Y())/d2, 0, 1)
	}
	p := a.Add(d.Mul(s))
	return NewIntersection(p.Z(), p.X()*p.X()+p.Y()*p.Y())
}

// TestPoint returns the hit of a single point, or the invalid intersection
// when the point is outside the test volume.
func TestPoint(m mgl64.Mat4, p mgl64.Vec3) Intersection {
	d, ok := ClipPoint(m, p)
	if !ok {
		return Intersection{}
	}
	return NewIntersection(d.Z(), d.X()*d.X()+d.Y()*d.Y())
}

// TestPoints returns the best hit among a point cloud.
func TestPoints(m mgl64.Mat4, pts []mgl64.Vec3) Intersection {
	var best Intersection
	for _, p := range pts {
		best = Best(best, TestPoint(m, p))
	}
	return best
}

func testSegment(m mgl64.Mat4, a, b mgl64.Vec3) Intersection {
	ca, cb, ok := clipSegment(toClip(m, a), toClip(m, b))
	if !ok {
		return Intersection{}
	}
	return segmentBest(toDevice(ca), toDevice(cb))
}

// TestLineStrip returns the best point on an open polyline.
func TestLineStrip(m mgl64.Mat4, pts []mgl64.Vec3) Intersection {
	if len(pts) == 1 {
		return TestPoint(m, pts[0])
	}
	var best Intersection
	for i := 0; i+1 < len(pts); i++ {
		best = Best(best, testSegment(m, pts[i], pts[i+1]))
	}
	return best
}

// TestLineLoop returns the best point on a closed polyline.
func TestLineLoop(m mgl64.Mat4, pts []mgl64.Vec3) Intersection {
	best := TestLineStrip(m, pts)
	if len(pts) > 2 {
		best = Best(best, testSegment(m, pts[len(pts)-1], pts[0]))
	}
	return best
}

// TestPolygon tests a filled convex polygon. A test point inside the
// projected polygon hits at distance zero with the depth of the surface
// beneath it; otherwise the nearest boundary point of the clipped polygon is
// used, so any overlap with the test volume produces a hit.
func TestPolygon(m mgl64.Mat4, pts []mgl64.Vec3, cull Cull) Intersection {
	if len(pts) < 3 {
		return TestLineStrip(m, pts)
	}
	in := make([]mgl64.Vec4, len(pts))
	for i, p := range pts {
		in[i] = toClip(m, p)
	}
	clipped := clipPolygon(in)
	if len(clipped) == 0 {
		return Intersection{}
	}
	dev := make([]mgl64.Vec3, len(clipped))
	for i, c := range clipped {
		dev[i] = toDevice(c)
	}
	if len(dev) < 3 {
		return deviceLoopBest(dev)
	}

	area := signedArea(dev)
	if !finite(area) {
		return Intersection{}
	}
	if cull == CullBack && area < 0 {
		return Intersection{}
	}
	if math.Abs(area) < 1e-18 {
		return deviceLoopBest(dev)
	}

	for i := 1; i+1 < len(dev); i++ {
		if depth, ok := triangleDepthAtOrigin(dev[0], dev[i], dev[i+1]); ok {
			return NewIntersection(depth, 0)
		}
	}
	return deviceLoopBest(dev)
}

// TestCircle tests the filled disc outlined by a line loop.
func TestCircle(m mgl64.Mat4, pts []mgl64.Vec3, cull Cull) Intersection {
	return TestPolygon(m, pts, cull)
}

// TestTriangles tests a triangle list, three points per triangle.
func TestTriangles(m mgl64.Mat4, pts []mgl64.Vec3, cull Cull) Intersection {
	var best Intersection
	for i := 0; i+2 < len(pts); i += 3 {
		best = Best(best, TestPolygon(m, pts[i:i+3], cull))
	}
	return best
}

// TestAABB tests the six faces of a box.
func TestAABB(m mgl64.Mat4, box AABB) Intersection {
	if !box.IsValid() {
		return Intersection{}
	}
	c := box.Corners()
	faces := [6][4]int{
		{0, 3, 2, 1}, // -z
		{4, 5, 6, 7}, // +z
		{0, 1, 5, 4}, // -y
		{2, 3, 7, 6}, // +y
		{0, 4, 7, 3}, // -x
		{1, 2, 6, 5}, // +x
	}
	var best Intersection
	for _, f := range faces {
		quad := []mgl64.Vec3{c[f[0]], c[f[1]], c[f[2]], c[f[3]]}
		best = Best(best, TestPolygon(m, quad, CullBack))
	}
	return best
}

// AABBVisible is a conservative test: false only when every corner of the box
// is outside one clip plane.
func AABBVisible(m mgl64.Mat4, box AABB) bool {
	if !box.IsValid() {
		return false
	}
	var clip [8]mgl64.Vec4
	for i, c := range box.Corners() {
		clip[i] = toClip(m, c)
	}
	for _, pl := range clipPlanes {
		outside := 0
		for _, c := range clip {
			if pl.Dot(c) < 0 {
				outside++
			}
		}
		if outside == len(clip) {
			return false
		}
	}
	return true
}

func deviceLoopBest(dev []mgl64.Vec3) Intersection {
	if len(dev) == 1 {
		return segmentBest(dev[0], dev[0])
	}
	var best Intersection
	for i := range dev {
		best = Best(best, segmentBest(dev[i], dev[(i+1)%len(dev)]))
	}
	return best
}

func signedArea(dev []mgl64.Vec3) float64 {
	area := 0.0
	for i := range dev {
		a, b := dev[i], dev[(i+1)%len(dev)]
		area += a.X()*b.Y() - b.X()*a.Y()
	}
	return area * 0.5
}

// triangleDepthAtOrigin interpolates the depth of triangle abc at the device
// origin, if the origin lies inside it.
func triangleDepthAtOrigin(a, b, c mgl64.Vec3) (float64, bool) {
	det := (b.X()-a.X())*(c.Y()-a.Y()) - (c.X()-a.X())*(b.Y()-a.Y())
	if math.Abs(det) < 1e-18 {
		return 0, false
	}
	u := ((b.X())*(c.Y()) - (c.X())*(b.Y())) / det
	v := ((c.X())*(a.Y()) - (a.X())*(c.Y())) / det
	w := 1 - u - v
	const eps = -1e-12
	if u < eps || v < eps || w < eps {
		return 0, false
	}
	return u*a.Z() + v*b.Z() + w*c.Z(), true
}
