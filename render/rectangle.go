package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const minHalfSize = 1e-6

// Rectangle is an axis aligned region of device space.
type Rectangle struct {
	Min mgl64.Vec2
	Max mgl64.Vec2
}

// RectangleFromPoint centres a rectangle of half size epsilon on p.
func RectangleFromPoint(p, epsilon mgl64.Vec2) Rectangle {
	e := mgl64.Vec2{math.Max(epsilon.X(), minHalfSize), math.Max(epsilon.Y(), minHalfSize)}
	return Rectangle{Min: p.Sub(e), Max: p.Add(e)}
}

// RectangleFromArea spans start to start+delta, whichever way the drag went.
func RectangleFromArea(start, delta mgl64.Vec2) Rectangle {
	end := start.Add(delta)
	r := Rectangle{
		Min: mgl64.Vec2{math.Min(start.X(), end.X()), math.Min(start.Y(), end.Y())},
		Max: mgl64.Vec2{math.Max(start.X(), end.X()), math.Max(start.Y(), end.Y())},
	}
	for i := 0; i < 2; i++ {
		if r.Max[i]-r.Min[i] < 2*minHalfSize {
			r.Max[i] = r.Min[i] + 2*minHalfSize
		}
	}
	return r
}

func (r Rectangle) Center() mgl64.Vec2 {
	return r.Min.Add(r.Max).Mul(0.5)
}

func (r Rectangle) HalfSize() mgl64.Vec2 {
	return r.Max.Sub(r.Min).Mul(0.5)
}

func (r Rectangle) Contains(p mgl64.Vec2) bool {
	return p.X() >= r.Min.X() && p.X() <= r.Max.X() && p.Y() >= r.Min.Y() && p.Y() <= r.Max.Y()
}
