// Package manipulators implements the on-screen handles that turn pointer
// drags into transformations of the selection.
package manipulators

import (
	"math"

	"github.com/gekko3d/mapedit/geom"
	"github.com/gekko3d/mapedit/render"
	"github.com/gekko3d/mapedit/selection"
	"github.com/go-gl/mathgl/mgl64"
)

// Config sizes are in pixels so handles keep their screen size at any zoom.
type Config struct {
	AxisLength     float64 `yaml:"axisLength"`
	RotateRadius   float64 `yaml:"rotateRadius"`
	CircleSegments int     `yaml:"circleSegments"`
	GridSize       float64 `yaml:"gridSize"`
	RotateSnap     float64 `yaml:"rotateSnapDegrees"`
}

func DefaultConfig() Config {
	return Config{
		AxisLength:     64,
		RotateRadius:   64,
		CircleSegments: 64,
		GridSize:       8,
		RotateSnap:     15,
	}
}

var (
	axisX = mgl64.Vec3{1, 0, 0}
	axisY = mgl64.Vec3{0, 1, 0}
	axisZ = mgl64.Vec3{0, 0, 1}
)

// handle is one grabbable part of a manipulator.
type handle struct {
	selection.BasicSelectable
	name      string
	colour    render.Colour
	component selection.ManipulatorComponent
}

func (h *handle) displayColour() render.Colour {
	if h.IsSelected() {
		return render.ColourSelected
	}
	return h.colour
}

// handles implements the selection half of selection.Manipulator.
type handles []*handle

func (hs handles) IsSelected() bool {
	for _, h := range hs {
		if h.IsSelected() {
			return true
		}
	}
	return false
}

// SetSelected(false) releases every handle; true has no single meaning and
// is ignored.
func (hs handles) SetSelected(selected bool) {
	if selected {
		return
	}
	for _, h := range hs {
		h.SetSelected(false)
	}
}

func (hs handles) ActiveComponent() selection.ManipulatorComponent {
	for _, h := range hs {
		if h.IsSelected() {
			return h.component
		}
	}
	return nil
}

func selectBest(pool *selection.Pool[*handle]) {
	if best, ok := pool.Best(); ok {
		best.Value.SetSelected(true)
	}
}

// handleScale converts a pixel size to world units at the pivot.
func handleScale(view render.View, pivot2world mgl64.Mat4, pixels float64) float64 {
	return pixels * view.WorldScale(pivotPosition(pivot2world))
}

func pivotPosition(pivot2world mgl64.Mat4) mgl64.Vec3 {
	return pivot2world.Col(3).Vec3()
}

// pivotAxis rotates a local axis into world space using the pivot orientation.
func pivotAxis(pivot2world mgl64.Mat4, local mgl64.Vec3) mgl64.Vec3 {
	return pivot2world.Mul4x1(local.Vec4(0)).Vec3().Normalize()
}

// local2world places unit handle geometry at the pivot, scaled to s.
func local2world(pivot2world mgl64.Mat4, s float64) mgl64.Mat4 {
	return pivot2world.Mul4(mgl64.Scale3D(s, s, s))
}

// viewerLocal is the direction to the viewer in pivot space.
func viewerLocal(view render.View, pivot2world mgl64.Mat4) mgl64.Vec3 {
	world := view.DirectionToViewer(pivotPosition(pivot2world))
	return pivot2world.Inv().Mul4x1(world.Vec4(0)).Vec3().Normalize()
}

// perpendicular returns a unit vector orthogonal to n.
func perpendicular(n mgl64.Vec3) mgl64.Vec3 {
	ref := axisX
	if math.Abs(n.X()) > 0.9 {
		ref = axisY
	}
	return n.Cross(ref).Normalize()
}

// circle samples a unit circle around normal n.
func circle(n mgl64.Vec3, segments int, radius float64) []mgl64.Vec3 {
	u := perpendicular(n)
	v := n.Cross(u)
	pts := make([]mgl64.Vec3, segments)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(segments)
		pts[i] = u.Mul(math.Cos(a) * radius).Add(v.Mul(math.Sin(a) * radius))
	}
	return pts
}

// semicircle samples the half of the circle around n that faces towards.
// When towards is along n the whole circle faces the viewer.
func semicircle(n, towards mgl64.Vec3, segments int) ([]mgl64.Vec3, bool) {
	proj := towards.Sub(n.Mul(towards.Dot(n)))
	if proj.Len() < 1e-6 {
		return circle(n, segments, 1), true
	}
	u := proj.Normalize()
	v := n.Cross(u)
	half := segments / 2
	pts := make([]mgl64.Vec3, half+1)
	for i := range pts {
		a := -math.Pi/2 + math.Pi*float64(i)/float64(half)
		pts[i] = u.Mul(math.Cos(a)).Add(v.Mul(math.Sin(a)))
	}
	return pts, false
}

// screenQuad is a square of half size h facing the viewer, in pivot space.
func screenQuad(view render.View, pivot2world mgl64.Mat4, h float64) []mgl64.Vec3 {
	inv := pivot2world.Inv()
	camera := view.Modelview.Inv()
	right := inv.Mul4x1(camera.Col(0).Vec3().Normalize().Vec4(0)).Vec3().Mul(h)
	up := inv.Mul4x1(camera.Col(1).Vec3().Normalize().Vec4(0)).Vec3().Mul(h)
	return []mgl64.Vec3{
		right.Mul(-1).Sub(up),
		right.Sub(up),
		right.Add(up),
		right.Mul(-1).Add(up),
	}
}

// axisVisible hides axes that point almost straight at the viewer.
func axisVisible(view render.View, pivot2world mgl64.Mat4, local mgl64.Vec3) bool {
	return math.Abs(viewerLocal(view, pivot2world).Dot(local)) < 0.99
}

// pointOnAxis returns the parameter along axis closest to the ray through
// the device point.
func pointOnAxis(view render.View, device mgl64.Vec2, origin, axis mgl64.Vec3) (float64, bool) {
	_, s, _, ok := geom.ClosestPoints(view.Ray(device), geom.Ray{Origin: origin, Direction: axis})
	return s, ok
}

// pointOnPlane intersects the ray through the device point with a plane.
// A ray parallel to the plane falls back to its point closest to origin,
// projected onto the plane.
func pointOnPlane(view render.View, device mgl64.Vec2, origin, normal mgl64.Vec3) mgl64.Vec3 {
	ray := view.Ray(device)
	if t, ok := geom.IntersectPlane(ray, origin, normal); ok {
		return ray.At(t)
	}
	p := ray.At(origin.Sub(ray.Origin).Dot(ray.Direction))
	return p.Sub(normal.Mul(p.Sub(origin).Dot(normal)))
}

func snapVec(v mgl64.Vec3, grid float64) mgl64.Vec3 {
	if grid <= 0 {
		return v
	}
	for i := range v {
		v[i] = math.Round(v[i]/grid) * grid
	}
	return v
}

// dominantAxis keeps only the largest component of v.
func dominantAxis(v mgl64.Vec3) mgl64.Vec3 {
	best := 0
	for i := 1; i < 3; i++ {
		if math.Abs(v[i]) > math.Abs(v[best]) {
			best = i
		}
	}
	var out mgl64.Vec3
	out[best] = v[best]
	return out
}
