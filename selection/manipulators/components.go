package manipulators

import (
	"math"

	"github.com/gekko3d/mapedit/render"
	"github.com/gekko3d/mapedit/selection"
	"github.com/go-gl/mathgl/mgl64"
)

// TranslateAxis moves the selection along one pivot axis.
type TranslateAxis struct {
	target selection.Target
	local  mgl64.Vec3
	grid   float64

	origin mgl64.Vec3
	axis   mgl64.Vec3
	start  float64
	ok     bool
}

func (c *TranslateAxis) BeginTransformation(pivot2world mgl64.Mat4, view render.View, device mgl64.Vec2) {
	c.origin = pivotPosition(pivot2world)
	c.axis = pivotAxis(pivot2world, c.local)
	c.start, c.ok = pointOnAxis(view, device, c.origin, c.axis)
}

func (c *TranslateAxis) Transform(_ mgl64.Mat4, view render.View, device mgl64.Vec2, constraint selection.Constraint) {
	if !c.ok {
		return
	}
	s, ok := pointOnAxis(view, device, c.origin, c.axis)
	if !ok {
		return
	}
	delta := c.axis.Mul(s - c.start)
	if constraint.Has(selection.ConstrainGrid) {
		delta = snapVec(delta, c.grid)
	}
	c.target.ApplyTransformation(selection.Translation(delta, c.origin))
}

// TranslateFree moves the selection in the plane facing the viewer. With
// pivotOnly set it moves the pivot instead.
type TranslateFree struct {
	target    selection.Target
	grid      float64
	pivotOnly bool

	origin mgl64.Vec3
	normal mgl64.Vec3
	start  mgl64.Vec3
}

func (c *TranslateFree) MovesPivotOnly() bool {
	return c.pivotOnly
}

func (c *TranslateFree) BeginTransformation(pivot2world mgl64.Mat4, view render.View, device mgl64.Vec2) {
	c.origin = pivotPosition(pivot2world)
	c.normal = view.DirectionToViewer(c.origin)
	c.start = pointOnPlane(view, device, c.origin, c.normal)
}

func (c *TranslateFree) Transform(_ mgl64.Mat4, view render.View, device mgl64.Vec2, constraint selection.Constraint) {
	delta := pointOnPlane(view, device, c.origin, c.normal).Sub(c.start)
	if constraint.Has(selection.ConstrainAxis) {
		delta = dominantAxis(delta)
	}
	if constraint.Has(selection.ConstrainGrid) {
		delta = snapVec(delta, c.grid)
	}
	if c.pivotOnly {
		c.target.TranslatePivot(delta)
		return
	}
	c.target.ApplyTransformation(selection.Translation(delta, c.origin))
}

// RotateAxis rotates about a pivot axis by the signed angle between the
// begin and current pointer vectors in the rotation plane. A screen
// component takes its axis from the view at begin.
type RotateAxis struct {
	target selection.Target
	local  mgl64.Vec3
	screen bool
	snap   float64

	origin mgl64.Vec3
	axis   mgl64.Vec3
	start  mgl64.Vec3

	// Angle is the last applied rotation in radians, for display.
	Angle float64
}

func (c *RotateAxis) BeginTransformation(pivot2world mgl64.Mat4, view render.View, device mgl64.Vec2) {
	c.origin = pivotPosition(pivot2world)
	if c.screen {
		c.axis = view.DirectionToViewer(c.origin)
	} else {
		c.axis = pivotAxis(pivot2world, c.local)
	}
	c.start = c.planeVector(view, device)
	c.Angle = 0
}

func (c *RotateAxis) planeVector(view render.View, device mgl64.Vec2) mgl64.Vec3 {
	v := pointOnPlane(view, device, c.origin, c.axis).Sub(c.origin)
	return v.Sub(c.axis.Mul(v.Dot(c.axis)))
}

func (c *RotateAxis) Transform(_ mgl64.Mat4, view render.View, device mgl64.Vec2, constraint selection.Constraint) {
	current := c.planeVector(view, device)
	if c.start.Len() < 1e-9 || current.Len() < 1e-9 {
		return
	}
	a, b := c.start.Normalize(), current.Normalize()
	angle := math.Acos(mgl64.Clamp(a.Dot(b), -1, 1))
	if a.Cross(b).Dot(c.axis) < 0 {
		angle = -angle
	}
	if constraint.Has(selection.ConstrainAxis) && c.snap > 0 {
		step := mgl64.DegToRad(c.snap)
		angle = math.Round(angle/step) * step
	}
	c.Angle = angle
	c.target.ApplyTransformation(selection.Rotation(mgl64.QuatRotate(angle, c.axis), c.origin))
}

// RotateFree is an arcball: the rotation carrying the begin point on the
// sphere around the pivot to the current one.
type RotateFree struct {
	target       selection.Target
	radiusPixels float64

	origin mgl64.Vec3
	radius float64
	start  mgl64.Vec3
}

func (c *RotateFree) BeginTransformation(pivot2world mgl64.Mat4, view render.View, device mgl64.Vec2) {
	c.origin = pivotPosition(pivot2world)
	c.radius = handleScale(view, pivot2world, c.radiusPixels)
	c.start = c.spherePoint(view, device)
}

func (c *RotateFree) spherePoint(view render.View, device mgl64.Vec2) mgl64.Vec3 {
	ray := view.Ray(device)
	oc := ray.Origin.Sub(c.origin)
	b := oc.Dot(ray.Direction)
	disc := b*b - (oc.Dot(oc) - c.radius*c.radius)
	var p mgl64.Vec3
	if disc >= 0 {
		p = ray.At(-b - math.Sqrt(disc))
	} else {
		p = ray.At(-b)
	}
	return p.Sub(c.origin).Normalize()
}

func (c *RotateFree) Transform(_ mgl64.Mat4, view render.View, device mgl64.Vec2, _ selection.Constraint) {
	current := c.spherePoint(view, device)
	if c.start.Len() < 1e-9 || current.Len() < 1e-9 {
		return
	}
	q := mgl64.QuatBetweenVectors(c.start, current)
	c.target.ApplyTransformation(selection.Rotation(q, c.origin))
}

// ScaleAxis scales along one pivot axis by the ratio of current to begin
// distance from the pivot.
type ScaleAxis struct {
	target selection.Target
	local  mgl64.Vec3

	origin mgl64.Vec3
	axis   mgl64.Vec3
	start  float64
	ok     bool
}

func (c *ScaleAxis) BeginTransformation(pivot2world mgl64.Mat4, view render.View, device mgl64.Vec2) {
	c.origin = pivotPosition(pivot2world)
	c.axis = pivotAxis(pivot2world, c.local)
	c.start, c.ok = pointOnAxis(view, device, c.origin, c.axis)
	if math.Abs(c.start) < 1e-9 {
		c.ok = false
	}
}

func (c *ScaleAxis) Transform(_ mgl64.Mat4, view render.View, device mgl64.Vec2, _ selection.Constraint) {
	if !c.ok {
		return
	}
	s, ok := pointOnAxis(view, device, c.origin, c.axis)
	if !ok {
		return
	}
	factor := s / c.start
	scale := mgl64.Vec3{1, 1, 1}
	for i := 0; i < 3; i++ {
		scale[i] += (factor - 1) * math.Abs(c.local[i])
	}
	c.target.ApplyTransformation(selection.Scaling(scale, c.origin))
}

// ScaleFree scales uniformly by the ratio of pointer distances from the
// pivot in the plane facing the viewer.
type ScaleFree struct {
	target selection.Target

	origin mgl64.Vec3
	normal mgl64.Vec3
	start  float64
}

func (c *ScaleFree) BeginTransformation(pivot2world mgl64.Mat4, view render.View, device mgl64.Vec2) {
	c.origin = pivotPosition(pivot2world)
	c.normal = view.DirectionToViewer(c.origin)
	c.start = pointOnPlane(view, device, c.origin, c.normal).Sub(c.origin).Len()
}

func (c *ScaleFree) Transform(_ mgl64.Mat4, view render.View, device mgl64.Vec2, _ selection.Constraint) {
	if c.start < 1e-9 {
		return
	}
	f := pointOnPlane(view, device, c.origin, c.normal).Sub(c.origin).Len() / c.start
	c.target.ApplyTransformation(selection.Scaling(mgl64.Vec3{f, f, f}, c.origin))
}
