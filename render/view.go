package render

import (
	"math"

	"github.com/gekko3d/mapedit/geom"
	"github.com/go-gl/mathgl/mgl64"
)

// View holds the matrices a viewport renders and hit-tests with. Device space
// is the [-1,1] square after projection, x to the right and y up.
type View struct {
	Modelview  mgl64.Mat4
	Projection mgl64.Mat4
	Width      int
	Height     int

	scissor  mgl64.Mat4
	viewProj mgl64.Mat4
}

func NewView(modelview, projection mgl64.Mat4, width, height int) View {
	v := View{
		Modelview:  modelview,
		Projection: projection,
		Width:      width,
		Height:     height,
		scissor:    mgl64.Ident4(),
	}
	v.viewProj = projection.Mul4(modelview)
	return v
}

// NewCameraView builds a perspective view from eye towards target.
func NewCameraView(eye, target, up mgl64.Vec3, fovDegrees float64, width, height int) View {
	aspect := float64(width) / float64(height)
	proj := mgl64.Perspective(mgl64.DegToRad(fovDegrees), aspect, 0.1, 10000)
	return NewView(mgl64.LookAtV(eye, target, up), proj, width, height)
}

// NewOrthoView builds an orthographic view centred on target, looking along
// forward, showing size world units vertically.
func NewOrthoView(target, forward, up mgl64.Vec3, size float64, width, height int) View {
	aspect := float64(width) / float64(height)
	hy := size / 2
	hx := hy * aspect
	eye := target.Sub(forward.Normalize().Mul(5000))
	proj := mgl64.Ortho(-hx, hx, -hy, hy, 0.1, 10000)
	return NewView(mgl64.LookAtV(eye, target, up), proj, width, height)
}

// NewTextureToolView fits texture-space bounds into the viewport. U grows to
// the right and V grows downwards; the aspect ratio of texture space is kept.
func NewTextureToolView(bounds geom.AABB, width, height int) View {
	hx := math.Max(bounds.Extents.X(), 1e-6)
	hy := math.Max(bounds.Extents.Y(), 1e-6)
	aspect := float64(width) / float64(height)
	if hx/hy > aspect {
		hy = hx / aspect
	} else {
		hx = hy * aspect
	}
	c := bounds.Origin
	proj := mgl64.Ortho(c.X()-hx, c.X()+hx, c.Y()+hy, c.Y()-hy, -1, 1)
	return NewView(mgl64.Ident4(), proj, width, height)
}

// ViewProjection maps world space to (scissored) clip space.
func (v View) ViewProjection() mgl64.Mat4 {
	return v.scissor.Mul4(v.viewProj)
}

// Scissored returns a copy of the view whose device square covers only r.
func (v View) Scissored(r Rectangle) View {
	c, h := r.Center(), r.HalfSize()
	s := mgl64.Scale3D(1/h.X(), 1/h.Y(), 1).Mul4(mgl64.Translate3D(-c.X(), -c.Y(), 0))
	v.scissor = s.Mul4(v.scissor)
	return v
}

func (v View) IsPerspective() bool {
	return v.Projection.At(3, 3) == 0
}

// Project maps a world point to unscissored device space.
func (v View) Project(p mgl64.Vec3) mgl64.Vec3 {
	return mgl64.TransformCoordinate(p, v.viewProj)
}

// Unproject maps a device point back to world space.
func (v View) Unproject(d mgl64.Vec3) mgl64.Vec3 {
	return mgl64.TransformCoordinate(d, v.viewProj.Inv())
}

// Ray returns the world-space ray through a device point, near to far.
func (v View) Ray(device mgl64.Vec2) geom.Ray {
	near := v.Unproject(mgl64.Vec3{device.X(), device.Y(), -1})
	far := v.Unproject(mgl64.Vec3{device.X(), device.Y(), 1})
	return geom.Ray{Origin: near, Direction: far.Sub(near).Normalize()}
}

// Forward is the world-space viewing direction.
func (v View) Forward() mgl64.Vec3 {
	return v.Modelview.Inv().Mul4x1(mgl64.Vec4{0, 0, -1, 0}).Vec3().Normalize()
}

// Eye is the camera position in world space.
func (v View) Eye() mgl64.Vec3 {
	return v.Modelview.Inv().Mul4x1(mgl64.Vec4{0, 0, 0, 1}).Vec3()
}

// DirectionToViewer points from p towards the camera.
func (v View) DirectionToViewer(p mgl64.Vec3) mgl64.Vec3 {
	if v.IsPerspective() {
		return v.Eye().Sub(p).Normalize()
	}
	return v.Forward().Mul(-1)
}

// DeviceFromWindow converts window pixel coordinates (origin top left) to
// device space.
func (v View) DeviceFromWindow(x, y float64) mgl64.Vec2 {
	return mgl64.Vec2{
		2*x/float64(v.Width) - 1,
		1 - 2*y/float64(v.Height),
	}
}

// PixelSize is the size of one pixel in device units.
func (v View) PixelSize() mgl64.Vec2 {
	return mgl64.Vec2{2 / float64(v.Width), 2 / float64(v.Height)}
}

// WorldScale returns how many world units one pixel spans at p.
func (v View) WorldScale(p mgl64.Vec3) float64 {
	if !v.IsPerspective() {
		return math.Abs(2 / (v.Projection.At(1, 1) * float64(v.Height)))
	}
	depth := math.Abs(mgl64.TransformCoordinate(p, v.Modelview).Z())
	return math.Abs(2 * depth / (v.Projection.At(1, 1) * float64(v.Height)))
}
