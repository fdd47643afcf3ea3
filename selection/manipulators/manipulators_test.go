package manipulators

import (
	"math"
	"testing"

	"github.com/gekko3d/mapedit/geom"
	"github.com/gekko3d/mapedit/render"
	"github.com/gekko3d/mapedit/selection"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingTarget struct {
	applied []selection.Transformation
	pivot   mgl64.Vec3
	hit     bool
}

func (r *recordingTarget) ApplyTransformation(t selection.Transformation) {
	r.applied = append(r.applied, t)
}

func (r *recordingTarget) TranslatePivot(t mgl64.Vec3) {
	r.pivot = t
}

func (r *recordingTarget) TestSelectedHit(*selection.SelectionTest) bool {
	return r.hit
}

func (r *recordingTarget) last() selection.Transformation {
	return r.applied[len(r.applied)-1]
}

// A camera ten units up the z axis looking at the origin, where the pivot is.
// At that distance one device unit spans 10*tan(30deg) world units.
func frontView() render.View {
	return render.NewCameraView(mgl64.Vec3{0, 0, 10}, mgl64.Vec3{}, mgl64.Vec3{0, 1, 0}, 60, 512, 512)
}

const worldPerDevice = 5.773502691896258

var pointEpsilon = mgl64.Vec2{0.01, 0.01}

func grab(t *testing.T, m selection.Manipulator, view render.View, device mgl64.Vec2) selection.ManipulatorComponent {
	t.Helper()
	m.SetSelected(false)
	m.TestSelect(selection.NewPointTest(view, device, pointEpsilon), mgl64.Ident4())
	require.True(t, m.IsSelected(), "nothing grabbed at %v", device)
	return m.ActiveComponent()
}

func TestTranslate_AxisHandle(t *testing.T) {
	target := &recordingTarget{}
	view := frontView()
	m := NewTranslate(target, DefaultConfig())

	// The x arrow spans 64 of 512 pixels, a quarter of device space.
	comp := grab(t, m, view, mgl64.Vec2{0.125, 0})
	assert.Same(t, m.axes[0].component, comp)

	comp.BeginTransformation(mgl64.Ident4(), view, mgl64.Vec2{0.125, 0})
	comp.Transform(mgl64.Ident4(), view, mgl64.Vec2{0.25, 0.1}, selection.Unconstrained)
	tr := target.last()
	assert.Greater(t, tr.Translation.X(), 0.0)
	assert.InDelta(t, 0, tr.Translation.Y(), 1e-9, "locked to the axis")
	assert.InDelta(t, 0, tr.Translation.Z(), 1e-9)

	comp.Transform(mgl64.Ident4(), view, mgl64.Vec2{0.25, 0}, selection.Unconstrained)
	tr = target.last()
	assert.InDelta(t, 0.125*worldPerDevice, tr.Translation.X(), 1e-6)

	// Same point again gives the same delta.
	comp.Transform(mgl64.Ident4(), view, mgl64.Vec2{0.25, 0}, selection.Unconstrained)
	assert.Equal(t, tr, target.last())

	comp.Transform(mgl64.Ident4(), view, mgl64.Vec2{0.25, 0}, selection.ConstrainGrid)
	assert.Zero(t, target.last().Translation.X(), "snapped to the 8 unit grid")

	m.SetSelected(false)
	assert.False(t, m.IsSelected())
	assert.Nil(t, m.ActiveComponent())
}

func TestTranslate_FreeHandleAndMiss(t *testing.T) {
	target := &recordingTarget{}
	view := frontView()
	m := NewTranslate(target, DefaultConfig())

	comp := grab(t, m, view, mgl64.Vec2{-0.02, -0.02})
	assert.Same(t, m.free.component, comp)

	comp.BeginTransformation(mgl64.Ident4(), view, mgl64.Vec2{0, 0})
	comp.Transform(mgl64.Ident4(), view, mgl64.Vec2{0.1, 0.2}, selection.ConstrainAxis)
	tr := target.last()
	assert.InDelta(t, 0, tr.Translation.X(), 1e-9, "axis lock keeps the dominant direction")
	assert.InDelta(t, 0.2*worldPerDevice, tr.Translation.Y(), 1e-6)

	m.SetSelected(false)
	m.TestSelect(selection.NewPointTest(view, mgl64.Vec2{0.7, -0.7}, pointEpsilon), mgl64.Ident4())
	assert.False(t, m.IsSelected())

	var rec render.Recorder
	m.Render(&rec, view, mgl64.Ident4())
	_, hasX := rec.Find("x")
	_, hasZ := rec.Find("z")
	assert.True(t, hasX)
	assert.False(t, hasZ, "the axis pointing at the viewer is hidden")
}

func TestRotate_AxisCircleSignedAngle(t *testing.T) {
	target := &recordingTarget{}
	view := frontView()
	m := NewRotate(target, DefaultConfig())

	// The z circle faces the viewer with a radius of a quarter device unit.
	r := 0.25 / math.Sqrt2
	comp := grab(t, m, view, mgl64.Vec2{r, r})
	assert.Same(t, m.axes[2].component, comp)

	comp.BeginTransformation(mgl64.Ident4(), view, mgl64.Vec2{r, r})
	comp.Transform(mgl64.Ident4(), view, mgl64.Vec2{0, 0.25}, selection.Unconstrained)

	rotated := target.last().Apply(mgl64.Vec3{1, 0, 0})
	assert.True(t, rotated.ApproxEqualThreshold(mgl64.Vec3{math.Sqrt2 / 2, math.Sqrt2 / 2, 0}, 1e-6), "%v", rotated)
	assert.InDelta(t, math.Pi/4, m.Angle(), 1e-6)

	// Rotating back the other way is negative.
	comp.Transform(mgl64.Ident4(), view, mgl64.Vec2{0.25, 0}, selection.Unconstrained)
	assert.InDelta(t, -math.Pi/4, m.Angle(), 1e-6)

	// Snapping rounds to 15 degree steps: 0.2 rad back from 45 degrees is -33.5.
	comp.Transform(mgl64.Ident4(), view, mgl64.Vec2{0.25 * math.Cos(0.2), 0.25 * math.Sin(0.2)}, selection.ConstrainAxis)
	assert.InDelta(t, mgl64.DegToRad(-30), m.Angle(), 1e-6)
}

func TestRotate_PivotSphereAndPlanar(t *testing.T) {
	target := &recordingTarget{}
	view := frontView()
	m := NewRotate(target, DefaultConfig())

	comp := grab(t, m, view, mgl64.Vec2{0, 0})
	mover, ok := comp.(selection.PivotMover)
	require.True(t, ok)
	assert.True(t, mover.MovesPivotOnly())
	comp.BeginTransformation(mgl64.Ident4(), view, mgl64.Vec2{0, 0})
	comp.Transform(mgl64.Ident4(), view, mgl64.Vec2{0.1, 0}, selection.Unconstrained)
	assert.InDelta(t, 0.1*worldPerDevice, target.pivot.X(), 1e-6)
	assert.Empty(t, target.applied)

	// Inside the circles but on none of them grabs the sphere.
	comp = grab(t, m, view, mgl64.Vec2{0.1, 0.05})
	assert.Same(t, m.sphere.component, comp)
	comp.BeginTransformation(mgl64.Ident4(), view, mgl64.Vec2{0.1, 0.05})
	comp.Transform(mgl64.Ident4(), view, mgl64.Vec2{0.15, 0.05}, selection.Unconstrained)
	q := target.last().Rotation
	assert.Greater(t, q.V.Y(), 0.0, "dragging right turns about +y")

	bounds := geom.NewAABBFromMinMax(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 1, 0})
	texView := render.NewTextureToolView(bounds, 256, 256)
	planar := NewPlanarRotate(target, DefaultConfig())
	planar.TestSelect(selection.NewPointTest(texView, mgl64.Vec2{0.8, -0.8}, pointEpsilon), mgl64.Translate3D(0.5, 0.5, 0))
	assert.Same(t, planar.axes[2].component, planar.ActiveComponent())

	var rec render.Recorder
	planar.Render(&rec, texView, mgl64.Translate3D(0.5, 0.5, 0))
	z, found := rec.Find("z")
	require.True(t, found)
	assert.Equal(t, render.ColourSelected, z.Vertices[0].Colour)
	_, hasScreen := rec.Find("screen")
	assert.False(t, hasScreen)
}

func TestScale_AxisRatio(t *testing.T) {
	target := &recordingTarget{}
	view := frontView()
	m := NewScale(target, DefaultConfig())

	comp := grab(t, m, view, mgl64.Vec2{0.125, 0})
	comp.BeginTransformation(mgl64.Ident4(), view, mgl64.Vec2{0.125, 0})
	comp.Transform(mgl64.Ident4(), view, mgl64.Vec2{0.25, 0}, selection.Unconstrained)

	assert.True(t, target.last().Scale.ApproxEqualThreshold(mgl64.Vec3{2, 1, 1}, 1e-6), "%v", target.last().Scale)
}

func TestDrag_GrabsOnlySelectedGeometry(t *testing.T) {
	target := &recordingTarget{}
	view := frontView()
	m := NewDrag(target, DefaultConfig())

	m.TestSelect(selection.NewPointTest(view, mgl64.Vec2{}, pointEpsilon), mgl64.Ident4())
	assert.False(t, m.IsSelected())

	target.hit = true
	m.TestSelect(selection.NewPointTest(view, mgl64.Vec2{}, pointEpsilon), mgl64.Ident4())
	require.True(t, m.IsSelected())
	assert.Equal(t, selection.Drag, m.Type())

	comp := m.ActiveComponent()
	comp.BeginTransformation(mgl64.Ident4(), view, mgl64.Vec2{0, 0})
	comp.Transform(mgl64.Ident4(), view, mgl64.Vec2{-0.1, 0}, selection.Unconstrained)
	assert.InDelta(t, -0.1*worldPerDevice, target.last().Translation.X(), 1e-6)
}
