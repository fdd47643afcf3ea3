package render

import (
	"testing"

	"github.com/gekko3d/mapedit/geom"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRectangleFromArea_Normalises(t *testing.T) {
	r := RectangleFromArea(mgl64.Vec2{0.5, 0.5}, mgl64.Vec2{-1, -0.25})
	assert.Equal(t, mgl64.Vec2{-0.5, 0.25}, r.Min)
	assert.Equal(t, mgl64.Vec2{0.5, 0.5}, r.Max)
	assert.True(t, r.Contains(mgl64.Vec2{0, 0.3}))
	assert.False(t, r.Contains(mgl64.Vec2{0, 0}))

	flat := RectangleFromArea(mgl64.Vec2{0, 0}, mgl64.Vec2{0, 0})
	assert.Greater(t, flat.HalfSize().X(), 0.0, "never zero sized")
}

func TestTextureToolView_Orientation(t *testing.T) {
	bounds := geom.NewAABBFromMinMax(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 1, 0})
	view := NewTextureToolView(bounds, 200, 200)

	topLeft := view.Project(mgl64.Vec3{0, 0, 0})
	bottomRight := view.Project(mgl64.Vec3{1, 1, 0})

	// U grows to the right, V grows downwards in device space.
	assert.InDelta(t, -1, topLeft.X(), 1e-9)
	assert.InDelta(t, 1, topLeft.Y(), 1e-9)
	assert.InDelta(t, 1, bottomRight.X(), 1e-9)
	assert.InDelta(t, -1, bottomRight.Y(), 1e-9)
	assert.InDelta(t, 0, topLeft.Z(), 1e-9)

	// Wide viewports keep the texture square.
	wide := NewTextureToolView(bounds, 400, 200)
	p := wide.Project(mgl64.Vec3{1, 1, 0})
	assert.InDelta(t, 0.5, p.X(), 1e-9)
	assert.InDelta(t, -1, p.Y(), 1e-9)
}

func TestView_ScissorMapsRectangleToDeviceSquare(t *testing.T) {
	bounds := geom.NewAABBFromMinMax(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 1, 0})
	view := NewTextureToolView(bounds, 100, 100)

	rect := RectangleFromPoint(mgl64.Vec2{0.5, 0.5}, mgl64.Vec2{0.1, 0.1})
	scissored := view.Scissored(rect)

	// Device (0.5, 0.5) is texture (0.75, 0.25).
	d := mgl64.TransformCoordinate(mgl64.Vec3{0.75, 0.25, 0}, scissored.ViewProjection())
	assert.InDelta(t, 0, d.X(), 1e-9)
	assert.InDelta(t, 0, d.Y(), 1e-9)

	hit := geom.TestPoint(scissored.ViewProjection(), mgl64.Vec3{0.77, 0.25, 0})
	require.True(t, hit.Valid())
	assert.False(t, geom.TestPoint(scissored.ViewProjection(), mgl64.Vec3{0.9, 0.25, 0}).Valid())
}

func TestCameraView_RayAndViewer(t *testing.T) {
	view := NewCameraView(mgl64.Vec3{0, 0, 10}, mgl64.Vec3{}, mgl64.Vec3{0, 1, 0}, 60, 640, 480)
	require.True(t, view.IsPerspective())

	ray := view.Ray(mgl64.Vec2{0, 0})
	assert.True(t, ray.Direction.ApproxEqualThreshold(mgl64.Vec3{0, 0, -1}, 1e-6))
	assert.True(t, view.Eye().ApproxEqualThreshold(mgl64.Vec3{0, 0, 10}, 1e-6))
	assert.True(t, view.DirectionToViewer(mgl64.Vec3{}).ApproxEqualThreshold(mgl64.Vec3{0, 0, 1}, 1e-6))

	d := view.DeviceFromWindow(320, 240)
	assert.InDelta(t, 0, d.X(), 1e-9)
	assert.InDelta(t, 0, d.Y(), 1e-9)
	assert.Greater(t, view.WorldScale(mgl64.Vec3{}), 0.0)
}
