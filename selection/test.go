package selection

import (
	"github.com/gekko3d/mapedit/geom"
	"github.com/gekko3d/mapedit/render"
	"github.com/go-gl/mathgl/mgl64"
)

// SelectionTest is a view narrowed to a device rectangle. Geometry is tested
// in the local space set by BeginMesh.
type SelectionTest struct {
	base  render.View
	view  render.View
	rect  render.Rectangle
	local mgl64.Mat4
}

func NewSelectionTest(view render.View, rect render.Rectangle) *SelectionTest {
	t := &SelectionTest{
		base: view,
		view: view.Scissored(rect),
		rect: rect,
	}
	t.BeginMesh(mgl64.Ident4())
	return t
}

// NewPointTest builds a test around a single device point.
func NewPointTest(view render.View, device, epsilon mgl64.Vec2) *SelectionTest {
	return NewSelectionTest(view, render.RectangleFromPoint(device, epsilon))
}

// View is the unscissored view the test was built from.
func (t *SelectionTest) View() render.View {
	return t.base
}

func (t *SelectionTest) Rectangle() render.Rectangle {
	return t.rect
}

// BeginMesh sets the local to world transform for the following tests.
func (t *SelectionTest) BeginMesh(local2world mgl64.Mat4) {
	t.local = t.view.ViewProjection().Mul4(local2world)
}

// Ray returns the world ray through the centre of the test rectangle.
func (t *SelectionTest) Ray() geom.Ray {
	return t.base.Ray(t.rect.Center())
}

// Visible reports whether a world-space box may touch the test volume.
func (t *SelectionTest) Visible(box geom.AABB) bool {
	return geom.AABBVisible(t.view.ViewProjection(), box)
}

func (t *SelectionTest) TestPoint(p mgl64.Vec3) geom.Intersection {
	return geom.TestPoint(t.local, p)
}

func (t *SelectionTest) TestPoints(pts []mgl64.Vec3) geom.Intersection {
	return geom.TestPoints(t.local, pts)
}

func (t *SelectionTest) TestLineStrip(pts []mgl64.Vec3) geom.Intersection {
	return geom.TestLineStrip(t.local, pts)
}

func (t *SelectionTest) TestLineLoop(pts []mgl64.Vec3) geom.Intersection {
	return geom.TestLineLoop(t.local, pts)
}

func (t *SelectionTest) TestPolygon(pts []mgl64.Vec3, cull geom.Cull) geom.Intersection {
	return geom.TestPolygon(t.local, pts, cull)
}

func (t *SelectionTest) TestCircle(pts []mgl64.Vec3, cull geom.Cull) geom.Intersection {
	return geom.TestCircle(t.local, pts, cull)
}

func (t *SelectionTest) TestTriangles(pts []mgl64.Vec3, cull geom.Cull) geom.Intersection {
	return geom.TestTriangles(t.local, pts, cull)
}

func (t *SelectionTest) TestAABB(box geom.AABB) geom.Intersection {
	return geom.TestAABB(t.local, box)
}
