package manipulators

import (
	"github.com/gekko3d/mapedit/geom"
	"github.com/gekko3d/mapedit/render"
	"github.com/gekko3d/mapedit/selection"
	"github.com/go-gl/mathgl/mgl64"
)

// screenCircleRadius is relative to the axis circles.
const screenCircleRadius = 1.15

// Rotate offers a circle per axis, a screen circle, a free sphere and the
// pivot point. A planar Rotate (texture space) only rotates about Z and
// grabs anywhere that is not the pivot.
type Rotate struct {
	handles
	cfg    Config
	planar bool
	axes   [3]*handle
	screen *handle
	sphere *handle
	pivot  *handle
}

func NewRotate(target selection.Target, cfg Config) *Rotate {
	return newRotate(target, cfg, false)
}

// NewPlanarRotate builds the texture space variant.
func NewPlanarRotate(target selection.Target, cfg Config) *Rotate {
	return newRotate(target, cfg, true)
}

func newRotate(target selection.Target, cfg Config, planar bool) *Rotate {
	m := &Rotate{cfg: cfg, planar: planar}
	for i := range m.axes {
		m.axes[i] = &handle{
			name:      axisName(i),
			colour:    axisColour(i),
			component: &RotateAxis{target: target, local: unitAxis(i), snap: cfg.RotateSnap},
		}
	}
	m.screen = &handle{
		name:      "screen",
		colour:    render.ColourScreen,
		component: &RotateAxis{target: target, screen: true, snap: cfg.RotateSnap},
	}
	m.sphere = &handle{
		name:      "sphere",
		colour:    render.ColourSphere,
		component: &RotateFree{target: target, radiusPixels: cfg.RotateRadius},
	}
	m.pivot = &handle{
		name:      "pivot",
		colour:    render.ColourPivot,
		component: &TranslateFree{target: target, grid: cfg.GridSize, pivotOnly: true},
	}
	m.handles = handles{m.axes[0], m.axes[1], m.axes[2], m.screen, m.sphere, m.pivot}
	return m
}

func (m *Rotate) Type() selection.ManipulatorType {
	return selection.Rotate
}

// Angle returns the rotation of the grabbed axis handle, in radians.
func (m *Rotate) Angle() float64 {
	if c, ok := m.ActiveComponent().(*RotateAxis); ok {
		return c.Angle
	}
	return 0
}

func (m *Rotate) TestSelect(test *selection.SelectionTest, pivot2world mgl64.Mat4) {
	view := test.View()

	test.BeginMesh(pivot2world)
	if test.TestPoint(mgl64.Vec3{}).Valid() {
		m.pivot.SetSelected(true)
		return
	}

	if m.planar {
		m.axes[2].SetSelected(true)
		return
	}

	test.BeginMesh(local2world(pivot2world, handleScale(view, pivot2world, m.cfg.RotateRadius)))
	viewer := viewerLocal(view, pivot2world)

	pool := selection.NewPool[*handle]()
	for i, h := range m.axes {
		pts, full := semicircle(unitAxis(i), viewer, m.cfg.CircleSegments)
		if full {
			pool.Add(test.TestLineLoop(pts), h)
		} else {
			pool.Add(test.TestLineStrip(pts), h)
		}
	}
	pool.Add(test.TestLineLoop(circle(viewer, m.cfg.CircleSegments, screenCircleRadius)), m.screen)

	if pool.Empty() {
		if hit := test.TestCircle(circle(viewer, m.cfg.CircleSegments, 1), geom.CullNone); hit.Valid() {
			m.sphere.SetSelected(true)
		}
		return
	}
	selectBest(pool)
}

func (m *Rotate) Render(c render.Collector, view render.View, pivot2world mgl64.Mat4) {
	transform := local2world(pivot2world, handleScale(view, pivot2world, m.cfg.RotateRadius))
	viewer := viewerLocal(view, pivot2world)

	if m.planar {
		z := m.axes[2]
		c.AddBatch(render.NewBatch(z.name, render.LineLoop, circle(axisZ, m.cfg.CircleSegments, 1), z.displayColour(), transform))
	} else {
		for i, h := range m.axes {
			pts, full := semicircle(unitAxis(i), viewer, m.cfg.CircleSegments)
			prim := render.LineStrip
			if full {
				prim = render.LineLoop
			}
			c.AddBatch(render.NewBatch(h.name, prim, pts, h.displayColour(), transform))
		}
		c.AddBatch(render.NewBatch(m.screen.name, render.LineLoop,
			circle(viewer, m.cfg.CircleSegments, screenCircleRadius), m.screen.displayColour(), transform))
		c.AddBatch(render.NewBatch(m.sphere.name, render.LineLoop,
			circle(viewer, m.cfg.CircleSegments, 1), m.sphere.displayColour(), transform))
	}
	c.AddBatch(render.NewBatch(m.pivot.name, render.Points, []mgl64.Vec3{{}}, m.pivot.displayColour(), pivot2world))
}
