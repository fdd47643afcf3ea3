package manipulators

import (
	"github.com/gekko3d/mapedit/geom"
	"github.com/gekko3d/mapedit/render"
	"github.com/gekko3d/mapedit/selection"
	"github.com/go-gl/mathgl/mgl64"
)

// Scale offers a line per axis and a centre square for uniform scaling.
type Scale struct {
	handles
	cfg  Config
	axes [3]*handle
	free *handle
}

func NewScale(target selection.Target, cfg Config) *Scale {
	m := &Scale{cfg: cfg}
	for i := range m.axes {
		m.axes[i] = &handle{
			name:      axisName(i),
			colour:    axisColour(i),
			component: &ScaleAxis{target: target, local: unitAxis(i)},
		}
	}
	m.free = &handle{
		name:      "free",
		colour:    render.ColourScreen,
		component: &ScaleFree{target: target},
	}
	m.handles = handles{m.axes[0], m.axes[1], m.axes[2], m.free}
	return m
}

func (m *Scale) Type() selection.ManipulatorType {
	return selection.Scale
}

func (m *Scale) TestSelect(test *selection.SelectionTest, pivot2world mgl64.Mat4) {
	view := test.View()
	test.BeginMesh(local2world(pivot2world, handleScale(view, pivot2world, m.cfg.AxisLength)))

	pool := selection.NewPool[*handle]()
	for i, h := range m.axes {
		local := unitAxis(i)
		if !axisVisible(view, pivot2world, local) {
			continue
		}
		pool.Add(test.TestLineStrip([]mgl64.Vec3{{}, local}), h)
	}
	quad := screenQuad(view, pivot2world, freeHandlePixels/m.cfg.AxisLength)
	pool.Add(test.TestPolygon(quad, geom.CullNone), m.free)
	selectBest(pool)
}

func (m *Scale) Render(c render.Collector, view render.View, pivot2world mgl64.Mat4) {
	transform := local2world(pivot2world, handleScale(view, pivot2world, m.cfg.AxisLength))
	for i, h := range m.axes {
		local := unitAxis(i)
		if !axisVisible(view, pivot2world, local) {
			continue
		}
		c.AddBatch(render.NewBatch(h.name, render.Lines, []mgl64.Vec3{{}, local}, h.displayColour(), transform))
		// Box at the end of the axis.
		end := screenQuad(view, pivot2world, 0.05)
		for j := range end {
			end[j] = end[j].Add(local)
		}
		c.AddBatch(render.NewBatch(h.name+"-end", render.LineLoop, end, h.displayColour(), transform))
	}
	quad := screenQuad(view, pivot2world, freeHandlePixels/m.cfg.AxisLength)
	c.AddBatch(render.NewBatch(m.free.name, render.LineLoop, quad, m.free.displayColour(), transform))
}
