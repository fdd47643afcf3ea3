package manipulators

import (
	"github.com/gekko3d/mapedit/geom"
	"github.com/gekko3d/mapedit/render"
	"github.com/gekko3d/mapedit/selection"
	"github.com/go-gl/mathgl/mgl64"
)

// freeHandlePixels is the half size of the centre square.
const freeHandlePixels = 8

// Translate offers an arrow per axis and a centre square for free movement.
type Translate struct {
	handles
	cfg  Config
	axes [3]*handle
	free *handle
}

func NewTranslate(target selection.Target, cfg Config) *Translate {
	m := &Translate{cfg: cfg}
	for i, axis := range []mgl64.Vec3{axisX, axisY, axisZ} {
		m.axes[i] = &handle{
			name:      axisName(i),
			colour:    axisColour(i),
			component: &TranslateAxis{target: target, local: axis, grid: cfg.GridSize},
		}
	}
	m.free = &handle{
		name:      "free",
		colour:    render.ColourScreen,
		component: &TranslateFree{target: target, grid: cfg.GridSize},
	}
	m.handles = handles{m.axes[0], m.axes[1], m.axes[2], m.free}
	return m
}

func (m *Translate) Type() selection.ManipulatorType {
	return selection.Translate
}

func (m *Translate) TestSelect(test *selection.SelectionTest, pivot2world mgl64.Mat4) {
	view := test.View()
	s := handleScale(view, pivot2world, m.cfg.AxisLength)
	test.BeginMesh(local2world(pivot2world, s))

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

func (m *Translate) Render(c render.Collector, view render.View, pivot2world mgl64.Mat4) {
	transform := local2world(pivot2world, handleScale(view, pivot2world, m.cfg.AxisLength))
	for i, h := range m.axes {
		local := unitAxis(i)
		if !axisVisible(view, pivot2world, local) {
			continue
		}
		c.AddBatch(render.NewBatch(h.name, render.Lines, []mgl64.Vec3{{}, local}, h.displayColour(), transform))
	}
	quad := screenQuad(view, pivot2world, freeHandlePixels/m.cfg.AxisLength)
	c.AddBatch(render.NewBatch(m.free.name, render.LineLoop, quad, m.free.displayColour(), transform))
}

func unitAxis(i int) mgl64.Vec3 {
	var v mgl64.Vec3
	v[i] = 1
	return v
}

func axisName(i int) string {
	return [3]string{"x", "y", "z"}[i]
}

func axisColour(i int) render.Colour {
	return [3]render.Colour{render.ColourX, render.ColourY, render.ColourZ}[i]
}
