package manipulators

import (
	"github.com/gekko3d/mapedit/render"
	"github.com/gekko3d/mapedit/selection"
	"github.com/go-gl/mathgl/mgl64"
)

// Drag grabs whatever selected item is under the pointer and moves it
// freely in the plane facing the viewer. It draws nothing.
type Drag struct {
	handles
	target selection.Target
	free   *handle
}

func NewDrag(target selection.Target, cfg Config) *Drag {
	m := &Drag{target: target}
	m.free = &handle{
		name:      "drag",
		component: &TranslateFree{target: target, grid: cfg.GridSize},
	}
	m.handles = handles{m.free}
	return m
}

func (m *Drag) Type() selection.ManipulatorType {
	return selection.Drag
}

func (m *Drag) TestSelect(test *selection.SelectionTest, _ mgl64.Mat4) {
	if m.target.TestSelectedHit(test) {
		m.free.SetSelected(true)
	}
}

func (m *Drag) Render(render.Collector, render.View, mgl64.Mat4) {}
