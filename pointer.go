package mapedit

import (
	"github.com/gekko3d/mapedit/logging"
	"github.com/gekko3d/mapedit/render"
	"github.com/gekko3d/mapedit/selection"
	"github.com/go-gl/mathgl/mgl64"
)

// PointerTarget is the part of a selection system the pointer drives.
type PointerTarget interface {
	TestSelectManipulator(test *selection.SelectionTest) bool
	ActiveManipulator() selection.Manipulator
	Pivot2World() mgl64.Mat4
	OnManipulationStart() bool
	OnManipulationChanged()
	OnManipulationEnd()
	OnManipulationCancelled()
	SelectPoint(test *selection.SelectionTest, modifier selection.Modifier, faceOnly bool)
	SelectArea(test *selection.SelectionTest, modifier selection.Modifier, faceOnly bool)
}

// Modifiers are the keys held during a pointer event.
type Modifiers struct {
	Shift bool
	Ctrl  bool
	Alt   bool
}

type pointerState int

const (
	pointerIdle pointerState = iota
	pointerManipulating
	pointerSelecting
)

// PointerTool turns pointer events into manipulations and selections.
// Shift selects: a click toggles the candidate, a drag replaces the
// selection with the area. Alt+Shift cycles through overlapping
// candidates and Ctrl+Shift picks faces only. Without Shift the pointer
// grabs the active manipulator. While manipulating, Shift constrains to an
// axis and Ctrl snaps to the grid.
type PointerTool struct {
	target  PointerTarget
	epsilon mgl64.Vec2
	log     logging.Logger

	state pointerState
	start mgl64.Vec2
	last  mgl64.Vec2
	mods  Modifiers
}

func NewPointerTool(target PointerTarget, epsilon mgl64.Vec2, log logging.Logger) *PointerTool {
	return &PointerTool{target: target, epsilon: epsilon, log: logging.OrNop(log)}
}

func (p *PointerTool) Manipulating() bool {
	return p.state == pointerManipulating
}

// Selecting reports a pending selection and its rectangle so far.
func (p *PointerTool) Selecting() (render.Rectangle, bool) {
	if p.state != pointerSelecting {
		return render.Rectangle{}, false
	}
	return render.RectangleFromArea(p.start, p.last.Sub(p.start)), true
}

// Hover tests the manipulator handles under the pointer for highlighting.
func (p *PointerTool) Hover(view render.View, device mgl64.Vec2) bool {
	if p.state != pointerIdle {
		return false
	}
	return p.target.TestSelectManipulator(selection.NewPointTest(view, device, p.epsilon))
}

func (p *PointerTool) Down(view render.View, device mgl64.Vec2, mods Modifiers) {
	if p.state != pointerIdle {
		return
	}
	p.start, p.last, p.mods = device, device, mods
	if mods.Shift {
		p.state = pointerSelecting
		return
	}
	if !p.target.TestSelectManipulator(selection.NewPointTest(view, device, p.epsilon)) {
		return
	}
	if !p.target.OnManipulationStart() {
		return
	}
	p.state = pointerManipulating
	p.target.ActiveManipulator().ActiveComponent().BeginTransformation(p.target.Pivot2World(), view, device)
}

func (p *PointerTool) Move(view render.View, device mgl64.Vec2, mods Modifiers) {
	p.last = device
	if p.state != pointerManipulating {
		return
	}
	constraint := selection.Unconstrained
	if mods.Shift {
		constraint |= selection.ConstrainAxis
	}
	if mods.Ctrl {
		constraint |= selection.ConstrainGrid
	}
	p.target.ActiveManipulator().ActiveComponent().Transform(p.target.Pivot2World(), view, device, constraint)
	p.target.OnManipulationChanged()
}

func (p *PointerTool) Up(view render.View, device mgl64.Vec2) {
	state := p.state
	p.state = pointerIdle
	p.last = device
	switch state {
	case pointerManipulating:
		p.target.OnManipulationEnd()
	case pointerSelecting:
		p.finishSelection(view, device)
	}
}

// Cancel aborts a running manipulation or selection.
func (p *PointerTool) Cancel() {
	if p.state == pointerManipulating {
		p.target.OnManipulationCancelled()
	}
	p.state = pointerIdle
}

func (p *PointerTool) finishSelection(view render.View, device mgl64.Vec2) {
	faceOnly := p.mods.Ctrl
	delta := device.Sub(p.start)
	pixel := view.PixelSize()
	if abs(delta.X()) <= pixel.X() && abs(delta.Y()) <= pixel.Y() {
		modifier := selection.Toggle
		if p.mods.Alt {
			modifier = selection.Cycle
		}
		p.target.SelectPoint(selection.NewPointTest(view, p.start, p.epsilon), modifier, faceOnly)
		return
	}
	rect := render.RectangleFromArea(p.start, delta)
	p.log.Debugf("area selection %v", rect)
	p.target.SelectArea(selection.NewSelectionTest(view, rect), selection.Replace, faceOnly)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
