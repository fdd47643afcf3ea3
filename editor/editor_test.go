package editor

import (
	"math"
	"testing"

	"github.com/gekko3d/mapedit/render"
	"github.com/gekko3d/mapedit/scene"
	"github.com/gekko3d/mapedit/selection"
	"github.com/gekko3d/mapedit/undo"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var eps = mgl64.Vec2{0.01, 0.01}

// The camera looks down the z axis from 256 units, 512x512 pixels.
func topView() render.View {
	return render.NewCameraView(mgl64.Vec3{0, 0, 256}, mgl64.Vec3{}, mgl64.Vec3{0, 1, 0}, 60, 512, 512)
}

func newSystem(t *testing.T) (*SelectionSystem, *scene.Graph, *undo.System) {
	t.Helper()
	g := scene.NewGraph()
	u := undo.NewSystem(0, nil)
	return NewSelectionSystem(g, DefaultConfig(), u, nil), g, u
}

func cube(g *scene.Graph, half float64) *scene.Brush {
	b := scene.NewCuboidBrush("cube", mgl64.Vec3{-half, -half, -half}, mgl64.Vec3{half, half, half}, "stone")
	g.Insert(b, nil)
	return b
}

func pick(s *SelectionSystem, device mgl64.Vec2, modifier selection.Modifier) {
	s.SelectPoint(selection.NewPointTest(topView(), device, eps), modifier, false)
}

// drag grabs the active manipulator at from, moves to to and releases.
func drag(t *testing.T, s *SelectionSystem, from, to mgl64.Vec2) {
	t.Helper()
	view := topView()
	require.True(t, s.TestSelectManipulator(selection.NewPointTest(view, from, eps)), "no handle at %v", from)
	require.True(t, s.OnManipulationStart())
	comp := s.ActiveManipulator().ActiveComponent()
	comp.BeginTransformation(s.Pivot2World(), view, from)
	comp.Transform(s.Pivot2World(), view, to, selection.Unconstrained)
	s.OnManipulationChanged()
}

func TestSelectPoint_EntityPriority(t *testing.T) {
	build := func(weight float64) (*scene.Brush, *scene.Entity, *SelectionSystem) {
		g := scene.NewGraph()
		slab := scene.NewCuboidBrush("slab", mgl64.Vec3{-64, -64, -16}, mgl64.Vec3{64, 64, 16}, "stone")
		g.Insert(slab, nil)
		light := scene.NewPointEntity("light", mgl64.Vec3{})
		g.Insert(light, nil)
		cfg := DefaultConfig()
		cfg.EntityPriorityWeight = weight
		return slab, light, NewSelectionSystem(g, cfg, nil, nil)
	}

	// The light sits inside the slab, behind its top face, and still wins.
	slab, light, s := build(DefaultConfig().EntityPriorityWeight)
	pick(s, mgl64.Vec2{}, selection.Replace)
	assert.True(t, light.Selectable().IsSelected())
	assert.False(t, slab.Selectable().IsSelected())

	// Without the weight the nearer slab is picked.
	slab, light, s = build(0)
	pick(s, mgl64.Vec2{}, selection.Replace)
	assert.True(t, slab.Selectable().IsSelected())
	assert.False(t, light.Selectable().IsSelected())
}

func TestSelectPoint_ToggleTwiceRestores(t *testing.T) {
	s, g, _ := newSystem(t)
	b := cube(g, 16)

	pick(s, mgl64.Vec2{}, selection.Toggle)
	assert.True(t, b.Selectable().IsSelected())
	pick(s, mgl64.Vec2{}, selection.Toggle)
	assert.False(t, b.Selectable().IsSelected())
	assert.Zero(t, s.CountSelected())

	// Replace on empty space clears.
	pick(s, mgl64.Vec2{}, selection.Replace)
	pick(s, mgl64.Vec2{0.9, 0.9}, selection.Replace)
	assert.Zero(t, s.CountSelected())
}

func TestSelectArea_ContainsAndMisses(t *testing.T) {
	s, g, _ := newSystem(t)
	b := cube(g, 16)
	view := topView()

	s.SelectArea(selection.NewSelectionTest(view, render.RectangleFromArea(mgl64.Vec2{0.5, 0.5}, mgl64.Vec2{0.3, 0.3})), selection.Replace, false)
	assert.False(t, b.Selectable().IsSelected())

	s.SelectArea(selection.NewSelectionTest(view, render.RectangleFromArea(mgl64.Vec2{0.5, 0.5}, mgl64.Vec2{-1, -1})), selection.Replace, false)
	assert.True(t, b.Selectable().IsSelected())
	assert.Equal(t, "Brushes: 1", s.Info().String())
}

func TestModes_SignalOnlyOnChange(t *testing.T) {
	s, g, _ := newSystem(t)
	cube(g, 16)

	var modes []Mode
	s.ModeChanged.Connect(func(m Mode) { modes = append(modes, m) })
	var componentModes []scene.ComponentMode
	s.ComponentModeChanged.Connect(func(cm scene.ComponentMode) { componentModes = append(componentModes, cm) })

	assert.False(t, s.SetMode(Primitive))
	assert.True(t, s.ToggleEntityMode())
	assert.True(t, s.ToggleEntityMode())
	assert.Equal(t, []Mode{Entity, Primitive}, modes)

	// Component mode needs a selection.
	assert.False(t, s.ToggleComponentMode(scene.ComponentVertex))
	assert.Equal(t, Primitive, s.Mode())
	assert.Empty(t, componentModes)

	pick(s, mgl64.Vec2{}, selection.Replace)
	assert.True(t, s.ToggleComponentMode(scene.ComponentVertex))
	assert.True(t, s.ToggleComponentMode(scene.ComponentFace))
	assert.Equal(t, Component, s.Mode())
	assert.True(t, s.ToggleComponentMode(scene.ComponentFace))
	assert.Equal(t, Primitive, s.Mode())
	assert.Equal(t, []Mode{Entity, Primitive, Component, Primitive}, modes)
	assert.Equal(t, []scene.ComponentMode{scene.ComponentVertex, scene.ComponentFace, scene.ComponentDefault}, componentModes)
	assert.Equal(t, 1, s.CountSelected(), "leaving component mode keeps the nodes")
}

func TestComponents_VertexPivotAndLayeredClear(t *testing.T) {
	s, g, _ := newSystem(t)
	b := cube(g, 16)
	view := topView()

	pick(s, mgl64.Vec2{}, selection.Replace)
	require.True(t, s.ToggleComponentMode(scene.ComponentVertex))

	corner := mgl64.Vec3{16, 16, 16}
	device := view.Project(corner).Vec2()
	var signals int
	s.SelectionChanged.Connect(func(selection.Selectable) { signals++ })

	pick(s, device, selection.Replace)
	assert.Equal(t, 1, s.CountSelectedComponents())
	assert.True(t, s.Pivot().Position().ApproxEqual(corner), "one vertex: pivot on it")
	assert.Equal(t, 1, signals)

	assert.True(t, s.ClearLayer())
	assert.False(t, b.HasSelectedComponents())
	assert.Equal(t, 2, signals)

	assert.True(t, s.ClearLayer())
	assert.Equal(t, Primitive, s.Mode())
	assert.Equal(t, 2, signals, "leaving component mode selects nothing new")

	assert.True(t, s.ClearLayer())
	assert.Zero(t, s.CountSelected())
	assert.Equal(t, 3, signals)

	assert.False(t, s.ClearLayer())
	assert.Equal(t, 3, signals)
}

func TestFaceOnlySelection(t *testing.T) {
	s, g, _ := newSystem(t)
	b := cube(g, 16)

	s.SelectPoint(selection.NewPointTest(topView(), mgl64.Vec2{}, eps), selection.Replace, true)
	assert.Zero(t, s.CountSelected())
	assert.True(t, b.Faces()[1].IsSelected(), "the top face")
	info := s.Info()
	assert.Equal(t, 1, info.Faces)
	assert.Zero(t, info.Total(), "faces are components, not nodes")

	// Manipulating moves only the face.
	drag(t, s, mgl64.Vec2{0, 0.125}, mgl64.Vec2{0, 0.25})
	s.OnManipulationEnd()
	box := b.WorldAABB()
	assert.Equal(t, -16.0, box.Min().Y())
	assert.Greater(t, box.Max().Y(), 16.0)
}

func TestTranslate_CommitAndUndo(t *testing.T) {
	s, g, u := newSystem(t)
	b := cube(g, 16)
	pick(s, mgl64.Vec2{}, selection.Replace)

	var committed []string
	s.SceneChanged.Connect(func(name string) { committed = append(committed, name) })

	// Pivot at the origin, 256 units away: a quarter of device space is
	// 256*tan(30deg)/4 units along the x arrow.
	drag(t, s, mgl64.Vec2{0.125, 0}, mgl64.Vec2{0.25, 0})
	s.OnManipulationEnd()

	shift := 0.125 * 256 * math.Tan(math.Pi/6)
	assert.InDelta(t, -16+shift, b.WorldAABB().Min().X(), 1e-6)
	assert.InDelta(t, shift, s.Pivot().Position().X(), 1e-6, "pivot follows the selection")
	assert.Equal(t, []string{"Translate"}, committed)
	assert.Equal(t, []string{"Translate"}, u.History())

	require.True(t, u.Undo())
	assert.Equal(t, -16.0, b.WorldAABB().Min().X())
}

func TestRotate_CancelRestores(t *testing.T) {
	s, g, u := newSystem(t)
	b := cube(g, 16)
	before := b.Vertices()
	pick(s, mgl64.Vec2{}, selection.Replace)
	require.NoError(t, s.SetActiveManipulator(selection.Rotate))

	r := 0.25 / math.Sqrt2
	drag(t, s, mgl64.Vec2{r, r}, mgl64.Vec2{0, 0.25})
	rotated := b.Vertices()
	assert.False(t, rotated[0].ApproxEqualThreshold(before[0], 0.01))

	s.OnManipulationCancelled()
	for i, v := range b.Vertices() {
		assert.True(t, v.ApproxEqualThreshold(before[i], 0.01), "vertex %d: %v", i, v)
	}
	assert.Equal(t, before, b.Vertices(), "restored exactly")
	assert.False(t, s.Manipulating())
	assert.Empty(t, u.History())

	// Cancelling again is a no-op.
	s.OnManipulationCancelled()
}

func TestSelectTouchingAndInside(t *testing.T) {
	s, g, _ := newSystem(t)
	volume := scene.NewCuboidBrush("volume", mgl64.Vec3{0, 0, 0}, mgl64.Vec3{100, 100, 100}, "clip")
	inside := scene.NewCuboidBrush("inside", mgl64.Vec3{10, 10, 10}, mgl64.Vec3{20, 20, 20}, "stone")
	across := scene.NewCuboidBrush("across", mgl64.Vec3{90, 90, 90}, mgl64.Vec3{110, 110, 110}, "stone")
	far := scene.NewCuboidBrush("far", mgl64.Vec3{500, 0, 0}, mgl64.Vec3{510, 10, 10}, "stone")
	for _, b := range []*scene.Brush{volume, inside, across, far} {
		g.Insert(b, nil)
	}

	volume.Selectable().SetSelected(true)
	assert.Equal(t, 1, s.SelectInside())
	assert.Equal(t, []scene.Node{inside}, s.Selected())

	inside.Selectable().SetSelected(false)
	volume.Selectable().SetSelected(true)
	assert.Equal(t, 2, s.SelectTouching())
	assert.ElementsMatch(t, []scene.Node{inside, across}, s.Selected())
	assert.False(t, far.Selectable().IsSelected())
}

// A hull brush 65536 units wide stays cheap to hash and query.
func TestSelectTouching_HugeBrush(t *testing.T) {
	s, g, _ := newSystem(t)
	small := scene.NewCuboidBrush("small", mgl64.Vec3{0, 0, 0}, mgl64.Vec3{10, 10, 10}, "stone")
	hull := scene.NewCuboidBrush("hull", mgl64.Vec3{-32768, -32768, -32768}, mgl64.Vec3{32768, 32768, 32768}, "caulk")
	outside := scene.NewCuboidBrush("outside", mgl64.Vec3{40000, 0, 0}, mgl64.Vec3{40010, 10, 10}, "stone")
	for _, b := range []*scene.Brush{small, hull, outside} {
		g.Insert(b, nil)
	}

	small.Selectable().SetSelected(true)
	assert.Equal(t, 1, s.SelectTouching())
	assert.Equal(t, []scene.Node{hull}, s.Selected())

	// The hull's own query spans too many cells and falls back to a scan.
	assert.Equal(t, 1, s.SelectInside())
	assert.Equal(t, []scene.Node{small}, s.Selected())
}
