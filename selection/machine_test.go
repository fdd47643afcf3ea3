package selection

import (
	"testing"

	"github.com/gekko3d/mapedit/geom"
	"github.com/gekko3d/mapedit/render"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMode int

const (
	fakeOuter fakeMode = iota
	fakeComponent
)

type fakeNode struct {
	*ObservedSelectable
	name      string
	hit       geom.Intersection
	pos       mgl64.Vec3
	committed mgl64.Vec3
	component *ObservedSelectable
}

func (n *fakeNode) HasSelectedComponents() bool        { return n.component.IsSelected() }
func (n *fakeNode) SetSelectedComponents(selected bool) { n.component.SetSelected(selected) }

type fakeSpace struct {
	nodes   []*fakeNode
	machine *Machine[*fakeNode, fakeMode]
	begun   int
}

func newFakeSpace(names ...string) *fakeSpace {
	s := &fakeSpace{}
	s.machine = NewMachine[*fakeNode, fakeMode](MachineConfig[fakeMode]{
		Name:               "fake",
		OuterMode:          fakeOuter,
		ComponentMode:      fakeComponent,
		DefaultManipulator: Translate,
	}, s, nil, nil)
	for i, name := range names {
		n := &fakeNode{name: name, hit: geom.NewIntersection(float64(i)*0.1, 0)}
		n.pos = mgl64.Vec3{float64(i), 0, 0}
		n.committed = n.pos
		n.ObservedSelectable = NewObservedSelectable(func(sel Selectable) { s.machine.NotifySelected(n, sel) })
		n.component = NewObservedSelectable(func(sel Selectable) { s.machine.NotifyComponents(n, n, sel) })
		s.nodes = append(s.nodes, n)
	}
	return s
}

func (s *fakeSpace) TestSelect(_ *SelectionTest, mode fakeMode, _ bool) *Pool[Selectable] {
	pool := NewPool[Selectable]()
	for _, n := range s.nodes {
		if mode == fakeComponent {
			if n.IsSelected() {
				pool.Add(n.hit, n.component)
			}
			continue
		}
		pool.Add(n.hit, n.ObservedSelectable)
	}
	return pool
}

func (s *fakeSpace) SelectionBounds(components bool) geom.AABB {
	box := geom.EmptyAABB()
	for _, n := range s.nodes {
		if (components && n.component.IsSelected()) || (!components && n.IsSelected()) {
			box.IncludePoint(n.pos)
		}
	}
	return box
}

func (s *fakeSpace) TestSelectedHit(_ *SelectionTest, _ bool) bool { return s.machine.CountSelected() > 0 }
func (s *fakeSpace) CanEnterComponentMode() bool                   { return s.machine.CountSelected() > 0 }
func (s *fakeSpace) BeginManipulation(bool)                        { s.begun++ }

func (s *fakeSpace) ApplyTransformation(t Transformation, _ bool) {
	for _, n := range s.nodes {
		if n.IsSelected() {
			n.pos = t.Apply(n.committed)
		}
	}
}

func (s *fakeSpace) CommitManipulation(bool) {
	for _, n := range s.nodes {
		n.committed = n.pos
	}
}

func (s *fakeSpace) RevertManipulation(bool) {
	for _, n := range s.nodes {
		n.pos = n.committed
	}
}

type fakeComponentHandle struct {
	target Target
	start  mgl64.Vec2
}

func (c *fakeComponentHandle) BeginTransformation(_ mgl64.Mat4, _ render.View, p mgl64.Vec2) {
	c.start = p
}

func (c *fakeComponentHandle) Transform(pivot2world mgl64.Mat4, _ render.View, p mgl64.Vec2, _ Constraint) {
	d := p.Sub(c.start)
	c.target.ApplyTransformation(Translation(mgl64.Vec3{d.X(), d.Y(), 0}, pivot2world.Col(3).Vec3()))
}

type fakeManipulator struct {
	BasicSelectable
	kind      ManipulatorType
	component *fakeComponentHandle
}

func (f *fakeManipulator) Type() ManipulatorType                           { return f.kind }
func (f *fakeManipulator) TestSelect(*SelectionTest, mgl64.Mat4)           { f.SetSelected(true) }
func (f *fakeManipulator) Render(render.Collector, render.View, mgl64.Mat4) {}
func (f *fakeManipulator) ActiveComponent() ManipulatorComponent {
	if !f.IsSelected() {
		return nil
	}
	return f.component
}

type fakeUndo struct {
	started, finished, cancelled []string
	current                      string
}

func (u *fakeUndo) Start(name string) error {
	u.current = name
	u.started = append(u.started, name)
	return nil
}

func (u *fakeUndo) Finish() error {
	u.finished = append(u.finished, u.current)
	return nil
}

func (u *fakeUndo) Cancel() error {
	u.cancelled = append(u.cancelled, u.current)
	return nil
}

func countEmissions[T any](sig *Signal[T]) *int {
	n := 0
	sig.Connect(func(T) { n++ })
	return &n
}

func TestMachine_ModeSignalsOnlyOnChange(t *testing.T) {
	s := newFakeSpace("a")
	m := s.machine
	modes := countEmissions(&m.ModeChanged)

	assert.False(t, m.SetMode(fakeComponent), "needs a selection first")
	assert.Zero(t, *modes)

	s.nodes[0].SetSelected(true)
	assert.True(t, m.SetMode(fakeComponent))
	assert.False(t, m.SetMode(fakeComponent))
	assert.Equal(t, 1, *modes)

	// Toggling the same mode twice returns to the start, one signal per change.
	assert.True(t, m.ToggleMode(fakeComponent))
	assert.Equal(t, fakeOuter, m.Mode())
	assert.True(t, m.ToggleMode(fakeComponent))
	assert.Equal(t, fakeComponent, m.Mode())
	assert.Equal(t, 3, *modes)

	assert.True(t, s.nodes[0].IsSelected(), "mode switches keep the outer selection")
}

func TestMachine_PointSelectModifiers(t *testing.T) {
	s := newFakeSpace("near", "far")
	m := s.machine
	changes := countEmissions(&m.SelectionChanged)
	near, far := s.nodes[0], s.nodes[1]

	m.SelectPoint(nil, Toggle, false)
	assert.True(t, near.IsSelected())
	m.SelectPoint(nil, Toggle, false)
	assert.False(t, near.IsSelected(), "toggle twice restores")
	assert.Equal(t, 2, *changes)

	far.SetSelected(true)
	*changes = 0
	m.SelectPoint(nil, Replace, false)
	assert.True(t, near.IsSelected())
	assert.False(t, far.IsSelected())
	assert.Equal(t, 1, *changes, "a replace emits once")

	m.SelectPoint(nil, Cycle, false)
	assert.False(t, near.IsSelected())
	assert.True(t, far.IsSelected())
	m.SelectPoint(nil, Cycle, false)
	assert.True(t, near.IsSelected())
	assert.False(t, far.IsSelected())

	assert.Equal(t, []*fakeNode{near}, m.Selected())
	assert.True(t, m.IsNodeSelected(near))
	assert.False(t, m.IsNodeSelected(far))
	last, ok := m.LastSelected()
	require.True(t, ok)
	assert.Same(t, near, last)
}

func TestMachine_AreaSelect(t *testing.T) {
	s := newFakeSpace("a", "b", "c")
	m := s.machine
	changes := countEmissions(&m.SelectionChanged)

	m.SelectArea(nil, Replace, false)
	assert.Equal(t, 3, m.CountSelected())
	assert.Equal(t, 1, *changes)

	m.SelectArea(nil, Toggle, false)
	assert.Zero(t, m.CountSelected())
}

func TestMachine_ClearLayers(t *testing.T) {
	s := newFakeSpace("a", "b")
	m := s.machine
	changes := countEmissions(&m.SelectionChanged)

	s.nodes[0].SetSelected(true)
	s.nodes[1].SetSelected(true)
	require.True(t, m.SetMode(fakeComponent))
	s.nodes[0].SetSelectedComponents(true)
	require.Equal(t, 1, m.CountSelectedComponents())
	*changes = 0

	// Components first.
	assert.True(t, m.ClearLayer())
	assert.Zero(t, m.CountSelectedComponents())
	assert.Equal(t, fakeComponent, m.Mode())
	assert.Equal(t, 1, *changes)

	// Then the component mode, without a selection change.
	assert.True(t, m.ClearLayer())
	assert.Equal(t, fakeOuter, m.Mode())
	assert.Equal(t, 1, *changes)

	// Then the nodes.
	assert.True(t, m.ClearLayer())
	assert.Zero(t, m.CountSelected())
	assert.Equal(t, 2, *changes)

	assert.False(t, m.ClearLayer())
	assert.Equal(t, 2, *changes)
}

func TestMachine_ManipulatorToggle(t *testing.T) {
	s := newFakeSpace("a")
	m := s.machine
	for _, kind := range []ManipulatorType{Translate, Rotate, Scale} {
		m.RegisterManipulator(&fakeManipulator{kind: kind})
	}
	changed := countEmissions(&m.ManipulatorChanged)
	require.Equal(t, Translate, m.ManipulatorType())

	require.NoError(t, m.ToggleManipulator(Translate))
	assert.Equal(t, Translate, m.ManipulatorType())
	assert.Zero(t, *changed)

	require.NoError(t, m.ToggleManipulator(Rotate))
	assert.Equal(t, Rotate, m.ManipulatorType())
	require.NoError(t, m.ToggleManipulator(Rotate))
	assert.Equal(t, Translate, m.ManipulatorType())
	assert.Equal(t, 2, *changed)

	assert.Error(t, m.SetActiveManipulator(Drag))
}

func TestMachine_ManipulationLifecycle(t *testing.T) {
	s := newFakeSpace("a", "b")
	undo := &fakeUndo{}
	s.machine.undo = undo
	m := s.machine
	manip := &fakeManipulator{kind: Translate}
	manip.component = &fakeComponentHandle{target: m}
	m.RegisterManipulator(manip)

	// Nothing selected: no handles, no manipulation.
	assert.False(t, m.TestSelectManipulator(nil))
	assert.False(t, m.OnManipulationStart())
	assert.NotPanics(t, m.OnManipulationCancelled)

	s.nodes[0].SetSelected(true)
	s.nodes[1].SetSelected(true)
	assert.Equal(t, mgl64.Vec3{0.5, 0, 0}, m.Pivot().Position())

	require.True(t, m.TestSelectManipulator(nil))
	require.True(t, m.OnManipulationStart())
	comp := manip.ActiveComponent()
	comp.BeginTransformation(m.Pivot2World(), render.View{}, mgl64.Vec2{0, 0})
	comp.Transform(m.Pivot2World(), render.View{}, mgl64.Vec2{0, 2}, Unconstrained)
	comp.Transform(m.Pivot2World(), render.View{}, mgl64.Vec2{0, 2}, Unconstrained)
	m.OnManipulationChanged()
	assert.Equal(t, mgl64.Vec3{1, 2, 0}, s.nodes[1].pos)
	assert.Equal(t, mgl64.Vec3{0.5, 2, 0}, m.Pivot().Position(), "pivot follows the translation")

	m.OnManipulationCancelled()
	assert.Equal(t, mgl64.Vec3{1, 0, 0}, s.nodes[1].pos)
	assert.Equal(t, mgl64.Vec3{0.5, 0, 0}, m.Pivot().Position())
	assert.False(t, m.Manipulating())
	assert.Equal(t, []string{"Translate"}, undo.cancelled)

	scene := countEmissions(&m.SceneChanged)
	require.True(t, m.TestSelectManipulator(nil))
	require.True(t, m.OnManipulationStart())
	comp = manip.ActiveComponent()
	comp.BeginTransformation(m.Pivot2World(), render.View{}, mgl64.Vec2{0, 0})
	comp.Transform(m.Pivot2World(), render.View{}, mgl64.Vec2{1, 0}, Unconstrained)
	m.OnManipulationEnd()
	assert.Equal(t, mgl64.Vec3{2, 0, 0}, s.nodes[1].committed)
	assert.Equal(t, []string{"Translate"}, undo.finished)
	assert.Equal(t, 1, *scene)
	assert.False(t, manip.IsSelected())
	assert.Equal(t, mgl64.Vec3{1.5, 0, 0}, m.Pivot().Position())
	assert.Equal(t, 2, s.begun)

	// Releasing where it was grabbed leaves no undo step.
	require.True(t, m.TestSelectManipulator(nil))
	require.True(t, m.OnManipulationStart())
	comp = manip.ActiveComponent()
	comp.BeginTransformation(m.Pivot2World(), render.View{}, mgl64.Vec2{3, 3})
	comp.Transform(m.Pivot2World(), render.View{}, mgl64.Vec2{3, 3}, Unconstrained)
	m.OnManipulationEnd()
	assert.False(t, m.Manipulating())
	assert.Equal(t, []string{"Translate"}, undo.finished)
	assert.Equal(t, []string{"Translate", "Translate"}, undo.cancelled)
	assert.Equal(t, 1, *scene)
	assert.Equal(t, mgl64.Vec3{2, 0, 0}, s.nodes[1].pos)
	assert.Equal(t, mgl64.Vec3{1.5, 0, 0}, m.Pivot().Position())
}

func TestMachine_ReentrantHandlersDoNotRecurse(t *testing.T) {
	s := newFakeSpace("a", "b")
	m := s.machine

	depth, maxDepth, calls := 0, 0, 0
	m.SelectionChanged.Connect(func(Selectable) {
		calls++
		depth++
		maxDepth = max(maxDepth, depth)
		// Selecting b from inside the handler is delivered afterwards.
		s.nodes[1].SetSelected(true)
		depth--
	})

	s.nodes[0].SetSelected(true)
	assert.Equal(t, 1, maxDepth)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 2, m.CountSelected())
}

func TestMachine_WorkZoneKeepsLastSelection(t *testing.T) {
	s := newFakeSpace("a", "b")
	m := s.machine

	s.nodes[0].SetSelected(true)
	s.nodes[1].SetSelected(true)
	zone := m.WorkZone()
	assert.Equal(t, mgl64.Vec3{0.5, 0, 0}, zone.Origin)

	m.DeselectAll()
	assert.Equal(t, zone, m.WorkZone())
	assert.False(t, m.Pivot().Valid())
}
