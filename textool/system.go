package textool

import (
	"github.com/gekko3d/mapedit/geom"
	"github.com/gekko3d/mapedit/logging"
	"github.com/gekko3d/mapedit/render"
	"github.com/gekko3d/mapedit/selection"
	"github.com/gekko3d/mapedit/selection/manipulators"
	"github.com/gekko3d/mapedit/undo"
)

type Config struct {
	// DefaultManipulator is Drag or Rotate.
	DefaultManipulator selection.ManipulatorType
	Manipulators       manipulators.Config
}

func DefaultConfig() Config {
	return Config{
		DefaultManipulator: selection.Drag,
		Manipulators:       manipulators.DefaultConfig(),
	}
}

// SelectionSystem is the texture space instance of the selection machine.
type SelectionSystem struct {
	*selection.Machine[Node, SelectionMode]

	graph   *SceneGraph
	undo    *undo.System
	log     logging.Logger
	targets []Node
}

// NewSelectionSystem observes graph. undoSystem may be nil.
func NewSelectionSystem(graph *SceneGraph, cfg Config, undoSystem *undo.System, log logging.Logger) *SelectionSystem {
	s := &SelectionSystem{
		graph: graph,
		undo:  undoSystem,
		log:   logging.OrNop(log).Named("textool"),
	}
	var tx selection.Transactions
	if undoSystem != nil {
		tx = undoSystem
	}
	s.Machine = selection.NewMachine[Node](selection.MachineConfig[SelectionMode]{
		Name:               "textool",
		OuterMode:          Surface,
		ComponentMode:      Vertex,
		DefaultManipulator: cfg.DefaultManipulator,
	}, &textureSpace{s}, tx, log)

	s.RegisterManipulator(manipulators.NewDrag(s.Machine, cfg.Manipulators))
	s.RegisterManipulator(manipulators.NewPlanarRotate(s.Machine, cfg.Manipulators))
	graph.Observe(s)
	return s
}

func (s *SelectionSystem) Graph() *SceneGraph {
	return s.graph
}

// Observer

func (s *SelectionSystem) NodeSelectionChanged(n Node, sel selection.Selectable) {
	s.NotifySelected(n, sel)
}

func (s *SelectionSystem) NodeComponentsChanged(n Node, sel selection.Selectable) {
	s.NotifyComponents(n, n, sel)
}

// NodesRemoved forgets the nodes of the previous scene and leaves vertex
// mode when nothing is left to pick from.
func (s *SelectionSystem) NodesRemoved(nodes []Node) {
	if s.Manipulating() {
		s.OnManipulationCancelled()
	}
	s.Batch(func() {
		for _, n := range nodes {
			s.Forget(n)
		}
	})
	if s.Mode() == Vertex && s.graph.Len() == 0 {
		s.SetMode(Surface)
	}
}

func (s *SelectionSystem) ToggleSelectionMode(mode SelectionMode) bool {
	return s.ToggleMode(mode)
}

// Render collects the nodes and the active manipulator.
func (s *SelectionSystem) Render(c render.Collector, view render.View) {
	for _, n := range s.graph.nodes {
		n.Render(c)
	}
	if m := s.ActiveManipulator(); m != nil && s.Pivot().Valid() {
		m.Render(c, view, s.Pivot2World())
	}
}

// textureSpace is the selection.Space of the texture tool.
type textureSpace struct {
	s *SelectionSystem
}

func (sp *textureSpace) TestSelect(test *selection.SelectionTest, mode SelectionMode, _ bool) *selection.Pool[selection.Selectable] {
	pool := selection.NewPool[selection.Selectable]()
	for _, n := range sp.s.graph.nodes {
		if !test.Visible(n.Bounds()) {
			continue
		}
		if mode == Vertex {
			n.TestSelectVertices(test, pool.Add)
		} else {
			pool.Add(n.TestSelect(test), n.Selectable())
		}
	}
	return pool
}

func (sp *textureSpace) SelectionBounds(components bool) geom.AABB {
	box := geom.EmptyAABB()
	if components {
		for _, n := range sp.s.ComponentNodes() {
			box.IncludeAABB(n.SelectedVertexBounds())
		}
		return box
	}
	for _, n := range sp.s.Selected() {
		box.IncludeAABB(n.Bounds())
	}
	return box
}

func (sp *textureSpace) TestSelectedHit(test *selection.SelectionTest, components bool) bool {
	if components {
		for _, n := range sp.s.ComponentNodes() {
			if n.TestSelectedVertices(test) {
				return true
			}
		}
		return false
	}
	for _, n := range sp.s.Selected() {
		if n.TestSelect(test).Valid() {
			return true
		}
	}
	return false
}

// CanEnterComponentMode needs nodes whose vertices can be picked.
func (sp *textureSpace) CanEnterComponentMode() bool {
	return sp.s.graph.Len() > 0
}

func (sp *textureSpace) BeginManipulation(components bool) {
	s := sp.s
	s.targets = s.targets[:0]
	if components {
		s.targets = append(s.targets, s.ComponentNodes()...)
	} else {
		s.targets = append(s.targets, s.Selected()...)
	}
	for _, n := range s.targets {
		if s.undo != nil {
			s.undo.Save(n.Owner())
		}
		n.BeginTransformation()
	}
}

func (sp *textureSpace) ApplyTransformation(t selection.Transformation, components bool) {
	for _, n := range sp.s.targets {
		n.Transform(t, components)
	}
}

func (sp *textureSpace) CommitManipulation(bool) {
	for _, n := range sp.s.targets {
		n.CommitTransformation()
	}
	sp.s.targets = sp.s.targets[:0]
}

func (sp *textureSpace) RevertManipulation(bool) {
	for _, n := range sp.s.targets {
		n.RevertTransformation()
	}
	sp.s.targets = sp.s.targets[:0]
}
