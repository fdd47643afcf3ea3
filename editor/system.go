// Package editor runs the selection machine over the 3D scene: picking
// brushes, patches and entities, component editing, and the transform
// manipulators.
package editor

import (
	"github.com/gekko3d/mapedit/geom"
	"github.com/gekko3d/mapedit/logging"
	"github.com/gekko3d/mapedit/scene"
	"github.com/gekko3d/mapedit/selection"
	"github.com/gekko3d/mapedit/selection/manipulators"
	"github.com/gekko3d/mapedit/undo"
)

type Config struct {
	// EntityPriorityWeight is subtracted from the depth of entity hits
	// before they are ranked against primitives. Device depth spans
	// [-1, 1], so 2 or more always prefers an entity under the pointer.
	EntityPriorityWeight float64
	DefaultManipulator   selection.ManipulatorType
	Manipulators         manipulators.Config
}

func DefaultConfig() Config {
	return Config{
		EntityPriorityWeight: 2,
		DefaultManipulator:   selection.Translate,
		Manipulators:         manipulators.DefaultConfig(),
	}
}

// SelectionSystem is the scene instance of the selection machine.
type SelectionSystem struct {
	*selection.Machine[scene.Node, Mode]

	cfg   Config
	graph *scene.Graph
	undo  *undo.System
	log   logging.Logger

	componentMode scene.ComponentMode
	targets       []scene.Transformable

	info      SelectionInfo
	infoDirty bool

	ComponentModeChanged selection.Signal[scene.ComponentMode]
}

// NewSelectionSystem observes graph. undoSystem may be nil.
func NewSelectionSystem(graph *scene.Graph, cfg Config, undoSystem *undo.System, log logging.Logger) *SelectionSystem {
	s := &SelectionSystem{
		cfg:       cfg,
		graph:     graph,
		undo:      undoSystem,
		log:       logging.OrNop(log).Named("selection"),
		infoDirty: true,
	}
	var tx selection.Transactions
	if undoSystem != nil {
		tx = undoSystem
	}
	s.Machine = selection.NewMachine[scene.Node](selection.MachineConfig[Mode]{
		Name:               "selection",
		OuterMode:          Primitive,
		ComponentMode:      Component,
		DefaultManipulator: cfg.DefaultManipulator,
	}, &sceneSpace{s}, tx, log)

	s.RegisterManipulator(manipulators.NewTranslate(s.Machine, cfg.Manipulators))
	s.RegisterManipulator(manipulators.NewRotate(s.Machine, cfg.Manipulators))
	s.RegisterManipulator(manipulators.NewScale(s.Machine, cfg.Manipulators))
	s.RegisterManipulator(manipulators.NewDrag(s.Machine, cfg.Manipulators))

	s.SelectionChanged.Connect(func(selection.Selectable) { s.infoDirty = true })
	s.SceneChanged.Connect(func(string) { s.infoDirty = true })
	graph.Observe(s)
	return s
}

func (s *SelectionSystem) Graph() *scene.Graph {
	return s.graph
}

// scene.Observer

func (s *SelectionSystem) NodeSelectionChanged(n scene.Node, sel selection.Selectable) {
	s.NotifySelected(n, sel)
}

func (s *SelectionSystem) NodeComponentsChanged(n scene.Node, sel selection.Selectable) {
	if c, ok := n.(selection.ComponentSelectable); ok {
		s.NotifyComponents(n, c, sel)
	}
}

func (s *SelectionSystem) NodeRemoved(n scene.Node) {
	s.Forget(n)
}

// Component mode

func (s *SelectionSystem) ComponentMode() scene.ComponentMode {
	return s.componentMode
}

// SetComponentMode changes which components are picked. Switching while in
// component mode drops the component selection.
func (s *SelectionSystem) SetComponentMode(cm scene.ComponentMode) bool {
	if cm == s.componentMode {
		return false
	}
	if s.Manipulating() {
		return false
	}
	if s.ComponentModeActive() {
		s.DeselectComponents()
	}
	s.componentMode = cm
	s.Pivot().SetNeedsRecalculation()
	s.log.Debugf("component mode %s", cm)
	s.ComponentModeChanged.Emit(cm)
	return true
}

// ToggleComponentMode enters component mode with cm, or leaves it when cm is
// already active. Entering needs a selected node.
func (s *SelectionSystem) ToggleComponentMode(cm scene.ComponentMode) bool {
	if s.ComponentModeActive() && s.componentMode == cm {
		if !s.SetMode(Primitive) {
			return false
		}
		s.SetComponentMode(scene.ComponentDefault)
		return true
	}
	if !s.ComponentModeActive() && s.CountSelected() == 0 {
		s.log.Debugf("%s mode needs a selection", cm)
		return false
	}
	changed := s.SetComponentMode(cm)
	return s.SetMode(Component) || changed
}

func (s *SelectionSystem) ToggleEntityMode() bool {
	return s.ToggleMode(Entity)
}

// effectiveComponentMode picks vertices when component mode was entered
// without choosing.
func (s *SelectionSystem) effectiveComponentMode() scene.ComponentMode {
	if s.componentMode == scene.ComponentDefault {
		return scene.ComponentVertex
	}
	return s.componentMode
}

// Select touching / inside

// SelectTouching replaces the selection with the primitives whose bounds
// touch the bounds of the selected nodes.
func (s *SelectionSystem) SelectTouching() int {
	return s.selectByVolume(func(volume, box geom.AABB) bool { return volume.Intersects(box) })
}

// SelectInside replaces the selection with the primitives that lie inside
// the bounds of the selected nodes.
func (s *SelectionSystem) SelectInside() int {
	return s.selectByVolume(func(volume, box geom.AABB) bool { return volume.Contains(box) })
}

func (s *SelectionSystem) selectByVolume(accept func(volume, box geom.AABB) bool) int {
	if s.Manipulating() || s.CountSelected() == 0 {
		return 0
	}
	volumeNodes := s.Selected()
	volume := geom.EmptyAABB()
	for _, n := range volumeNodes {
		volume.IncludeAABB(n.WorldAABB())
	}
	isVolume := make(map[scene.Node]bool, len(volumeNodes))
	for _, n := range volumeNodes {
		isVolume[n] = true
	}

	count := 0
	s.Batch(func() {
		s.DeselectAll()
		for _, n := range s.graph.QueryAABB(volume) {
			if isVolume[n] || !selectablePrimitive(n) {
				continue
			}
			if accept(volume, n.WorldAABB()) {
				n.Selectable().SetSelected(true)
				count++
			}
		}
	})
	s.log.Debugf("%d selected by volume", count)
	return count
}

// selectablePrimitive reports nodes primitive mode can select on their own.
func selectablePrimitive(n scene.Node) bool {
	if e, ok := n.(*scene.Entity); ok {
		return e.Kind() == scene.PointEntity
	}
	return true
}
