package selection

import (
	"fmt"

	"cogentcore.org/core/base/ordmap"
	"github.com/gekko3d/mapedit/geom"
	"github.com/gekko3d/mapedit/logging"
	"github.com/go-gl/mathgl/mgl64"
)

// Space is the coordinate space and node set a Machine runs over.
type Space[M comparable] interface {
	// TestSelect collects the candidates for a test in the given mode.
	TestSelect(test *SelectionTest, mode M, faceOnly bool) *Pool[Selectable]
	// SelectionBounds is the box around the selected nodes, or around the
	// selected components when components is set.
	SelectionBounds(components bool) geom.AABB
	TestSelectedHit(test *SelectionTest, components bool) bool
	// CanEnterComponentMode gates the switch into component mode.
	CanEnterComponentMode() bool

	BeginManipulation(components bool)
	ApplyTransformation(t Transformation, components bool)
	CommitManipulation(components bool)
	RevertManipulation(components bool)
}

// Transactions brackets a manipulation into one undo step.
type Transactions interface {
	Start(name string) error
	Finish() error
	Cancel() error
}

type MachineConfig[M comparable] struct {
	// Name prefixes log lines.
	Name               string
	OuterMode          M
	ComponentMode      M
	DefaultManipulator ManipulatorType
}

// Machine is the selection state shared by every editing space: mode,
// ordered selection lists, the active manipulator, the pivot, and the
// manipulation lifecycle. N identifies nodes, M is the mode type.
type Machine[N comparable, M comparable] struct {
	cfg   MachineConfig[M]
	space Space[M]
	undo  Transactions
	log   logging.Logger

	mode       M
	selected   *ordmap.Map[N, Selectable]
	components *ordmap.Map[N, ComponentSelectable]

	manipulators map[ManipulatorType]Manipulator
	active       Manipulator

	pivot         *Pivot
	workZone      geom.AABB
	workZoneDirty bool

	manipulating        bool
	pivotOnly           bool
	moved               bool
	transformComponents bool
	operation           string

	batchDepth int
	emitting   bool
	hasPending bool
	pending    Selectable

	// SelectionChanged fires with the last touched selectable.
	SelectionChanged    Signal[Selectable]
	ModeChanged         Signal[M]
	ManipulatorChanged  Signal[ManipulatorType]
	ManipulationChanged Signal[ManipulatorType]
	// SceneChanged fires with the undo name of every committed manipulation.
	SceneChanged Signal[string]
}

func NewMachine[N comparable, M comparable](cfg MachineConfig[M], space Space[M], undo Transactions, log logging.Logger) *Machine[N, M] {
	if undo == nil {
		undo = nopTransactions{}
	}
	m := &Machine[N, M]{
		cfg:          cfg,
		space:        space,
		undo:         undo,
		log:          logging.OrNop(log).Named(cfg.Name),
		mode:         cfg.OuterMode,
		selected:     ordmap.New[N, Selectable](),
		components:   ordmap.New[N, ComponentSelectable](),
		manipulators: make(map[ManipulatorType]Manipulator),
		workZone:     geom.EmptyAABB(),
	}
	m.pivot = NewPivot(func() (mgl64.Vec3, bool) {
		b := m.space.SelectionBounds(m.componentTarget())
		if !b.IsValid() {
			return mgl64.Vec3{}, false
		}
		return b.Origin, true
	})
	return m
}

// Modes

func (m *Machine[N, M]) Mode() M {
	return m.mode
}

func (m *Machine[N, M]) ComponentModeActive() bool {
	return m.mode == m.cfg.ComponentMode
}

// SetMode switches mode and reports whether it changed. Entering component
// mode needs the space's consent. Leaving it drops the component selection.
func (m *Machine[N, M]) SetMode(mode M) bool {
	if mode == m.mode {
		return false
	}
	if m.manipulating {
		m.log.Warnf("mode change refused during manipulation")
		return false
	}
	if mode == m.cfg.ComponentMode && !m.space.CanEnterComponentMode() {
		m.log.Debugf("component mode needs a selection")
		return false
	}
	if m.mode == m.cfg.ComponentMode {
		m.DeselectComponents()
	}
	m.mode = mode
	m.pivot.SetNeedsRecalculation()
	m.workZoneDirty = true
	m.log.Debugf("mode %v", mode)
	m.ModeChanged.Emit(mode)
	return true
}

// ToggleMode enters mode, or returns to the outer mode if mode is already active.
func (m *Machine[N, M]) ToggleMode(mode M) bool {
	if m.mode == mode && mode != m.cfg.OuterMode {
		return m.SetMode(m.cfg.OuterMode)
	}
	return m.SetMode(mode)
}

// Manipulators

func (m *Machine[N, M]) RegisterManipulator(manip Manipulator) {
	m.manipulators[manip.Type()] = manip
	if m.active == nil && manip.Type() == m.cfg.DefaultManipulator {
		m.active = manip
	}
}

func (m *Machine[N, M]) ActiveManipulator() Manipulator {
	return m.active
}

func (m *Machine[N, M]) ManipulatorType() ManipulatorType {
	if m.active == nil {
		return m.cfg.DefaultManipulator
	}
	return m.active.Type()
}

func (m *Machine[N, M]) SetActiveManipulator(t ManipulatorType) error {
	manip, ok := m.manipulators[t]
	if !ok {
		return fmt.Errorf("%s: manipulator %s not available", m.cfg.Name, t)
	}
	if manip == m.active {
		return nil
	}
	if m.manipulating {
		return fmt.Errorf("%s: cannot switch manipulator during manipulation", m.cfg.Name)
	}
	if m.active != nil {
		m.active.SetSelected(false)
	}
	m.active = manip
	m.pivot.SetNeedsRecalculation()
	m.log.Debugf("manipulator %s", t)
	m.ManipulatorChanged.Emit(t)
	return nil
}

// ToggleManipulator activates t, or goes back to the default manipulator if
// t is already active. Toggling the default while active changes nothing.
func (m *Machine[N, M]) ToggleManipulator(t ManipulatorType) error {
	if m.active != nil && m.active.Type() == t {
		if t == m.cfg.DefaultManipulator {
			return nil
		}
		return m.SetActiveManipulator(m.cfg.DefaultManipulator)
	}
	return m.SetActiveManipulator(t)
}

// Selection bookkeeping, fed by the space's nodes.

// NotifySelected records a changed selected flag of node n.
func (m *Machine[N, M]) NotifySelected(n N, s Selectable) {
	if s.IsSelected() {
		m.selected.Add(n, s)
	} else if !m.selected.DeleteKey(n) {
		return
	}
	m.selectionChanged(s)
}

// NotifyComponents records a change in the component selection of node n.
func (m *Machine[N, M]) NotifyComponents(n N, c ComponentSelectable, s Selectable) {
	if c.HasSelectedComponents() {
		m.components.Add(n, c)
	} else {
		m.components.DeleteKey(n)
	}
	m.selectionChanged(s)
}

// Forget drops n from every list, for nodes leaving the space.
func (m *Machine[N, M]) Forget(n N) {
	s, wasSelected := m.selected.ValueByKeyTry(n)
	hadComponents := m.components.DeleteKey(n)
	if wasSelected {
		m.selected.DeleteKey(n)
	}
	if wasSelected || hadComponents {
		m.selectionChanged(s)
	}
}

func (m *Machine[N, M]) selectionChanged(s Selectable) {
	m.pivot.SetNeedsRecalculation()
	m.workZoneDirty = true
	m.pending, m.hasPending = s, true
	if m.batchDepth == 0 {
		m.flush()
	}
}

// flush emits pending changes. Changes made by handlers are delivered after
// the current emission instead of recursing into it.
func (m *Machine[N, M]) flush() {
	if m.emitting {
		return
	}
	m.emitting = true
	defer func() { m.emitting = false }()
	for m.hasPending {
		s := m.pending
		m.pending, m.hasPending = nil, false
		m.SelectionChanged.Emit(s)
	}
}

// Batch runs fn and emits at most one selection change afterwards.
func (m *Machine[N, M]) Batch(fn func()) {
	m.batchDepth++
	defer func() {
		m.batchDepth--
		if m.batchDepth == 0 {
			m.flush()
		}
	}()
	fn()
}

func (m *Machine[N, M]) CountSelected() int {
	return m.selected.Len()
}

// CountSelectedComponents counts nodes that have selected components.
func (m *Machine[N, M]) CountSelectedComponents() int {
	return m.components.Len()
}

// Selected returns the selected nodes in selection order.
func (m *Machine[N, M]) Selected() []N {
	return m.selected.Keys()
}

func (m *Machine[N, M]) ComponentNodes() []N {
	return m.components.Keys()
}

func (m *Machine[N, M]) IsNodeSelected(n N) bool {
	_, ok := m.selected.IndexByKeyTry(n)
	return ok
}

// LastSelected returns the most recently selected node.
func (m *Machine[N, M]) LastSelected() (N, bool) {
	if m.selected.Len() == 0 {
		var zero N
		return zero, false
	}
	return m.selected.KeyByIndex(m.selected.Len() - 1), true
}

func (m *Machine[N, M]) DeselectAll() {
	m.Batch(func() {
		for _, s := range m.selected.Values() {
			s.SetSelected(false)
		}
	})
}

func (m *Machine[N, M]) DeselectComponents() {
	m.Batch(func() {
		for _, c := range m.components.Values() {
			c.SetSelectedComponents(false)
		}
	})
}

// ClearLayer clears the innermost non-empty layer: selected components,
// then component mode itself, then the selected nodes. It reports false
// when there was nothing left to clear.
func (m *Machine[N, M]) ClearLayer() bool {
	if m.manipulating {
		return false
	}
	if m.components.Len() > 0 {
		m.DeselectComponents()
		return true
	}
	if m.ComponentModeActive() {
		return m.SetMode(m.cfg.OuterMode)
	}
	if m.selected.Len() > 0 {
		m.DeselectAll()
		return true
	}
	return false
}

// componentTarget reports whether manipulations act on components: in
// component mode, or when only components (faces) are selected.
func (m *Machine[N, M]) componentTarget() bool {
	return m.ComponentModeActive() || (m.selected.Len() == 0 && m.components.Len() > 0)
}

// Selection algorithms

func (m *Machine[N, M]) clearFor(faceOnly bool) {
	if faceOnly || m.ComponentModeActive() {
		m.DeselectComponents()
	} else {
		m.DeselectAll()
	}
}

// SelectPoint applies modifier to the best candidate of test.
func (m *Machine[N, M]) SelectPoint(test *SelectionTest, modifier Modifier, faceOnly bool) {
	if m.manipulating {
		return
	}
	m.Batch(func() {
		if modifier == Replace {
			m.clearFor(faceOnly)
		}
		pool := m.space.TestSelect(test, m.mode, faceOnly)
		best, ok := pool.Best()
		if !ok {
			return
		}
		switch modifier {
		case Toggle:
			best.Value.SetSelected(!best.Value.IsSelected())
		case Cycle:
			entries := pool.Entries()
			for i, e := range entries {
				if e.Value.IsSelected() {
					e.Value.SetSelected(false)
					entries[(i+1)%len(entries)].Value.SetSelected(true)
					return
				}
			}
			best.Value.SetSelected(true)
		default:
			best.Value.SetSelected(true)
		}
	})
}

// SelectArea applies modifier to every candidate of test.
func (m *Machine[N, M]) SelectArea(test *SelectionTest, modifier Modifier, faceOnly bool) {
	if m.manipulating {
		return
	}
	m.Batch(func() {
		if modifier == Replace {
			m.clearFor(faceOnly)
		}
		pool := m.space.TestSelect(test, m.mode, faceOnly)
		for _, e := range pool.Entries() {
			if modifier == Toggle {
				e.Value.SetSelected(!e.Value.IsSelected())
			} else {
				e.Value.SetSelected(true)
			}
		}
	})
}

// Pivot and work zone

// Invalidate recomputes pivot and work zone on next use, for geometry that
// changed outside a manipulation (undo, redo).
func (m *Machine[N, M]) Invalidate() {
	m.pivot.SetNeedsRecalculation()
	m.workZoneDirty = true
}

func (m *Machine[N, M]) Pivot() *Pivot {
	return m.pivot
}

func (m *Machine[N, M]) Pivot2World() mgl64.Mat4 {
	return m.pivot.Matrix()
}

// WorkZone is the bounding box of the most recent non-empty selection.
func (m *Machine[N, M]) WorkZone() geom.AABB {
	if m.workZoneDirty {
		m.workZoneDirty = false
		if b := m.space.SelectionBounds(m.componentTarget()); b.IsValid() {
			m.workZone = b
		}
	}
	return m.workZone
}

// Manipulation lifecycle

func (m *Machine[N, M]) Manipulating() bool {
	return m.manipulating
}

// TestSelectManipulator hit-tests the active manipulator's handles and
// reports whether one was grabbed.
func (m *Machine[N, M]) TestSelectManipulator(test *SelectionTest) bool {
	if m.active == nil || m.manipulating || !m.pivot.Valid() {
		return false
	}
	m.active.SetSelected(false)
	m.active.TestSelect(test, m.pivot.Matrix())
	return m.active.IsSelected()
}

// OnManipulationStart opens the undo step for the grabbed handle. It refuses
// to start without a selection or a grabbed handle.
func (m *Machine[N, M]) OnManipulationStart() bool {
	if m.manipulating {
		return false
	}
	if m.active == nil || m.active.ActiveComponent() == nil {
		m.log.Warnf("no manipulator handle grabbed")
		return false
	}
	if !m.pivot.Valid() {
		m.log.Warnf("nothing selected to manipulate")
		return false
	}

	m.pivot.BeginOperation()
	m.manipulating = true
	if pm, ok := m.active.ActiveComponent().(PivotMover); ok && pm.MovesPivotOnly() {
		m.pivotOnly = true
		return true
	}

	m.transformComponents = m.componentTarget()
	m.operation = m.active.Type().String()
	if err := m.undo.Start(m.operation); err != nil {
		m.log.Warnf("%v", err)
	}
	m.space.BeginManipulation(m.transformComponents)
	m.log.Debugf("%s started", m.operation)
	return true
}

func (m *Machine[N, M]) OnManipulationChanged() {
	if !m.manipulating {
		return
	}
	m.workZoneDirty = true
	m.ManipulationChanged.Emit(m.active.Type())
}

// OnManipulationEnd commits the edit as one undo step. A manipulation that
// ended where it started leaves no undo step and emits nothing.
func (m *Machine[N, M]) OnManipulationEnd() {
	if !m.manipulating {
		return
	}
	if !m.pivotOnly && !m.moved {
		m.space.RevertManipulation(m.transformComponents)
		if err := m.undo.Cancel(); err != nil {
			m.log.Warnf("%v", err)
		}
		m.log.Debugf("%s left everything in place", m.operation)
		m.reset()
		m.pivot.RevertToStart()
		return
	}
	pivotOnly := m.pivotOnly
	if !pivotOnly {
		m.space.CommitManipulation(m.transformComponents)
		if err := m.undo.Finish(); err != nil {
			m.log.Warnf("%v", err)
		}
	}
	m.reset()
	m.pivot.EndOperation(!pivotOnly)
	m.workZoneDirty = true
	if !pivotOnly {
		m.log.Debugf("%s committed", m.operation)
		m.SceneChanged.Emit(m.operation)
	}
}

// OnManipulationCancelled restores the state from before the manipulation
// started. It does nothing when no manipulation runs.
func (m *Machine[N, M]) OnManipulationCancelled() {
	if !m.manipulating {
		return
	}
	if !m.pivotOnly {
		m.space.RevertManipulation(m.transformComponents)
		if err := m.undo.Cancel(); err != nil {
			m.log.Warnf("%v", err)
		}
		m.log.Debugf("%s cancelled", m.operation)
	}
	m.reset()
	m.pivot.RevertToStart()
}

func (m *Machine[N, M]) reset() {
	m.active.SetSelected(false)
	m.manipulating = false
	m.pivotOnly = false
	m.moved = false
}

// Target

func (m *Machine[N, M]) ApplyTransformation(t Transformation) {
	if !m.manipulating || m.pivotOnly {
		return
	}
	m.space.ApplyTransformation(t, m.transformComponents)
	m.pivot.ApplyTranslation(t.Translation)
	m.moved = !t.IsIdentity()
}

func (m *Machine[N, M]) TranslatePivot(t mgl64.Vec3) {
	if m.manipulating && m.pivotOnly {
		m.pivot.ApplyTranslation(t)
	}
}

func (m *Machine[N, M]) TestSelectedHit(test *SelectionTest) bool {
	return m.space.TestSelectedHit(test, m.componentTarget())
}

type nopTransactions struct{}

func (nopTransactions) Start(string) error { return nil }
func (nopTransactions) Finish() error      { return nil }
func (nopTransactions) Cancel() error      { return nil }
