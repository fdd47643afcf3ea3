// Package undo records named operations as sets of mementos so a whole
// manipulation can be rolled back, undone and redone as one step.
package undo

import (
	"errors"
	"slices"

	"github.com/gekko3d/mapedit/logging"
	"github.com/google/uuid"
)

var (
	ErrOperationActive = errors.New("undo: an operation is already active")
	ErrNoOperation     = errors.New("undo: no active operation")
)

// Undoable is state the undo system can capture and put back.
// Memento must return a value that no later edit of the owner can change.
type Undoable interface {
	Memento() any
	Restore(memento any)
}

type entry struct {
	target  Undoable
	memento any
}

// Operation is one undo step.
type Operation struct {
	ID      uuid.UUID
	Name    string
	entries []entry
	saved   map[Undoable]struct{}
}

func newOperation(name string) *Operation {
	return &Operation{
		ID:    uuid.New(),
		Name:  name,
		saved: make(map[Undoable]struct{}),
	}
}

func (op *Operation) save(u Undoable) {
	if _, ok := op.saved[u]; ok {
		return
	}
	op.saved[u] = struct{}{}
	op.entries = append(op.entries, entry{target: u, memento: u.Memento()})
}

// swap restores every memento, newest first, and returns the operation that
// reverses it.
func (op *Operation) swap() *Operation {
	inverse := &Operation{ID: op.ID, Name: op.Name, saved: op.saved}
	for i := len(op.entries) - 1; i >= 0; i-- {
		e := op.entries[i]
		inverse.entries = append(inverse.entries, entry{target: e.target, memento: e.target.Memento()})
		e.target.Restore(e.memento)
	}
	slices.Reverse(inverse.entries)
	return inverse
}

// System holds the undo and redo stacks. MaxDepth bounds the undo stack;
// zero means unbounded.
type System struct {
	maxDepth int
	log      logging.Logger

	active   *Operation
	undo     []*Operation
	redo     []*Operation
	restored []func(name string)
}

func NewSystem(maxDepth int, log logging.Logger) *System {
	return &System{maxDepth: maxDepth, log: logging.OrNop(log).Named("undo")}
}

// OnRestored registers fn to run after every undo and redo with the name of
// the operation.
func (s *System) OnRestored(fn func(name string)) {
	s.restored = append(s.restored, fn)
}

func (s *System) notifyRestored(name string) {
	for _, fn := range s.restored {
		fn(name)
	}
}

func (s *System) Active() bool {
	return s.active != nil
}

// Start opens a named operation.
func (s *System) Start(name string) error {
	if s.active != nil {
		return ErrOperationActive
	}
	s.active = newOperation(name)
	s.log.Debugf("start %q", name)
	return nil
}

// Save captures u once per operation, before its first change.
// Outside an operation it does nothing.
func (s *System) Save(u Undoable) {
	if s.active == nil {
		return
	}
	s.active.save(u)
}

// Finish closes the operation. An operation that saved nothing is dropped.
func (s *System) Finish() error {
	op := s.active
	if op == nil {
		return ErrNoOperation
	}
	s.active = nil
	if len(op.entries) == 0 {
		s.log.Debugf("%q changed nothing", op.Name)
		return nil
	}
	s.undo = append(s.undo, op)
	if s.maxDepth > 0 && len(s.undo) > s.maxDepth {
		s.undo = slices.Delete(s.undo, 0, len(s.undo)-s.maxDepth)
	}
	s.redo = s.redo[:0]
	s.log.Debugf("finish %q (%d saved)", op.Name, len(op.entries))
	return nil
}

// Cancel restores everything saved in the operation and drops it.
func (s *System) Cancel() error {
	op := s.active
	if op == nil {
		return ErrNoOperation
	}
	s.active = nil
	op.swap()
	s.log.Debugf("cancel %q", op.Name)
	return nil
}

func (s *System) CanUndo() bool {
	return s.active == nil && len(s.undo) > 0
}

func (s *System) CanRedo() bool {
	return s.active == nil && len(s.redo) > 0
}

// Undo reverts the newest operation and reports whether there was one.
func (s *System) Undo() bool {
	if !s.CanUndo() {
		return false
	}
	op := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]
	s.redo = append(s.redo, op.swap())
	s.log.Debugf("undo %q", op.Name)
	s.notifyRestored(op.Name)
	return true
}

// Redo reapplies the newest undone operation.
func (s *System) Redo() bool {
	if !s.CanRedo() {
		return false
	}
	op := s.redo[len(s.redo)-1]
	s.redo = s.redo[:len(s.redo)-1]
	s.undo = append(s.undo, op.swap())
	s.log.Debugf("redo %q", op.Name)
	s.notifyRestored(op.Name)
	return true
}

// History lists the undoable operation names, oldest first.
func (s *System) History() []string {
	names := make([]string, len(s.undo))
	for i, op := range s.undo {
		names[i] = op.Name
	}
	return names
}

// RedoHistory lists the redoable operation names, next redo last.
func (s *System) RedoHistory() []string {
	names := make([]string, len(s.redo))
	for i, op := range s.redo {
		names[i] = op.Name
	}
	return names
}

// Clear drops both stacks. An active operation is kept.
func (s *System) Clear() {
	s.undo = nil
	s.redo = nil
}
