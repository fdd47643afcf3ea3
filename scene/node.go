// Package scene is the map the editor works on: brushes, patches and
// entities kept in a Graph, with the capabilities the selection code
// queries (whole-node picking, component picking, tentative transforms).
package scene

import (
	"fmt"

	"github.com/gekko3d/mapedit/geom"
	"github.com/gekko3d/mapedit/selection"
	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

// Node is anything stored in a Graph.
type Node interface {
	ID() uuid.UUID
	Name() string
	// Parent is the owning entity, nil for entities.
	Parent() *Entity
	WorldAABB() geom.AABB
	// Selectable is the whole-node selected flag.
	Selectable() *selection.ObservedSelectable
	base() *nodeBase
}

// SelectionTestable nodes can be picked as a whole.
type SelectionTestable interface {
	TestSelect(test *selection.SelectionTest) geom.Intersection
}

// ComponentMode picks which parts of a node are selectable in component mode.
type ComponentMode int

const (
	ComponentDefault ComponentMode = iota
	ComponentVertex
	ComponentFace
)

func (m ComponentMode) String() string {
	switch m {
	case ComponentVertex:
		return "vertex"
	case ComponentFace:
		return "face"
	default:
		return "default"
	}
}

// ComponentEditable nodes expose vertices or faces as their own selectables.
type ComponentEditable interface {
	selection.ComponentSelectable
	TestSelectComponents(test *selection.SelectionTest, mode ComponentMode, add func(geom.Intersection, selection.Selectable))
	TestSelectedComponents(test *selection.SelectionTest) bool
	ComponentBounds() geom.AABB
	CountSelectedComponents() int
}

// Transformable nodes take a transformation relative to the state captured
// by BeginTransform, so every call replaces the previous one. Revert puts
// the captured state back exactly.
type Transformable interface {
	BeginTransform()
	SetTransformation(t selection.Transformation)
	RevertTransform()
	FreezeTransform()
}

// ComponentTransformable nodes move only their selected components.
type ComponentTransformable interface {
	Transformable
	SetComponentTransformation(t selection.Transformation)
}

// Textured nodes carry a material.
type Textured interface {
	Material() string
}

type nodeBase struct {
	id         uuid.UUID
	name       string
	self       Node
	parent     *Entity
	graph      *Graph
	selectable *selection.ObservedSelectable
}

func (b *nodeBase) init(self Node, name string) {
	b.id = uuid.New()
	b.name = name
	b.self = self
	b.selectable = selection.NewObservedSelectable(func(s selection.Selectable) {
		if b.graph != nil {
			b.graph.selectionChanged(b.self, s)
		}
	})
}

func (b *nodeBase) ID() uuid.UUID {
	return b.id
}

func (b *nodeBase) Name() string {
	return b.name
}

func (b *nodeBase) Parent() *Entity {
	return b.parent
}

func (b *nodeBase) Selectable() *selection.ObservedSelectable {
	return b.selectable
}

func (b *nodeBase) base() *nodeBase {
	return b
}

func (b *nodeBase) componentsChanged(s selection.Selectable) {
	if b.graph != nil {
		b.graph.componentsChanged(b.self, s)
	}
}

func (b *nodeBase) boundsChanged() {
	if b.graph != nil {
		b.graph.gridDirty = true
	}
}

func (b *nodeBase) String() string {
	return fmt.Sprintf("%s(%s)", b.name, b.id)
}

// deepCopy clones node state for snapshots and undo mementos. State structs
// keep their fields exported so the copy reaches all of them.
func deepCopy[T any](src T) T {
	var dst T
	if err := copier.CopyWithOption(&dst, &src, copier.Option{DeepCopy: true}); err != nil {
		panic(fmt.Sprintf("scene: copy %T: %v", src, err))
	}
	return dst
}

// newComponentSelectable returns a vertex or face flag that reports to its node.
func newComponentSelectable(owner *nodeBase) *selection.ObservedSelectable {
	return selection.NewObservedSelectable(owner.componentsChanged)
}
