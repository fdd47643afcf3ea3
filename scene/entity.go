package scene

import (
	"fmt"
	"slices"

	"cogentcore.org/core/base/ordmap"
	"github.com/gekko3d/mapedit/geom"
	"github.com/gekko3d/mapedit/selection"
	"github.com/go-gl/mathgl/mgl64"
)

type EntityKind int

const (
	// PointEntity has an origin and a fixed size box.
	PointEntity EntityKind = iota
	// GroupEntity owns primitives.
	GroupEntity
	// Worldspawn owns the loose primitives of the map and is never selected.
	Worldspawn
)

// DefaultPointEntityHalfSize is the half size of the box drawn for point entities.
const DefaultPointEntityHalfSize = 8

// KeyValue is one entity property.
type KeyValue = ordmap.KeyValue[string, string]

type entityState struct {
	Origin    mgl64.Vec3
	Rotation  mgl64.Quat
	KeyValues []KeyValue
}

type entityMemento struct {
	state    entityState
	children []any
}

// Entity is a classname plus properties. Group entities move their
// primitives with them.
type Entity struct {
	nodeBase
	kind      EntityKind
	halfSize  float64
	origin    mgl64.Vec3
	rotation  mgl64.Quat
	keyValues *ordmap.Map[string, string]
	children  []Node
	start     *entityState
}

func NewPointEntity(classname string, origin mgl64.Vec3) *Entity {
	e := newEntity(PointEntity, classname)
	e.origin = origin
	e.syncOrigin()
	return e
}

func NewGroupEntity(classname string) *Entity {
	return newEntity(GroupEntity, classname)
}

func newWorldspawn() *Entity {
	return newEntity(Worldspawn, "worldspawn")
}

func newEntity(kind EntityKind, classname string) *Entity {
	e := &Entity{
		kind:      kind,
		halfSize:  DefaultPointEntityHalfSize,
		rotation:  mgl64.QuatIdent(),
		keyValues: ordmap.New[string, string](),
	}
	e.init(e, classname)
	e.keyValues.Add("classname", classname)
	return e
}

func (e *Entity) Kind() EntityKind {
	return e.kind
}

func (e *Entity) Classname() string {
	return e.KeyValue("classname")
}

func (e *Entity) KeyValue(key string) string {
	v, _ := e.keyValues.ValueByKeyTry(key)
	return v
}

func (e *Entity) SetKeyValue(key, value string) {
	e.keyValues.Add(key, value)
}

// KeyValues returns the properties in insertion order.
func (e *Entity) KeyValues() []KeyValue {
	return slices.Clone(e.keyValues.Order)
}

func (e *Entity) setKeyValues(kvs []KeyValue) {
	e.keyValues = ordmap.Make(slices.Clone(kvs))
}

func (e *Entity) Origin() mgl64.Vec3 {
	return e.origin
}

func (e *Entity) Rotation() mgl64.Quat {
	return e.rotation
}

func (e *Entity) syncOrigin() {
	if e.kind == PointEntity {
		e.keyValues.Add("origin", fmt.Sprintf("%g %g %g", e.origin.X(), e.origin.Y(), e.origin.Z()))
	}
}

// Children returns the primitives of a group entity or worldspawn.
func (e *Entity) Children() []Node {
	return e.children
}

func (e *Entity) IsGroup() bool {
	return e.kind != PointEntity
}

func (e *Entity) WorldAABB() geom.AABB {
	if e.kind == PointEntity {
		h := mgl64.Vec3{e.halfSize, e.halfSize, e.halfSize}
		return geom.NewAABBFromMinMax(e.origin.Sub(h), e.origin.Add(h))
	}
	box := geom.EmptyAABB()
	for _, c := range e.children {
		box.IncludeAABB(c.WorldAABB())
	}
	return box
}

// TestSelect picks a point entity by its box and a group entity by any of
// its primitives. Worldspawn is never picked.
func (e *Entity) TestSelect(test *selection.SelectionTest) geom.Intersection {
	switch e.kind {
	case PointEntity:
		test.BeginMesh(mgl64.Ident4())
		return test.TestAABB(e.WorldAABB())
	case GroupEntity:
		var best geom.Intersection
		for _, c := range e.children {
			if st, ok := c.(SelectionTestable); ok {
				best = geom.Best(best, st.TestSelect(test))
			}
		}
		return best
	default:
		return geom.Intersection{}
	}
}

func (e *Entity) state() entityState {
	return entityState{Origin: e.origin, Rotation: e.rotation, KeyValues: e.KeyValues()}
}

func (e *Entity) setState(s entityState) {
	e.origin = s.Origin
	e.rotation = s.Rotation
	e.setKeyValues(s.KeyValues)
	e.boundsChanged()
}

// Transformation

func (e *Entity) BeginTransform() {
	start := deepCopy(e.state())
	e.start = &start
	for _, c := range e.children {
		if t, ok := c.(Transformable); ok {
			t.BeginTransform()
		}
	}
}

func (e *Entity) SetTransformation(t selection.Transformation) {
	if e.start == nil {
		return
	}
	e.origin = t.Apply(e.start.Origin)
	e.rotation = t.Rotation.Mul(e.start.Rotation).Normalize()
	e.syncOrigin()
	e.boundsChanged()
	for _, c := range e.children {
		if tr, ok := c.(Transformable); ok {
			tr.SetTransformation(t)
		}
	}
}

func (e *Entity) RevertTransform() {
	if e.start == nil {
		return
	}
	e.setState(*e.start)
	e.start = nil
	for _, c := range e.children {
		if t, ok := c.(Transformable); ok {
			t.RevertTransform()
		}
	}
}

func (e *Entity) FreezeTransform() {
	e.start = nil
	for _, c := range e.children {
		if t, ok := c.(Transformable); ok {
			t.FreezeTransform()
		}
	}
}

// Undo

type undoable interface {
	Memento() any
	Restore(any)
}

// Memento covers the entity and its primitives.
func (e *Entity) Memento() any {
	m := entityMemento{state: deepCopy(e.state())}
	for _, c := range e.children {
		if u, ok := c.(undoable); ok {
			m.children = append(m.children, u.Memento())
		} else {
			m.children = append(m.children, nil)
		}
	}
	return m
}

func (e *Entity) Restore(m any) {
	em := m.(entityMemento)
	e.setState(deepCopy(em.state))
	for i, c := range e.children {
		if i >= len(em.children) || em.children[i] == nil {
			continue
		}
		if u, ok := c.(undoable); ok {
			u.Restore(em.children[i])
		}
	}
}
