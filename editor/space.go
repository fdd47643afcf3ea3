package editor

import (
	"github.com/gekko3d/mapedit/geom"
	"github.com/gekko3d/mapedit/scene"
	"github.com/gekko3d/mapedit/selection"
	"github.com/gekko3d/mapedit/undo"
)

// sceneSpace is the selection.Space of the 3D scene.
type sceneSpace struct {
	s *SelectionSystem
}

func (sp *sceneSpace) TestSelect(test *selection.SelectionTest, mode Mode, faceOnly bool) *selection.Pool[selection.Selectable] {
	s := sp.s
	pool := selection.NewPool[selection.Selectable]()

	switch {
	case mode == Component:
		cm := s.effectiveComponentMode()
		for _, n := range s.Selected() {
			if c, ok := n.(scene.ComponentEditable); ok && test.Visible(n.WorldAABB()) {
				c.TestSelectComponents(test, cm, pool.Add)
			}
		}

	case faceOnly:
		s.graph.ForeachNode(func(n scene.Node) bool {
			if b, ok := n.(*scene.Brush); ok && test.Visible(b.WorldAABB()) {
				b.TestSelectComponents(test, scene.ComponentFace, pool.Add)
			}
			return true
		})

	case mode == Entity:
		s.graph.ForeachNode(func(n scene.Node) bool {
			if e, ok := n.(*scene.Entity); ok && e.Kind() != scene.Worldspawn && test.Visible(e.WorldAABB()) {
				pool.Add(e.TestSelect(test), e.Selectable())
			}
			return true
		})

	default:
		entities := selection.NewPool[selection.Selectable]()
		s.graph.ForeachNode(func(n scene.Node) bool {
			st, ok := n.(scene.SelectionTestable)
			if !ok || !selectablePrimitive(n) || !test.Visible(n.WorldAABB()) {
				return true
			}
			if _, isEntity := n.(*scene.Entity); isEntity {
				entities.Add(st.TestSelect(test), n.Selectable())
			} else {
				pool.Add(st.TestSelect(test), n.Selectable())
			}
			return true
		})
		pool.Merge(entities, s.cfg.EntityPriorityWeight)
	}
	return pool
}

func (sp *sceneSpace) SelectionBounds(components bool) geom.AABB {
	box := geom.EmptyAABB()
	if components {
		for _, n := range sp.s.ComponentNodes() {
			if c, ok := n.(scene.ComponentEditable); ok {
				box.IncludeAABB(c.ComponentBounds())
			}
		}
		return box
	}
	for _, n := range sp.s.Selected() {
		box.IncludeAABB(n.WorldAABB())
	}
	return box
}

func (sp *sceneSpace) TestSelectedHit(test *selection.SelectionTest, components bool) bool {
	if components {
		for _, n := range sp.s.ComponentNodes() {
			if c, ok := n.(scene.ComponentEditable); ok && c.TestSelectedComponents(test) {
				return true
			}
		}
		return false
	}
	for _, n := range sp.s.Selected() {
		if st, ok := n.(scene.SelectionTestable); ok && st.TestSelect(test).Valid() {
			return true
		}
	}
	return false
}

// CanEnterComponentMode needs a selected node to take components from.
func (sp *sceneSpace) CanEnterComponentMode() bool {
	return sp.s.CountSelected() > 0
}

func (sp *sceneSpace) nodes(components bool) []scene.Node {
	if components {
		return sp.s.ComponentNodes()
	}
	return sp.s.Selected()
}

func (sp *sceneSpace) BeginManipulation(components bool) {
	s := sp.s
	s.targets = s.targets[:0]
	for _, n := range sp.nodes(components) {
		t, ok := n.(scene.Transformable)
		if !ok {
			continue
		}
		if s.undo != nil {
			if u, ok := n.(undo.Undoable); ok {
				s.undo.Save(u)
			}
		}
		t.BeginTransform()
		s.targets = append(s.targets, t)
	}
}

func (sp *sceneSpace) ApplyTransformation(t selection.Transformation, components bool) {
	for _, target := range sp.s.targets {
		if c, ok := target.(scene.ComponentTransformable); ok && components {
			c.SetComponentTransformation(t)
		} else if !components {
			target.SetTransformation(t)
		}
	}
}

func (sp *sceneSpace) CommitManipulation(bool) {
	for _, t := range sp.s.targets {
		t.FreezeTransform()
	}
	sp.s.targets = sp.s.targets[:0]
}

func (sp *sceneSpace) RevertManipulation(bool) {
	for _, t := range sp.s.targets {
		t.RevertTransform()
	}
	sp.s.targets = sp.s.targets[:0]
}
