package textool

import (
	"slices"

	"github.com/gekko3d/mapedit/editor"
	"github.com/gekko3d/mapedit/geom"
	"github.com/gekko3d/mapedit/logging"
	"github.com/gekko3d/mapedit/scene"
	"github.com/gekko3d/mapedit/selection"
)

// Observer hears about selection changes of texture tool nodes and about
// nodes dropped by a rebuild.
type Observer interface {
	NodeSelectionChanged(n Node, s selection.Selectable)
	NodeComponentsChanged(n Node, s selection.Selectable)
	NodesRemoved(nodes []Node)
}

// surface is a face or patch of the scene.
type surface interface {
	Material() string
}

// SceneGraph holds the texture tool nodes. It follows the scene selection:
// faces of selected brushes, selected patches and selected faces appear,
// provided they all share one material.
type SceneGraph struct {
	source *editor.SelectionSystem
	log    logging.Logger

	surfaces  []surface
	nodes     []Node
	material  string
	updating  bool
	observers []Observer
}

func NewSceneGraph(source *editor.SelectionSystem, log logging.Logger) *SceneGraph {
	g := &SceneGraph{source: source, log: logging.OrNop(log).Named("textool")}
	source.SelectionChanged.Connect(func(selection.Selectable) { g.Rebuild() })
	g.Rebuild()
	return g
}

func (g *SceneGraph) Observe(o Observer) {
	g.observers = append(g.observers, o)
}

// ActiveMaterial is the material shared by every node, or empty.
func (g *SceneGraph) ActiveMaterial() string {
	return g.material
}

func (g *SceneGraph) Len() int {
	return len(g.nodes)
}

func (g *SceneGraph) Nodes() []Node {
	return slices.Clone(g.nodes)
}

// ForeachNode stops when fn returns false.
func (g *SceneGraph) ForeachNode(fn func(Node) bool) {
	for _, n := range g.nodes {
		if !fn(n) {
			return
		}
	}
}

// Bounds encloses every node in texture space.
func (g *SceneGraph) Bounds() geom.AABB {
	box := geom.EmptyAABB()
	for _, n := range g.nodes {
		box.IncludeAABB(n.Bounds())
	}
	return box
}

// Rebuild recollects the nodes from the scene selection. Nodes survive when
// the surfaces did not change. Calls made while a rebuild runs are ignored.
func (g *SceneGraph) Rebuild() {
	if g.updating {
		return
	}
	g.updating = true
	defer func() { g.updating = false }()

	surfaces := g.collect()
	material := ""
	for i, s := range surfaces {
		if i == 0 {
			material = s.Material()
		} else if s.Material() != material {
			g.log.Debugf("selection mixes materials")
			surfaces, material = nil, ""
			break
		}
	}
	if slices.Equal(surfaces, g.surfaces) {
		return
	}

	removed := g.nodes
	g.surfaces = surfaces
	g.material = material
	g.nodes = make([]Node, 0, len(surfaces))
	for _, s := range surfaces {
		switch v := s.(type) {
		case *scene.Face:
			g.nodes = append(g.nodes, newFaceNode(v, g))
		case *scene.Patch:
			g.nodes = append(g.nodes, newPatchNode(v, g))
		}
	}
	for _, n := range removed {
		n.base().detach()
	}
	g.log.Debugf("%d nodes, material %q", len(g.nodes), material)
	if len(removed) > 0 {
		for _, o := range g.observers {
			o.NodesRemoved(removed)
		}
	}
}

func (g *SceneGraph) collect() []surface {
	var out []surface
	seen := make(map[surface]bool)
	add := func(s surface) {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	var visit func(n scene.Node)
	visit = func(n scene.Node) {
		switch v := n.(type) {
		case *scene.Brush:
			for _, f := range v.Faces() {
				add(f)
			}
		case *scene.Patch:
			add(v)
		case *scene.Entity:
			for _, c := range v.Children() {
				visit(c)
			}
		}
	}
	for _, n := range g.source.Selected() {
		visit(n)
	}
	for _, n := range g.source.ComponentNodes() {
		if b, ok := n.(*scene.Brush); ok {
			for _, f := range b.Faces() {
				if f.IsSelected() {
					add(f)
				}
			}
		}
	}
	return out
}

func (g *SceneGraph) selectionChanged(n Node, s selection.Selectable) {
	for _, o := range g.observers {
		o.NodeSelectionChanged(n, s)
	}
}

func (g *SceneGraph) componentsChanged(n Node, s selection.Selectable) {
	for _, o := range g.observers {
		o.NodeComponentsChanged(n, s)
	}
}
