package scene

import (
	"cogentcore.org/core/base/ordmap"
	"github.com/gekko3d/mapedit/geom"
	"github.com/gekko3d/mapedit/selection"
	"github.com/google/uuid"
)

// DefaultGridCellSize suits brushes of a few dozen units.
const DefaultGridCellSize = 128

// Observer hears about selection changes of nodes in the graph.
type Observer interface {
	NodeSelectionChanged(n Node, s selection.Selectable)
	NodeComponentsChanged(n Node, s selection.Selectable)
	NodeRemoved(n Node)
}

// Graph owns the nodes of a map. Loose primitives belong to the worldspawn
// entity.
type Graph struct {
	nodes      *ordmap.Map[uuid.UUID, Node]
	worldspawn *Entity
	grid       *SpatialGrid
	gridDirty  bool
	observers  []Observer
}

func NewGraph() *Graph {
	g := &Graph{
		nodes: ordmap.New[uuid.UUID, Node](),
		grid:  NewSpatialGrid(DefaultGridCellSize),
	}
	g.worldspawn = newWorldspawn()
	g.add(g.worldspawn)
	return g
}

func (g *Graph) Worldspawn() *Entity {
	return g.worldspawn
}

func (g *Graph) Observe(o Observer) {
	g.observers = append(g.observers, o)
}

func (g *Graph) add(n Node) {
	n.base().graph = g
	g.nodes.Add(n.ID(), n)
	g.gridDirty = true
}

// Insert adds a node. Primitives go under parent, or under worldspawn when
// parent is nil. Entities ignore parent.
func (g *Graph) Insert(n Node, parent *Entity) {
	if _, ok := n.(*Entity); !ok {
		if parent == nil {
			parent = g.worldspawn
		}
		n.base().parent = parent
		parent.children = append(parent.children, n)
	}
	g.add(n)
}

// Remove drops a node, and the primitives of an entity with it.
func (g *Graph) Remove(n Node) {
	if n == Node(g.worldspawn) {
		return
	}
	if e, ok := n.(*Entity); ok {
		for _, c := range e.children {
			g.remove(c)
		}
		e.children = nil
	}
	if p := n.Parent(); p != nil {
		for i, c := range p.children {
			if c == n {
				p.children = append(p.children[:i], p.children[i+1:]...)
				break
			}
		}
		n.base().parent = nil
	}
	g.remove(n)
}

func (g *Graph) remove(n Node) {
	if !g.nodes.DeleteKey(n.ID()) {
		return
	}
	g.gridDirty = true
	for _, o := range g.observers {
		o.NodeRemoved(n)
	}
	n.base().graph = nil
}

func (g *Graph) Node(id uuid.UUID) (Node, bool) {
	return g.nodes.ValueByKeyTry(id)
}

func (g *Graph) Len() int {
	return g.nodes.Len()
}

// ForeachNode visits nodes in insertion order until fn returns false.
func (g *Graph) ForeachNode(fn func(Node) bool) {
	for _, n := range g.nodes.Values() {
		if !fn(n) {
			return
		}
	}
}

// ForeachNodeMatching visits the nodes accepted by match.
func (g *Graph) ForeachNodeMatching(match func(Node) bool, fn func(Node) bool) {
	g.ForeachNode(func(n Node) bool {
		if !match(n) {
			return true
		}
		return fn(n)
	})
}

// QueryAABB returns nodes whose bounds intersect box, in insertion order.
func (g *Graph) QueryAABB(box geom.AABB) []Node {
	if g.gridDirty {
		g.rebuildGrid()
	}
	ids := g.grid.QueryAABB(box)
	hits := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		hits[id] = struct{}{}
	}
	var out []Node
	g.ForeachNode(func(n Node) bool {
		if _, ok := hits[n.ID()]; ok && n.WorldAABB().Intersects(box) {
			out = append(out, n)
		}
		return true
	})
	return out
}

func (g *Graph) rebuildGrid() {
	g.grid.Clear()
	g.ForeachNode(func(n Node) bool {
		if n != Node(g.worldspawn) {
			g.grid.Insert(n.ID(), n.WorldAABB())
		}
		return true
	})
	g.gridDirty = false
}

func (g *Graph) selectionChanged(n Node, s selection.Selectable) {
	for _, o := range g.observers {
		o.NodeSelectionChanged(n, s)
	}
}

func (g *Graph) componentsChanged(n Node, s selection.Selectable) {
	for _, o := range g.observers {
		o.NodeComponentsChanged(n, s)
	}
}
