// Package textool is the texture tool: the faces and patches of the scene
// selection laid out in texture space, with its own selection machine.
package textool

import (
	"github.com/gekko3d/mapedit/geom"
	"github.com/gekko3d/mapedit/render"
	"github.com/gekko3d/mapedit/selection"
	"github.com/gekko3d/mapedit/undo"
	"github.com/go-gl/mathgl/mgl64"
)

// Node is a face or patch in texture space. Its vertices are the texture
// coordinates of its corners, placed at z=0.
type Node interface {
	selection.ComponentSelectable

	Selectable() *selection.ObservedSelectable
	Material() string
	TexCoords() []mgl64.Vec2
	VertexSelectable(i int) *selection.ObservedSelectable
	CountSelectedVertices() int

	Bounds() geom.AABB
	SelectedVertexBounds() geom.AABB
	TestSelect(test *selection.SelectionTest) geom.Intersection
	TestSelectVertices(test *selection.SelectionTest, add func(geom.Intersection, selection.Selectable))
	TestSelectedVertices(test *selection.SelectionTest) bool

	// Owner is the scene node whose state the texture coordinates live in.
	Owner() undo.Undoable
	BeginTransformation()
	// Transform applies t to the start state, to the selected vertices only
	// when vertices is set.
	Transform(t selection.Transformation, vertices bool)
	RevertTransformation()
	CommitTransformation()

	Render(c render.Collector)

	base() *nodeBase
}

type nodeBase struct {
	self       Node
	graph      *SceneGraph
	selectable *selection.ObservedSelectable
	vertices   []*selection.ObservedSelectable
}

func (b *nodeBase) init(self Node, graph *SceneGraph, vertexCount int) {
	b.self = self
	b.graph = graph
	b.selectable = selection.NewObservedSelectable(func(s selection.Selectable) {
		if b.graph != nil {
			b.graph.selectionChanged(b.self, s)
		}
	})
	b.vertices = make([]*selection.ObservedSelectable, vertexCount)
	for i := range b.vertices {
		b.vertices[i] = selection.NewObservedSelectable(func(s selection.Selectable) {
			if b.graph != nil {
				b.graph.componentsChanged(b.self, s)
			}
		})
	}
}

func (b *nodeBase) base() *nodeBase {
	return b
}

// detach silences a node that left the graph.
func (b *nodeBase) detach() {
	b.graph = nil
}

func (b *nodeBase) Selectable() *selection.ObservedSelectable {
	return b.selectable
}

func (b *nodeBase) VertexSelectable(i int) *selection.ObservedSelectable {
	return b.vertices[i]
}

func (b *nodeBase) HasSelectedComponents() bool {
	return b.CountSelectedVertices() > 0
}

func (b *nodeBase) SetSelectedComponents(selected bool) {
	for _, v := range b.vertices {
		v.SetSelected(selected)
	}
}

func (b *nodeBase) CountSelectedVertices() int {
	n := 0
	for _, v := range b.vertices {
		if v.IsSelected() {
			n++
		}
	}
	return n
}

func (b *nodeBase) selectedVertices() []int {
	var idx []int
	for i, v := range b.vertices {
		if v.IsSelected() {
			idx = append(idx, i)
		}
	}
	return idx
}

func (b *nodeBase) Bounds() geom.AABB {
	box := geom.EmptyAABB()
	for _, uv := range b.self.TexCoords() {
		box.IncludePoint(uvPoint(uv))
	}
	return box
}

func (b *nodeBase) SelectedVertexBounds() geom.AABB {
	box := geom.EmptyAABB()
	for i, uv := range b.self.TexCoords() {
		if b.vertices[i].IsSelected() {
			box.IncludePoint(uvPoint(uv))
		}
	}
	return box
}

func (b *nodeBase) TestSelectVertices(test *selection.SelectionTest, add func(geom.Intersection, selection.Selectable)) {
	test.BeginMesh(mgl64.Ident4())
	for i, uv := range b.self.TexCoords() {
		add(test.TestPoint(uvPoint(uv)), b.vertices[i])
	}
}

func (b *nodeBase) TestSelectedVertices(test *selection.SelectionTest) bool {
	test.BeginMesh(mgl64.Ident4())
	for i, uv := range b.self.TexCoords() {
		if b.vertices[i].IsSelected() && test.TestPoint(uvPoint(uv)).Valid() {
			return true
		}
	}
	return false
}

// renderVertices draws every corner, selected ones highlighted.
func (b *nodeBase) renderVertices(c render.Collector, name string) {
	uvs := b.self.TexCoords()
	verts := make([]render.Vertex, len(uvs))
	for i, uv := range uvs {
		colour := render.ColourScreen
		if b.vertices[i].IsSelected() {
			colour = render.ColourSelected
		}
		verts[i] = render.Vertex{Position: uvPoint(uv), Colour: colour}
	}
	c.AddBatch(render.Batch{Name: name, Primitive: render.Points, Vertices: verts, Transform: mgl64.Ident4()})
}

func (b *nodeBase) surfaceColour() render.Colour {
	if b.selectable.IsSelected() {
		return render.ColourSelected
	}
	return render.ColourScreen
}

func uvPoint(uv mgl64.Vec2) mgl64.Vec3 {
	return mgl64.Vec3{uv.X(), uv.Y(), 0}
}

func uvPoints(uvs []mgl64.Vec2) []mgl64.Vec3 {
	pts := make([]mgl64.Vec3, len(uvs))
	for i, uv := range uvs {
		pts[i] = uvPoint(uv)
	}
	return pts
}

// uvAffine is the texture space part of t as a homogeneous 2D matrix.
func uvAffine(t selection.Transformation) mgl64.Mat3 {
	m := t.Matrix()
	return mgl64.Mat3{
		m.At(0, 0), m.At(1, 0), 0,
		m.At(0, 1), m.At(1, 1), 0,
		m.At(0, 3), m.At(1, 3), 1,
	}
}

func applyAffine(a mgl64.Mat3, uv mgl64.Vec2) mgl64.Vec2 {
	return a.Mul3x1(mgl64.Vec3{uv.X(), uv.Y(), 1}).Vec2()
}
