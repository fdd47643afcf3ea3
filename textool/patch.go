package textool

import (
	"github.com/gekko3d/mapedit/geom"
	"github.com/gekko3d/mapedit/render"
	"github.com/gekko3d/mapedit/scene"
	"github.com/gekko3d/mapedit/selection"
	"github.com/gekko3d/mapedit/undo"
	"github.com/go-gl/mathgl/mgl64"
)

// PatchNode is a patch control grid in texture space. Every control point
// keeps its own texture coordinate.
type PatchNode struct {
	nodeBase
	patch *scene.Patch
	start []mgl64.Vec2
}

func newPatchNode(patch *scene.Patch, graph *SceneGraph) *PatchNode {
	n := &PatchNode{patch: patch}
	n.init(n, graph, patch.Width()*patch.Height())
	return n
}

func (n *PatchNode) Patch() *scene.Patch {
	return n.patch
}

func (n *PatchNode) Material() string {
	return n.patch.Material()
}

func (n *PatchNode) TexCoords() []mgl64.Vec2 {
	controls := n.patch.Controls()
	uvs := make([]mgl64.Vec2, len(controls))
	for i, c := range controls {
		uvs[i] = c.TexCoord
	}
	return uvs
}

// triangles splits every cell of the texture space grid in two.
func (n *PatchNode) triangles() []mgl64.Vec3 {
	uvs := n.TexCoords()
	w, h := n.patch.Width(), n.patch.Height()
	tris := make([]mgl64.Vec3, 0, (w-1)*(h-1)*6)
	for row := 0; row+1 < h; row++ {
		for col := 0; col+1 < w; col++ {
			a := uvPoint(uvs[row*w+col])
			b := uvPoint(uvs[row*w+col+1])
			c := uvPoint(uvs[(row+1)*w+col+1])
			d := uvPoint(uvs[(row+1)*w+col])
			tris = append(tris, a, b, c, a, c, d)
		}
	}
	return tris
}

func (n *PatchNode) TestSelect(test *selection.SelectionTest) geom.Intersection {
	test.BeginMesh(mgl64.Ident4())
	return test.TestTriangles(n.triangles(), geom.CullNone)
}

func (n *PatchNode) Owner() undo.Undoable {
	return n.patch
}

func (n *PatchNode) BeginTransformation() {
	n.start = n.TexCoords()
}

func (n *PatchNode) Transform(t selection.Transformation, vertices bool) {
	if n.start == nil {
		return
	}
	a := uvAffine(t)
	for i, uv := range n.start {
		if !vertices || n.vertices[i].IsSelected() {
			uv = applyAffine(a, uv)
		}
		n.patch.SetTexCoord(i, uv)
	}
}

func (n *PatchNode) RevertTransformation() {
	for i, uv := range n.start {
		n.patch.SetTexCoord(i, uv)
	}
	n.start = nil
}

func (n *PatchNode) CommitTransformation() {
	n.start = nil
}

// Render draws the grid lines of the control mesh.
func (n *PatchNode) Render(c render.Collector) {
	uvs := n.TexCoords()
	w, h := n.patch.Width(), n.patch.Height()
	var lines []mgl64.Vec3
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			p := uvPoint(uvs[row*w+col])
			if col+1 < w {
				lines = append(lines, p, uvPoint(uvs[row*w+col+1]))
			}
			if row+1 < h {
				lines = append(lines, p, uvPoint(uvs[(row+1)*w+col]))
			}
		}
	}
	c.AddBatch(render.NewBatch("patch", render.Lines, lines, n.surfaceColour(), mgl64.Ident4()))
	n.renderVertices(c, "patch vertices")
}
