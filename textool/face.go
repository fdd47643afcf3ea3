package textool

import (
	"math"
	"slices"

	"github.com/gekko3d/mapedit/geom"
	"github.com/gekko3d/mapedit/render"
	"github.com/gekko3d/mapedit/scene"
	"github.com/gekko3d/mapedit/selection"
	"github.com/gekko3d/mapedit/undo"
	"github.com/go-gl/mathgl/mgl64"
)

// minAnchorDeterminant rejects anchor triangles too thin to solve for.
const minAnchorDeterminant = 1e-9

// FaceNode is a brush face in texture space. Its texture coordinates follow
// from the face's texture definition, so moving a subset of vertices means
// solving for a new definition that keeps some others in place.
type FaceNode struct {
	nodeBase
	face  *scene.Face
	start *faceStart
}

type faceStart struct {
	texDef mgl64.Mat3
	st     []mgl64.Vec2
	uvs    []mgl64.Vec2
}

func newFaceNode(face *scene.Face, graph *SceneGraph) *FaceNode {
	n := &FaceNode{face: face}
	n.init(n, graph, len(face.Points()))
	return n
}

func (n *FaceNode) Face() *scene.Face {
	return n.face
}

func (n *FaceNode) Material() string {
	return n.face.Material()
}

func (n *FaceNode) TexCoords() []mgl64.Vec2 {
	w := n.face.Winding()
	uvs := make([]mgl64.Vec2, len(w))
	for i, v := range w {
		uvs[i] = v.TexCoord
	}
	return uvs
}

func (n *FaceNode) TestSelect(test *selection.SelectionTest) geom.Intersection {
	test.BeginMesh(mgl64.Ident4())
	return test.TestPolygon(uvPoints(n.TexCoords()), geom.CullNone)
}

func (n *FaceNode) Owner() undo.Undoable {
	return n.face.Brush()
}

func (n *FaceNode) BeginTransformation() {
	pts := n.face.Points()
	st := make([]mgl64.Vec2, len(pts))
	for i, p := range pts {
		st[i] = n.face.PlaneCoordinates(p)
	}
	n.start = &faceStart{texDef: n.face.TexDef(), st: st, uvs: n.TexCoords()}
}

func (n *FaceNode) Transform(t selection.Transformation, vertices bool) {
	if n.start == nil {
		return
	}
	a := uvAffine(t)
	uniform := a.Mul3(n.start.texDef)
	if !vertices {
		n.face.SetTexDef(uniform)
		return
	}

	dragged := n.selectedVertices()
	var fixed []int
	switch len(dragged) {
	case 0:
		n.face.SetTexDef(n.start.texDef)
		return
	case 1:
		d := n.start.uvs[dragged[0]]
		f1 := farthestVertex(n.start.uvs, d, dragged)
		if f1 < 0 {
			break
		}
		mid := d.Add(n.start.uvs[f1]).Mul(0.5)
		f2 := farthestVertex(n.start.uvs, mid, []int{dragged[0], f1})
		if f2 >= 0 {
			fixed = []int{f1, f2}
		}
	case 2:
		mid := n.start.uvs[dragged[0]].Add(n.start.uvs[dragged[1]]).Mul(0.5)
		if f := farthestVertex(n.start.uvs, mid, dragged); f >= 0 {
			fixed = []int{f}
		}
	}
	if fixed == nil {
		n.face.SetTexDef(uniform)
		return
	}

	// Dragged corners follow a, the anchors keep their coordinates.
	var idx [3]int
	var target [3]mgl64.Vec2
	k := 0
	for _, i := range dragged {
		idx[k], target[k] = i, applyAffine(a, n.start.uvs[i])
		k++
	}
	for _, i := range fixed {
		idx[k], target[k] = i, n.start.uvs[i]
		k++
	}
	texDef, ok := n.solve(idx, target)
	if !ok {
		texDef = uniform
	}
	n.face.SetTexDef(texDef)
}

// solve finds the texture definition that maps the plane coordinates of the
// three corners idx onto target.
func (n *FaceNode) solve(idx [3]int, target [3]mgl64.Vec2) (mgl64.Mat3, bool) {
	st := n.start.st
	p := mgl64.Mat3FromCols(
		mgl64.Vec3{st[idx[0]].X(), st[idx[0]].Y(), 1},
		mgl64.Vec3{st[idx[1]].X(), st[idx[1]].Y(), 1},
		mgl64.Vec3{st[idx[2]].X(), st[idx[2]].Y(), 1},
	)
	if math.Abs(p.Det()) < minAnchorDeterminant {
		return mgl64.Mat3{}, false
	}
	t := mgl64.Mat3FromCols(
		mgl64.Vec3{target[0].X(), target[0].Y(), 1},
		mgl64.Vec3{target[1].X(), target[1].Y(), 1},
		mgl64.Vec3{target[2].X(), target[2].Y(), 1},
	)
	return t.Mul3(p.Inv()), true
}

func (n *FaceNode) RevertTransformation() {
	if n.start == nil {
		return
	}
	n.face.SetTexDef(n.start.texDef)
	n.start = nil
}

func (n *FaceNode) CommitTransformation() {
	n.start = nil
}

func (n *FaceNode) Render(c render.Collector) {
	c.AddBatch(render.NewBatch("face", render.LineLoop, uvPoints(n.TexCoords()), n.surfaceColour(), mgl64.Ident4()))
	n.renderVertices(c, "face vertices")
}

// farthestVertex returns the index in uvs farthest from p, skipping
// exclude, or -1 when nothing is left. Ties keep the lower index.
func farthestVertex(uvs []mgl64.Vec2, p mgl64.Vec2, exclude []int) int {
	best, bestDist := -1, -1.0
	for i, uv := range uvs {
		if slices.Contains(exclude, i) {
			continue
		}
		if d := uv.Sub(p).LenSqr(); d > bestDist {
			best, bestDist = i, d
		}
	}
	return best
}
