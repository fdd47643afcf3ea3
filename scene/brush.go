package scene

import (
	"math"

	"github.com/gekko3d/mapedit/geom"
	"github.com/gekko3d/mapedit/selection"
	"github.com/go-gl/mathgl/mgl64"
)

// DefaultTextureScale maps 64 world units onto one texture repeat.
const DefaultTextureScale = 1.0 / 64

// DefaultTexDef is the plain axis projection at DefaultTextureScale.
func DefaultTexDef() mgl64.Mat3 {
	return mgl64.Mat3{
		DefaultTextureScale, 0, 0,
		0, DefaultTextureScale, 0,
		0, 0, 1,
	}
}

type faceState struct {
	// Indices into brushState.Points, counter-clockwise seen from outside.
	Vertices []int
	// TexDef maps plane coordinates (s, t, 1) to (u, v, 1).
	TexDef   mgl64.Mat3
	Material string
}

type brushState struct {
	Points []mgl64.Vec3
	Faces  []faceState
}

// Brush is a convex solid made of textured polygon faces sharing vertices.
type Brush struct {
	nodeBase
	state    brushState
	start    *brushState
	faces    []*Face
	vertices []*selection.ObservedSelectable
}

// Face is one polygon of a brush. Its selected flag is a component of the
// brush.
type Face struct {
	brush      *Brush
	index      int
	selectable *selection.ObservedSelectable
}

// WindingVertex is a face corner with its texture coordinate.
type WindingVertex struct {
	Vertex   mgl64.Vec3
	TexCoord mgl64.Vec2
}

// cuboidFaces lists the corners of geom.AABB.Corners per face, outward
// counter-clockwise.
var cuboidFaces = [6][]int{
	{0, 3, 2, 1},
	{4, 5, 6, 7},
	{0, 1, 5, 4},
	{2, 3, 7, 6},
	{0, 4, 7, 3},
	{1, 2, 6, 5},
}

// NewCuboidBrush builds an axis aligned box brush.
func NewCuboidBrush(name string, min, max mgl64.Vec3, material string) *Brush {
	corners := geom.NewAABBFromMinMax(min, max).Corners()
	state := brushState{Points: corners[:]}
	for _, idx := range cuboidFaces {
		state.Faces = append(state.Faces, faceState{
			Vertices: append([]int(nil), idx...),
			TexDef:   DefaultTexDef(),
			Material: material,
		})
	}
	return newBrush(name, state)
}

func newBrush(name string, state brushState) *Brush {
	b := &Brush{state: state}
	b.init(b, name)
	for i := range state.Faces {
		b.faces = append(b.faces, &Face{brush: b, index: i, selectable: newComponentSelectable(&b.nodeBase)})
	}
	for range state.Points {
		b.vertices = append(b.vertices, newComponentSelectable(&b.nodeBase))
	}
	return b
}

func (b *Brush) Faces() []*Face {
	return b.faces
}

// Vertices returns the brush corners in world space.
func (b *Brush) Vertices() []mgl64.Vec3 {
	return append([]mgl64.Vec3(nil), b.state.Points...)
}

// VertexSelectable is the component flag of vertex i.
func (b *Brush) VertexSelectable(i int) *selection.ObservedSelectable {
	return b.vertices[i]
}

// Material returns the material of the first face.
func (b *Brush) Material() string {
	if len(b.state.Faces) == 0 {
		return ""
	}
	return b.state.Faces[0].Material
}

func (b *Brush) WorldAABB() geom.AABB {
	box := geom.EmptyAABB()
	for _, p := range b.state.Points {
		box.IncludePoint(p)
	}
	return box
}

func (b *Brush) TestSelect(test *selection.SelectionTest) geom.Intersection {
	test.BeginMesh(mgl64.Ident4())
	var best geom.Intersection
	for _, f := range b.faces {
		best = geom.Best(best, test.TestPolygon(f.Points(), geom.CullBack))
	}
	return best
}

// Components

func (b *Brush) HasSelectedComponents() bool {
	return b.CountSelectedComponents() > 0
}

func (b *Brush) CountSelectedComponents() int {
	n := 0
	for _, v := range b.vertices {
		if v.IsSelected() {
			n++
		}
	}
	for _, f := range b.faces {
		if f.IsSelected() {
			n++
		}
	}
	return n
}

// SetSelectedComponents(true) selects every vertex; false clears vertices
// and faces.
func (b *Brush) SetSelectedComponents(selected bool) {
	for _, v := range b.vertices {
		v.SetSelected(selected)
	}
	if !selected {
		for _, f := range b.faces {
			f.SetSelected(false)
		}
	}
}

func (b *Brush) TestSelectComponents(test *selection.SelectionTest, mode ComponentMode, add func(geom.Intersection, selection.Selectable)) {
	test.BeginMesh(mgl64.Ident4())
	switch mode {
	case ComponentVertex:
		for i, p := range b.state.Points {
			add(test.TestPoint(p), b.vertices[i])
		}
	case ComponentFace:
		for _, f := range b.faces {
			add(test.TestPolygon(f.Points(), geom.CullBack), f.selectable)
		}
	}
}

func (b *Brush) TestSelectedComponents(test *selection.SelectionTest) bool {
	test.BeginMesh(mgl64.Ident4())
	for i, p := range b.state.Points {
		if b.vertices[i].IsSelected() && test.TestPoint(p).Valid() {
			return true
		}
	}
	for _, f := range b.faces {
		if f.IsSelected() && test.TestPolygon(f.Points(), geom.CullBack).Valid() {
			return true
		}
	}
	return false
}

// selectedPoints marks the points moved by a component transformation:
// selected vertices and every corner of a selected face.
func (b *Brush) selectedPoints() []bool {
	marked := make([]bool, len(b.state.Points))
	for i, v := range b.vertices {
		marked[i] = v.IsSelected()
	}
	for i, f := range b.faces {
		if f.IsSelected() {
			for _, idx := range b.state.Faces[i].Vertices {
				marked[idx] = true
			}
		}
	}
	return marked
}

func (b *Brush) ComponentBounds() geom.AABB {
	box := geom.EmptyAABB()
	for i, m := range b.selectedPoints() {
		if m {
			box.IncludePoint(b.state.Points[i])
		}
	}
	return box
}

// Transformation

func (b *Brush) BeginTransform() {
	start := deepCopy(b.state)
	b.start = &start
}

func (b *Brush) SetTransformation(t selection.Transformation) {
	if b.start == nil {
		return
	}
	for i, p := range b.start.Points {
		b.state.Points[i] = t.Apply(p)
	}
	b.boundsChanged()
}

func (b *Brush) SetComponentTransformation(t selection.Transformation) {
	if b.start == nil {
		return
	}
	for i, m := range b.selectedPoints() {
		if m {
			b.state.Points[i] = t.Apply(b.start.Points[i])
		} else {
			b.state.Points[i] = b.start.Points[i]
		}
	}
	b.boundsChanged()
}

func (b *Brush) RevertTransform() {
	if b.start == nil {
		return
	}
	b.state = *b.start
	b.start = nil
	b.boundsChanged()
}

func (b *Brush) FreezeTransform() {
	b.start = nil
}

// Undo

func (b *Brush) Memento() any {
	return deepCopy(b.state)
}

func (b *Brush) Restore(m any) {
	b.state = deepCopy(m.(brushState))
	b.boundsChanged()
}

// Face

func (f *Face) Brush() *Brush {
	return f.brush
}

func (f *Face) Index() int {
	return f.index
}

func (f *Face) IsSelected() bool {
	return f.selectable.IsSelected()
}

func (f *Face) SetSelected(selected bool) {
	f.selectable.SetSelected(selected)
}

// Selectable is the face component flag.
func (f *Face) Selectable() *selection.ObservedSelectable {
	return f.selectable
}

func (f *Face) state() *faceState {
	return &f.brush.state.Faces[f.index]
}

func (f *Face) Material() string {
	return f.state().Material
}

func (f *Face) SetMaterial(material string) {
	f.state().Material = material
}

func (f *Face) TexDef() mgl64.Mat3 {
	return f.state().TexDef
}

func (f *Face) SetTexDef(m mgl64.Mat3) {
	f.state().TexDef = m
}

// Points returns the face corners in world space.
func (f *Face) Points() []mgl64.Vec3 {
	idx := f.state().Vertices
	pts := make([]mgl64.Vec3, len(idx))
	for i, v := range idx {
		pts[i] = f.brush.state.Points[v]
	}
	return pts
}

// Normal is the outward unit normal, by Newell's method.
func (f *Face) Normal() mgl64.Vec3 {
	pts := f.Points()
	var n mgl64.Vec3
	for i, p := range pts {
		q := pts[(i+1)%len(pts)]
		n[0] += (p.Y() - q.Y()) * (p.Z() + q.Z())
		n[1] += (p.Z() - q.Z()) * (p.X() + q.X())
		n[2] += (p.X() - q.X()) * (p.Y() + q.Y())
	}
	if n.Len() == 0 {
		return mgl64.Vec3{0, 0, 1}
	}
	return n.Normalize()
}

// PlaneCoordinates projects p onto the axis plane closest to the face, the
// space the texture definition works in.
func (f *Face) PlaneCoordinates(p mgl64.Vec3) mgl64.Vec2 {
	n := f.Normal()
	ax, ay, az := math.Abs(n.X()), math.Abs(n.Y()), math.Abs(n.Z())
	switch {
	case az >= ax && az >= ay:
		return mgl64.Vec2{p.X(), -p.Y()}
	case ax >= ay:
		return mgl64.Vec2{p.Y(), -p.Z()}
	default:
		return mgl64.Vec2{p.X(), -p.Z()}
	}
}

// TexCoord maps plane coordinates through the texture definition.
func (f *Face) TexCoord(st mgl64.Vec2) mgl64.Vec2 {
	return f.TexDef().Mul3x1(mgl64.Vec3{st.X(), st.Y(), 1}).Vec2()
}

// Winding returns the corners with their texture coordinates.
func (f *Face) Winding() []WindingVertex {
	pts := f.Points()
	w := make([]WindingVertex, len(pts))
	for i, p := range pts {
		w[i] = WindingVertex{Vertex: p, TexCoord: f.TexCoord(f.PlaneCoordinates(p))}
	}
	return w
}
