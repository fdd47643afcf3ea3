package scene

import (
	"github.com/gekko3d/mapedit/geom"
	"github.com/gekko3d/mapedit/selection"
	"github.com/go-gl/mathgl/mgl64"
)

// PatchControl is one control point of a patch.
type PatchControl struct {
	Vertex   mgl64.Vec3
	TexCoord mgl64.Vec2
}

type patchState struct {
	Width    int
	Height   int
	Controls []PatchControl
	Material string
}

// Patch is a curved surface given by a grid of control points. It is picked
// and drawn through its control mesh.
type Patch struct {
	nodeBase
	state    patchState
	start    *patchState
	controls []*selection.ObservedSelectable
}

// NewPatch takes width*height controls in row-major order.
func NewPatch(name string, width, height int, controls []PatchControl, material string) *Patch {
	if width < 2 || height < 2 || len(controls) != width*height {
		panic("scene: patch needs a width*height control grid of at least 2x2")
	}
	p := &Patch{state: patchState{
		Width:    width,
		Height:   height,
		Controls: append([]PatchControl(nil), controls...),
		Material: material,
	}}
	p.init(p, name)
	for range controls {
		p.controls = append(p.controls, newComponentSelectable(&p.nodeBase))
	}
	return p
}

// NewFlatPatch spans a width x height grid across a rectangle in the z=origin.Z
// plane, texture coordinates running 0..1 along x and y.
func NewFlatPatch(name string, origin mgl64.Vec3, size mgl64.Vec2, width, height int, material string) *Patch {
	controls := make([]PatchControl, 0, width*height)
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			s := float64(col) / float64(width-1)
			t := float64(row) / float64(height-1)
			controls = append(controls, PatchControl{
				Vertex:   origin.Add(mgl64.Vec3{s * size.X(), t * size.Y(), 0}),
				TexCoord: mgl64.Vec2{s, t},
			})
		}
	}
	return NewPatch(name, width, height, controls, material)
}

func (p *Patch) Width() int {
	return p.state.Width
}

func (p *Patch) Height() int {
	return p.state.Height
}

func (p *Patch) Material() string {
	return p.state.Material
}

// Controls returns a copy of the control grid.
func (p *Patch) Controls() []PatchControl {
	return append([]PatchControl(nil), p.state.Controls...)
}

func (p *Patch) SetTexCoord(i int, uv mgl64.Vec2) {
	p.state.Controls[i].TexCoord = uv
}

func (p *Patch) ControlSelectable(i int) *selection.ObservedSelectable {
	return p.controls[i]
}

func (p *Patch) WorldAABB() geom.AABB {
	box := geom.EmptyAABB()
	for _, c := range p.state.Controls {
		box.IncludePoint(c.Vertex)
	}
	return box
}

// triangles splits every cell of the control mesh in two.
func (p *Patch) triangles() []mgl64.Vec3 {
	w, h := p.state.Width, p.state.Height
	at := func(col, row int) mgl64.Vec3 {
		return p.state.Controls[row*w+col].Vertex
	}
	tris := make([]mgl64.Vec3, 0, (w-1)*(h-1)*6)
	for row := 0; row+1 < h; row++ {
		for col := 0; col+1 < w; col++ {
			a, b, c, d := at(col, row), at(col+1, row), at(col+1, row+1), at(col, row+1)
			tris = append(tris, a, b, c, a, c, d)
		}
	}
	return tris
}

func (p *Patch) TestSelect(test *selection.SelectionTest) geom.Intersection {
	test.BeginMesh(mgl64.Ident4())
	return test.TestTriangles(p.triangles(), geom.CullNone)
}

// Components

func (p *Patch) HasSelectedComponents() bool {
	return p.CountSelectedComponents() > 0
}

func (p *Patch) CountSelectedComponents() int {
	n := 0
	for _, c := range p.controls {
		if c.IsSelected() {
			n++
		}
	}
	return n
}

func (p *Patch) SetSelectedComponents(selected bool) {
	for _, c := range p.controls {
		c.SetSelected(selected)
	}
}

// TestSelectComponents offers control points in vertex mode. Patches have no
// faces to select.
func (p *Patch) TestSelectComponents(test *selection.SelectionTest, mode ComponentMode, add func(geom.Intersection, selection.Selectable)) {
	if mode != ComponentVertex {
		return
	}
	test.BeginMesh(mgl64.Ident4())
	for i, c := range p.state.Controls {
		add(test.TestPoint(c.Vertex), p.controls[i])
	}
}

func (p *Patch) TestSelectedComponents(test *selection.SelectionTest) bool {
	test.BeginMesh(mgl64.Ident4())
	for i, c := range p.state.Controls {
		if p.controls[i].IsSelected() && test.TestPoint(c.Vertex).Valid() {
			return true
		}
	}
	return false
}

func (p *Patch) ComponentBounds() geom.AABB {
	box := geom.EmptyAABB()
	for i, c := range p.state.Controls {
		if p.controls[i].IsSelected() {
			box.IncludePoint(c.Vertex)
		}
	}
	return box
}

// Transformation

func (p *Patch) BeginTransform() {
	start := deepCopy(p.state)
	p.start = &start
}

func (p *Patch) SetTransformation(t selection.Transformation) {
	if p.start == nil {
		return
	}
	for i, c := range p.start.Controls {
		p.state.Controls[i].Vertex = t.Apply(c.Vertex)
	}
	p.boundsChanged()
}

func (p *Patch) SetComponentTransformation(t selection.Transformation) {
	if p.start == nil {
		return
	}
	for i, c := range p.start.Controls {
		if p.controls[i].IsSelected() {
			p.state.Controls[i].Vertex = t.Apply(c.Vertex)
		} else {
			p.state.Controls[i].Vertex = c.Vertex
		}
	}
	p.boundsChanged()
}

func (p *Patch) RevertTransform() {
	if p.start == nil {
		return
	}
	p.state = *p.start
	p.start = nil
	p.boundsChanged()
}

func (p *Patch) FreezeTransform() {
	p.start = nil
}

// Undo

func (p *Patch) Memento() any {
	return deepCopy(p.state)
}

func (p *Patch) Restore(m any) {
	p.state = deepCopy(m.(patchState))
	p.boundsChanged()
}
