package render

import "github.com/go-gl/mathgl/mgl64"

type Primitive int

const (
	Lines Primitive = iota
	LineStrip
	LineLoop
	Points
	Quads
)

type Colour [4]float32

var (
	ColourX        = Colour{1, 0, 0, 1}
	ColourY        = Colour{0, 1, 0, 1}
	ColourZ        = Colour{0, 0, 1, 1}
	ColourScreen   = Colour{0.6, 0.6, 0.6, 1}
	ColourSphere   = Colour{0.3, 0.3, 0.3, 1}
	ColourSelected = Colour{1, 1, 0, 1}
	ColourPivot    = Colour{1, 1, 1, 1}
)

type Vertex struct {
	Position mgl64.Vec3
	Colour   Colour
}

// Batch is one drawable handle: vertices in local space plus the matrix that
// places them in world space. The renderer owns submission.
type Batch struct {
	Name      string
	Primitive Primitive
	Vertices  []Vertex
	Transform mgl64.Mat4
}

// NewBatch colours every point of pts with c.
func NewBatch(name string, prim Primitive, pts []mgl64.Vec3, c Colour, transform mgl64.Mat4) Batch {
	verts := make([]Vertex, len(pts))
	for i, p := range pts {
		verts[i] = Vertex{Position: p, Colour: c}
	}
	return Batch{Name: name, Primitive: prim, Vertices: verts, Transform: transform}
}

// Collector receives batches from anything that renders handles.
type Collector interface {
	AddBatch(b Batch)
}

// Recorder is a Collector that keeps what it was given.
type Recorder struct {
	Batches []Batch
}

func (r *Recorder) AddBatch(b Batch) {
	r.Batches = append(r.Batches, b)
}

func (r *Recorder) Reset() {
	r.Batches = r.Batches[:0]
}

// Find returns the first batch with the given name.
func (r *Recorder) Find(name string) (Batch, bool) {
	for _, b := range r.Batches {
		if b.Name == name {
			return b, true
		}
	}
	return Batch{}, false
}
