package selection

import "github.com/go-gl/mathgl/mgl64"

// Pivot is the point and orientation manipulations are computed about.
// It is recomputed lazily after SetNeedsRecalculation, so an idle editor
// never pays for it.
type Pivot struct {
	compute func() (mgl64.Vec3, bool)

	matrix mgl64.Mat4
	start  mgl64.Mat4
	valid  bool
	dirty  bool
	active bool
}

// NewPivot uses compute to find the pivot position; compute reports false
// when there is nothing to pivot about.
func NewPivot(compute func() (mgl64.Vec3, bool)) *Pivot {
	return &Pivot{
		compute: compute,
		matrix:  mgl64.Ident4(),
		start:   mgl64.Ident4(),
		dirty:   true,
	}
}

// SetNeedsRecalculation is ignored while an operation runs.
func (p *Pivot) SetNeedsRecalculation() {
	if !p.active {
		p.dirty = true
	}
}

func (p *Pivot) update() {
	if !p.dirty {
		return
	}
	p.dirty = false
	pos, ok := p.compute()
	p.valid = ok
	if ok {
		p.matrix = mgl64.Translate3D(pos.X(), pos.Y(), pos.Z())
	} else {
		p.matrix = mgl64.Ident4()
	}
}

// Valid is false when the selection is empty.
func (p *Pivot) Valid() bool {
	p.update()
	return p.valid
}

// Matrix returns pivot to world.
func (p *Pivot) Matrix() mgl64.Mat4 {
	p.update()
	return p.matrix
}

func (p *Pivot) Position() mgl64.Vec3 {
	return p.Matrix().Col(3).Vec3()
}

// SetPosition moves the pivot until the next recalculation.
func (p *Pivot) SetPosition(pos mgl64.Vec3) {
	p.update()
	p.matrix.SetCol(3, pos.Vec4(1))
}

func (p *Pivot) BeginOperation() {
	p.update()
	p.start = p.matrix
	p.active = true
}

// ApplyTranslation offsets the pivot from where the operation started.
func (p *Pivot) ApplyTranslation(t mgl64.Vec3) {
	if !p.active {
		return
	}
	p.matrix = mgl64.Translate3D(t.X(), t.Y(), t.Z()).Mul4(p.start)
}

// EndOperation keeps the current matrix, optionally scheduling a recalculation.
func (p *Pivot) EndOperation(recalculate bool) {
	p.active = false
	if recalculate {
		p.dirty = true
	}
}

func (p *Pivot) RevertToStart() {
	p.matrix = p.start
	p.active = false
}
