package selection

import "github.com/go-gl/mathgl/mgl64"

// Transformation is an edit relative to the state at the start of a
// manipulation, applied about Pivot.
type Transformation struct {
	Translation mgl64.Vec3
	Rotation    mgl64.Quat
	Scale       mgl64.Vec3
	Pivot       mgl64.Vec3
}

func IdentityTransformation(pivot mgl64.Vec3) Transformation {
	return Transformation{
		Rotation: mgl64.QuatIdent(),
		Scale:    mgl64.Vec3{1, 1, 1},
		Pivot:    pivot,
	}
}

func Translation(t, pivot mgl64.Vec3) Transformation {
	tr := IdentityTransformation(pivot)
	tr.Translation = t
	return tr
}

func Rotation(q mgl64.Quat, pivot mgl64.Vec3) Transformation {
	tr := IdentityTransformation(pivot)
	tr.Rotation = q
	return tr
}

func Scaling(s, pivot mgl64.Vec3) Transformation {
	tr := IdentityTransformation(pivot)
	tr.Scale = s
	return tr
}

// Matrix returns T(pivot) * T(translation) * R * S * T(-pivot).
func (t Transformation) Matrix() mgl64.Mat4 {
	p := t.Pivot
	return mgl64.Translate3D(p.X()+t.Translation.X(), p.Y()+t.Translation.Y(), p.Z()+t.Translation.Z()).
		Mul4(t.Rotation.Normalize().Mat4()).
		Mul4(mgl64.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z())).
		Mul4(mgl64.Translate3D(-p.X(), -p.Y(), -p.Z()))
}

func (t Transformation) Apply(p mgl64.Vec3) mgl64.Vec3 {
	return mgl64.TransformCoordinate(p, t.Matrix())
}

func (t Transformation) IsIdentity() bool {
	return t.Translation == (mgl64.Vec3{}) &&
		t.Scale == (mgl64.Vec3{1, 1, 1}) &&
		t.Rotation.ApproxEqual(mgl64.QuatIdent())
}
