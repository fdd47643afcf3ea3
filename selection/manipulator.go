package selection

import (
	"fmt"
	"strings"

	"github.com/gekko3d/mapedit/render"
	"github.com/go-gl/mathgl/mgl64"
)

type ManipulatorType int

const (
	Translate ManipulatorType = iota
	Rotate
	Scale
	Drag
)

var manipulatorNames = map[ManipulatorType]string{
	Translate: "Translate",
	Rotate:    "Rotate",
	Scale:     "Scale",
	Drag:      "Drag",
}

func (t ManipulatorType) String() string {
	if name, ok := manipulatorNames[t]; ok {
		return name
	}
	return fmt.Sprintf("ManipulatorType(%d)", int(t))
}

// ParseManipulatorType accepts names case-insensitively.
func ParseManipulatorType(name string) (ManipulatorType, error) {
	for t, n := range manipulatorNames {
		if strings.EqualFold(n, name) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown manipulator %q", name)
}

// Constraint flags modify how a component turns pointer motion into a delta.
type Constraint int

const (
	Unconstrained Constraint = 0
	// ConstrainAxis locks translation to its dominant axis and snaps rotation.
	ConstrainAxis Constraint = 1 << iota
	// ConstrainGrid snaps translation to the grid.
	ConstrainGrid
)

func (c Constraint) Has(f Constraint) bool {
	return c&f != 0
}

// Modifier decides how a selection test changes the selection.
type Modifier int

const (
	Replace Modifier = iota
	Toggle
	Cycle
)

// ManipulatorComponent turns pointer motion into a transformation.
// BeginTransformation captures the anchor; Transform is called on every
// pointer move and computes the delta since the anchor.
type ManipulatorComponent interface {
	BeginTransformation(pivot2world mgl64.Mat4, view render.View, devicePoint mgl64.Vec2)
	Transform(pivot2world mgl64.Mat4, view render.View, devicePoint mgl64.Vec2, constraint Constraint)
}

// PivotMover is implemented by components that move the pivot instead of
// the selection.
type PivotMover interface {
	MovesPivotOnly() bool
}

// Manipulator owns a set of handles. At most one handle is selected after
// TestSelect; its component receives the transformation lifecycle.
type Manipulator interface {
	Type() ManipulatorType
	TestSelect(test *SelectionTest, pivot2world mgl64.Mat4)
	ActiveComponent() ManipulatorComponent
	IsSelected() bool
	// SetSelected(false) deselects every handle.
	SetSelected(selected bool)
	Render(c render.Collector, view render.View, pivot2world mgl64.Mat4)
}

// Target is what manipulator components write their result to.
type Target interface {
	ApplyTransformation(t Transformation)
	TranslatePivot(t mgl64.Vec3)
	// TestSelectedHit reports whether the test touches something selected.
	TestSelectedHit(test *SelectionTest) bool
}
