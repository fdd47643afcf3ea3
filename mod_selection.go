package mapedit

import (
	"fmt"

	"github.com/gekko3d/mapedit/editor"
	"github.com/gekko3d/mapedit/scene"
	"github.com/gekko3d/mapedit/selection"
	"github.com/gekko3d/mapedit/textool"
	"github.com/gekko3d/mapedit/undo"
	"github.com/go-gl/mathgl/mgl64"
)

// SelectionModule installs the scene selection system, its pointer tool and
// the status text, together with the selection commands. It needs the
// undo and scene modules.
type SelectionModule struct{}

// ScenePointer drives the scene selection from the 3D views.
type ScenePointer struct {
	*PointerTool
}

func (m SelectionModule) Install(app *App, cmd *Commands) {
	cfg := app.Config()
	graph := mustResource[scene.Graph](app, "SceneModule")
	u := mustResource[undo.System](app, "UndoModule")

	sel := editor.NewSelectionSystem(graph, cfg.EditorConfig(), u, app.Logger())
	u.OnRestored(func(string) { sel.Invalidate() })

	eps := mgl64.Vec2{cfg.Selection.PointEpsilon, cfg.Selection.PointEpsilon}
	cmd.AddResources(
		sel,
		&ScenePointer{NewPointerTool(sel, eps, app.Logger())},
		NewStatusText(sel),
	)

	cmd.RegisterCommand("UnSelectSelection", unselectSelection)
	cmd.RegisterCommand("DeselectComponents", func(s *editor.SelectionSystem) {
		s.DeselectComponents()
	})
	cmd.RegisterCommand("ToggleManipulatorMode", toggleManipulatorMode)
	cmd.RegisterCommand("ToggleComponentMode", toggleComponentMode)
	cmd.RegisterCommand("ToggleEntityMode", func(s *editor.SelectionSystem) {
		s.ToggleEntityMode()
	})
	cmd.RegisterCommand("SelectTouching", func(s *editor.SelectionSystem) {
		s.SelectTouching()
	})
	cmd.RegisterCommand("SelectInside", func(s *editor.SelectionSystem) {
		s.SelectInside()
	})
}

// unselectSelection clears one layer: the texture tool first, then the
// scene.
func unselectSelection(s *editor.SelectionSystem, cmd *Commands) {
	if tool, ok := Resource[textool.SelectionSystem](cmd.app); ok && tool.ClearLayer() {
		return
	}
	s.ClearLayer()
}

func toggleManipulatorMode(s *editor.SelectionSystem, args Args) error {
	name, err := args.Arg(0, "manipulator")
	if err != nil {
		return err
	}
	t, err := selection.ParseManipulatorType(name)
	if err != nil {
		return err
	}
	return s.ToggleManipulator(t)
}

func toggleComponentMode(s *editor.SelectionSystem, args Args) error {
	name, err := args.Arg(0, "component mode")
	if err != nil {
		return err
	}
	cm, err := editor.ParseComponentMode(name)
	if err != nil {
		return err
	}
	s.ToggleComponentMode(cm)
	return nil
}

func mustResource[T any](app *App, module string) *T {
	r, ok := Resource[T](app)
	if !ok {
		var zero T
		panic(fmt.Sprintf("%T needs %s to be installed first", zero, module))
	}
	return r
}
