package mapedit

import (
	"github.com/gekko3d/mapedit/editor"
	"github.com/gekko3d/mapedit/selection"
	"github.com/gekko3d/mapedit/textool"
	"github.com/gekko3d/mapedit/undo"
	"github.com/go-gl/mathgl/mgl64"
)

// TextureToolModule installs the texture tool on top of the scene
// selection. It needs the selection module.
type TextureToolModule struct{}

// TexToolPointer drives the texture tool selection from its view.
type TexToolPointer struct {
	*PointerTool
}

func (m TextureToolModule) Install(app *App, cmd *Commands) {
	cfg := app.Config()
	sel := mustResource[editor.SelectionSystem](app, "SelectionModule")
	u := mustResource[undo.System](app, "UndoModule")

	graph := textool.NewSceneGraph(sel, app.Logger())
	tool := textool.NewSelectionSystem(graph, cfg.TexToolConfig(), u, app.Logger())
	u.OnRestored(func(string) { tool.Invalidate() })

	eps := mgl64.Vec2{cfg.Selection.PointEpsilon, cfg.Selection.PointEpsilon}
	cmd.AddResources(graph, tool, &TexToolPointer{NewPointerTool(tool, eps, app.Logger())})
	if status, ok := Resource[StatusText](app); ok {
		status.AttachTextureTool(tool)
	}

	cmd.RegisterCommand("ToggleTextureToolManipulatorMode", toggleTextureToolManipulatorMode)
	cmd.RegisterCommand("ToggleTextureToolSelectionMode", toggleTextureToolSelectionMode)
}

func toggleTextureToolManipulatorMode(tool *textool.SelectionSystem, args Args) error {
	name, err := args.Arg(0, "manipulator")
	if err != nil {
		return err
	}
	t, err := selection.ParseManipulatorType(name)
	if err != nil {
		return err
	}
	return tool.ToggleManipulator(t)
}

func toggleTextureToolSelectionMode(tool *textool.SelectionSystem, args Args) error {
	name, err := args.Arg(0, "selection mode")
	if err != nil {
		return err
	}
	mode, err := textool.ParseSelectionMode(name)
	if err != nil {
		return err
	}
	tool.ToggleSelectionMode(mode)
	return nil
}
