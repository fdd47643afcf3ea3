package mapedit

import (
	"github.com/gekko3d/mapedit/undo"
)

// UndoModule installs the undo system and the Undo and Redo commands.
type UndoModule struct{}

func (m UndoModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(undo.NewSystem(app.Config().Undo.MaxDepth, app.Logger()))
	cmd.RegisterCommand("Undo", undoCommand)
	cmd.RegisterCommand("Redo", redoCommand)
}

func undoCommand(u *undo.System, cmd *Commands) {
	if !u.Undo() {
		cmd.app.Logger().Infof("nothing to undo")
	}
}

func redoCommand(u *undo.System, cmd *Commands) {
	if !u.Redo() {
		cmd.app.Logger().Infof("nothing to redo")
	}
}
