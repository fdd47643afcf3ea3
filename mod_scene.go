package mapedit

import (
	"github.com/gekko3d/mapedit/scene"
)

// SceneModule installs an empty scene graph.
type SceneModule struct{}

func (m SceneModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(scene.NewGraph())
}
