package mapedit

import (
	"reflect"

	"cogentcore.org/core/base/ordmap"
)

type AppBuilder struct {
	app     *App
	modules []Module
}

func NewAppBuilder() *AppBuilder {
	return &AppBuilder{app: &App{
		cfg:       DefaultConfig(),
		resources: make(map[reflect.Type]any),
		commands:  ordmap.New[string, commandFn](),
	}}
}

// UseConfig replaces the default configuration handed to every module.
func (b *AppBuilder) UseConfig(cfg Config) *AppBuilder {
	b.app.cfg = cfg

	return b
}

func (b *AppBuilder) UseModule(modules ...Module) *AppBuilder {
	b.modules = append(b.modules, modules...)

	return b
}

// Build installs the modules in the order they were added.
func (b *AppBuilder) Build() *App {
	app := b.app
	commands := &Commands{app: app}

	for _, module := range b.modules {
		module.Install(app, commands)
	}
	app.modules = append(app.modules, b.modules...)

	return app
}

// DefaultModules is the full editor: logging, undo, scene, selection and
// the texture tool.
func DefaultModules(cfg Config) []Module {
	return []Module{
		LoggingModule{Prefix: cfg.Log.Prefix, Debug: cfg.Log.Debug},
		UndoModule{},
		SceneModule{},
		SelectionModule{},
		TextureToolModule{},
	}
}
