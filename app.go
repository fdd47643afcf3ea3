// Package mapedit wires the selection engine into an application: modules
// install resources and named commands, a pointer tool feeds the selection
// systems, and a status text follows the selection.
package mapedit

import (
	"errors"
	"fmt"
	"reflect"
	"runtime"

	"cogentcore.org/core/base/ordmap"
)

var ErrUnknownCommand = errors.New("unknown command")

// Module installs resources and commands into an App.
type Module interface {
	Install(app *App, cmd *Commands)
}

type commandFn any

// App owns the resources of an editing session and dispatches named
// commands. Command handlers are functions whose parameters are resolved
// when the command runs: *Commands, Args, or a pointer to a resource.
// A handler may return an error.
type App struct {
	cfg       Config
	modules   []Module
	resources map[reflect.Type]any
	commands  *ordmap.Map[string, commandFn]
}

func (app *App) Commands() *Commands {
	return &Commands{
		app: app,
	}
}

func (app *App) Config() Config {
	return app.cfg
}

func (app *App) addResources(resources ...any) *App {
	for _, resource := range resources {
		resourceType := reflect.TypeOf(resource)
		if _, ok := app.resources[resourceType.Elem()]; ok {
			panic(fmt.Sprintf("%s is already in resources", resourceType))
		}

		app.resources[resourceType.Elem()] = resource
	}
	return app
}

// Resource returns the resource of type *T.
func Resource[T any](app *App) (*T, bool) {
	r, ok := app.resources[reflect.TypeFor[T]()]
	if !ok {
		return nil, false
	}
	return r.(*T), true
}

func (app *App) registerCommand(name string, handler commandFn) {
	if reflect.TypeOf(handler).Kind() != reflect.Func {
		panic(fmt.Sprintf("command %s: handler %T is not a function", name, handler))
	}
	if _, ok := app.commands.IndexByKeyTry(name); ok {
		panic(fmt.Sprintf("command %s is already registered", name))
	}
	app.commands.Add(name, handler)
}

// CommandNames lists the registered commands in registration order.
func (app *App) CommandNames() []string {
	return app.commands.Keys()
}

// Execute runs the named command.
func (app *App) Execute(name string, args ...string) error {
	handler, ok := app.commands.ValueByKeyTry(name)
	if !ok {
		app.Logger().Warnf("command %q not found", name)
		return fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	app.Logger().Debugf("command %s %v", name, args)
	if err := app.callCommand(handler, Args(args)); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

var (
	typeOfCommands = reflect.TypeOf(Commands{})
	typeOfArgs     = reflect.TypeOf(Args(nil))
	typeOfError    = reflect.TypeOf((*error)(nil)).Elem()
)

func (app *App) callCommand(handler commandFn, cmdArgs Args) error {
	handlerType := reflect.TypeOf(handler)
	handlerValue := reflect.ValueOf(handler)

	args := make([]reflect.Value, handlerType.NumIn())

	for i := 0; i < handlerType.NumIn(); i++ {
		argType := handlerType.In(i)

		if argType == typeOfArgs {
			args[i] = reflect.ValueOf(cmdArgs)
			continue
		}
		if argType.Kind() == reflect.Pointer {
			underlyingType := argType.Elem()
			if underlyingType == typeOfCommands {
				args[i] = reflect.ValueOf(&Commands{app: app})
				continue
			}
			if resource, argIsResource := app.resources[underlyingType]; argIsResource {
				resourceVal := reflect.ValueOf(resource)
				args[i] = reflect.NewAt(underlyingType, resourceVal.UnsafePointer())
				continue
			}
		}
		msg := fmt.Sprintf("Unable to resolve command dependency.\nCommand: %s\nCommand type: %s\nDependency: %s",
			runtime.FuncForPC(handlerValue.Pointer()).Name(),
			fmt.Sprint(handlerType),
			fmt.Sprint(argType),
		)
		panic(msg)
	}

	out := handlerValue.Call(args)
	if len(out) > 0 && out[len(out)-1].Type().Implements(typeOfError) && !out[len(out)-1].IsNil() {
		return out[len(out)-1].Interface().(error)
	}
	return nil
}
