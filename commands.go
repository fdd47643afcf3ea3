package mapedit

import (
	"fmt"
	"strings"
)

type Commands struct {
	app *App
}

func (cmd *Commands) AddResources(resources ...any) *Commands {
	cmd.app.addResources(resources...)
	return cmd
}

// RegisterCommand adds a named command. Registering a name twice panics.
func (cmd *Commands) RegisterCommand(name string, handler any) *Commands {
	cmd.app.registerCommand(name, handler)
	return cmd
}

func (cmd *Commands) Execute(name string, args ...string) error {
	return cmd.app.Execute(name, args...)
}

// Args are the arguments a command was invoked with.
type Args []string

// Arg returns argument i, or an error naming what is missing.
func (a Args) Arg(i int, what string) (string, error) {
	if i >= len(a) || strings.TrimSpace(a[i]) == "" {
		return "", fmt.Errorf("missing argument %d (%s)", i+1, what)
	}
	return a[i], nil
}
