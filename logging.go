package mapedit

import (
	"github.com/gekko3d/mapedit/logging"
)

// LoggingModule installs a default logger as a resource.
type LoggingModule struct {
	Prefix string
	Debug  bool
}

func (m LoggingModule) Install(app *App, cmd *Commands) {
	logger := logging.NewDefaultLogger(m.Prefix, m.Debug)
	cmd.AddResources(logger)
}

// Logger returns the first Logger resource if present, otherwise a no-op logger.
// Safe to call at any time; never returns nil.
func (app *App) Logger() logging.Logger {
	if app == nil {
		return logging.NewNopLogger()
	}
	if app.resources != nil {
		for _, r := range app.resources {
			if l, ok := r.(logging.Logger); ok {
				return l
			}
		}
	}
	return logging.NewNopLogger()
}
