package app

import "go.trai.ch/rebuild/internal/core/ports"

// Components holds the application and the pieces the CLI needs before the App runs.
type Components struct {
	App    *App
	Logger ports.Logger
}

// NewComponents creates a new Components struct from dependencies.
func NewComponents(app *App, logger ports.Logger) *Components {
	return &Components{
		App:    app,
		Logger: logger,
	}
}
