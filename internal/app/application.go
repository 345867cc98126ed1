package app

import (
	"log/slog"

	"happydash.dev/internal/appconf"
	"happydash.dev/internal/happiness"
	"happydash.dev/internal/metrics"
)

// Application holds the dependencies shared by the HTTP handlers, the web UI
// and the CLI commands.
type Application struct {
	Config  appconf.Config
	Logger  *slog.Logger
	Manager *happiness.Manager
	Metrics *metrics.Metrics
}

// Preferences returns the configured preference allow-list narrowed to the
// columns the current dataset actually has.
func (app *Application) Preferences() []string {
	allowList := app.Config.Preferences
	if allowList == nil {
		allowList = happiness.DefaultPreferences
	}
	return app.Manager.Dataset().Preferences(allowList)
}

// Regions returns the region selector options: the all-regions entry first,
// then the dataset's regions in order of appearance.
func (app *Application) Regions() []string {
	return append([]string{happiness.AllRegions}, app.Manager.Dataset().Regions()...)
}
