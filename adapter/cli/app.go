package cli

import (
	analysisApp "github.com/felixgeelhaar/convrisk/internal/analysis/application"
	catalogCommands "github.com/felixgeelhaar/convrisk/internal/catalog/application/commands"
	catalogQueries "github.com/felixgeelhaar/convrisk/internal/catalog/application/queries"
)

// App holds the CLI application dependencies.
type App struct {
	// Analysis
	Analyzer *analysisApp.Analyzer

	// Catalog Command Handlers
	RegisterConversionHandler *catalogCommands.RegisterConversionHandler

	// Catalog Query Handlers
	ListConversionsHandler *catalogQueries.ListConversionsHandler
	GetConversionHandler   *catalogQueries.GetConversionHandler

	// DefaultPolicy is applied by convert when --policy is not given.
	DefaultPolicy analysisApp.Policy
}

// NewApp creates a new CLI application with the provided handlers.
func NewApp(
	analyzer *analysisApp.Analyzer,
	registerConversionHandler *catalogCommands.RegisterConversionHandler,
	listConversionsHandler *catalogQueries.ListConversionsHandler,
	getConversionHandler *catalogQueries.GetConversionHandler,
) *App {
	return &App{
		Analyzer:                  analyzer,
		RegisterConversionHandler: registerConversionHandler,
		ListConversionsHandler:    listConversionsHandler,
		GetConversionHandler:      getConversionHandler,
	}
}

var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}
