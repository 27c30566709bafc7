// Package app provides the application context for archconf.
// It allows dependency injection for testing.
package app

import (
	"path/filepath"

	"github.com/isoforge/archconf/internal/catalog"
)

// DefaultConfigFile is the config file commands operate on when no
// path argument is given.
const DefaultConfigFile = "archconf.conf"

// DefaultStateDir holds mutable state such as the change journal.
const DefaultStateDir = "/var/lib/archconf"

// Paths holds the configured paths
type Paths struct {
	// ConfigFile is the default configuration file path.
	ConfigFile string

	// StateDir holds mutable state.
	StateDir string

	// HistoryFile is the JSONL change journal.
	HistoryFile string
}

// DefaultPaths returns the default path configuration
func DefaultPaths() *Paths {
	return &Paths{
		ConfigFile:  DefaultConfigFile,
		StateDir:    DefaultStateDir,
		HistoryFile: filepath.Join(DefaultStateDir, "history.jsonl"),
	}
}

// App holds the application dependencies
type App struct {
	// Paths holds the configured paths
	Paths *Paths

	// Catalog describes the known installer keys
	Catalog *catalog.Catalog
}

// Option is a function that configures the App
type Option func(*App)

// WithPaths sets custom paths
func WithPaths(paths *Paths) Option {
	return func(a *App) {
		a.Paths = paths
	}
}

// WithCatalog sets a custom key catalog
func WithCatalog(c *catalog.Catalog) Option {
	return func(a *App) {
		a.Catalog = c
	}
}

// New creates a new App with the given options.
// If no catalog is provided via WithCatalog, the embedded catalog is used.
func New(opts ...Option) *App {
	app := &App{
		Paths: DefaultPaths(),
	}

	for _, opt := range opts {
		opt(app)
	}

	if app.Catalog == nil {
		app.Catalog = catalog.Default()
	}

	return app
}

// Default is the default application instance
var Default = New()

// SetDefault sets the default application instance (used for testing)
func SetDefault(app *App) {
	Default = app
}

// ResetDefault resets to the default application instance
func ResetDefault() {
	Default = New()
}
