// Package app provides the application context for archconf.
//
// This package manages application-wide dependencies using the functional
// options pattern, enabling easy testing through dependency injection.
//
// # App Context
//
// The App struct holds core dependencies:
//
//	type App struct {
//	    Paths   *Paths           // Config file and state locations
//	    Catalog *catalog.Catalog // Known installer keys
//	}
//
// # Creating an App
//
// Use New with functional options:
//
//	// Production usage
//	app := app.New()
//
//	// Testing with custom dependencies
//	app := app.New(
//	    app.WithPaths(testPaths),
//	    app.WithCatalog(testCatalog),
//	)
//
// # Available Options
//
//	WithPaths(paths)     // Custom path configuration
//	WithCatalog(catalog) // Custom key catalog
package app
