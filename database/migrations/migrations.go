// Package migrations contains the schema migration files. Each one
// registers itself from init(), so importing this package is enough
// to make every migration available to the runner.
package migrations
