// Package widget defines the capability every dashboard module implements
// and the small environment the host hands to one. The host depends only on
// the Contract interface; concrete widgets are supplied by built-in
// factories or by Lua scripts discovered at runtime.
package widget

import (
	"context"
	"errors"
	"log/slog"

	"dashgrid/internal/settings"
)

// ErrNoData is returned by Render when a module has nothing to show yet.
// Hosts treat it as a recoverable per-module condition for the current
// pass, never as fatal.
var ErrNoData = errors.New("module data not available")

// Contract is the capability set a module must implement to be hosted.
type Contract interface {
	// Meta describes the module. Called after load; the registry reads it
	// for display only.
	Meta() Metadata

	// Init runs once after construction, with settings already loaded and
	// metadata overrides applied. Returning an error fails the load.
	Init(ctx context.Context) error

	// Render draws the module into its assigned surface and returns the
	// content. Render is called every layout and refresh pass.
	Render(s Surface) (string, error)

	// Cleanup runs before the module is unloaded or the host exits.
	// Best-effort; errors are logged and swallowed by the caller.
	Cleanup(ctx context.Context) error
}

// Snapshotter is optionally implemented by modules that want their public
// state persisted. Snapshot returns key-value pairs saved under the
// [State] settings section on exit; identity fields (name, path,
// settings_path) must not appear.
type Snapshotter interface {
	Snapshot() map[string]string
}

// Factory builds a widget instance from its construction context. Built-in
// widgets register one per identifier.
type Factory func(env Env) (Contract, error)

// Env is the construction context for a module instance.
type Env struct {
	// ID is the module identifier (its directory name).
	ID string
	// Dir is the module's directory path.
	Dir string
	// Settings is the module's loaded configuration. Never nil; empty when
	// the module has no settings file.
	Settings *settings.Settings
	// Logger is the host logger. May be nil in tests.
	Logger *slog.Logger
}

// Log returns the environment's logger tagged with the module id, falling
// back to the default logger.
func (e Env) Log() *slog.Logger {
	l := e.Logger
	if l == nil {
		l = slog.Default()
	}
	return l.With("module", e.ID)
}

// Surface is the rectangular region assigned to one module for a single
// layout pass, plus the rendering hints widgets draw with.
type Surface struct {
	Width  int
	Height int
	Theme  Theme
}
