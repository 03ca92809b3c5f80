// Package module implements discovery, loading, and lifecycle management of
// dashboard widget modules. A module is either a Lua script dropped into a
// directory under the modules root or a compiled-in factory registered by
// identifier; either way the host only ever sees widget.Contract.
package module

import (
	"dashgrid/internal/settings"
	"dashgrid/internal/widget"
)

// Source identifies how a module's code is resolved.
type Source int

const (
	// SourceScript loads a <name>.lua entry point from the module directory.
	SourceScript Source = iota
	// SourceBuiltin instantiates a compiled-in factory registered under the
	// module identifier.
	SourceBuiltin
)

func (s Source) String() string {
	switch s {
	case SourceScript:
		return "script"
	case SourceBuiltin:
		return "builtin"
	default:
		return "unknown"
	}
}

// Descriptor is the on-disk identity of a module before it is loaded.
// Immutable after discovery.
type Descriptor struct {
	// ID is the module identifier, its directory name under the root.
	ID string
	// Dir is the module's directory path.
	Dir string
	// EntryPoint is the script path for SourceScript, empty for builtins.
	EntryPoint string
	// Source selects the resolution path.
	Source Source
}

// LoadState tracks a module through its lifecycle.
type LoadState int

const (
	StateUnloaded LoadState = iota
	StateLoaded
	StateFailed
)

func (s LoadState) String() string {
	switch s {
	case StateUnloaded:
		return "unloaded"
	case StateLoaded:
		return "loaded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Loaded is one module owned by the Registry. Instance and Meta are set
// only after a successful load; Err records why a load failed.
type Loaded struct {
	Descriptor Descriptor
	Instance   widget.Contract
	State      LoadState
	Meta       widget.Metadata
	Settings   *settings.Settings
	Err        error
}

// Title returns the best display name available for the module: its
// metadata name once loaded, otherwise the prettified identifier.
func (m *Loaded) Title() string {
	if m.State == StateLoaded {
		return m.Meta.Name
	}
	return widget.DisplayName(m.Descriptor.ID)
}
