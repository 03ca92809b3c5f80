// Package builtin ships the compiled-in widget set. A module directory
// whose name matches a registered factory loads through it without
// needing a script; a <name>.lua file in the directory overrides the
// builtin.
package builtin

import "dashgrid/internal/module"

// Factories returns the builtin factory registry consumed by the module
// loader.
func Factories() module.Factories {
	f := module.Factories{}
	f.Register("clock", NewClock)
	f.Register("sysinfo", NewSysInfo)
	f.Register("tmux", NewTmux)
	f.Register("shell", NewShell)
	return f
}
