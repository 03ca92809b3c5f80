package module

import (
	"errors"
	"fmt"
)

// ErrNoLoader marks a descriptor that cannot be resolved to executable
// code: a script entry point that fails to load, or a builtin identifier
// with no registered factory.
var ErrNoLoader = errors.New("no loader for module")

// ErrNoContract marks a script that executed but did not produce a widget:
// it returned nothing, a non-table, or a table without a render function.
var ErrNoContract = errors.New("module does not implement the widget contract")

// ExecutionError wraps a failure running a module's top-level code. It is
// fatal to that module only; the host catches it per module.
type ExecutionError struct {
	Path  string
	Cause error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("executing %s: %v", e.Path, e.Cause)
}

func (e *ExecutionError) Unwrap() error { return e.Cause }

// DiscoveryError reports that the modules root itself could not be
// enumerated. Individual bad entries under a readable root never produce
// one; they are skipped.
type DiscoveryError struct {
	Root string
	Err  error
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("discovering modules in %s: %v", e.Root, e.Err)
}

func (e *DiscoveryError) Unwrap() error { return e.Err }
