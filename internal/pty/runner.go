// Package pty spawns widget subprocesses inside a pseudo-terminal so their
// output renders the way it would in a real terminal. The Runner interface
// keeps widgets testable without allocating a PTY.
package pty

import (
	"context"
	"io"
	"os"
	"os/exec"

	"github.com/creack/pty"
)

// Size is a terminal geometry in character cells.
type Size struct {
	Rows uint16
	Cols uint16
}

// Runner starts and resizes a PTY-backed process.
type Runner interface {
	Start(ctx context.Context, cmd *exec.Cmd, size Size) (io.ReadWriteCloser, error)
	Resize(rwc io.ReadWriteCloser, size Size) error
}

// CreackPTY implements Runner using github.com/creack/pty.
type CreackPTY struct{}

var _ Runner = (*CreackPTY)(nil)

// Start spawns cmd in a PTY with the given size. Lifetime is controlled by
// closing the returned ReadWriteCloser, not by ctx.
func (c *CreackPTY) Start(ctx context.Context, cmd *exec.Cmd, size Size) (io.ReadWriteCloser, error) {
	ws := &pty.Winsize{Rows: size.Rows, Cols: size.Cols}
	f, err := pty.StartWithSize(cmd, ws)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Resize adjusts the PTY geometry. The rwc must be the *os.File returned by
// Start; other types are a no-op.
func (c *CreackPTY) Resize(rwc io.ReadWriteCloser, size Size) error {
	f, ok := rwc.(*os.File)
	if !ok {
		return nil
	}
	return pty.Setsize(f, &pty.Winsize{Rows: size.Rows, Cols: size.Cols})
}
