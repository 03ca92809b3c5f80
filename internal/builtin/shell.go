package builtin

import (
	"context"
	"io"
	"os/exec"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"dashgrid/internal/pty"
	"dashgrid/internal/widget"
)

// maxShellBuffer bounds retained subprocess output.
const maxShellBuffer = 64 * 1024

// Shell runs a configured command inside a PTY and tails its output. The
// command is required: a shell module directory without [Shell] command in
// its settings fails to load with a validation error.
type Shell struct {
	widget.Base
	runner  pty.Runner
	command string
	tty     io.ReadWriteCloser
	size    pty.Size

	mu  sync.Mutex
	buf []byte
}

// NewShell builds the shell widget.
func NewShell(env widget.Env) (widget.Contract, error) {
	return &Shell{Base: widget.NewBase(env), runner: &pty.CreackPTY{}}, nil
}

func (w *Shell) Init(ctx context.Context) error {
	if err := w.RequireSettings(map[string][]string{"Shell": {"command"}}); err != nil {
		return err
	}
	w.command, _ = w.Settings.Get("Shell", "command")

	cmd := exec.Command("sh", "-c", w.command)
	cmd.Dir = w.Dir
	w.size = pty.Size{Rows: 24, Cols: 80}
	tty, err := w.runner.Start(ctx, cmd, w.size)
	if err != nil {
		return err
	}
	w.tty = tty

	// The reader is the only writer of buf; Render only reads under mu.
	go func() {
		chunk := make([]byte, 4096)
		for {
			n, err := tty.Read(chunk)
			if n > 0 {
				w.append(chunk[:n])
			}
			if err != nil {
				return
			}
		}
	}()
	return w.Base.Init(ctx)
}

func (w *Shell) append(p []byte) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.buf = append(w.buf, p...)
	if len(w.buf) > maxShellBuffer {
		w.buf = w.buf[len(w.buf)-maxShellBuffer:]
	}
}

func (w *Shell) Render(s widget.Surface) (string, error) {
	w.resize(s)
	w.mu.Lock()
	out := string(w.buf)
	w.mu.Unlock()
	if out == "" {
		return "", widget.ErrNoData
	}

	lines := strings.Split(strings.TrimRight(out, "\r\n"), "\n")
	tail := s.Height - 1
	if tail < 1 {
		tail = 1
	}
	if len(lines) > tail {
		lines = lines[len(lines)-tail:]
	}
	for i, l := range lines {
		lines[i] = s.Theme.Text().Render(strings.TrimRight(l, "\r"))
	}
	header := s.Theme.Subtitle().Render("$ " + w.command)
	return lipgloss.JoinVertical(lipgloss.Left, append([]string{header}, lines...)...), nil
}

// resize keeps the PTY geometry in step with the assigned surface.
func (w *Shell) resize(s widget.Surface) {
	if w.tty == nil || s.Width <= 0 || s.Height <= 0 {
		return
	}
	size := pty.Size{Rows: uint16(s.Height), Cols: uint16(s.Width)}
	if size == w.size {
		return
	}
	if err := w.runner.Resize(w.tty, size); err != nil {
		w.Log().Warn("pty resize failed", "error", err)
		return
	}
	w.size = size
}

func (w *Shell) Cleanup(ctx context.Context) error {
	if w.tty != nil {
		if err := w.tty.Close(); err != nil {
			return err
		}
		w.tty = nil
	}
	return w.Base.Cleanup(ctx)
}
