package builtin

import (
	"fmt"

	"github.com/GianlucaP106/gotmux/gotmux"
	"github.com/charmbracelet/lipgloss"

	"dashgrid/internal/widget"
)

// sessionLister is the slice of the tmux client this widget needs.
type sessionLister interface {
	ListSessions() ([]*gotmux.Session, error)
}

// Tmux lists the sessions of the local tmux server. With no server
// running it has nothing to show, which is a normal no-data pass rather
// than a failure.
type Tmux struct {
	widget.Base
	client sessionLister
}

// NewTmux builds the tmux session widget.
func NewTmux(env widget.Env) (widget.Contract, error) {
	return &Tmux{Base: widget.NewBase(env)}, nil
}

func (w *Tmux) Render(s widget.Surface) (string, error) {
	if w.client == nil {
		client, err := gotmux.DefaultTmux()
		if err != nil {
			return "", fmt.Errorf("%w: %v", widget.ErrNoData, err)
		}
		w.client = client
	}
	sessions, err := w.client.ListSessions()
	if err != nil || len(sessions) == 0 {
		return "", widget.ErrNoData
	}

	lines := []string{
		s.Theme.Title().Render(fmt.Sprintf("%d tmux sessions", len(sessions))),
	}
	for _, sess := range sessions {
		if len(lines) >= s.Height && s.Height > 0 {
			break
		}
		lines = append(lines, s.Theme.Text().Render("• "+sess.Name))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...), nil
}
