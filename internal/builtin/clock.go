package builtin

import (
	"time"

	"github.com/charmbracelet/lipgloss"

	"dashgrid/internal/widget"
)

// Default formats, overridable through the [Clock] settings section.
const (
	defaultTimeFormat = "15:04:05"
	defaultDateFormat = "Monday, January 2"
)

// Clock shows the current time and date.
type Clock struct {
	widget.Base
	timeFormat string
	dateFormat string
	now        func() time.Time
}

// NewClock builds the clock widget. Settings keys: [Clock] format and
// date_format, both Go reference-time layouts.
func NewClock(env widget.Env) (widget.Contract, error) {
	return &Clock{
		Base:       widget.NewBase(env),
		timeFormat: env.Settings.GetDefault("Clock", "format", defaultTimeFormat),
		dateFormat: env.Settings.GetDefault("Clock", "date_format", defaultDateFormat),
		now:        time.Now,
	}, nil
}

func (c *Clock) Render(s widget.Surface) (string, error) {
	now := c.now()
	lines := s.Theme.Title().Render(now.Format(c.timeFormat))
	if s.Height > 1 {
		lines = lipgloss.JoinVertical(lipgloss.Left,
			lines,
			s.Theme.Subtitle().Render(now.Format(c.dateFormat)),
		)
	}
	return lines, nil
}
