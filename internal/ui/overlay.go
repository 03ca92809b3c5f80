package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"dashgrid/internal/module"
	"dashgrid/internal/widget"
)

// moduleItem presents one registry entry in the status overlay.
type moduleItem struct {
	m *module.Loaded
}

func (i moduleItem) FilterValue() string { return i.m.Title() }

func (i moduleItem) Title() string {
	switch i.m.State {
	case module.StateLoaded:
		return fmt.Sprintf("%s %s (%s)", i.m.Title(), i.m.Meta.Version, i.m.Descriptor.Source)
	case module.StateFailed:
		return fmt.Sprintf("%s — failed", i.m.Title())
	default:
		return fmt.Sprintf("%s — %s", i.m.Title(), i.m.State)
	}
}

func (i moduleItem) Description() string {
	if i.m.State == module.StateFailed && i.m.Err != nil {
		return i.m.Err.Error()
	}
	return i.m.Meta.Description
}

// moduleOverlay is the dismissable module status list ("m" toggles it).
type moduleOverlay struct {
	list list.Model
}

func newModuleOverlay(modules []*module.Loaded, theme widget.Theme, width, height int) *moduleOverlay {
	items := make([]list.Item, 0, len(modules))
	for _, m := range modules {
		items = append(items, moduleItem{m: m})
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = lipgloss.NewStyle().Foreground(theme.H1).Bold(true)
	delegate.Styles.SelectedDesc = lipgloss.NewStyle().Foreground(theme.H2)
	delegate.Styles.NormalTitle = lipgloss.NewStyle().Foreground(theme.Foreground)
	delegate.Styles.NormalDesc = lipgloss.NewStyle().Foreground(theme.H3)

	l := list.New(items, delegate, width, height)
	l.Title = "Modules"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()
	l.Styles.Title = lipgloss.NewStyle().Bold(true).Foreground(theme.H1)
	return &moduleOverlay{list: l}
}

func (o *moduleOverlay) SetSize(width, height int) {
	o.list.SetSize(width, height)
}

func (o *moduleOverlay) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	o.list, cmd = o.list.Update(msg)
	return cmd
}

func (o *moduleOverlay) View() string {
	return o.list.View()
}
