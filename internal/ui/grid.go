package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// renderGrid draws every loaded module into its assigned cell, row-major
// in registry order. Zero loaded modules degrade to a single informational
// placeholder spanning the whole body.
func (a *App) renderGrid() string {
	loaded := a.registry.LoadedModules()
	bodyHeight := a.height - statusBarHeight

	if len(loaded) == 0 || a.grid.Placeholder {
		msg := a.theme.Faint().Render(emptyStateMessage)
		if a.discoverErr != nil {
			msg = lipgloss.JoinVertical(lipgloss.Center,
				msg,
				a.theme.Faint().Render(a.discoverErr.Error()),
			)
		}
		return lipgloss.Place(a.width, bodyHeight, lipgloss.Center, lipgloss.Center, msg)
	}

	ctx := a.ctx()
	cellStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(a.theme.H3)

	// View never mutates layout state; if the module count drifted since
	// the last recompute, the extras wait for the next relayout in Update.
	rows := make([][]string, a.grid.Rows)
	for i, m := range loaded {
		if i >= len(a.grid.Cells) || i >= len(a.surfaces) {
			break
		}
		cell := a.grid.Cells[i]
		surface := a.surfaces[i]
		content, _ := a.registry.Run(ctx, m, surface)
		box := cellStyle.
			Width(surface.Width).
			Height(surface.Height).
			MaxWidth(cell.Width).
			MaxHeight(cell.Height).
			Render(content)
		rows[cell.Row] = append(rows[cell.Row], box)
	}

	rendered := make([]string, 0, len(rows))
	for _, boxes := range rows {
		if len(boxes) == 0 {
			continue
		}
		rendered = append(rendered, lipgloss.JoinHorizontal(lipgloss.Top, boxes...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rendered...)
}

// statusBar renders the one-line footer: title, state, counts, key hints.
func (a *App) statusBar() string {
	title := a.theme.Title().Render("dashgrid")
	state := a.theme.Subtitle().Render(a.state.String())
	counts := a.theme.Text().Render(fmt.Sprintf("%d loaded, %d failed", a.loaded, a.failed))
	sep := a.theme.Faint().Render(" │ ")

	bar := title + sep + state + sep + counts + sep + a.help.View(a.keys)
	return lipgloss.NewStyle().MaxWidth(a.width).Render(bar)
}
