package widget

import "github.com/charmbracelet/lipgloss"

// Theme carries the colors widgets draw with. The host owns the active
// theme and passes it down on every render; widgets never cache it.
type Theme struct {
	Dark       bool
	Background lipgloss.Color
	Foreground lipgloss.Color
	H1         lipgloss.Color
	H2         lipgloss.Color
	H3         lipgloss.Color
}

// DarkTheme is the default palette.
func DarkTheme() Theme {
	return Theme{
		Dark:       true,
		Background: lipgloss.Color("#202020"),
		Foreground: lipgloss.Color("#ffffff"),
		H1:         lipgloss.Color("#FF8888"),
		H2:         lipgloss.Color("#FFBBBB"),
		H3:         lipgloss.Color("#FFDDDD"),
	}
}

// LightTheme is the alternate palette toggled at runtime. Heading colors
// are shared with the dark palette.
func LightTheme() Theme {
	return Theme{
		Background: lipgloss.Color("#f0f0f0"),
		Foreground: lipgloss.Color("#000000"),
		H1:         lipgloss.Color("#FF8888"),
		H2:         lipgloss.Color("#FFBBBB"),
		H3:         lipgloss.Color("#FFDDDD"),
	}
}

// Toggle returns the opposite palette.
func (t Theme) Toggle() Theme {
	if t.Dark {
		return LightTheme()
	}
	return DarkTheme()
}

// Title is the style for a widget's primary heading.
func (t Theme) Title() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.H1).Bold(true)
}

// Subtitle is the style for secondary headings.
func (t Theme) Subtitle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.H2)
}

// Text is the style for body content.
func (t Theme) Text() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Foreground)
}

// Faint is the style for de-emphasized content.
func (t Theme) Faint() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.H3)
}
