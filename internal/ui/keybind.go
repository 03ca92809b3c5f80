package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// KeybindRegistry maps single key chords (tea.KeyMsg.String() values like
// "r", "ctrl+d", "q") to commands. It doubles as the help.KeyMap feeding
// the hint bar, listing bindings in registration order.
type KeybindRegistry struct {
	order        []string
	bindings     map[string]tea.Cmd
	descriptions map[string]string
}

// NewKeybindRegistry creates an empty registry.
func NewKeybindRegistry() *KeybindRegistry {
	return &KeybindRegistry{
		bindings:     make(map[string]tea.Cmd),
		descriptions: make(map[string]string),
	}
}

// Bind registers a chord. Rebinding an existing chord replaces the command
// but keeps its position in the hint bar.
func (r *KeybindRegistry) Bind(chord, desc string, cmd tea.Cmd) {
	if _, exists := r.bindings[chord]; !exists {
		r.order = append(r.order, chord)
	}
	r.bindings[chord] = cmd
	r.descriptions[chord] = desc
}

// Lookup returns the command bound to chord, or nil.
func (r *KeybindRegistry) Lookup(chord string) tea.Cmd {
	return r.bindings[chord]
}

// ShortHelp implements help.KeyMap.
func (r *KeybindRegistry) ShortHelp() []key.Binding {
	out := make([]key.Binding, 0, len(r.order))
	for _, chord := range r.order {
		desc := r.descriptions[chord]
		if desc == "" {
			continue
		}
		out = append(out, key.NewBinding(
			key.WithKeys(chord),
			key.WithHelp(chord, desc),
		))
	}
	return out
}

// FullHelp implements help.KeyMap.
func (r *KeybindRegistry) FullHelp() [][]key.Binding {
	short := r.ShortHelp()
	if len(short) == 0 {
		return nil
	}
	return [][]key.Binding{short}
}
