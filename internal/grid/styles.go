package grid

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// Styles are the lipgloss styles the grid draws with. None of them may add
// padding or borders: the layout math assumes one terminal column per cell
// character.
type Styles struct {
	Header   lipgloss.Style
	Rule     lipgloss.Style
	Cell     lipgloss.Style
	Selected lipgloss.Style
	Ok       lipgloss.Style
	Bad      lipgloss.Style
	Muted    lipgloss.Style
	Control  lipgloss.Style
	Bar      lipgloss.Style
	Empty    lipgloss.Style
}

// DefaultStyles returns the dashboard palette.
func DefaultStyles() Styles {
	return Styles{
		Header:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")),
		Rule:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Cell:     lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Selected: lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true),
		Ok:       lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Bad:      lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Control:  lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true),
		Bar:      lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
		Empty:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
	}
}

// KeyMap defines cursor movement keys.
type KeyMap struct {
	LineUp     key.Binding
	LineDown   key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
	GotoTop    key.Binding
	GotoBottom key.Binding
}

// DefaultKeyMap returns vim-style movement bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		LineUp:     key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("↑/k", "up")),
		LineDown:   key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("↓/j", "down")),
		PageUp:     key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
		PageDown:   key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
		GotoTop:    key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
		GotoBottom: key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
	}
}
