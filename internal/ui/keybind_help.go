package ui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
)

func newHelp() help.Model {
	h := help.New()
	h.Styles.ShortKey = lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHighlight)).
		Bold(true)
	h.Styles.ShortDesc = Styles.Muted
	h.Styles.ShortSeparator = Styles.Muted
	return h
}

// RenderKeybindHelp produces the transient help bar shown after SPC: the
// pending sequence followed by the keys that may come next in mode.
func RenderKeybindHelp(keyHandler *KeyHandler, mode AppMode) string {
	if keyHandler == nil {
		return ""
	}
	bindings := NewLeaderKeyMap(keyHandler, mode).ShortHelp()
	if len(bindings) == 0 {
		return ""
	}
	prefix := keyHandler.Pending()
	if prefix == "" {
		prefix = keyHandler.LeaderSeq
	}
	return Styles.Muted.Render(prefix) + " " + newHelp().ShortHelpView(bindings)
}

// RenderFooterHints renders the resting key hints of mode.
func RenderFooterHints(keyHandler *KeyHandler, mode AppMode, width int) string {
	if keyHandler == nil {
		return ""
	}
	h := newHelp()
	h.Width = width
	return h.ShortHelpView(NewFooterKeyMap(keyHandler, mode).ShortHelp())
}
