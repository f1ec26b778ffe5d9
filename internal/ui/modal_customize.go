package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"poolboard/internal/columns"
)

// Focus areas of the customize dialog, in tab order.
const (
	customizeFocusPreset  = "preset"
	customizeFocusColumns = "columns"
	customizeFocusApply   = "apply"
	customizeFocusClose   = "close"
)

// CustomizeModal edits a working copy of the column selection. Nothing is
// committed until Apply Changes; Close discards the working copy.
type CustomizeModal struct {
	reg       *columns.Registry
	presets   *columns.Presets
	committed columns.Committed

	preset string
	sel    *columns.Selection
	// titles is the toggle list in legend order; cursor indexes it.
	titles []string
	groups []string
	cursor int
	focus  *FocusManager
}

// Ensure CustomizeModal implements View.
var _ View = (*CustomizeModal)(nil)

// NewCustomizeModal opens the dialog on preset. The working copy is last, the
// selection applied on that preset, or is seeded from the preset and the
// committed columns when nothing was applied since the preset was chosen.
func NewCustomizeModal(reg *columns.Registry, presets *columns.Presets, preset string, committed columns.Committed, last *columns.Selection) *CustomizeModal {
	m := &CustomizeModal{
		reg:       reg,
		presets:   presets,
		committed: committed,
		preset:    preset,
		focus: &FocusManager{
			Current: customizeFocusColumns,
			Order:   []string{customizeFocusPreset, customizeFocusColumns, customizeFocusApply, customizeFocusClose},
		},
	}
	for _, g := range columns.Groups {
		for _, t := range reg.Group(g) {
			m.titles = append(m.titles, t)
			m.groups = append(m.groups, g)
		}
	}
	if last != nil {
		// Reopening on the same preset resumes the applied selection.
		m.sel = last.Clone()
	} else {
		m.sel = columns.NewSelection(reg, presets.Titles(preset), committed, nil)
	}
	return m
}

// Selection returns the working copy.
func (m *CustomizeModal) Selection() *columns.Selection {
	return m.sel
}

// Preset returns the preset shown in the selector.
func (m *CustomizeModal) Preset() string {
	return m.preset
}

// Focus returns the focused area.
func (m *CustomizeModal) Focus() string {
	return m.focus.Current
}

// CursorTitle returns the column under the cursor.
func (m *CustomizeModal) CursorTitle() string {
	if m.cursor < 0 || m.cursor >= len(m.titles) {
		return ""
	}
	return m.titles[m.cursor]
}

// SetCursor moves the cursor to title. It reports whether title is listed.
func (m *CustomizeModal) SetCursor(title string) bool {
	for i, t := range m.titles {
		if t == title {
			m.cursor = i
			m.focus.SetFocus(customizeFocusColumns)
			return true
		}
	}
	return false
}

// Init implements View.
func (m *CustomizeModal) Init() tea.Cmd {
	return nil
}

// Update implements View.
func (m *CustomizeModal) Update(msg tea.Msg) (View, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch km.String() {
	case "esc":
		return m, func() tea.Msg { return DismissModalMsg{} }
	case "tab":
		m.focus.Next()
		return m, nil
	case "shift+tab":
		m.focus.Prev()
		return m, nil
	}

	switch m.focus.Current {
	case customizeFocusPreset:
		switch km.String() {
		case "left", "h":
			m.cyclePreset(-1)
		case "right", "l", "enter", " ":
			m.cyclePreset(1)
		case "down", "j":
			m.focus.SetFocus(customizeFocusColumns)
		}
	case customizeFocusColumns:
		switch km.String() {
		case "up", "k":
			if m.cursor == 0 {
				m.focus.SetFocus(customizeFocusPreset)
			} else {
				m.cursor--
			}
		case "down", "j":
			if m.cursor >= len(m.titles)-1 {
				m.focus.SetFocus(customizeFocusApply)
			} else {
				m.cursor++
			}
		case " ", "x", "enter":
			if t := m.CursorTitle(); t != "" {
				m.sel.Toggle(t)
			}
		case "shift+up", "K":
			m.sel.Move(m.CursorTitle(), -1)
		case "shift+down", "J":
			m.sel.Move(m.CursorTitle(), 1)
		}
	case customizeFocusApply:
		switch km.String() {
		case "enter", " ":
			return m, m.apply()
		case "right", "l":
			m.focus.SetFocus(customizeFocusClose)
		case "up", "k":
			m.focus.SetFocus(customizeFocusColumns)
		}
	case customizeFocusClose:
		switch km.String() {
		case "enter", " ":
			return m, func() tea.Msg { return DismissModalMsg{} }
		case "left", "h":
			m.focus.SetFocus(customizeFocusApply)
		case "up", "k":
			m.focus.SetFocus(customizeFocusColumns)
		}
	}
	return m, nil
}

// apply hands the working copy to the host.
func (m *CustomizeModal) apply() tea.Cmd {
	msg := ApplyColumnsMsg{Preset: m.preset, Selection: m.sel.Clone()}
	return func() tea.Msg { return msg }
}

// cyclePreset moves the selector by delta and reseeds the working copy from
// the new preset. Visibility of columns outside the preset carries over.
func (m *CustomizeModal) cyclePreset(delta int) {
	names := m.presets.Names()
	if len(names) == 0 {
		return
	}
	i := 0
	for j, n := range names {
		if n == m.preset {
			i = j
			break
		}
	}
	i = (i + delta + len(names)) % len(names)
	m.preset = names[i]
	m.sel = columns.NewSelection(m.reg, m.presets.Titles(m.preset), m.committed, m.sel)
}

// View implements View.
func (m *CustomizeModal) View() string {
	var b strings.Builder
	b.WriteString(ModalStyles.Title.Render("Customize columns") + "\n\n")

	selector := fmt.Sprintf("‹ %s ›", m.preset)
	if m.focus.Current == customizeFocusPreset {
		selector = Styles.Selected.Render(selector)
	}
	b.WriteString(Styles.Muted.Render("Preset ") + selector + "\n")

	group := ""
	for i, t := range m.titles {
		if m.groups[i] != group {
			group = m.groups[i]
			b.WriteString("\n" + Styles.Section.Render(group) + "\n")
		}
		box := "[ ]"
		if m.sel.Visible(t) {
			box = "[x]"
		}
		line := box + " " + t
		if def, ok := m.reg.Lookup(t); ok && def.Tooltip != "" {
			line += Styles.Hint.Render("  " + def.Tooltip)
		}
		if m.focus.Current == customizeFocusColumns && i == m.cursor {
			b.WriteString(Styles.Selected.Render("> "+box+" "+t) + "\n")
			continue
		}
		b.WriteString("  " + line + "\n")
	}

	b.WriteString("\n" + Styles.Muted.Render("Order: ") + strings.Join(m.sel.VisibleTitles(), ", ") + "\n\n")

	apply, closeBtn := Styles.Button, Styles.Button
	switch m.focus.Current {
	case customizeFocusApply:
		apply = Styles.ButtonFocused
	case customizeFocusClose:
		closeBtn = Styles.ButtonFocused
	}
	b.WriteString(apply.Render("Apply Changes") + "  " + closeBtn.Render("Close") + "\n\n")
	b.WriteString(ModalStyles.Help.Render("space: toggle  J/K: reorder  ←/→: preset  tab: next  Esc: close"))
	return ModalStyles.BoxDefault.Render(b.String())
}
