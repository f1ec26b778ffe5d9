package ui

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// PresetPickerModal lists the column presets; enter switches the table to one.
type PresetPickerModal struct {
	list list.Model
}

type presetItem string

func (p presetItem) FilterValue() string { return string(p) }
func (p presetItem) Title() string       { return string(p) }
func (p presetItem) Description() string { return "" }

// Ensure PresetPickerModal implements View.
var _ View = (*PresetPickerModal)(nil)

// NewPresetPickerModal creates a picker over names with current selected.
func NewPresetPickerModal(names []string, current string) *PresetPickerModal {
	items := make([]list.Item, len(names))
	selected := 0
	for i, n := range names {
		items[i] = presetItem(n)
		if n == current {
			selected = i
		}
	}
	l := list.New(items, NewCompactListDelegate(), 36, min(len(names)+4, 14))
	l.Title = "Column preset"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()
	l.Styles.Title = Styles.Title
	l.Select(selected)
	return &PresetPickerModal{list: l}
}

// Selected returns the highlighted preset name.
func (m *PresetPickerModal) Selected() string {
	if sel := m.list.SelectedItem(); sel != nil {
		return string(sel.(presetItem))
	}
	return ""
}

// Init implements View.
func (m *PresetPickerModal) Init() tea.Cmd {
	return nil
}

// Update implements View.
func (m *PresetPickerModal) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return DismissModalMsg{} }
		case "enter":
			if name := m.Selected(); name != "" {
				return m, func() tea.Msg { return SelectPresetMsg{Name: name} }
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View implements View.
func (m *PresetPickerModal) View() string {
	help := "Enter: select  /: filter  Esc: cancel"
	return ModalStyles.BoxCompact.Render(m.list.View() + "\n" + ModalStyles.Help.Render(help))
}
