package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"poolboard/internal/filter"
)

// FilterModal prompts for the row filter. An empty query clears it.
type FilterModal struct {
	input textinput.Model
}

// Ensure FilterModal implements View.
var _ View = (*FilterModal)(nil)

// NewFilterModal creates a filter prompt holding query.
func NewFilterModal(query string) *FilterModal {
	ti := textinput.New()
	ti.Placeholder = "isActive && score > 10"
	ti.Width = 48
	ti.SetValue(query)
	ti.CursorEnd()
	ti.Focus()
	return &FilterModal{input: ti}
}

// Query returns the text entered so far.
func (m *FilterModal) Query() string {
	return m.input.Value()
}

// Init implements View.
func (m *FilterModal) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements View.
func (m *FilterModal) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return DismissModalMsg{} }
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			return m, func() tea.Msg { return SetFilterMsg{Query: q} }
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// modeHint describes how the current text will be matched.
func (m *FilterModal) modeHint() string {
	f, err := filter.Compile(m.input.Value(), nil)
	if err != nil {
		return err.Error()
	}
	switch f.Mode() {
	case filter.ModeExpression:
		return "expression over pool fields"
	case filter.ModeSubstring:
		return "text search in filterable columns"
	}
	return "all pools"
}

// View implements View.
func (m *FilterModal) View() string {
	content := ModalStyles.Title.Render("Filter pools") + "\n\n"
	content += m.input.View() + "\n"
	content += ModalStyles.Help.Render(m.modeHint()) + "\n\n"
	content += ModalStyles.Help.Render("Enter: apply  Esc: cancel")
	return ModalStyles.BoxDefault.Render(content)
}
