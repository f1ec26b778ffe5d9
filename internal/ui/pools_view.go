package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"poolboard/internal/pool"
)

// PoolsHeaderLines is the number of lines drawn above the table.
const PoolsHeaderLines = 3

// PoolsView is the main screen: a header with feed status above the pools
// table. The table body is supplied by Table, since the binding owns it.
type PoolsView struct {
	Table func() string

	Preset string
	Filter string
	Shown  int
	Total  int
	Block  uint64
	Seq    uint64
	Err    error

	spinner spinner.Model
	loading bool
	width   int
}

// Ensure PoolsView implements View.
var _ View = (*PoolsView)(nil)

// NewPoolsView creates the pools screen.
func NewPoolsView() *PoolsView {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccent))
	return &PoolsView{spinner: s}
}

// Init implements View.
func (p *PoolsView) Init() tea.Cmd {
	if p.loading {
		return p.spinner.Tick
	}
	return nil
}

// SetLoading sets the loading state and returns a command to start the spinner.
func (p *PoolsView) SetLoading(loading bool) tea.Cmd {
	p.loading = loading
	if loading {
		return p.spinner.Tick
	}
	return nil
}

// Loading reports whether a refresh is in flight.
func (p *PoolsView) Loading() bool {
	return p.loading
}

// SetSnapshot records the feed status of snap, of which shown rows pass
// the filter.
func (p *PoolsView) SetSnapshot(snap pool.Snapshot, shown int) {
	p.Total = snap.Len()
	p.Shown = shown
	p.Block = snap.Block
	p.Seq = snap.Seq
	p.Err = nil
}

// Update implements View.
func (p *PoolsView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
	case spinner.TickMsg:
		if p.loading {
			var cmd tea.Cmd
			p.spinner, cmd = p.spinner.Update(msg)
			return p, cmd
		}
	}
	return p, nil
}

// View implements View.
func (p *PoolsView) View() string {
	var b strings.Builder

	title := fmt.Sprintf("Pools (%d)", p.Total)
	if p.Shown != p.Total {
		title = fmt.Sprintf("Pools (%d of %d)", p.Shown, p.Total)
	}
	b.WriteString(Styles.Title.Render(title))
	if p.loading {
		b.WriteString(" " + p.spinner.View())
	}
	if p.Seq > 0 {
		b.WriteString(Styles.Muted.Render(fmt.Sprintf("  block %d · snapshot %d", p.Block, p.Seq)))
	}
	b.WriteString("\n")

	status := "Columns: " + p.Preset
	if p.Filter != "" {
		status += "  Filter: " + p.Filter
	}
	if p.Err != nil {
		b.WriteString(Styles.Details.Render("Refresh failed: " + p.Err.Error()))
	} else {
		b.WriteString(Styles.Hint.Render(status))
	}
	b.WriteString("\n\n")

	if p.Table != nil {
		if t := p.Table(); t != "" {
			b.WriteString(t)
			return b.String()
		}
	}
	b.WriteString(Styles.Empty.Render("Loading pools…"))
	return b.String()
}
