package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"poolboard/internal/columns"
	"poolboard/internal/pool"
)

// PoolDetailView shows every column of one pool, scrollable.
type PoolDetailView struct {
	Record pool.Record

	cols     []columns.Definition
	viewport viewport.Model
}

// Ensure PoolDetailView implements View.
var _ View = (*PoolDetailView)(nil)

// NewPoolDetailView creates a detail view of rec listing cols.
func NewPoolDetailView(rec pool.Record, cols []columns.Definition) *PoolDetailView {
	p := &PoolDetailView{Record: rec, cols: cols}
	p.viewport = viewport.New(80, 20)
	p.viewport.SetContent(p.content())
	return p
}

// SetRecord replaces the shown record, keeping the scroll position.
func (p *PoolDetailView) SetRecord(rec pool.Record) {
	p.Record = rec
	p.viewport.SetContent(p.content())
}

// Init implements View.
func (p *PoolDetailView) Init() tea.Cmd {
	return nil
}

// Update implements View.
func (p *PoolDetailView) Update(msg tea.Msg) (View, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		p.viewport.Width = ws.Width
		p.viewport.Height = max(ws.Height-2, 1)
		p.viewport.SetContent(p.content())
		return p, nil
	}
	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return p, cmd
}

// Claimable reports whether the pool's reward cell offers a claim.
func (p *PoolDetailView) Claimable() bool {
	for _, d := range p.cols {
		if c := d.Cell(p.Record); c.Control == columns.ControlClaim {
			return true
		}
	}
	return false
}

// content renders one line per column: title, value and the column hint.
func (p *PoolDetailView) content() string {
	labelWidth := 0
	for _, d := range p.cols {
		labelWidth = max(labelWidth, runewidth.StringWidth(d.Title))
	}

	var b strings.Builder
	for i, d := range p.cols {
		if i > 0 {
			b.WriteString("\n")
		}
		cell := d.Cell(p.Record)
		label := runewidth.FillRight(d.Title, labelWidth)
		b.WriteString(Styles.Muted.Render(label) + "  ")
		switch {
		case cell.Tone == "muted":
			b.WriteString(Styles.Muted.Render(cell.Text))
		case cell.Control == columns.ControlClaim:
			b.WriteString(Styles.Selected.Render(cell.Text))
		default:
			b.WriteString(Styles.Normal.Render(cell.Text))
		}
		if d.Tooltip != "" {
			b.WriteString(Styles.Hint.Render("  " + d.Tooltip))
		}
	}
	return b.String()
}

// View implements View.
func (p *PoolDetailView) View() string {
	var b strings.Builder
	b.WriteString(Styles.Title.Render("Pool " + p.Record.Key()))
	if p.Claimable() {
		b.WriteString("  " + Styles.Status.Render("rewards claimable"))
	}
	b.WriteString("\n\n")
	b.WriteString(p.viewport.View())
	return b.String()
}
