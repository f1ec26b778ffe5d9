// Package grid is the tabular widget the pools table is drawn with. It renders
// committed column definitions over a slice of records, keeps a cursor and a
// scroll window, and reports the on-screen layout of every drawn row so row
// interactions can be resolved back to records.
package grid

import (
	"context"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"poolboard/internal/columns"
	"poolboard/internal/pool"
	"poolboard/internal/textutil"
)

const (
	// HeaderHeight is the number of lines above the first data row.
	HeaderHeight = 2
	// ColumnGap is the number of blank columns between cells.
	ColumnGap = 1

	minAutoWidth = 4
	maxAutoWidth = 44
	minBarWidth  = 3
)

// Model is the grid widget.
type Model struct {
	cols    []columns.Definition
	widths  []int
	records []pool.Record

	cursor int
	offset int
	width  int
	height int

	keys   KeyMap
	styles Styles
	closed bool
}

// Option configures a Model.
type Option func(*Model)

// WithStyles overrides the default styles.
func WithStyles(s Styles) Option {
	return func(m *Model) { m.styles = s }
}

// WithKeyMap overrides the default key map.
func WithKeyMap(k KeyMap) Option {
	return func(m *Model) { m.keys = k }
}

// New creates a grid for cols sized width x height (header included).
func New(cols []columns.Definition, width, height int, opts ...Option) *Model {
	m := &Model{
		cols:   append([]columns.Definition(nil), cols...),
		keys:   DefaultKeyMap(),
		styles: DefaultStyles(),
	}
	for _, o := range opts {
		o(m)
	}
	m.Resize(width, height)
	m.measure()
	return m
}

// Build creates a grid unless ctx is already done. It is the readiness step
// the table binding waits on.
func Build(ctx context.Context, cols []columns.Definition, width, height int, opts ...Option) (*Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m := New(cols, width, height, opts...)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

// Columns returns the definitions the grid was built with.
func (m *Model) Columns() []columns.Definition {
	return append([]columns.Definition(nil), m.cols...)
}

// SetRecords replaces the rows. The cursor stays on the same record key when
// it is still present.
func (m *Model) SetRecords(recs []pool.Record) {
	var key string
	if r, ok := m.Selected(); ok {
		key = r.Key()
	}
	m.records = append([]pool.Record(nil), recs...)
	m.cursor = 0
	if key != "" {
		for i, r := range m.records {
			if r.Key() == key {
				m.cursor = i
				break
			}
		}
	}
	m.measure()
	m.clamp()
}

// Records returns the rows currently held.
func (m *Model) Records() []pool.Record {
	return append([]pool.Record(nil), m.records...)
}

// Resize sets the outer size of the widget.
func (m *Model) Resize(width, height int) {
	m.width = max(width, 1)
	m.height = max(height, HeaderHeight+1)
	m.clamp()
}

// Size returns the outer size of the widget.
func (m *Model) Size() (int, int) {
	return m.width, m.height
}

// Cursor returns the index of the highlighted record.
func (m *Model) Cursor() int {
	return m.cursor
}

// SetCursor moves the highlight to record i.
func (m *Model) SetCursor(i int) {
	m.cursor = i
	m.clamp()
}

// Selected returns the highlighted record.
func (m *Model) Selected() (pool.Record, bool) {
	if m.cursor < 0 || m.cursor >= len(m.records) {
		return pool.Record{}, false
	}
	return m.records[m.cursor], true
}

// Close releases the widget. A closed grid renders nothing.
func (m *Model) Close() {
	m.closed = true
	m.records = nil
}

// Closed reports whether Close was called.
func (m *Model) Closed() bool {
	return m.closed
}

// Update moves the cursor on key presses.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	km, ok := msg.(tea.KeyMsg)
	if !ok || m.closed {
		return nil
	}
	switch {
	case key.Matches(km, m.keys.LineUp):
		m.SetCursor(m.cursor - 1)
	case key.Matches(km, m.keys.LineDown):
		m.SetCursor(m.cursor + 1)
	case key.Matches(km, m.keys.PageUp):
		m.SetCursor(m.cursor - m.pageSize())
	case key.Matches(km, m.keys.PageDown):
		m.SetCursor(m.cursor + m.pageSize())
	case key.Matches(km, m.keys.GotoTop):
		m.SetCursor(0)
	case key.Matches(km, m.keys.GotoBottom):
		m.SetCursor(len(m.records) - 1)
	}
	return nil
}

func (m *Model) pageSize() int {
	return max(m.height-HeaderHeight, 1)
}

func (m *Model) clamp() {
	if len(m.records) == 0 {
		m.cursor, m.offset = 0, 0
		return
	}
	m.cursor = max(0, min(m.cursor, len(m.records)-1))
	page := m.pageSize()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+page {
		m.offset = m.cursor - page + 1
	}
	m.offset = max(0, min(m.offset, len(m.records)-page))
}

// measure sizes every column: fixed widths are widened to fit their title,
// auto widths fit the widest rendered cell.
func (m *Model) measure() {
	m.widths = make([]int, len(m.cols))
	for i, d := range m.cols {
		title := textutil.VisualWidth(d.Title)
		if d.Width > 0 {
			m.widths[i] = max(d.Width, title)
			continue
		}
		w := title
		for _, r := range m.records {
			w = max(w, cellWidth(d.Cell(r)))
		}
		m.widths[i] = max(minAutoWidth, min(w, maxAutoWidth))
	}
}

func cellWidth(c columns.Cell) int {
	w := textutil.VisualWidth(c.Text)
	if c.Control != columns.ControlNone {
		w += 1 + textutil.VisualWidth(c.Control.Label())
	}
	return w
}

// visibleColumns returns how many leading columns fit the widget width and
// their effective widths.
func (m *Model) visibleColumns() []int {
	var out []int
	x := 0
	for _, w := range m.widths {
		if x+w > m.width {
			if len(out) == 0 {
				out = append(out, m.width)
			}
			break
		}
		out = append(out, w)
		x += w + ColumnGap
	}
	return out
}

// View renders the header and the visible rows.
func (m *Model) View() string {
	if m.closed {
		return ""
	}
	widths := m.visibleColumns()
	var b strings.Builder

	headers := make([]string, len(widths))
	for i, w := range widths {
		headers[i] = m.styles.Header.Render(align(m.cols[i].Title, w, m.cols[i].Align))
	}
	b.WriteString(strings.Join(headers, strings.Repeat(" ", ColumnGap)))
	b.WriteString("\n")
	b.WriteString(m.styles.Rule.Render(strings.Repeat("─", min(m.width, rowWidth(widths)))))

	if len(m.records) == 0 {
		b.WriteString("\n" + m.styles.Empty.Render("(no pools)"))
		return b.String()
	}
	for _, row := range m.Layout().Rows {
		b.WriteString("\n")
		b.WriteString(m.renderRow(row, widths))
	}
	return b.String()
}

func rowWidth(widths []int) int {
	w := 0
	for i, cw := range widths {
		if i > 0 {
			w += ColumnGap
		}
		w += cw
	}
	return w
}

func (m *Model) renderRow(row RowLayout, widths []int) string {
	rec := m.records[row.Index]
	selected := row.Index == m.cursor
	parts := make([]string, len(widths))
	for i, w := range widths {
		cell := m.cols[i].Cell(rec)
		body, ctrl := compose(cell, w, m.cols[i].Align)
		if selected {
			parts[i] = body + ctrl
			continue
		}
		parts[i] = m.toneStyle(cell).Render(body)
		if ctrl != "" {
			parts[i] += m.styles.Control.Render(ctrl)
		}
	}
	line := strings.Join(parts, strings.Repeat(" ", ColumnGap))
	if selected {
		return m.styles.Selected.Render(line)
	}
	return line
}

func (m *Model) toneStyle(c columns.Cell) lipgloss.Style {
	switch c.Tone {
	case "ok":
		return m.styles.Ok
	case "bad":
		return m.styles.Bad
	case "muted":
		return m.styles.Muted
	}
	if c.Bar != nil {
		return m.styles.Bar
	}
	return m.styles.Cell
}

// Layout reports where every visible row and cell is drawn.
func (m *Model) Layout() Layout {
	l := Layout{HeaderHeight: HeaderHeight, Width: m.width}
	if m.closed || len(m.records) == 0 {
		return l
	}
	widths := m.visibleColumns()
	end := min(len(m.records), m.offset+m.pageSize())
	for i := m.offset; i < end; i++ {
		rec := m.records[i]
		row := RowLayout{Index: i, Y: HeaderHeight + i - m.offset, Key: rec.Key()}
		x := 0
		for j, w := range widths {
			cell := m.cols[j].Cell(rec)
			cl := CellLayout{
				Column: m.cols[j].Title,
				X0:     x,
				X1:     x + w,
				Text:   cell.Text,
				Value:  cell.CopyValue(),
			}
			if _, ctrl := compose(cell, w, m.cols[j].Align); ctrl != "" {
				cw := textutil.VisualWidth(ctrl)
				cl.Control = cell.Control
				cl.ControlLabel = cell.Control.Label()
				cl.ControlX0 = x + w - cw
				cl.ControlX1 = x + w
			}
			row.Cells = append(row.Cells, cl)
			x += w + ColumnGap
		}
		l.Rows = append(l.Rows, row)
	}
	return l
}

// compose lays a cell out in exactly w columns. The control label, when it
// fits, is returned separately and always occupies the right edge.
func compose(c columns.Cell, w int, a columns.Align) (body, ctrl string) {
	textW := w
	if c.Control != columns.ControlNone {
		label := c.Control.Label()
		lw := textutil.VisualWidth(label)
		if lw+1 < w {
			ctrl = label
			textW = w - lw - 1
		}
	}
	text := c.Text
	if c.Bar != nil {
		if bw := textW - textutil.VisualWidth(text) - 1; bw >= minBarWidth {
			text = bar(*c.Bar, bw) + " " + text
		}
	}
	body = align(text, textW, a)
	if ctrl != "" {
		body += " "
	}
	return body, ctrl
}

func bar(frac float64, w int) string {
	filled := int(math.Round(max(0, min(frac, 1)) * float64(w)))
	return strings.Repeat("▰", filled) + strings.Repeat("▱", w-filled)
}

func align(s string, w int, a columns.Align) string {
	switch a {
	case columns.AlignRight:
		return textutil.PadLeftVisual(s, w)
	case columns.AlignCenter:
		return textutil.Center(s, w)
	}
	return textutil.PadRightVisual(s, w)
}
