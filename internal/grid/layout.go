package grid

import "poolboard/internal/columns"

// Layout describes where rows and cells were drawn in the last View, in
// coordinates relative to the widget's top-left corner. It is rebuilt on every
// repaint; nothing holds on to a previous Layout.
type Layout struct {
	HeaderHeight int
	Width        int
	Rows         []RowLayout
}

// RowLayout is one rendered data row.
type RowLayout struct {
	Index int    // position in the widget's records
	Y     int    // line within the widget
	Key   string // identifying key of the record drawn on this row
	Cells []CellLayout
}

// CellLayout is one rendered cell. X1 and ControlX1 are exclusive.
type CellLayout struct {
	Column       string
	X0, X1       int
	Text         string // full cell text, before truncation
	Value        string // what a copy control copies
	Control      columns.Control
	ControlLabel string
	ControlX0    int
	ControlX1    int
}

// HasControl reports whether the cell drew a control.
func (c CellLayout) HasControl() bool {
	return c.Control != columns.ControlNone && c.ControlX1 > c.ControlX0
}

// InControl reports whether x falls on the cell's control.
func (c CellLayout) InControl(x int) bool {
	return c.HasControl() && x >= c.ControlX0 && x < c.ControlX1
}

// Contains reports whether x falls inside the cell.
func (c CellLayout) Contains(x int) bool {
	return x >= c.X0 && x < c.X1
}

// RowAt returns the row drawn on line y.
func (l Layout) RowAt(y int) (RowLayout, bool) {
	for _, r := range l.Rows {
		if r.Y == y {
			return r, true
		}
	}
	return RowLayout{}, false
}

// RowByIndex returns the row drawing record index i, if visible.
func (l Layout) RowByIndex(i int) (RowLayout, bool) {
	for _, r := range l.Rows {
		if r.Index == i {
			return r, true
		}
	}
	return RowLayout{}, false
}

// CellAt returns the cell of r containing x.
func (r RowLayout) CellAt(x int) (CellLayout, bool) {
	for _, c := range r.Cells {
		if c.Contains(x) {
			return c, true
		}
	}
	return CellLayout{}, false
}

// FirstControl returns the first cell of r drawing control c.
func (r RowLayout) FirstControl(c columns.Control) (CellLayout, bool) {
	for _, cell := range r.Cells {
		if cell.Control == c && cell.HasControl() {
			return cell, true
		}
	}
	return CellLayout{}, false
}
