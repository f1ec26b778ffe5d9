// Package columns holds the column catalog of the pools table and the engine
// that reconciles a user's column selection into the committed column list.
//
// Everything here is pure: the registry and preset catalog are immutable once
// built, and Apply derives a new committed list without side effects.
package columns

import "poolboard/internal/pool"

// Control identifies an interactive region rendered inside a cell.
type Control int

const (
	ControlNone Control = iota
	ControlCopy
	ControlClaim
)

func (c Control) String() string {
	switch c {
	case ControlNone:
		return "none"
	case ControlCopy:
		return "copy"
	case ControlClaim:
		return "claim"
	default:
		return "unknown"
	}
}

// Label is the text a control is rendered with.
func (c Control) Label() string {
	switch c {
	case ControlCopy:
		return "⧉"
	case ControlClaim:
		return ClaimLabel
	}
	return ""
}

// ClaimLabel is the literal label of the claim control.
const ClaimLabel = "Claim"

// Align is the horizontal alignment hint of a column.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
	AlignCenter
)

// Cell is the display representation of one value.
type Cell struct {
	Text    string
	Control Control
	// Value is what a copy control copies; defaults to Text.
	Value string
	// Bar, when non-nil, is a 0..1 fraction drawn as a progress bar before Text.
	Bar *float64
	// Tone is a semantic color hint: "", "ok", "bad", "muted".
	Tone string
}

// CopyValue returns the text a copy control should place on the clipboard.
func (c Cell) CopyValue() string {
	if c.Value != "" {
		return c.Value
	}
	return c.Text
}

// Renderer maps a record to the cell shown for one column. Renderers must not
// panic on missing or malformed fields; they return a placeholder instead.
type Renderer func(rec pool.Record) Cell

// Definition describes one displayable column.
type Definition struct {
	Title      string
	Field      string
	Render     Renderer
	Width      int // 0 means size to content
	Align      Align
	Tooltip    string
	Filterable bool
	Group      string
}

// Cell renders rec for this column, recovering a placeholder when the
// definition has no renderer.
func (d Definition) Cell(rec pool.Record) Cell {
	if d.Render == nil {
		return Cell{Text: Placeholder, Tone: "muted"}
	}
	return d.Render(rec)
}

// Placeholder is shown for missing or malformed values.
const Placeholder = "—"

// Titles returns the titles of defs in order.
func Titles(defs []Definition) []string {
	out := make([]string, len(defs))
	for i, d := range defs {
		out[i] = d.Title
	}
	return out
}
