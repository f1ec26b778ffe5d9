// Package dispatch turns row interactions on the pools table into actions.
//
// The dispatcher owns one listener per row the widget drew in its last
// repaint. Attach replaces the whole set from the widget's layout; nothing is
// patched in place, so rows the widget redrew never keep a listener that
// points at a record from an older snapshot. Detach drops the set.
package dispatch

import (
	"context"
	"fmt"
	"slices"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-logr/logr"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"poolboard/internal/columns"
	"poolboard/internal/grid"
	"poolboard/internal/pool"
)

// DoubleClickInterval is the longest gap between two clicks on the same row
// that still counts as a double click.
const DoubleClickInterval = 400 * time.Millisecond

// EventKind is the kind of interaction.
type EventKind int

const (
	EventClick EventKind = iota
	EventDoubleClick
	EventKey
)

func (k EventKind) String() string {
	switch k {
	case EventClick:
		return "click"
	case EventDoubleClick:
		return "double-click"
	case EventKey:
		return "key"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Activation keys for keyboard events.
const (
	KeySelect = "enter"
	KeyClaim  = "c"
	KeyCopy   = "y"
)

// Event is an interaction with the table. Click coordinates are relative to
// the widget's top-left corner. Key events act on the record at Row.
type Event struct {
	Kind EventKind
	X, Y int
	Key  string
	Row  int
}

// Click returns a click event at x, y.
func Click(x, y int) Event {
	return Event{Kind: EventClick, X: x, Y: y}
}

// KeyPress returns a keyboard activation of key on record index row.
func KeyPress(key string, row int) Event {
	return Event{Kind: EventKey, Key: key, Row: row}
}

// ActionKind is what an event resolved to.
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionSelect
	ActionCopy
	ActionClaim
)

func (k ActionKind) String() string {
	switch k {
	case ActionNone:
		return "none"
	case ActionSelect:
		return "select"
	case ActionCopy:
		return "copy"
	case ActionClaim:
		return "claim"
	}
	return fmt.Sprintf("ActionKind(%d)", int(k))
}

// Action is the outcome of Dispatch.
type Action struct {
	Kind   ActionKind
	Event  Event
	Record pool.Record
	// Text is the copied text for ActionCopy.
	Text string
}

// SelectFunc handles a row activation.
type SelectFunc func(rec pool.Record) tea.Cmd

// ClaimFunc handles a claim control activation.
type ClaimFunc func(ev Event, rec pool.Record) tea.Cmd

// Dispatcher classifies row interactions.
type Dispatcher struct {
	// layout holds one listener per drawn row.
	layout grid.Layout
	snap      pool.Snapshot
	attaches  int

	clipboard Clipboard
	notifier  Notifier
	onSelect  SelectFunc
	onClaim   ClaimFunc

	now       func() time.Time
	lastRow   int
	lastClick time.Time

	log    logr.Logger
	tracer trace.Tracer
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithClipboard sets the clipboard copies are written to.
func WithClipboard(c Clipboard) Option {
	return func(d *Dispatcher) { d.clipboard = c }
}

// WithNotifier sets the notifier copy results are reported through.
func WithNotifier(n Notifier) Option {
	return func(d *Dispatcher) { d.notifier = n }
}

// OnRowSelected sets the row activation handler.
func OnRowSelected(f SelectFunc) Option {
	return func(d *Dispatcher) { d.onSelect = f }
}

// OnClaim sets the claim handler.
func OnClaim(f ClaimFunc) Option {
	return func(d *Dispatcher) { d.onClaim = f }
}

// WithClock overrides the clock used for double-click detection.
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) { d.now = now }
}

// WithLogger sets the logger.
func WithLogger(l logr.Logger) Option {
	return func(d *Dispatcher) { d.log = l }
}

// WithTracer sets the tracer.
func WithTracer(t trace.Tracer) Option {
	return func(d *Dispatcher) { d.tracer = t }
}

// New creates a Dispatcher with no listeners.
func New(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		clipboard: SystemClipboard{},
		notifier:  NopNotifier{},
		now:       time.Now,
		lastRow:   -1,
		log:       logr.Discard(),
		tracer:    otel.Tracer("poolboard/internal/dispatch"),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Attach rebuilds the listener set from the rows in l, resolving records
// against snap.
func (d *Dispatcher) Attach(l grid.Layout, snap pool.Snapshot) {
	l.Rows = slices.Clone(l.Rows)
	d.layout = l
	d.snap = snap
	d.attaches++
}

// Detach removes every listener.
func (d *Dispatcher) Detach() {
	d.layout = grid.Layout{}
	d.snap = pool.Snapshot{}
	d.lastRow = -1
}

// Listeners returns the number of rows currently listened on.
func (d *Dispatcher) Listeners() int {
	return len(d.layout.Rows)
}

// Attaches returns how many times the listener set was rebuilt.
func (d *Dispatcher) Attaches() int {
	return d.attaches
}

// Dispatch classifies ev and returns the resulting action together with the
// command that carries out its side effect. Events that hit no listened row,
// or whose row no longer resolves to a record, yield ActionNone and no
// command.
func (d *Dispatcher) Dispatch(ev Event) (Action, tea.Cmd) {
	_, span := d.tracer.Start(context.Background(), "dispatch.event",
		trace.WithAttributes(attribute.String("event", ev.Kind.String())))
	defer span.End()

	act := d.classify(ev)
	span.SetAttributes(attribute.String("action", act.Kind.String()))
	if act.Kind != ActionNone {
		d.log.V(1).Info("row interaction", "event", act.Event.Kind.String(), "action", act.Kind.String(), "pool", act.Record.Key())
	}

	switch act.Kind {
	case ActionClaim:
		if d.onClaim != nil {
			return act, d.onClaim(act.Event, act.Record)
		}
	case ActionCopy:
		return act, d.Copy(act.Text)
	case ActionSelect:
		if d.onSelect != nil {
			return act, d.onSelect(act.Record)
		}
	}
	return act, nil
}

func (d *Dispatcher) classify(ev Event) Action {
	none := Action{Kind: ActionNone, Event: ev}

	var (
		row  grid.RowLayout
		ok   bool
		cell grid.CellLayout
		hit  bool
	)
	switch ev.Kind {
	case EventKey:
		row, ok = d.layout.RowByIndex(ev.Row)
		if !ok {
			return none
		}
		switch ev.Key {
		case KeyClaim:
			cell, hit = row.FirstControl(columns.ControlClaim)
		case KeyCopy:
			cell, hit = row.FirstControl(columns.ControlCopy)
		case KeySelect:
		default:
			return none
		}
		if (ev.Key == KeyClaim || ev.Key == KeyCopy) && !hit {
			return none
		}
	default:
		row, ok = d.layout.RowAt(ev.Y)
		if !ok {
			return none
		}
		ev = d.detectDouble(ev, row.Index)
		none.Event = ev
		if c, in := row.CellAt(ev.X); in && c.InControl(ev.X) {
			cell, hit = c, true
		}
	}

	switch {
	case hit && cell.Control == columns.ControlClaim && cell.ControlLabel == columns.ClaimLabel:
		rec, found := d.snap.Find(row.Key)
		if !found {
			return none
		}
		return Action{Kind: ActionClaim, Event: ev, Record: rec}
	case hit && cell.Control == columns.ControlCopy:
		rec, _ := d.snap.Find(row.Key)
		return Action{Kind: ActionCopy, Event: ev, Record: rec, Text: cell.Value}
	}
	rec, found := d.snap.Find(row.Key)
	if !found {
		return none
	}
	return Action{Kind: ActionSelect, Event: ev, Record: rec}
}

func (d *Dispatcher) detectDouble(ev Event, row int) Event {
	now := d.now()
	if ev.Kind == EventClick && row == d.lastRow && now.Sub(d.lastClick) <= DoubleClickInterval {
		ev.Kind = EventDoubleClick
		d.lastRow = -1
		return ev
	}
	d.lastRow, d.lastClick = row, now
	return ev
}
