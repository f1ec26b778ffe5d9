// Package binding owns the live association between a committed column list,
// the latest data snapshot, and the widget drawing them.
//
// Widget construction is asynchronous: Bind returns a tea.Cmd that runs the
// Builder and reports back with a single ReadyMsg. Data pushed while the
// widget is being built is held and applied when the ReadyMsg arrives.
// Every ReadyMsg carries the generation of the build that produced it, so a
// build superseded by a later Bind (or by Unmount) is recognised and its
// widget discarded.
//
// A Binding is driven from the Bubble Tea update loop and is not safe for
// concurrent use.
package binding

import (
	"context"
	"fmt"
	"slices"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-logr/logr"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"poolboard/internal/columns"
	"poolboard/internal/pool"
)

// State is the lifecycle state of one anchor's widget.
type State int

const (
	StateUninitialized State = iota
	StateWaiting
	StateBound
	StateTornDown
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateWaiting:
		return "waiting"
	case StateBound:
		return "bound"
	case StateTornDown:
		return "torn-down"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// ReadyMsg reports the outcome of a widget build.
type ReadyMsg struct {
	Anchor string
	Gen    uint64
	Widget Widget
	Err    error
}

// RepaintedMsg is emitted after a widget drew new rows: a build completed,
// data was pushed, the anchor was resized, or the widget scrolled.
type RepaintedMsg struct {
	Anchor string
	Seq    uint64
}

// RepaintFunc is called synchronously after every repaint with the widget
// and the snapshot it now shows.
type RepaintFunc func(anchor string, w Widget, snap pool.Snapshot)

// TeardownFunc is called when an anchor's widget is discarded.
type TeardownFunc func(anchor string)

type slot struct {
	anchor  Anchor
	mounted bool
	state   State

	gen      uint64
	cancel   context.CancelFunc
	building []string

	widget Widget
	cols   []columns.Definition
	snap   pool.Snapshot
	// deferred marks a Bind that could not start because the anchor was
	// missing; it is retried by Mount.
	deferred bool
}

// release cancels the in-flight build, if any. The cancel func is dropped
// after the first call.
func (s *slot) release() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.building = nil
}

// Binding manages one widget per anchor.
type Binding struct {
	ctx        context.Context
	builder    Builder
	slots      map[string]*slot
	log        logr.Logger
	tracer     trace.Tracer
	onRepaint  RepaintFunc
	onTeardown TeardownFunc
}

// Option configures a Binding.
type Option func(*Binding)

// WithLogger sets the logger.
func WithLogger(l logr.Logger) Option {
	return func(b *Binding) { b.log = l }
}

// WithTracer sets the tracer spans are recorded with.
func WithTracer(t trace.Tracer) Option {
	return func(b *Binding) { b.tracer = t }
}

// WithRepaintHook sets the function run after every repaint.
func WithRepaintHook(f RepaintFunc) Option {
	return func(b *Binding) { b.onRepaint = f }
}

// WithTeardownHook sets the function run when a widget is discarded.
func WithTeardownHook(f TeardownFunc) Option {
	return func(b *Binding) { b.onTeardown = f }
}

// New creates a Binding. Builds run under ctx; cancelling it aborts them.
func New(ctx context.Context, builder Builder, opts ...Option) *Binding {
	b := &Binding{
		ctx:     ctx,
		builder: builder,
		slots:   make(map[string]*slot),
		log:     logr.Discard(),
		tracer:  otel.Tracer("poolboard/internal/binding"),
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

func (b *Binding) slot(name string) *slot {
	s, ok := b.slots[name]
	if !ok {
		s = &slot{anchor: Anchor{Name: name}}
		b.slots[name] = s
	}
	return s
}

// State returns the lifecycle state of the named anchor.
func (b *Binding) State(name string) State {
	if s, ok := b.slots[name]; ok {
		return s.state
	}
	return StateUninitialized
}

// Widget returns the bound widget of the named anchor.
func (b *Binding) Widget(name string) (Widget, bool) {
	s, ok := b.slots[name]
	if !ok || s.widget == nil {
		return nil, false
	}
	return s.widget, true
}

// Snapshot returns the latest snapshot given for the named anchor, whether
// or not it has been applied yet.
func (b *Binding) Snapshot(name string) pool.Snapshot {
	if s, ok := b.slots[name]; ok {
		return s.snap
	}
	return pool.Snapshot{}
}

// Columns returns the column list last bound to the named anchor.
func (b *Binding) Columns(name string) []columns.Definition {
	if s, ok := b.slots[name]; ok {
		return slices.Clone(s.cols)
	}
	return nil
}

// Deferred reports whether a bind is waiting for the anchor to be mounted.
func (b *Binding) Deferred(name string) bool {
	s, ok := b.slots[name]
	return ok && s.deferred
}

// Mount records the anchor's presence and size. A bind deferred for lack of
// an anchor is started now; a bound widget is resized.
func (b *Binding) Mount(a Anchor) tea.Cmd {
	s := b.slot(a.Name)
	if s.state == StateTornDown {
		s.state = StateUninitialized
	}
	resized := s.anchor.Width != a.Width || s.anchor.Height != a.Height
	s.anchor = a
	s.mounted = true
	if !a.Ready() {
		return nil
	}
	if s.deferred {
		s.deferred = false
		b.log.V(1).Info("retrying deferred bind", "anchor", a.Name)
		return b.bind(s)
	}
	if s.widget != nil && resized {
		s.widget.Resize(a.Width, a.Height)
		return b.repainted(s)
	}
	return nil
}

// Bind shows snap with cols in the named anchor. When the anchor has no
// widget, or the widget shows a different column list, a new widget is
// built and the returned command yields its ReadyMsg. Otherwise the data is
// pushed into the existing widget.
func (b *Binding) Bind(name string, cols []columns.Definition, snap pool.Snapshot) tea.Cmd {
	s := b.slot(name)
	s.cols = slices.Clone(cols)
	s.snap = snap
	if !s.mounted || !s.anchor.Ready() {
		s.deferred = true
		b.log.V(1).Info("anchor missing, bind deferred", "anchor", name)
		return nil
	}
	return b.bind(s)
}

func (b *Binding) bind(s *slot) tea.Cmd {
	titles := columns.Titles(s.cols)
	if s.widget != nil && slices.Equal(columns.Titles(s.widget.Columns()), titles) {
		return b.push(s)
	}
	if s.state == StateWaiting && slices.Equal(s.building, titles) {
		// The build in flight already has these columns; it picks up
		// s.snap when it is ready.
		return nil
	}
	if s.widget != nil {
		b.discard(s)
	}
	return b.start(s)
}

// start launches a build for s, superseding any build in flight.
func (b *Binding) start(s *slot) tea.Cmd {
	s.release()
	s.gen++
	ctx, cancel := context.WithCancel(b.ctx)
	s.cancel = cancel
	s.state = StateWaiting
	s.building = columns.Titles(s.cols)

	name, gen := s.anchor.Name, s.gen
	cols := slices.Clone(s.cols)
	width, height := s.anchor.Width, s.anchor.Height
	builder := b.builder
	tracer := b.tracer
	attrs := trace.WithAttributes(
		attribute.String("anchor", name),
		attribute.Int64("generation", int64(gen)),
		attribute.StringSlice("columns", s.building),
	)
	b.log.V(1).Info("building widget", "anchor", name, "generation", gen, "columns", s.building)

	return func() tea.Msg {
		_, span := tracer.Start(ctx, "binding.build", attrs)
		defer span.End()
		w, err := builder.Build(ctx, cols, width, height)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		return ReadyMsg{Anchor: name, Gen: gen, Widget: w, Err: err}
	}
}

// Push replaces the data of the named anchor. A bound widget is updated in
// place; otherwise the snapshot is held until the widget is ready.
func (b *Binding) Push(name string, snap pool.Snapshot) tea.Cmd {
	s := b.slot(name)
	s.snap = snap
	if s.state != StateBound || s.widget == nil {
		return nil
	}
	return b.push(s)
}

func (b *Binding) push(s *slot) tea.Cmd {
	s.widget.SetRecords(s.snap.Records)
	return b.repainted(s)
}

// HandleReady completes a build. A ReadyMsg from a superseded or cancelled
// build is dropped and its widget closed.
func (b *Binding) HandleReady(msg ReadyMsg) tea.Cmd {
	_, span := b.tracer.Start(b.ctx, "binding.ready", trace.WithAttributes(
		attribute.String("anchor", msg.Anchor),
		attribute.Int64("generation", int64(msg.Gen)),
	))
	defer span.End()

	s, ok := b.slots[msg.Anchor]
	if !ok || s.state != StateWaiting || msg.Gen != s.gen {
		if msg.Widget != nil {
			msg.Widget.Close()
		}
		span.SetAttributes(attribute.Bool("stale", true))
		b.log.V(1).Info("ignoring stale widget", "anchor", msg.Anchor, "generation", msg.Gen)
		return nil
	}
	s.release()

	if msg.Err != nil || msg.Widget == nil {
		err := msg.Err
		if err == nil {
			err = fmt.Errorf("builder returned no widget")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		b.log.Error(err, "widget build failed", "anchor", msg.Anchor)
		s.state = StateUninitialized
		s.deferred = true
		return nil
	}

	s.widget = msg.Widget
	s.state = StateBound
	if s.anchor.Ready() {
		s.widget.Resize(s.anchor.Width, s.anchor.Height)
	}
	return b.push(s)
}

// Update forwards msg to the bound widget of the named anchor, so it can
// move its cursor or scroll.
func (b *Binding) Update(name string, msg tea.Msg) tea.Cmd {
	s, ok := b.slots[name]
	if !ok || s.widget == nil {
		return nil
	}
	cmd := s.widget.Update(msg)
	return tea.Batch(cmd, b.repainted(s))
}

// View renders the named anchor's widget, or "" when none is bound.
func (b *Binding) View(name string) string {
	if w, ok := b.Widget(name); ok {
		return w.View()
	}
	return ""
}

// Unmount tears down the named anchor: the build in flight is cancelled, the
// widget closed and listeners released.
func (b *Binding) Unmount(name string) {
	s, ok := b.slots[name]
	if !ok || s.state == StateTornDown {
		return
	}
	s.release()
	b.discard(s)
	s.state = StateTornDown
	s.mounted = false
	s.deferred = false
	s.cols = nil
	s.snap = pool.Snapshot{}
	b.log.V(1).Info("anchor torn down", "anchor", name)
}

// Teardown unmounts every anchor.
func (b *Binding) Teardown() {
	for name := range b.slots {
		b.Unmount(name)
	}
}

func (b *Binding) discard(s *slot) {
	if s.widget == nil {
		return
	}
	s.widget.Close()
	s.widget = nil
	if b.onTeardown != nil {
		b.onTeardown(s.anchor.Name)
	}
}

func (b *Binding) repainted(s *slot) tea.Cmd {
	if b.onRepaint != nil {
		b.onRepaint(s.anchor.Name, s.widget, s.snap)
	}
	msg := RepaintedMsg{Anchor: s.anchor.Name, Seq: s.snap.Seq}
	return func() tea.Msg { return msg }
}
