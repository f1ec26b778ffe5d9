package binding

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"poolboard/internal/columns"
	"poolboard/internal/grid"
	"poolboard/internal/pool"
)

// Widget is the tabular renderer a binding owns. grid.Model satisfies it.
type Widget interface {
	Columns() []columns.Definition
	SetRecords(recs []pool.Record)
	Resize(width, height int)
	Layout() grid.Layout
	View() string
	Update(msg tea.Msg) tea.Cmd
	Close()
}

// Builder creates widgets. Build runs off the update loop and must return
// promptly with ctx.Err() once ctx is cancelled.
type Builder interface {
	Build(ctx context.Context, cols []columns.Definition, width, height int) (Widget, error)
}

// BuilderFunc adapts a function to Builder.
type BuilderFunc func(ctx context.Context, cols []columns.Definition, width, height int) (Widget, error)

// Build implements Builder.
func (f BuilderFunc) Build(ctx context.Context, cols []columns.Definition, width, height int) (Widget, error) {
	return f(ctx, cols, width, height)
}

// GridBuilder builds grid widgets with opts.
func GridBuilder(opts ...grid.Option) Builder {
	return BuilderFunc(func(ctx context.Context, cols []columns.Definition, width, height int) (Widget, error) {
		m, err := grid.Build(ctx, cols, width, height, opts...)
		if err != nil {
			return nil, err
		}
		return m, nil
	})
}

// Anchor is the place a widget is mounted into: a named region of the
// screen with a size. An anchor with no size cannot host a widget yet.
type Anchor struct {
	Name   string
	Width  int
	Height int
}

// Ready reports whether a widget can be built into the anchor.
func (a Anchor) Ready() bool {
	return a.Name != "" && a.Width > 0 && a.Height > 0
}
