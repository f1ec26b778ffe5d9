package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-logr/logr"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"poolboard/internal/binding"
	"poolboard/internal/columns"
	"poolboard/internal/dispatch"
	"poolboard/internal/filter"
	"poolboard/internal/pool"
)

// PoolsAnchor names the table region of the pools screen.
const PoolsAnchor = "pools"

// poolsFooterLines is the space kept below the table for toasts and hints.
const poolsFooterLines = 2

// Options configures NewAppModel. Zero values select defaults.
type Options struct {
	Context  context.Context
	Registry *columns.Registry
	Presets  *columns.Presets
	// Preset is the column preset shown at startup. It must exist in Presets.
	Preset string
	Filter string

	Source  pool.Source
	Claimer pool.Claimer
	Builder binding.Builder

	Clipboard dispatch.Clipboard
	Now       func() time.Time

	RefreshInterval time.Duration
	RequestTimeout  time.Duration
	ToastDuration   time.Duration

	Logger logr.Logger
	Tracer trace.Tracer
}

// AppModel is the root model. It switches between the pools table and the
// detail view of one pool, with modals stacked on top.
type AppModel struct {
	Mode       AppMode
	Pools      *PoolsView
	Detail     *PoolDetailView
	Overlays   OverlayStack
	KeyHandler *KeyHandler
	Toast      *Toaster
	Binding    *binding.Binding
	Dispatcher *dispatch.Dispatcher

	ctx       context.Context
	reg       *columns.Registry
	presets   *columns.Presets
	preset    string
	committed columns.Committed
	lastSel   *columns.Selection
	filter    *filter.Filter
	snap      pool.Snapshot

	source  pool.Source
	claimer pool.Claimer

	refreshInterval time.Duration
	timeout         time.Duration
	width, height   int

	log    logr.Logger
	tracer trace.Tracer
}

// Ensure AppModel can be used as tea.Model via adapter.
var _ tea.Model = (*appModelAdapter)(nil)

// appModelAdapter wraps AppModel to implement tea.Model.
type appModelAdapter struct {
	*AppModel
}

// NewAppModel creates the root application model. An unknown startup preset
// or a filter that does not compile is an error.
func NewAppModel(opts Options) (*AppModel, error) {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Registry == nil {
		opts.Registry = columns.Default()
	}
	if opts.Presets == nil {
		opts.Presets = columns.DefaultPresets()
	}
	if opts.Preset == "" {
		opts.Preset = columns.DefaultPreset
	}
	if err := opts.Presets.Require(opts.Preset); err != nil {
		return nil, err
	}
	if opts.Builder == nil {
		opts.Builder = binding.GridBuilder()
	}
	if opts.Tracer == nil {
		opts.Tracer = otel.Tracer("poolboard/ui")
	}
	if opts.Logger.GetSink() == nil {
		opts.Logger = logr.Discard()
	}
	if opts.Claimer == nil {
		if c, ok := opts.Source.(pool.Claimer); ok {
			opts.Claimer = c
		}
	}

	committed := columns.FromPreset(opts.Registry, opts.Presets, opts.Preset)
	f, err := filter.Compile(opts.Filter, committed.Definitions())
	if err != nil {
		return nil, err
	}

	m := &AppModel{
		Mode:            ModePools,
		Pools:           NewPoolsView(),
		Toast:           NewToaster(opts.ToastDuration),
		ctx:             opts.Context,
		reg:             opts.Registry,
		presets:         opts.Presets,
		preset:          opts.Preset,
		committed:       committed,
		filter:          f,
		source:          opts.Source,
		claimer:         opts.Claimer,
		refreshInterval: opts.RefreshInterval,
		timeout:         opts.RequestTimeout,
		log:             opts.Logger,
		tracer:          opts.Tracer,
	}
	m.Pools.Preset = m.preset
	m.Pools.Filter = f.Query()
	m.Pools.Table = func() string { return m.Binding.View(PoolsAnchor) }

	dopts := []dispatch.Option{
		dispatch.WithNotifier(m.Toast),
		dispatch.OnRowSelected(func(rec pool.Record) tea.Cmd {
			return func() tea.Msg { return SelectPoolMsg{Record: rec} }
		}),
		dispatch.OnClaim(func(_ dispatch.Event, rec pool.Record) tea.Cmd {
			return func() tea.Msg { return ShowClaimConfirmMsg{Record: rec} }
		}),
		dispatch.WithLogger(m.log.WithName("dispatch")),
		dispatch.WithTracer(m.tracer),
	}
	if opts.Clipboard != nil {
		dopts = append(dopts, dispatch.WithClipboard(opts.Clipboard))
	}
	if opts.Now != nil {
		dopts = append(dopts, dispatch.WithClock(opts.Now))
	}
	m.Dispatcher = dispatch.New(dopts...)

	m.Binding = binding.New(m.ctx, opts.Builder,
		binding.WithLogger(m.log.WithName("binding")),
		binding.WithTracer(m.tracer),
		binding.WithRepaintHook(func(_ string, w binding.Widget, snap pool.Snapshot) {
			m.Dispatcher.Attach(w.Layout(), snap)
		}),
		binding.WithTeardownHook(func(string) {
			m.Dispatcher.Detach()
		}),
	)
	// The anchor has no size until the first WindowSizeMsg; the bind is
	// deferred until then.
	m.Binding.Bind(PoolsAnchor, m.committed.Definitions(), m.visible())

	m.KeyHandler = NewKeyHandler(m.keybinds())
	return m, nil
}

// keybinds registers the application key sequences. Row keys act on the
// table cursor through the dispatcher.
func (m *AppModel) keybinds() *KeybindRegistry {
	reg := NewKeybindRegistry()
	pools, detail := InModes(ModePools), InModes(ModePoolDetail)

	reg.Bind(dispatch.KeySelect, "details", m.activateRow(dispatch.KeySelect), pools, InFooter())
	reg.Bind(dispatch.KeyClaim, "claim", m.activateRow(dispatch.KeyClaim), pools, InFooter())
	reg.Bind(dispatch.KeyCopy, "copy", m.activateRow(dispatch.KeyCopy), pools, InFooter())
	reg.Bind("esc", "back", m.closeDetail, detail, InFooter())
	reg.Bind("c", "claim", m.claimDetail, detail, InFooter())
	reg.Bind("y", "copy address", m.copyDetail, detail, InFooter())
	reg.Bind("/", "filter", Send(ShowFilterMsg{}), pools, InFooter())
	reg.Bind("r", "refresh", Send(RefreshMsg{}), InFooter())
	reg.Bind("q", "quit", Run(tea.Quit), InFooter())
	reg.Bind("ctrl+c", "quit", Run(tea.Quit))

	reg.Bind("SPC q", "Quit", Run(tea.Quit))
	reg.Bind("SPC r", "Refresh", Send(RefreshMsg{}))
	reg.Bind("SPC f", "Filter", Send(ShowFilterMsg{}), pools)
	reg.Bind("SPC c c", "Customize", Send(ShowCustomizeMsg{}), pools)
	reg.Bind("SPC c p", "Preset", Send(ShowPresetPickerMsg{}), pools)
	return reg
}

// AsTeaModel returns a tea.Model adapter for use with tea.NewProgram.
func (m *AppModel) AsTeaModel() tea.Model {
	return &appModelAdapter{AppModel: m}
}

// Preset returns the name of the preset the committed columns came from.
func (m *AppModel) Preset() string {
	return m.preset
}

// Committed returns the column list bound to the table.
func (m *AppModel) Committed() columns.Committed {
	return m.committed
}

// Snapshot returns the latest snapshot received, before filtering.
func (m *AppModel) Snapshot() pool.Snapshot {
	return m.snap
}

// visible returns the latest snapshot narrowed by the row filter.
func (m *AppModel) visible() pool.Snapshot {
	return m.filter.Apply(m.snap)
}

// tableHeight is the height of the pools anchor for the current window.
func (m *AppModel) tableHeight() int {
	return m.height - PoolsHeaderLines - poolsFooterLines
}

// Init implements tea.Model.
func (a *appModelAdapter) Init() tea.Cmd {
	cmds := []tea.Cmd{a.Pools.Init(), tickCmd(a.refreshInterval)}
	if a.source != nil {
		cmds = append(cmds, a.Pools.SetLoading(true), refreshCmd(a.ctx, a.source, a.timeout))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (a *appModelAdapter) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return a.handleWindowSize(msg)
	case binding.ReadyMsg:
		return a, a.Binding.HandleReady(msg)
	case binding.RepaintedMsg:
		return a, nil
	case spinner.TickMsg:
		_, cmd := a.Pools.Update(msg)
		return a, cmd
	case SnapshotMsg:
		return a.handleSnapshot(msg)
	case RefreshMsg:
		return a.handleRefresh()
	case tickMsg:
		_, cmd := a.handleRefresh()
		return a, tea.Batch(cmd, tickCmd(a.refreshInterval))
	case dispatch.CopiedMsg:
		return a, a.Dispatcher.HandleCopied(msg)
	case toastExpiredMsg:
		a.Toast.expire(msg.id)
		return a, nil
	case SelectPoolMsg:
		return a.handleSelectPool(msg)
	case ShowCustomizeMsg:
		return a.handleShowCustomize()
	case ApplyColumnsMsg:
		return a.handleApplyColumns(msg)
	case ShowPresetPickerMsg:
		return a.handleShowPresetPicker()
	case SelectPresetMsg:
		return a.handleSelectPreset(msg)
	case ShowFilterMsg:
		return a.handleShowFilter()
	case SetFilterMsg:
		return a.handleSetFilter(msg)
	case ShowClaimConfirmMsg:
		return a.handleShowClaimConfirm(msg)
	case ClaimMsg:
		return a.handleClaim(msg)
	case ClaimResultMsg:
		return a.handleClaimResult(msg)
	case DismissModalMsg:
		a.Overlays.Pop()
		return a, nil
	case tea.MouseMsg:
		return a.handleMouse(msg)
	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	if cmd, ok := a.Overlays.UpdateTop(msg); ok {
		return a, cmd
	}
	v, cmd := a.currentView().Update(msg)
	a.setCurrentView(v)
	return a, cmd
}

// View implements tea.Model.
func (a *appModelAdapter) View() string {
	base := a.currentView().View()
	if a.height > 0 {
		base = lipgloss.NewStyle().Height(a.height - poolsFooterLines).MaxHeight(a.height - poolsFooterLines).Render(base)
	}
	base += "\n" + a.footer()

	if modal, ok := a.Overlays.Render(a.width, a.height); ok {
		return modal
	}
	return base
}

// footer renders the leader help, the toast, or the key hints.
func (a *appModelAdapter) footer() string {
	if a.KeyHandler != nil && a.KeyHandler.LeaderWaiting {
		return RenderKeybindHelp(a.KeyHandler, a.Mode)
	}
	if t := a.Toast.View(); t != "" {
		return t
	}
	return RenderFooterHints(a.KeyHandler, a.Mode, a.width)
}

func (a *appModelAdapter) currentView() View {
	if a.Mode == ModePoolDetail && a.Detail != nil {
		return a.Detail
	}
	return a.Pools
}

func (a *appModelAdapter) setCurrentView(v View) {
	switch a.Mode {
	case ModePools:
		if p, ok := v.(*PoolsView); ok {
			a.Pools = p
		}
	case ModePoolDetail:
		if d, ok := v.(*PoolDetailView); ok {
			a.Detail = d
		}
	}
}
