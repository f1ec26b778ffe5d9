package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.opentelemetry.io/otel/attribute"

	"poolboard/internal/binding"
	"poolboard/internal/columns"
	"poolboard/internal/dispatch"
	"poolboard/internal/filter"
)

// cursorWidget is implemented by widgets with a row cursor, such as grid.Model.
type cursorWidget interface {
	Cursor() int
}

// handleWindowSize mounts the table anchor at the new size. The first size
// starts the bind deferred at construction.
func (a *appModelAdapter) handleWindowSize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	a.width, a.height = msg.Width, msg.Height
	a.Pools.Update(msg)
	if a.Detail != nil {
		a.Detail.Update(tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - poolsFooterLines})
	}
	return a, a.Binding.Mount(binding.Anchor{Name: PoolsAnchor, Width: a.width, Height: a.tableHeight()})
}

// handleSnapshot stores a new snapshot and pushes its visible rows into the
// table. The committed columns are not touched. Only the answer to the
// app's own refresh ends the loading state; pushed snapshots leave it alone.
func (a *appModelAdapter) handleSnapshot(msg SnapshotMsg) (tea.Model, tea.Cmd) {
	var stop tea.Cmd
	if msg.FromRefresh {
		stop = a.Pools.SetLoading(false)
	}
	if msg.Err != nil {
		a.log.Error(msg.Err, "refresh failed")
		a.Pools.Err = msg.Err
		return a, tea.Batch(stop, a.Toast.Error("Refresh failed: "+msg.Err.Error()))
	}
	if msg.Snapshot.Seq != 0 && msg.Snapshot.Seq < a.snap.Seq {
		a.log.V(1).Info("dropping out-of-order snapshot", "seq", msg.Snapshot.Seq, "current", a.snap.Seq)
		return a, stop
	}
	a.snap = msg.Snapshot
	vis := a.visible()
	a.Pools.SetSnapshot(a.snap, vis.Len())
	if a.Detail != nil {
		if rec, ok := a.snap.Find(a.Detail.Record.Key()); ok {
			a.Detail.SetRecord(rec)
		}
	}
	a.log.V(1).Info("snapshot received", "seq", a.snap.Seq, "pools", a.snap.Len(), "visible", vis.Len())
	return a, tea.Batch(stop, a.Binding.Push(PoolsAnchor, vis))
}

// handleRefresh asks the source for a new snapshot unless one is in flight.
func (a *appModelAdapter) handleRefresh() (tea.Model, tea.Cmd) {
	if a.source == nil || a.Pools.Loading() {
		return a, nil
	}
	return a, tea.Batch(a.Pools.SetLoading(true), refreshCmd(a.ctx, a.source, a.timeout))
}

// handleSelectPool opens the detail view for the selected pool.
func (a *appModelAdapter) handleSelectPool(msg SelectPoolMsg) (tea.Model, tea.Cmd) {
	a.Mode = ModePoolDetail
	a.Detail = NewPoolDetailView(msg.Record, a.reg.Definitions())
	if a.width > 0 {
		a.Detail.Update(tea.WindowSizeMsg{Width: a.width, Height: a.height - poolsFooterLines})
	}
	return a, a.Detail.Init()
}

// handleShowCustomize opens the customize dialog seeded from the current
// preset and the last applied selection.
func (a *appModelAdapter) handleShowCustomize() (tea.Model, tea.Cmd) {
	modal := NewCustomizeModal(a.reg, a.presets, a.preset, a.committed, a.lastSel)
	a.Overlays.Push(Overlay{View: modal, Dismiss: "esc"})
	return a, modal.Init()
}

// handleApplyColumns reconciles the dialog's selection into the committed
// list and rebinds the table. The commit completes before the bind command
// is issued, so snapshots queued meanwhile see the new columns.
func (a *appModelAdapter) handleApplyColumns(msg ApplyColumnsMsg) (tea.Model, tea.Cmd) {
	a.Overlays.Pop()
	_, span := a.tracer.Start(a.ctx, "columns.apply")
	defer span.End()

	next, err := columns.Apply(a.reg, a.committed, msg.Selection)
	if err != nil {
		span.RecordError(err)
		a.log.Error(err, "apply columns")
		return a, a.Toast.Error(fmt.Sprintf("Apply columns: %v", err))
	}
	span.SetAttributes(attribute.StringSlice("columns", next.Titles()))
	if msg.Preset != "" {
		a.preset = msg.Preset
		a.Pools.Preset = msg.Preset
	}
	if msg.Selection != nil {
		a.lastSel = msg.Selection.Clone()
	}
	return a, a.commit(next)
}

// handleShowPresetPicker opens the preset picker.
func (a *appModelAdapter) handleShowPresetPicker() (tea.Model, tea.Cmd) {
	modal := NewPresetPickerModal(a.presets.Names(), a.preset)
	a.Overlays.Push(Overlay{View: modal, Dismiss: "esc"})
	return a, modal.Init()
}

// handleSelectPreset replaces the committed columns with a preset's. An
// unknown name yields an empty column list.
func (a *appModelAdapter) handleSelectPreset(msg SelectPresetMsg) (tea.Model, tea.Cmd) {
	a.Overlays.Pop()
	a.preset = msg.Name
	a.Pools.Preset = msg.Name
	a.lastSel = nil
	return a, a.commit(columns.FromPreset(a.reg, a.presets, msg.Name))
}

// commit makes next the committed list and binds it.
func (a *appModelAdapter) commit(next columns.Committed) tea.Cmd {
	a.committed = next
	// Substring filters search the filterable columns on display.
	if f, err := filter.Compile(a.filter.Query(), next.Definitions()); err == nil {
		a.filter = f
	}
	vis := a.visible()
	a.Pools.SetSnapshot(a.snap, vis.Len())
	return a.Binding.Bind(PoolsAnchor, next.Definitions(), vis)
}

// handleShowFilter opens the filter prompt with the current query.
func (a *appModelAdapter) handleShowFilter() (tea.Model, tea.Cmd) {
	modal := NewFilterModal(a.filter.Query())
	a.Overlays.Push(Overlay{View: modal, Dismiss: "esc"})
	return a, modal.Init()
}

// handleSetFilter replaces the row filter and pushes the narrowed rows.
func (a *appModelAdapter) handleSetFilter(msg SetFilterMsg) (tea.Model, tea.Cmd) {
	a.Overlays.Pop()
	f, err := filter.Compile(msg.Query, a.committed.Definitions())
	if err != nil {
		return a, a.Toast.Error(fmt.Sprintf("Filter: %v", err))
	}
	a.filter = f
	a.Pools.Filter = f.Query()
	vis := a.visible()
	a.Pools.SetSnapshot(a.snap, vis.Len())
	return a, a.Binding.Push(PoolsAnchor, vis)
}

// handleShowClaimConfirm asks before submitting a claim.
func (a *appModelAdapter) handleShowClaimConfirm(msg ShowClaimConfirmMsg) (tea.Model, tea.Cmd) {
	modal := NewClaimConfirmModal(msg.Record)
	a.Overlays.Push(Overlay{View: modal, Dismiss: "esc"})
	return a, modal.Init()
}

// handleClaim submits a confirmed claim to the claimer.
func (a *appModelAdapter) handleClaim(msg ClaimMsg) (tea.Model, tea.Cmd) {
	a.Overlays.Pop()
	a.log.Info("claiming reward", "pool", msg.Record.Key())
	return a, claimCmd(a.ctx, a.claimer, msg.Record, a.timeout)
}

// handleClaimResult reports the claim outcome and refreshes on success.
func (a *appModelAdapter) handleClaimResult(msg ClaimResultMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		a.log.Error(msg.Err, "claim failed", "pool", msg.Record.Key())
		return a, a.Toast.Error(claimError(msg.Err))
	}
	_, refresh := a.handleRefresh()
	return a, tea.Batch(a.Toast.Notify("Claimed rewards of "+msg.Record.Key()), refresh)
}

// handleMouse routes left clicks on the table to the dispatcher and the
// wheel to the table cursor.
func (a *appModelAdapter) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if a.Overlays.Len() > 0 || a.Mode != ModePools {
		return a, nil
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		return a, a.Binding.Update(PoolsAnchor, tea.KeyMsg{Type: tea.KeyUp})
	case tea.MouseButtonWheelDown:
		return a, a.Binding.Update(PoolsAnchor, tea.KeyMsg{Type: tea.KeyDown})
	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress {
			return a, nil
		}
		_, cmd := a.Dispatcher.Dispatch(dispatch.Click(msg.X, msg.Y-PoolsHeaderLines))
		return a, cmd
	}
	return a, nil
}

// handleKey routes a key press: overlays first, then key bindings of the
// current mode, then the focused view.
func (a *appModelAdapter) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if top, ok := a.Overlays.Peek(); ok {
		if top.IsDismissKey(msg.String()) {
			a.Overlays.Pop()
			return a, nil
		}
		cmd, _ := a.Overlays.UpdateTop(msg)
		return a, cmd
	}

	if consumed, cmd := a.KeyHandler.Handle(msg, a.Mode); consumed {
		return a, cmd
	}

	if a.Mode == ModePoolDetail && a.Detail != nil {
		v, cmd := a.Detail.Update(msg)
		a.setCurrentView(v)
		return a, cmd
	}
	return a, a.Binding.Update(PoolsAnchor, msg)
}

// activateRow dispatches key k on the row under the table cursor.
func (m *AppModel) activateRow(k string) KeyAction {
	return func() tea.Cmd {
		w, ok := m.Binding.Widget(PoolsAnchor)
		if !ok {
			return nil
		}
		cw, ok := w.(cursorWidget)
		if !ok {
			return nil
		}
		_, cmd := m.Dispatcher.Dispatch(dispatch.KeyPress(k, cw.Cursor()))
		return cmd
	}
}

// closeDetail returns to the pools table.
func (m *AppModel) closeDetail() tea.Cmd {
	m.Mode = ModePools
	m.Detail = nil
	return nil
}

// claimDetail asks to claim the rewards of the pool in the detail view.
func (m *AppModel) claimDetail() tea.Cmd {
	if m.Detail == nil || !m.Detail.Claimable() {
		return nil
	}
	return Send(ShowClaimConfirmMsg{Record: m.Detail.Record})()
}

// copyDetail copies the staking address of the pool in the detail view.
func (m *AppModel) copyDetail() tea.Cmd {
	if m.Detail == nil {
		return nil
	}
	return m.Dispatcher.Copy(m.Detail.Record.StakingAddress)
}

// Close tears down the table binding. Call it once the program has exited.
func (m *AppModel) Close() {
	m.Binding.Teardown()
}
