package ui

import (
	"slices"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"poolboard/internal/columns"
)

func newCustomize(t *testing.T, preset string) *CustomizeModal {
	t.Helper()
	reg := columns.Default()
	presets := columns.DefaultPresets()
	return NewCustomizeModal(reg, presets, preset, columns.FromPreset(reg, presets, preset), nil)
}

func TestCustomizeModal_LegendsAndButtons(t *testing.T) {
	m := newCustomize(t, columns.DefaultPreset)
	out := m.View()
	for _, want := range []string{"Key Generation", "Node status", "My Finance", "Apply Changes", "Close", "‹ Default ›"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestCustomizeModal_ToggleAndApply(t *testing.T) {
	m := newCustomize(t, columns.DefaultPreset)
	m.SetCursor("K1")
	m.Update(keyMsg(" "))
	if !m.Selection().Visible("K1") {
		t.Fatal("space should make K1 visible")
	}

	m.Update(keyMsg("tab"))
	if m.Focus() != customizeFocusApply {
		t.Fatalf("focus = %q, want apply", m.Focus())
	}
	_, cmd := m.Update(keyMsg("enter"))
	if cmd == nil {
		t.Fatal("enter on Apply Changes should produce a command")
	}
	msg, ok := cmd().(ApplyColumnsMsg)
	if !ok {
		t.Fatalf("expected ApplyColumnsMsg, got %T", cmd())
	}
	if msg.Preset != columns.DefaultPreset || !msg.Selection.Visible("K1") {
		t.Errorf("unexpected apply message %+v", msg)
	}

	// The message carries a copy; later edits do not leak into it.
	m.Selection().Toggle("K1")
	if !msg.Selection.Visible("K1") {
		t.Error("applied selection changed after the fact")
	}
}

func TestCustomizeModal_Reorder(t *testing.T) {
	m := newCustomize(t, columns.DefaultPreset)
	m.SetCursor("Score")
	m.Update(keyMsg("K"))
	got := m.Selection().VisibleTitles()
	want := []string{"Pool address", "A", "C", "Miner Address", "My Stake", "Score", "Ordered Withdraw"}
	if !slices.Equal(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestCustomizeModal_PresetSelectorReseeds(t *testing.T) {
	m := newCustomize(t, columns.DefaultPreset)
	m.focus.SetFocus(customizeFocusPreset)
	m.Update(keyMsg("right"))
	if m.Preset() != "All Pools" {
		t.Fatalf("preset = %q", m.Preset())
	}
	for _, title := range columns.Default().Titles() {
		if !m.Selection().Visible(title) {
			t.Errorf("%s should be visible with All Pools", title)
		}
	}
	m.Update(keyMsg("left"))
	if m.Preset() != columns.DefaultPreset {
		t.Errorf("left should go back, got %q", m.Preset())
	}
}

func TestCustomizeModal_CloseDismisses(t *testing.T) {
	m := newCustomize(t, columns.DefaultPreset)
	m.focus.SetFocus(customizeFocusClose)
	_, cmd := m.Update(keyMsg("enter"))
	if cmd == nil {
		t.Fatal("Close should dismiss")
	}
	if _, ok := cmd().(DismissModalMsg); !ok {
		t.Errorf("expected DismissModalMsg, got %T", cmd())
	}
}

func TestPresetPickerModal_Select(t *testing.T) {
	m := NewPresetPickerModal(columns.DefaultPresets().Names(), "Finance")
	if m.Selected() != "Finance" {
		t.Fatalf("initial selection = %q", m.Selected())
	}
	_, cmd := m.Update(keyMsg("enter"))
	msg, ok := cmd().(SelectPresetMsg)
	if !ok || msg.Name != "Finance" {
		t.Errorf("expected SelectPresetMsg{Finance}, got %#v", cmd())
	}
}

func TestFilterModal(t *testing.T) {
	m := NewFilterModal("")
	for _, r := range "isActive" {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	if m.Query() != "isActive" {
		t.Fatalf("query = %q", m.Query())
	}
	if !strings.Contains(m.View(), "expression") {
		t.Error("a boolean expression should be labelled as such")
	}
	_, cmd := m.Update(keyMsg("enter"))
	if msg, ok := cmd().(SetFilterMsg); !ok || msg.Query != "isActive" {
		t.Errorf("expected SetFilterMsg, got %#v", cmd())
	}
}

func TestConfirmModal(t *testing.T) {
	rec := testSnapshot(1).Records[1]
	m := NewClaimConfirmModal(rec)
	if !strings.Contains(m.View(), "5.00 DMD") {
		t.Errorf("view should show the claimable amount: %q", m.View())
	}
	_, cmd := m.Update(keyMsg("n"))
	if _, ok := cmd().(DismissModalMsg); !ok {
		t.Errorf("n should cancel, got %T", cmd())
	}
	_, cmd = m.Update(keyMsg("enter"))
	if msg, ok := cmd().(ClaimMsg); !ok || msg.Record.Key() != "0xbbb" {
		t.Errorf("enter should confirm, got %#v", cmd())
	}
}

func TestToaster(t *testing.T) {
	toast := NewToaster(time.Millisecond)
	toast.Notify("first")
	toast.Error("second")
	if toast.Text() != "second" || toast.Shown() != 2 {
		t.Fatalf("text=%q shown=%d", toast.Text(), toast.Shown())
	}
	// Expiry of an older toast leaves the newer one up.
	toast.expire(1)
	if toast.Text() != "second" {
		t.Error("stale expiry hid the current toast")
	}
	toast.expire(2)
	if toast.Text() != "" || toast.View() != "" {
		t.Error("expected toast hidden")
	}
}

func TestFocusManager(t *testing.T) {
	var changes []string
	f := &FocusManager{
		Current:  "a",
		Order:    []string{"a", "b", "c"},
		OnChange: func(from, to string) { changes = append(changes, from+">"+to) },
	}
	if f.Next() != "b" || f.Next() != "c" || f.Next() != "a" {
		t.Error("Next should wrap around")
	}
	if f.Prev() != "c" {
		t.Error("Prev should wrap around")
	}
	if f.SetFocus("zz") {
		t.Error("unknown id should be rejected")
	}
	if len(changes) != 4 {
		t.Errorf("changes = %v", changes)
	}
}

func TestOverlayStack_Render(t *testing.T) {
	var s OverlayStack
	if _, ok := s.Render(80, 24); ok {
		t.Error("empty stack renders nothing")
	}
	s.Push(Overlay{View: NewConfirmModal("Sure?", "label", nil), Dismiss: "esc"})
	out, ok := s.Render(80, 24)
	if !ok || !strings.Contains(out, "Sure?") {
		t.Errorf("render = %q", out)
	}
	if lines := strings.Count(out, "\n") + 1; lines != 24 {
		t.Errorf("overlay should fill the screen, got %d lines", lines)
	}
}
