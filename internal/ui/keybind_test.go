package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

// appKeybinds returns the registry of a default app.
func appKeybinds(t *testing.T) *KeybindRegistry {
	t.Helper()
	m, err := NewAppModel(Options{})
	if err != nil {
		t.Fatalf("NewAppModel: %v", err)
	}
	return m.KeyHandler.Registry
}

func TestKeybindRegistry_LookupPerMode(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.Bind("c", "claim row", Send("row"), InModes(ModePools))
	reg.Bind("c", "claim pool", Send("pool"), InModes(ModePoolDetail))
	reg.Bind("space q", "Quit", Run(tea.Quit))

	b, ok := reg.Lookup("c", ModePools)
	if !ok || b.Desc != "claim row" {
		t.Errorf("pools c = %+v, %v", b, ok)
	}
	b, ok = reg.Lookup("c", ModePoolDetail)
	if !ok || b.Desc != "claim pool" {
		t.Errorf("detail c = %+v, %v", b, ok)
	}
	if got := b.Action()(); got != "pool" {
		t.Errorf("detail c emitted %v", got)
	}
	if _, ok := reg.Lookup("SPC q", ModePools); !ok {
		t.Error("space q should normalize to SPC q")
	}
	if _, ok := reg.Lookup("unknown", ModePools); ok {
		t.Error("expected unknown to be unbound")
	}
}

func TestKeyHandler_LeaderKey(t *testing.T) {
	reg := NewKeybindRegistry()
	var executed bool
	reg.Bind("SPC x", "X", func() tea.Cmd {
		executed = true
		return nil
	})
	h := NewKeyHandler(reg)

	consumed, cmd := h.Handle(keyMsg(" "), ModePools)
	if !consumed || cmd != nil {
		t.Errorf("space: consumed=%v cmd=%v", consumed, cmd)
	}
	if !h.LeaderWaiting || h.Pending() != "SPC" {
		t.Errorf("expected leader waiting on SPC, got %v %q", h.LeaderWaiting, h.Pending())
	}

	consumed, _ = h.Handle(keyMsg("x"), ModePools)
	if !consumed {
		t.Fatal("x should complete the sequence")
	}
	if h.LeaderWaiting {
		t.Error("leader should not be waiting after completing sequence")
	}
	if !executed {
		t.Error("the action runs when the sequence completes")
	}
}

func TestKeyHandler_LeaderWithoutSequencesFallsThrough(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.Bind("SPC x", "X", Run(tea.Quit), InModes(ModePools))
	h := NewKeyHandler(reg)

	if consumed, _ := h.Handle(keyMsg(" "), ModePoolDetail); consumed {
		t.Error("space should reach the view when no leader sequence applies")
	}
	if h.LeaderWaiting {
		t.Error("leader mode should not start")
	}
}

func TestKeyHandler_Submenu(t *testing.T) {
	h := NewKeyHandler(appKeybinds(t))

	h.Handle(keyMsg(" "), ModePools)
	consumed, cmd := h.Handle(keyMsg("c"), ModePools)
	if !consumed || cmd != nil {
		t.Fatalf("SPC c: consumed=%v cmd=%v", consumed, cmd)
	}
	if h.Pending() != "SPC c" {
		t.Errorf("pending = %q, want SPC c", h.Pending())
	}
	_, cmd = h.Handle(keyMsg("c"), ModePools)
	if cmd == nil {
		t.Fatal("SPC c c should be bound")
	}
	if _, ok := cmd().(ShowCustomizeMsg); !ok {
		t.Errorf("SPC c c: got %T, want ShowCustomizeMsg", cmd())
	}
}

func TestKeyHandler_EscCancelsLeader(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.Bind("SPC x", "X", Run(tea.Quit))
	h := NewKeyHandler(reg)

	h.Handle(keyMsg(" "), ModePools)
	consumed, cmd := h.Handle(keyMsg("esc"), ModePools)
	if !consumed || cmd != nil {
		t.Errorf("esc: consumed=%v cmd=%v", consumed, cmd)
	}
	if h.LeaderWaiting {
		t.Error("esc should cancel leader mode")
	}
}

func TestKeyHandler_UnknownLeaderKeyResets(t *testing.T) {
	h := NewKeyHandler(appKeybinds(t))
	h.Handle(keyMsg(" "), ModePools)
	if consumed, _ := h.Handle(keyMsg("z"), ModePools); !consumed {
		t.Error("keys typed in leader mode are consumed")
	}
	if h.LeaderWaiting || h.Pending() != "" {
		t.Errorf("unbound sequence should reset, pending %q", h.Pending())
	}
}

func TestKeyHandler_ModeKeys(t *testing.T) {
	h := NewKeyHandler(appKeybinds(t))

	for _, k := range []string{"enter", "c", "y", "/", "r", "q"} {
		if consumed, _ := h.Handle(keyMsg(k), ModePools); !consumed {
			t.Errorf("%s should be bound in the pools view", k)
		}
	}
	for _, k := range []string{"j", "k", "esc"} {
		if consumed, _ := h.Handle(keyMsg(k), ModePools); consumed {
			t.Errorf("%s should reach the table", k)
		}
	}
	for _, k := range []string{"enter", "/", "j"} {
		if consumed, _ := h.Handle(keyMsg(k), ModePoolDetail); consumed {
			t.Errorf("%s should reach the detail view", k)
		}
	}
}

func TestLeaderHints_ModeFilter(t *testing.T) {
	reg := appKeybinds(t)

	top := reg.LeaderHints("", ModePools)
	if top["c"] != "Columns" {
		t.Errorf("SPC c hint = %q, want Columns", top["c"])
	}
	if top["q"] != "Quit" {
		t.Errorf("SPC q hint = %q, want Quit", top["q"])
	}

	sub := reg.LeaderHints("SPC c", ModePools)
	if sub["c"] != "Customize" || sub["p"] != "Preset" {
		t.Errorf("SPC c hints = %v", sub)
	}
	if got := reg.LeaderHints("SPC c", ModePoolDetail); len(got) != 0 {
		t.Errorf("column actions should be hidden in detail view, got %v", got)
	}
	if _, ok := reg.LeaderHints("", ModePoolDetail)["c"]; ok {
		t.Error("the Columns submenu is empty in the detail view")
	}
}

func TestFooterHints(t *testing.T) {
	reg := appKeybinds(t)

	var got []string
	for _, b := range reg.FooterHints(ModePools) {
		got = append(got, b.Help().Key+" "+b.Help().Desc)
	}
	want := []string{"enter details", "c claim", "y copy", "/ filter", "r refresh", "q quit"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("pools footer = %v, want %v", got, want)
	}

	got = got[:0]
	for _, b := range reg.FooterHints(ModePoolDetail) {
		got = append(got, b.Help().Key)
	}
	if strings.Join(got, " ") != "esc c y r q" {
		t.Errorf("detail footer keys = %v", got)
	}
}

func TestRenderKeybindHelp(t *testing.T) {
	h := NewKeyHandler(appKeybinds(t))
	h.Handle(keyMsg(" "), ModePools)
	out := RenderKeybindHelp(h, ModePools)
	for _, want := range []string{"SPC", "Columns", "Refresh", "cancel"} {
		if !strings.Contains(out, want) {
			t.Errorf("help missing %q: %q", want, out)
		}
	}
	if RenderKeybindHelp(nil, ModePools) != "" {
		t.Error("nil handler should render nothing")
	}

	footer := RenderFooterHints(h, ModePools, 200)
	for _, want := range []string{"details", "claim", "filter", "menu"} {
		if !strings.Contains(footer, want) {
			t.Errorf("footer missing %q: %q", want, footer)
		}
	}
}

// keyMsg creates a tea.KeyMsg for testing. Bubble Tea uses KeyType and Runes.
// KeySpace.String() returns " ", KeyEsc returns "esc", etc.
func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "space", " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}
