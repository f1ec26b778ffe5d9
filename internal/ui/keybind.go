package ui

import (
	"slices"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// KeyAction runs when its sequence completes. It is called on the update
// loop, so it may read model state such as the table cursor.
type KeyAction func() tea.Cmd

// Send returns a KeyAction that emits msg.
func Send(msg tea.Msg) KeyAction {
	return func() tea.Cmd {
		return func() tea.Msg { return msg }
	}
}

// Run returns a KeyAction for a fixed command.
func Run(cmd tea.Cmd) KeyAction {
	return func() tea.Cmd { return cmd }
}

// Keybind is one registered sequence.
type Keybind struct {
	Seq    string // normalized, e.g. "SPC c c"
	Desc   string
	Modes  []AppMode // empty: every mode
	Footer bool      // listed in the footer hints
	Action KeyAction
}

func (b Keybind) appliesTo(mode AppMode) bool {
	return len(b.Modes) == 0 || slices.Contains(b.Modes, mode)
}

// BindOption adjusts a Keybind at registration.
type BindOption func(*Keybind)

// InModes limits a binding to modes.
func InModes(modes ...AppMode) BindOption {
	return func(b *Keybind) { b.Modes = modes }
}

// InFooter lists the binding in the footer of the modes it applies to.
func InFooter() BindOption {
	return func(b *Keybind) { b.Footer = true }
}

// KeybindRegistry maps key sequences to actions per mode. Sequences use
// "SPC" for the leader: "SPC c p" is space, c, p. One key may carry a
// different action in each mode; the first binding matching the mode wins.
type KeybindRegistry struct {
	binds []Keybind
}

// NewKeybindRegistry creates an empty registry.
func NewKeybindRegistry() *KeybindRegistry {
	return &KeybindRegistry{}
}

// Bind registers seq. Registration order is footer order.
func (r *KeybindRegistry) Bind(seq, desc string, action KeyAction, opts ...BindOption) {
	b := Keybind{Seq: normalizeSeq(seq), Desc: desc, Action: action}
	for _, o := range opts {
		o(&b)
	}
	r.binds = append(r.binds, b)
}

// Lookup returns the binding for seq in mode.
func (r *KeybindRegistry) Lookup(seq string, mode AppMode) (Keybind, bool) {
	n := normalizeSeq(seq)
	for _, b := range r.binds {
		if b.Seq == n && b.Action != nil && b.appliesTo(mode) {
			return b, true
		}
	}
	return Keybind{}, false
}

// HasPrefix reports whether a longer sequence starting with seq is bound in
// mode.
func (r *KeybindRegistry) HasPrefix(seq string, mode AppMode) bool {
	prefix := normalizeSeq(seq) + " "
	for _, b := range r.binds {
		if strings.HasPrefix(b.Seq, prefix) && b.appliesTo(mode) {
			return true
		}
	}
	return false
}

// submenuLabel names leader keys that open a submenu.
var submenuLabel = map[string]string{
	"c": "Columns",
}

// LeaderHints returns the keys that may follow currentSeq in mode, keyed by
// key with their description. An empty currentSeq means "SPC".
func (r *KeybindRegistry) LeaderHints(currentSeq string, mode AppMode) map[string]string {
	prefix := "SPC "
	if currentSeq != "" {
		prefix = normalizeSeq(currentSeq) + " "
	}
	out := make(map[string]string)
	for _, b := range r.binds {
		if !strings.HasPrefix(b.Seq, prefix) || !b.appliesTo(mode) {
			continue
		}
		next, rest, _ := strings.Cut(strings.TrimPrefix(b.Seq, prefix), " ")
		switch {
		case rest == "":
			if _, seen := out[next]; !seen {
				out[next] = b.Desc
			}
		case submenuLabel[next] != "":
			out[next] = submenuLabel[next]
		default:
			out[next] = next + "…"
		}
	}
	return out
}

// FooterHints returns the footer bindings of mode in registration order.
// A key bound twice is listed once.
func (r *KeybindRegistry) FooterHints(mode AppMode) []key.Binding {
	var out []key.Binding
	seen := make(map[string]bool)
	for _, b := range r.binds {
		if !b.Footer || !b.appliesTo(mode) || seen[b.Seq] {
			continue
		}
		seen[b.Seq] = true
		out = append(out, key.NewBinding(key.WithKeys(b.Seq), key.WithHelp(b.Seq, b.Desc)))
	}
	return out
}

// normalizeSeq converts tea key strings to sequence notation.
func normalizeSeq(seq string) string {
	parts := strings.Fields(seq)
	if seq == " " {
		parts = []string{"SPC"}
	}
	for i, p := range parts {
		if p == "space" {
			parts[i] = "SPC"
		}
	}
	return strings.Join(parts, " ")
}

// keyToSeqPart converts one tea key string to a sequence part.
func keyToSeqPart(s string) string {
	if s == " " || s == "space" {
		return "SPC"
	}
	return s
}

// KeyHandler tracks the leader sequence being typed.
type KeyHandler struct {
	Registry      *KeybindRegistry
	LeaderKey     string // tea.KeyMsg.String() of the leader
	LeaderSeq     string
	LeaderWaiting bool
	Buffer        []string
}

// NewKeyHandler creates a handler with space as leader.
func NewKeyHandler(reg *KeybindRegistry) *KeyHandler {
	return &KeyHandler{Registry: reg, LeaderKey: " ", LeaderSeq: "SPC"}
}

// Handle resolves msg in mode. consumed is false when nothing is bound, so
// the key goes on to the focused view.
func (h *KeyHandler) Handle(msg tea.KeyMsg, mode AppMode) (consumed bool, cmd tea.Cmd) {
	s := msg.String()

	if h.LeaderWaiting {
		if s == "esc" {
			h.Reset()
			return true, nil
		}
		h.Buffer = append(h.Buffer, keyToSeqPart(s))
		seq := h.Pending()
		if b, ok := h.Registry.Lookup(seq, mode); ok {
			h.Reset()
			return true, b.Action()
		}
		if !h.Registry.HasPrefix(seq, mode) {
			h.Reset()
		}
		return true, nil
	}

	if s == h.LeaderKey && h.Registry.HasPrefix(h.LeaderSeq, mode) {
		h.LeaderWaiting = true
		h.Buffer = []string{h.LeaderSeq}
		return true, nil
	}

	if b, ok := h.Registry.Lookup(keyToSeqPart(s), mode); ok {
		return true, b.Action()
	}
	return false, nil
}

// Pending returns the leader sequence typed so far, or "".
func (h *KeyHandler) Pending() string {
	return strings.Join(h.Buffer, " ")
}

// Reset leaves leader mode.
func (h *KeyHandler) Reset() {
	h.LeaderWaiting = false
	h.Buffer = nil
}

// LeaderKeyMap is the help.KeyMap of the pending leader sequence.
type LeaderKeyMap struct {
	handler *KeyHandler
	mode    AppMode
}

// NewLeaderKeyMap returns the keys that may follow h's pending sequence.
func NewLeaderKeyMap(h *KeyHandler, mode AppMode) LeaderKeyMap {
	return LeaderKeyMap{handler: h, mode: mode}
}

// ShortHelp lists the next keys sorted, then esc.
func (km LeaderKeyMap) ShortHelp() []key.Binding {
	if km.handler == nil || km.handler.Registry == nil {
		return nil
	}
	hints := km.handler.Registry.LeaderHints(km.handler.Pending(), km.mode)
	if len(hints) == 0 {
		return nil
	}
	keys := make([]string, 0, len(hints))
	for k := range hints {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]key.Binding, 0, len(keys)+1)
	for _, k := range keys {
		out = append(out, key.NewBinding(key.WithKeys(k), key.WithHelp(k, hints[k])))
	}
	return append(out, key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")))
}

// FullHelp implements help.KeyMap.
func (km LeaderKeyMap) FullHelp() [][]key.Binding {
	if short := km.ShortHelp(); len(short) > 0 {
		return [][]key.Binding{short}
	}
	return nil
}

// FooterKeyMap is the help.KeyMap of the resting footer: the footer
// bindings of a mode, then the leader when a leader sequence applies.
type FooterKeyMap struct {
	handler *KeyHandler
	mode    AppMode
}

// NewFooterKeyMap returns the footer hints of mode.
func NewFooterKeyMap(h *KeyHandler, mode AppMode) FooterKeyMap {
	return FooterKeyMap{handler: h, mode: mode}
}

// ShortHelp implements help.KeyMap.
func (km FooterKeyMap) ShortHelp() []key.Binding {
	if km.handler == nil || km.handler.Registry == nil {
		return nil
	}
	out := km.handler.Registry.FooterHints(km.mode)
	if km.handler.Registry.HasPrefix(km.handler.LeaderSeq, km.mode) {
		out = append(out, key.NewBinding(key.WithKeys(km.handler.LeaderKey), key.WithHelp(km.handler.LeaderSeq, "menu")))
	}
	return out
}

// FullHelp implements help.KeyMap.
func (km FooterKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{km.ShortHelp()}
}
