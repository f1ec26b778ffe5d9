package dispatch

import (
	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
)

// Clipboard receives copied text.
type Clipboard interface {
	WriteAll(text string) error
}

// SystemClipboard writes to the operating system clipboard.
type SystemClipboard struct{}

// WriteAll implements Clipboard.
func (SystemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

// Notifier shows transient feedback to the user.
type Notifier interface {
	Notify(msg string) tea.Cmd
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(msg string) tea.Cmd

// Notify implements Notifier.
func (f NotifierFunc) Notify(msg string) tea.Cmd { return f(msg) }

// NopNotifier drops notifications.
type NopNotifier struct{}

// Notify implements Notifier.
func (NopNotifier) Notify(string) tea.Cmd { return nil }

// CopiedMsg reports a finished clipboard write.
type CopiedMsg struct {
	Text string
	Err  error
}

// Copy writes text to the clipboard. The resulting CopiedMsg is reported
// through HandleCopied.
func (d *Dispatcher) Copy(text string) tea.Cmd {
	cb := d.clipboard
	return func() tea.Msg {
		return CopiedMsg{Text: text, Err: cb.WriteAll(text)}
	}
}

// HandleCopied emits the one notification for a copy action.
func (d *Dispatcher) HandleCopied(msg CopiedMsg) tea.Cmd {
	if msg.Err != nil {
		d.log.Error(msg.Err, "clipboard write failed")
		return d.notifier.Notify("Copy failed: " + msg.Err.Error())
	}
	return d.notifier.Notify("Copied " + msg.Text)
}
