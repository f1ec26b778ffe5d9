package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultToastDuration is how long a notification stays visible.
const DefaultToastDuration = 3 * time.Second

// Toaster shows one transient notification at a time in the footer. It
// implements dispatch.Notifier.
type Toaster struct {
	duration time.Duration
	text     string
	isError  bool
	id       int
	shown    int
}

// NewToaster returns a toaster showing each notification for d.
func NewToaster(d time.Duration) *Toaster {
	if d <= 0 {
		d = DefaultToastDuration
	}
	return &Toaster{duration: d}
}

// Notify shows msg and schedules its removal.
func (t *Toaster) Notify(msg string) tea.Cmd {
	return t.show(msg, false)
}

// Error shows msg styled as an error.
func (t *Toaster) Error(msg string) tea.Cmd {
	return t.show(msg, true)
}

func (t *Toaster) show(msg string, isError bool) tea.Cmd {
	t.id++
	t.shown++
	t.text = strings.TrimSpace(msg)
	t.isError = isError
	id := t.id
	return tea.Tick(t.duration, func(time.Time) tea.Msg { return toastExpiredMsg{id: id} })
}

// expire hides the toast if id is still the one showing.
func (t *Toaster) expire(id int) {
	if id == t.id {
		t.text = ""
	}
}

// Text returns the visible notification, or "".
func (t *Toaster) Text() string {
	return t.text
}

// Shown returns how many notifications were shown in total.
func (t *Toaster) Shown() int {
	return t.shown
}

// View renders the toast line.
func (t *Toaster) View() string {
	if t.text == "" {
		return ""
	}
	if t.isError {
		return Styles.ToastError.Render(t.text)
	}
	return Styles.Toast.Render(t.text)
}
