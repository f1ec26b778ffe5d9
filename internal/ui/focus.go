package ui

import "slices"

// FocusManager tracks which area of a dialog has focus and rotates it in
// tab order.
type FocusManager struct {
	Current  string   // focused area
	Order    []string // tab order
	OnChange func(from, to string)
}

// Next moves focus to the following area, wrapping around.
func (f *FocusManager) Next() string {
	return f.step(1)
}

// Prev moves focus to the preceding area, wrapping around.
func (f *FocusManager) Prev() string {
	return f.step(-1)
}

func (f *FocusManager) step(delta int) string {
	n := len(f.Order)
	if n == 0 {
		return ""
	}
	i := slices.Index(f.Order, f.Current)
	if i < 0 && delta < 0 {
		i = 0
	}
	f.move(f.Order[((i+delta)%n+n)%n])
	return f.Current
}

// SetFocus focuses id. It reports whether id is in the tab order.
func (f *FocusManager) SetFocus(id string) bool {
	if !slices.Contains(f.Order, id) {
		return false
	}
	f.move(id)
	return true
}

func (f *FocusManager) move(to string) {
	from := f.Current
	f.Current = to
	if f.OnChange != nil && from != to {
		f.OnChange(from, to)
	}
}
