package columns

// Entry is one row of the customize dialog's working copy.
type Entry struct {
	Title   string
	Visible bool
}

// Selection is the ordered working copy edited by the customize dialog.
// Array position is display order; a title appears at most once.
type Selection struct {
	entries []Entry
}

// NewSelection seeds a working copy from a preset. Preset titles known to reg
// are visible. Committed titles missing from the preset are appended with the
// visibility they had in last, or visible when last does not mention them.
func NewSelection(reg *Registry, presetTitles []string, committed Committed, last *Selection) *Selection {
	s := &Selection{}
	for _, t := range presetTitles {
		if !reg.Has(t) || s.Index(t) >= 0 {
			continue
		}
		s.entries = append(s.entries, Entry{Title: t, Visible: true})
	}
	for _, t := range committed.Titles() {
		if s.Index(t) >= 0 {
			continue
		}
		visible := true
		if last != nil {
			if i := last.Index(t); i >= 0 {
				visible = last.entries[i].Visible
			}
		}
		s.entries = append(s.entries, Entry{Title: t, Visible: visible})
	}
	return s
}

// SelectionOf builds a selection directly from entries, dropping repeats.
func SelectionOf(entries ...Entry) *Selection {
	s := &Selection{}
	for _, e := range entries {
		if s.Index(e.Title) >= 0 {
			continue
		}
		s.entries = append(s.entries, e)
	}
	return s
}

// Entries returns a copy of the entries in order.
func (s *Selection) Entries() []Entry {
	if s == nil {
		return nil
	}
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len returns the number of entries.
func (s *Selection) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// Index returns the position of title, or -1.
func (s *Selection) Index(title string) int {
	if s == nil {
		return -1
	}
	for i, e := range s.entries {
		if e.Title == title {
			return i
		}
	}
	return -1
}

// Visible reports whether title is present and visible.
func (s *Selection) Visible(title string) bool {
	i := s.Index(title)
	return i >= 0 && s.entries[i].Visible
}

// VisibleTitles returns the visible titles in order.
func (s *Selection) VisibleTitles() []string {
	var out []string
	for _, e := range s.Entries() {
		if e.Visible {
			out = append(out, e.Title)
		}
	}
	return out
}

// Toggle flips the visibility of title in place, or appends it as visible.
// It never reorders existing entries.
func (s *Selection) Toggle(title string) {
	if i := s.Index(title); i >= 0 {
		s.entries[i].Visible = !s.entries[i].Visible
		return
	}
	s.entries = append(s.entries, Entry{Title: title, Visible: true})
}

// Move shifts title by delta positions, clamped to the ends. It reports
// whether the order changed.
func (s *Selection) Move(title string, delta int) bool {
	i := s.Index(title)
	if i < 0 {
		return false
	}
	return s.MoveTo(title, i+delta)
}

// MoveTo places title at index, clamped to the ends.
func (s *Selection) MoveTo(title string, index int) bool {
	from := s.Index(title)
	if from < 0 {
		return false
	}
	index = max(0, min(index, len(s.entries)-1))
	if index == from {
		return false
	}
	e := s.entries[from]
	s.entries = append(s.entries[:from], s.entries[from+1:]...)
	s.entries = append(s.entries[:index], append([]Entry{e}, s.entries[index:]...)...)
	return true
}

// Clone returns an independent copy.
func (s *Selection) Clone() *Selection {
	return &Selection{entries: s.Entries()}
}
