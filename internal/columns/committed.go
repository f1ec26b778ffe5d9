package columns

// Committed is the ordered column list bound to the table. It never holds the
// same title twice. The zero value is the empty list.
type Committed struct {
	defs []Definition
}

// Commit builds a committed list from defs, keeping the first occurrence of
// each title.
func Commit(defs ...Definition) Committed {
	out := make([]Definition, 0, len(defs))
	seen := make(map[string]bool, len(defs))
	for _, d := range defs {
		if seen[d.Title] {
			continue
		}
		seen[d.Title] = true
		out = append(out, d)
	}
	return Committed{defs: out}
}

// FromPreset resolves the named preset against reg. Unknown names yield the
// empty list.
func FromPreset(reg *Registry, presets *Presets, name string) Committed {
	return Commit(reg.Resolve(presets.Titles(name))...)
}

// Definitions returns a copy of the committed definitions.
func (c Committed) Definitions() []Definition {
	out := make([]Definition, len(c.defs))
	copy(out, c.defs)
	return out
}

// Titles returns the committed titles in order.
func (c Committed) Titles() []string {
	return Titles(c.defs)
}

// Has reports whether title is committed.
func (c Committed) Has(title string) bool {
	for _, d := range c.defs {
		if d.Title == title {
			return true
		}
	}
	return false
}

// Len returns the number of committed columns.
func (c Committed) Len() int {
	return len(c.defs)
}

// Equal reports whether both lists hold the same titles in the same order.
func (c Committed) Equal(o Committed) bool {
	if len(c.defs) != len(o.defs) {
		return false
	}
	for i := range c.defs {
		if c.defs[i].Title != o.defs[i].Title {
			return false
		}
	}
	return true
}
