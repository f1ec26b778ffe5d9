package columns

import "errors"

// ErrCatalogCorrupt is returned when reconciliation cannot trust its catalog.
// The previous committed list is kept.
var ErrCatalogCorrupt = errors.New("column catalog is corrupt")

// Diff is the change a selection implies for a committed list.
type Diff struct {
	Add    []string
	Remove []string
}

// Empty reports whether the diff changes nothing.
func (d Diff) Empty() bool {
	return len(d.Add) == 0 && len(d.Remove) == 0
}

// Plan computes which titles a selection adds to and removes from prev.
func Plan(prev Committed, sel *Selection) Diff {
	var d Diff
	for _, e := range sel.Entries() {
		switch has := prev.Has(e.Title); {
		case has && !e.Visible:
			d.Remove = append(d.Remove, e.Title)
		case !has && e.Visible:
			d.Add = append(d.Add, e.Title)
		}
	}
	return d
}

// Apply derives the new committed list from prev and sel.
//
// Added titles are resolved through reg, unknown ones dropped without error.
// Removed titles are filtered out of prev. The union is then ordered by sel,
// keeping visible entries only, so committed columns sel does not mention
// fall away. Applying the same selection twice yields the same list.
func Apply(reg *Registry, prev Committed, sel *Selection) (Committed, error) {
	if reg == nil || reg.index == nil {
		return prev, ErrCatalogCorrupt
	}
	if sel == nil {
		return prev, nil
	}
	diff := Plan(prev, sel)

	candidates := make(map[string]Definition, prev.Len()+len(diff.Add))
	for _, d := range reg.Resolve(diff.Add) {
		candidates[d.Title] = d
	}
	removed := make(map[string]bool, len(diff.Remove))
	for _, t := range diff.Remove {
		removed[t] = true
	}
	for _, d := range prev.defs {
		if !removed[d.Title] {
			candidates[d.Title] = d
		}
	}

	ordered := make([]Definition, 0, len(candidates))
	for _, e := range sel.entries {
		if !e.Visible {
			continue
		}
		if d, ok := candidates[e.Title]; ok {
			ordered = append(ordered, d)
		}
	}
	return Commit(ordered...), nil
}
