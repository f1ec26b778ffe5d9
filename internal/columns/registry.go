package columns

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// ErrUnknownTitle is returned when a title is not in the registry.
var ErrUnknownTitle = errors.New("unknown column title")

// Registry is the immutable catalog of every known column, keyed by title.
// Build one with NewRegistry; share it by pointer.
type Registry struct {
	defs  []Definition
	index map[string]int
}

// NewRegistry validates defs and returns a registry preserving their order.
func NewRegistry(defs ...Definition) (*Registry, error) {
	r := &Registry{
		defs:  make([]Definition, 0, len(defs)),
		index: make(map[string]int, len(defs)),
	}
	for _, d := range defs {
		if strings.TrimSpace(d.Title) == "" {
			return nil, fmt.Errorf("column with field %q has an empty title", d.Field)
		}
		if _, dup := r.index[d.Title]; dup {
			return nil, fmt.Errorf("duplicate column title %q", d.Title)
		}
		r.index[d.Title] = len(r.defs)
		r.defs = append(r.defs, d)
	}
	return r, nil
}

// Lookup returns the definition registered under title.
func (r *Registry) Lookup(title string) (Definition, bool) {
	if r == nil {
		return Definition{}, false
	}
	i, ok := r.index[title]
	if !ok {
		return Definition{}, false
	}
	return r.defs[i], true
}

// Has reports whether title is registered.
func (r *Registry) Has(title string) bool {
	_, ok := r.Lookup(title)
	return ok
}

// Resolve maps titles to definitions in order, silently dropping unknown
// titles and repeats.
func (r *Registry) Resolve(titles []string) []Definition {
	out := make([]Definition, 0, len(titles))
	seen := make(map[string]bool, len(titles))
	for _, t := range titles {
		if seen[t] {
			continue
		}
		if d, ok := r.Lookup(t); ok {
			seen[t] = true
			out = append(out, d)
		}
	}
	return out
}

// Titles returns every registered title in registry order.
func (r *Registry) Titles() []string {
	if r == nil {
		return nil
	}
	return Titles(r.defs)
}

// Definitions returns a copy of every definition in registry order.
func (r *Registry) Definitions() []Definition {
	if r == nil {
		return nil
	}
	out := make([]Definition, len(r.defs))
	copy(out, r.defs)
	return out
}

// Group returns the titles belonging to group, in registry order.
func (r *Registry) Group(group string) []string {
	var out []string
	for _, d := range r.defs {
		if d.Group == group {
			out = append(out, d.Title)
		}
	}
	return out
}

// Len returns the number of registered columns.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.defs)
}

// Group names used by the customize dialog.
const (
	GroupPool          = "Pool"
	GroupKeyGeneration = "Key Generation"
	GroupNodeStatus    = "Node status"
	GroupMyFinance     = "My Finance"
)

// Groups lists the customize dialog legends in display order.
var Groups = []string{GroupKeyGeneration, GroupNodeStatus, GroupMyFinance, GroupPool}

// Default returns the shared registry of pool columns.
var Default = sync.OnceValue(func() *Registry {
	r, err := NewRegistry(poolColumns()...)
	if err != nil {
		panic(fmt.Sprintf("columns: built-in registry: %v", err))
	}
	return r
})
