package columns

import (
	"errors"
	"fmt"
	"sync"
)

// ErrUnknownPreset is returned when a preset name is not in the catalog.
var ErrUnknownPreset = errors.New("unknown column preset")

// DefaultPreset is the preset the dashboard mounts with.
const DefaultPreset = "Default"

// Preset is a named, ordered default column selection.
type Preset struct {
	Name   string
	Titles []string
}

// Presets is the immutable preset catalog. Every title it holds exists in the
// registry it was validated against.
type Presets struct {
	names  []string
	titles map[string][]string
}

// NewPresets validates presets against reg. A preset naming an unknown title,
// repeating a title, or reusing a name is a configuration error.
func NewPresets(reg *Registry, presets ...Preset) (*Presets, error) {
	if reg == nil {
		return nil, ErrCatalogCorrupt
	}
	p := &Presets{titles: make(map[string][]string, len(presets))}
	for _, ps := range presets {
		if ps.Name == "" {
			return nil, errors.New("preset with empty name")
		}
		if _, dup := p.titles[ps.Name]; dup {
			return nil, fmt.Errorf("duplicate preset %q", ps.Name)
		}
		seen := make(map[string]bool, len(ps.Titles))
		for _, t := range ps.Titles {
			if !reg.Has(t) {
				return nil, fmt.Errorf("preset %q: %w: %q", ps.Name, ErrUnknownTitle, t)
			}
			if seen[t] {
				return nil, fmt.Errorf("preset %q repeats column %q", ps.Name, t)
			}
			seen[t] = true
		}
		p.names = append(p.names, ps.Name)
		p.titles[ps.Name] = append([]string(nil), ps.Titles...)
	}
	return p, nil
}

// Get returns a copy of the ordered titles of the named preset.
func (p *Presets) Get(name string) ([]string, bool) {
	if p == nil {
		return nil, false
	}
	t, ok := p.titles[name]
	if !ok {
		return nil, false
	}
	return append([]string(nil), t...), true
}

// Titles returns the titles of the named preset, or an empty set when the
// name is unknown. Runtime lookups use this so a bad selector value degrades
// instead of failing.
func (p *Presets) Titles(name string) []string {
	t, _ := p.Get(name)
	if t == nil {
		return []string{}
	}
	return t
}

// Names returns preset names in catalog order.
func (p *Presets) Names() []string {
	if p == nil {
		return nil
	}
	return append([]string(nil), p.names...)
}

// Require returns ErrUnknownPreset when name is not in the catalog.
func (p *Presets) Require(name string) error {
	if _, ok := p.Get(name); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	return nil
}

// BuiltinPresets returns the presets shipped with the dashboard.
func BuiltinPresets(reg *Registry) []Preset {
	return []Preset{
		{Name: DefaultPreset, Titles: []string{"Pool address", "A", "C", "Miner Address", "My Stake", "Ordered Withdraw", "Score"}},
		{Name: "All Pools", Titles: reg.Titles()},
		{Name: "Key Generation", Titles: []string{"Pool address", "C", "P", "K1", "K2", "Score"}},
		{Name: "Finance", Titles: []string{"Pool address", "Miner Address", "My Stake", "Rewards", "Ordered Withdraw"}},
	}
}

// DefaultPresets returns the shared catalog of built-in presets.
var DefaultPresets = sync.OnceValue(func() *Presets {
	reg := Default()
	p, err := NewPresets(reg, BuiltinPresets(reg)...)
	if err != nil {
		panic(fmt.Sprintf("columns: built-in presets: %v", err))
	}
	return p
})
