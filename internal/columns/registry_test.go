package columns

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poolboard/internal/pool"
)

func TestNewRegistry_RejectsDuplicates(t *testing.T) {
	_, err := NewRegistry(Definition{Title: "A"}, Definition{Title: "A"})
	require.Error(t, err)

	_, err = NewRegistry(Definition{Title: " ", Field: "x"})
	require.Error(t, err)
}

func TestRegistry_Lookup(t *testing.T) {
	reg := Default()

	d, ok := reg.Lookup("Pool address")
	require.True(t, ok)
	assert.Equal(t, "stakingAddress", d.Field)

	_, ok = reg.Lookup("pool address")
	assert.False(t, ok, "lookups are by exact title")

	var nilReg *Registry
	_, ok = nilReg.Lookup("Pool address")
	assert.False(t, ok)
}

func TestRegistry_DefaultIsShared(t *testing.T) {
	assert.Same(t, Default(), Default())
	assert.Same(t, DefaultPresets(), DefaultPresets())
}

func TestRegistry_ResolveDropsUnknownAndRepeats(t *testing.T) {
	defs := Default().Resolve([]string{"Score", "Nope", "A", "Score"})
	assert.Equal(t, []string{"Score", "A"}, Titles(defs))
}

func TestRegistry_Groups(t *testing.T) {
	reg := Default()
	assert.Equal(t, []string{"P", "K1", "K2"}, reg.Group(GroupKeyGeneration))
	assert.Equal(t, []string{"S", "A", "C", "E"}, reg.Group(GroupNodeStatus))
	assert.Equal(t, []string{"Miner Address", "My Stake", "Rewards", "Ordered Withdraw"}, reg.Group(GroupMyFinance))
}

func TestPresets_EveryPresetResolvable(t *testing.T) {
	reg := Default()
	presets := DefaultPresets()
	for _, name := range presets.Names() {
		titles, ok := presets.Get(name)
		require.True(t, ok, name)
		seen := map[string]bool{}
		for _, title := range titles {
			assert.False(t, seen[title], "preset %q repeats %q", name, title)
			seen[title] = true
			assert.True(t, reg.Has(title), "preset %q names unknown %q", name, title)
		}
	}
}

func TestNewPresets_Validation(t *testing.T) {
	reg := Default()

	_, err := NewPresets(reg, Preset{Name: "bad", Titles: []string{"Pool address", "Nope"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownTitle))

	_, err = NewPresets(reg, Preset{Name: "dup", Titles: []string{"A", "A"}})
	require.Error(t, err)

	_, err = NewPresets(reg, Preset{Name: "x"}, Preset{Name: "x"})
	require.Error(t, err)

	_, err = NewPresets(nil, Preset{Name: "x"})
	assert.ErrorIs(t, err, ErrCatalogCorrupt)
}

func TestPresets_UnknownDegradesToEmpty(t *testing.T) {
	presets := DefaultPresets()

	_, ok := presets.Get("Corrupted")
	assert.False(t, ok)
	assert.Empty(t, presets.Titles("Corrupted"))
	assert.ErrorIs(t, presets.Require("Corrupted"), ErrUnknownPreset)
	assert.NoError(t, presets.Require(DefaultPreset))

	c := FromPreset(Default(), presets, "Corrupted")
	assert.Equal(t, 0, c.Len())
}

func TestPresets_GetReturnsCopy(t *testing.T) {
	presets := DefaultPresets()
	titles, _ := presets.Get(DefaultPreset)
	titles[0] = "mutated"
	again, _ := presets.Get(DefaultPreset)
	assert.Equal(t, "Pool address", again[0])
}

func TestRenderers_NeverPanicOnEmptyRecord(t *testing.T) {
	var rec pool.Record
	for _, d := range Default().Definitions() {
		assert.NotPanics(t, func() { d.Cell(rec) }, d.Title)
	}
	assert.Equal(t, Placeholder, Definition{Title: "x"}.Cell(rec).Text)
}

func TestRenderers_Values(t *testing.T) {
	reg := Default()
	score := int64(42)
	rec := pool.Record{
		StakingAddress:  "0xpool",
		IsAvailable:     true,
		MyStake:         pool.DMD(3),
		ClaimableReward: pool.DMD(2),
		TotalStake:      pool.DMD(25000),
		Score:           &score,
	}
	cell := func(title string) Cell {
		d, ok := reg.Lookup(title)
		require.True(t, ok, title)
		return d.Cell(rec)
	}

	addr := cell("Pool address")
	assert.Equal(t, ControlCopy, addr.Control)
	assert.Equal(t, "0xpool", addr.CopyValue())

	assert.Equal(t, "✓", cell("A").Text)
	assert.Equal(t, "✗", cell("C").Text)
	assert.Equal(t, "3.00 DMD", cell("My Stake").Text)
	assert.Equal(t, Placeholder, cell("Ordered Withdraw").Text)
	assert.Equal(t, "42", cell("Score").Text)

	reward := cell("Rewards")
	assert.Equal(t, ControlClaim, reward.Control)
	assert.Equal(t, ClaimLabel, reward.Control.Label())

	stake := cell("Total Stake")
	require.NotNil(t, stake.Bar)
	assert.InDelta(t, 0.5, *stake.Bar, 1e-9)
	assert.Equal(t, "25000 DMD", stake.Text)
}

func TestRenderers_SmallRewardHasNoClaim(t *testing.T) {
	d, _ := Default().Lookup("Rewards")
	c := d.Cell(pool.Record{ClaimableReward: pool.DMD(0)})
	assert.Equal(t, ControlNone, c.Control)
	assert.Equal(t, "0 DMD", c.Text)
}
