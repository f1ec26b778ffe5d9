package columns

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSelection_SeedsFromPresetAndCommitted(t *testing.T) {
	reg := Default()
	committed := Commit(reg.Resolve([]string{"Score", "Rewards"})...)
	last := SelectionOf(Entry{Title: "Rewards", Visible: false})

	sel := NewSelection(reg, []string{"Pool address", "Unknown", "Score"}, committed, last)

	assert.Equal(t, []Entry{
		{Title: "Pool address", Visible: true},
		{Title: "Score", Visible: true},
		{Title: "Rewards", Visible: false},
	}, sel.Entries())
}

func TestNewSelection_CommittedDefaultsVisible(t *testing.T) {
	reg := Default()
	committed := Commit(reg.Resolve([]string{"K1"})...)
	sel := NewSelection(reg, nil, committed, nil)
	assert.True(t, sel.Visible("K1"))
}

func TestSelection_ToggleInPlace(t *testing.T) {
	sel := SelectionOf(Entry{Title: "a", Visible: true}, Entry{Title: "b", Visible: true})

	sel.Toggle("a")
	assert.Equal(t, []Entry{{Title: "a"}, {Title: "b", Visible: true}}, sel.Entries())

	sel.Toggle("c")
	assert.Equal(t, 2, sel.Index("c"))
	assert.True(t, sel.Visible("c"))
	assert.Equal(t, []string{"b", "c"}, sel.VisibleTitles())
}

func TestSelection_Move(t *testing.T) {
	sel := SelectionOf(Entry{Title: "a"}, Entry{Title: "b"}, Entry{Title: "c"})

	assert.True(t, sel.Move("c", -1))
	assert.Equal(t, []string{"a", "c", "b"}, titlesOf(sel))

	assert.True(t, sel.MoveTo("a", 99))
	assert.Equal(t, []string{"c", "b", "a"}, titlesOf(sel))

	assert.False(t, sel.Move("c", -1), "already first")
	assert.False(t, sel.Move("missing", 1))
}

func TestSelection_CloneIsIndependent(t *testing.T) {
	sel := SelectionOf(Entry{Title: "a", Visible: true})
	cp := sel.Clone()
	cp.Toggle("a")
	assert.True(t, sel.Visible("a"))
	assert.False(t, cp.Visible("a"))
}

func TestSelectionOf_DropsRepeats(t *testing.T) {
	sel := SelectionOf(Entry{Title: "a"}, Entry{Title: "a", Visible: true})
	assert.Equal(t, 1, sel.Len())
	assert.False(t, sel.Visible("a"))
}

func titlesOf(s *Selection) []string {
	var out []string
	for _, e := range s.Entries() {
		out = append(out, e.Title)
	}
	return out
}
