package grid

import (
	"context"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poolboard/internal/columns"
	"poolboard/internal/pool"
)

func testColumns(t *testing.T, titles ...string) []columns.Definition {
	t.Helper()
	defs := columns.Default().Resolve(titles)
	require.Len(t, defs, len(titles))
	return defs
}

func testRecords(n int) []pool.Record {
	recs := make([]pool.Record, n)
	for i := range recs {
		score := int64(i)
		recs[i] = pool.Record{
			StakingAddress:  fmt.Sprintf("0x%03d", i),
			ClaimableReward: pool.DMD(int64(i % 2 * 5)),
			Score:           &score,
		}
	}
	return recs
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestLayout_CellAndControlSpans(t *testing.T) {
	m := New(testColumns(t, "Pool address", "Rewards", "Score"), 80, 10)
	m.SetRecords(testRecords(2))

	l := m.Layout()
	require.Len(t, l.Rows, 2)

	row := l.Rows[1]
	assert.Equal(t, HeaderHeight+1, row.Y)
	assert.Equal(t, "0x001", row.Key)
	require.Len(t, row.Cells, 3)

	addr := row.Cells[0]
	assert.Equal(t, 0, addr.X0)
	assert.Equal(t, 12, addr.X1)
	assert.Equal(t, columns.ControlCopy, addr.Control)
	assert.Equal(t, 11, addr.ControlX0)
	assert.Equal(t, 12, addr.ControlX1)
	assert.Equal(t, "0x001", addr.Value)

	rewards := row.Cells[1]
	assert.Equal(t, 13, rewards.X0)
	assert.Equal(t, 35, rewards.X1)
	assert.Equal(t, columns.ClaimLabel, rewards.ControlLabel)
	assert.True(t, rewards.InControl(30))
	assert.False(t, rewards.InControl(29))

	// Row 0 has no claimable reward, so no claim control.
	_, ok := l.Rows[0].FirstControl(columns.ControlClaim)
	assert.False(t, ok)
}

func TestLayout_RowLookupsFollowScroll(t *testing.T) {
	m := New(testColumns(t, "Pool address"), 40, HeaderHeight+2)
	m.SetRecords(testRecords(3))
	m.SetCursor(2)

	l := m.Layout()
	row, ok := l.RowAt(HeaderHeight)
	require.True(t, ok)
	assert.Equal(t, 1, row.Index)
	assert.Equal(t, "0x001", row.Key)

	row, ok = l.RowByIndex(2)
	require.True(t, ok)
	assert.Equal(t, HeaderHeight+1, row.Y)

	_, ok = l.RowByIndex(0)
	assert.False(t, ok, "record 0 is scrolled out")
	_, ok = l.RowAt(0)
	assert.False(t, ok, "the header is not a row")
}

func TestView_MatchesLayout(t *testing.T) {
	m := New(testColumns(t, "Pool address", "Rewards", "Score"), 80, 10)
	m.SetRecords(testRecords(2))
	m.SetCursor(-1)

	lines := strings.Split(m.View(), "\n")
	require.Len(t, lines, HeaderHeight+2)
	assert.Contains(t, lines[0], "Pool address")
	assert.Contains(t, lines[0], "Rewards")
	assert.Contains(t, lines[HeaderHeight+1], "Claim")
	assert.Contains(t, lines[HeaderHeight+1], "0x001")
}

func TestView_Empty(t *testing.T) {
	m := New(testColumns(t, "Score"), 40, 5)
	assert.Contains(t, m.View(), "(no pools)")
	assert.Empty(t, m.Layout().Rows)
}

func TestCursorAndScroll(t *testing.T) {
	m := New(testColumns(t, "Pool address"), 40, HeaderHeight+3)
	m.SetRecords(testRecords(10))

	m.Update(keyMsg("G"))
	assert.Equal(t, 9, m.Cursor())
	l := m.Layout()
	require.Len(t, l.Rows, 3)
	assert.Equal(t, 7, l.Rows[0].Index)
	assert.Equal(t, HeaderHeight, l.Rows[0].Y)

	m.Update(keyMsg("g"))
	assert.Equal(t, 0, m.Cursor())
	assert.Equal(t, 0, m.Layout().Rows[0].Index)

	m.Update(keyMsg("j"))
	m.Update(keyMsg("j"))
	m.Update(keyMsg("j"))
	assert.Equal(t, 3, m.Cursor())
	assert.Equal(t, 1, m.Layout().Rows[0].Index)
}

func TestSetRecords_KeepsCursorOnSameKey(t *testing.T) {
	m := New(testColumns(t, "Pool address"), 40, 10)
	recs := testRecords(5)
	m.SetRecords(recs)
	m.SetCursor(3)

	reversed := make([]pool.Record, len(recs))
	for i, r := range recs {
		reversed[len(recs)-1-i] = r
	}
	m.SetRecords(reversed)

	sel, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "0x003", sel.StakingAddress)
	assert.Equal(t, 1, m.Cursor())
}

func TestNarrowWidthDropsTrailingColumns(t *testing.T) {
	m := New(testColumns(t, "Pool address", "Rewards", "Score"), 20, 10)
	m.SetRecords(testRecords(1))
	row := m.Layout().Rows[0]
	require.Len(t, row.Cells, 1)
	assert.Equal(t, "Pool address", row.Cells[0].Column)
}

func TestCompose_ControlNeedsRoom(t *testing.T) {
	cell := columns.Cell{Text: "12.00 DMD", Control: columns.ControlClaim}
	body, ctrl := compose(cell, 5, columns.AlignLeft)
	assert.Empty(t, ctrl)
	assert.Equal(t, 5, len([]rune(body)))
}

func TestBuild_RespectsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m, err := Build(ctx, testColumns(t, "Score"), 40, 5)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, m)

	m, err = Build(context.Background(), testColumns(t, "Score"), 40, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"Score"}, columns.Titles(m.Columns()))
}

func TestClose(t *testing.T) {
	m := New(testColumns(t, "Score"), 40, 5)
	m.SetRecords(testRecords(2))
	m.Close()
	assert.True(t, m.Closed())
	assert.Empty(t, m.View())
	assert.Empty(t, m.Layout().Rows)
}
