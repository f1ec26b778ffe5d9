package pool

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestWei_Formatting(t *testing.T) {
	w, err := ParseWei("1234500000000000000")
	require.NoError(t, err)

	assert.Equal(t, "1.23", w.Fixed(2))
	assert.Equal(t, "1.2345", w.Exact())
	assert.Equal(t, int64(1), w.WholeCoins())
	assert.InDelta(t, 1.2345, w.Float(), 1e-9)
}

func TestWei_MissingIsNotZero(t *testing.T) {
	var w Wei
	assert.False(t, w.Valid())
	assert.Equal(t, "", w.Fixed(2))
	assert.Equal(t, int64(0), w.WholeCoins())

	zero, err := ParseWei("0")
	require.NoError(t, err)
	assert.True(t, zero.Valid())
	assert.Equal(t, "0.00", zero.Fixed(2))
}

func TestWei_WholeCoinsRoundsLikeTwoDecimals(t *testing.T) {
	// 0.996 DMD rounds to 1.00 at two decimals.
	w, err := ParseWei("996000000000000000")
	require.NoError(t, err)
	assert.Equal(t, int64(1), w.WholeCoins())

	w, err = ParseWei("994000000000000000")
	require.NoError(t, err)
	assert.Equal(t, int64(0), w.WholeCoins())
}

func TestWei_Ratio(t *testing.T) {
	max := DMD(50000)
	assert.InDelta(t, 0.5, DMD(25000).Ratio(max), 1e-9)
	assert.Equal(t, 1.0, DMD(90000).Ratio(max))
	assert.Equal(t, 0.0, Wei{}.Ratio(max))
}

func TestParseWei_Rejects(t *testing.T) {
	_, err := ParseWei("12.5")
	assert.Error(t, err)
	_, err = ParseWei("abc")
	assert.Error(t, err)
}

func TestRecord_DecodeJSON(t *testing.T) {
	data := []byte(`{
		"stakingAddress": "0xabc",
		"totalStake": "50000000000000000000000",
		"myStake": 1000000000000000000,
		"claimableReward": null,
		"isActive": true,
		"score": 7
	}`)
	var r Record
	require.NoError(t, json.Unmarshal(data, &r))

	assert.Equal(t, "0xabc", r.Key())
	assert.Equal(t, "50000", r.TotalStake.Exact())
	assert.Equal(t, "1.00", r.MyStake.Fixed(2))
	assert.False(t, r.ClaimableReward.Valid())
	require.NotNil(t, r.Score)
	assert.Equal(t, int64(7), *r.Score)
}

func TestRecord_MalformedAmountIsMissing(t *testing.T) {
	var r Record
	require.NoError(t, json.Unmarshal([]byte(`{"stakingAddress":"0x1","myStake":"12.5","totalStake":true}`), &r))
	assert.Equal(t, "0x1", r.Key())
	assert.False(t, r.MyStake.Valid())
	assert.False(t, r.TotalStake.Valid())

	require.NoError(t, yaml.Unmarshal([]byte("stakingAddress: x\nmyStake: lots\n"), &r))
	assert.False(t, r.MyStake.Valid())

	var y Record
	require.NoError(t, yaml.Unmarshal([]byte("stakingAddress: y\nmyStake: {value: 1}\ntotalStake: [1, 2]\nscore: 4\n"), &y))
	assert.Equal(t, "y", y.Key())
	assert.False(t, y.MyStake.Valid())
	assert.False(t, y.TotalStake.Valid())
	require.NotNil(t, y.Score, "fields after a malformed amount still decode")
	assert.EqualValues(t, 4, *y.Score)
}

func TestRecord_DecodeYAML(t *testing.T) {
	data := []byte(`
stakingAddress: "0xdef"
myStake: "2000000000000000000"
isAvailable: true
`)
	var r Record
	require.NoError(t, yaml.Unmarshal(data, &r))
	assert.Equal(t, "2.00", r.MyStake.Fixed(2))
	assert.True(t, r.IsAvailable)
	assert.Nil(t, r.Score)
}

func TestSnapshot_Find(t *testing.T) {
	s := Snapshot{Records: []Record{{StakingAddress: "0x1"}, {StakingAddress: "0x2"}}}

	r, ok := s.Find(" 0x2 ")
	require.True(t, ok)
	assert.Equal(t, "0x2", r.StakingAddress)

	_, ok = s.Find("0x3")
	assert.False(t, ok)
	_, ok = s.Find("")
	assert.False(t, ok)
}

func TestRecord_Fields(t *testing.T) {
	score := int64(3)
	r := Record{StakingAddress: "0x1", IsActive: true, Score: &score, MyStake: DMD(2)}
	f := r.Fields()

	assert.Len(t, f, len(FieldNames))
	assert.Equal(t, true, f["isActive"])
	assert.Equal(t, int64(3), f["score"])
	assert.InDelta(t, 2.0, f["myStake"], 1e-9)
}
