package columns

import (
	"strconv"

	"poolboard/internal/pool"
)

// TotalStakeMax is the stake at which the Total Stake bar is full (50000 DMD).
var TotalStakeMax = pool.DMD(50000)

func poolColumns() []Definition {
	return []Definition{
		{Title: "Pool address", Field: "stakingAddress", Render: copyText(func(r pool.Record) string { return r.StakingAddress }), Filterable: true, Group: GroupPool},
		{Title: "Public Key", Field: "publicKey", Render: copyText(func(r pool.Record) string { return r.PublicKey }), Width: 24, Group: GroupPool},
		{Title: "Total Stake", Field: "totalStake", Render: totalStake, Width: 22, Align: AlignRight, Group: GroupPool},
		{Title: "S", Field: "isActive", Render: flag(func(r pool.Record) bool { return r.IsActive }), Width: 1, Align: AlignCenter, Tooltip: "Staked - has enough stake ?", Group: GroupNodeStatus},
		{Title: "A", Field: "isAvailable", Render: flag(func(r pool.Record) bool { return r.IsAvailable }), Width: 1, Align: AlignCenter, Tooltip: "Available - is marked as available for upcoming validator set selection", Group: GroupNodeStatus},
		{Title: "C", Field: "isCurrentValidator", Render: flag(func(r pool.Record) bool { return r.IsCurrentValidator }), Width: 1, Align: AlignCenter, Tooltip: "Current - is part of current validator set", Group: GroupNodeStatus},
		{Title: "E", Field: "isToBeElected", Render: flag(func(r pool.Record) bool { return r.IsToBeElected }), Width: 1, Align: AlignCenter, Tooltip: "to be Elected - fulfills all requirements to be elected as validator for the upcoming epoch", Group: GroupNodeStatus},
		{Title: "P", Field: "isPendingValidator", Render: flag(func(r pool.Record) bool { return r.IsPendingValidator }), Width: 1, Align: AlignCenter, Tooltip: "Pending - validator in key generation phase that should write its acks and parts", Group: GroupKeyGeneration},
		{Title: "K1", Field: "isWrittenParts", Render: flag(func(r pool.Record) bool { return r.IsWrittenParts }), Width: 2, Align: AlignCenter, Tooltip: "Key 1 (Parts) was contributed", Group: GroupKeyGeneration},
		{Title: "K2", Field: "isWrittenAcks", Render: flag(func(r pool.Record) bool { return r.IsWrittenAcks }), Width: 2, Align: AlignCenter, Tooltip: "Key 2 (Acks) was contributed - node has written all keys", Group: GroupKeyGeneration},
		{Title: "Miner Address", Field: "miningAddress", Render: copyText(func(r pool.Record) string { return r.MiningAddress }), Filterable: true, Group: GroupMyFinance},
		{Title: "My Stake", Field: "myStake", Render: amount(func(r pool.Record) pool.Wei { return r.MyStake }), Width: 14, Align: AlignRight, Group: GroupMyFinance},
		{Title: "Rewards", Field: "claimableReward", Render: rewards, Width: 22, Align: AlignRight, Group: GroupMyFinance},
		{Title: "Ordered Withdraw", Field: "orderedWithdrawAmount", Render: amount(func(r pool.Record) pool.Wei { return r.OrderedWithdrawAmount }), Width: 16, Align: AlignRight, Group: GroupMyFinance},
		{Title: "Score", Field: "score", Render: score, Width: 6, Align: AlignRight, Group: GroupPool},
	}
}

func copyText(get func(pool.Record) string) Renderer {
	return func(r pool.Record) Cell {
		v := get(r)
		if v == "" {
			return Cell{Text: Placeholder, Tone: "muted"}
		}
		return Cell{Text: v, Value: v, Control: ControlCopy}
	}
}

func flag(get func(pool.Record) bool) Renderer {
	return func(r pool.Record) Cell {
		if get(r) {
			return Cell{Text: "✓", Tone: "ok"}
		}
		return Cell{Text: "✗", Tone: "bad"}
	}
}

func amount(get func(pool.Record) pool.Wei) Renderer {
	return func(r pool.Record) Cell {
		w := get(r)
		if !w.Valid() {
			return Cell{Text: Placeholder, Tone: "muted"}
		}
		return Cell{Text: w.Fixed(2) + " DMD"}
	}
}

func totalStake(r pool.Record) Cell {
	if !r.TotalStake.Valid() {
		return Cell{Text: Placeholder, Tone: "muted"}
	}
	bar := r.TotalStake.Ratio(TotalStakeMax)
	return Cell{Text: r.TotalStake.Exact() + " DMD", Bar: &bar}
}

func rewards(r pool.Record) Cell {
	w := r.ClaimableReward
	if !w.Valid() {
		return Cell{Text: Placeholder, Tone: "muted"}
	}
	if w.WholeCoins() > 0 {
		return Cell{Text: w.Fixed(2) + " DMD", Control: ControlClaim}
	}
	return Cell{Text: "0 DMD", Tone: "muted"}
}

func score(r pool.Record) Cell {
	if r.Score == nil {
		return Cell{Text: Placeholder, Tone: "muted"}
	}
	return Cell{Text: strconv.FormatInt(*r.Score, 10)}
}
