// Package pool holds the staking pool record shown by the dashboard and the
// narrow interfaces of the collaborators that load and act on pools.
package pool

import (
	"strings"
	"time"
)

// Record is one staking pool as reported by the chain adapter.
// StakingAddress is the primary key; every other field may be missing.
type Record struct {
	StakingAddress string `json:"stakingAddress" yaml:"stakingAddress"`
	MiningAddress  string `json:"miningAddress" yaml:"miningAddress"`
	PublicKey      string `json:"publicKey" yaml:"publicKey"`

	TotalStake            Wei `json:"totalStake" yaml:"totalStake"`
	MyStake               Wei `json:"myStake" yaml:"myStake"`
	ClaimableReward       Wei `json:"claimableReward" yaml:"claimableReward"`
	OrderedWithdrawAmount Wei `json:"orderedWithdrawAmount" yaml:"orderedWithdrawAmount"`

	IsActive           bool `json:"isActive" yaml:"isActive"`
	IsAvailable        bool `json:"isAvailable" yaml:"isAvailable"`
	IsCurrentValidator bool `json:"isCurrentValidator" yaml:"isCurrentValidator"`
	IsToBeElected      bool `json:"isToBeElected" yaml:"isToBeElected"`
	IsPendingValidator bool `json:"isPendingValidator" yaml:"isPendingValidator"`
	IsWrittenParts     bool `json:"isWrittenParts" yaml:"isWrittenParts"`
	IsWrittenAcks      bool `json:"isWrittenAcks" yaml:"isWrittenAcks"`

	Score *int64 `json:"score,omitempty" yaml:"score,omitempty"`
}

// Key returns the identifying key used to match rendered rows back to records.
func (r Record) Key() string {
	return strings.TrimSpace(r.StakingAddress)
}

// Snapshot is an ordered set of records pushed by the host whenever upstream
// state changes. Seq increases with every snapshot a source produces.
type Snapshot struct {
	Seq       uint64
	Block     uint64
	Records   []Record
	FetchedAt time.Time
}

// Find returns the record whose key matches key.
func (s Snapshot) Find(key string) (Record, bool) {
	key = strings.TrimSpace(key)
	if key == "" {
		return Record{}, false
	}
	for _, r := range s.Records {
		if r.Key() == key {
			return r, true
		}
	}
	return Record{}, false
}

// Len returns the number of records.
func (s Snapshot) Len() int {
	return len(s.Records)
}

// Field returns a single field by its JSON name.
// Amounts are reported in DMD as float64.
func (r Record) Field(name string) (any, bool) {
	switch name {
	case "stakingAddress":
		return r.StakingAddress, true
	case "miningAddress":
		return r.MiningAddress, true
	case "publicKey":
		return r.PublicKey, true
	case "totalStake":
		return r.TotalStake.Float(), true
	case "myStake":
		return r.MyStake.Float(), true
	case "claimableReward":
		return r.ClaimableReward.Float(), true
	case "orderedWithdrawAmount":
		return r.OrderedWithdrawAmount.Float(), true
	case "isActive":
		return r.IsActive, true
	case "isAvailable":
		return r.IsAvailable, true
	case "isCurrentValidator":
		return r.IsCurrentValidator, true
	case "isToBeElected":
		return r.IsToBeElected, true
	case "isPendingValidator":
		return r.IsPendingValidator, true
	case "isWrittenParts":
		return r.IsWrittenParts, true
	case "isWrittenAcks":
		return r.IsWrittenAcks, true
	case "score":
		if r.Score == nil {
			return int64(0), true
		}
		return *r.Score, true
	}
	return nil, false
}

// FieldNames lists the names accepted by Field, in declaration order.
var FieldNames = []string{
	"stakingAddress", "miningAddress", "publicKey",
	"totalStake", "myStake", "claimableReward", "orderedWithdrawAmount",
	"isActive", "isAvailable", "isCurrentValidator", "isToBeElected",
	"isPendingValidator", "isWrittenParts", "isWrittenAcks",
	"score",
}

// Fields returns every field as a map, the shape filter expressions see.
func (r Record) Fields() map[string]any {
	out := make(map[string]any, len(FieldNames))
	for _, name := range FieldNames {
		v, _ := r.Field(name)
		out[name] = v
	}
	return out
}
