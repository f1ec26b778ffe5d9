package pool

import (
	"context"
	"errors"
)

// ErrClaimUnsupported is returned by sources that cannot submit claims.
var ErrClaimUnsupported = errors.New("claiming rewards is not supported by this source")

// Source loads the current set of pools.
type Source interface {
	Refresh(ctx context.Context) (Snapshot, error)
}

// Claimer submits a reward claim for a pool. Implementations report their own
// success or failure; the dashboard only relays the outcome.
type Claimer interface {
	ClaimReward(ctx context.Context, rec Record) error
}

// Provider identifies the account the dashboard acts for (the connected wallet).
type Provider struct {
	Account string
	ChainID uint64
}

// ProviderSetter is implemented by sources whose per-account fields
// (MyStake, ClaimableReward, OrderedWithdrawAmount) depend on the provider.
type ProviderSetter interface {
	SetProvider(ctx context.Context, p Provider) error
}
