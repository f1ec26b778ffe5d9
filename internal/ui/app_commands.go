package ui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"poolboard/internal/pool"
)

// refreshCmd loads a snapshot from src off the update loop.
func refreshCmd(ctx context.Context, src pool.Source, timeout time.Duration) tea.Cmd {
	if src == nil {
		return nil
	}
	return func() tea.Msg {
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		snap, err := src.Refresh(ctx)
		return SnapshotMsg{Snapshot: snap, Err: err, FromRefresh: true}
	}
}

// claimCmd submits a claim for rec.
func claimCmd(ctx context.Context, c pool.Claimer, rec pool.Record, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		if c == nil {
			return ClaimResultMsg{Record: rec, Err: pool.ErrClaimUnsupported}
		}
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		return ClaimResultMsg{Record: rec, Err: c.ClaimReward(ctx, rec)}
	}
}

// tickCmd schedules the next periodic refresh.
func tickCmd(d time.Duration) tea.Cmd {
	if d <= 0 {
		return nil
	}
	return tea.Tick(d, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// claimError renders a claim failure for the toast.
func claimError(err error) string {
	if errors.Is(err, pool.ErrClaimUnsupported) {
		return "Claiming is not available for this source"
	}
	return "Claim failed: " + err.Error()
}
