package ui

import (
	"time"

	"poolboard/internal/columns"
	"poolboard/internal/pool"
)

// SnapshotMsg carries the result of a refresh or a pushed snapshot.
type SnapshotMsg struct {
	Snapshot pool.Snapshot
	Err      error
	// FromRefresh marks the answer to a refresh the app started.
	FromRefresh bool
}

// RefreshMsg triggers a manual refresh from the source.
type RefreshMsg struct{}

// SelectPoolMsg opens the detail view for a pool.
type SelectPoolMsg struct {
	Record pool.Record
}

// ShowCustomizeMsg opens the column customization dialog.
type ShowCustomizeMsg struct{}

// ApplyColumnsMsg commits the dialog's selection.
type ApplyColumnsMsg struct {
	Preset    string
	Selection *columns.Selection
}

// ShowPresetPickerMsg opens the preset picker.
type ShowPresetPickerMsg struct{}

// SelectPresetMsg switches the table to a preset's columns.
type SelectPresetMsg struct {
	Name string
}

// ShowFilterMsg opens the row filter prompt.
type ShowFilterMsg struct{}

// SetFilterMsg replaces the row filter.
type SetFilterMsg struct {
	Query string
}

// ShowClaimConfirmMsg asks the user to confirm a reward claim.
type ShowClaimConfirmMsg struct {
	Record pool.Record
}

// ClaimMsg submits a confirmed claim.
type ClaimMsg struct {
	Record pool.Record
}

// ClaimResultMsg reports the outcome of a claim.
type ClaimResultMsg struct {
	Record pool.Record
	Err    error
}

// DismissModalMsg is sent when user cancels a modal (Esc).
type DismissModalMsg struct{}

// toastExpiredMsg hides the toast it was scheduled for.
type toastExpiredMsg struct {
	id int
}

// tickMsg triggers periodic refresh.
type tickMsg time.Time
