// Package ui is the poolboard terminal application.
//
// Building blocks:
//   - View: a screen or modal with its own Init/Update/View (Elm-style)
//   - OverlayStack: modals drawn over the current screen, topmost gets input
//   - FocusManager: rotates focus between the parts of a dialog
//   - KeybindRegistry/KeyHandler: single keys and SPC-prefixed sequences
//
// The pools table itself is owned by a binding.Binding; row interactions are
// resolved by a dispatch.Dispatcher whose listeners are rebuilt after every
// table repaint.
package ui
