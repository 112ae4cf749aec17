// Package ui renders two resizable cards with Bubble Tea.
//
// Core abstractions:
//   - View: a region with its own model, update, view (Elm-style)
//   - CardView: one card; its width is model state written by the drag controller
//   - Panel: a bounded region within a layout that hosts a View
//   - SplitLayout: places the two cards in a centered, width-capped row and hit-tests pointer positions
//   - FocusManager: rotates keyboard focus across card controls
//   - OverlayStack: popups with a dismiss key
//
// Mouse presses on a card's handle start a resize.Session; motion and
// release events reach it only through the pointer dispatcher.
package ui
