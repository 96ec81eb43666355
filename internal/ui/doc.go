// Package ui is the dashboard TUI: a Bubble Tea program that renders the
// widget layout and lets the user reorder it.
//
// The pieces, from the bottom up:
//   - Document: the widget containers in visual order
//   - Apply: projects a layout.Layout onto a Document
//   - DragController: customization mode plus the drag gesture state machine
//   - DashboardView: draws the document as lipgloss boxes and hit-tests the mouse
//   - CommandModal: free-text prompt relayed to the UI agent
//   - AppModel: wires the above to layout.Store and the key bindings
//
// The store is the single source of truth. The UI never edits the document
// order except through a drop, and every store change is re-applied to the
// document on the Bubble Tea event loop.
package ui
