package ui

import "inphormed/internal/layout"

// DragState is the state of the current drag gesture.
type DragState int

const (
	DragIdle DragState = iota
	DragDragging
)

func (s DragState) String() string {
	switch s {
	case DragIdle:
		return "idle"
	case DragDragging:
		return "dragging"
	default:
		return "unknown"
	}
}

// Rect is the vertical extent of a rendered widget in terminal rows.
type Rect struct {
	Y      int
	Height int
}

// Contains reports whether row y falls inside r.
func (r Rect) Contains(y int) bool {
	return y >= r.Y && y < r.Y+r.Height
}

// topHalf reports whether row y is in the upper half of r.
func (r Rect) topHalf(y int) bool {
	return (y-r.Y)*2 < r.Height
}

// Reorderer receives the new document order after a drop.
type Reorderer interface {
	Reorder(ids []string)
}

var _ Reorderer = (*layout.Store)(nil)

// DragController turns drag gestures over the document into layout
// reorders. It also owns customization mode, which gates every gesture.
type DragController struct {
	doc       *Document
	store     Reorderer
	customize bool
	state     DragState
	dragged   *Element
}

// NewDragController creates a controller over doc that reports drops to
// store. Customization mode starts off.
func NewDragController(doc *Document, store Reorderer) *DragController {
	return &DragController{doc: doc, store: store}
}

// SetCustomizeMode turns customization mode on or off and updates the
// drag affordances of every element. Turning it off ends any drag.
func (c *DragController) SetCustomizeMode(on bool) {
	c.customize = on
	for _, e := range c.doc.Children() {
		e.Draggable = on
		e.Ringed = on
		e.HandleVisible = on
	}
	if !on {
		c.End()
	}
}

// ToggleCustomizeMode flips customization mode and returns the new value.
func (c *DragController) ToggleCustomizeMode() bool {
	c.SetCustomizeMode(!c.customize)
	return c.customize
}

// Customizing reports whether customization mode is on.
func (c *DragController) Customizing() bool {
	return c.customize
}

// State returns the gesture state.
func (c *DragController) State() DragState {
	return c.state
}

// Dragged returns the id of the element being dragged, or "".
func (c *DragController) Dragged() string {
	if c.dragged == nil {
		return ""
	}
	return c.dragged.ID
}

// Start begins dragging id. It is suppressed, returning false, outside
// customization mode or when id names no element.
func (c *DragController) Start(id string) bool {
	if !c.customize {
		return false
	}
	e := c.doc.Find(id)
	if e == nil || !e.Draggable {
		return false
	}
	c.End()
	c.state = DragDragging
	c.dragged = e
	e.Dimmed = true
	return true
}

// End finishes the gesture and clears the drag affordance whether or not a
// drop happened.
func (c *DragController) End() {
	if c.dragged != nil {
		c.dragged.Dimmed = false
	}
	c.dragged = nil
	c.state = DragIdle
}

// Drop places the dragged element before targetID when pointerY is in the
// top half of rect and after it otherwise, then reports the new order. It
// returns false and changes nothing when not dragging, outside
// customization mode, on a self-drop or on an unknown target.
func (c *DragController) Drop(targetID string, pointerY int, rect Rect) bool {
	if !c.customize || c.state != DragDragging || c.dragged == nil {
		return false
	}
	target := c.doc.Find(targetID)
	if target == nil || target == c.dragged {
		return false
	}
	if rect.topHalf(pointerY) {
		c.doc.InsertBefore(c.dragged, target)
	} else {
		c.doc.InsertAfter(c.dragged, target)
	}
	c.store.Reorder(c.doc.IDs())
	return true
}

// Move shifts id by delta visible slots through the same path as a mouse
// drop: moving up drops onto the top half of the neighbour, moving down onto
// its bottom half. Hidden elements are skipped.
func (c *DragController) Move(id string, delta int) bool {
	if !c.customize || delta == 0 {
		return false
	}
	visible := visibleIDs(c.doc)
	from := indexOf(visible, id)
	if from < 0 {
		return false
	}
	to := from + delta
	if to < 0 || to >= len(visible) {
		return false
	}
	if !c.Start(id) {
		return false
	}
	defer c.End()
	rect := Rect{Y: 0, Height: 2}
	pointer := 1
	if delta < 0 {
		pointer = 0
	}
	return c.Drop(visible[to], pointer, rect)
}

func visibleIDs(doc *Document) []string {
	var ids []string
	for _, e := range doc.Children() {
		if !e.Hidden {
			ids = append(ids, e.ID)
		}
	}
	return ids
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
