// Package layout holds the dashboard layout model and the store that keeps it
// in sync with the local cache and the remote layout endpoint.
//
// A Layout is the only persisted entity of the dashboard: an ordered set of
// widget entries carrying order, width hint and visibility. Everything else in
// the UI is derived from it.
package layout

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// Version is the current schema version tag.
const Version = 1

// DefaultSpan is the width hint given to entries that carry none.
const DefaultSpan = 2

// Known widget ids.
const (
	WidgetChat     = "chat"
	WidgetValidate = "validate"
	WidgetCreate   = "create"
)

// ErrMalformed reports a layout body that decoded but is not usable.
var ErrMalformed = errors.New("malformed layout")

// Widget is a single entry of a Layout.
type Widget struct {
	ID      string `json:"id"`
	Order   int    `json:"order"`
	Span    int    `json:"span"`
	Visible bool   `json:"visible"`
}

// UnmarshalJSON decodes a widget entry. A missing "visible" field means visible.
func (w *Widget) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID      string `json:"id"`
		Order   int    `json:"order"`
		Span    int    `json:"span"`
		Visible *bool  `json:"visible"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	w.ID = raw.ID
	w.Order = raw.Order
	w.Span = raw.Span
	w.Visible = raw.Visible == nil || *raw.Visible
	return nil
}

// Layout describes widget order and visibility.
type Layout struct {
	Version int      `json:"version"`
	Widgets []Widget `json:"widgets"`
}

// Default returns the hardcoded initial layout: chat, validate, create.
func Default() Layout {
	return Layout{
		Version: Version,
		Widgets: []Widget{
			{ID: WidgetChat, Order: 0, Span: DefaultSpan, Visible: true},
			{ID: WidgetValidate, Order: 1, Span: DefaultSpan, Visible: true},
			{ID: WidgetCreate, Order: 2, Span: DefaultSpan, Visible: true},
		},
	}
}

// Clone returns a copy that shares no memory with l.
func (l Layout) Clone() Layout {
	out := Layout{Version: l.Version}
	if l.Widgets != nil {
		out.Widgets = make([]Widget, len(l.Widgets))
		copy(out.Widgets, l.Widgets)
	}
	return out
}

// Validate checks that the layout is usable: a widgets list is present and
// every id is non-empty and unique.
func (l Layout) Validate() error {
	if l.Widgets == nil {
		return fmt.Errorf("%w: missing widgets", ErrMalformed)
	}
	seen := make(map[string]struct{}, len(l.Widgets))
	for i, w := range l.Widgets {
		if w.ID == "" {
			return fmt.Errorf("%w: widget %d has no id", ErrMalformed, i)
		}
		if _, dup := seen[w.ID]; dup {
			return fmt.Errorf("%w: duplicate widget id %q", ErrMalformed, w.ID)
		}
		seen[w.ID] = struct{}{}
	}
	return nil
}

// Parse decodes and validates a serialized layout.
func Parse(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := l.Validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// Lookup returns the entry for id.
func (l Layout) Lookup(id string) (Widget, bool) {
	for _, w := range l.Widgets {
		if w.ID == id {
			return w, true
		}
	}
	return Widget{}, false
}

// OrderedIDs returns widget ids sorted by order ascending. Ties keep their
// position in the widgets list.
func (l Layout) OrderedIDs() []string {
	sorted := make([]Widget, len(l.Widgets))
	copy(sorted, l.Widgets)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Order < sorted[j].Order })
	ids := make([]string, len(sorted))
	for i, w := range sorted {
		ids[i] = w.ID
	}
	return ids
}

// Reindex rewrites each entry's order to its index in ids. Entries whose id
// is not in ids keep their current order.
func (l Layout) Reindex(ids []string) Layout {
	pos := make(map[string]int, len(ids))
	for i, id := range ids {
		if _, ok := pos[id]; !ok {
			pos[id] = i
		}
	}
	out := l.Clone()
	for i := range out.Widgets {
		if p, ok := pos[out.Widgets[i].ID]; ok {
			out.Widgets[i].Order = p
		}
	}
	return out
}

// Normalize sorts entries by order (stable), rewrites orders to 0..n-1 and
// fills in the default span.
func (l Layout) Normalize() Layout {
	out := l.Clone()
	if out.Version == 0 {
		out.Version = Version
	}
	sort.SliceStable(out.Widgets, func(i, j int) bool { return out.Widgets[i].Order < out.Widgets[j].Order })
	for i := range out.Widgets {
		out.Widgets[i].Order = i
		if out.Widgets[i].Span == 0 {
			out.Widgets[i].Span = DefaultSpan
		}
	}
	return out
}

// MoveTo places id at pos in the normalized order. pos is clamped.
func (l Layout) MoveTo(id string, pos int) Layout {
	n := l.Normalize()
	idx := n.index(id)
	if idx < 0 {
		return n
	}
	target := n.Widgets[idx]
	rest := append(append([]Widget{}, n.Widgets[:idx]...), n.Widgets[idx+1:]...)
	pos = max(0, min(pos, len(rest)))
	return withOrder(n.Version, insertAt(rest, pos, target))
}

// MoveBefore places a immediately before b.
func (l Layout) MoveBefore(a, b string) Layout {
	return l.moveRelative(a, b, 0)
}

// MoveAfter places a immediately after b.
func (l Layout) MoveAfter(a, b string) Layout {
	return l.moveRelative(a, b, 1)
}

func (l Layout) moveRelative(a, b string, offset int) Layout {
	n := l.Normalize()
	ia, ib := n.index(a), n.index(b)
	if ia < 0 || ib < 0 || a == b {
		return n
	}
	moved := n.Widgets[ia]
	rest := append(append([]Widget{}, n.Widgets[:ia]...), n.Widgets[ia+1:]...)
	for i, w := range rest {
		if w.ID == b {
			return withOrder(n.Version, insertAt(rest, i+offset, moved))
		}
	}
	return n
}

func (l Layout) index(id string) int {
	for i, w := range l.Widgets {
		if w.ID == id {
			return i
		}
	}
	return -1
}

func insertAt(ws []Widget, pos int, w Widget) []Widget {
	out := make([]Widget, 0, len(ws)+1)
	out = append(out, ws[:pos]...)
	out = append(out, w)
	return append(out, ws[pos:]...)
}

func withOrder(version int, ws []Widget) Layout {
	for i := range ws {
		ws[i].Order = i
	}
	return Layout{Version: version, Widgets: ws}
}
