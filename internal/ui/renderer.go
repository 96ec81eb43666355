package ui

import "inphormed/internal/layout"

// Apply makes doc match l. Elements with an entry take its visibility and
// span; elements without one are left as they are. Elements are then
// re-appended in layout order, so elements without an entry end up first, in
// their previous relative order. Entries naming no element are skipped.
// Applying the same layout twice is a no-op.
func Apply(doc *Document, l layout.Layout) {
	for _, e := range doc.Children() {
		w, ok := l.Lookup(e.ID)
		if !ok {
			continue
		}
		e.Hidden = !w.Visible
		e.Span = w.Span
	}
	for _, id := range l.OrderedIDs() {
		if e := doc.Find(id); e != nil {
			doc.AppendChild(e)
		}
	}
}
