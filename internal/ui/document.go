package ui

// Element is one widget container in the dashboard document. The renderer
// and the drag controller address elements only by ID and by their position
// among the document's children.
type Element struct {
	ID    string
	Title string

	// Span is the width hint copied from the layout entry: 1 is half width,
	// anything else full width.
	Span int

	Hidden        bool
	Draggable     bool
	Ringed        bool // outline shown in customization mode
	HandleVisible bool // drag handle shown in customization mode
	Dimmed        bool // element is being dragged
}

// Document is the ordered list of widget containers. Visual order is the
// child order, and the only way to change it is to re-insert a child.
type Document struct {
	children []*Element
}

// NewDocument creates a document holding elems in order.
func NewDocument(elems ...*Element) *Document {
	d := &Document{}
	for _, e := range elems {
		d.AppendChild(e)
	}
	return d
}

// Children returns the elements in document order.
func (d *Document) Children() []*Element {
	out := make([]*Element, len(d.children))
	copy(out, d.children)
	return out
}

// IDs returns every element id in document order, hidden ones included.
func (d *Document) IDs() []string {
	ids := make([]string, len(d.children))
	for i, e := range d.children {
		ids[i] = e.ID
	}
	return ids
}

// Find returns the element with id, or nil.
func (d *Document) Find(id string) *Element {
	for _, e := range d.children {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// AppendChild moves e to the end, detaching it first if it is already a
// child.
func (d *Document) AppendChild(e *Element) {
	d.detach(e)
	d.children = append(d.children, e)
}

// InsertBefore moves e immediately before ref. It does nothing if ref is not
// a child or is e itself.
func (d *Document) InsertBefore(e, ref *Element) {
	d.insertRelative(e, ref, 0)
}

// InsertAfter moves e immediately after ref. It does nothing if ref is not a
// child or is e itself.
func (d *Document) InsertAfter(e, ref *Element) {
	d.insertRelative(e, ref, 1)
}

func (d *Document) insertRelative(e, ref *Element, offset int) {
	if e == nil || ref == nil || e == ref || d.index(ref) < 0 {
		return
	}
	d.detach(e)
	at := d.index(ref) + offset
	d.children = append(d.children, nil)
	copy(d.children[at+1:], d.children[at:])
	d.children[at] = e
}

func (d *Document) detach(e *Element) {
	if i := d.index(e); i >= 0 {
		d.children = append(d.children[:i], d.children[i+1:]...)
	}
}

func (d *Document) index(e *Element) int {
	for i, c := range d.children {
		if c == e {
			return i
		}
	}
	return -1
}
