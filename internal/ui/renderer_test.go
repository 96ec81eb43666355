package ui

import (
	"reflect"
	"testing"

	"inphormed/internal/layout"
)

func snapshot(doc *Document) []Element {
	var out []Element
	for _, e := range doc.Children() {
		out = append(out, *e)
	}
	return out
}

func TestApply_OrderAndVisibility(t *testing.T) {
	doc := NewDashboardDocument()
	l := layout.Layout{Version: 1, Widgets: []layout.Widget{
		{ID: "chat", Order: 2, Span: 1, Visible: true},
		{ID: "validate", Order: 0, Span: 2, Visible: false},
		{ID: "create", Order: 1, Span: 2, Visible: true},
	}}

	Apply(doc, l)

	if got, want := doc.IDs(), []string{"validate", "create", "chat"}; !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
	if !doc.Find("validate").Hidden {
		t.Error("validate should be hidden")
	}
	if doc.Find("chat").Hidden {
		t.Error("chat should be visible")
	}
	if doc.Find("chat").Span != 1 {
		t.Errorf("chat span = %d, want 1", doc.Find("chat").Span)
	}
}

func TestApply_Idempotent(t *testing.T) {
	doc := NewDashboardDocument()
	l := layout.Default().MoveTo("create", 0)
	l.Widgets[1].Visible = false

	Apply(doc, l)
	once := snapshot(doc)
	Apply(doc, l)

	if twice := snapshot(doc); !reflect.DeepEqual(once, twice) {
		t.Errorf("second Apply changed the document:\n%+v\n%+v", once, twice)
	}
}

func TestApply_UnknownIDsTolerated(t *testing.T) {
	doc := NewDashboardDocument()
	l := layout.Layout{Version: 1, Widgets: []layout.Widget{
		{ID: "ghost", Order: 0, Visible: false},
		{ID: "create", Order: 1, Visible: true},
		{ID: "chat", Order: 2, Visible: true},
		{ID: "validate", Order: 3, Visible: true},
	}}

	Apply(doc, l)

	if got, want := doc.IDs(), []string{"create", "chat", "validate"}; !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
	if doc.Find("ghost") != nil {
		t.Error("unknown entry must not create an element")
	}
}

func TestApply_ElementWithoutEntryUntouched(t *testing.T) {
	doc := NewDashboardDocument()
	doc.Find("validate").Hidden = true
	l := layout.Layout{Version: 1, Widgets: []layout.Widget{
		{ID: "create", Order: 0, Visible: true},
		{ID: "chat", Order: 1, Visible: true},
	}}

	Apply(doc, l)

	if !doc.Find("validate").Hidden {
		t.Error("element without an entry must keep its visibility")
	}
	if got, want := doc.IDs(), []string{"validate", "create", "chat"}; !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestDocument_Insert(t *testing.T) {
	a, b, c := &Element{ID: "a"}, &Element{ID: "b"}, &Element{ID: "c"}
	doc := NewDocument(a, b, c)

	doc.InsertBefore(c, a)
	if got, want := doc.IDs(), []string{"c", "a", "b"}; !reflect.DeepEqual(got, want) {
		t.Errorf("InsertBefore: %v, want %v", got, want)
	}
	doc.InsertAfter(c, b)
	if got, want := doc.IDs(), []string{"a", "b", "c"}; !reflect.DeepEqual(got, want) {
		t.Errorf("InsertAfter: %v, want %v", got, want)
	}
	doc.InsertBefore(a, a)
	doc.InsertAfter(a, &Element{ID: "stranger"})
	if got, want := doc.IDs(), []string{"a", "b", "c"}; !reflect.DeepEqual(got, want) {
		t.Errorf("no-op inserts changed order: %v", got)
	}
}
