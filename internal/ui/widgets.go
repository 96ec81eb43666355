package ui

import "inphormed/internal/layout"

// widgetInfo is the static content of a dashboard widget. The widgets'
// working bodies live elsewhere; the dashboard only shows what they are.
type widgetInfo struct {
	ID    string
	Title string
	Body  string
}

var catalog = []widgetInfo{
	{
		ID:    layout.WidgetChat,
		Title: "Chat",
		Body:  "Pregunta al asistente sobre fichas técnicas, indicaciones y normativa de promoción.",
	},
	{
		ID:    layout.WidgetValidate,
		Title: "Verificar material",
		Body:  "Pega un texto o sube un PPT/Word y revisa cada afirmación frente a sus referencias.",
	},
	{
		ID:    layout.WidgetCreate,
		Title: "Crear contenido",
		Body:  "Genera borradores de material promocional a partir de un briefing.",
	},
}

// NewDashboardDocument returns the document holding every known widget in
// catalog order, all visible and full width.
func NewDashboardDocument() *Document {
	doc := &Document{}
	for _, w := range catalog {
		doc.AppendChild(&Element{ID: w.ID, Title: w.Title, Span: layout.DefaultSpan})
	}
	return doc
}

func widgetBody(id string) string {
	for _, w := range catalog {
		if w.ID == id {
			return w.Body
		}
	}
	return ""
}
