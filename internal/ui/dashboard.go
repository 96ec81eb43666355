package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"inphormed/internal/ui/textutil"
)

const (
	defaultWidth = 80
	handleGlyph  = "⠿"
)

// placement is where a widget box landed in the last frame.
type placement struct {
	id    string
	x     int
	width int
	rect  Rect
}

// DashboardView draws the document as a column of widget boxes. Widgets with
// span 1 pair up side by side when adjacent; any other span takes a full row.
type DashboardView struct {
	Doc         *Document
	Focus       *FocusManager
	Width       int
	Height      int
	Customizing bool
	Status      string

	// DropTarget is the widget under the pointer during a drag; DropBefore
	// tells which half.
	DropTarget string
	DropBefore bool
}

// Ensure DashboardView implements View.
var _ View = (*DashboardView)(nil)

// NewDashboardView creates a view over doc.
func NewDashboardView(doc *Document) *DashboardView {
	d := &DashboardView{Doc: doc, Focus: &FocusManager{}}
	d.SyncFocus()
	return d
}

// SyncFocus refreshes the focus order from the visible widgets.
func (d *DashboardView) SyncFocus() {
	d.Focus.SetOrder(visibleIDs(d.Doc))
}

// Init implements View.
func (d *DashboardView) Init() tea.Cmd {
	return nil
}

// Update implements View.
func (d *DashboardView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		d.Width = msg.Width
		d.Height = msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "j", "down":
			d.Focus.Next()
		case "shift+tab", "k", "up":
			d.Focus.Prev()
		}
	}
	return d, nil
}

// View implements View.
func (d *DashboardView) View() string {
	out, _ := d.arrange()
	return out
}

// HitTest returns the widget drawn at cell (x, y) and its vertical extent.
func (d *DashboardView) HitTest(x, y int) (string, Rect, bool) {
	_, places := d.arrange()
	for _, p := range places {
		if x >= p.x && x < p.x+p.width && p.rect.Contains(y) {
			return p.id, p.rect, true
		}
	}
	return "", Rect{}, false
}

func (d *DashboardView) width() int {
	if d.Width <= 0 {
		return defaultWidth
	}
	return d.Width
}

func (d *DashboardView) header() string {
	title := Styles.Title.Render("inPhormed")
	if d.Customizing {
		title += " " + Styles.Badge.Render("personalizando")
	}
	status := ""
	if d.Status != "" {
		status = Styles.Status.Render(textutil.Truncate(d.Status, d.width()))
	}
	return title + "\n" + status
}

// arrange renders the frame and records where each widget box went.
func (d *DashboardView) arrange() (string, []placement) {
	total := d.width()
	head := d.header()
	y := lipgloss.Height(head)

	var rows []string
	var places []placement
	visible := make([]*Element, 0, len(d.Doc.children))
	for _, e := range d.Doc.Children() {
		if !e.Hidden {
			visible = append(visible, e)
		}
	}

	for i := 0; i < len(visible); i++ {
		e := visible[i]
		if e.Span == 1 && i+1 < len(visible) && visible[i+1].Span == 1 {
			left, right := e, visible[i+1]
			lw := total / 2
			rw := total - lw
			lbox := d.box(left, lw)
			rbox := d.box(right, rw)
			row := lipgloss.JoinHorizontal(lipgloss.Top, lbox, rbox)
			places = append(places,
				placement{id: left.ID, x: 0, width: lw, rect: Rect{Y: y, Height: lipgloss.Height(lbox)}},
				placement{id: right.ID, x: lw, width: rw, rect: Rect{Y: y, Height: lipgloss.Height(rbox)}},
			)
			rows = append(rows, row)
			y += lipgloss.Height(row)
			i++
			continue
		}
		w := total
		if e.Span == 1 {
			w = total / 2
		}
		b := d.box(e, w)
		places = append(places, placement{id: e.ID, x: 0, width: w, rect: Rect{Y: y, Height: lipgloss.Height(b)}})
		rows = append(rows, b)
		y += lipgloss.Height(b)
	}

	if len(rows) == 0 {
		rows = append(rows, Styles.Muted.Italic(true).Render("Todos los widgets están ocultos."))
	}
	return head + "\n" + strings.Join(rows, "\n"), places
}

// box renders e as a bordered block exactly outer columns wide.
func (d *DashboardView) box(e *Element, outer int) string {
	focused := d.Focus != nil && d.Focus.Current == e.ID
	style := widgetStyle(e, focused)
	inner := outer - style.GetHorizontalFrameSize()
	if inner < 1 {
		inner = 1
	}

	title := e.Title
	if title == "" {
		title = e.ID
	}
	if e.HandleVisible {
		title = Styles.Handle.Render(handleGlyph) + " " + title
	}
	if d.DropTarget == e.ID {
		marker := "▼"
		if d.DropBefore {
			marker = "▲"
		}
		title = Styles.DropMarker.Render(marker) + " " + title
	}

	lines := []string{lipgloss.NewStyle().Bold(true).Render(title)}
	for _, l := range textutil.Wrap(widgetBody(e.ID), inner) {
		lines = append(lines, Styles.Normal.Render(l))
	}
	return style.Width(outer - style.GetHorizontalBorderSize()).Render(strings.Join(lines, "\n"))
}
