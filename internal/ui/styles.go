package ui

import "github.com/charmbracelet/lipgloss"

// Theme colors used throughout the UI
const (
	ColorAccent    = "86"  // titles, customization ring
	ColorHighlight = "205" // focused widget, keys
	ColorDanger    = "196" // destructive confirmations
	ColorMuted     = "241" // hints, idle borders
	ColorText      = "252" // body text
	ColorDim       = "238" // widget being dragged
	ColorWarning   = "208" // confirmation details
)

// Styles contains the shared style definitions.
var Styles = struct {
	Title        lipgloss.Style
	TitleWarning lipgloss.Style
	Badge        lipgloss.Style // "customizing" marker in the header

	Box       lipgloss.Style // modal box
	BoxDanger lipgloss.Style

	Widget        lipgloss.Style // idle widget border
	WidgetFocused lipgloss.Style
	WidgetRinged  lipgloss.Style // customization outline
	WidgetDimmed  lipgloss.Style // drag source
	DropMarker    lipgloss.Style
	Handle        lipgloss.Style

	Normal  lipgloss.Style
	Muted   lipgloss.Style
	Hint    lipgloss.Style
	Status  lipgloss.Style
	Details lipgloss.Style
}{
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccent)),
	TitleWarning: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorDanger)),
	Badge: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("0")).
		Background(lipgloss.Color(ColorAccent)).
		Padding(0, 1),
	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorHighlight)).
		Padding(1, 2).
		Margin(1),
	BoxDanger: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorDanger)).
		Padding(1, 2).
		Margin(1),
	Widget: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorMuted)).
		Padding(0, 1),
	WidgetFocused: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorHighlight)).
		Padding(0, 1),
	WidgetRinged: lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(lipgloss.Color(ColorAccent)).
		Padding(0, 1),
	WidgetDimmed: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorDim)).
		Foreground(lipgloss.Color(ColorDim)).
		Faint(true).
		Padding(0, 1),
	DropMarker: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHighlight)).
		Bold(true),
	Handle: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccent)),
	Normal: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorText)),
	Muted: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)),
	Hint: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)),
	Status: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccent)),
	Details: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorWarning)),
}

// widgetStyle picks the border style for e. Dragging beats the
// customization ring, which beats focus.
func widgetStyle(e *Element, focused bool) lipgloss.Style {
	switch {
	case e.Dimmed:
		return Styles.WidgetDimmed
	case e.Ringed && focused:
		return Styles.WidgetRinged.BorderForeground(lipgloss.Color(ColorHighlight))
	case e.Ringed:
		return Styles.WidgetRinged
	case focused:
		return Styles.WidgetFocused
	default:
		return Styles.Widget
	}
}
