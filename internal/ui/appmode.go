package ui

// AppMode is the dashboard's interaction mode. It only filters which key
// hints are shown; customization itself is owned by DragController.
type AppMode int

const (
	ModeNormal AppMode = iota
	ModeCustomize
)

func (m AppMode) String() string {
	switch m {
	case ModeNormal:
		return "Normal"
	case ModeCustomize:
		return "Customize"
	default:
		return "Unknown"
	}
}
