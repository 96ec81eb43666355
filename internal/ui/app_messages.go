package ui

import (
	"inphormed/internal/client"
	"inphormed/internal/layout"
)

// LayoutLoadedMsg carries the result of the startup (or SPC l) load.
type LayoutLoadedMsg struct {
	Result layout.LoadResult
}

// layoutChangedMsg means the store changed since the last render. It
// carries no value: the handler reads the store, so coalesced signals lose
// nothing.
type layoutChangedMsg struct{}

// ToggleCustomizeMsg flips customization mode (SPC c, e).
type ToggleCustomizeMsg struct{}

// MoveWidgetMsg moves the focused widget by Delta visible slots (customize
// mode only).
type MoveWidgetMsg struct {
	Delta int
}

// ShowCommandPromptMsg opens the UI agent prompt (SPC a, :).
type ShowCommandPromptMsg struct{}

// SubmitCommandMsg is sent by the prompt on enter.
type SubmitCommandMsg struct {
	Command string
}

// CommandResultMsg carries the UI agent's answer.
type CommandResultMsg struct {
	Command  string
	Response client.CommandResponse
	Err      error
}

// ShowResetLayoutMsg opens the reset confirmation (SPC r).
type ShowResetLayoutMsg struct{}

// ResetLayoutMsg restores the default layout.
type ResetLayoutMsg struct{}

// ReloadLayoutMsg reloads the layout from the remote store and cache (SPC l).
type ReloadLayoutMsg struct{}

// DismissModalMsg closes the top overlay.
type DismissModalMsg struct{}
