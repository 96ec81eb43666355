package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"inphormed/internal/client"
	"inphormed/internal/layout"
)

// CommandSender relays a UI agent command. *client.Client implements it.
type CommandSender interface {
	SendCommand(ctx context.Context, command string, l layout.Layout) (client.CommandResponse, error)
}

var _ CommandSender = (*client.Client)(nil)

// loadLayoutCmd runs Store.Load off the event loop.
func loadLayoutCmd(store *layout.Store, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return LayoutLoadedMsg{Result: store.Load(ctx)}
	}
}

// waitForChangeCmd blocks until the store signals a change. Update re-arms it
// after every layoutChangedMsg.
func waitForChangeCmd(changes <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return layoutChangedMsg{}
	}
}

// sendCommandCmd posts command with the layout as it was when the user hit
// enter.
func sendCommandCmd(relay CommandSender, command string, l layout.Layout, timeout time.Duration) tea.Cmd {
	if relay == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		resp, err := relay.SendCommand(ctx, command, l)
		return CommandResultMsg{Command: command, Response: resp, Err: err}
	}
}
