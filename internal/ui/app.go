package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"inphormed/internal/client"
	"inphormed/internal/layout"
)

// AppModel is the root of the dashboard. It owns the document and routes
// keys, mouse events and store changes to the pieces that act on them.
type AppModel struct {
	Mode       AppMode
	Store      *layout.Store
	Relay      CommandSender
	Doc        *Document
	Drag       *DragController
	Dashboard  *DashboardView
	KeyHandler *KeyHandler
	Overlays   OverlayStack
	Log        *zap.Logger

	// RequestTimeout bounds the startup load and each agent command.
	RequestTimeout time.Duration

	changes     chan struct{}
	unsubscribe func()
}

// AppOption configures an AppModel.
type AppOption func(*AppModel)

// WithAppLogger sets the logger. Failures the user never sees are logged at
// debug level.
func WithAppLogger(l *zap.Logger) AppOption {
	return func(a *AppModel) { a.Log = l }
}

// WithRequestTimeout overrides client.DefaultTimeout.
func WithRequestTimeout(d time.Duration) AppOption {
	return func(a *AppModel) { a.RequestTimeout = d }
}

// NewAppModel creates the dashboard over store. relay may be nil, in which
// case agent commands are dropped.
func NewAppModel(store *layout.Store, relay CommandSender, opts ...AppOption) *AppModel {
	doc := NewDashboardDocument()
	Apply(doc, store.Get())

	a := &AppModel{
		Mode:           ModeNormal,
		Store:          store,
		Relay:          relay,
		Doc:            doc,
		Drag:           NewDragController(doc, store),
		Dashboard:      NewDashboardView(doc),
		KeyHandler:     NewKeyHandler(defaultKeybinds()),
		Log:            zap.NewNop(),
		RequestTimeout: client.DefaultTimeout,
		changes:        make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.unsubscribe = store.Subscribe(func(layout.Layout) {
		select {
		case a.changes <- struct{}{}:
		default:
			// a signal is already pending
		}
	})
	return a
}

func defaultKeybinds() *KeybindRegistry {
	msg := func(m tea.Msg) tea.Cmd { return func() tea.Msg { return m } }
	toggle := msg(ToggleCustomizeMsg{})
	prompt := msg(ShowCommandPromptMsg{})
	up := msg(MoveWidgetMsg{Delta: -1})
	down := msg(MoveWidgetMsg{Delta: 1})
	customize := []AppMode{ModeCustomize}

	reg := NewKeybindRegistry()
	reg.BindWithDesc("q", tea.Quit, "Quit")
	reg.BindWithDesc("ctrl+c", tea.Quit, "Quit")
	reg.BindWithDesc("SPC q", tea.Quit, "Quit")
	reg.BindWithDesc("SPC c", toggle, "Customize")
	reg.Bind("e", toggle)
	reg.BindWithDesc("SPC a", prompt, "Agent command")
	reg.Bind(":", prompt)
	reg.BindWithDesc("SPC r", msg(ShowResetLayoutMsg{}), "Reset layout")
	reg.BindWithDesc("SPC l", msg(ReloadLayoutMsg{}), "Reload layout")
	reg.BindWithDescForMode("SPC m k", up, "Up", customize)
	reg.BindWithDescForMode("SPC m j", down, "Down", customize)
	reg.Bind("K", up)
	reg.Bind("J", down)
	reg.Bind("shift+up", up)
	reg.Bind("shift+down", down)
	return reg
}

// Close detaches the model from the store.
func (m *AppModel) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

// AsTeaModel returns a tea.Model adapter for use with tea.NewProgram.
func (m *AppModel) AsTeaModel() tea.Model {
	return &appModelAdapter{AppModel: m}
}

// Ensure AppModel can be used as tea.Model via adapter.
var _ tea.Model = (*appModelAdapter)(nil)

type appModelAdapter struct {
	*AppModel
}

// Init implements tea.Model.
func (a *appModelAdapter) Init() tea.Cmd {
	return tea.Batch(
		loadLayoutCmd(a.Store, a.RequestTimeout),
		waitForChangeCmd(a.changes),
	)
}

// Update implements tea.Model.
func (a *appModelAdapter) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.Dashboard.Update(msg)
		return a, nil
	case LayoutLoadedMsg:
		a.Log.Debug("layout loaded",
			zap.Stringer("remote", msg.Result.Remote.Outcome),
			zap.Stringer("cache", msg.Result.Cache.Outcome),
			zap.Bool("applied", msg.Result.Applied),
			zap.Bool("stale", msg.Result.Stale))
		a.render()
		return a, nil
	case layoutChangedMsg:
		a.render()
		return a, waitForChangeCmd(a.changes)
	case ToggleCustomizeMsg:
		a.Drag.ToggleCustomizeMode()
		a.Dashboard.DropTarget = ""
		a.syncMode()
		return a, nil
	case MoveWidgetMsg:
		if a.Drag.Move(a.Dashboard.Focus.Current, msg.Delta) {
			a.render()
		}
		return a, nil
	case ShowCommandPromptMsg:
		modal := NewCommandModal()
		a.Overlays.Push(Overlay{View: modal, Dismiss: "esc"})
		return a, modal.Init()
	case SubmitCommandMsg:
		a.Overlays.Pop()
		return a, sendCommandCmd(a.Relay, msg.Command, a.Store.Get(), a.RequestTimeout)
	case CommandResultMsg:
		a.handleCommandResult(msg)
		return a, nil
	case ShowResetLayoutMsg:
		a.Overlays.Push(Overlay{View: NewResetLayoutConfirmModal(), Dismiss: "esc"})
		return a, nil
	case ResetLayoutMsg:
		a.Overlays.Pop()
		if err := a.Store.Replace(layout.Default()); err != nil {
			a.Log.Debug("layout reset failed", zap.Error(err))
		}
		a.render()
		return a, nil
	case ReloadLayoutMsg:
		return a, loadLayoutCmd(a.Store, a.RequestTimeout)
	case DismissModalMsg:
		a.Overlays.Pop()
		return a, nil
	case tea.MouseMsg:
		if a.Overlays.Len() > 0 {
			return a, nil
		}
		a.handleMouse(msg)
		return a, nil
	case tea.KeyMsg:
		if top, ok := a.Overlays.Peek(); ok {
			if top.IsDismissKey(msg.String()) {
				a.Overlays.Pop()
				return a, nil
			}
			cmd, _ := a.Overlays.UpdateTop(msg)
			return a, cmd
		}
		if consumed, cmd := a.KeyHandler.Handle(msg); consumed {
			return a, cmd
		}
	}

	if a.Overlays.Len() > 0 {
		cmd, _ := a.Overlays.UpdateTop(msg)
		return a, cmd
	}
	_, cmd := a.Dashboard.Update(msg)
	return a, cmd
}

// render projects the store's layout onto the document.
func (a *AppModel) render() {
	Apply(a.Doc, a.Store.Get())
	a.Dashboard.SyncFocus()
}

func (a *AppModel) syncMode() {
	a.Mode = ModeNormal
	if a.Drag.Customizing() {
		a.Mode = ModeCustomize
	}
	a.Dashboard.Customizing = a.Drag.Customizing()
}

// handleCommandResult applies the agent's layout, if any. Failures are only
// logged.
func (a *AppModel) handleCommandResult(msg CommandResultMsg) {
	if msg.Err != nil {
		a.Log.Debug("ui agent command failed", zap.String("command", msg.Command), zap.Error(msg.Err))
		return
	}
	if msg.Response.Layout == nil {
		return
	}
	if err := a.Store.Replace(*msg.Response.Layout); err != nil {
		a.Log.Debug("ui agent returned unusable layout", zap.Error(err))
		return
	}
	a.Dashboard.Status = strings.Join(msg.Response.Notes, " · ")
	a.render()
}

// handleMouse drives the drag gesture: press starts it on a widget, motion
// tracks the drop target, release drops and ends it.
func (a *AppModel) handleMouse(msg tea.MouseMsg) {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		id, _, ok := a.Dashboard.HitTest(msg.X, msg.Y)
		if !ok {
			return
		}
		a.Dashboard.Focus.SetFocus(id)
		a.Drag.Start(id)
	case tea.MouseActionMotion:
		if a.Drag.State() != DragDragging {
			return
		}
		a.Dashboard.DropTarget = ""
		if id, rect, ok := a.Dashboard.HitTest(msg.X, msg.Y); ok && id != a.Drag.Dragged() {
			a.Dashboard.DropTarget = id
			a.Dashboard.DropBefore = rect.topHalf(msg.Y)
		}
	case tea.MouseActionRelease:
		if a.Drag.State() != DragDragging {
			return
		}
		if id, rect, ok := a.Dashboard.HitTest(msg.X, msg.Y); ok {
			a.Drag.Drop(id, msg.Y, rect)
		}
		a.Drag.End()
		a.Dashboard.DropTarget = ""
		a.render()
	}
}

// View implements tea.Model.
func (a *appModelAdapter) View() string {
	base := a.Dashboard.View() + "\n" + footerHelp(a.Mode)
	if a.KeyHandler.LeaderWaiting {
		base += "\n" + RenderKeybindHelp(a.KeyHandler, a.Mode)
	}
	top, ok := a.Overlays.Peek()
	if !ok {
		return base
	}
	if a.Dashboard.Width > 0 && a.Dashboard.Height > 0 {
		return lipgloss.Place(a.Dashboard.Width, a.Dashboard.Height,
			lipgloss.Center, lipgloss.Center, top.View.View())
	}
	return base + "\n" + top.View.View()
}
