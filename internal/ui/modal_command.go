package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// CommandModal is the prompt for a free-text UI agent command, such as
// "pon verificar claims primero".
type CommandModal struct {
	input textinput.Model
}

// Ensure CommandModal implements View.
var _ View = (*CommandModal)(nil)

// NewCommandModal creates a focused, empty prompt.
func NewCommandModal() *CommandModal {
	ti := textinput.New()
	ti.Placeholder = "mueve chat al final"
	ti.Prompt = ": "
	ti.CharLimit = 200
	ti.Width = 48
	ti.Focus()
	return &CommandModal{input: ti}
}

// Value returns the text typed so far.
func (m *CommandModal) Value() string {
	return m.input.Value()
}

// Init implements View.
func (m *CommandModal) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements View.
func (m *CommandModal) Update(msg tea.Msg) (View, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return DismissModalMsg{} }
		case "enter":
			text := strings.TrimSpace(m.input.Value())
			if text == "" {
				return m, func() tea.Msg { return DismissModalMsg{} }
			}
			return m, func() tea.Msg { return SubmitCommandMsg{Command: text} }
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View implements View.
func (m *CommandModal) View() string {
	content := Styles.Title.Render("Comando de interfaz") + "\n\n"
	content += m.input.View() + "\n\n"
	content += Styles.Hint.Render("Enter: enviar  Esc: cancelar")
	return Styles.Box.Render(content)
}
