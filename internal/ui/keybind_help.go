package ui

import (
	"sort"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// RenderKeybindHelp draws the transient hint bar shown after SPC: the keys
// that can follow the current sequence in mode.
func RenderKeybindHelp(h *KeyHandler, mode AppMode) string {
	if h == nil || h.Registry == nil {
		return ""
	}
	hints := h.Registry.LeaderHints(h.Sequence(), mode)
	if len(hints) == 0 {
		return ""
	}

	keys := make([]string, 0, len(hints))
	for k := range hints {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	bindings := make([]key.Binding, 0, len(keys)+1)
	for _, k := range keys {
		bindings = append(bindings, key.NewBinding(key.WithKeys(k), key.WithHelp(k, hints[k])))
	}
	bindings = append(bindings, key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")))

	hm := help.New()
	hm.Styles.ShortKey = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorHighlight)).Bold(true)
	hm.Styles.ShortDesc = Styles.Muted
	hm.Styles.ShortSeparator = Styles.Muted

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorAccent)).
		Padding(0, 1)

	prefix := h.Sequence()
	if prefix == "" {
		prefix = "SPC"
	}
	return box.Render(Styles.Muted.Render(prefix) + " " + hm.ShortHelpView(bindings))
}

// footerHelp is the always-visible one-line hint under the dashboard.
func footerHelp(mode AppMode) string {
	bindings := []key.Binding{
		key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab/j/k", "focus")),
		key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "customize")),
		key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "command")),
		key.NewBinding(key.WithKeys(" "), key.WithHelp("SPC", "menu")),
		key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	}
	if mode == ModeCustomize {
		bindings = append([]key.Binding{
			key.NewBinding(key.WithKeys("K", "J"), key.WithHelp("K/J", "move")),
			key.NewBinding(key.WithKeys("mouse"), key.WithHelp("drag", "reorder")),
		}, bindings...)
	}
	hm := help.New()
	hm.Styles.ShortKey = Styles.Status
	hm.Styles.ShortDesc = Styles.Muted
	hm.Styles.ShortSeparator = Styles.Muted
	return hm.ShortHelpView(bindings)
}
