package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

func renderFooter(bindings []KeyBinding, status string, statusErr bool, width int) string {
	keyStyle := lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(colorMuted)

	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		if len(b.Keys) == 0 || b.Description == "" {
			continue
		}
		kb := key.NewBinding(key.WithKeys(b.Keys...), key.WithHelp(b.Keys[0], b.Description))
		h := kb.Help()
		if h.Key == " " {
			h.Key = "space"
		}
		parts = append(parts, keyStyle.Render(h.Key)+" "+descStyle.Render(h.Desc))
	}
	line := strings.Join(parts, "  ")

	if status = strings.TrimSpace(status); status != "" {
		st := statusStyle
		if statusErr {
			st = statusErrStyle
		}
		right := st.Render(status)
		gap := width - ansi.StringWidth(line) - ansi.StringWidth(right)
		if gap >= 2 {
			line += strings.Repeat(" ", gap) + right
		}
	}
	return footerStyle.Render(padRight(ansi.Truncate(line, width, ""), width))
}
