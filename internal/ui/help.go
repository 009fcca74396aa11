package ui

import "github.com/charmbracelet/lipgloss"

func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	return styles.Footer.Width(m.width).Render(m.help.View(m.keys))
}

func (m Model) footerHeight() int {
	return lipgloss.Height(m.help.View(m.keys))
}
