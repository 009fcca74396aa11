package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the one-line title bar: logo, health badge and the
// age of the last tick.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	sep := lipgloss.NewStyle().Background(lipgloss.Color(m.theme.Surface)).Render("  ")

	health := healthKey(m.snapshot, m.hasSnapshot)
	parts := []string{
		styles.Logo.Render("wallweather"),
		styles.BadgeStyle(health).Render(strings.ToUpper(health)),
	}
	if m.hasSnapshot {
		parts = append(parts,
			styles.MutedText.Render("tick "+relativeTime(m.snapshot.LastTick, m.now())),
			styles.FaintText.Render(m.snapshot.Modes.String()),
		)
	} else if m.basePath != "" {
		parts = append(parts, styles.MutedText.Render("waiting for first tick"))
	}

	return styles.Header.Width(m.width).Render(strings.Join(parts, sep))
}
