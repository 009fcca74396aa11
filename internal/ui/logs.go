package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/wallweather/internal/logtail"
)

func (m *Model) updateLogViewport() {
	if !m.ready {
		return
	}
	m.logViewport.SetContent(m.logContent())
	if m.follow {
		m.logViewport.GotoBottom()
	}
}

func (m Model) logContent() string {
	styles := m.theme.Styles()
	if m.logErr != nil {
		return styles.DangerText.Render(m.logErr.Error())
	}
	if len(m.logLines) == 0 {
		return styles.FaintText.Render("no log output yet")
	}

	var b strings.Builder
	for i, line := range m.logLines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(m.levelStyle(logtail.Level(line)).Render(line))
	}
	return b.String()
}

func (m Model) levelStyle(level string) lipgloss.Style {
	styles := m.theme.Styles()
	switch level {
	case "error":
		return styles.DangerText
	case "warning":
		return styles.WarningText
	case "debug", "trace":
		return styles.FaintText
	default:
		return styles.Text
	}
}

func (m Model) renderLogs() string {
	styles := m.theme.Styles()
	return styles.Panel.Width(max(m.width-2, 10)).Render(m.logViewport.View())
}
