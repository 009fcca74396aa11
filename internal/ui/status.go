package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/wallweather/internal/engine"
)

type statusRow struct {
	label string
	value string
}

// statusRows lists what the panel shows for the current snapshot. Rows for
// modes that are off are omitted.
func (m Model) statusRows() []statusRow {
	styles := m.theme.Styles()
	snap := m.snapshot
	now := m.now()

	if !m.hasSnapshot {
		return []statusRow{
			{"Base", styles.Text.Render(m.basePath)},
			{"Status", styles.MutedText.Render("no evaluation yet")},
		}
	}

	var rows []statusRow
	if snap.Modes.Has(engine.Daytime) {
		phase := snap.Phase.String()
		value := styles.BadgeStyle(phase).Render(phase) + " " +
			styles.MutedText.Render(fmt.Sprintf("sunrise %s  sunset %s", clock(snap.Sunrise), clock(snap.Sunset)))
		rows = append(rows, statusRow{"Daytime", value})
	}
	if snap.Modes.Has(engine.Weather) {
		value := styles.AccentText.Render(snap.WeatherLabel)
		detail := snap.Weather.String()
		if snap.Description != "" && snap.Description != detail {
			detail += ", " + snap.Description
		}
		if detail != snap.WeatherLabel {
			value += " " + styles.MutedText.Render("("+detail+")")
		}
		rows = append(rows, statusRow{"Weather", value})
	}
	if snap.Modes.Has(engine.Cycle) {
		value := fmt.Sprintf("%d/%d ticks, next refresh in %d", snap.CycleCount, snap.CycleInterval, snap.CycleRemaining())
		rows = append(rows, statusRow{"Cycle", styles.Text.Render(value)})
	}

	path := snap.ActivePath
	if path == "" {
		path = "(none yet)"
	}
	rows = append(rows,
		statusRow{"Folder", styles.Text.Render(truncateMiddle(path, max(m.width-16, 12)))},
		statusRow{"Applied", styles.Text.Render(relativeTime(snap.LastApplied, now))},
	)

	fetch := styles.SuccessText.Render("ok")
	switch {
	case !snap.Modes.NeedsWeather():
		fetch = styles.FaintText.Render("not used")
	case snap.LastError != nil:
		fetch = styles.DangerText.Render(snap.LastError.Error()) + " " +
			styles.MutedText.Render(fmt.Sprintf("(%d in a row)", snap.ConsecutiveFailures))
	case snap.LastFetch.IsZero():
		fetch = styles.MutedText.Render("pending")
	default:
		fetch += " " + styles.MutedText.Render(relativeTime(snap.LastFetch, now))
	}
	rows = append(rows, statusRow{"Fetch", fetch})

	if snap.LastApplyError != nil {
		rows = append(rows, statusRow{"Apply", styles.DangerText.Render(snap.LastApplyError.Error())})
	}
	return rows
}

func (m Model) statusHeight() int {
	return len(m.statusRows()) + 2
}

func (m Model) renderStatus() string {
	styles := m.theme.Styles()
	rows := m.statusRows()

	labelWidth := 0
	for _, row := range rows {
		labelWidth = max(labelWidth, len(row.label))
	}
	label := styles.MutedText.Width(labelWidth + 2)

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, label.Render(row.label)+row.value)
	}

	return styles.Panel.Width(max(m.width-2, 10)).Render(strings.Join(lines, "\n"))
}

func (m Model) renderMain() string {
	sections := []string{m.renderHeader(), m.renderStatus()}
	if !m.hideLogs {
		sections = append(sections, m.renderLogs())
	}
	sections = append(sections, m.renderFooter())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
