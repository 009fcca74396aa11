package ui

import (
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/five82/wallweather/internal/state"
)

// Health keys, also used as badge color keys.
const (
	healthWaiting  = "waiting"
	healthOK       = "ok"
	healthDegraded = "degraded"
	healthOffline  = "offline"
)

func healthKey(snap state.Snapshot, ok bool) string {
	switch {
	case !ok:
		return healthWaiting
	case snap.IsOffline():
		return healthOffline
	case snap.Degraded:
		return healthDegraded
	default:
		return healthOK
	}
}

func relativeTime(then, now time.Time) string {
	if then.IsZero() {
		return "never"
	}
	return humanize.RelTime(then, now, "ago", "from now")
}

func clock(t time.Time) string {
	if t.IsZero() {
		return "--:--"
	}
	return t.Local().Format("15:04")
}

func truncateMiddle(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 || value == "" {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	keep := limit - 1 // room for the ellipsis
	prefix := keep / 2
	suffix := keep - prefix
	return string(runes[:prefix]) + "…" + string(runes[len(runes)-suffix:])
}
