package engine

import (
	"fmt"
	"strings"
	"time"
)

// Phase is the part of the day used to pick a daytime folder.
type Phase int

const (
	Day Phase = iota
	Night
	Sunrise
	Sunset
)

var phaseNames = map[Phase]string{
	Day:     "day",
	Night:   "night",
	Sunrise: "sunrise",
	Sunset:  "sunset",
}

// Phases lists every phase in declaration order.
func Phases() []Phase {
	return []Phase{Day, Night, Sunrise, Sunset}
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// ParsePhase maps a configuration token ("day", "night", "sunrise", "sunset").
func ParsePhase(token string) (Phase, error) {
	normalized := strings.ToLower(strings.TrimSpace(token))
	for p, name := range phaseNames {
		if name == normalized {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown daytime %q", token)
}

// ClassifyDaytime maps now onto a phase of the sunrise/sunset window.
//
// Without golden hour the window is [sunrise, sunset): now == sunrise is Day and
// now == sunset is Night. With golden hour the checks run in a fixed order and a
// later match overrides an earlier one, so Sunset wins where the Sunrise and
// Sunset windows overlap.
func ClassifyDaytime(sunrise, sunset time.Time, goldenHour bool, halfWidthMinutes int, now time.Time) Phase {
	if now.Before(sunrise) || !now.Before(sunset) {
		return Night
	}
	if !goldenHour {
		return Day
	}

	w := time.Duration(halfWidthMinutes) * time.Minute
	phase := Day
	if now.Before(sunrise.Add(w)) {
		phase = Sunrise
	}
	if !now.Before(sunset.Add(-w)) {
		phase = Sunset
	}
	return phase
}
