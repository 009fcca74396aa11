package engine

import (
	"fmt"
	"strings"
)

// Mode is a single togglable evaluation mode.
type Mode uint8

const (
	Cycle Mode = 1 << iota
	Daytime
	Weather
	GoldenHour
)

var modeTokens = []struct {
	mode  Mode
	token string
}{
	{Cycle, "cycle-mode"},
	{Daytime, "daytime-mode"},
	{Weather, "weather-mode"},
	{GoldenHour, "golden-hour-mode"},
}

// String returns the configuration token for the mode.
func (m Mode) String() string {
	for _, mt := range modeTokens {
		if mt.mode == m {
			return mt.token
		}
	}
	return fmt.Sprintf("mode(%d)", uint8(m))
}

// ParseMode maps a configuration token such as "weather-mode" to a Mode.
func ParseMode(token string) (Mode, error) {
	normalized := strings.ToLower(strings.TrimSpace(token))
	for _, mt := range modeTokens {
		if mt.token == normalized {
			return mt.mode, nil
		}
	}
	return 0, fmt.Errorf("unknown mode %q", token)
}

// ModeSet is the set of enabled modes.
type ModeSet uint8

// NewModeSet builds a set from the given modes.
func NewModeSet(modes ...Mode) ModeSet {
	var s ModeSet
	for _, m := range modes {
		s = s.With(m)
	}
	return s
}

// Has reports whether m is enabled.
func (s ModeSet) Has(m Mode) bool {
	return s&ModeSet(m) != 0
}

// With returns a copy of s with m enabled.
func (s ModeSet) With(m Mode) ModeSet {
	return s | ModeSet(m)
}

// GoldenHourActive reports whether golden hour refines the daytime phase.
// Golden hour has no effect without daytime mode.
func (s ModeSet) GoldenHourActive() bool {
	return s.Has(Daytime) && s.Has(GoldenHour)
}

// NeedsWeather reports whether any enabled mode consumes weather data.
func (s ModeSet) NeedsWeather() bool {
	return s.Has(Daytime) || s.Has(Weather)
}

// Modes lists the enabled modes in canonical order.
func (s ModeSet) Modes() []Mode {
	var out []Mode
	for _, mt := range modeTokens {
		if s.Has(mt.mode) {
			out = append(out, mt.mode)
		}
	}
	return out
}

func (s ModeSet) String() string {
	modes := s.Modes()
	if len(modes) == 0 {
		return "none"
	}
	parts := make([]string, len(modes))
	for i, m := range modes {
		parts[i] = m.String()
	}
	return strings.Join(parts, ",")
}
