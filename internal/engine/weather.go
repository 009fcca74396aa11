package engine

import (
	"fmt"
	"strings"
)

// Category is a weather condition bucket with its own wallpaper folder.
type Category int

const (
	Clear Category = iota
	FewClouds
	ScatteredClouds
	BrokenClouds
	OvercastClouds
	Drizzle
	Mist
	Rain
	Snow
	Thunder
)

type categoryInfo struct {
	display string // folder name
	token   string // configuration token
}

var categories = map[Category]categoryInfo{
	Clear:           {"clear", "clear"},
	FewClouds:       {"few clouds", "few-clouds"},
	ScatteredClouds: {"scattered clouds", "scattered-clouds"},
	BrokenClouds:    {"broken clouds", "broken-clouds"},
	OvercastClouds:  {"overcast clouds", "overcast-clouds"},
	Drizzle:         {"drizzle", "drizzle"},
	Mist:            {"mist", "mist"},
	Rain:            {"rain", "rain"},
	Snow:            {"snow", "snow"},
	Thunder:         {"thunder", "thunder"},
}

// Categories lists every category in declaration order.
func Categories() []Category {
	return []Category{
		Clear, FewClouds, ScatteredClouds, BrokenClouds, OvercastClouds,
		Drizzle, Mist, Rain, Snow, Thunder,
	}
}

// String returns the display name, which doubles as the folder name.
func (c Category) String() string {
	if info, ok := categories[c]; ok {
		return info.display
	}
	return fmt.Sprintf("category(%d)", int(c))
}

// Token returns the configuration token for c.
func (c Category) Token() string {
	if info, ok := categories[c]; ok {
		return info.token
	}
	return ""
}

// ParseCategory maps a configuration token such as "few-clouds" to a Category.
func ParseCategory(token string) (Category, error) {
	normalized := strings.ToLower(strings.TrimSpace(token))
	for _, c := range Categories() {
		if categories[c].token == normalized {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown weather type %q", token)
}

// conditionRanges are half-open [lo, hi) intervals of OpenWeatherMap condition
// codes. They must not overlap.
var conditionRanges = []struct {
	lo, hi   int
	category Category
}{
	{199, 233, Thunder},
	{299, 321, Drizzle},
	{499, 532, Rain},
	{599, 623, Snow},
	{700, 781, Mist},
	{801, 802, FewClouds},
	{802, 803, ScatteredClouds},
	{803, 804, BrokenClouds},
	{804, 805, OvercastClouds},
}

// ClassifyWeather maps a condition code to a category. Codes outside every
// known range are Clear.
func ClassifyWeather(code int) Category {
	for _, r := range conditionRanges {
		if code >= r.lo && code < r.hi {
			return r.category
		}
	}
	return Clear
}
