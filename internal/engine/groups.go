package engine

import "slices"

// WeatherGroup folds several categories into one folder.
type WeatherGroup struct {
	Name    string
	Members []Category
}

// Contains reports whether c belongs to the group.
func (g WeatherGroup) Contains(c Category) bool {
	return slices.Contains(g.Members, c)
}

// WeatherGroups keeps groups in configuration order.
type WeatherGroups []WeatherGroup

// Find returns the first group, in configuration order, containing c.
func (gs WeatherGroups) Find(c Category) (WeatherGroup, bool) {
	for _, g := range gs {
		if g.Contains(c) {
			return g, true
		}
	}
	return WeatherGroup{}, false
}

// ResolveGroup returns the folder label for c: the name of the first group
// containing it when grouping is enabled, otherwise the category's own name.
func ResolveGroup(c Category, groups WeatherGroups, enabled bool) string {
	if !enabled {
		return c.String()
	}
	if g, ok := groups.Find(c); ok {
		return g.Name
	}
	return c.String()
}
