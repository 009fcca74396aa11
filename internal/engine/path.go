package engine

import (
	"slices"
	"strings"
)

// FolderNames maps each phase to its folder name.
type FolderNames map[Phase]string

// DefaultFolderNames returns the built-in folder names (the phase names).
func DefaultFolderNames() FolderNames {
	names := make(FolderNames, len(phaseNames))
	for p, name := range phaseNames {
		names[p] = name
	}
	return names
}

// MergeFolderNames returns the defaults with overrides applied. Blank
// overrides are ignored, so the result is always fully populated.
func MergeFolderNames(overrides map[Phase]string) FolderNames {
	merged := DefaultFolderNames()
	for p, name := range overrides {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			merged[p] = trimmed
		}
	}
	return merged
}

// Name returns the folder for p, falling back to the phase name.
func (f FolderNames) Name(p Phase) string {
	if name, ok := f[p]; ok && name != "" {
		return name
	}
	return p.String()
}

// PathInput carries everything ResolvePath needs.
type PathInput struct {
	BasePath         string
	Modes            ModeSet
	Phase            Phase
	WeatherLabel     string // after group resolution
	DisabledDaytimes []Phase
	Folders          FolderNames
	Degraded         bool
}

// ResolvePath builds the wallpaper directory by appending segments to the base
// path: the daytime folder first, then the weather label. A separator is only
// placed between two segments. BasePath is expected to end with a separator
// when any segment can be appended.
func ResolvePath(in PathInput) string {
	if in.Degraded {
		return in.BasePath
	}

	var b strings.Builder
	b.WriteString(in.BasePath)

	daytime := in.Modes.Has(Daytime)
	if daytime {
		b.WriteString(in.Folders.Name(in.Phase))
	}

	suppressed := daytime && slices.Contains(in.DisabledDaytimes, in.Phase)
	if in.Modes.Has(Weather) && !suppressed {
		if daytime {
			b.WriteByte('/')
		}
		b.WriteString(in.WeatherLabel)
	}
	return b.String()
}
