// Package config loads and validates the wallweather configuration file.
//
// # Overview
//
// Configuration lives in a single TOML file. Load reads it once at startup,
// layers environment overrides on top, fills defaults, validates the result
// and returns an immutable Config. Any error is fatal: the poll loop never
// runs against a configuration it could not validate.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/wallweather/config.toml (default)
//  3. A .env file in the same directory is loaded into the environment
//  4. WALLWEATHER_* variables override the file
//
// Unlike most settings files, a missing config file is an error. There is no
// sensible default for base_path.
//
// # Environment Overrides
//
//   - WALLWEATHER_BASE_PATH: replaces base_path
//   - WALLWEATHER_API_KEY: replaces [weather].api_key
//   - WALLWEATHER_CITY: replaces [weather].city
//   - WALLWEATHER_COUNTRY: replaces [weather].country
//
// Variables already set in the process environment win over the .env file.
// This keeps the API key out of the config file when it is shared.
//
// # TOML Format
//
//	base_path = "~/Pictures/wallpapers"
//	modes = ["daytime-mode", "weather-mode", "golden-hour-mode"]
//	cycle_interval = 30        # ticks between cycle refreshes
//	golden_hour_minutes = 60   # half-width of the sunrise/sunset windows
//	poll_seconds = 60
//	display_mode = "fill"      # center, fill, max, scale, tile
//	command = "feh"
//	log_dir = "~/.local/share/wallweather/logs"
//	disabled_daytimes = ["night"]
//	weather_groups_enabled = true
//
//	[weather]
//	api_key = "..."
//	city = "Oslo"
//	country = "NO"
//
//	[folders]
//	sunrise = "dawn"
//
//	[[weather_groups]]
//	name = "cloudy"
//	members = ["few-clouds", "scattered-clouds", "broken-clouds", "overcast-clouds"]
//
// # Validation
//
// Struct tags are checked with go-playground/validator. [weather] is only
// validated when daytime or weather mode is enabled. Mode, daytime and weather
// tokens must be known. A weather type may belong to at most one group.
// Group names and folder overrides become directory names under base_path, so
// they must be a single non-blank segment: no separators, no . or ..
//
// # Path Expansion
//
// base_path, log_dir and the config path itself accept tilde and relative
// paths. BasePath is always absolute and always ends with a separator so it
// can be used as the degraded fallback directly.
//
// # Testing Considerations
//
// Tests point HOME at a temp dir and unset the WALLWEATHER_* variables so the
// developer's own environment cannot leak in.
package config
