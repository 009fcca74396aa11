// Package engine decides which wallpaper folder is active.
//
// # Overview
//
// The engine is a set of pure functions. Given the enabled modes, the current
// sunrise/sunset window, a weather condition code and the user's folder layout,
// it produces the directory wallpapers should be picked from. It owns no state;
// the poll controller in package app keeps the evaluation state and calls into
// the engine once per tick.
//
// # Components
//
//   - mode.go: Mode flags and ModeSet (cycle, daytime, weather, golden hour)
//   - daytime.go: Phase and ClassifyDaytime
//   - weather.go: Category and ClassifyWeather
//   - groups.go: WeatherGroup and ResolveGroup
//   - path.go: FolderNames and ResolvePath
//
// # Daytime Phases
//
// Without golden hour the day is split into Day and Night at sunrise and sunset.
// With golden hour enabled a window of the configured half-width is carved out
// after sunrise (Sunrise) and before sunset (Sunset):
//
//	night | sunrise | day ............ day | sunset | night
//	      ^sunrise  ^sunrise+w    sunset-w^  sunset^
//
// When the two windows overlap, Sunset wins.
//
// # Path Layout
//
// Folders nest daytime first, then weather:
//
//	<base>/day/rain
//	<base>/night
//	<base>/cloudy          (weather mode only, "cloudy" is a group)
//
// While the weather source is unreachable the base path is used as-is.
//
// # Thread Safety
//
// Every function in this package is pure and safe to call from any goroutine.
package engine
