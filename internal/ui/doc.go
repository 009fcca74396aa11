// Package ui provides the wallweather terminal dashboard.
//
// # Overview
//
// The dashboard is a read-only Bubble Tea program that shows what the poll
// controller last decided: the current daytime phase and weather label, the
// folder in use, when it was applied, and whether the weather source is
// reachable. Below the status panel it tails the wallweather log file.
//
// # Data Flow
//
//	┌──────────────┐   Snapshot()   ┌──────────────┐
//	│ state.Store  │ ─────────────→ │ Model        │
//	└──────────────┘                │  status      │
//	┌──────────────┐   Read()       │  log tail    │
//	│ log file     │ ─────────────→ │  footer/help │
//	└──────────────┘                └──────────────┘
//
// A tick fires every RefreshEvery (default one second). Each tick reads the
// latest snapshot and, unless logs are hidden, the last 400 log lines. The
// dashboard never calls into the controller; quitting it stops wallweather.
//
// # Health
//
// The header badge shows one of:
//
//   - WAITING: no tick has completed yet
//   - OK: the last fetch succeeded, or weather is not used
//   - DEGRADED: the last fetch failed and the base folder is in use
//   - OFFLINE: two or more fetches in a row failed
//
// # Key Bindings
//
//   - j/k, up/down: scroll the log
//   - g: jump to the oldest line and stop following
//   - G: jump to the newest line and follow
//   - l: show or hide the log panel
//   - T: cycle theme
//   - h/?: toggle full help
//   - q, e or Ctrl+C: quit
//
// Theme and log visibility are saved to the prefs file whenever they change.
package ui
