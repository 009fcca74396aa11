// Package app is the composition root and poll controller for wallweather.
//
// # Overview
//
// Run loads configuration, builds the collaborators the enabled modes need,
// and drives the Controller until the context is cancelled. The Controller is
// the state machine that decides when the wallpaper folder changes.
//
// # Components
//
//   - app.go: Run, logger setup and wiring from config.Config
//   - poller.go: Controller, its evaluation state and the tick loop
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       ├─────> config.Load()            validated Config
//	       ├─────> openweather.NewClient()  only for daytime/weather modes
//	       ├─────> wallpaper.NewSetter()    feh by default
//	       ├─────> NewController()
//	       ├─────> Controller.Run()         tick loop
//	       └─────> ui.Run()                 optional dashboard (errgroup)
//
//	Tick:
//	┌──────────────────────────────────────────────┐
//	│ 1. cycle-mode: advance counter, maybe dirty  │
//	│ 2. fetch weather (daytime or weather mode)   │
//	│    failure → degraded, keep old labels       │
//	│    success → leave degraded, reclassify      │
//	│ 3. dirty → resolve path, apply, clear dirty  │
//	│ 4. publish Snapshot to state.Store           │
//	└──────────────────────────────────────────────┘
//
// # Evaluation State
//
// The controller starts at Day/Clear with the dirty flag set, so the first
// tick always applies a folder. After that a folder is applied only when:
//
//   - the cycle counter reaches cycle_interval
//   - the daytime phase changes
//   - the weather label changes (group name when grouping is on)
//   - the weather source becomes reachable again after a failure
//
// Entering degraded mode does not by itself re-apply. While degraded the
// resolved path is base_path, and the phase and weather label are kept as
// they were so recovery only re-applies when needed.
//
// # Error Handling
//
// Fatal (returned from Run):
//   - configuration missing or invalid
//   - weather client or controller construction failure
//   - with Once, a failed wallpaper command
//
// Recoverable (logged, the loop continues):
//   - weather fetch failures, which enter degraded mode
//   - wallpaper command failures; dirty is cleared and nothing is retried
//
// # Logging
//
// Logs are logrus text lines written to <log_dir>/wallweather.log. Without
// the dashboard they are also written to stderr; with it the file is the only
// sink and the dashboard tails it.
//
// # Concurrency
//
// Ticks never overlap: Controller.Run calls Tick from a single goroutine. The
// dashboard only sees state through the Store.
package app
