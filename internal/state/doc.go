// Package state shares the poll controller's latest evaluation with the
// dashboard.
//
// # Overview
//
// The controller owns its evaluation state exclusively. After every tick it
// publishes a Snapshot, a value copy of that state plus timestamps and errors,
// to a Store. The dashboard reads snapshots on its own schedule and never
// touches the controller.
//
//	Producer (Controller):          Consumer (UI):
//	┌──────────────────┐           ┌──────────────────┐
//	│ Tick()           │           │                  │
//	│      ↓           │           │                  │
//	│ store.Update()   │──────────→│ store.Snapshot() │
//	│      ↓           │  (mutex)  │      ↓           │
//	│ wait for ticker  │           │  render          │
//	└──────────────────┘           └──────────────────┘
//
// # Concurrency Model
//
// Store uses a readers-writer lock:
//
//   - Update(): write lock, replaces the snapshot wholesale
//   - Snapshot(): read lock, returns a copy
//
// Snapshots contain no slices or maps; errors are re-wrapped so the reader
// never shares an error value with the writer.
//
// # Offline Detection
//
// ConsecutiveFailures counts failed weather fetches in a row. IsOffline
// reports two or more, which the dashboard shows as "offline" rather than a
// single transient failure.
//
// # Testing Considerations
//
// The zero Store is ready to use. Snapshot reports false until the first
// Update so the UI can tell "no tick yet" from an empty evaluation.
package state
