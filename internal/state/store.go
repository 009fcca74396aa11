package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/wallweather/internal/engine"
)

// Snapshot represents the latest evaluation available to the dashboard.
type Snapshot struct {
	Modes         engine.ModeSet
	Phase         engine.Phase
	Weather       engine.Category
	WeatherLabel  string
	Description   string // provider's wording, e.g. "light rain"
	ActivePath    string
	Degraded      bool
	CycleCount    int
	CycleInterval int

	Sunrise time.Time
	Sunset  time.Time

	Ticks       int
	LastTick    time.Time
	LastFetch   time.Time // last successful fetch
	LastApplied time.Time

	LastError           error // last fetch error, cleared on success
	LastApplyError      error
	ConsecutiveFailures int // consecutive failed fetches
}

// IsOffline returns true when the weather API has been unreachable for multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// CycleRemaining returns the ticks left before the next cycle change.
func (s Snapshot) CycleRemaining() int {
	if s.CycleInterval <= 0 {
		return 0
	}
	return s.CycleInterval - s.CycleCount
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
	hasData  bool
}

// Update replaces the stored snapshot.
func (s *Store) Update(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot = snap
	s.hasData = true
}

// Snapshot returns a copy of the current snapshot and whether any tick has
// been recorded yet.
func (s *Store) Snapshot() (Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	if s.snapshot.LastApplyError != nil {
		snap.LastApplyError = fmt.Errorf("%w", s.snapshot.LastApplyError)
	}
	return snap, s.hasData
}
