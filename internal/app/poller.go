package app

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/five82/wallweather/internal/engine"
	"github.com/five82/wallweather/internal/openweather"
	"github.com/five82/wallweather/internal/state"
	"github.com/five82/wallweather/internal/wallpaper"
)

const defaultPollInterval = 60 * time.Second

// Settings is the validated configuration the controller evaluates against.
type Settings struct {
	BasePath          string
	Modes             engine.ModeSet
	Folders           engine.FolderNames
	Groups            engine.WeatherGroups
	GroupsEnabled     bool
	DisabledDaytimes  []engine.Phase
	CycleInterval     int // ticks
	GoldenHourMinutes int
	DisplayMode       string
}

// EvaluationState is owned and mutated only by the Controller.
type EvaluationState struct {
	Phase        engine.Phase
	Weather      engine.Category
	WeatherLabel string
	CycleCount   int
	Dirty        bool
	Degraded     bool
}

// Reasons a tick marks the state dirty.
const (
	ReasonStart     = "start"
	ReasonCycle     = "cycle"
	ReasonDaytime   = "daytime"
	ReasonWeather   = "weather"
	ReasonRecovered = "recovered"
)

// TickReport describes what a single tick did.
type TickReport struct {
	Reasons  []string // why the state went dirty, in detection order
	Applied  bool
	Path     string // resolved path when Applied
	FetchErr error
	ApplyErr error
	State    EvaluationState
}

// ControllerOptions wire a Controller to its collaborators.
type ControllerOptions struct {
	Settings Settings
	Fetcher  openweather.Fetcher // required when daytime or weather mode is on
	Applier  wallpaper.Applier
	Store    *state.Store // optional
	Logger   logrus.FieldLogger
	Now      func() time.Time
}

// Controller is the poll state machine. Each tick optionally advances the
// cycle timer, fetches weather, reclassifies, and applies the wallpaper when
// anything changed. Ticks must not run concurrently.
type Controller struct {
	settings Settings
	fetcher  openweather.Fetcher
	applier  wallpaper.Applier
	store    *state.Store
	log      logrus.FieldLogger
	now      func() time.Time

	state   EvaluationState
	pending []string

	// bookkeeping for snapshots
	ticks        int
	obs          openweather.Observation
	activePath   string
	lastFetch    time.Time
	lastApplied  time.Time
	lastErr      error
	lastApplyErr error
	failures     int
}

// NewController returns a controller in its initial state: Day, Clear and
// dirty, so the first tick applies a wallpaper.
func NewController(opts ControllerOptions) (*Controller, error) {
	if opts.Applier == nil {
		return nil, errors.New("controller requires an applier")
	}
	if opts.Settings.Modes.NeedsWeather() && opts.Fetcher == nil {
		return nil, errors.New("daytime and weather modes require a weather fetcher")
	}
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	s := opts.Settings
	if s.Folders == nil {
		s.Folders = engine.DefaultFolderNames()
	}

	return &Controller{
		settings: s,
		fetcher:  opts.Fetcher,
		applier:  opts.Applier,
		store:    opts.Store,
		log:      logger,
		now:      now,
		state: EvaluationState{
			Phase:        engine.Day,
			Weather:      engine.Clear,
			WeatherLabel: engine.ResolveGroup(engine.Clear, s.Groups, s.GroupsEnabled),
			Dirty:        true,
		},
		pending: []string{ReasonStart},
	}, nil
}

// State returns a copy of the evaluation state.
func (c *Controller) State() EvaluationState {
	return c.state
}

// Run ticks immediately and then every interval until ctx is cancelled.
func (c *Controller) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		c.Tick(ctx)
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Tick runs one evaluation.
func (c *Controller) Tick(ctx context.Context) TickReport {
	var report TickReport
	c.ticks++
	now := c.now()
	modes := c.settings.Modes

	if modes.Has(engine.Cycle) {
		c.advanceCycle()
	}

	if modes.NeedsWeather() {
		obs, err := c.fetcher.Fetch(ctx)
		if err != nil && ctx.Err() != nil {
			// Shutting down; the failure says nothing about the weather source.
			c.log.WithError(err).Debug("tick interrupted")
			report.FetchErr = err
			report.State = c.state
			return report
		}
		if err != nil {
			c.enterDegraded(err)
			report.FetchErr = err
		} else {
			c.leaveDegraded()
			c.evaluate(obs, now)
		}
	}

	report.Reasons = c.pending
	if c.state.Dirty {
		report.Applied = true
		report.Path = c.ResolvePath()
		report.ApplyErr = c.apply(ctx, report.Path, now)
		// Apply failures are logged, never retried.
		c.state.Dirty = false
	}
	c.pending = nil

	report.State = c.state
	c.publish(now)
	return report
}

// ResolvePath computes the wallpaper directory for the current state.
func (c *Controller) ResolvePath() string {
	return engine.ResolvePath(engine.PathInput{
		BasePath:         c.settings.BasePath,
		Modes:            c.settings.Modes,
		Phase:            c.state.Phase,
		WeatherLabel:     c.state.WeatherLabel,
		DisabledDaytimes: c.settings.DisabledDaytimes,
		Folders:          c.settings.Folders,
		Degraded:         c.state.Degraded,
	})
}

func (c *Controller) markDirty(reason string) {
	c.state.Dirty = true
	c.pending = append(c.pending, reason)
}

func (c *Controller) advanceCycle() {
	c.state.CycleCount++
	if c.settings.CycleInterval > 0 && c.state.CycleCount >= c.settings.CycleInterval {
		c.state.CycleCount = 0
		c.markDirty(ReasonCycle)
	}
}

func (c *Controller) enterDegraded(err error) {
	c.failures++
	c.lastErr = err
	log := c.log.WithError(err).WithField("failures", c.failures)
	if !c.state.Degraded {
		log.Warn("weather fetch failed, falling back to base path")
	} else {
		log.Debug("weather fetch still failing")
	}
	c.state.Degraded = true
}

func (c *Controller) leaveDegraded() {
	if c.state.Degraded {
		c.log.WithField("failures", c.failures).Info("weather source reachable again")
		c.state.Degraded = false
		c.markDirty(ReasonRecovered)
	}
	c.failures = 0
	c.lastErr = nil
}

func (c *Controller) evaluate(obs openweather.Observation, now time.Time) {
	c.obs = obs
	c.lastFetch = now
	modes := c.settings.Modes

	if modes.Has(engine.Daytime) {
		phase := engine.ClassifyDaytime(obs.Sunrise, obs.Sunset, modes.GoldenHourActive(), c.settings.GoldenHourMinutes, now)
		if phase != c.state.Phase {
			c.log.WithFields(logrus.Fields{"from": c.state.Phase.String(), "to": phase.String()}).Info("daytime changed")
			c.state.Phase = phase
			c.markDirty(ReasonDaytime)
		}
	}

	if modes.Has(engine.Weather) {
		category := engine.ClassifyWeather(obs.ConditionCode)
		label := engine.ResolveGroup(category, c.settings.Groups, c.settings.GroupsEnabled)
		c.state.Weather = category
		if label != c.state.WeatherLabel {
			c.log.WithFields(logrus.Fields{"from": c.state.WeatherLabel, "to": label, "code": obs.ConditionCode}).Info("weather changed")
			c.state.WeatherLabel = label
			c.markDirty(ReasonWeather)
		}
	}
}

func (c *Controller) apply(ctx context.Context, path string, now time.Time) error {
	c.activePath = path
	log := c.log.WithFields(logrus.Fields{"path": path, "reasons": c.pending})
	log.Info("applying wallpaper")

	err := c.applier.Apply(ctx, path, c.settings.DisplayMode)
	c.lastApplyErr = err
	if err != nil {
		log.WithError(err).Error("apply wallpaper failed")
		return err
	}
	c.lastApplied = now
	return nil
}

func (c *Controller) publish(now time.Time) {
	if c.store == nil {
		return
	}
	c.store.Update(state.Snapshot{
		Modes:               c.settings.Modes,
		Phase:               c.state.Phase,
		Weather:             c.state.Weather,
		WeatherLabel:        c.state.WeatherLabel,
		Description:         c.obs.Description,
		ActivePath:          c.activePath,
		Degraded:            c.state.Degraded,
		CycleCount:          c.state.CycleCount,
		CycleInterval:       c.settings.CycleInterval,
		Sunrise:             c.obs.Sunrise,
		Sunset:              c.obs.Sunset,
		Ticks:               c.ticks,
		LastTick:            now,
		LastFetch:           c.lastFetch,
		LastApplied:         c.lastApplied,
		LastError:           c.lastErr,
		LastApplyError:      c.lastApplyErr,
		ConsecutiveFailures: c.failures,
	})
}
