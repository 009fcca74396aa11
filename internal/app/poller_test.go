package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/wallweather/internal/engine"
	"github.com/five82/wallweather/internal/openweather"
	"github.com/five82/wallweather/internal/state"
)

type fakeFetcher struct {
	obs   openweather.Observation
	err   error
	calls int
}

func (f *fakeFetcher) Fetch(context.Context) (openweather.Observation, error) {
	f.calls++
	if f.err != nil {
		return openweather.Observation{}, f.err
	}
	return f.obs, nil
}

type applyCall struct {
	dir  string
	mode string
}

type fakeApplier struct {
	calls []applyCall
	err   error
}

func (f *fakeApplier) Apply(_ context.Context, dir, mode string) error {
	f.calls = append(f.calls, applyCall{dir: dir, mode: mode})
	return f.err
}

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

var (
	noon    = time.Date(2025, 5, 11, 12, 0, 0, 0, time.UTC)
	sunrise = time.Date(2025, 5, 11, 5, 0, 0, 0, time.UTC)
	sunset  = time.Date(2025, 5, 11, 21, 0, 0, 0, time.UTC)
)

func observation(code int) openweather.Observation {
	return openweather.Observation{ConditionCode: code, Sunrise: sunrise, Sunset: sunset}
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestController(t *testing.T, s Settings, f openweather.Fetcher, a *fakeApplier, clk *clock) *Controller {
	t.Helper()
	if s.BasePath == "" {
		s.BasePath = "/wp/"
	}
	if s.DisplayMode == "" {
		s.DisplayMode = "fill"
	}
	c, err := NewController(ControllerOptions{
		Settings: s,
		Fetcher:  f,
		Applier:  a,
		Logger:   quietLogger(),
		Now:      clk.now,
	})
	require.NoError(t, err)
	return c
}

func TestNewController_RequiresCollaborators(t *testing.T) {
	_, err := NewController(ControllerOptions{Settings: Settings{Modes: engine.NewModeSet(engine.Cycle)}})
	assert.Error(t, err)

	_, err = NewController(ControllerOptions{
		Settings: Settings{Modes: engine.NewModeSet(engine.Weather)},
		Applier:  &fakeApplier{},
	})
	assert.Error(t, err)

	c, err := NewController(ControllerOptions{
		Settings: Settings{Modes: engine.NewModeSet(engine.Cycle)},
		Applier:  &fakeApplier{},
	})
	require.NoError(t, err)
	st := c.State()
	assert.Equal(t, engine.Day, st.Phase)
	assert.Equal(t, engine.Clear, st.Weather)
	assert.True(t, st.Dirty)
	assert.False(t, st.Degraded)
}

func TestTick_FirstTickAppliesDaytimeAndWeatherPath(t *testing.T) {
	fetcher := &fakeFetcher{obs: observation(501)}
	applier := &fakeApplier{}
	c := newTestController(t, Settings{Modes: engine.NewModeSet(engine.Daytime, engine.Weather)}, fetcher, applier, &clock{noon})

	report := c.Tick(context.Background())

	require.True(t, report.Applied)
	assert.Equal(t, "/wp/day/rain", report.Path)
	assert.Equal(t, []string{ReasonStart, ReasonWeather}, report.Reasons)
	assert.Equal(t, []applyCall{{dir: "/wp/day/rain", mode: "fill"}}, applier.calls)
	assert.False(t, c.State().Dirty)
}

func TestTick_NoChangeDoesNotApply(t *testing.T) {
	fetcher := &fakeFetcher{obs: observation(501)}
	applier := &fakeApplier{}
	c := newTestController(t, Settings{Modes: engine.NewModeSet(engine.Daytime, engine.Weather)}, fetcher, applier, &clock{noon})

	c.Tick(context.Background())
	report := c.Tick(context.Background())

	assert.False(t, report.Applied)
	assert.Empty(t, report.Reasons)
	assert.Len(t, applier.calls, 1)
	assert.Equal(t, 2, fetcher.calls)
}

func TestTick_DaytimeChangeApplies(t *testing.T) {
	fetcher := &fakeFetcher{obs: observation(800)}
	applier := &fakeApplier{}
	clk := &clock{noon}
	c := newTestController(t, Settings{Modes: engine.NewModeSet(engine.Daytime)}, fetcher, applier, clk)

	c.Tick(context.Background())
	clk.t = sunset.Add(time.Minute)
	report := c.Tick(context.Background())

	require.True(t, report.Applied)
	assert.Equal(t, []string{ReasonDaytime}, report.Reasons)
	assert.Equal(t, "/wp/night", report.Path)
	assert.Equal(t, engine.Night, c.State().Phase)
}

func TestTick_GoldenHourPhases(t *testing.T) {
	fetcher := &fakeFetcher{obs: observation(800)}
	applier := &fakeApplier{}
	clk := &clock{sunrise.Add(10 * time.Minute)}
	s := Settings{
		Modes:             engine.NewModeSet(engine.Daytime, engine.GoldenHour),
		GoldenHourMinutes: 30,
		Folders:           engine.MergeFolderNames(map[engine.Phase]string{engine.Sunrise: "dawn"}),
	}
	c := newTestController(t, s, fetcher, applier, clk)

	report := c.Tick(context.Background())
	assert.Equal(t, "/wp/dawn", report.Path)

	clk.t = sunset.Add(-10 * time.Minute)
	report = c.Tick(context.Background())
	assert.Equal(t, "/wp/sunset", report.Path)
}

func TestTick_WeatherGroupLabel(t *testing.T) {
	fetcher := &fakeFetcher{obs: observation(801)}
	applier := &fakeApplier{}
	s := Settings{
		Modes:         engine.NewModeSet(engine.Weather),
		Groups:        engine.WeatherGroups{{Name: "cloudy", Members: []engine.Category{engine.FewClouds, engine.BrokenClouds}}},
		GroupsEnabled: true,
	}
	c := newTestController(t, s, fetcher, applier, &clock{noon})

	report := c.Tick(context.Background())
	assert.Equal(t, "/wp/cloudy", report.Path)

	// Same group, different category: no change.
	fetcher.obs = observation(803)
	report = c.Tick(context.Background())
	assert.False(t, report.Applied)
	assert.Equal(t, engine.BrokenClouds, c.State().Weather)

	fetcher.obs = observation(600)
	report = c.Tick(context.Background())
	require.True(t, report.Applied)
	assert.Equal(t, "/wp/snow", report.Path)
}

func TestTick_DisabledDaytimeSuppressesWeatherSegment(t *testing.T) {
	fetcher := &fakeFetcher{obs: observation(501)}
	applier := &fakeApplier{}
	s := Settings{
		Modes:            engine.NewModeSet(engine.Daytime, engine.Weather),
		DisabledDaytimes: []engine.Phase{engine.Day},
	}
	c := newTestController(t, s, fetcher, applier, &clock{noon})

	report := c.Tick(context.Background())
	assert.Equal(t, "/wp/day", report.Path)
}

func TestTick_DegradedFallsBackToBasePathAndRecovers(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("dial tcp: connection refused")}
	applier := &fakeApplier{}
	store := &state.Store{}
	s := Settings{BasePath: "/wp/", Modes: engine.NewModeSet(engine.Daytime, engine.Weather), DisplayMode: "fill"}
	c, err := NewController(ControllerOptions{
		Settings: s, Fetcher: fetcher, Applier: applier, Store: store,
		Logger: quietLogger(), Now: (&clock{noon}).now,
	})
	require.NoError(t, err)

	report := c.Tick(context.Background())
	require.Error(t, report.FetchErr)
	require.True(t, report.Applied, "initial dirty state still applies")
	assert.Equal(t, "/wp/", report.Path)
	assert.True(t, c.State().Degraded)

	report = c.Tick(context.Background())
	assert.False(t, report.Applied, "repeated failures do not reapply")
	snap, ok := store.Snapshot()
	require.True(t, ok)
	assert.True(t, snap.Degraded)
	assert.Equal(t, 2, snap.ConsecutiveFailures)
	assert.True(t, snap.IsOffline())

	fetcher.err = nil
	fetcher.obs = observation(800)
	report = c.Tick(context.Background())
	require.True(t, report.Applied)
	assert.Equal(t, []string{ReasonRecovered}, report.Reasons)
	assert.Equal(t, "/wp/day/clear", report.Path)
	assert.False(t, c.State().Degraded)

	snap, _ = store.Snapshot()
	assert.Zero(t, snap.ConsecutiveFailures)
	assert.NoError(t, snap.LastError)
	assert.Equal(t, "/wp/day/clear", snap.ActivePath)
}

func TestTick_DegradedSkipsClassification(t *testing.T) {
	fetcher := &fakeFetcher{obs: observation(501)}
	applier := &fakeApplier{}
	clk := &clock{noon}
	c := newTestController(t, Settings{Modes: engine.NewModeSet(engine.Daytime, engine.Weather)}, fetcher, applier, clk)
	c.Tick(context.Background())

	fetcher.err = errors.New("timeout")
	clk.t = sunset.Add(time.Hour)
	c.Tick(context.Background())

	st := c.State()
	assert.Equal(t, engine.Day, st.Phase, "phase must not change while degraded")
	assert.Equal(t, "rain", st.WeatherLabel)
	assert.True(t, st.Degraded)
}

func TestTick_CycleIntervalScenario(t *testing.T) {
	applier := &fakeApplier{}
	c := newTestController(t, Settings{Modes: engine.NewModeSet(engine.Cycle), CycleInterval: 60}, nil, applier, &clock{noon})

	first := c.Tick(context.Background())
	require.True(t, first.Applied, "first tick applies the initial wallpaper")
	assert.Equal(t, []string{ReasonStart}, first.Reasons)

	for i := 2; i < 60; i++ {
		report := c.Tick(context.Background())
		require.False(t, report.Applied, "tick %d", i)
		require.Equal(t, i, c.State().CycleCount)
	}

	report := c.Tick(context.Background())
	require.True(t, report.Applied, "60th tick applies")
	assert.Equal(t, []string{ReasonCycle}, report.Reasons)
	assert.Equal(t, "/wp/", report.Path)
	assert.Zero(t, c.State().CycleCount)

	c.Tick(context.Background())
	assert.Equal(t, 1, c.State().CycleCount)
	assert.Len(t, applier.calls, 2)
}

func TestTick_CycleOnlyNeverFetches(t *testing.T) {
	fetcher := &fakeFetcher{obs: observation(501)}
	applier := &fakeApplier{}
	c := newTestController(t, Settings{Modes: engine.NewModeSet(engine.Cycle), CycleInterval: 5}, fetcher, applier, &clock{noon})

	for i := 0; i < 10; i++ {
		c.Tick(context.Background())
	}
	assert.Zero(t, fetcher.calls)
}

func TestTick_ApplyFailureClearsDirty(t *testing.T) {
	applier := &fakeApplier{err: errors.New("feh: exit status 1")}
	store := &state.Store{}
	c, err := NewController(ControllerOptions{
		Settings: Settings{BasePath: "/wp/", Modes: engine.NewModeSet(engine.Cycle), CycleInterval: 10},
		Applier:  applier,
		Store:    store,
		Logger:   quietLogger(),
	})
	require.NoError(t, err)

	report := c.Tick(context.Background())
	require.Error(t, report.ApplyErr)
	assert.False(t, c.State().Dirty)

	report = c.Tick(context.Background())
	assert.False(t, report.Applied, "failed apply is not retried")

	snap, _ := store.Snapshot()
	assert.Error(t, snap.LastApplyError)
	assert.True(t, snap.LastApplied.IsZero())
}

func TestTick_CancelledFetchDoesNotDegrade(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := &fakeFetcher{err: fmt.Errorf("execute request: %w", context.Canceled)}
	applier := &fakeApplier{}
	c := newTestController(t, Settings{Modes: engine.NewModeSet(engine.Weather)}, fetcher, applier, &clock{t: noon})

	report := c.Tick(ctx)
	require.Error(t, report.FetchErr)
	assert.False(t, report.Applied)
	assert.Empty(t, applier.calls)
	assert.False(t, c.State().Degraded)
	assert.Zero(t, c.failures)
}

func TestRun_TicksImmediatelyAndStopsOnCancel(t *testing.T) {
	store := &state.Store{}
	c, err := NewController(ControllerOptions{
		Settings: Settings{BasePath: "/wp/", Modes: engine.NewModeSet(engine.Cycle), CycleInterval: 5},
		Applier:  &fakeApplier{},
		Store:    store,
		Logger:   quietLogger(),
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx, time.Hour) }()

	require.Eventually(t, func() bool {
		snap, ok := store.Snapshot()
		return ok && snap.Ticks == 1
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
