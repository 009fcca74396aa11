package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/five82/wallweather/internal/config"
	"github.com/five82/wallweather/internal/openweather"
	"github.com/five82/wallweather/internal/prefs"
	"github.com/five82/wallweather/internal/state"
	"github.com/five82/wallweather/internal/ui"
	"github.com/five82/wallweather/internal/wallpaper"
)

// Options configure a wallweather run.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/wallweather/prefs.toml
	PollEvery  int    // seconds; zero uses the configured interval
	Once       bool   // evaluate and apply once, then exit
	Dashboard  bool   // show the terminal dashboard; logs go to the log file only
	Debug      bool
}

// Run loads configuration and drives the poll controller until ctx is
// cancelled, the dashboard is closed, or, with Once, a single tick is done.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, closeLog, err := newLogger(cfg, opts)
	if err != nil {
		return err
	}
	defer closeLog()

	interval := cfg.PollInterval
	if opts.PollEvery > 0 {
		interval = time.Duration(opts.PollEvery) * time.Second
	}

	store := &state.Store{}
	ctrl, err := newController(cfg, interval, logger, store)
	if err != nil {
		return fmt.Errorf("init controller: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"base_path": cfg.BasePath,
		"modes":     cfg.Modes.String(),
		"interval":  interval.String(),
	}).Info("wallweather starting")

	if opts.Once {
		report := ctrl.Tick(ctx)
		if report.ApplyErr != nil {
			return fmt.Errorf("apply wallpaper: %w", report.ApplyErr)
		}
		return nil
	}

	if !opts.Dashboard {
		return ctrl.Run(ctx, interval)
	}

	userPrefs, _ := prefs.Load(opts.PrefsPath)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return ctrl.Run(gctx, interval)
	})
	g.Go(func() error {
		// Closing the dashboard stops the controller too.
		defer cancel()
		return ui.Run(gctx, ui.Options{
			Store:     store,
			LogPath:   cfg.DaemonLogPath(),
			BasePath:  cfg.BasePath,
			ThemeName: userPrefs.Theme,
			HideLogs:  userPrefs.HideLogs,
			PrefsPath: opts.PrefsPath,
		})
	})
	return g.Wait()
}

func newController(cfg config.Config, interval time.Duration, logger logrus.FieldLogger, store *state.Store) (*Controller, error) {
	var fetcher openweather.Fetcher
	if cfg.Modes.NeedsWeather() {
		client, err := openweather.NewClient(openweather.Options{
			Endpoint:   cfg.Weather.Endpoint,
			APIKey:     cfg.Weather.APIKey,
			City:       cfg.Weather.City,
			Country:    cfg.Weather.Country,
			Logger:     logger.WithField("component", "openweather"),
			RetryAfter: interval / 2, // an open breaker still lets every tick through
		})
		if err != nil {
			return nil, fmt.Errorf("init weather client: %w", err)
		}
		fetcher = client
	}

	return NewController(ControllerOptions{
		Settings: settingsFromConfig(cfg),
		Fetcher:  fetcher,
		Applier:  wallpaper.NewSetter(cfg.Command, logger.WithField("component", "wallpaper")),
		Store:    store,
		Logger:   logger.WithField("component", "controller"),
	})
}

func settingsFromConfig(cfg config.Config) Settings {
	return Settings{
		BasePath:          cfg.BasePath,
		Modes:             cfg.Modes,
		Folders:           cfg.Folders,
		Groups:            cfg.Groups,
		GroupsEnabled:     cfg.GroupsEnabled,
		DisabledDaytimes:  cfg.DisabledDaytimes,
		CycleInterval:     cfg.CycleInterval,
		GoldenHourMinutes: cfg.GoldenHourMinutes,
		DisplayMode:       cfg.DisplayMode,
	}
}

// newLogger writes to the log file, and also to stderr unless the dashboard
// owns the terminal.
func newLogger(cfg config.Config, opts Options) (*logrus.Logger, func(), error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logger.SetLevel(logrus.InfoLevel)
	if opts.Debug {
		logger.SetLevel(logrus.DebugLevel)
	}

	path := cfg.DaemonLogPath()
	file, err := openLogFile(path)
	if err != nil {
		if opts.Dashboard {
			return nil, nil, err
		}
		logger.SetOutput(os.Stderr)
		logger.WithError(err).Warn("logging to stderr only")
		return logger, func() {}, nil
	}

	if opts.Dashboard {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: true})
		logger.SetOutput(file)
	} else {
		logger.SetOutput(io.MultiWriter(os.Stderr, file))
	}
	return logger, func() { _ = file.Close() }, nil
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return file, nil
}
