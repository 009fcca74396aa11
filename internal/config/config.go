package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/wallweather/internal/engine"
	"github.com/five82/wallweather/internal/wallpaper"
)

// Config is the validated wallweather configuration.
type Config struct {
	BasePath          string // always ends with a path separator
	Modes             engine.ModeSet
	CycleInterval     int // ticks
	GoldenHourMinutes int
	PollInterval      time.Duration
	DisplayMode       string
	Command           string
	LogDir            string
	DisabledDaytimes  []engine.Phase
	Folders           engine.FolderNames
	Groups            engine.WeatherGroups
	GroupsEnabled     bool
	Weather           WeatherConfig
}

// WeatherConfig locates the weather source.
type WeatherConfig struct {
	APIKey   string `toml:"api_key" validate:"required"`
	City     string `toml:"city" validate:"required"`
	Country  string `toml:"country" validate:"omitempty,len=2,alpha"`
	Endpoint string `toml:"endpoint" validate:"omitempty,url"`
}

const (
	defaultConfigPath    = "~/.config/wallweather/config.toml"
	defaultLogDir        = "~/.local/share/wallweather/logs"
	defaultCycleInterval = 30
	defaultPollInterval  = 60 * time.Second
	defaultDisplayMode   = "fill"
	defaultCommand       = "feh"
	envPrefix            = "WALLWEATHER"
	logFileName          = "wallweather.log"
)

type rawConfig struct {
	BasePath             string        `toml:"base_path" validate:"required"`
	Modes                []string      `toml:"modes"`
	CycleInterval        int           `toml:"cycle_interval" validate:"min=0"`
	GoldenHourMinutes    int           `toml:"golden_hour_minutes" validate:"min=0,max=720"`
	PollSeconds          int           `toml:"poll_seconds" validate:"min=0,max=86400"`
	DisplayMode          string        `toml:"display_mode" validate:"display_mode"`
	Command              string        `toml:"command"`
	LogDir               string        `toml:"log_dir"`
	DisabledDaytimes     []string      `toml:"disabled_daytimes"`
	WeatherGroupsEnabled bool          `toml:"weather_groups_enabled"`
	Weather              WeatherConfig `toml:"weather" validate:"-"`
	Folders              rawFolders    `toml:"folders"`
	WeatherGroups        []rawGroup    `toml:"weather_groups" validate:"dive"`
}

type rawFolders struct {
	Day     string `toml:"day"`
	Night   string `toml:"night"`
	Sunrise string `toml:"sunrise"`
	Sunset  string `toml:"sunset"`
}

type rawGroup struct {
	Name    string   `toml:"name" validate:"required"`
	Members []string `toml:"members" validate:"min=1"`
}

// envOverrides are read from WALLWEATHER_* variables, after an optional .env
// file next to the config file has been loaded.
type envOverrides struct {
	BasePath string `envconfig:"BASE_PATH"`
	APIKey   string `envconfig:"API_KEY"`
	City     string `envconfig:"CITY"`
	Country  string `envconfig:"COUNTRY"`
}

// Load reads, overrides and validates the configuration. Any error is fatal
// for the caller; the poll loop assumes a valid Config.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	raw, err := readFile(resolved)
	if err != nil {
		return Config{}, err
	}

	if err := applyEnv(filepath.Dir(resolved), &raw); err != nil {
		return Config{}, err
	}
	applyDefaults(&raw)

	return build(raw)
}

// DaemonLogPath returns the path of the wallweather log file.
func (c Config) DaemonLogPath() string {
	if strings.TrimSpace(c.LogDir) == "" {
		return mustExpand(defaultLogDir + "/" + logFileName)
	}
	return filepath.Join(c.LogDir, logFileName)
}

func readFile(path string) (rawConfig, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return rawConfig{}, fmt.Errorf("config file %s not found: %w", path, err)
		}
		return rawConfig{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return rawConfig{}, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return rawConfig{}, fmt.Errorf("parse config: %w", err)
	}
	return raw, nil
}

func applyEnv(dir string, raw *rawConfig) error {
	if err := godotenv.Load(filepath.Join(dir, ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	var env envOverrides
	if err := envconfig.Process(envPrefix, &env); err != nil {
		return fmt.Errorf("read environment: %w", err)
	}
	if v := strings.TrimSpace(env.BasePath); v != "" {
		raw.BasePath = v
	}
	if v := strings.TrimSpace(env.APIKey); v != "" {
		raw.Weather.APIKey = v
	}
	if v := strings.TrimSpace(env.City); v != "" {
		raw.Weather.City = v
	}
	if v := strings.TrimSpace(env.Country); v != "" {
		raw.Weather.Country = v
	}
	return nil
}

func applyDefaults(raw *rawConfig) {
	raw.BasePath = strings.TrimSpace(raw.BasePath)
	raw.DisplayMode = strings.ToLower(strings.TrimSpace(raw.DisplayMode))
	if raw.DisplayMode == "" {
		raw.DisplayMode = defaultDisplayMode
	}
	raw.Command = strings.TrimSpace(raw.Command)
	if raw.Command == "" {
		raw.Command = defaultCommand
	}
	raw.LogDir = strings.TrimSpace(raw.LogDir)
	if raw.LogDir == "" {
		raw.LogDir = defaultLogDir
	}
	if raw.CycleInterval == 0 {
		raw.CycleInterval = defaultCycleInterval
	}
	raw.Weather.APIKey = strings.TrimSpace(raw.Weather.APIKey)
	raw.Weather.City = strings.TrimSpace(raw.Weather.City)
	raw.Weather.Country = strings.ToUpper(strings.TrimSpace(raw.Weather.Country))
	raw.Weather.Endpoint = strings.TrimSpace(raw.Weather.Endpoint)
}

func newValidator() (*validator.Validate, error) {
	validate := validator.New()
	err := validate.RegisterValidation("display_mode", func(fl validator.FieldLevel) bool {
		return slices.Contains(wallpaper.DisplayModes, fl.Field().String())
	})
	if err != nil {
		return nil, fmt.Errorf("register display_mode validation: %w", err)
	}
	return validate, nil
}

func build(raw rawConfig) (Config, error) {
	validate, err := newValidator()
	if err != nil {
		return Config{}, err
	}
	if err := validate.Struct(raw); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}

	modes, err := parseModes(raw.Modes)
	if err != nil {
		return Config{}, err
	}
	if modes.NeedsWeather() {
		if err := validate.Struct(raw.Weather); err != nil {
			return Config{}, fmt.Errorf("validate [weather]: %w", err)
		}
	}

	disabled, err := parsePhases(raw.DisabledDaytimes)
	if err != nil {
		return Config{}, err
	}
	groups, err := parseGroups(raw.WeatherGroups)
	if err != nil {
		return Config{}, err
	}
	folders, err := parseFolders(raw.Folders)
	if err != nil {
		return Config{}, err
	}

	basePath, err := expandPath(raw.BasePath)
	if err != nil {
		return Config{}, fmt.Errorf("base_path: %w", err)
	}
	if !strings.HasSuffix(basePath, string(filepath.Separator)) {
		basePath += string(filepath.Separator)
	}

	poll := defaultPollInterval
	if raw.PollSeconds > 0 {
		poll = time.Duration(raw.PollSeconds) * time.Second
	}

	return Config{
		BasePath:          basePath,
		Modes:             modes,
		CycleInterval:     raw.CycleInterval,
		GoldenHourMinutes: raw.GoldenHourMinutes,
		PollInterval:      poll,
		DisplayMode:       raw.DisplayMode,
		Command:           raw.Command,
		LogDir:            mustExpand(raw.LogDir),
		DisabledDaytimes:  disabled,
		Folders:           folders,
		Groups:            groups,
		GroupsEnabled:     raw.WeatherGroupsEnabled,
		Weather:           raw.Weather,
	}, nil
}

func parseModes(tokens []string) (engine.ModeSet, error) {
	var modes engine.ModeSet
	for _, token := range tokens {
		m, err := engine.ParseMode(token)
		if err != nil {
			return 0, fmt.Errorf("modes: %w", err)
		}
		modes = modes.With(m)
	}
	return modes, nil
}

func parsePhases(tokens []string) ([]engine.Phase, error) {
	var phases []engine.Phase
	for _, token := range tokens {
		p, err := engine.ParsePhase(token)
		if err != nil {
			return nil, fmt.Errorf("disabled_daytimes: %w", err)
		}
		phases = append(phases, p)
	}
	return phases, nil
}

// parseFolders merges the overrides onto the defaults. A blank override keeps
// the default.
func parseFolders(raw rawFolders) (engine.FolderNames, error) {
	overrides := map[engine.Phase]string{
		engine.Day:     raw.Day,
		engine.Night:   raw.Night,
		engine.Sunrise: raw.Sunrise,
		engine.Sunset:  raw.Sunset,
	}
	for _, phase := range engine.Phases() {
		name := strings.TrimSpace(overrides[phase])
		if name == "" {
			continue
		}
		if err := checkSegment(name); err != nil {
			return nil, fmt.Errorf("folders.%s: %w", phase, err)
		}
	}
	return engine.MergeFolderNames(overrides), nil
}

// checkSegment rejects names that would not stay a single directory below
// base_path once joined into a wallpaper path.
func checkSegment(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("folder name is blank")
	case name == "." || name == "..":
		return fmt.Errorf("folder name %q is not allowed", name)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("folder name %q contains a path separator", name)
	}
	return nil
}

// parseGroups keeps configuration order and rejects a category listed in more
// than one group, so resolution never depends on order.
func parseGroups(raw []rawGroup) (engine.WeatherGroups, error) {
	owner := make(map[engine.Category]string)
	groups := make(engine.WeatherGroups, 0, len(raw))
	for _, rg := range raw {
		name := strings.TrimSpace(rg.Name)
		if err := checkSegment(name); err != nil {
			return nil, fmt.Errorf("weather group %q: %w", rg.Name, err)
		}
		group := engine.WeatherGroup{Name: name}
		for _, token := range rg.Members {
			c, err := engine.ParseCategory(token)
			if err != nil {
				return nil, fmt.Errorf("weather group %q: %w", name, err)
			}
			if prev, ok := owner[c]; ok && prev != name {
				return nil, fmt.Errorf("weather type %q is in groups %q and %q", c.Token(), prev, name)
			}
			if group.Contains(c) {
				continue
			}
			owner[c] = name
			group.Members = append(group.Members, c)
		}
		groups = append(groups, group)
	}
	return groups, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
