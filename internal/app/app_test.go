package app

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/wallweather/internal/config"
	"github.com/five82/wallweather/internal/engine"
)

func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, key := range []string{"WALLWEATHER_BASE_PATH", "WALLWEATHER_API_KEY", "WALLWEATHER_CITY", "WALLWEATHER_COUNTRY"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

// writeRunConfig lays out base/<sub>/a.jpg and returns the config path, the
// base directory and the log file path.
func writeRunConfig(t *testing.T, sub, extra string) (string, string, string) {
	t.Helper()
	base := t.TempDir()
	imgDir := filepath.Join(base, sub)
	require.NoError(t, os.MkdirAll(imgDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(imgDir, "a.jpg"), []byte("x"), 0o644))

	logDir := t.TempDir()
	path := filepath.Join(t.TempDir(), "config.toml")
	body := fmt.Sprintf("base_path = %q\nlog_dir = %q\n%s", base, logDir, extra)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path, base, filepath.Join(logDir, "wallweather.log")
}

func TestRun_OnceCycleOnly(t *testing.T) {
	isolateEnv(t)
	path, _, logPath := writeRunConfig(t, "", "modes = [\"cycle-mode\"]\ncommand = \"true\"\n")

	err := Run(context.Background(), Options{ConfigPath: path, Once: true})
	require.NoError(t, err)

	logged, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(logged), "wallweather starting")
	assert.Contains(t, string(logged), "applying wallpaper")
}

func TestRun_OnceWeatherModeAppliesCategoryFolder(t *testing.T) {
	isolateEnv(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/data/2.5/weather", r.URL.Path)
		assert.Equal(t, "Oslo,NO", r.URL.Query().Get("q"))
		now := time.Now()
		fmt.Fprintf(w, `{"weather":[{"id":501,"description":"moderate rain"}],"sys":{"sunrise":%d,"sunset":%d},"name":"Oslo"}`,
			now.Add(-time.Hour).Unix(), now.Add(time.Hour).Unix())
	}))
	defer srv.Close()

	extra := fmt.Sprintf("modes = [\"weather-mode\"]\ncommand = \"true\"\n[weather]\napi_key = \"k\"\ncity = \"Oslo\"\ncountry = \"no\"\nendpoint = %q\n", srv.URL)
	path, _, logPath := writeRunConfig(t, "rain", extra)

	err := Run(context.Background(), Options{ConfigPath: path, Once: true})
	require.NoError(t, err)

	logged, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(logged), "weather changed")
	assert.Contains(t, string(logged), "to=rain")
}

func TestRun_OnceReportsApplyFailure(t *testing.T) {
	isolateEnv(t)
	path, _, _ := writeRunConfig(t, "", "modes = [\"cycle-mode\"]\ncommand = \"false\"\n")

	err := Run(context.Background(), Options{ConfigPath: path, Once: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "apply wallpaper")
}

func TestRun_ConfigErrorIsFatal(t *testing.T) {
	isolateEnv(t)

	err := Run(context.Background(), Options{ConfigPath: filepath.Join(t.TempDir(), "missing.toml"), Once: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load config")
}

func TestRun_StopsWhenContextCancelled(t *testing.T) {
	isolateEnv(t)
	path, _, _ := writeRunConfig(t, "", "modes = [\"cycle-mode\"]\ncommand = \"true\"\n")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Run(ctx, Options{ConfigPath: path, PollEvery: 3600}) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestSettingsFromConfig(t *testing.T) {
	cfg := config.Config{
		BasePath:          "/wp/",
		Modes:             engine.NewModeSet(engine.Daytime, engine.GoldenHour),
		CycleInterval:     12,
		GoldenHourMinutes: 30,
		DisplayMode:       "tile",
		DisabledDaytimes:  []engine.Phase{engine.Night},
		Folders:           engine.DefaultFolderNames(),
		Groups:            engine.WeatherGroups{{Name: "wet", Members: []engine.Category{engine.Rain}}},
		GroupsEnabled:     true,
	}

	s := settingsFromConfig(cfg)
	assert.Equal(t, "/wp/", s.BasePath)
	assert.Equal(t, cfg.Modes, s.Modes)
	assert.Equal(t, 12, s.CycleInterval)
	assert.Equal(t, 30, s.GoldenHourMinutes)
	assert.Equal(t, "tile", s.DisplayMode)
	assert.Equal(t, cfg.DisabledDaytimes, s.DisabledDaytimes)
	assert.Equal(t, cfg.Groups, s.Groups)
	assert.True(t, s.GroupsEnabled)
}
