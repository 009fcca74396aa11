package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var (
	testSunrise = time.Date(2025, 5, 11, 5, 14, 30, 0, time.UTC)
	testSunset  = time.Date(2025, 5, 11, 20, 41, 16, 0, time.UTC)
)

func TestClassifyDaytime_WithoutGoldenHour(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want Phase
	}{
		{"before sunrise", testSunrise.Add(-time.Hour), Night},
		{"at sunrise", testSunrise, Day},
		{"just after sunrise", testSunrise.Add(time.Second), Day},
		{"midday", time.Date(2025, 5, 11, 13, 0, 0, 0, time.UTC), Day},
		{"just before sunset", testSunset.Add(-time.Second), Day},
		{"at sunset", testSunset, Night},
		{"after sunset", testSunset.Add(2 * time.Hour), Night},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyDaytime(testSunrise, testSunset, false, 45, tt.now)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifyDaytime_NeverReturnsGoldenPhasesWhenDisabled(t *testing.T) {
	for now := testSunrise.Add(-2 * time.Hour); now.Before(testSunset.Add(2 * time.Hour)); now = now.Add(7 * time.Minute) {
		got := ClassifyDaytime(testSunrise, testSunset, false, 60, now)
		assert.Contains(t, []Phase{Day, Night}, got, "now=%s", now)
	}
}

func TestClassifyDaytime_WithGoldenHour(t *testing.T) {
	const halfWidth = 30
	w := halfWidth * time.Minute

	tests := []struct {
		name string
		now  time.Time
		want Phase
	}{
		{"before sunrise", testSunrise.Add(-time.Minute), Night},
		{"at sunrise", testSunrise, Sunrise},
		{"inside sunrise window", testSunrise.Add(w - time.Second), Sunrise},
		{"sunrise window end", testSunrise.Add(w), Day},
		{"midday", testSunrise.Add(6 * time.Hour), Day},
		{"just before sunset window", testSunset.Add(-w - time.Second), Day},
		{"sunset window start", testSunset.Add(-w), Sunset},
		{"just before sunset", testSunset.Add(-time.Second), Sunset},
		{"at sunset", testSunset, Night},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyDaytime(testSunrise, testSunset, true, halfWidth, tt.now)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifyDaytime_OverlappingWindowsPreferSunset(t *testing.T) {
	sunrise := time.Date(2025, 12, 21, 10, 0, 0, 0, time.UTC)
	sunset := sunrise.Add(2 * time.Hour)

	// 90 minute half-width: sunrise window ends 11:30, sunset window starts 10:30.
	assert.Equal(t, Sunrise, ClassifyDaytime(sunrise, sunset, true, 90, sunrise.Add(15*time.Minute)))
	assert.Equal(t, Sunset, ClassifyDaytime(sunrise, sunset, true, 90, sunrise.Add(30*time.Minute)))
	assert.Equal(t, Sunset, ClassifyDaytime(sunrise, sunset, true, 90, sunrise.Add(time.Hour)))
	assert.Equal(t, Sunset, ClassifyDaytime(sunrise, sunset, true, 90, sunset.Add(-90*time.Minute)))
}

func TestClassifyDaytime_ZeroHalfWidth(t *testing.T) {
	assert.Equal(t, Day, ClassifyDaytime(testSunrise, testSunset, true, 0, testSunrise))
	assert.Equal(t, Night, ClassifyDaytime(testSunrise, testSunset, true, 0, testSunset))
}

func TestParsePhase(t *testing.T) {
	for _, p := range Phases() {
		got, err := ParsePhase("  " + p.String() + " ")
		assert.NoError(t, err)
		assert.Equal(t, p, got)
	}
	got, err := ParsePhase("SUNSET")
	assert.NoError(t, err)
	assert.Equal(t, Sunset, got)

	_, err = ParsePhase("dusk")
	assert.Error(t, err)
}
