package models

import (
	"testing"

	"github.com/calperry/stride/internal/constants"
)

func TestMapToSettingsRoundTrip(t *testing.T) {
	want := Settings{
		Timezone:         "America/New_York",
		StartOfWeek:      "sunday",
		DefaultFrequency: "weekly",
		StreakGraceDays:  2,
		ReportRangeDays:  90,
	}

	got, err := MapToSettings(SettingsToMap(want))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != want {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}
}

func TestMapToSettingsBadInt(t *testing.T) {
	for _, key := range []string{constants.SettingStreakGraceDays, constants.SettingReportRangeDays} {
		t.Run(key, func(t *testing.T) {
			if _, err := MapToSettings(map[string]string{key: "banana"}); err == nil {
				t.Errorf("expected error for non-numeric %s", key)
			}
		})
	}
}

func TestMapToSettingsIgnoresUnknownKeys(t *testing.T) {
	got, err := MapToSettings(map[string]string{
		constants.SettingTimezone: "UTC",
		"future_setting":          "whatever",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Timezone != "UTC" {
		t.Errorf("Timezone = %q, want UTC", got.Timezone)
	}
}

func TestApplyDefaultSettings(t *testing.T) {
	t.Run("fills empty fields", func(t *testing.T) {
		var s Settings
		ApplyDefaultSettings(&s)

		if s.Timezone != constants.DefaultTimezone {
			t.Errorf("Timezone = %q", s.Timezone)
		}
		if s.StartOfWeek != constants.DefaultStartOfWeek {
			t.Errorf("StartOfWeek = %q", s.StartOfWeek)
		}
		if s.DefaultFrequency != constants.DefaultFrequency {
			t.Errorf("DefaultFrequency = %q", s.DefaultFrequency)
		}
		if s.ReportRangeDays != constants.DefaultReportRangeDays {
			t.Errorf("ReportRangeDays = %d", s.ReportRangeDays)
		}
		// Zero grace days is the default, not a missing value.
		if s.StreakGraceDays != 0 {
			t.Errorf("StreakGraceDays = %d, want 0", s.StreakGraceDays)
		}
	})

	t.Run("preserves explicit values", func(t *testing.T) {
		s := Settings{
			Timezone:         "Europe/Berlin",
			StartOfWeek:      "sunday",
			DefaultFrequency: "monthly",
			StreakGraceDays:  1,
			ReportRangeDays:  7,
		}
		want := s
		ApplyDefaultSettings(&s)
		if s != want {
			t.Errorf("defaults clobbered explicit values: %+v", s)
		}
	})
}
