package models

import (
	"fmt"

	"github.com/calperry/stride/internal/constants"
)

// MapToSettings converts a map of key-value pairs to a Settings struct.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := Settings{}

	for key, value := range data {
		switch key {
		case constants.SettingTimezone:
			settings.Timezone = value
		case constants.SettingStartOfWeek:
			settings.StartOfWeek = value
		case constants.SettingDefaultFrequency:
			settings.DefaultFrequency = value
		case constants.SettingStreakGraceDays:
			if _, err := fmt.Sscanf(value, "%d", &settings.StreakGraceDays); err != nil {
				return Settings{}, fmt.Errorf("parsing streak_grace_days: %w", err)
			}
		case constants.SettingReportRangeDays:
			if _, err := fmt.Sscanf(value, "%d", &settings.ReportRangeDays); err != nil {
				return Settings{}, fmt.Errorf("parsing report_range_days: %w", err)
			}
		}
	}
	return settings, nil
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingTimezone:         settings.Timezone,
		constants.SettingStartOfWeek:      settings.StartOfWeek,
		constants.SettingDefaultFrequency: settings.DefaultFrequency,
		constants.SettingStreakGraceDays:  fmt.Sprintf("%d", settings.StreakGraceDays),
		constants.SettingReportRangeDays:  fmt.Sprintf("%d", settings.ReportRangeDays),
	}
}

// ApplyDefaultSettings applies default values to missing settings.
func ApplyDefaultSettings(settings *Settings) {
	if settings.Timezone == "" {
		settings.Timezone = constants.DefaultTimezone
	}
	if settings.StartOfWeek == "" {
		settings.StartOfWeek = constants.DefaultStartOfWeek
	}
	if settings.DefaultFrequency == "" {
		settings.DefaultFrequency = constants.DefaultFrequency
	}
	if settings.ReportRangeDays == 0 {
		settings.ReportRangeDays = constants.DefaultReportRangeDays
	}
}
