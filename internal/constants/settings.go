package constants

// Setting keys, as persisted in the settings table
const (
	SettingTimezone         = "timezone"
	SettingStartOfWeek      = "start_of_week"
	SettingDefaultFrequency = "default_frequency"
	SettingStreakGraceDays  = "streak_grace_days"
	SettingReportRangeDays  = "report_range_days"
)

// Setting defaults
const (
	DefaultTimezone        = "Local"
	DefaultStartOfWeek     = "monday"
	DefaultFrequency       = string(FrequencyDaily)
	DefaultStreakGraceDays = 0
	DefaultReportRangeDays = 30
	DefaultLogHistoryDays  = 365
)
