package models

// Settings represents application-wide settings
type Settings struct {
	Timezone         string `json:"timezone"`          // IANA timezone name (e.g. "America/New_York", or "Local" for system timezone)
	StartOfWeek      string `json:"start_of_week"`     // "monday" or "sunday", used by calendar views
	DefaultFrequency string `json:"default_frequency"` // frequency preselected for new habits
	StreakGraceDays  int    `json:"streak_grace_days"` // missed days tolerated before a streak breaks
	ReportRangeDays  int    `json:"report_range_days"` // default reports window length in days
}
