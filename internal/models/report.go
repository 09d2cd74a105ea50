package models

import "github.com/calperry/stride/internal/constants"

// DailyProgress summarizes one calendar day across scheduled habits.
type DailyProgress struct {
	Date            string `json:"date"` // YYYY-MM-DD format
	TotalHabits     int    `json:"total_habits"`
	CompletedHabits int    `json:"completed_habits"`
	Percentage      int    `json:"percentage"`
}

// WeeklyProgressDay is one day of the trailing-week progress series.
type WeeklyProgressDay struct {
	Date      string `json:"date"`
	DayName   string `json:"day_name"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
}

// WeeklyProgress is the trailing 7-day progress series ending today.
type WeeklyProgress struct {
	Days []WeeklyProgressDay `json:"days"`
}

// HeatmapDay is one cell of the calendar heatmap. TotalScheduled is the
// count of all active habits, not only the ones scheduled that day.
type HeatmapDay struct {
	Date           string `json:"date"`
	CompletionRate int    `json:"completion_rate"`
	CompletedCount int    `json:"completed_count"`
	TotalScheduled int    `json:"total_scheduled"`
}

// StreakInfo is a ranked streak entry for one habit.
type StreakInfo struct {
	HabitID       string `json:"habit_id"`
	HabitTitle    string `json:"habit_title"`
	Icon          string `json:"icon"`
	CurrentStreak int    `json:"current_streak"`
	LongestStreak int    `json:"longest_streak"`
	Rank          int    `json:"rank"`
}

// HabitAnalytics holds per-habit derived statistics for a date window.
type HabitAnalytics struct {
	HabitID          string               `json:"habit_id"`
	HabitTitle       string               `json:"habit_title"`
	Icon             string               `json:"icon"`
	CompletionRate   int                  `json:"completion_rate"`
	ConsistencyScore int                  `json:"consistency_score"`
	TotalCompletions int                  `json:"total_completions"`
	BestDayOfWeek    constants.DayToken   `json:"best_day_of_week"`
	BestTimeOfDay    constants.TimeBucket `json:"best_time_of_day"`
}

// WeekWindow is one fixed 7-day window of a week-over-week comparison.
type WeekWindow struct {
	Completions int    `json:"completions"`
	Rate        int    `json:"rate"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
}

// WeekComparison compares the current 7-day window against the
// preceding one. Change is a percentage, special-cased to 100 when the
// previous window had no completions and the current one does, and 0
// when both are empty.
type WeekComparison struct {
	CurrentWeek WeekWindow `json:"current_week"`
	LastWeek    WeekWindow `json:"last_week"`
	Change      int        `json:"change"`
}

// BehavioralInsights aggregates analytics across all habits.
type BehavioralInsights struct {
	BestDayOfWeek           constants.DayToken   `json:"best_day_of_week"`
	BestTimeOfDay           constants.TimeBucket `json:"best_time_of_day"`
	AverageConsistencyScore int                  `json:"average_consistency_score"`
	TotalActiveHabits       int                  `json:"total_active_habits"`
}

// ReportsData is the single aggregate result of a full reports request.
type ReportsData struct {
	HabitAnalytics  []HabitAnalytics    `json:"habit_analytics"`
	WeekComparison  *WeekComparison     `json:"week_comparison"`
	DisplayInsights *BehavioralInsights `json:"display_insights"`
	HeatmapData     []HeatmapDay        `json:"heatmap_data"`
	TopStreaks      []StreakInfo        `json:"top_streaks"`
}
