package models

import (
	"time"

	"github.com/calperry/stride/internal/constants"
)

// Habit represents a recurring practice to track
type Habit struct {
	ID          string              `json:"id"`
	UserID      string              `json:"user_id,omitempty"`
	Title       string              `json:"title"`
	Description string              `json:"description,omitempty"`
	Icon        string              `json:"icon,omitempty"`
	Color       string              `json:"color,omitempty"`
	Category    constants.Category  `json:"category,omitempty"`
	Frequency   constants.Frequency `json:"frequency"`

	// CustomDays holds weekday tokens ("mon".."sun") for weekly habits,
	// or month-day tokens ("1".."31", "last") for monthly habits. Empty
	// means "every day" (fallback).
	CustomDays []string `json:"custom_days,omitempty"`

	// Validity window, inclusive. Empty means unbounded.
	StartDate string `json:"start_date,omitempty"` // YYYY-MM-DD format
	EndDate   string `json:"end_date,omitempty"`   // YYYY-MM-DD format

	StreakEnabled bool `json:"streak_enabled"`
	// StreakResetAfterMissingDays is a per-habit grace threshold: a gap of
	// up to this many missed days does not break a streak. 0 defers to the
	// application-wide setting.
	StreakResetAfterMissingDays int `json:"streak_reset_after_missing_days,omitempty"`

	SortOrder int       `json:"sort_order"`
	Archived  bool      `json:"archived"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HabitLog is one record of completion intent for a habit on a calendar
// day. A log may exist with Completed=false, which is an explicit "not
// done" override distinct from no log at all.
type HabitLog struct {
	ID          string     `json:"id"`
	HabitID     string     `json:"habit_id"`
	UserID      string     `json:"user_id,omitempty"`
	LogDate     string     `json:"log_date"` // YYYY-MM-DD format
	Completed   bool       `json:"completed"`
	Notes       string     `json:"notes,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// HabitWithStats is a Habit enriched with derived, non-persisted stats.
// Recomputed on demand, never mutated in place by a caller.
type HabitWithStats struct {
	Habit
	CompletedToday        bool   `json:"completed_today"`
	CurrentStreak         int    `json:"current_streak"`
	LongestStreak         int    `json:"longest_streak"`
	TotalCompletions      int    `json:"total_completions"`
	CompletionsLast7Days  int    `json:"completions_last_7_days"`
	CompletionsLast30Days int    `json:"completions_last_30_days"`
	LastCompletedDate     string `json:"last_completed_date,omitempty"`
}
