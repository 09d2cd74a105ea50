package schedule

import (
	"strconv"
	"time"

	"github.com/calperry/stride/internal/constants"
	"github.com/calperry/stride/internal/dateutil"
	"github.com/calperry/stride/internal/logger"
	"github.com/calperry/stride/internal/models"
)

// IsScheduled determines if a habit is due on the given date based on
// its recurrence rule and validity window. The function is pure and
// deterministic for identical inputs.
func IsScheduled(habit models.Habit, date time.Time) bool {
	date = dateutil.Truncate(date)

	// Check the validity window first, inclusive on both ends.
	if habit.StartDate != "" {
		start, err := dateutil.Parse(habit.StartDate)
		if err != nil {
			logger.Warn("Habit has unparseable start date, ignoring window", "habit", habit.ID, "start_date", habit.StartDate)
		} else if date.Before(start) {
			return false
		}
	}
	if habit.EndDate != "" {
		end, err := dateutil.Parse(habit.EndDate)
		if err != nil {
			logger.Warn("Habit has unparseable end date, ignoring window", "habit", habit.ID, "end_date", habit.EndDate)
		} else if date.After(end) {
			return false
		}
	}

	switch habit.Frequency {
	case constants.FrequencyDaily:
		return true

	case constants.FrequencyWeekly:
		// No days specified means every day (fallback).
		if len(habit.CustomDays) == 0 {
			return true
		}
		token := string(dateutil.DayOfWeek(date))
		for _, d := range habit.CustomDays {
			if d == token {
				return true
			}
		}
		return false

	case constants.FrequencyMonthly:
		if len(habit.CustomDays) == 0 {
			return true
		}
		lastDay := dateutil.IsLastDayOfMonth(date)
		for _, d := range habit.CustomDays {
			if d == constants.MonthDayLast {
				if lastDay {
					return true
				}
				continue
			}
			if n, err := strconv.Atoi(d); err == nil && n == date.Day() {
				return true
			}
		}
		return false

	case constants.FrequencyCustom:
		// Custom frequency does not filter. The upstream feature never
		// grew real rule semantics, so custom habits appear every day.
		return true

	default:
		// Permissive default for unrecognized frequencies.
		return true
	}
}

// HabitsOnDate filters habits down to the ones scheduled on date. Input
// ordering is preserved; archived habits are skipped.
func HabitsOnDate(habits []models.Habit, date time.Time) []models.Habit {
	scheduled := make([]models.Habit, 0, len(habits))
	for _, h := range habits {
		if h.Archived {
			continue
		}
		if IsScheduled(h, date) {
			scheduled = append(scheduled, h)
		}
	}
	return scheduled
}

// ForRange maps every day in [start, end] to the habits scheduled on
// it. Each day gets an entry even when no habit is scheduled. The
// result is empty when start is after end.
func ForRange(habits []models.Habit, start, end time.Time) map[string][]models.Habit {
	byDay := make(map[string][]models.Habit)
	for _, day := range dateutil.EnumerateDays(start, end) {
		byDay[dateutil.Format(day)] = HabitsOnDate(habits, day)
	}
	return byDay
}
