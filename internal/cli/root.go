package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/calperry/stride/internal/constants"
	"github.com/calperry/stride/internal/dateutil"
	"github.com/calperry/stride/internal/models"
	"github.com/calperry/stride/internal/storage"
)

type Context struct {
	Store storage.Provider
}

// Today returns the current date truncated to midnight in the user's
// configured timezone. Falls back to the system timezone when settings
// cannot be read.
func (c *Context) Today() time.Time {
	settings, err := c.Store.GetSettings()
	if err != nil {
		return dateutil.Truncate(time.Now())
	}
	now, err := dateutil.NowInTimezone(settings.Timezone)
	if err != nil {
		return dateutil.Truncate(time.Now())
	}
	return dateutil.Truncate(now)
}

// resolveHabit looks a habit up by title first, then by ID.
func (c *Context) resolveHabit(ref string) (models.Habit, error) {
	habit, err := c.Store.GetHabitByTitle(ref)
	if err == nil {
		return habit, nil
	}
	habit, err = c.Store.GetHabit(ref)
	if err != nil {
		return models.Habit{}, fmt.Errorf("habit %q not found", ref)
	}
	return habit, nil
}

// ParseCustomDays parses a comma-separated custom day list. Weekly
// habits take weekday tokens ("mon".."sun", long names accepted);
// monthly habits take day numbers 1..31 or "last".
func ParseCustomDays(frequency constants.Frequency, s string) ([]string, error) {
	if s == "" {
		return nil, nil
	}

	dayMap := map[string]string{
		"mon": "mon", "monday": "mon",
		"tue": "tue", "tuesday": "tue",
		"wed": "wed", "wednesday": "wed",
		"thu": "thu", "thursday": "thu",
		"fri": "fri", "friday": "fri",
		"sat": "sat", "saturday": "sat",
		"sun": "sun", "sunday": "sun",
	}

	var days []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(strings.ToLower(part))
		if part == "" {
			continue
		}

		switch frequency {
		case constants.FrequencyWeekly:
			token, ok := dayMap[part]
			if !ok {
				return nil, fmt.Errorf("invalid weekday: %s", part)
			}
			days = append(days, token)
		case constants.FrequencyMonthly:
			if part == constants.MonthDayLast {
				days = append(days, part)
				continue
			}
			num, err := strconv.Atoi(part)
			if err != nil || num < 1 || num > 31 {
				return nil, fmt.Errorf("invalid month day: %s (expected 1-31 or %q)", part, constants.MonthDayLast)
			}
			days = append(days, strconv.Itoa(num))
		default:
			return nil, fmt.Errorf("custom days only apply to weekly or monthly habits")
		}
	}

	return days, nil
}

// FormatFrequency formats a habit's recurrence into a human-readable string
func FormatFrequency(habit models.Habit) string {
	switch habit.Frequency {
	case constants.FrequencyDaily:
		return "daily"
	case constants.FrequencyWeekly:
		if len(habit.CustomDays) > 0 {
			return fmt.Sprintf("weekly on %s", strings.Join(habit.CustomDays, ","))
		}
		return "weekly (every day)"
	case constants.FrequencyMonthly:
		if len(habit.CustomDays) > 0 {
			return fmt.Sprintf("monthly on %s", strings.Join(habit.CustomDays, ","))
		}
		return "monthly (every day)"
	case constants.FrequencyCustom:
		return "custom (every day)"
	default:
		return string(habit.Frequency)
	}
}

// ValidateFrequency checks a frequency string against the known set.
func ValidateFrequency(s string) (constants.Frequency, error) {
	switch constants.Frequency(s) {
	case constants.FrequencyDaily, constants.FrequencyWeekly,
		constants.FrequencyMonthly, constants.FrequencyCustom:
		return constants.Frequency(s), nil
	}
	return "", fmt.Errorf("invalid frequency: %s (expected daily, weekly, monthly, or custom)", s)
}

// ValidateCategory checks a category string against the known set.
// Empty is allowed.
func ValidateCategory(s string) (constants.Category, error) {
	if s == "" {
		return "", nil
	}
	for _, cat := range constants.Categories {
		if constants.Category(s) == cat {
			return cat, nil
		}
	}
	return "", fmt.Errorf("invalid category: %s", s)
}
