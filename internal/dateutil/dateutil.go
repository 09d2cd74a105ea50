package dateutil

import (
	"fmt"
	"time"

	"github.com/calperry/stride/internal/constants"
	"github.com/calperry/stride/internal/errors"
)

// SameDay reports whether two times fall on the same calendar day,
// ignoring time-of-day. Both times are compared in their own locations.
func SameDay(d1, d2 time.Time) bool {
	y1, m1, day1 := d1.Date()
	y2, m2, day2 := d2.Date()
	return y1 == y2 && m1 == m2 && day1 == day2
}

// DayOfWeek maps a date to its locale-independent weekday token
// ("mon".."sun").
func DayOfWeek(date time.Time) constants.DayToken {
	switch date.Weekday() {
	case time.Sunday:
		return "sun"
	case time.Monday:
		return "mon"
	case time.Tuesday:
		return "tue"
	case time.Wednesday:
		return "wed"
	case time.Thursday:
		return "thu"
	case time.Friday:
		return "fri"
	default:
		return "sat"
	}
}

// IsLastDayOfMonth reports whether date is the final day of its month.
func IsLastDayOfMonth(date time.Time) bool {
	return date.AddDate(0, 0, 1).Day() == 1
}

// EnumerateDays returns every calendar day from start through end
// inclusive, ascending. The result is empty when start is after end.
func EnumerateDays(start, end time.Time) []time.Time {
	start = Truncate(start)
	end = Truncate(end)

	var days []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// Truncate strips the time-of-day component, keeping the date's own
// calendar fields and location.
func Truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Format renders a date as YYYY-MM-DD using the date's own calendar
// fields. The time is never converted to UTC first, so a late-evening
// timestamp in a western timezone formats as its local day.
func Format(date time.Time) string {
	return date.Format(constants.DateFormat)
}

// Parse parses a YYYY-MM-DD date string. Malformed input surfaces a
// DataError rather than a raw parse failure.
func Parse(dateStr string) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, dateStr)
	if err != nil {
		return time.Time{}, errors.NewDataError("date", dateStr, err)
	}
	return t, nil
}

// ParseInLocation parses a YYYY-MM-DD date string at midnight in the
// specified timezone.
func ParseInLocation(dateStr string, loc *time.Location) (time.Time, error) {
	t, err := Parse(dateStr)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
}

// DayCount returns the number of calendar days from start through end
// inclusive, and 0 when start is after end.
func DayCount(start, end time.Time) int {
	start = Truncate(start)
	end = Truncate(end)
	if start.After(end) {
		return 0
	}
	// Compare in UTC so a DST transition inside the range cannot skew
	// the hour arithmetic.
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return int(e.Sub(s).Hours()/24) + 1
}

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// NowInTimezone returns the current time in the specified timezone.
func NowInTimezone(timezone string) (time.Time, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return time.Now().In(loc), nil
}

// TodayInTimezone returns today's date string (YYYY-MM-DD) in the
// specified timezone. This ensures "today" is determined by the user's
// configured timezone, not the system timezone.
func TodayInTimezone(timezone string) (string, error) {
	now, err := NowInTimezone(timezone)
	if err != nil {
		return "", err
	}
	return Format(now), nil
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	if timezone == "" || timezone == "Local" {
		return true
	}
	_, err := time.LoadLocation(timezone)
	return err == nil
}
