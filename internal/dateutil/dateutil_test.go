package dateutil

import (
	"testing"
	"time"

	"github.com/calperry/stride/internal/errors"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDayOfWeek(t *testing.T) {
	tests := []struct {
		date time.Time
		want string
	}{
		{date(2024, time.January, 1), "mon"},
		{date(2024, time.January, 2), "tue"},
		{date(2024, time.January, 3), "wed"},
		{date(2024, time.January, 4), "thu"},
		{date(2024, time.January, 5), "fri"},
		{date(2024, time.January, 6), "sat"},
		{date(2024, time.January, 7), "sun"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := string(DayOfWeek(tt.date)); got != tt.want {
				t.Errorf("DayOfWeek(%s) = %q, want %q", tt.date.Format("2006-01-02"), got, tt.want)
			}
		})
	}
}

func TestIsLastDayOfMonth(t *testing.T) {
	tests := []struct {
		name string
		date time.Time
		want bool
	}{
		{"leap february 29th", date(2024, time.February, 29), true},
		{"leap february 28th", date(2024, time.February, 28), false},
		{"non-leap february 28th", date(2023, time.February, 28), true},
		{"january 31st", date(2024, time.January, 31), true},
		{"april 30th", date(2024, time.April, 30), true},
		{"april 29th", date(2024, time.April, 29), false},
		{"december 31st", date(2024, time.December, 31), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsLastDayOfMonth(tt.date); got != tt.want {
				t.Errorf("IsLastDayOfMonth(%s) = %v, want %v", tt.date.Format("2006-01-02"), got, tt.want)
			}
		})
	}
}

func TestEnumerateDays(t *testing.T) {
	t.Run("inclusive range", func(t *testing.T) {
		days := EnumerateDays(date(2024, time.March, 30), date(2024, time.April, 2))
		if len(days) != 4 {
			t.Fatalf("expected 4 days, got %d", len(days))
		}
		if Format(days[0]) != "2024-03-30" {
			t.Errorf("first day = %s, want 2024-03-30", Format(days[0]))
		}
		if Format(days[3]) != "2024-04-02" {
			t.Errorf("last day = %s, want 2024-04-02", Format(days[3]))
		}
	})

	t.Run("single day", func(t *testing.T) {
		days := EnumerateDays(date(2024, time.June, 15), date(2024, time.June, 15))
		if len(days) != 1 {
			t.Fatalf("expected 1 day, got %d", len(days))
		}
	})

	t.Run("start after end is empty", func(t *testing.T) {
		days := EnumerateDays(date(2024, time.June, 16), date(2024, time.June, 15))
		if len(days) != 0 {
			t.Errorf("expected empty result, got %d days", len(days))
		}
	})
}

func TestDayCount(t *testing.T) {
	tests := []struct {
		name       string
		start, end time.Time
		want       int
	}{
		{"same day", date(2024, time.June, 15), date(2024, time.June, 15), 1},
		{"one week", date(2024, time.June, 1), date(2024, time.June, 7), 7},
		{"across leap day", date(2024, time.February, 28), date(2024, time.March, 1), 3},
		{"start after end", date(2024, time.June, 2), date(2024, time.June, 1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DayCount(tt.start, tt.end); got != tt.want {
				t.Errorf("DayCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		const s = "2024-07-09"
		d, err := Parse(s)
		if err != nil {
			t.Fatalf("Parse(%q) returned error: %v", s, err)
		}
		if Format(d) != s {
			t.Errorf("Format(Parse(%q)) = %q", s, Format(d))
		}
	})

	t.Run("malformed input is a data error", func(t *testing.T) {
		for _, s := range []string{"", "not-a-date", "2024-13-01", "07/09/2024"} {
			if _, err := Parse(s); !errors.IsDataError(err) {
				t.Errorf("Parse(%q) error = %v, want DataError", s, err)
			}
		}
	})
}

func TestSameDay(t *testing.T) {
	morning := time.Date(2024, time.June, 15, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2024, time.June, 15, 23, 30, 0, 0, time.UTC)
	nextDay := time.Date(2024, time.June, 16, 0, 0, 0, 0, time.UTC)

	if !SameDay(morning, evening) {
		t.Error("expected morning and evening of the same day to match")
	}
	if SameDay(evening, nextDay) {
		t.Error("expected different days not to match")
	}
}

func TestTruncate(t *testing.T) {
	ts := time.Date(2024, time.June, 15, 18, 45, 12, 999, time.UTC)
	got := Truncate(ts)
	if got.Hour() != 0 || got.Minute() != 0 || got.Second() != 0 || got.Nanosecond() != 0 {
		t.Errorf("Truncate left time-of-day: %v", got)
	}
	if !SameDay(ts, got) {
		t.Error("Truncate changed the calendar day")
	}
}

func TestTodayInTimezone(t *testing.T) {
	t.Run("valid timezone", func(t *testing.T) {
		today, err := TodayInTimezone("UTC")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := Parse(today); err != nil {
			t.Errorf("TodayInTimezone returned unparseable date %q", today)
		}
	})

	t.Run("invalid timezone", func(t *testing.T) {
		if _, err := TodayInTimezone("Not/AZone"); err == nil {
			t.Error("expected error for invalid timezone")
		}
	})
}

func TestValidateTimezone(t *testing.T) {
	tests := []struct {
		tz   string
		want bool
	}{
		{"", true},
		{"Local", true},
		{"UTC", true},
		{"America/New_York", true},
		{"Not/AZone", false},
	}

	for _, tt := range tests {
		if got := ValidateTimezone(tt.tz); got != tt.want {
			t.Errorf("ValidateTimezone(%q) = %v, want %v", tt.tz, got, tt.want)
		}
	}
}
